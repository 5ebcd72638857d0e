// Package config loads the optional aios.hcl host configuration file. It
// defines where module artifacts and the integrity ledger live, how logging
// behaves, and the static compute device inventory exposed through the HAL.
//
// Config files are evaluated with a small set of host facts (hostname,
// num_cpu, arch) available as expression variables, so an inventory can be
// written once and remain truthful across machines.
package config
