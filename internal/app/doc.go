// Package app contains the core application logic. It wires the integrity
// ledger, the hardware abstraction layer, and the command shell together,
// and drives the interactive read-eval-print loop, decoupled from any
// specific entrypoint like a CLI.
package app
