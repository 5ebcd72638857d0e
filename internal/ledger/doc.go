// Package ledger implements the module integrity ledger: a persisted table
// mapping module names to content digests, and the register/verify protocol
// built on top of it.
//
// # Guarantee
//
// A module reaches Verified only when its current on-disk bytes match the
// bytes present at the most recent registration of that name. The ledger is
// durable, so the guarantee holds across process restarts.
//
// # Persistence
//
// The ledger is a flat JSON list of {module_name, hash} records, read fully
// on every lookup and rewritten fully on every registration. Rewrites go
// through a temporary file followed by a rename, so a crash mid-write never
// corrupts previously registered entries. There is no cryptographic chaining
// between entries.
//
// # Concurrency Model
//
// Registry serializes all operations behind a single mutex. The interactive
// shell issues one command at a time, but the ledger is shared mutable state
// and future callers (e.g. a networked control surface) must not be able to
// interleave a registration with a verification.
package ledger
