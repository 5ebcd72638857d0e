package ledger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"

	"github.com/mantisos/aios/internal/ctxlog"
	"github.com/mantisos/aios/internal/hash"
)

// Registry owns the integrity ledger and the modules directory. All access
// goes through its methods; see the package documentation for the
// concurrency model.
type Registry struct {
	mu         sync.Mutex
	fsys       billy.Filesystem
	ledgerPath string
	modulesDir string
}

// Verified is the terminal result of a successful verification. A future
// executor component would consume it; this core only acknowledges it.
type Verified struct {
	Module string
	Args   []string
	Digest hash.Digest
}

// NewRegistry creates a Registry over the given filesystem. It eagerly loads
// the ledger once so that a present-but-unparseable ledger file surfaces as
// a startup error rather than silently weakening verification later.
func NewRegistry(fsys billy.Filesystem, ledgerPath, modulesDir string) (*Registry, error) {
	r := &Registry{
		fsys:       fsys,
		ledgerPath: ledgerPath,
		modulesDir: modulesDir,
	}
	if _, err := load(fsys, ledgerPath); err != nil {
		return nil, err
	}
	return r, nil
}

// checkName rejects module names that are not bare filenames. Ledger keys
// identify files directly inside the modules directory; a name carrying path
// separators could escape it.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return nil
}

func (r *Registry) modulePath(name string) string {
	return filepath.Join(r.modulesDir, name)
}

// Register computes the digest of the named module file and inserts or
// replaces its ledger record, persisting the full ledger before returning.
// Re-registering an existing name overwrites the prior digest; the replaced
// digest is logged so an operator-visible trace exists.
func (r *Registry) Register(ctx context.Context, name string) (hash.Digest, error) {
	logger := ctxlog.FromContext(ctx)

	if err := checkName(name); err != nil {
		return hash.Digest{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	path := r.modulePath(name)
	digest, err := hash.SumFile(r.fsys, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return hash.Digest{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return hash.Digest{}, err
	}

	records, err := load(r.fsys, r.ledgerPath)
	if err != nil {
		return hash.Digest{}, err
	}

	replaced := false
	for i := range records {
		if records[i].ModuleName == name {
			logger.Warn("Overwriting existing module registration.",
				"module", name, "old_hash", records[i].Hash, "new_hash", digest.Hex())
			records[i].Hash = digest.Hex()
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, Record{ModuleName: name, Hash: digest.Hex()})
	}

	if err := save(r.fsys, r.ledgerPath, records); err != nil {
		return hash.Digest{}, err
	}

	logger.Info("Module registered.", "module", name, "hash", digest.Hex())
	return digest, nil
}

// Run verifies the named module against its registered digest. The checks
// run in order: registration, file presence, digest match. On success it
// returns a Verified carrying the argument list; actual execution of module
// code is out of scope.
func (r *Registry) Run(ctx context.Context, name string, args []string) (*Verified, error) {
	logger := ctxlog.FromContext(ctx)

	if err := checkName(name); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := load(r.fsys, r.ledgerPath)
	if err != nil {
		return nil, err
	}

	var expected hash.Digest
	registered := false
	for _, rec := range records {
		if rec.ModuleName == name {
			expected, err = hash.ParseHex(rec.Hash)
			if err != nil {
				return nil, &StorageError{Op: "parse", Path: r.ledgerPath, Err: err}
			}
			registered = true
			break
		}
	}
	if !registered {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}

	path := r.modulePath(name)
	actual, err := hash.SumFile(r.fsys, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	if actual != expected {
		logger.Warn("Module integrity check failed.",
			"module", name, "expected", expected.Hex(), "actual", actual.Hex())
		return nil, &IntegrityError{Module: name, Expected: expected, Actual: actual}
	}

	logger.Info("Module verified.", "module", name, "hash", actual.Hex())
	return &Verified{Module: name, Args: args, Digest: actual}, nil
}

// Records returns a snapshot of the persisted ledger.
func (r *Registry) Records() ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return load(r.fsys, r.ledgerPath)
}

