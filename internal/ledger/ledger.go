package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Record is one persisted ledger entry. The hash field holds the lowercase
// hexadecimal digest of the module content at registration time.
type Record struct {
	ModuleName string `json:"module_name"`
	Hash       string `json:"hash"`
}

// load reads and parses the full ledger. A missing file yields an empty
// ledger; an unreadable or unparseable file yields a StorageError.
func load(fsys billy.Filesystem, path string) ([]Record, error) {
	data, err := util.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}

	if len(data) == 0 {
		return nil, nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &StorageError{Op: "parse", Path: path, Err: err}
	}
	return records, nil
}

// save rewrites the full ledger. The new content is written to a temporary
// file in the same directory and renamed over the target, so readers observe
// either the old ledger or the new one, never a partial write.
func save(fsys billy.Filesystem, path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Path: path, Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return &StorageError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	tmp, err := util.TempFile(fsys, dir, "ledger-*.json")
	if err != nil {
		return &StorageError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = fsys.Remove(tmpName)
		return &StorageError{Op: "write", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = fsys.Remove(tmpName)
		return &StorageError{Op: "close", Path: tmpName, Err: err}
	}

	if err := fsys.Rename(tmpName, path); err != nil {
		_ = fsys.Remove(tmpName)
		return &StorageError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
