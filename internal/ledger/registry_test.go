package ledger

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantisos/aios/internal/hash"
)

const (
	testLedger  = "ledger.json"
	testModules = "modules"
)

func newTestRegistry(t *testing.T) (*Registry, billy.Filesystem) {
	t.Helper()

	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll(testModules, 0o755))

	reg, err := NewRegistry(fsys, testLedger, testModules)
	require.NoError(t, err)
	return reg, fsys
}

func writeModule(t *testing.T, fsys billy.Filesystem, name string, content []byte) {
	t.Helper()
	require.NoError(t, util.WriteFile(fsys, testModules+"/"+name, content, 0o644))
}

func TestRegisterThenRunVerifies(t *testing.T) {
	t.Parallel()

	reg, fsys := newTestRegistry(t)
	ctx := context.Background()
	content := []byte("module payload v1")
	writeModule(t, fsys, "core.mod", content)

	digest, err := reg.Register(ctx, "core.mod")
	require.NoError(t, err)
	assert.Equal(t, hash.Sum(content), digest)

	verified, err := reg.Run(ctx, "core.mod", []string{"--fast", "x"})
	require.NoError(t, err)
	assert.Equal(t, "core.mod", verified.Module)
	assert.Equal(t, []string{"--fast", "x"}, verified.Args)
	assert.Equal(t, digest, verified.Digest)
}

func TestRunDetectsTampering(t *testing.T) {
	t.Parallel()

	reg, fsys := newTestRegistry(t)
	ctx := context.Background()
	writeModule(t, fsys, "core.mod", []byte("original"))

	expected, err := reg.Register(ctx, "core.mod")
	require.NoError(t, err)

	// Append a single byte after registration.
	writeModule(t, fsys, "core.mod", []byte("original!"))

	_, err = reg.Run(ctx, "core.mod", nil)
	require.Error(t, err)

	var integrityErr *IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, "core.mod", integrityErr.Module)
	assert.Equal(t, expected, integrityErr.Expected)
	assert.NotEqual(t, integrityErr.Expected, integrityErr.Actual)
}

func TestRunUnregisteredModule(t *testing.T) {
	t.Parallel()

	reg, fsys := newTestRegistry(t)
	writeModule(t, fsys, "ghost.mod", []byte("present but never registered"))

	_, err := reg.Run(context.Background(), "ghost.mod", nil)
	require.ErrorIs(t, err, ErrNotRegistered)
}

func TestRunReportsNotRegisteredBeforeMissingFile(t *testing.T) {
	t.Parallel()

	reg, _ := newTestRegistry(t)

	// Neither registered nor on disk: registration status wins.
	_, err := reg.Run(context.Background(), "absent.mod", nil)
	require.ErrorIs(t, err, ErrNotRegistered)
}

func TestRunMissingFileAfterRegister(t *testing.T) {
	t.Parallel()

	reg, fsys := newTestRegistry(t)
	ctx := context.Background()
	writeModule(t, fsys, "gone.mod", []byte("soon removed"))

	_, err := reg.Register(ctx, "gone.mod")
	require.NoError(t, err)
	require.NoError(t, fsys.Remove(testModules+"/gone.mod"))

	_, err = reg.Run(ctx, "gone.mod", nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterMissingFile(t *testing.T) {
	t.Parallel()

	reg, _ := newTestRegistry(t)
	_, err := reg.Register(context.Background(), "absent.mod")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterRejectsPathTraversal(t *testing.T) {
	t.Parallel()

	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	for _, name := range []string{"", ".", "..", "../ledger.json", "sub/mod", `sub\mod`} {
		_, err := reg.Register(ctx, name)
		assert.ErrorIs(t, err, ErrBadName, "name %q", name)
	}
}

func TestReregisterOverwrites(t *testing.T) {
	t.Parallel()

	reg, fsys := newTestRegistry(t)
	ctx := context.Background()

	writeModule(t, fsys, "core.mod", []byte("v1"))
	first, err := reg.Register(ctx, "core.mod")
	require.NoError(t, err)

	writeModule(t, fsys, "core.mod", []byte("v2"))
	second, err := reg.Register(ctx, "core.mod")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// Only one record per name, holding the latest digest.
	records, err := reg.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, second.Hex(), records[0].Hash)

	// Verification runs against the new digest.
	verified, err := reg.Run(ctx, "core.mod", nil)
	require.NoError(t, err)
	assert.Equal(t, second, verified.Digest)
}

func TestLedgerSurvivesRestart(t *testing.T) {
	t.Parallel()

	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll(testModules, 0o755))
	ctx := context.Background()

	reg, err := NewRegistry(fsys, testLedger, testModules)
	require.NoError(t, err)

	writeModule(t, fsys, "a.mod", []byte("aaa"))
	writeModule(t, fsys, "b.mod", []byte("bbb"))
	_, err = reg.Register(ctx, "a.mod")
	require.NoError(t, err)
	digestB, err := reg.Register(ctx, "b.mod")
	require.NoError(t, err)

	before, err := reg.Records()
	require.NoError(t, err)

	// A fresh registry over the same filesystem sees identical state.
	reborn, err := NewRegistry(fsys, testLedger, testModules)
	require.NoError(t, err)
	after, err := reborn.Records()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	verified, err := reborn.Run(ctx, "b.mod", nil)
	require.NoError(t, err)
	assert.Equal(t, digestB, verified.Digest)
}

func TestNewRegistryRejectsCorruptLedger(t *testing.T) {
	t.Parallel()

	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, testLedger, []byte("{not json["), 0o644))

	_, err := NewRegistry(fsys, testLedger, testModules)
	require.Error(t, err)

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "parse", storageErr.Op)
}

func TestNewRegistryAcceptsMissingAndEmptyLedger(t *testing.T) {
	t.Parallel()

	fsys := memfs.New()
	_, err := NewRegistry(fsys, testLedger, testModules)
	require.NoError(t, err)

	require.NoError(t, util.WriteFile(fsys, testLedger, nil, 0o644))
	_, err = NewRegistry(fsys, testLedger, testModules)
	require.NoError(t, err)
}

func TestSavedLedgerShape(t *testing.T) {
	t.Parallel()

	reg, fsys := newTestRegistry(t)
	ctx := context.Background()
	writeModule(t, fsys, "core.mod", []byte("payload"))

	digest, err := reg.Register(ctx, "core.mod")
	require.NoError(t, err)

	// The persisted file is a flat JSON list of {module_name, hash} objects.
	raw, err := util.ReadFile(fsys, testLedger)
	require.NoError(t, err)

	var entries []map[string]string
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "core.mod", entries[0]["module_name"])
	assert.Equal(t, digest.Hex(), entries[0]["hash"])
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	reg, fsys := newTestRegistry(t)
	writeModule(t, fsys, "core.mod", []byte("payload"))
	_, err := reg.Register(context.Background(), "core.mod")
	require.NoError(t, err)

	infos, err := fsys.ReadDir(".")
	require.NoError(t, err)
	for _, info := range infos {
		assert.NotContains(t, info.Name(), "ledger-", "leftover temp file %s", info.Name())
	}
}
