package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, cfg Config) (*App, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	a := newApp(out, io.Discard, &cfg, memfs.New(), "/")
	return a, out
}

func TestNewAppUsesDefaults(t *testing.T) {
	a, _ := newTestApp(t, Config{})

	assert.NotEmpty(t, a.SessionID())
	assert.Equal(t, "modules", a.config.ModulesPath)
	assert.Equal(t, "ledger.json", a.config.LedgerPath)
	assert.Equal(t, ".aios_history", a.config.HistoryFile)

	// The modules directory is created eagerly.
	info, err := a.fsys.Stat("modules")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewAppFlagsWinOverConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "aios.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
modules_path = "from_file"
ledger_path  = "file_ledger.json"
`), 0o644))

	a, _ := newTestApp(t, Config{
		ConfigPath:  cfgPath,
		ModulesPath: "from_flag",
	})

	assert.Equal(t, "from_flag", a.config.ModulesPath)
	assert.Equal(t, "file_ledger.json", a.config.LedgerPath)
}

func TestNewAppHonorsConfigFileLogLevel(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "aios.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
log {
  level = "debug"
}
`), 0o644))

	logBuf := &bytes.Buffer{}
	a := newApp(&bytes.Buffer{}, logBuf, &Config{ConfigPath: cfgPath}, memfs.New(), "/")

	assert.Equal(t, "debug", a.config.LogLevel)
	assert.Contains(t, logBuf.String(), "Shell ready.")
}

func TestNewLoggerFormats(t *testing.T) {
	textBuf := &bytes.Buffer{}
	newLogger("debug", "text", textBuf).Debug("hello")
	assert.Contains(t, textBuf.String(), "msg=hello")

	jsonBuf := &bytes.Buffer{}
	newLogger("debug", "json", jsonBuf).Debug("hello")
	assert.Contains(t, jsonBuf.String(), `"msg":"hello"`)

	// Info is the floor when no level is configured.
	quietBuf := &bytes.Buffer{}
	logger := newLogger("", "text", quietBuf)
	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, quietBuf.String(), "hidden")
	assert.Contains(t, quietBuf.String(), "shown")
}

func TestNewAppPanicsOnCorruptLedger(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "ledger.json", []byte("{not json"), 0o644))

	require.Panics(t, func() {
		newApp(io.Discard, io.Discard, &Config{}, fsys, "/")
	})
}

func TestNewAppPanicsOnBadConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "aios.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte("modules_path = {{{"), 0o644))

	require.Panics(t, func() {
		newApp(io.Discard, io.Discard, &Config{ConfigPath: cfgPath}, memfs.New(), "/")
	})
}

func TestRunScriptStopsAtExit(t *testing.T) {
	a, out := newTestApp(t, Config{})

	script := strings.NewReader("echo before\nexit\necho after\n")
	require.NoError(t, a.RunScript(context.Background(), script))

	assert.Contains(t, out.String(), "before")
	assert.Contains(t, out.String(), "Exiting aios...")
	assert.NotContains(t, out.String(), "after")
}

func TestRunScriptDeniesConfirmations(t *testing.T) {
	a, out := newTestApp(t, Config{})

	script := strings.NewReader("mkdir /data\nrm -r /data\n")
	require.NoError(t, a.RunScript(context.Background(), script))

	assert.Contains(t, out.String(), "Skipped /data.")
	_, err := a.fsys.Stat("/data")
	assert.NoError(t, err)
}

func TestRunScriptModuleRoundTrip(t *testing.T) {
	a, out := newTestApp(t, Config{})
	require.NoError(t, util.WriteFile(a.fsys, "modules/core.wasm", []byte("binary"), 0o644))

	script := strings.NewReader("register_mod core.wasm\nrun_mod core.wasm\n")
	require.NoError(t, a.RunScript(context.Background(), script))

	assert.Contains(t, out.String(), "registered with hash:")
	assert.Contains(t, out.String(), "Module core.wasm verified.")
}

func TestHealthHandler(t *testing.T) {
	a, _ := newTestApp(t, Config{})
	require.NoError(t, util.WriteFile(a.fsys, "modules/core.wasm", []byte("binary"), 0o644))
	require.NoError(t, a.RunScript(context.Background(), strings.NewReader("register_mod core.wasm\n")))

	rec := httptest.NewRecorder()
	a.healthHandler(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, 200, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, a.SessionID(), body["session_id"])
	assert.Equal(t, float64(1), body["registered_modules"])
}
