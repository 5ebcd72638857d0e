package config

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/mantisos/aios/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// File is the decoded form of an aios.hcl configuration file.
type File struct {
	// ModulesPath is the directory holding registerable module artifacts.
	ModulesPath string `hcl:"modules_path,optional"`
	// LedgerPath is the location of the persisted integrity ledger.
	LedgerPath string `hcl:"ledger_path,optional"`
	// HistoryFile is where the interactive shell stores its line history.
	HistoryFile string `hcl:"history_file,optional"`

	Log     *Log     `hcl:"log,block"`
	Devices []Device `hcl:"device,block"`
}

// Log configures the slog handler built at startup.
type Log struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
}

// Device declares one entry of the static compute inventory.
type Device struct {
	Name         string   `hcl:"name,label"`
	Kind         string   `hcl:"kind"`
	Capabilities []string `hcl:"capabilities,optional"`
}

// Default returns the configuration used when no config file is present.
func Default() *File {
	return &File{
		ModulesPath: "modules",
		LedgerPath:  "ledger.json",
		HistoryFile: ".aios_history",
	}
}

// applyDefaults backfills path fields the config source did not set.
func (f *File) applyDefaults() {
	def := Default()
	if f.ModulesPath == "" {
		f.ModulesPath = def.ModulesPath
	}
	if f.LedgerPath == "" {
		f.LedgerPath = def.LedgerPath
	}
	if f.HistoryFile == "" {
		f.HistoryFile = def.HistoryFile
	}
}

// evalContext exposes host facts to HCL expressions.
func evalContext() *hcl.EvalContext {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"hostname": cty.StringVal(hostname),
			"num_cpu":  cty.NumberIntVal(int64(runtime.NumCPU())),
			"arch":     cty.StringVal(runtime.GOARCH),
		},
	}
}

// Load parses the config file at path. A missing file is not an error: the
// defaults are returned so the shell can start with no configuration at all.
func Load(ctx context.Context, path string) (*File, error) {
	logger := ctxlog.FromContext(ctx)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Debug("No config file found, using defaults.", "path", path)
		return Default(), nil
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	cfg := &File{}
	if diags := gohcl.DecodeBody(hclFile.Body, evalContext(), cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}
	cfg.applyDefaults()

	logger.Debug("Config file loaded.", "path", path, "devices", len(cfg.Devices))
	return cfg, nil
}

// LoadBytes parses configuration from an in-memory buffer. The filename is
// only used in diagnostics.
func LoadBytes(ctx context.Context, src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, diags)
	}

	cfg := &File{}
	if diags := gohcl.DecodeBody(hclFile.Body, evalContext(), cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config %s: %w", filename, diags)
	}
	cfg.applyDefaults()

	ctxlog.FromContext(ctx).Debug("Config buffer loaded.", "filename", filename)
	return cfg, nil
}
