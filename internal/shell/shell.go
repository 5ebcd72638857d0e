// Package shell implements the interactive command surface: it parses a line
// of whitespace-separated tokens into a command and arguments, routes the
// command to the module registry, the HAL service locator, or a filesystem
// passthrough, and formats the result into display lines.
//
// The dispatcher holds no state of its own beyond the command table and the
// current working directory used by the filesystem passthroughs.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5"

	"github.com/mantisos/aios/internal/ctxlog"
	"github.com/mantisos/aios/internal/hal"
	"github.com/mantisos/aios/internal/ledger"
)

// errUsage signals that a command was invoked with bad arguments; the
// dispatcher responds by printing the command's usage line.
var errUsage = errors.New("bad usage")

var (
	errColor    = color.New(color.FgRed)
	okColor     = color.New(color.FgGreen)
	headerColor = color.New(color.FgCyan)
)

// command is one entry of the dispatch table.
type command struct {
	name  string
	usage string
	help  string
	run   func(ctx context.Context, args []string) error
}

// Options configures a Shell.
type Options struct {
	FS       billy.Filesystem
	Out      io.Writer
	WorkDir  string
	Registry *ledger.Registry
	HAL      *hal.Locator
	// Confirm asks the user a yes/no question for destructive operations.
	// When nil, confirmation is always denied, which is the safe choice for
	// non-interactive use.
	Confirm func(prompt string) bool
}

// Shell dispatches command lines against a fixed command table.
type Shell struct {
	fsys     billy.Filesystem
	out      io.Writer
	cwd      string
	registry *ledger.Registry
	hal      *hal.Locator
	confirm  func(prompt string) bool
	commands map[string]*command
	order    []string
}

// New builds a shell with its full command table.
func New(opts Options) *Shell {
	confirm := opts.Confirm
	if confirm == nil {
		confirm = func(string) bool { return false }
	}
	cwd := opts.WorkDir
	if cwd == "" {
		cwd = "/"
	}

	s := &Shell{
		fsys:     opts.FS,
		out:      opts.Out,
		cwd:      path.Clean(cwd),
		registry: opts.Registry,
		hal:      opts.HAL,
		confirm:  confirm,
		commands: make(map[string]*command),
	}

	for _, cmd := range []*command{
		{"help", "help", "Shows this help message.", s.cmdHelp},
		{"echo", "echo [args...]", "Prints the arguments to the console.", s.cmdEcho},
		{"clear", "clear", "Clears the terminal screen.", s.cmdClear},
		{"ls", "ls [path]", "Lists directory contents.", s.cmdLs},
		{"cd", "cd <directory>", "Changes the current working directory.", s.cmdCd},
		{"pwd", "pwd", "Prints the current working directory.", s.cmdPwd},
		{"mkdir", "mkdir <directory>", "Creates a directory, including parents.", s.cmdMkdir},
		{"rm", "rm [-r] <path...>", "Removes files, or directories with -r.", s.cmdRm},
		{"cat", "cat <file...>", "Displays the content of one or more files.", s.cmdCat},
		{"register_mod", "register_mod <filename>", "Hashes a module file and records it in the integrity ledger.", s.cmdRegisterMod},
		{"run_mod", "run_mod <name> [args...]", "Verifies a registered module and simulates running it.", s.cmdRunMod},
		{"hal_devices", "hal_devices", "Lists the enumerated compute devices.", s.cmdHalDevices},
		{"tensor_zeros", "tensor_zeros <kind> <shape>", "Creates a zero tensor, e.g. tensor_zeros f32 2x3.", s.cmdTensorZeros},
		{"tensor_add", "tensor_add <kind> <shape> <a,..> <b,..>", "Adds two tensors element-wise.", s.cmdTensorAdd},
		{"emotion_test", "emotion_test <text...>", "Analyzes the emotional context of the input text.", s.cmdEmotionTest},
		{"celestial_add_cloud", "celestial_add_cloud <id> <x> <y> <z> <r> <g> <b> <a> <intensity> <shape>", "Stores an emotion cloud.", s.cmdCelestialAddCloud},
		{"celestial_list_clouds", "celestial_list_clouds", "Lists all stored emotion clouds.", s.cmdCelestialListClouds},
		{"celestial_remove_cloud", "celestial_remove_cloud <id>", "Removes an emotion cloud.", s.cmdCelestialRemoveCloud},
		{"celestial_add_node", "celestial_add_node <id> <x> <y> <z> <memory_ref> [cloud_ids...]", "Stores a resonant node.", s.cmdCelestialAddNode},
		{"celestial_list_nodes", "celestial_list_nodes", "Lists all stored resonant nodes.", s.cmdCelestialListNodes},
		{"exit", "exit", "Exits the shell.", nil},
	} {
		s.commands[cmd.name] = cmd
		s.order = append(s.order, cmd.name)
	}
	return s
}

// Dispatch parses one input line and runs the matching command. It returns
// true when the shell should terminate. Command failures are formatted to
// the output writer; they never propagate.
func (s *Shell) Dispatch(ctx context.Context, line string) (exit bool) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return false
	}
	name, args := tokens[0], tokens[1:]

	if name == "exit" {
		fmt.Fprintln(s.out, "Exiting aios...")
		return true
	}

	cmd, ok := s.commands[name]
	if !ok {
		errColor.Fprintf(s.out, "Unknown command: %s\n", name)
		return false
	}

	if err := cmd.run(ctx, args); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(s.out, "Usage: %s\n", cmd.usage)
			return false
		}
		ctxlog.FromContext(ctx).Debug("Command failed.", "command", name, "error", err)
		errColor.Fprintf(s.out, "Error: %v\n", err)
	}
	return false
}

// WorkDir returns the shell's current working directory.
func (s *Shell) WorkDir() string {
	return s.cwd
}

// resolve turns a command argument into an absolute, cleaned path.
func (s *Shell) resolve(p string) string {
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(s.cwd, p)
}

func (s *Shell) cmdHelp(_ context.Context, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	headerColor.Fprintln(s.out, "Available commands:")
	for _, name := range s.order {
		cmd := s.commands[name]
		fmt.Fprintf(s.out, "  %-44s - %s\n", cmd.usage, cmd.help)
	}
	return nil
}

func (s *Shell) cmdEcho(_ context.Context, args []string) error {
	fmt.Fprintln(s.out, strings.Join(args, " "))
	return nil
}

func (s *Shell) cmdClear(_ context.Context, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	// Clear screen and move the cursor home.
	fmt.Fprint(s.out, "\x1b[2J\x1b[H")
	return nil
}
