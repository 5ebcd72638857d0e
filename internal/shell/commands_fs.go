package shell

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-git/go-billy/v5/util"
)

func (s *Shell) cmdLs(_ context.Context, args []string) error {
	if len(args) > 1 {
		return errUsage
	}
	target := s.cwd
	if len(args) == 1 {
		target = s.resolve(args[0])
	}

	info, err := s.fsys.Stat(target)
	if err != nil {
		return fmt.Errorf("ls %s: %w", target, err)
	}
	if !info.IsDir() {
		fmt.Fprintln(s.out, info.Name())
		return nil
	}

	entries, err := s.fsys.ReadDir(target)
	if err != nil {
		return fmt.Errorf("ls %s: %w", target, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			name += "/"
		}
		fmt.Fprintln(s.out, name)
	}
	return nil
}

func (s *Shell) cmdCd(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	target := s.resolve(args[0])

	info, err := s.fsys.Stat(target)
	if err != nil {
		return fmt.Errorf("cd %s: %w", target, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cd %s: not a directory", target)
	}
	s.cwd = target
	return nil
}

func (s *Shell) cmdPwd(_ context.Context, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	fmt.Fprintln(s.out, s.cwd)
	return nil
}

func (s *Shell) cmdMkdir(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	target := s.resolve(args[0])
	if err := s.fsys.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", target, err)
	}
	return nil
}

func (s *Shell) cmdRm(_ context.Context, args []string) error {
	recursive := false
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg {
		case "-r", "--recursive":
			recursive = true
		default:
			paths = append(paths, arg)
		}
	}
	if len(paths) == 0 {
		return errUsage
	}

	// One bad operand does not stop the rest.
	for _, p := range paths {
		if err := s.removePath(s.resolve(p), recursive); err != nil {
			errColor.Fprintf(s.out, "Error: %v\n", err)
		}
	}
	return nil
}

func (s *Shell) removePath(target string, recursive bool) error {
	info, err := s.fsys.Stat(target)
	if err != nil {
		return fmt.Errorf("rm %s: %w", target, err)
	}
	if info.IsDir() {
		if !recursive {
			return fmt.Errorf("rm %s: is a directory (use -r)", target)
		}
		if !s.confirm(fmt.Sprintf("Recursively remove %s?", target)) {
			fmt.Fprintf(s.out, "Skipped %s.\n", target)
			return nil
		}
		if err := util.RemoveAll(s.fsys, target); err != nil {
			return fmt.Errorf("rm %s: %w", target, err)
		}
		return nil
	}
	if err := s.fsys.Remove(target); err != nil {
		return fmt.Errorf("rm %s: %w", target, err)
	}
	return nil
}

func (s *Shell) cmdCat(_ context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	for _, p := range args {
		target := s.resolve(p)
		data, err := util.ReadFile(s.fsys, target)
		if err != nil {
			return fmt.Errorf("cat %s: %w", target, err)
		}
		if len(args) > 1 {
			headerColor.Fprintf(s.out, "--- %s ---\n", p)
		}
		s.out.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			fmt.Fprintln(s.out)
		}
	}
	return nil
}
