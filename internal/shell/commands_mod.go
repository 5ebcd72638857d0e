package shell

import (
	"context"
	"fmt"
)

func (s *Shell) cmdRegisterMod(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	name := args[0]

	digest, err := s.registry.Register(ctx, name)
	if err != nil {
		return err
	}
	okColor.Fprintf(s.out, "Module %s registered with hash: %s\n", name, digest)
	return nil
}

func (s *Shell) cmdRunMod(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	name, modArgs := args[0], args[1:]

	verified, err := s.registry.Run(ctx, name, modArgs)
	if err != nil {
		return err
	}
	okColor.Fprintf(s.out, "Module %s verified.\n", verified.Module)
	fmt.Fprintf(s.out, "(simulating execution with args: %v)\n", verified.Args)
	return nil
}
