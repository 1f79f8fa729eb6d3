package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colorforge/colorforge/internal/compile"
	"github.com/colorforge/colorforge/internal/logger"
	"github.com/colorforge/colorforge/internal/registry"
	"github.com/colorforge/colorforge/internal/spec"
)

type buildOptions struct {
	SpecPath string
	OutPath  string
	Verbose  bool
}

var buildCmdRunner = runBuild

func newBuildCmd(root *rootFlags) *cobra.Command {
	opts := buildOptions{}

	cmd := &cobra.Command{
		Use:   "build <spec-file>",
		Short: "Compile a color spec into a registry artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SpecPath = args[0]
			opts.Verbose = root.verbose

			return buildCmdRunner(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutPath, "out", "o", "registry.json", "Path to write the registry artifact")

	return cmd
}

func runBuild(cmd *cobra.Command, opts buildOptions) error {
	log, err := newLogger(opts.Verbose)
	if err != nil {
		return err
	}

	r, err := buildRegistry(opts.SpecPath, log)
	if err != nil {
		return err
	}

	if err := registry.Save(r, opts.OutPath); err != nil {
		return err
	}

	for _, w := range r.Warnings {
		fmt.Fprintf(cmd.OutOrStdout(), "warning [%s]: %s\n", w.Code, w.Message)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d tokens, %d variants, hash %s\n",
		opts.OutPath, r.Meta.TokenCount, r.Meta.VariantCount, r.Meta.ContentHash)

	return nil
}

// buildRegistry is the parse-compile-build pipeline shared with watch mode.
func buildRegistry(specPath string, log *logger.Logger) (*registry.Registry, error) {
	s, err := spec.ParseFile(specPath)
	if err != nil {
		return nil, err
	}

	c, err := compile.Compile(s, log)
	if err != nil {
		return nil, err
	}

	return registry.Build(c, log)
}
