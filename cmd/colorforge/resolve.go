package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colorforge/colorforge/internal/registry"
	"github.com/colorforge/colorforge/internal/resolver"
)

type resolveOptions struct {
	RegistryPath string
	Token        string
	Context      resolver.Context
	JSON         bool
}

var resolveCmdRunner = runResolve

func newResolveCmd() *cobra.Command {
	opts := resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve <token>",
		Short: "Resolve a token's color for a rendering context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Token = args[0]

			return resolveCmdRunner(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.RegistryPath, "registry", "r", "registry.json", "Path to the registry artifact")
	cmd.Flags().StringVar(&opts.Context.Theme, "theme", "", "Theme name or alias")
	cmd.Flags().StringVar(&opts.Context.FontSize, "font-size", "", "Font size class")
	cmd.Flags().StringVar(&opts.Context.Stack, "stack", "root", "Stack level")
	cmd.Flags().StringVar(&opts.Context.Vision, "vision", "", "Vision mode")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output the resolution in JSON format")
	cmd.MarkFlagRequired("theme") //nolint:errcheck

	return cmd
}

func runResolve(cmd *cobra.Command, opts resolveOptions) error {
	r, err := registry.Load(opts.RegistryPath)
	if err != nil {
		return err
	}

	ctx := opts.Context
	if ctx.FontSize == "" && len(r.FontSizes) > 0 {
		ctx.FontSize = r.FontSizes[0].Name
	}

	res := resolver.ResolveToken(r, opts.Token, ctx)
	if !res.Found {
		return fmt.Errorf("unknown token %q", opts.Token)
	}

	if opts.JSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s step %d, via %s)\n", res.Hex, res.Ramp, res.Step, res.Source)
	return nil
}
