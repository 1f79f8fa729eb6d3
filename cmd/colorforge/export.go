package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/colorforge/colorforge/internal/registry"
	"github.com/colorforge/colorforge/internal/resolver"
)

type exportOptions struct {
	RegistryPath string
	OutPath      string
	FontSize     string
	Stack        string
	Vision       string
}

var exportCmdRunner = runExport

func newExportCmd() *cobra.Command {
	opts := exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export resolved tokens as CSS custom properties",
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportCmdRunner(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.RegistryPath, "registry", "r", "registry.json", "Path to the registry artifact")
	cmd.Flags().StringVarP(&opts.OutPath, "out", "o", "", "Write CSS to a file instead of stdout")
	cmd.Flags().StringVar(&opts.FontSize, "font-size", "", "Font size class to export (defaults to the first declared)")
	cmd.Flags().StringVar(&opts.Stack, "stack", "root", "Stack level to export")
	cmd.Flags().StringVar(&opts.Vision, "vision", "", "Vision mode to export")

	return cmd
}

func runExport(cmd *cobra.Command, opts exportOptions) error {
	r, err := registry.Load(opts.RegistryPath)
	if err != nil {
		return err
	}

	css := exportCSS(r, opts)

	if opts.OutPath != "" {
		return os.WriteFile(opts.OutPath, []byte(css), 0o644)
	}
	fmt.Fprint(cmd.OutOrStdout(), css)
	return nil
}

// exportCSS emits one block per theme. The first declared theme doubles as
// the unscoped :root block so the variables exist before any data-theme
// attribute is set.
func exportCSS(r *registry.Registry, opts exportOptions) string {
	fontSize := opts.FontSize
	if fontSize == "" && len(r.FontSizes) > 0 {
		fontSize = r.FontSizes[0].Name
	}

	var b strings.Builder
	for i, theme := range r.ThemeOrder {
		resolved := resolver.ResolveAllTokens(r, resolver.Context{
			FontSize: fontSize,
			Theme:    theme,
			Stack:    opts.Stack,
			Vision:   opts.Vision,
		})

		names := make([]string, 0, len(resolved))
		for name, res := range resolved {
			if res.Found {
				names = append(names, name)
			}
		}
		sort.Strings(names)

		if i == 0 {
			b.WriteString(":root,\n")
		}
		fmt.Fprintf(&b, "[data-theme=%q] {\n", theme)
		for _, name := range names {
			fmt.Fprintf(&b, "  --%s: %s;\n", cssPropertyName(name), resolved[name].Hex)
		}
		b.WriteString("}\n")
		if i < len(r.ThemeOrder)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// cssPropertyName converts camelCase token names to the kebab-case CSS
// custom property convention.
func cssPropertyName(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
