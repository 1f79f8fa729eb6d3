package main

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/colorforge/colorforge/internal/contrast"
	"github.com/colorforge/colorforge/internal/registry"
)

var (
	passBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true).Render("PASS")
	failBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render("FAIL")
)

type auditOptions struct {
	RegistryPath string
	JSON         bool
}

type auditFinding struct {
	Key       string  `json:"key"`
	Hex       string  `json:"hex"`
	Surface   string  `json:"surface"`
	Metric    string  `json:"metric"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
}

var auditCmdRunner = runAudit

func newAuditCmd() *cobra.Command {
	opts := auditOptions{}

	cmd := &cobra.Command{
		Use:   "audit <registry-file>",
		Short: "Re-verify every variant in a built registry against its surface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.RegistryPath = args[0]

			return auditCmdRunner(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output findings in JSON format")

	return cmd
}

func runAudit(cmd *cobra.Command, opts auditOptions) error {
	r, err := registry.Load(opts.RegistryPath)
	if err != nil {
		return err
	}

	findings := auditRegistry(r)

	if opts.JSON {
		out := struct {
			Checked  int            `json:"checked"`
			Failures []auditFinding `json:"failures"`
		}{Checked: len(r.Variants), Failures: findings}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		for _, f := range findings {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s on %s measured %.2f, requires %.2f\n",
				failBadge, f.Key, f.Hex, f.Surface, f.Value, f.Threshold)
		}
		badge := passBadge
		if len(findings) > 0 {
			badge = failBadge
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d variants checked, %d failing\n",
			badge, len(r.Variants), len(findings))
	}

	if len(findings) > 0 {
		return fmt.Errorf("audit found %d failing variants", len(findings))
	}
	return nil
}

// auditRegistry recomputes each variant's metric from its stored colors and
// compares it against the recorded threshold, catching artifacts edited or
// corrupted after the build.
func auditRegistry(r *registry.Registry) []auditFinding {
	var findings []auditFinding

	for key, v := range r.Variants {
		theme, ok := r.Themes[key.Theme]
		if !ok {
			continue
		}
		surface, ok := theme.Surfaces[key.Stack]
		if !ok {
			continue
		}
		if v.Evaluation.Metric == "wcag-exempt" {
			continue
		}

		var value float64
		switch r.Meta.Engine {
		case contrast.EngineAPCA:
			value = math.Abs(contrast.Lc(v.Hex, surface.Hex))
		default:
			value = contrast.Ratio(v.Hex, surface.Hex)
		}

		if value < v.Evaluation.Threshold {
			findings = append(findings, auditFinding{
				Key:       key.String(),
				Hex:       v.Hex,
				Surface:   surface.Hex,
				Metric:    v.Evaluation.Metric,
				Value:     value,
				Threshold: v.Evaluation.Threshold,
			})
		}
	}

	sort.Slice(findings, func(i, j int) bool { return findings[i].Key < findings[j].Key })
	return findings
}
