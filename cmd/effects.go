package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lukaigt/MediaMorph/api/schemas"
	"github.com/lukaigt/MediaMorph/internal/config"
	"github.com/lukaigt/MediaMorph/internal/observability"
)

func newEffectsCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "effects",
		Short: "List the registered effects and their parameter schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			comps, err := NewComponents(cmd.Context(), config.Get(), observability.GetLogger())
			if err != nil {
				return err
			}
			defer comps.Close()

			for _, name := range comps.Registry.Names() {
				spec, err := comps.Registry.Describe(name)
				if err != nil {
					return err
				}
				if category != "" && spec.Category != schemas.Category(category) {
					continue
				}
				cmd.Printf("%-16s %-10s media=%s\n", spec.Name, spec.Category, joinKinds(spec.Media))
				for _, p := range spec.Parameters {
					if p.Kind == schemas.ParamDiscrete {
						cmd.Printf("    %s: one of [%s]\n", p.Name, strings.Join(p.Choices, ", "))
					} else {
						cmd.Printf("    %s: %g .. %g\n", p.Name, p.Min, p.Max)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only show effects in this category")
	return cmd
}

func newPlatformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List the configured platform policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			comps, err := NewComponents(cmd.Context(), config.Get(), observability.GetLogger())
			if err != nil {
				return err
			}
			defer comps.Close()

			for _, pol := range comps.Policies.All() {
				var reqs []string
				for _, req := range pol.RequiredSequence {
					if req.Min == req.Max {
						reqs = append(reqs, fmt.Sprintf("%s x%d", req.Category, req.Min))
					} else {
						reqs = append(reqs, fmt.Sprintf("%s x%d-%d", req.Category, req.Min, req.Max))
					}
				}
				cmd.Printf("%-12s %s\n", pol.Platform, strings.Join(reqs, " -> "))
			}
			return nil
		},
	}
}

func joinKinds(kinds []schemas.MediaKind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}
