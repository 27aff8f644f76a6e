package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/prabalesh/procdeck/internal/models"
	"github.com/prabalesh/procdeck/internal/process"
	"github.com/prabalesh/procdeck/internal/profile"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <profile.json>",
		Short: "Validate a profile and list its groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profile.Load(args[0])
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), args[0], p)
			return nil
		},
	}
}

func printSummary(w io.Writer, path string, p *models.Profile) {
	fmt.Fprintf(w, "%s: %d groups, %d processes\n", path, len(p.Groups), p.ProcessCount())
	for i, g := range p.Groups {
		name := g.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(w, "%d. %s\n", i+1, name)
		for _, spec := range g.Processes {
			fmt.Fprintf(w, "   %s  (%s)\n", process.JoinArgs(spec.Args), spec.Dir)
		}
	}
}
