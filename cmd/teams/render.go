package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/okian/matchday/internal/domain/model"
)

func writeJSON(w io.Writer, plan model.Plan) error { //nolint:gocritic // hugeParam: read-only
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

// writeText prints one block per group followed by the matchups.
func writeText(w io.Writer, plan model.Plan) error { //nolint:gocritic // hugeParam: read-only
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, g := range plan.Groups {
		fmt.Fprintf(tw, "Group %d\tstrength %.3f\n", g.Index+1, g.Strength())
		for _, m := range g.Members {
			role := "starter"
			if m.IsBench {
				role = "bench"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%.2f\n", label(m.Participant), role, m.Strength)
		}
		fmt.Fprintln(tw)
	}

	fmt.Fprintln(tw, "Matchups")
	if len(plan.Matchups) == 0 {
		fmt.Fprintln(tw, "  none")
	}
	for _, m := range plan.Matchups {
		if m.IsBye() {
			fmt.Fprintf(tw, "  Group %d\tbye\t\n", m.Home+1)
			continue
		}
		fmt.Fprintf(tw, "  Group %d vs Group %d\tmismatch %.3f\n", m.Home+1, m.Away+1, m.Mismatch)
	}

	fmt.Fprintf(tw, "\nstd dev %.4f -> %.4f after %d swaps\n",
		plan.Stats.InitialStdDev, plan.Stats.FinalStdDev, plan.Stats.Swaps)
	if !plan.Ready() {
		fmt.Fprintln(tw, "warning: not enough active participants to fill every group")
	}
	return tw.Flush()
}

func label(p model.Participant) string { //nolint:gocritic // hugeParam: read-only
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
