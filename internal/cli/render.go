package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ppiankov/conceptor/internal/concept"
)

const rule = "═══════════════════════════════════════════════════════════"

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func history(c *concept.Concept) string {
	var done []string
	if c.WasEvaluated() {
		done = append(done, "evaluated")
	}
	if c.WasAccepted() {
		done = append(done, "accepted")
	}
	if c.WasArchived() {
		done = append(done, "archived")
	}
	if c.WasAnonymized() {
		done = append(done, "anonymized")
	}
	if len(done) == 0 {
		return "-"
	}
	return strings.Join(done, ", ")
}

func renderConcept(w io.Writer, c *concept.Concept) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  Concept %s\n", c.ID())
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  State:\t%s\n", c.State())
	fmt.Fprintf(tw, "  History:\t%s\n", history(c))
	fmt.Fprintf(tw, "  Created:\t%s\n", c.CreatedAt().Format(time.RFC3339))
	fmt.Fprintf(tw, "  Expires:\t%s\n", c.ExpiresAt().Format(time.RFC3339))
	fmt.Fprintf(tw, "  Available:\t%t\n", c.IsAvailable())
	if c.Region() != "" {
		fmt.Fprintf(tw, "  Region:\t%s\n", c.Region())
	}
	if c.ProductType() != "" {
		fmt.Fprintf(tw, "  Product type:\t%s\n", c.ProductType())
	}
	if c.Stage() != "" {
		fmt.Fprintf(tw, "  Stage:\t%s\n", c.Stage())
	}
	if ideaID, err := c.IdeaID(); err == nil {
		fmt.Fprintf(tw, "  Idea:\t%s\n", ideaID)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nProblem:\n  %s\n", c.Problem())
	fmt.Fprintf(w, "\nPersona:\n  %s\n", c.Persona())

	ev, err := c.Evaluation()
	if err != nil {
		fmt.Fprintln(w)
		return
	}
	score := ev.ClarityScore()
	fmt.Fprintf(w, "\nEvaluation: %s (clarity %d/10)\n", ev.Status(), score.OverallScore)
	for _, s := range ev.Suggestions() {
		fmt.Fprintf(w, "  • %s\n", s)
	}
	for _, r := range ev.Recommendations() {
		fmt.Fprintf(w, "  → %s\n", r)
	}
	fmt.Fprintln(w)
}

func renderList(w io.Writer, concepts []*concept.Concept) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATE\tCREATED\tAVAILABLE\tPROBLEM")
	for _, c := range concepts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n",
			c.ID(),
			c.State(),
			c.CreatedAt().Format("2006-01-02"),
			c.IsAvailable(),
			truncate(c.Problem().String(), 60),
		)
	}
	_ = tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
