package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/conceptor/internal/service"
)

var batchEvaluate bool

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file.yaml>",
	Short: "Submit many concepts from a YAML file",
	Long: `Batch submits every entry of a YAML list and optionally evaluates the
new drafts in parallel.

File format:
  - problem: "Freelancers lose hours every month chasing unpaid invoices."
    persona: "Independent designer billing five to ten clients a month ..."
    region: EU
    product_type: saas
    stage: idea
    expiry_period_days: 14

Example:
  conceptor batch concepts.yaml
  conceptor batch concepts.yaml --evaluate`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().BoolVar(&batchEvaluate, "evaluate", false, "evaluate every submitted concept")
}

// readSubmissions decodes a YAML list of submissions.
func readSubmissions(path string) ([]service.Submission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	var subs []service.Submission
	if err := yaml.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("parse batch file %s: %w", path, err)
	}
	return subs, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	subs, err := readSubmissions(file)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", rule)
	fmt.Fprintf(os.Stderr, "  Conceptor Batch\n")
	fmt.Fprintf(os.Stderr, "%s\n", rule)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Concepts:     %d\n", len(subs))
	fmt.Fprintf(os.Stderr, "  Evaluate:     %t\n", batchEvaluate)
	fmt.Fprintf(os.Stderr, "\n")

	var ids []string
	failures := 0
	for i, sub := range subs {
		c, err := a.svc.Submit(ctx, sub)
		if err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ entry %d: %v\n", i+1, err)
			continue
		}
		ids = append(ids, c.ID())
		fmt.Fprintf(os.Stderr, "✓ entry %d submitted as %s\n", i+1, c.ID())
	}

	evaluated := 0
	if batchEvaluate && len(ids) > 0 {
		fmt.Fprintf(os.Stderr, "\n⚙️  Evaluating %d concept(s) with %d workers...\n\n", len(ids), a.cfg.Concurrency.Workers)
		for _, r := range a.batch().EvaluateIDs(ctx, ids) {
			if r.Error != nil {
				failures++
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.ConceptID, r.Error)
				continue
			}
			evaluated++
			ev, _ := r.Concept.Evaluation()
			fmt.Fprintf(os.Stderr, "✓ %s: %s\n", r.ConceptID, ev.Status())
		}
	}

	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", rule)
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "%s\n", rule)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Submitted:  %d/%d\n", len(ids), len(subs))
	if batchEvaluate {
		fmt.Fprintf(os.Stderr, "  Evaluated:  %d\n", evaluated)
	}
	fmt.Fprintf(os.Stderr, "  Failures:   %d\n", failures)
	fmt.Fprintf(os.Stderr, "\n")

	if failures > 0 {
		return fmt.Errorf("batch finished with %d failure(s)", failures)
	}
	return nil
}
