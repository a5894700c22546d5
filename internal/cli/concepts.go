package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/conceptor/internal/concept"
	"github.com/ppiankov/conceptor/internal/evaluation"
	"github.com/ppiankov/conceptor/internal/service"
	"github.com/ppiankov/conceptor/internal/store"
	"github.com/ppiankov/conceptor/internal/worker"
)

var (
	submission     service.Submission
	submitEvaluate bool
	evalFile       string
	evalFrom       string
	ideaID         string
	showJSON       bool
	listStates     []string
	listLimit      int
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a new concept as a draft",
	Long: `Submit stores a new draft concept and prints its id.

HTML in the problem or persona is reduced to its visible text.

Example:
  conceptor submit --problem "..." --persona "..." --region EU --stage idea
  conceptor submit --problem "..." --persona "..." --evaluate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := commandContext(cmd.Context())
		defer cancel()

		c, err := a.svc.Submit(ctx, submission)
		if err != nil {
			return fmt.Errorf("submit: %w", err)
		}
		if submitEvaluate {
			if c, err = a.svc.Evaluate(ctx, c.ID()); err != nil {
				return err
			}
			if verbose {
				renderConcept(os.Stderr, c)
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), c.ID())
		return nil
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [id...]",
	Short: "Evaluate draft concepts with the configured evaluator",
	Long: `Evaluate sends each draft to the LLM evaluator and attaches the result.

Ids come from the arguments and/or a file with one id per line. Several ids
are evaluated concurrently (concurrency.workers) and calls are rate limited
per provider. With --from, a single concept gets an evaluation read from a
JSON file instead.

Example:
  conceptor evaluate 3f6c...
  conceptor evaluate --file ids.txt
  conceptor evaluate 3f6c... --from evaluation.json`,
	RunE: runEvaluate,
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	if evalFrom != "" {
		if len(args) != 1 {
			return errors.New("--from needs exactly one concept id")
		}
		data, err := os.ReadFile(evalFrom)
		if err != nil {
			return fmt.Errorf("read evaluation: %w", err)
		}
		ev, err := evaluation.Decode(data)
		if err != nil {
			return err
		}
		c, err := a.svc.Attach(ctx, args[0], ev)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.ID(), ev.Status())
		return nil
	}

	ids := args
	if evalFile != "" {
		fromFile, err := worker.ReadIDsFromFile(evalFile)
		if err != nil {
			return err
		}
		ids = append(ids, fromFile...)
	}
	if len(ids) == 0 {
		return errors.New("no concept ids given")
	}

	fmt.Fprintf(os.Stderr, "⚙️  Evaluating %d concept(s) with %d workers...\n", len(ids), a.cfg.Concurrency.Workers)

	failures := 0
	for _, r := range a.batch().EvaluateIDs(ctx, ids) {
		if r.Error != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.ConceptID, r.Error)
			continue
		}
		ev, _ := r.Concept.Evaluation()
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.ConceptID, ev.Status())
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d evaluations failed", failures, len(ids))
	}
	return nil
}

var acceptCmd = &cobra.Command{
	Use:   "accept <id>",
	Short: "Accept an evaluated concept and record its idea id",
	Long: `Accept moves an evaluated concept to accepted. Without --idea-id a new
idea id is generated. An idea id can belong to one concept only.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transition(cmd, args[0], func(a *app, ctx context.Context) (*concept.Concept, error) {
			return a.svc.Accept(ctx, args[0], ideaID)
		})
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive an accepted concept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transition(cmd, args[0], func(a *app, ctx context.Context) (*concept.Concept, error) {
			return a.svc.Archive(ctx, args[0])
		})
	},
}

var anonymizeCmd = &cobra.Command{
	Use:   "anonymize <id>",
	Short: "Anonymize a concept",
	Long: `Anonymize replaces the problem and persona, redacts the evaluation and
moves the concept to anonymized. Ids, dates and history are kept. This cannot
be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transition(cmd, args[0], func(a *app, ctx context.Context) (*concept.Concept, error) {
			return a.svc.Anonymize(ctx, args[0])
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one concept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := commandContext(cmd.Context())
		defer cancel()

		c, err := a.svc.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if showJSON {
			return writeJSON(cmd.OutOrStdout(), c.Snapshot())
		}
		renderConcept(cmd.OutOrStdout(), c)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List concepts, oldest first",
	Long: `List prints stored concepts ordered by creation time.

Example:
  conceptor list
  conceptor list --state draft --state evaluated --limit 20`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := store.Filter{Limit: listLimit}
		for _, s := range listStates {
			st := concept.State(s)
			if !st.Valid() {
				return fmt.Errorf("unknown state: %s", s)
			}
			filter.States = append(filter.States, st)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := commandContext(cmd.Context())
		defer cancel()

		concepts, err := a.svc.List(ctx, filter)
		if err != nil {
			return err
		}
		if showJSON {
			snaps := make([]concept.Snapshot, 0, len(concepts))
			for _, c := range concepts {
				snaps = append(snaps, c.Snapshot())
			}
			return writeJSON(cmd.OutOrStdout(), snaps)
		}
		renderList(cmd.OutOrStdout(), concepts)
		return nil
	},
}

// transition runs one lifecycle command against a single concept and prints
// its new state.
func transition(cmd *cobra.Command, id string, apply func(*app, context.Context) (*concept.Concept, error)) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	c, err := apply(a, ctx)
	if err != nil {
		return fmt.Errorf("%s %s: %w", cmd.Name(), id, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.ID(), c.State())
	if verbose {
		renderConcept(os.Stderr, c)
	}
	return nil
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Anonymize concepts past their availability window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := commandContext(cmd.Context())
		defer cancel()

		n, err := a.svc.SweepExpired(ctx)
		fmt.Fprintf(cmd.OutOrStdout(), "anonymized %d expired concept(s)\n", n)
		return err
	},
}

func init() {
	rootCmd.AddCommand(submitCmd, evaluateCmd, acceptCmd, archiveCmd, anonymizeCmd, showCmd, listCmd, sweepCmd)

	f := submitCmd.Flags()
	f.StringVar(&submission.Problem, "problem", "", "problem statement (required)")
	f.StringVar(&submission.Persona, "persona", "", "persona description, at least 64 characters (required)")
	f.StringVar(&submission.Region, "region", "", "target region")
	f.StringVar(&submission.ProductType, "product-type", "", "product type")
	f.StringVar(&submission.Stage, "stage", "", "product stage")
	f.IntVar(&submission.ExpiryPeriodDays, "expiry-days", 0, "availability window in days (default: concept.expiry_period_days)")
	f.BoolVar(&submitEvaluate, "evaluate", false, "evaluate right after submitting")
	_ = submitCmd.MarkFlagRequired("problem")
	_ = submitCmd.MarkFlagRequired("persona")

	evaluateCmd.Flags().StringVar(&evalFile, "file", "", "file with one concept id per line")
	evaluateCmd.Flags().StringVar(&evalFrom, "from", "", "attach the evaluation in this JSON file instead of calling the evaluator")

	acceptCmd.Flags().StringVar(&ideaID, "idea-id", "", "id of the idea created from the concept (default: generated)")

	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the stored JSON document")
	listCmd.Flags().BoolVar(&showJSON, "json", false, "print JSON instead of a table")
	listCmd.Flags().StringSliceVar(&listStates, "state", nil, "only list concepts in these states")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of concepts (0 = all)")
}
