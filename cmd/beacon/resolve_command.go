package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"beacon/internal/api"
	"beacon/internal/config"
	"beacon/internal/match"
	"beacon/internal/merge"
	"beacon/internal/record"
	"beacon/internal/resolution"
	"beacon/internal/roster"
	"beacon/internal/urgency"
)

type resolveFlags struct {
	name          string
	age           string
	height        string
	weight        string
	skinTone      string
	gender        string
	substances    string
	notes         string
	location      string
	transcription string
	photo         string
	worker        string
	danger        []string

	jsonOutput bool
	acceptAll  bool
	createNew  bool
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	flags := &resolveFlags{}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a new field observation against the roster",
		Long: "Normalizes the observation, scores it against every known individual, " +
			"and either merges automatically, walks through a field-by-field review, " +
			"or creates a new roster entry.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withResolveLock(func() error {
				return ctx.withStore(func(cfg *config.Config, store *roster.Store) error {
					return runResolve(cmd, ctx, cfg, store, flags)
				})
			})
		},
	}

	cmd.Flags().StringVar(&flags.name, "name", "", "Observed name")
	cmd.Flags().StringVar(&flags.age, "age", "", "Observed age or age range (e.g. 47 or 45-50)")
	cmd.Flags().StringVar(&flags.height, "height", "", "Observed height in inches")
	cmd.Flags().StringVar(&flags.weight, "weight", "", "Observed weight in pounds")
	cmd.Flags().StringVar(&flags.skinTone, "skin-tone", "", "Observed skin tone")
	cmd.Flags().StringVar(&flags.gender, "gender", "", "Observed gender")
	cmd.Flags().StringVar(&flags.substances, "substances", "", "Observed substance history")
	cmd.Flags().StringVar(&flags.notes, "notes", "", "Free-text notes")
	cmd.Flags().StringVar(&flags.location, "location", "", "Encounter location")
	cmd.Flags().StringVar(&flags.transcription, "transcription", "", "Voice transcription text")
	cmd.Flags().StringVar(&flags.photo, "photo", "", "Path to a captured photo")
	cmd.Flags().StringVar(&flags.worker, "worker", "", "Outreach worker identifier")
	cmd.Flags().StringArrayVar(&flags.danger, "danger", nil, "Danger indicator (repeatable)")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Emit the outcome as JSON")
	cmd.Flags().BoolVar(&flags.acceptAll, "accept-defaults", false, "Accept default field selections without prompting")
	cmd.Flags().BoolVar(&flags.createNew, "create-new", false, "Skip any candidate and create a new individual")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runResolve(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, store *roster.Store, flags *resolveFlags) error {
	logger, err := ctx.logger()
	if err != nil {
		return err
	}
	engine := ctx.newEngine(cfg, store, logger)

	raw := record.RawObservation{
		Fields: map[string]string{
			record.FieldName:             flags.name,
			record.FieldAge:              flags.age,
			record.FieldHeight:           flags.height,
			record.FieldWeight:           flags.weight,
			record.FieldSkinTone:         flags.skinTone,
			record.FieldGender:           flags.gender,
			record.FieldSubstanceHistory: flags.substances,
			record.FieldNotes:            flags.notes,
		},
		Location:      flags.location,
		Transcription: flags.transcription,
		PhotoPath:     flags.photo,
		WorkerID:      flags.worker,
	}

	pass, err := engine.Begin(cmd.Context(), raw, flags.danger)
	if err != nil {
		return resolveError(cmd, flags, err)
	}

	if flags.createNew {
		return commitCreate(cmd, ctx, engine, pass, flags)
	}

	switch pass.Decision.Tier {
	case match.TierAutoMerge:
		outcome, err := engine.ConfirmMerge(cmd.Context(), pass)
		if err != nil {
			return resolveError(cmd, flags, err)
		}
		return emitOutcome(cmd, ctx, flags, outcome)
	case match.TierManualReview:
		return runReview(cmd, ctx, engine, pass, flags)
	default:
		return commitCreate(cmd, ctx, engine, pass, flags)
	}
}

// runReview walks the user through the per-field comparison, or applies the
// defaults when the session is non-interactive.
func runReview(cmd *cobra.Command, ctx *commandContext, engine *resolution.Engine, pass *resolution.Pass, flags *resolveFlags) error {
	out := cmd.OutOrStdout()
	candidate := pass.Candidate()

	if notifier, err := ctx.notifier(); err == nil {
		_ = notifier.NotifyReviewNeeded(cmd.Context(), candidate.Fields.Name, pass.Decision.Confidence)
	}

	if flags.jsonOutput && !flags.acceptAll {
		// JSON mode has no prompt loop; surface the pending review instead.
		engine.Cancel(pass)
		return writeJSON(cmd, api.FromPass(pass))
	}

	fmt.Fprintf(out, "Possible match: %s (confidence %.1f)\n\n", candidate.Fields.Name, pass.Decision.Confidence)
	fmt.Fprintln(out, renderComparisons(pass.Merge.Comparisons()))

	if flags.acceptAll {
		outcome, err := engine.ConfirmMerge(cmd.Context(), pass)
		if err != nil {
			return resolveError(cmd, flags, err)
		}
		return emitOutcome(cmd, ctx, flags, outcome)
	}

	in := bufio.NewReader(cmd.InOrStdin())
	for _, comparison := range pass.Merge.Conflicts() {
		question := fmt.Sprintf("%s: keep new %q or existing %q? [n/e]: ",
			comparison.Field, comparison.NewValue, comparison.ExistingValue)
		answer, err := prompt(out, in, question)
		if err != nil {
			return err
		}
		if answer == "e" || answer == "existing" {
			if err := pass.Merge.Select(comparison.Field, merge.SourceExisting); err != nil {
				return err
			}
		}
	}

	action, err := prompt(out, in, "\nConfirm [m]erge, [c]reate new, or c[a]ncel: ")
	if err != nil {
		return err
	}
	switch action {
	case "m", "merge":
		outcome, err := engine.ConfirmMerge(cmd.Context(), pass)
		if err != nil {
			return resolveError(cmd, flags, err)
		}
		return emitOutcome(cmd, ctx, flags, outcome)
	case "c", "create":
		return commitCreate(cmd, ctx, engine, pass, flags)
	default:
		engine.Cancel(pass)
		fmt.Fprintln(out, "Resolution cancelled, nothing was saved.")
		return nil
	}
}

func commitCreate(cmd *cobra.Command, ctx *commandContext, engine *resolution.Engine, pass *resolution.Pass, flags *resolveFlags) error {
	outcome, err := engine.CreateNew(cmd.Context(), pass)
	if err != nil {
		return resolveError(cmd, flags, err)
	}
	return emitOutcome(cmd, ctx, flags, outcome)
}

func emitOutcome(cmd *cobra.Command, ctx *commandContext, flags *resolveFlags, outcome *resolution.Outcome) error {
	notifyOutcome(cmd, ctx, outcome)

	if flags.jsonOutput {
		return writeJSON(cmd, api.FromOutcome(outcome))
	}

	out := cmd.OutOrStdout()
	ind := outcome.Individual
	switch outcome.Action {
	case resolution.ActionMerged:
		fmt.Fprintf(out, "Merged into %s (%s), confidence %.1f\n", ind.Fields.Name, ind.ID, outcome.Confidence)
	case resolution.ActionCreated:
		fmt.Fprintf(out, "Created new individual %s (%s)\n", ind.Fields.Name, ind.ID)
	}
	fmt.Fprintf(out, "Urgency: %d (%s)\n", ind.DisplayScore(), colorizeBand(out, ind.Band()))
	if outcome.PhotoURL != "" {
		fmt.Fprintf(out, "Photo stored at %s\n", outcome.PhotoURL)
	}
	for _, warning := range outcome.Warnings {
		fmt.Fprintf(out, "Warning [%s]: %s\n", warning.Code, warning.UserMessage)
	}
	return nil
}

func notifyOutcome(cmd *cobra.Command, ctx *commandContext, outcome *resolution.Outcome) {
	notifier, err := ctx.notifier()
	if err != nil || outcome.Individual == nil {
		return
	}
	ind := outcome.Individual
	if outcome.Action == resolution.ActionCreated {
		_ = notifier.NotifyNewIndividual(cmd.Context(), ind.Fields.Name)
	}
	if ind.Band() == urgency.BandCritical {
		_ = notifier.NotifyCriticalUrgency(cmd.Context(), ind.Fields.Name, ind.DisplayScore())
	}
}

// resolveError renders boundary failures in the user-facing shape instead of
// leaking wrapped internals.
func resolveError(cmd *cobra.Command, flags *resolveFlags, err error) error {
	warning := api.FromError(err)
	if flags.jsonOutput {
		_ = writeJSON(cmd, warning)
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s (retryable: %s)\n",
		warning.Code, warning.UserMessage, yesNo(warning.Retryable))
	return err
}

func renderComparisons(comparisons []merge.FieldComparison) string {
	rows := make([][]string, 0, len(comparisons))
	for _, c := range comparisons {
		conflict := ""
		if c.Conflict {
			conflict = "*"
		}
		rows = append(rows, []string{
			c.Field,
			dash(c.NewValue),
			dash(c.ExistingValue),
			string(c.Selected),
			conflict,
		})
	}
	return renderTable(
		[]string{"Field", "New", "Existing", "Selected", "Conflict"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}
