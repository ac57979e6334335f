package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"beacon/internal/api"
	"beacon/internal/config"
	"beacon/internal/match"
	"beacon/internal/photos"
	"beacon/internal/record"
	"beacon/internal/roster"
)

func newRosterCommand(ctx *commandContext) *cobra.Command {
	rosterCmd := &cobra.Command{
		Use:   "roster",
		Short: "Browse and maintain the shared roster",
	}

	rosterCmd.AddCommand(newRosterListCommand(ctx))
	rosterCmd.AddCommand(newRosterShowCommand(ctx))
	rosterCmd.AddCommand(newRosterPhotoCommand(ctx))

	return rosterCmd
}

func newRosterListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var ageFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List individuals ordered by urgency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *roster.Store) error {
				individuals, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if ageFilter != "" {
					individuals = filterByAge(individuals, record.ParseAgeRange(ageFilter))
				}

				if jsonOutput {
					return writeJSON(cmd, api.RosterListResponse{Individuals: api.FromIndividuals(individuals)})
				}

				out := cmd.OutOrStdout()
				if len(individuals) == 0 {
					fmt.Fprintln(out, "Roster is empty.")
					return nil
				}
				rows := make([][]string, 0, len(individuals))
				for _, ind := range individuals {
					rows = append(rows, []string{
						ind.ID,
						ind.Fields.Name,
						ind.Fields.Age.String(),
						strconv.Itoa(ind.DisplayScore()),
						colorizeBand(out, ind.Band()),
						yesNo(ind.UrgencyOverride != nil),
						formatWhen(ind.LastSeenAt),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Age", "Urgency", "Band", "Override", "Last Seen"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the roster as JSON")
	cmd.Flags().StringVar(&ageFilter, "age", "", "Only list individuals whose age range overlaps (e.g. 40-50)")
	return cmd
}

// filterByAge applies the search-time age filter: individuals with unknown
// ages never satisfy a known filter.
func filterByAge(individuals []*roster.Individual, query record.AgeRange) []*roster.Individual {
	candidates := make([]match.Candidate, 0, len(individuals))
	byID := make(map[string]*roster.Individual, len(individuals))
	for _, ind := range individuals {
		candidates = append(candidates, match.Candidate{ID: ind.ID, Fields: ind.Fields})
		byID[ind.ID] = ind
	}
	kept := match.FilterByAge(candidates, query)
	out := make([]*roster.Individual, 0, len(kept))
	for _, cand := range kept {
		out = append(out, byID[cand.ID])
	}
	return out
}

func newRosterShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one individual with encounter history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *roster.Store) error {
				ind, err := store.GetIndividual(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				interactions, err := store.Interactions(cmd.Context(), ind.ID)
				if err != nil {
					return err
				}

				if jsonOutput {
					return writeJSON(cmd, api.IndividualResponse{
						Individual:   api.FromIndividual(ind),
						Interactions: api.FromInteractions(interactions),
					})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s)\n", ind.Fields.Name, ind.ID)
				fmt.Fprintf(out, "  Age: %s  Height: %s  Weight: %s\n",
					ind.Fields.Age.String(),
					dash(measurement(ind.Fields.HeightInches, "in")),
					dash(measurement(ind.Fields.WeightPounds, "lb")))
				fmt.Fprintf(out, "  Skin tone: %s  Gender: %s\n", dash(ind.Fields.SkinTone), dash(ind.Fields.Gender))
				fmt.Fprintf(out, "  Substance history: %s\n", dash(ind.Fields.SubstanceHistory))
				fmt.Fprintf(out, "  Notes: %s\n", dash(ind.Fields.Notes))
				fmt.Fprintf(out, "  Urgency: %d (%s), base %d, override %s\n",
					ind.DisplayScore(), colorizeBand(out, ind.Band()),
					ind.BaseUrgencyScore, overrideLabel(ind.UrgencyOverride))
				fmt.Fprintf(out, "  Photo: %s\n", dash(ind.PhotoPath))
				fmt.Fprintf(out, "  Last seen: %s\n\n", formatWhen(ind.LastSeenAt))

				if len(interactions) == 0 {
					fmt.Fprintln(out, "No recorded encounters.")
					return nil
				}
				rows := make([][]string, 0, len(interactions))
				for _, it := range interactions {
					rows = append(rows, []string{
						formatWhen(it.CreatedAt),
						dash(it.WorkerID),
						dash(it.Location),
						strconv.Itoa(len(it.DangerIndicators)),
						dash(truncate(it.Transcription, 48)),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"When", "Worker", "Location", "Danger", "Transcription"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the individual as JSON")
	return cmd
}

func newRosterPhotoCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photo <id> <path>",
		Short: "Store a photo and attach it to an individual",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *roster.Store) error {
				id, capture := args[0], args[1]
				if _, err := store.GetIndividual(cmd.Context(), id); err != nil {
					return err
				}

				url, err := photos.NewStore(cfg).UploadPhoto(cmd.Context(), capture, id)
				if err != nil {
					return fmt.Errorf("store photo: %w", err)
				}
				if err := store.AttachPhoto(cmd.Context(), id, url); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Attached %s\n", url)
				return nil
			})
		},
	}
	return cmd
}
