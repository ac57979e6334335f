package main

import (
	"bufio"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"beacon/internal/config"
	"beacon/internal/roster"
	"beacon/internal/urgency"
)

func newUrgencyCommand(ctx *commandContext) *cobra.Command {
	urgencyCmd := &cobra.Command{
		Use:   "urgency",
		Short: "Inspect and adjust urgency scores",
	}

	urgencyCmd.AddCommand(newUrgencySetCommand(ctx))
	urgencyCmd.AddCommand(newUrgencyClearCommand(ctx))
	urgencyCmd.AddCommand(newUrgencyRecomputeCommand(ctx))

	return urgencyCmd
}

func newUrgencySetCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "set <id> <value>",
		Short: "Pin an individual's urgency to a manual override",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("override must be a whole number between 0 and 100: %q", args[1])
			}
			if err := urgency.ValidateOverride(value); err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *roster.Store) error {
				ind, err := store.GetIndividual(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if !yes {
					question := fmt.Sprintf("Pin urgency for %s to %d (current display %d)?",
						ind.Fields.Name, value, ind.DisplayScore())
					ok, err := confirm(out, bufio.NewReader(cmd.InOrStdin()), question)
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(out, "Override not set.")
						return nil
					}
				}

				if err := store.SetUrgencyOverride(cmd.Context(), ind.ID, value); err != nil {
					return err
				}
				fmt.Fprintf(out, "Urgency for %s pinned at %d (%s). Live score keeps updating underneath.\n",
					ind.Fields.Name, value, colorizeBand(out, urgency.BandFor(value)))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}

func newUrgencyClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <id>",
		Short: "Remove a manual override and revert to the live score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *roster.Store) error {
				if err := store.ClearUrgencyOverride(cmd.Context(), args[0]); err != nil {
					return err
				}
				ind, err := store.GetIndividual(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Override cleared for %s. Live urgency is %d (%s).\n",
					ind.Fields.Name, ind.DisplayScore(), colorizeBand(out, ind.Band()))
				return nil
			})
		},
	}
}

func newUrgencyRecomputeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute <id>",
		Short: "Recompute the base urgency score from encounter history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *roster.Store) error {
				base, err := store.RefreshUrgency(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				ind, err := store.GetIndividual(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Base urgency for %s is %d. Display score is %d (%s).\n",
					ind.Fields.Name, base, ind.DisplayScore(), colorizeBand(out, ind.Band()))
				return nil
			})
		},
	}
}
