package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pbaille/biomixer/internal/app"
	"github.com/pbaille/biomixer/internal/domain"
	"github.com/pbaille/biomixer/internal/gateway"
	"github.com/pbaille/biomixer/internal/render"
	"github.com/pbaille/biomixer/internal/synth"
)

func synthesizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "synthesize [id...]",
		Aliases: []string{"synth"},
		Short:   "Synthesize a hybrid from the mixer (ids given are added first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				for _, id := range args {
					if _, err := s.AddToMixer(id); err != nil {
						return err
					}
				}
				return runSynthesis(cmd.Context(), s.Synthesize)
			})
		},
	}
}

func regenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate",
		Short: "Synthesize again from the current mixer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				return runSynthesis(cmd.Context(), s.Regenerate)
			})
		},
	}
}

func runSynthesis(ctx context.Context, run func(context.Context) (*domain.SynthesisRecord, error)) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fmt.Fprintln(os.Stderr, "Synthesizing...")
	rec, err := run(ctx)
	if errors.Is(err, synth.ErrTooFewMechanisms) {
		return fmt.Errorf("add at least 2 mechanisms to the mixer")
	}
	if err != nil {
		var gerr *gateway.Error
		if errors.As(err, &gerr) && gerr.Kind.Retryable() {
			fmt.Fprintln(os.Stderr, "Run `biomixer regenerate` to try again.")
		}
		return errors.New(gateway.MessageOf(err))
	}

	fmt.Println(render.Text(*rec))
	fmt.Fprintf(os.Stderr, "\nSaved as %s\n", rec.ID)
	return nil
}
