package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pbaille/biomixer/internal/app"
)

func mixerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mixer",
		Aliases: []string{"m"},
		Short:   "Manage the mixer slots",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(printMixer)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <id>...",
		Short: "Put entries into the mixer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				for _, id := range args {
					added, err := s.AddToMixer(id)
					if err != nil {
						return err
					}
					if !added {
						fmt.Printf("%s is already in the mixer\n", id)
					}
				}
				return printMixer(s)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "slot",
		Short: "Append an empty slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				if err := s.AddSlot(); err != nil {
					return err
				}
				return printMixer(s)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <slot>",
		Short: "Remove the slot at a 1-based position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid slot %q", args[0])
			}
			return withSession(func(s *app.Session) error {
				if err := s.RemoveSlot(n - 1); err != nil {
					return err
				}
				return printMixer(s)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Reset the mixer to two empty slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				if err := s.ClearMixer(); err != nil {
					return err
				}
				return printMixer(s)
			})
		},
	})

	return cmd
}

func printMixer(s *app.Session) error {
	filled := 0
	for i, e := range s.MixerSlots() {
		if e == nil {
			fmt.Printf("  %d. (empty)\n", i+1)
			continue
		}
		filled++
		fmt.Printf("  %d. %s %s [%s] %s\n", i+1, e.Icon, e.Name, e.Category, e.ID)
	}
	if filled < 2 {
		fmt.Printf("\nAdd %d more to synthesize\n", 2-filled)
	}
	return nil
}
