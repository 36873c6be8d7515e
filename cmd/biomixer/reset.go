package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pbaille/biomixer/internal/store"
)

func resetCmd() *cobra.Command {
	var catalogueOnly bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget stored state and go back to the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			keys := store.Keys
			if catalogueOnly {
				keys = []string{store.KeyEntries, store.KeyMixer}
			}
			if err := store.NewState(db).Reset(keys...); err != nil {
				return err
			}
			if catalogueOnly {
				fmt.Println("Catalogue restored to the built-in mechanisms")
			} else {
				fmt.Println("All state cleared")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&catalogueOnly, "catalogue", false, "only restore the built-in catalogue and empty the mixer")
	return cmd
}
