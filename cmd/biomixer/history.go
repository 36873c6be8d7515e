package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/biomixer/internal/app"
	"github.com/pbaille/biomixer/internal/domain"
	"github.com/pbaille/biomixer/internal/render"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"h"},
		Short:   "Browse past syntheses",
	}
	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyDeleteCmd())
	cmd.AddCommand(historyClearCmd())
	cmd.AddCommand(historyExportCmd())
	cmd.AddCommand(historyToggleCmd())
	return cmd
}

func historyListCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List syntheses, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				records := s.Synth().SearchHistory(search)
				if len(records) == 0 {
					fmt.Println("No syntheses yet.")
					return nil
				}
				for _, rec := range records {
					names := make([]string, len(rec.Mechanisms))
					for i, m := range rec.Mechanisms {
						names[i] = m.Name
					}
					fmt.Printf("%s  %s  %-30s %s\n",
						rec.ID,
						rec.Timestamp.Local().Format("2006-01-02 15:04"),
						truncate(rec.Name, 30),
						truncate(strings.Join(names, " + "), 50))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "match record or mechanism names")
	return cmd
}

func findRecord(s *app.Session, id string) (domain.SynthesisRecord, error) {
	rec, ok := s.Synth().Get(id)
	if !ok {
		return domain.SynthesisRecord{}, fmt.Errorf("synthesis not found: %s", id)
	}
	return rec, nil
}

func historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a past synthesis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				if !s.Synth().Select(args[0]) {
					return fmt.Errorf("synthesis not found: %s", args[0])
				}
				fmt.Println(render.Text(*s.Synth().Snapshot().Current))
				return nil
			})
		},
	}
}

func historyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a synthesis from history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				if !s.Synth().Delete(args[0]) {
					return fmt.Errorf("synthesis not found: %s", args[0])
				}
				fmt.Printf("Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func historyClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every synthesis from history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				n := len(s.Synth().History())
				s.Synth().ClearHistory()
				fmt.Printf("Cleared %d syntheses\n", n)
				return nil
			})
		},
	}
}

func historyExportCmd() *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a synthesis as text or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "html" {
				return fmt.Errorf("unknown format %q (want text or html)", format)
			}
			return withSession(func(s *app.Session) error {
				rec, err := findRecord(s, args[0])
				if err != nil {
					return err
				}

				w := os.Stdout
				if out != "" {
					f, err := os.Create(out)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}

				if format == "html" {
					return render.HTML(w, rec)
				}
				_, err = fmt.Fprintln(w, render.Text(rec))
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "text or html")
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func historyToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Expand or collapse the history panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				open, err := s.ToggleHistory()
				if err != nil {
					return err
				}
				if open {
					fmt.Println("History panel open")
				} else {
					fmt.Println("History panel closed")
				}
				return nil
			})
		},
	}
}
