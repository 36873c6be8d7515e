package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/biomixer/internal/app"
	"github.com/pbaille/biomixer/internal/catalogue"
	"github.com/pbaille/biomixer/internal/domain"
)

func entriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entries",
		Aliases: []string{"e"},
		Short:   "Browse and edit the mechanism catalogue",
	}
	cmd.AddCommand(entriesListCmd())
	cmd.AddCommand(entriesShowCmd())
	cmd.AddCommand(entryFormCmd("add", "Add a new mechanism"))
	cmd.AddCommand(entryFormCmd("edit <id>", "Edit an existing mechanism"))
	cmd.AddCommand(entriesDeleteCmd())
	cmd.AddCommand(entriesTagsCmd())
	cmd.AddCommand(entriesSuggestCmd())
	return cmd
}

func entriesListCmd() *cobra.Command {
	var cats []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List entries, optionally filtered by text and category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := catalogue.Query{}
			if len(args) == 1 {
				q.Text = args[0]
			}
			for _, c := range cats {
				cat := domain.Category(c)
				if !cat.Valid() {
					return fmt.Errorf("unknown category %q", c)
				}
				q.Categories = append(q.Categories, cat)
			}

			return withSession(func(s *app.Session) error {
				entries := s.Filter(q)
				if asJSON {
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(entries)
				}
				if len(entries) == 0 {
					fmt.Println("No mechanisms match.")
					return nil
				}
				for _, e := range entries {
					fmt.Printf("%-24s %s %-28s [%s] %s\n", e.ID, e.Icon, truncate(e.Name, 28), e.Category, truncate(e.Mech, 40))
				}
				fmt.Printf("\n%d of %d mechanisms\n", len(entries), len(s.Entries()))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&cats, "category", "c", nil, "only these categories (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

func entriesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a mechanism in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				if !s.SelectEntry(args[0]) {
					return fmt.Errorf("entry not found: %s", args[0])
				}
				e, _ := s.Selected()
				printEntry(e)
				return nil
			})
		},
	}
}

func printEntry(e domain.MechanismEntry) {
	fmt.Printf("%s %s\n", e.Icon, e.Name)
	fmt.Printf("  ID:       %s\n", e.ID)
	fmt.Printf("  Category: %s\n", e.Category)
	fmt.Printf("  Mechanism: %s\n", e.Mech)
	fmt.Printf("  Source:   %s\n", e.Source)
	if len(e.Tags) > 0 {
		fmt.Printf("  Tags:     %s\n", strings.Join(e.Tags, ", "))
	}
	for _, f := range []struct{ label, text string }{
		{"What", e.What},
		{"How", e.How},
		{"Constraints", e.Constraints},
		{"Combinatorial notes", e.Combo},
		{"Narrative hooks", e.Hooks},
	} {
		if f.text != "" {
			fmt.Printf("\n%s:\n  %s\n", f.label, f.text)
		}
	}
	if len(e.Stats) > 0 {
		fmt.Println()
		for _, k := range domain.StatKeys {
			if v, ok := e.Stats[k]; ok {
				fmt.Printf("  %-11s %3d %s\n", k, v, strings.Repeat("█", v/5))
			}
		}
	}
}

// entryForm holds the flag values of add and edit
type entryForm struct {
	name, icon, cat, mech, source string
	what, how, constraints        string
	combo, hooks, tags            string
	stats                         map[string]int
}

func (f *entryForm) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "display name")
	fl.StringVar(&f.icon, "icon", "", "icon (emoji)")
	fl.StringVar(&f.cat, "category", "", "category")
	fl.StringVar(&f.mech, "mech", "", "short mechanism label")
	fl.StringVar(&f.source, "source", "", "source organism")
	fl.StringVar(&f.what, "what", "", "what it does")
	fl.StringVar(&f.how, "how", "", "how it works")
	fl.StringVar(&f.constraints, "constraints", "", "constraints")
	fl.StringVar(&f.combo, "combo", "", "combinatorial notes")
	fl.StringVar(&f.hooks, "hooks", "", "narrative hooks")
	fl.StringVar(&f.tags, "tags", "", "comma separated tags")
	fl.StringToIntVar(&f.stats, "stat", nil, "stat values, e.g. --stat offense=80")
}

// apply copies the flags that were set onto e
func (f *entryForm) apply(cmd *cobra.Command, e *domain.MechanismEntry) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("name", &e.Name, f.name)
	set("icon", &e.Icon, f.icon)
	if cmd.Flags().Changed("category") {
		e.Category = domain.Category(f.cat)
	}
	set("mech", &e.Mech, f.mech)
	set("source", &e.Source, f.source)
	set("what", &e.What, f.what)
	set("how", &e.How, f.how)
	set("constraints", &e.Constraints, f.constraints)
	set("combo", &e.Combo, f.combo)
	set("hooks", &e.Hooks, f.hooks)
	if cmd.Flags().Changed("tags") {
		e.Tags = domain.SplitTags(f.tags)
	}
	if len(f.stats) > 0 {
		if e.Stats == nil {
			e.Stats = domain.DefaultStats()
		}
		for k, v := range f.stats {
			e.Stats[k] = v
		}
	}
}

func entryFormCmd(use, short string) *cobra.Command {
	form := &entryForm{}
	editing := strings.HasPrefix(use, "edit")

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				var e domain.MechanismEntry
				if editing {
					existing, ok := s.Entry(args[0])
					if !ok {
						return fmt.Errorf("entry not found: %s", args[0])
					}
					e = existing
				} else {
					e.Category = domain.Metabolism
				}
				form.apply(cmd, &e)
				if strings.TrimSpace(e.Name) == "" {
					return fmt.Errorf("name is required")
				}

				saved, err := s.SaveEntry(e)
				if err != nil {
					return err
				}
				fmt.Printf("Saved %s (%s)\n", saved.Name, saved.ID)
				return nil
			})
		},
	}
	if editing {
		cmd.Args = cobra.ExactArgs(1)
	} else {
		cmd.Args = cobra.NoArgs
	}
	form.bind(cmd)
	return cmd
}

func entriesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a mechanism",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				ok, err := s.DeleteEntry(args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("entry not found: %s", args[0])
				}
				fmt.Printf("Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func entriesTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every tag in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				for _, t := range s.Tags() {
					fmt.Println(t)
				}
				return nil
			})
		},
	}
}

func entriesSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <tags>",
		Short: "Complete the last tag of a comma separated list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				for _, t := range s.SuggestTags(args[0]) {
					fmt.Println(t)
				}
				return nil
			})
		},
	}
}
