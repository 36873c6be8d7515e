package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pbaille/biomixer/internal/app"
	"github.com/pbaille/biomixer/internal/domain"
	"github.com/pbaille/biomixer/internal/prompt"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the model and system prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				st := s.Settings()
				for _, m := range domain.Models {
					marker := " "
					if m.ID == st.Model {
						marker = "*"
					}
					fmt.Printf("%s %-26s %s\n", marker, m.ID, m.Name)
				}
				if st.SystemPrompt == "" {
					fmt.Println("\nSystem prompt: built-in")
				} else {
					fmt.Printf("\nSystem prompt (custom):\n%s\n", st.SystemPrompt)
				}
				return nil
			})
		},
	}

	var model, promptFile string
	set := &cobra.Command{
		Use:   "set",
		Short: "Change the model or load a system prompt from a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				st := s.Settings()
				if cmd.Flags().Changed("model") {
					st.Model = model
				}
				if promptFile != "" {
					data, err := os.ReadFile(promptFile)
					if err != nil {
						return fmt.Errorf("read prompt: %w", err)
					}
					st.SystemPrompt = string(data)
				}
				if err := s.SaveSettings(st); err != nil {
					return err
				}
				fmt.Println("Settings saved")
				return nil
			})
		},
	}
	set.Flags().StringVarP(&model, "model", "m", "", "model id")
	set.Flags().StringVarP(&promptFile, "prompt-file", "p", "", "file holding the system prompt template")
	cmd.AddCommand(set)

	cmd.AddCommand(&cobra.Command{
		Use:   "reset-prompt",
		Short: "Go back to the built-in system prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				st := s.Settings()
				st.SystemPrompt = ""
				if err := s.SaveSettings(st); err != nil {
					return err
				}
				fmt.Println("System prompt reset")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "default-prompt",
		Short: "Print the built-in system prompt template",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(prompt.DefaultTemplate)
		},
	})

	return cmd
}

func themeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the colour scheme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				fmt.Println(s.Theme())
				return nil
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between dark and light",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(s *app.Session) error {
				t, err := s.ToggleTheme()
				if err != nil {
					return err
				}
				fmt.Println(t)
				return nil
			})
		},
	})
	return cmd
}
