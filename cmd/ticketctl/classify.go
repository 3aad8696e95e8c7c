package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

func newClassifyCmd(state *cli) *cobra.Command {
	var subject, description string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Score a subject and description and print the classification",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(subject) == "" && strings.TrimSpace(description) == "" {
				return errors.New("at least one of --subject or --description is required")
			}
			deps, err := state.dependencies()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), deps.Classifier.Classify(subject, description))
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "Ticket subject")
	cmd.Flags().StringVar(&description, "description", "", "Ticket description")
	return cmd
}
