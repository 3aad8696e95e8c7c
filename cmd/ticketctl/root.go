package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/support-tickets/internal/classifier"
	"github.com/spec-kit/support-tickets/internal/events"
	"github.com/spec-kit/support-tickets/internal/observability"
	"github.com/spec-kit/support-tickets/internal/repository"
	"github.com/spec-kit/support-tickets/internal/service"
	"github.com/spec-kit/support-tickets/internal/validation"
	"github.com/spec-kit/support-tickets/internal/worker"
)

var version = "dev"

// cli carries state shared by every subcommand once the root pre-run has built it.
type cli struct {
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	state := &cli{}

	root := &cobra.Command{
		Use:          "ticketctl",
		Short:        "Offline tooling for support ticket imports and classification",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := observability.NewCLILogger(state.verbose)
			if err != nil {
				return err
			}
			state.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if state.logger != nil {
				_ = state.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&state.verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(newImportCmd(state))
	root.AddCommand(newClassifyCmd(state))
	return root
}

// dependencies wires an in-memory ticket store the same way the API does.
func (c *cli) dependencies() (service.TicketDependencies, error) {
	validator, err := validation.New()
	if err != nil {
		return service.TicketDependencies{}, err
	}
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(dispatcher, c.logger, nil)
	return service.TicketDependencies{
		TicketRepo: repository.NewTicketRepository(),
		Validator:  validator,
		Classifier: classifier.New(classifier.NewAuditLog(), c.logger, nil),
		Dispatcher: dispatcher,
		Logger:     c.logger,
	}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
