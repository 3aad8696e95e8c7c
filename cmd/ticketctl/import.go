package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spec-kit/support-tickets/internal/service"
)

var errImportAborted = errors.New("import aborted")

type importOptions struct {
	autoClassify bool
	contentType  string
}

func newImportCmd(state *cli) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Validate and import a CSV, JSON or XML ticket file and print the summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, state, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.autoClassify, "auto-classify", false, "Fill missing category and priority from the keyword classifier")
	cmd.Flags().StringVar(&opts.contentType, "content-type", "", "Declared content type, used when the extension is not recognised")
	return cmd
}

func runImport(cmd *cobra.Command, state *cli, path string, opts importOptions) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	deps, err := state.dependencies()
	if err != nil {
		return err
	}
	imports := service.NewImportService(deps, nil)

	result, err := imports.ImportFromFile(cmd.Context(), content, filepath.Base(path), opts.contentType, opts.autoClassify)
	if err != nil {
		return err
	}
	if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if result.Aborted() {
		return errImportAborted
	}
	return nil
}
