package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/lumiere/internal/display"
	"github.com/hammamikhairi/lumiere/internal/domain"
)

// interactive reports whether huh forms may be shown. Replaced in tests.
var interactive = display.IsTerminal

// execute runs the command line in args. Background work is drained and
// the log closed before it returns, whatever the outcome.
func execute(ctx context.Context, out io.Writer, args []string) error {
	a := &app{out: out}
	root := newRootCmd(a)
	root.SetArgs(args)
	defer a.shutdown()
	return root.ExecuteContext(ctx)
}

// newRootCmd builds the command tree around a.
func newRootCmd(a *app) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "lumiere",
		Short: "Your private chef, in the terminal",
		Long: `lumiere is a command-line client for the Lumière cooking assistant.

Generate recipes from the ingredients you have, let the chef suggest
dishes for your table, save favourites and film individual steps.

Environment Variables:
  LUMIERE_API_URL    Backend API URL (default: ` + "https://lumieres-mu.vercel.app/api/mobile" + `)
  LUMIERE_LOCALE     Language for generated recipes (default: pt)
  LUMIERE_STORAGE    Session storage: file, keyring or memory (default: file)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, configPath)
		},
	}
	root.SetOut(a.out)

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default: ./lumiere.yaml)")
	pf.String("api-url", "", "Backend API URL (overrides LUMIERE_API_URL)")
	pf.String("locale", "", "language sent to the backend")
	pf.Duration("timeout", 0, "HTTP timeout for backend requests")
	pf.String("storage", "", "session storage: file, keyring or memory")
	pf.String("data-dir", "", "directory for the file session store")
	pf.String("log-level", "", "off, normal or verbose")
	pf.String("log-file", "", "file to write logs to (use \"stderr\" to log to console)")
	pf.Bool("json", false, "Output JSON instead of human-readable text")

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newGenerateCmd(a),
		newChefCmd(a),
		newSavedCmd(a),
		newVideoCmd(a),
		newHomeCmd(a),
		newShellCmd(a),
	)
	return root
}

// emit writes v as indented JSON when --json is set, and human otherwise.
func (a *app) emit(v any, human string) error {
	if a.cfg != nil && a.cfg.JSON {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		_, err = fmt.Fprintln(a.out, string(data))
		return err
	}
	_, err := fmt.Fprintln(a.out, human)
	return err
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrAuthentication):
		return 3
	case errors.Is(err, domain.ErrGeneration), errors.Is(err, domain.ErrNetwork):
		return 2
	default:
		return 1
	}
}
