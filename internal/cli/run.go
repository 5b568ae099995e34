package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gitlab.com/tozd/go/errors"

	"textedit/internal/config"
	"textedit/internal/logging"
)

// Exit codes.
const (
	exitOK      = 0
	exitChanged = 1
	exitError   = 2
)

var errUsage = errors.Base("usage")

type globalFlags struct {
	ConfigPath string
	Verbose    bool
	NoColor    bool
}

type app struct {
	stdout, stderr io.Writer
	flags          globalFlags
	cfg            *config.Config
	code           int
}

func addGlobalFlags(fs *pflag.FlagSet, g *globalFlags) {
	fs.StringVarP(&g.ConfigPath, "config", "c", config.DefaultPath, "YAML file with default settings")
	fs.BoolVarP(&g.Verbose, "verbose", "v", false, "Enable debug logging")
	fs.BoolVar(&g.NoColor, "no-color", false, "Disable ANSI colors in output")
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "textedit",
		Short:         "Count words, search and replace text in a file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	addGlobalFlags(root.PersistentFlags(), &a.flags)
	root.AddCommand(a.newStatsCmd(), a.newSearchCmd(), a.newReplaceCmd())
	return root
}

// setup loads the config file and installs a logger on the command context.
func (a *app) setup(cmd *cobra.Command) error {
	required := cmd.Flags().Changed("config")
	cfg, err := config.Load(a.flags.ConfigPath, required)
	if err != nil {
		return err
	}
	if a.flags.NoColor {
		cfg.Color = false
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if a.flags.Verbose {
		level = zerolog.DebugLevel
	}
	a.cfg = cfg

	ctx := logging.NewContext(cmd.Context(), a.stderr, level, cfg.Color)
	cmd.SetContext(ctx)
	zerolog.Ctx(ctx).Debug().Str("config", cfg.Location()).Str("command", cmd.Name()).Msg("starting")
	return nil
}

// Run executes the CLI with the provided args and writers, returning the exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	return a.code
}
