package cli

import (
    "fmt"
    "io"
    "log/slog"

    "github.com/spf13/cobra"
)

// Execute runs the swaggercodec CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
    cmd := &cobra.Command{
        Use:           "swaggercodec",
        Short:         "Encode coreapi link documents as Swagger 2.0",
        Long:          "swaggercodec reads a link document (sections of links with typed fields) and writes the equivalent Swagger 2.0 document as JSON or YAML.",
        SilenceErrors: true,
        SilenceUsage:  true,
        RunE: func(cmd *cobra.Command, args []string) error {
            return cmd.Help()
        },
    }

    // Convert Cobra flag errors (like unknown flags) into friendly usage errors
    // that also show the command's help text.
    cmd.SetFlagErrorFunc(flagUsageError)

    cmd.PersistentFlags().StringP("config", "c", "", "Config file path (YAML or JSON)")
    cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging output")

    g := newGenerateCmd()
    g.SetFlagErrorFunc(flagUsageError)
    cmd.AddCommand(g)

    i := newInitCmd()
    i.SetFlagErrorFunc(flagUsageError)
    cmd.AddCommand(i)

    return cmd
}

func flagUsageError(c *cobra.Command, err error) error {
    return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
}

// newLogger returns a text logger on w: debug level when verbose, warnings
// and errors otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
    level := slog.LevelWarn
    if verbose {
        level = slog.LevelDebug
    }
    return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
