package cli

import (
    "context"
    "fmt"
    "os"
    "path/filepath"
    "strings"

    "github.com/spf13/cobra"

    "github.com/mark3labs/swaggercodec/internal/output"
)

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputPath string
	Force      bool
	Verbose    bool
}

const defaultConfigName = "swaggercodec.yaml"

var initRunner = runInit

func newInitCmd() *cobra.Command {
    cmd := &cobra.Command{
        Use:   "init",
        Short: "Scaffold a sample swaggercodec configuration file",
        Long:  "Scaffold a commented swaggercodec configuration file that documents available options.",
        RunE: func(cmd *cobra.Command, args []string) error {
            out, err := cmd.Flags().GetString("out")
            if err != nil {
                return err
            }
            force, err := cmd.Flags().GetBool("force")
            if err != nil {
                return err
            }
            verbose, err := cmd.Flags().GetBool("verbose")
            if err != nil {
                return err
            }
            cfg := &InitConfig{
                OutputPath: out,
                Force:      force,
                Verbose:    verbose,
            }
            return initRunner(cmd.Context(), cfg)
        },
    }

    cmd.Flags().String("out", defaultConfigName, "Where to write the sample config file")
    cmd.Flags().Bool("force", false, "Overwrite the target file if it already exists")

    return cmd
}

func runInit(ctx context.Context, cfg *InitConfig) error {
    _ = ctx
    logger := newLogger(os.Stderr, cfg.Verbose)

    out := strings.TrimSpace(cfg.OutputPath)
    if out == "" {
        out = defaultConfigName
    }
    absPath, err := filepath.Abs(out)
    if err != nil {
        return fmt.Errorf("init: resolve output path: %w", err)
    }

    content := strings.TrimSpace(sampleConfigYAML) + "\n"
    plan, err := output.Write(absPath, []byte(content), output.WriteOptions{Force: cfg.Force})
    if err != nil {
        return newUsageError(fmt.Sprintf("init: %v\nHint: choose a different --out or check directory permissions.", err))
    }
    logger.Debug("wrote sample config", "path", plan.Path, "overwritten", plan.Exists)
    fmt.Fprintf(os.Stdout, "Wrote sample config to %s\n", plan.Path)
    return nil
}

// sampleConfigYAML is a commented example config documenting available options.
const sampleConfigYAML = `# swaggercodec configuration (YAML)
# All fields are optional. Command-line flags override config values.

# Path or URL to the link document (http/https or local file, JSON or YAML).
# input: ./schema.yaml

# Output file. When omitted, the document is written to stdout.
# out: ./swagger.json

# Output format (json|yaml). Inferred from the out extension, defaults to json.
# format: json

# Indentation width. 0 writes compact JSON.
# indent: 2

# Only include links under these top-level sections (comma-separated or list).
# includeTags: [users,accounts]

# Exclude links under these top-level sections (comma-separated or list).
# excludeTags: [internal]

# Fail instead of emitting duplicate operation ids between top-level links.
# strictOperationIds: false

# Preview the planned output without writing files.
# dryRun: false

# Overwrite an existing output file.
# force: false

# Enable verbose logging.
# verbose: false
`
