package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/swaggercodec/internal/document"
	"github.com/mark3labs/swaggercodec/internal/output"
	"github.com/mark3labs/swaggercodec/internal/swagger"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, and CLI overrides.
type GenerateConfig struct {
	Input              string
	Out                string
	Format             string
	Indent             int
	IncludeTags        []string
	ExcludeTags        []string
	StrictOperationIDs bool
	ConfigPath         string
	DryRun             bool
	Force              bool
	Verbose            bool
}

const maxIndent = 8

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{Indent: 2}
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Encode a link document as a Swagger 2.0 document",
		Long: "Encode a coreapi-style link document (JSON or YAML) as a Swagger 2.0 document. " +
			"Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  swaggercodec generate --input schema.yaml --out swagger.json
  swaggercodec generate --input https://api.example.com/schema/ --format yaml
  swaggercodec --config swaggercodec.yaml generate --force --dry-run`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the link document")
	flags.String("out", "", "Output file (stdout when omitted)")
	flags.String("format", "", "Output format (json|yaml); inferred from --out, defaults to json")
	flags.Int("indent", 2, "Indentation width; 0 writes compact JSON")
	flags.StringSlice("include-tags", nil, "Only include links under these top-level sections")
	flags.StringSlice("exclude-tags", nil, "Exclude links under these top-level sections")
	flags.Bool("strict-operation-ids", false, "Fail when operation ids collide between untagged links")
	flags.Bool("dry-run", false, "Preview the planned output without writing files")
	flags.Bool("force", false, "Overwrite an existing output file")

	return cmd
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	if flags.Changed("input") {
		value, err := flags.GetString("input")
		if err != nil {
			return err
		}
		cfg.Input = strings.TrimSpace(value)
	}
	if flags.Changed("out") {
		value, err := flags.GetString("out")
		if err != nil {
			return err
		}
		cfg.Out = strings.TrimSpace(value)
	}
	if flags.Changed("format") {
		value, err := flags.GetString("format")
		if err != nil {
			return err
		}
		cfg.Format = strings.TrimSpace(value)
	}
	if flags.Changed("indent") {
		value, err := flags.GetInt("indent")
		if err != nil {
			return err
		}
		cfg.Indent = value
	}
	if flags.Changed("include-tags") {
		value, err := flags.GetStringSlice("include-tags")
		if err != nil {
			return err
		}
		cfg.IncludeTags = sanitizeTags(value)
	}
	if flags.Changed("exclude-tags") {
		value, err := flags.GetStringSlice("exclude-tags")
		if err != nil {
			return err
		}
		cfg.ExcludeTags = sanitizeTags(value)
	}
	if flags.Changed("strict-operation-ids") {
		value, err := flags.GetBool("strict-operation-ids")
		if err != nil {
			return err
		}
		cfg.StrictOperationIDs = value
	}
	if flags.Changed("dry-run") {
		value, err := flags.GetBool("dry-run")
		if err != nil {
			return err
		}
		cfg.DryRun = value
	}
	if flags.Changed("force") {
		value, err := flags.GetBool("force")
		if err != nil {
			return err
		}
		cfg.Force = value
	}
	if flags.Changed("verbose") {
		value, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = value
	}

	return nil
}

func (c *GenerateConfig) normalize() {
	c.Input = strings.TrimSpace(c.Input)
	c.Out = strings.TrimSpace(c.Out)
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.IncludeTags = sanitizeTags(c.IncludeTags)
	c.ExcludeTags = sanitizeTags(c.ExcludeTags)
}

func (c *GenerateConfig) validate() error {
	if c.Input == "" {
		return newUsageError("generate: --input is required (set via flag or config file)")
	}

	format, err := output.ResolveFormat(c.Format, c.Out)
	if err != nil {
		return newUsageError(fmt.Sprintf("generate: %v", err))
	}
	c.Format = string(format)

	if c.Indent < 0 || c.Indent > maxIndent {
		return newUsageError(fmt.Sprintf("generate: --indent must be between 0 and %d, got %d", maxIndent, c.Indent))
	}

	overlap := intersect(c.IncludeTags, c.ExcludeTags)
	if len(overlap) > 0 {
		return newUsageError(fmt.Sprintf("generate: include/exclude tags overlap: %s", strings.Join(overlap, ", ")))
	}

	return nil
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	logger := newLogger(os.Stderr, cfg.Verbose)

	// 1) Load and validate the link document (file or http/https URL)
	doc, err := document.Load(ctx, cfg.Input)
	if err != nil {
		var le *document.LoadError
		if errors.As(err, &le) {
			msg := fmt.Sprintf("document: %s", le.Message)
			if le.Location != "" {
				msg = fmt.Sprintf("%s\nLocation: %s", msg, le.Location)
			}
			if le.Path != "" {
				msg = fmt.Sprintf("%s\nPath: %s", msg, le.Path)
			}
			return wrapUsageError(msg, err)
		}
		return err
	}
	logger.Debug("loaded document", "input", cfg.Input, "title", doc.Title)

	// 2) Encode as Swagger 2.0
	sw, err := swagger.Generate(doc,
		swagger.WithLogger(logger),
		swagger.WithIncludeTags(cfg.IncludeTags),
		swagger.WithExcludeTags(cfg.ExcludeTags),
		swagger.WithStrictOperationIDs(cfg.StrictOperationIDs),
	)
	if err != nil {
		if errors.Is(err, swagger.ErrDuplicateOperationID) {
			return wrapUsageError(fmt.Sprintf("generate: %v\nHint: move the links into sections or drop --strict-operation-ids.", err), err)
		}
		return fmt.Errorf("generate: %w", err)
	}

	// 3) Render and read the result back before it leaves the process
	data, err := output.Render(sw, output.Format(cfg.Format), cfg.Indent)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	sum, err := output.Check(data)
	if err != nil {
		return fmt.Errorf("verify output: %w", err)
	}
	logger.Debug("rendered swagger document",
		"format", cfg.Format,
		"bytes", len(data),
		"paths", sum.Paths,
		"operations", sum.Operations,
		"definitions", sum.Definitions,
	)

	// 4) Emit to stdout or write the file
	if cfg.Out == "" {
		if cfg.DryRun {
			printPlan("stdout", len(data), sum)
			return nil
		}
		_, err := os.Stdout.Write(data)
		return err
	}
	plan, err := output.Write(cfg.Out, data, output.WriteOptions{Force: cfg.Force, DryRun: cfg.DryRun})
	if err != nil {
		return wrapOutputError(err, cfg.Out)
	}
	if cfg.DryRun {
		printPlan(plan.Path, plan.Size, sum)
		return nil
	}
	logger.Info("wrote swagger document", "path", plan.Path, "bytes", plan.Size)
	return nil
}

func printPlan(target string, size int, sum *output.Summary) {
	fmt.Fprintf(os.Stdout, "Planned write to %s (%d bytes):\n", target, size)
	fmt.Fprintf(os.Stdout, "- %d paths\n", sum.Paths)
	fmt.Fprintf(os.Stdout, "- %d operations\n", sum.Operations)
	fmt.Fprintf(os.Stdout, "- %d definitions\n", sum.Definitions)
}

func wrapOutputError(err error, out string) error {
	// Provide clearer guidance for common FS failures.
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "permission") || strings.Contains(lower, "read-only") || strings.Contains(lower, "mkdir") ||
		strings.Contains(lower, "rename") || strings.Contains(lower, "already exists") || strings.Contains(lower, "is a directory") {
		return wrapUsageError(fmt.Sprintf("output error for %s: %s\nHint: choose a different --out or use --force when appropriate.", out, msg), err)
	}
	return err
}

func sanitizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a))
	for _, item := range a {
		set[item] = struct{}{}
	}
	var result []string
	for _, item := range b {
		if _, ok := set[item]; ok {
			result = append(result, item)
		}
	}
	return result
}

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	for key, value := range raw {
		if err := applyConfigField(cfg, normalizeKey(key), value); err != nil {
			if errors.Is(err, errUnknownField) {
				return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
			}
			return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
		}
	}

	return nil
}

var errUnknownField = errors.New("unknown field")

func applyConfigField(cfg *GenerateConfig, key string, value any) error {
	var err error
	switch key {
	case "input":
		cfg.Input, err = valueAsString(value)
	case "out":
		cfg.Out, err = valueAsString(value)
	case "format":
		cfg.Format, err = valueAsString(value)
	case "indent":
		cfg.Indent, err = valueAsInt(value)
	case "includetags":
		var list []string
		list, err = valueAsStringSlice(value)
		cfg.IncludeTags = sanitizeTags(list)
	case "excludetags":
		var list []string
		list, err = valueAsStringSlice(value)
		cfg.ExcludeTags = sanitizeTags(list)
	case "strictoperationids":
		cfg.StrictOperationIDs, err = valueAsBool(value)
	case "dryrun":
		cfg.DryRun, err = valueAsBool(value)
	case "force":
		cfg.Force, err = valueAsBool(value)
	case "verbose":
		cfg.Verbose, err = valueAsBool(value)
	default:
		return errUnknownField
	}
	return err
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsInt(v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("invalid integer value %q", val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func valueAsStringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		return splitAndTrim(val), nil
	case []any:
		items := make([]string, 0, len(val))
		for idx, elem := range val {
			str, err := valueAsString(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", idx, err)
			}
			if str != "" {
				items = append(items, str)
			}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected string or list, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		trimmed := strings.ToLower(strings.TrimSpace(val))
		switch trimmed {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n":
			return false, nil
		case "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
