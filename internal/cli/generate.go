package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/vasilecampeanu/openapi-codegen/internal/emitter"
	"github.com/vasilecampeanu/openapi-codegen/internal/generate"
	"github.com/vasilecampeanu/openapi-codegen/internal/output"
	"github.com/vasilecampeanu/openapi-codegen/internal/spec"
)

// envPrefix namespaces environment variables read from the process and from
// the .env file.
const envPrefix = "OPENAPI_CODEGEN_"

const (
	defaultOut     = "generated"
	defaultEnvFile = ".env"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, environment, config file values and CLI overrides.
type GenerateConfig struct {
	Groups        []generate.Group
	Input         string
	Paths         []string
	Out           string
	Indent        int
	Docs          bool
	Strict        bool
	Keep          []string
	RuntimeImport string
	Divider       string
	ConfigPath    string
	EnvFile       string
	DryRun        bool
	Verbose       bool

	// inputFromFlag is set when --input was given on the command line.
	inputFromFlag bool
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Out:           defaultOut,
		Indent:        2,
		RuntimeImport: emitter.DefaultRuntimeImport,
		Divider:       emitter.DefaultDivider,
		EnvFile:       defaultEnvFile,
	}
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate TypeScript models and request wrappers from OpenAPI/Swagger documents",
		Long: "Generate TypeScript model declarations and request-wrapper classes for the endpoints " +
			"matching each path pattern. Options can be provided via flags, a config file, " +
			"OPENAPI_CODEGEN_* environment variables (also read from .env) or defaults.",
		Example: strings.TrimSpace(`  openapi-codegen generate --input openapi.yaml --paths '/users/.*' --out ./src/api
  openapi-codegen --config codegen.yaml generate --dry-run`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the Swagger/OpenAPI document (replaces config groups)")
	flags.StringSlice("paths", nil, "Anchored regular expressions selecting endpoint paths")
	flags.String("out", "", "Output directory (default \"generated\")")
	flags.Int("indent", 0, "Spaces per indentation level (default 2)")
	flags.Bool("docs", false, "Emit documentation comments")
	flags.Bool("strict", false, "Type optional members as T | undefined and nullable members as T | null")
	flags.StringSlice("keep", nil, "Generated files to preserve during cleanup (paths, dirs or globs)")
	flags.String("runtime-import", "", "Module providing the request base classes")
	flags.String("divider", "", "Namespace divider in model names")
	flags.String("env-file", "", "Dotenv file with OPENAPI_CODEGEN_* variables (default \".env\")")
	flags.Bool("dry-run", false, "Preview planned outputs without writing files")

	return cmd
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()
	flags := cmd.Flags()

	envFile, err := flags.GetString("env-file")
	if err != nil {
		return nil, err
	}
	if err := applyGenerateConfigFromEnv(&cfg, strings.TrimSpace(envFile)); err != nil {
		return nil, err
	}

	configPath, err := flags.GetString("config")
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

	if err := applyGenerateFlagOverrides(flags, &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyGenerateConfigFromEnv reads OPENAPI_CODEGEN_* variables. Process
// variables win over the dotenv file. A missing dotenv file is only an error
// when it was named explicitly.
func applyGenerateConfigFromEnv(cfg *GenerateConfig, envFile string) error {
	path := envFile
	if path == "" {
		path = defaultEnvFile
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if envFile != "" || !errors.Is(err, fs.ErrNotExist) {
			return usageErrorf("read env file %q: %w", path, err)
		}
		values = map[string]string{}
	}
	cfg.EnvFile = path
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, envPrefix) {
			values[k] = v
		}
	}
	for key, value := range values {
		if !strings.HasPrefix(key, envPrefix) {
			continue
		}
		field := normalizeKey(strings.TrimPrefix(key, envPrefix))
		if field == "groups" {
			return usageErrorf("environment variable %s: groups can only be set in a config file", key)
		}
		known, err := applyGenerateField(cfg, field, value)
		if err != nil {
			return usageErrorf("environment variable %s: %w", key, err)
		}
		if !known {
			return usageErrorf("unknown environment variable %s", key)
		}
	}
	return nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	if flags.Changed("input") {
		value, err := flags.GetString("input")
		if err != nil {
			return err
		}
		cfg.Input = strings.TrimSpace(value)
		cfg.inputFromFlag = true
	}
	if flags.Changed("paths") {
		value, err := flags.GetStringSlice("paths")
		if err != nil {
			return err
		}
		cfg.Paths = sanitizeList(value)
	}
	if flags.Changed("out") {
		value, err := flags.GetString("out")
		if err != nil {
			return err
		}
		cfg.Out = strings.TrimSpace(value)
	}
	if flags.Changed("indent") {
		value, err := flags.GetInt("indent")
		if err != nil {
			return err
		}
		cfg.Indent = value
	}
	if flags.Changed("docs") {
		value, err := flags.GetBool("docs")
		if err != nil {
			return err
		}
		cfg.Docs = value
	}
	if flags.Changed("strict") {
		value, err := flags.GetBool("strict")
		if err != nil {
			return err
		}
		cfg.Strict = value
	}
	if flags.Changed("keep") {
		value, err := flags.GetStringSlice("keep")
		if err != nil {
			return err
		}
		cfg.Keep = sanitizeList(value)
	}
	if flags.Changed("runtime-import") {
		value, err := flags.GetString("runtime-import")
		if err != nil {
			return err
		}
		cfg.RuntimeImport = strings.TrimSpace(value)
	}
	if flags.Changed("divider") {
		value, err := flags.GetString("divider")
		if err != nil {
			return err
		}
		cfg.Divider = value
	}
	if flags.Changed("dry-run") {
		value, err := flags.GetBool("dry-run")
		if err != nil {
			return err
		}
		cfg.DryRun = value
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
	c.Paths = sanitizeList(c.Paths)
	c.Out = strings.TrimSpace(c.Out)
	if c.Out == "" {
		c.Out = defaultOut
	}
	if c.Indent == 0 {
		c.Indent = 2
	}
	if c.Indent < 1 {
		c.Indent = 1
	}
	c.Keep = sanitizeList(c.Keep)
	c.RuntimeImport = strings.TrimSpace(c.RuntimeImport)
	if c.Divider == "" {
		c.Divider = emitter.DefaultDivider
	}
	groups := c.Groups[:0]
	for _, g := range c.Groups {
		g.URL = strings.TrimSpace(g.URL)
		g.Paths = sanitizeList(g.Paths)
		groups = append(groups, g)
	}
	c.Groups = groups
	// --input replaces configured groups; an input from the config file or
	// the environment only applies when no groups are configured.
	if c.Input != "" && (c.inputFromFlag || len(c.Groups) == 0) {
		c.Groups = []generate.Group{{URL: c.Input, Paths: c.Paths}}
	}
}

func (c *GenerateConfig) validate() error {
	if len(c.Groups) == 0 {
		return usageErrorf("generate: --input is required (or configure groups in a config file)")
	}
	for i, g := range c.Groups {
		if g.URL == "" {
			return usageErrorf("generate: group %d has no url", i+1)
		}
		for _, p := range g.Paths {
			if _, err := spec.CompilePathFilter(p); err != nil {
				return usageErrorf("generate: group %d: %w", i+1, err)
			}
		}
	}
	return nil
}

func (c *GenerateConfig) emitterOptions(log logrus.FieldLogger) emitter.Options {
	return emitter.Options{
		Indent:        c.Indent,
		Docs:          c.Docs,
		Strict:        c.Strict,
		Divider:       c.Divider,
		RuntimeImport: c.RuntimeImport,
		Logger:        log,
	}
}

func newLogger(verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// summary totals one generate invocation.
type summary struct {
	groups         int
	failedGroups   int
	failedPatterns int
	failedWrites   int
	models         int
	requests       int
}

func (s summary) err() error {
	if s.failedGroups == 0 && s.failedPatterns == 0 && s.failedWrites == 0 {
		return nil
	}
	return fmt.Errorf("generate: %d of %d group(s) failed, %d pattern(s) failed, %d write(s) failed",
		s.failedGroups, s.groups, s.failedPatterns, s.failedWrites)
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	log := newLogger(cfg.Verbose)
	return runGenerateWith(ctx, cfg, log)
}

func runGenerateWith(ctx context.Context, cfg *GenerateConfig, log logrus.FieldLogger) error {
	absOut := cfg.Out
	if ap, err := filepath.Abs(cfg.Out); err == nil {
		absOut = ap
	}

	var (
		w         output.Writer
		collector *output.Collector
		disk      *output.DiskWriter
	)
	if cfg.DryRun {
		collector = &output.Collector{}
		w = collector
	} else {
		disk = output.NewDiskWriter(cfg.Out, log)
		w = disk
	}

	opts := cfg.emitterOptions(log)
	sum := summary{groups: len(cfg.Groups)}
	for _, g := range cfg.Groups {
		glog := log.WithField("url", g.URL)
		doc, err := spec.Load(ctx, g.URL, spec.WithLogger(glog))
		if err != nil {
			var se *spec.SpecError
			if errors.As(err, &se) {
				glog = glog.WithField("code", se.Code)
			}
			glog.WithError(err).Error("skipping group")
			sum.failedGroups++
			continue
		}
		glog.WithFields(logrus.Fields{"dialect": doc.Dialect, "paths": len(doc.Paths)}).Debug("loaded document")

		report, err := generate.Run(ctx, doc, g.Paths, w, opts)
		if err != nil {
			return err
		}
		sum.models += len(report.Models)
		sum.requests += len(report.Requests)
		sum.failedPatterns += len(report.Failed)
		sum.failedWrites += report.WriteFailures
	}

	if cfg.DryRun {
		printPlan(os.Stdout, absOut, collector.Paths())
		return sum.err()
	}

	if sum.failedGroups > 0 || sum.failedPatterns > 0 || sum.failedWrites > 0 {
		log.Warn("skipping cleanup because generation was incomplete")
	} else if err := cleanupStale(cfg, disk, log); err != nil {
		return wrapOutputError(err, absOut)
	}

	log.WithFields(logrus.Fields{
		"out":      absOut,
		"models":   sum.models,
		"requests": sum.requests,
	}).Info("generation finished")
	return sum.err()
}

// cleanupStale removes files the previous run wrote that this run did not,
// then records the current file set.
func cleanupStale(cfg *GenerateConfig, disk *output.DiskWriter, log logrus.FieldLogger) error {
	prev, err := output.ReadManifest(cfg.Out)
	if err != nil {
		return err
	}
	current := disk.Written()
	removed, err := output.Cleanup(cfg.Out, prev.Files, current, cfg.Keep)
	for _, r := range removed {
		log.WithField("path", r).Info("removed stale file")
	}
	if err != nil {
		return err
	}
	// Kept files stay tracked so a later run can still clean them up.
	files := current
	for _, f := range prev.Files {
		if output.Keep(f, cfg.Keep) && !contains(current, f) {
			files = append(files, f)
		}
	}
	return output.WriteManifest(cfg.Out, output.Manifest{Generator: "openapi-codegen", Files: files})
}

func printPlan(w io.Writer, outDir string, relPaths []string) {
	fmt.Fprintf(w, "Planned writes to %s (%d files):\n", outDir, len(relPaths))
	for _, p := range relPaths {
		fmt.Fprintf(w, "- %s\n", p)
	}
}

func wrapOutputError(err error, outDir string) error {
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "permission") || strings.Contains(lower, "read-only") {
		return usageErrorf("output error for %s: %w\nHint: choose a different --out.", outDir, err)
	}
	return err
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func sanitizeList(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
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

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return usageErrorf("read config file %q: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return usageErrorf("parse config file %q: %w", path, err)
	}

	for key, value := range raw {
		normalized := normalizeKey(key)
		if normalized == "groups" {
			groups, err := valueAsGroups(value)
			if err != nil {
				return usageErrorf("config field %q: %w", key, err)
			}
			cfg.Groups = groups
			continue
		}
		known, err := applyGenerateField(cfg, normalized, value)
		if err != nil {
			return usageErrorf("config field %q: %w", key, err)
		}
		if !known {
			return usageErrorf("config file %q: unknown field %q", path, key)
		}
	}

	return nil
}

// applyGenerateField sets one scalar or list field by normalized key. It
// reports false for unknown keys.
func applyGenerateField(cfg *GenerateConfig, key string, value any) (bool, error) {
	var err error
	switch key {
	case "input":
		cfg.Input, err = valueAsString(value)
	case "paths":
		cfg.Paths, err = valueAsStringSlice(value)
	case "out":
		cfg.Out, err = valueAsString(value)
	case "indent":
		cfg.Indent, err = valueAsInt(value)
	case "docs":
		cfg.Docs, err = valueAsBool(value)
	case "strict":
		cfg.Strict, err = valueAsBool(value)
	case "keep":
		cfg.Keep, err = valueAsStringSlice(value)
	case "runtimeimport":
		cfg.RuntimeImport, err = valueAsString(value)
	case "divider":
		cfg.Divider, err = valueAsString(value)
	case "dryrun":
		cfg.DryRun, err = valueAsBool(value)
	case "verbose":
		cfg.Verbose, err = valueAsBool(value)
	default:
		return false, nil
	}
	return true, err
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

func valueAsInt(v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, fmt.Errorf("invalid integer value %q", val)
		}
		return n, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func valueAsGroups(v any) ([]generate.Group, error) {
	list, ok := v.([]any)
	if !ok {
		if v == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("expected list, got %T", v)
	}
	groups := make([]generate.Group, 0, len(list))
	for idx, elem := range list {
		m, ok := elem.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("element %d: expected mapping, got %T", idx, elem)
		}
		var g generate.Group
		for key, value := range m {
			var err error
			switch normalizeKey(key) {
			case "url":
				g.URL, err = valueAsString(value)
			case "paths":
				g.Paths, err = valueAsStringSlice(value)
			default:
				err = fmt.Errorf("unknown field %q", key)
			}
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", idx, err)
			}
		}
		groups = append(groups, g)
	}
	return groups, nil
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
