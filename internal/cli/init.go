package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vasilecampeanu/openapi-codegen/internal/generate"
)

const defaultConfigName = "openapi-codegen.yaml"

// InitConfig captures the options for the init command. A non-empty Input
// becomes the first active group of the written file.
type InitConfig struct {
	OutputPath string
	Input      string
	Paths      []string
	Force      bool
}

var initRunner = runInit

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a sample openapi-codegen configuration file",
		Long: "Scaffold a commented openapi-codegen configuration file that documents available options.\n" +
			"With --input the file starts with an active group for that document.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			input, err := cmd.Flags().GetString("input")
			if err != nil {
				return err
			}
			paths, err := cmd.Flags().GetStringSlice("paths")
			if err != nil {
				return err
			}
			cfg := &InitConfig{
				OutputPath: out,
				Input:      strings.TrimSpace(input),
				Paths:      paths,
				Force:      force,
			}
			return initRunner(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("out", defaultConfigName, "Where to write the sample config file")
	cmd.Flags().Bool("force", false, "Overwrite the target file if it already exists")
	cmd.Flags().String("input", "", "Spec URL or file for the initial group")
	cmd.Flags().StringSlice("paths", nil, "Path patterns for the initial group (requires --input)")

	return cmd
}

func runInit(ctx context.Context, cfg *InitConfig) error {
	_ = ctx

	out := strings.TrimSpace(cfg.OutputPath)
	if out == "" {
		out = defaultConfigName
	}
	absPath, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("init: resolve output path: %w", err)
	}

	if cfg.Input == "" && len(cfg.Paths) > 0 {
		return usageErrorf("init: --paths requires --input")
	}

	if st, err := os.Stat(absPath); err == nil && !cfg.Force {
		if st.Mode().IsRegular() {
			return usageErrorf("init: %q already exists (use --force to overwrite)", absPath)
		}
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return usageErrorf("init: cannot create parent directory: %w", err)
	}

	content, err := initContent(cfg)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	tmp := absPath + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return usageErrorf("init: cannot write temp file: %w\nHint: choose a different --out or check directory permissions.", err)
	}
	if err := os.Rename(tmp, absPath); err != nil {
		_ = os.Remove(tmp)
		return usageErrorf("init: cannot place file at %s: %w", absPath, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote sample config to %s\n", absPath)
	return nil
}

// initContent renders the sample, preceded by an active groups block when an
// input was given. The commented groups example is left as documentation.
func initContent(cfg *InitConfig) ([]byte, error) {
	var buf bytes.Buffer
	if cfg.Input != "" {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		groups := map[string][]generate.Group{
			"groups": {{URL: cfg.Input, Paths: cfg.Paths}},
		}
		if err := enc.Encode(groups); err != nil {
			return nil, fmt.Errorf("encode groups: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode groups: %w", err)
		}
		buf.WriteString("\n")
	}
	buf.WriteString(strings.TrimSpace(sampleConfigYAML))
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// sampleConfigYAML is a commented example config documenting available options.
const sampleConfigYAML = `# openapi-codegen configuration (YAML)
# All fields are optional. Command-line flags override config values, config
# values override OPENAPI_CODEGEN_* environment variables (also read from .env).

# Endpoint groups: one spec URL (http/https or local file) and the anchored
# path patterns to generate from it. An empty paths list selects every path.
# groups:
#   - url: https://api.example.com/swagger/v1/swagger.json
#     paths: ['/auth/.*', '/users/\{id\}']
#   - url: ./specs/billing.yaml

# Single document shorthand. Used when groups is empty; --input on the command
# line always replaces groups.
# input: ./openapi.yaml
# paths: ['/auth/.*']

# Output directory. Models go to models/, wrappers to requests/.
# out: ./generated

# Spaces per indentation level (minimum 1).
# indent: 2

# Emit documentation comments from descriptions and summaries.
# docs: false

# Type optional members as T | undefined and nullable members as T | null.
# strict: false

# Generated files that cleanup must never remove (paths, directories or globs).
# keep: [requests/legacy, models/Shared/*.ts]

# Module providing GetRequest, PostRequest and the other base classes.
# runtimeImport: '@api/runtime'

# Namespace divider in model names (Namespace.Sub.Model).
# divider: '.'

# Preview planned outputs without writing files.
# dryRun: false

# Enable verbose logging.
# verbose: false
`
