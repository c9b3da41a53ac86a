package cli

import (
	"github.com/spf13/cobra"
)

// Execute runs the openapi-codegen CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "openapi-codegen",
		Short: "Generate TypeScript models and request wrappers from Swagger/OpenAPI specs",
		Long: "openapi-codegen reads Swagger 2.0 and OpenAPI 3.0 documents and writes one TypeScript " +
			"declaration per referenced model plus one typed request-wrapper class per endpoint.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Convert Cobra flag errors (like unknown flags) into usage errors that
	// also show the command's help text.
	flagErr := func(c *cobra.Command, err error) error {
		return usageErrorf("%w\n\n%s", err, c.UsageString())
	}
	cmd.SetFlagErrorFunc(flagErr)

	cmd.PersistentFlags().StringP("config", "c", "", "Config file path (YAML or JSON)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging output")

	g := newGenerateCmd()
	g.SetFlagErrorFunc(flagErr)
	cmd.AddCommand(g)

	i := newInitCmd()
	i.SetFlagErrorFunc(flagErr)
	cmd.AddCommand(i)

	return cmd
}
