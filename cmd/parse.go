package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/denysvitali/glm-usage/internal/config"
	"github.com/denysvitali/glm-usage/internal/logging"
	"github.com/denysvitali/glm-usage/internal/report"
	"github.com/denysvitali/glm-usage/internal/usage"
	"github.com/denysvitali/glm-usage/internal/version"
)

var errNoInput = errors.New("no usage data given")

const parseLong = `Render a report from raw usage data, as printed by "glm-usage --raw".
Pass "-" to read the data from stdin. The format comes from --format or
GLM_USAGE_FORMAT; the config file is not read.`

func newParseCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <raw-data|->",
		Short: "Render a report from previously fetched usage data",
		Long:  parseLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, e, args)
		},
	}
}

// NewParseUsageCmd builds the standalone parse-usage command, which renders
// markdown unless told otherwise.
func NewParseUsageCmd() *cobra.Command {
	return newParseUsageCmd(&env{v: viper.New()})
}

func newParseUsageCmd(e *env) *cobra.Command {
	c := &cobra.Command{
		Use:           "parse-usage <raw-data|->",
		Short:         "Render a GLM usage report from raw usage data",
		Long:          parseLong,
		Version:       version.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, e, args)
		},
	}

	f := c.Flags()
	f.StringP("format", "f", string(report.FormatMarkdown), "Output format: card or markdown")
	f.BoolP("verbose", "v", false, "Log diagnostics to stderr")
	_ = e.v.BindPFlag(config.KeyFormat, f.Lookup("format"))
	_ = e.v.BindPFlag(config.KeyVerbose, f.Lookup("verbose"))

	return c
}

// ExecuteParseUsage runs the standalone parse-usage command.
func ExecuteParseUsage() {
	os.Exit(execute(NewParseUsageCmd()))
}

func runParse(cmd *cobra.Command, e *env, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w\nUsage: %s", errNoInput, cmd.UseLine())
	}

	raw := args[0]
	if raw == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		raw = string(b)
	}

	cfg, format, err := e.load(false)
	if err != nil {
		return err
	}
	logger := logging.New(cmd.ErrOrStderr(), cfg.Verbose)
	logger.Debug("rendering report", "format", format, "bytes", len(raw))

	out, err := report.Generate(raw, format, e.now())
	if err != nil {
		return err
	}

	return usage.Output(cmd.OutOrStdout(), out)
}
