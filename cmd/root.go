// Package cmd provides the Cobra CLI commands for glm-usage.
package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/denysvitali/glm-usage/internal/config"
	"github.com/denysvitali/glm-usage/internal/logging"
	"github.com/denysvitali/glm-usage/internal/report"
	"github.com/denysvitali/glm-usage/internal/usage"
	"github.com/denysvitali/glm-usage/internal/version"
	"github.com/denysvitali/glm-usage/internal/window"
)

// env holds what the commands take from the outside world.
type env struct {
	v          *viper.Viper
	configDir  string // empty means the XDG default
	httpClient *http.Client
	clock      window.Clock
}

func (e *env) loader() *config.Loader {
	if e.configDir == "" {
		return config.NewLoader(e.v)
	}
	return config.NewLoaderIn(e.v, e.configDir)
}

func (e *env) now() time.Time {
	if e.clock == nil {
		return time.Now()
	}
	return e.clock()
}

// load reads the configuration and the requested output format. The config
// file is only consulted when withFile is set.
func (e *env) load(withFile bool) (config.Config, report.Format, error) {
	l := e.loader()
	load := l.LoadFlagsEnv
	if withFile {
		load = l.Load
	}
	cfg, err := load()
	if err != nil {
		return config.Config{}, "", err
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return config.Config{}, "", err
	}
	return cfg, format, nil
}

func newRootCmd(e *env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "glm-usage",
		Short: "Display GLM Coding Plan usage statistics",
		Long: `glm-usage queries the ZAI / ZHIPU monitoring API for model usage, tool usage
and quota limits of the last 24 hours and prints a human-readable report.

ANTHROPIC_AUTH_TOKEN and ANTHROPIC_BASE_URL select the account and platform.`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, e)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringP("format", "f", string(report.FormatCard), "Output format: card or markdown")
	pf.BoolP("verbose", "v", false, "Log requests to stderr")

	f := rootCmd.Flags()
	f.Bool("raw", false, "Print the raw labeled JSON instead of a report")
	f.String("auth-token", "", "API token (overrides ANTHROPIC_AUTH_TOKEN)")
	f.String("base-url", "", "API base URL (overrides ANTHROPIC_BASE_URL)")

	_ = e.v.BindPFlag(config.KeyFormat, pf.Lookup("format"))
	_ = e.v.BindPFlag(config.KeyVerbose, pf.Lookup("verbose"))
	_ = e.v.BindPFlag(config.KeyAuthToken, f.Lookup("auth-token"))
	_ = e.v.BindPFlag(config.KeyBaseURL, f.Lookup("base-url"))

	rootCmd.AddCommand(newParseCmd(e))

	return rootCmd
}

func runQuery(cmd *cobra.Command, e *env) error {
	cfg, format, err := e.load(true)
	if err != nil {
		return err
	}
	raw, _ := cmd.Flags().GetBool("raw")

	out, err := usage.Run(cmd.Context(), cfg, usage.Options{
		Format:     format,
		Raw:        raw,
		Clock:      e.clock,
		Logger:     logging.New(cmd.ErrOrStderr(), cfg.Verbose),
		HTTPClient: e.httpClient,
	})
	if err != nil {
		return err
	}

	return usage.Output(cmd.OutOrStdout(), out)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	os.Exit(execute(newRootCmd(&env{v: viper.New()})))
}

func execute(c *cobra.Command) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.ExecuteContext(ctx); err != nil {
		PrintError(c.ErrOrStderr(), err)
		return 1
	}
	return 0
}

// PrintError writes the one-line failure message to w.
func PrintError(w io.Writer, err error) {
	style := lipgloss.NewRenderer(w).NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("196"))
	_, _ = fmt.Fprintf(w, "%s %v\n", style.Render("执行失败:"), err)
}
