package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/KaramelBytes/autoeda-cli/internal/ai"
	cfgpkg "github.com/KaramelBytes/autoeda-cli/internal/config"
	"github.com/KaramelBytes/autoeda-cli/internal/loader"
	"github.com/KaramelBytes/autoeda-cli/internal/logging"
	"github.com/KaramelBytes/autoeda-cli/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	debug   bool
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	// Analysis flags shared by the loop and analyze
	flagSummary   bool
	flagProvider  string
	flagModel     string
	flagChartsDir string
	flagNoCharts  bool
	flagDelimiter string
	flagSheet     string
	flagDecimal   string
	flagThousands string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "autoeda",
	Short: "AutoEDA: automated exploratory data analysis for CSV files",
	Long: `AutoEDA profiles a CSV (local path or http(s) URL): shape, types, missing values,
duplicates, descriptive statistics, a chart panel and heuristic insights, with an
optional narrative summary from a language model.

Run without a subcommand to start the interactive loop.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization cycle
	// (runREPL -> ... -> applyFlagOverrides -> rootCmd).
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd)
	}

	cobra.OnInitialize(loadConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.autoeda/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")
	pf.IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	pf.IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max retry attempts on 429/5xx (overrides config)")
	pf.IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	pf.IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")

	pf.BoolVar(&flagSummary, "summary", false, "request a narrative summary from the configured provider")
	pf.StringVar(&flagProvider, "provider", "", "summary provider: "+strings.Join(ai.Providers(), ", "))
	pf.StringVar(&flagModel, "model", "", "summary model (overrides config)")
	pf.StringVar(&flagChartsDir, "charts-dir", "", "directory for chart panels (overrides config)")
	pf.BoolVar(&flagNoCharts, "no-charts", false, "skip the chart panel")
	pf.StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',', ';', '|' or 'tab' (default: auto)")
	pf.StringVar(&flagSheet, "sheet", "", "sheet name for .xlsx sources (default: first sheet)")
	pf.StringVar(&flagDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	pf.StringVar(&flagThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
}

func loadConfig() {
	if err := cfgpkg.LoadDotEnv(""); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands that need config retry through effectiveConfig
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	applyFlagOverrides(c)
	cfg = c
}

// applyFlagOverrides copies explicitly set CLI flags onto c.
func applyFlagOverrides(c *cfgpkg.Global) {
	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		c.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		c.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		c.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		c.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
	if f.Changed("summary") {
		c.SummaryEnabled = flagSummary
	}
	if flagProvider != "" {
		c.SummaryProvider = strings.ToLower(flagProvider)
	}
	if flagModel != "" {
		c.SummaryModel = flagModel
	}
	if flagChartsDir != "" {
		c.ChartsDir = flagChartsDir
	}
	if flagNoCharts {
		c.ChartsEnabled = false
	}
}

// effectiveConfig returns the loaded configuration, loading it on demand.
func effectiveConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(c)
	cfg = c
	return cfg, nil
}

// newDriver builds the analysis driver from config and flags.
func newDriver() (*session.Driver, *zap.Logger, error) {
	c, err := effectiveConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(debug)
	if err != nil {
		return nil, nil, err
	}
	lopt, err := loaderOptions(c)
	if err != nil {
		return nil, nil, err
	}
	scfg := session.Config{
		Loader:           lopt,
		ChartsEnabled:    c.ChartsEnabled,
		ChartsDir:        c.ChartsDir,
		SummaryRequested: c.SummaryEnabled,
		SummaryTimeout:   time.Duration(c.HTTPTimeoutSec) * time.Second,
	}
	if c.SummaryEnabled {
		s, err := newSummarizer(c, logger)
		if err != nil {
			return nil, nil, err
		}
		// keep the interface nil without a credential
		if s != nil {
			scfg.Summarizer = s
		}
	}
	return session.NewDriver(scfg, logger), logger, nil
}

// newSummarizer returns nil when a hosted provider has no credential.
func newSummarizer(c *cfgpkg.Global, logger *zap.Logger) (*ai.RuntimeSummarizer, error) {
	provider := strings.ToLower(c.SummaryProvider)
	key := c.ResolveAPIKey(provider)
	if key == "" && provider != ai.ProviderOllama {
		logger.Debug("no credential for summary provider", zap.String("provider", provider))
		return nil, nil
	}
	rt, err := ai.GetRuntime(provider, ai.RuntimeConfig{
		HTTPTimeout: time.Duration(c.HTTPTimeoutSec) * time.Second,
		RetryMax:    c.RetryMaxAttempts,
		BaseDelay:   time.Duration(c.RetryBaseDelayMs) * time.Millisecond,
		MaxDelay:    time.Duration(c.RetryMaxDelayMs) * time.Millisecond,
		APIKey:      key,
		Host:        c.OllamaHost,
		BaseURL:     c.SummaryBaseURL,
	})
	if err != nil {
		return nil, err
	}
	model := c.SummaryModel
	if model == "" {
		model = ai.DefaultModel(provider)
	}
	logger.Debug("summary runtime", zap.String("provider", provider), zap.String("model", model))
	return ai.NewSummarizer(rt, ai.SummaryOptions{
		Model:       model,
		MaxTokens:   c.SummaryMaxTokens,
		Temperature: c.Temperature,
	}, logger), nil
}

func loaderOptions(c *cfgpkg.Global) (loader.Options, error) {
	opt := loader.Options{
		Sheet:       flagSheet,
		HTTPTimeout: time.Duration(c.HTTPTimeoutSec) * time.Second,
	}
	switch flagDelimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|", "pipe":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", flagDelimiter)
	}
	// Locale separators
	switch strings.ToLower(strings.TrimSpace(flagDecimal)) {
	case ",", "comma":
		opt.Parse.DecimalSeparator = ','
	case ".", "dot":
		opt.Parse.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", flagDecimal)
	}
	switch strings.ToLower(strings.TrimSpace(flagThousands)) {
	case ",":
		opt.Parse.ThousandsSeparator = ','
	case ".":
		opt.Parse.ThousandsSeparator = '.'
	case "space", " ":
		opt.Parse.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", flagThousands)
	}
	return opt, nil
}
