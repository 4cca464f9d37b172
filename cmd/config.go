package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/KaramelBytes/autoeda-cli/internal/ai"
	cfgpkg "github.com/KaramelBytes/autoeda-cli/internal/config"
	"github.com/KaramelBytes/autoeda-cli/internal/utils"
	"github.com/spf13/cobra"
)

var configShowJSON bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set AutoEDA configuration",
}

type configEntry struct {
	key   string
	value any
}

func configEntries(c *cfgpkg.Global) []configEntry {
	return []configEntry{
		{"api_key", mask(c.APIKey)},
		{"summary_enabled", c.SummaryEnabled},
		{"summary_provider", c.SummaryProvider},
		{"summary_model", c.SummaryModel},
		{"summary_base_url", c.SummaryBaseURL},
		{"summary_max_tokens", c.SummaryMaxTokens},
		{"temperature", c.Temperature},
		{"charts_enabled", c.ChartsEnabled},
		{"charts_dir", c.ChartsDir},
		{"http_timeout_sec", c.HTTPTimeoutSec},
		{"retry_max_attempts", c.RetryMaxAttempts},
		{"retry_base_delay_ms", c.RetryBaseDelayMs},
		{"retry_max_delay_ms", c.RetryMaxDelayMs},
		{"ollama_host", c.OllamaHost},
		{"history_file", c.HistoryFile},
	}
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := effectiveConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		entries := configEntries(c)
		if configShowJSON {
			m := make(map[string]any, len(entries))
			for _, e := range entries {
				m[e.key] = e.value
			}
			b, err := utils.PrettyJSON(m)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		for _, e := range entries {
			switch v := e.value.(type) {
			case float64:
				fmt.Fprintf(out, "%s: %.3f\n", e.key, v)
			default:
				fmt.Fprintf(out, "%s: %v\n", e.key, v)
			}
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := effectiveConfig()
		if err != nil {
			return err
		}
		if err := setConfigValue(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "api_key":
		c.APIKey = val
	case "summary_enabled", "charts_enabled":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %v", key, val)
		}
		if key == "summary_enabled" {
			c.SummaryEnabled = b
		} else {
			c.ChartsEnabled = b
		}
	case "summary_provider":
		p := strings.ToLower(val)
		if p == "local" {
			p = ai.ProviderOllama
		}
		if !slices.Contains(ai.Providers(), p) {
			return fmt.Errorf("invalid summary_provider: %s (use %s)", val, strings.Join(ai.Providers(), ", "))
		}
		c.SummaryProvider = p
	case "summary_model":
		c.SummaryModel = val
	case "summary_base_url":
		c.SummaryBaseURL = val
	case "summary_max_tokens":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for summary_max_tokens: %v", val)
		}
		c.SummaryMaxTokens = i
	case "temperature":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for temperature: %w", err)
		}
		c.Temperature = f
	case "charts_dir":
		c.ChartsDir = val
	case "http_timeout_sec", "retry_max_attempts", "retry_base_delay_ms", "retry_max_delay_ms":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		switch key {
		case "http_timeout_sec":
			c.HTTPTimeoutSec = i
		case "retry_max_attempts":
			c.RetryMaxAttempts = i
		case "retry_base_delay_ms":
			c.RetryBaseDelayMs = i
		default:
			c.RetryMaxDelayMs = i
		}
	case "ollama_host":
		c.OllamaHost = val
	case "history_file":
		c.HistoryFile = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "print as JSON")
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
