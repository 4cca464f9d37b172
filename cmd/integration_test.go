package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/autoeda-cli/internal/loader"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir and clears provider credentials.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"AUTOEDA_API_KEY", "OPENROUTER_API_KEY", "OPENAI_API_KEY"} {
		t.Setenv(k, "")
	}
	return home
}

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(fl *pflag.Flag) {
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	})
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Flags are package globals and stay set between invocations
	resetFlags(rootCmd.PersistentFlags())
	resetFlags(analyzeCmd.Flags())
	resetFlags(configShowCmd.Flags())
	cfg = nil

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err, "command %v failed\n%s", args, out)
	return out
}

func writeCSV(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "sales.csv")
	data := "id,category,value\n1,a,10\n2,b,20\n2,a,30\n3,a,1000\n"
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	return p
}

func TestCLI_AnalyzeWritesMarkdown(t *testing.T) {
	home := isolate(t)
	csvPath := writeCSV(t, home)
	chartsDir := filepath.Join(home, "charts")
	outPath := filepath.Join(home, "reports", "sales.md")

	out := runCmd(t, "analyze", csvPath, "-o", outPath, "--charts-dir", chartsDir)
	assert.Contains(t, out, "✓ Wrote analysis to "+outPath)

	b, err := os.ReadFile(outPath)
	require.NoError(t, err)
	md := string(b)
	for _, s := range []string{
		"# EDA Report: sales.csv",
		"## Dataset Overview",
		"Shape: 4 rows, 3 columns",
		"## Visualizations",
		"![chart panel](",
		"## Insights",
		"- Check outliers before training",
		"## Limitations",
	} {
		assert.Contains(t, md, s)
	}
	assert.NotContains(t, md, "## Summary")

	pngs, err := filepath.Glob(filepath.Join(chartsDir, "sales_*.png"))
	require.NoError(t, err)
	assert.Len(t, pngs, 1)
}

func TestCLI_AnalyzeConsoleReport(t *testing.T) {
	home := isolate(t)
	csvPath := writeCSV(t, home)

	out := runCmd(t, "analyze", csvPath, "--no-charts")
	assert.Contains(t, out, "Loading from: "+csvPath)
	assert.Contains(t, out, "✓ Loaded: 4 rows × 3 columns (utf-8)")
	assert.Contains(t, out, "Charts disabled")
	assert.Contains(t, out, "Ready for modeling after cleaning")
}

func TestCLI_AnalyzeMarkdownToStdout(t *testing.T) {
	home := isolate(t)
	csvPath := writeCSV(t, home)

	out := runCmd(t, "analyze", csvPath, "--no-charts", "-o", "-")
	assert.True(t, strings.HasPrefix(out, "# EDA Report: sales.csv"))
	assert.Contains(t, out, "_Charts disabled_")
}

func TestCLI_AnalyzeMissingSource(t *testing.T) {
	home := isolate(t)

	out, err := execute(t, "analyze", filepath.Join(home, "nope.csv"), "--no-charts")
	require.ErrorIs(t, err, loader.ErrSourceUnavailable)
	assert.Contains(t, out, "✗ ERROR loading source")
	assert.Contains(t, out, "Verify URL accessibility")
}

func TestCLI_SummaryWithoutCredential(t *testing.T) {
	home := isolate(t)
	csvPath := writeCSV(t, home)

	out := runCmd(t, "analyze", csvPath, "--no-charts", "--summary", "--provider", "openrouter")
	assert.Contains(t, out, "## Summary")
	assert.Contains(t, out, "⚠ No summary: no API credential configured")
}

func TestCLI_UnsupportedDelimiter(t *testing.T) {
	home := isolate(t)
	csvPath := writeCSV(t, home)

	_, err := execute(t, "analyze", csvPath, "--delimiter", "#")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported --delimiter")
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := isolate(t)

	runCmd(t, "config", "set", "summary_provider", "local")
	runCmd(t, "config", "set", "api_key", "sk-abcdefghij")
	runCmd(t, "config", "set", "charts_enabled", "false")
	_, err := os.Stat(filepath.Join(home, ".autoeda", "config.yaml"))
	require.NoError(t, err)

	out := runCmd(t, "config", "show")
	assert.Contains(t, out, "api_key: sk-****hij")
	assert.Contains(t, out, "summary_provider: ollama")
	assert.Contains(t, out, "charts_enabled: false")
	assert.Contains(t, out, "temperature: 0.300")

	out = runCmd(t, "config", "show", "--json")
	assert.Contains(t, out, `"summary_provider": "ollama"`)

	_, err = execute(t, "config", "set", "summary_provider", "bogus")
	require.Error(t, err)
	_, err = execute(t, "config", "set", "no_such_key", "1")
	require.Error(t, err)
}

func TestCLI_SummaryUsesProviderDefaultModel(t *testing.T) {
	cases := []struct {
		provider string
		path     string
		model    string
		env      func(t *testing.T, url string)
		reply    map[string]any
	}{
		{
			provider: "openai",
			path:     "/chat/completions",
			model:    "gpt-4o-mini",
			env: func(t *testing.T, url string) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("AUTOEDA_SUMMARY_BASE_URL", url)
			},
			reply: map[string]any{
				"id":      "chatcmpl-1",
				"object":  "chat.completion",
				"choices": []any{map[string]any{"index": 0, "message": map[string]any{"role": "assistant", "content": "Sales by category."}}},
			},
		},
		{
			provider: "ollama",
			path:     "/api/chat",
			model:    "llama3.2",
			env:      func(t *testing.T, url string) { t.Setenv("AUTOEDA_OLLAMA_HOST", url) },
			reply: map[string]any{
				"message": map[string]any{"role": "assistant", "content": "Sales by category."},
				"done":    true,
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			home := isolate(t)
			csvPath := writeCSV(t, home)

			var gotModel string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != tc.path {
					http.NotFound(w, r)
					return
				}
				var body struct {
					Model string `json:"model"`
				}
				_ = json.NewDecoder(r.Body).Decode(&body)
				gotModel = body.Model
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(tc.reply)
			}))
			defer srv.Close()
			tc.env(t, srv.URL)

			out := runCmd(t, "analyze", csvPath, "--no-charts", "--summary", "--provider", tc.provider)
			assert.Equal(t, tc.model, gotModel)
			assert.Contains(t, out, "Sales by category.")
		})
	}
}

func TestEffectiveConfigAppliesFlagOverrides(t *testing.T) {
	isolate(t)
	pf := rootCmd.PersistentFlags()
	resetFlags(pf)
	t.Cleanup(func() {
		resetFlags(pf)
		cfg = nil
	})
	require.NoError(t, pf.Set("no-charts", "true"))
	require.NoError(t, pf.Set("summary", "true"))
	require.NoError(t, pf.Set("provider", "Ollama"))
	require.NoError(t, pf.Set("retry-max", "7"))

	cfg = nil
	c, err := effectiveConfig()
	require.NoError(t, err)
	assert.False(t, c.ChartsEnabled)
	assert.True(t, c.SummaryEnabled)
	assert.Equal(t, "ollama", c.SummaryProvider)
	assert.Equal(t, 7, c.RetryMaxAttempts)
}
