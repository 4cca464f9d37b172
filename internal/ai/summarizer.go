package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/KaramelBytes/autoeda-cli/internal/utils"
	"go.uber.org/zap"
)

// Summarizer turns a short table description into a narrative summary.
type Summarizer interface {
	Summarize(ctx context.Context, description string) (string, error)
}

// SummaryOptions configures a RuntimeSummarizer.
type SummaryOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
	// PromptTokens bounds the description sent to the model.
	PromptTokens int
}

const systemPrompt = "You are a data analyst. Given a short description of a tabular dataset, " +
	"write one concise paragraph summarizing what the data appears to contain and what " +
	"an analyst should look at first. Do not invent column values."

// RuntimeSummarizer asks a Runtime for a one-paragraph summary.
type RuntimeSummarizer struct {
	rt     Runtime
	opt    SummaryOptions
	logger *zap.Logger
}

// NewSummarizer wraps rt. Zero options fall back to small defaults.
func NewSummarizer(rt Runtime, opt SummaryOptions, logger *zap.Logger) *RuntimeSummarizer {
	if opt.MaxTokens <= 0 {
		opt.MaxTokens = 256
	}
	if opt.PromptTokens <= 0 {
		opt.PromptTokens = 1024
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuntimeSummarizer{rt: rt, opt: opt, logger: logger.Named("summary")}
}

// Summarize implements Summarizer.
func (s *RuntimeSummarizer) Summarize(ctx context.Context, description string) (string, error) {
	if s.rt == nil {
		return "", ErrSummaryUnavailable
	}
	prompt := utils.TruncateToTokenLimit(description, s.opt.PromptTokens)
	resp, err := s.rt.Generate(ctx, GenerateRequest{
		Model: s.opt.Model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   s.opt.MaxTokens,
		Temperature: s.opt.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("generate summary: empty response")
	}
	s.logger.Debug("summary generated",
		zap.String("model", s.opt.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.String("request_id", resp.RequestID))
	return text, nil
}

// DescribeTable is the description sent to a Summarizer: shape plus the
// leading column names.
func DescribeTable(name string, rows int, columns []string, maxColumns int) string {
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "Dataset: %s\n", name)
	}
	fmt.Fprintf(&b, "Shape: %d rows, %d columns\n", rows, len(columns))
	shown := columns
	if maxColumns > 0 && len(shown) > maxColumns {
		shown = shown[:maxColumns]
	}
	if len(shown) > 0 {
		fmt.Fprintf(&b, "Columns: %s", strings.Join(shown, ", "))
		if len(shown) < len(columns) {
			fmt.Fprintf(&b, " (+%d more)", len(columns)-len(shown))
		}
		b.WriteString("\n")
	}
	return b.String()
}
