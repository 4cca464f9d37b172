package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRuntime struct {
	got  GenerateRequest
	resp *GenerateResponse
	err  error
}

func (s *stubRuntime) Generate(_ context.Context, req GenerateRequest) (*GenerateResponse, error) {
	s.got = req
	return s.resp, s.err
}

func TestRuntimeSummarizer(t *testing.T) {
	rt := &stubRuntime{resp: &GenerateResponse{Choices: []Choice{{Message: Message{Content: "  A table of prices.  "}}}}}
	s := NewSummarizer(rt, SummaryOptions{Model: "m", PromptTokens: 4}, zap.NewNop())

	out, err := s.Summarize(context.Background(), strings.Repeat("abcd", 20))
	require.NoError(t, err)
	assert.Equal(t, "A table of prices.", out)
	require.Len(t, rt.got.Messages, 2)
	assert.Equal(t, "system", rt.got.Messages[0].Role)
	assert.Len(t, rt.got.Messages[1].Content, 16, "prompt should be truncated to the token budget")
	assert.Equal(t, 256, rt.got.MaxTokens)
}

func TestRuntimeSummarizerErrors(t *testing.T) {
	rt := &stubRuntime{err: &AuthError{APIError: &APIError{StatusCode: 401}}}
	_, err := NewSummarizer(rt, SummaryOptions{Model: "m"}, nil).Summarize(context.Background(), "x")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)

	rt = &stubRuntime{resp: &GenerateResponse{}}
	_, err = NewSummarizer(rt, SummaryOptions{Model: "m"}, nil).Summarize(context.Background(), "x")
	require.Error(t, err)

	_, err = NewSummarizer(nil, SummaryOptions{}, nil).Summarize(context.Background(), "x")
	require.True(t, errors.Is(err, ErrSummaryUnavailable))
}

func TestDescribeTable(t *testing.T) {
	d := DescribeTable("sales.csv", 120, []string{"a", "b", "c", "d"}, 2)
	assert.Equal(t, "Dataset: sales.csv\nShape: 120 rows, 4 columns\nColumns: a, b (+2 more)\n", d)
}

func TestGetRuntime(t *testing.T) {
	for _, p := range []string{ProviderOpenRouter, ProviderOpenAI, ProviderOllama} {
		rt, err := GetRuntime(p, RuntimeConfig{})
		require.NoError(t, err, p)
		require.NotNil(t, rt)
	}
	_, err := GetRuntime("nope", RuntimeConfig{})
	require.Error(t, err)
}
