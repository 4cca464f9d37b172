package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/autoeda-cli/internal/loader"
	"github.com/KaramelBytes/autoeda-cli/internal/report"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

// QuitToken ends the interactive loop, compared case-insensitively.
const QuitToken = "quit"

// Prompt is shown before every source is read.
const Prompt = "Enter CSV URL or path (or 'quit' to exit): "

// LineReader is the subset of *readline.Instance the loop needs.
type LineReader interface {
	Readline() (string, error)
}

var (
	errMark  = color.New(color.FgRed, color.Bold)
	infoMark = color.New(color.FgGreen)
	rule     = strings.Repeat("-", 50)
)

// Loop reads sources until quit or end of input and prints one report per
// source. Every failure is reported and the loop continues.
func (d *Driver) Loop(ctx context.Context, in LineReader, out io.Writer) error {
	fmt.Fprintln(out, "Interactive EDA System")
	fmt.Fprintln(out, strings.Repeat("=", 24))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := in.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		}
		source := strings.TrimSpace(line)
		if strings.EqualFold(source, QuitToken) {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}
		_, _ = d.RunOnce(ctx, source, out)
	}
}

// RunOnce analyzes a single source and prints the report or the failure.
func (d *Driver) RunOnce(ctx context.Context, source string, out io.Writer) (*Result, error) {
	if source == "" {
		errMark.Fprintln(out, "ERROR: No URL provided")
		fmt.Fprintln(out, "Enter a valid CSV URL (e.g., raw.githubusercontent.com link)")
		return nil, loader.ErrEmptyInput
	}
	fmt.Fprintf(out, "Loading from: %s\n%s\n", source, rule)

	res, err := d.Analyze(ctx, source)
	if err != nil {
		reportLoadError(out, err)
		return nil, err
	}
	infoMark.Fprintf(out, "✓ Loaded: %d rows × %d columns", res.Table.Rows(), len(res.Table.Columns))
	fmt.Fprintf(out, " (%s)\n%s\n", res.Encoding, rule)
	report.Write(out, res.Document(d.cfg.SummaryRequested))
	fmt.Fprintf(out, "\n%s\n\n", strings.Repeat("=", 50))
	return res, nil
}

func reportLoadError(out io.Writer, err error) {
	switch {
	case errors.Is(err, loader.ErrDecodeFailure):
		errMark.Fprintf(out, "✗ ERROR decoding source: %v\n", err)
		fmt.Fprintln(out, " Common fixes:")
		fmt.Fprintln(out, "   • Save the file as UTF-8")
		fmt.Fprintln(out, "   • Check the delimiter (--delimiter) and quoting")
	default:
		errMark.Fprintf(out, "✗ ERROR loading source: %v\n", err)
		fmt.Fprintln(out, " Common fixes:")
		fmt.Fprintln(out, "   • Use RAW GitHub links (raw.githubusercontent.com)")
		fmt.Fprintln(out, "   • Check URL is direct CSV download")
		fmt.Fprintln(out, "   • Verify URL accessibility")
	}
	fmt.Fprintln(out)
}
