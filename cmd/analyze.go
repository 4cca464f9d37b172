package cmd

import (
	"fmt"

	"github.com/KaramelBytes/autoeda-cli/internal/report"
	"github.com/KaramelBytes/autoeda-cli/internal/utils"
	"github.com/spf13/cobra"
)

var anaOutputPath string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <source>",
	Short: "Analyze one CSV/TSV/XLSX path or URL and print the report",
	Long: `Analyze runs the same pipeline as one iteration of the interactive loop.
With --output the report is written as Markdown instead ("-" for stdout).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		driver, logger, err := newDriver()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		out := cmd.OutOrStdout()

		if anaOutputPath == "" {
			_, err := driver.RunOnce(cmd.Context(), args[0], out)
			return err
		}

		res, err := driver.Analyze(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		md := report.Markdown(res.Document(cfg.SummaryEnabled))
		if anaOutputPath == "-" {
			fmt.Fprint(out, md)
			return nil
		}
		if err := utils.SafeWriteFile(anaOutputPath, []byte(md)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(out, "✓ Wrote analysis to %s\n", anaOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "write the report as Markdown to this path ('-' for stdout)")
}
