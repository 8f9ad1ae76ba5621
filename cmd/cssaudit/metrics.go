package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssaudit/internal/cssaudit"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Collect CSS metrics and save them as the baseline",
	Long: `Measure the raw, gzipped and minified size of every stylesheet plus an
approximate parsing time, and save the snapshot as JSON for later
comparison.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := GetLogger(cmd.Context())
		dir := stylesDir()

		baseline, err := cssaudit.CreateBaseline(dir,
			getStringWithFallback("version", "metrics.version", cssaudit.DefaultBaselineVersion),
			getStringWithFallback("description", "metrics.description", cssaudit.DefaultBaselineDescription),
			cssaudit.MetricsOptions{Logger: logger})
		if err != nil {
			return fmt.Errorf("collect baseline: %w", err)
		}

		path := baselinePath()
		if err := cssaudit.SaveBaseline(path, baseline); err != nil {
			return err
		}
		logger.Info("baseline saved", "path", path, "run", baseline.RunID)

		if err := exportTextfile(baseline.PerformanceMetrics, nil); err != nil {
			return err
		}
		if getBoolWithFallback("quiet", "quiet", false) {
			return nil
		}
		return cssaudit.WriteMetricsReport(cmd.OutOrStdout(), baseline.PerformanceMetrics, nil)
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare current CSS metrics with the saved baseline",
	Long: `Collect the current metrics, compare them with the baseline and report
progress against the 30-40% bundle size reduction target.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := GetLogger(cmd.Context())

		baseline, err := cssaudit.LoadBaseline(baselinePath())
		if err != nil {
			if errors.Is(err, cssaudit.ErrNoBaseline) {
				return fmt.Errorf("%w (run `cssaudit baseline` first)", err)
			}
			return err
		}

		current, err := cssaudit.CollectMetrics(stylesDir(), cssaudit.MetricsOptions{Logger: logger})
		if err != nil {
			return fmt.Errorf("collect metrics: %w", err)
		}
		cmp := cssaudit.CompareMetrics(current, baseline)

		if err := exportTextfile(current, &cmp); err != nil {
			return err
		}
		if err := writeCompareOutput(cmd, current, baseline, cmp); err != nil {
			return err
		}

		minReduction := getFloat64WithFallback("min-reduction", "metrics.min-reduction", 0)
		if minReduction > 0 && cmp.BundleSizeReductionPercent < minReduction {
			return fmt.Errorf("bundle size reduction %.2f%% is below target %.2f%%", cmp.BundleSizeReductionPercent, minReduction)
		}
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{baselineCmd, compareCmd} {
		f := cmd.Flags()
		f.String("baseline", cssaudit.DefaultBaselinePath, "Baseline metrics JSON file")
		f.String("textfile", "", "Also export the metrics in Prometheus textfile format")
	}

	baselineCmd.Flags().String("version", cssaudit.DefaultBaselineVersion, "Baseline version label")
	baselineCmd.Flags().String("description", cssaudit.DefaultBaselineDescription, "Baseline description")

	f := compareCmd.Flags()
	f.String("report", "", "Also write the Markdown metrics report to this file")
	f.String("output-format", "", "Output format: markdown|json")
	f.Float64("min-reduction", 0, "Fail when the bundle size reduction percentage is below this value")
}

func baselinePath() string {
	return getStringWithFallback("baseline", "metrics.baseline", cssaudit.DefaultBaselinePath)
}

func exportTextfile(current cssaudit.PerformanceMetrics, cmp *cssaudit.MetricsComparison) error {
	path := getStringWithFallback("textfile", "metrics.textfile", "")
	if path == "" {
		return nil
	}
	return cssaudit.WriteTextfile(path, current, cmp)
}

func writeCompareOutput(cmd *cobra.Command, current cssaudit.PerformanceMetrics, baseline cssaudit.BaselineMetrics, cmp cssaudit.MetricsComparison) error {
	format, err := outputFormat("metrics", cssaudit.OutputMarkdown, cssaudit.OutputMarkdown, cssaudit.OutputJSON)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	if format == cssaudit.OutputJSON {
		return cssaudit.WriteJSON(stdout, struct {
			Current    cssaudit.PerformanceMetrics `json:"current"`
			Baseline   cssaudit.BaselineMetrics    `json:"baseline"`
			Comparison cssaudit.MetricsComparison  `json:"comparison"`
		}{current, baseline, cmp})
	}

	if path := getStringWithFallback("report", "metrics.report", ""); path != "" {
		err := cssaudit.WriteReportFile(path, func(w io.Writer) error {
			return cssaudit.WriteMetricsReport(w, current, &baseline)
		})
		if err != nil {
			return err
		}
	}

	if getBoolWithFallback("quiet", "quiet", false) {
		return nil
	}
	useColors := cssaudit.ShouldUseColors(getBoolWithFallback("color", "color", false))
	cssaudit.NewSummaryReporter(stdout, useColors).PrintMetrics(current, &cmp)
	return nil
}
