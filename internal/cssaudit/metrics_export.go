package cssaudit

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile exports bundle metrics in the Prometheus text format so a
// node_exporter textfile collector can pick them up. cmp may be nil.
func WriteTextfile(path string, current PerformanceMetrics, cmp *MetricsComparison) error {
	registry := prometheus.NewRegistry()

	bundleBytes := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "cssaudit",
		Name:      "bundle_bytes",
		Help:      "Total stylesheet size in bytes.",
	}, []string{"encoding"})
	bundleFiles := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cssaudit",
		Name:      "bundle_files",
		Help:      "Number of stylesheets in the bundle.",
	})
	parsingTime := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cssaudit",
		Name:      "parsing_time_milliseconds",
		Help:      "Approximate stylesheet parsing time.",
	})
	collectors := []prometheus.Collector{bundleBytes, bundleFiles, parsingTime}

	bundleBytes.WithLabelValues("raw").Set(float64(current.BundleSize.TotalSize))
	bundleBytes.WithLabelValues("gzip").Set(float64(current.BundleSize.GzippedSize))
	bundleBytes.WithLabelValues("minified").Set(float64(current.BundleSize.MinifiedSize))
	bundleFiles.Set(float64(current.BundleSize.FileCount))
	parsingTime.Set(current.CSSParsingTime)

	if cmp != nil {
		reduction := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cssaudit",
			Name:      "bundle_reduction_percent",
			Help:      "Bundle size reduction against the baseline.",
		}, []string{"encoding"})
		reduction.WithLabelValues("raw").Set(cmp.BundleSizeReductionPercent)
		reduction.WithLabelValues("gzip").Set(cmp.GzippedSizeReductionPercent)
		collectors = append(collectors, reduction)
	}

	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return fmt.Errorf("register metric: %w", err)
		}
	}

	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("write textfile %s: %w", path, err)
	}
	return nil
}
