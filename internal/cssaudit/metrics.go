package cssaudit

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

// ErrNoBaseline is returned when the baseline snapshot does not exist
var ErrNoBaseline = errors.New("no baseline metrics found")

// Baseline defaults used by the baseline command
const (
	DefaultBaselinePath        = "src/test/css-utils/baseline-metrics.json"
	DefaultBaselineVersion     = "1.0.0-baseline"
	DefaultBaselineDescription = "Initial baseline before CSS architecture refactor"
)

// FileMetrics holds the size measurements of one stylesheet
type FileMetrics struct {
	Path         string `json:"path"` // Styles-relative slash path
	Size         int64  `json:"size"`
	GzippedSize  int64  `json:"gzippedSize"`
	MinifiedSize int64  `json:"minifiedSize,omitempty"`
	Hash         string `json:"hash,omitempty"` // xxh3 content fingerprint
}

// BundleMetrics aggregates FileMetrics over the styles root
type BundleMetrics struct {
	TotalSize    int64         `json:"totalSize"`
	GzippedSize  int64         `json:"gzippedSize"`
	MinifiedSize int64         `json:"minifiedSize,omitempty"`
	FileCount    int           `json:"fileCount"`
	Files        []FileMetrics `json:"files"`
}

// PerformanceMetrics is one metrics collection run
type PerformanceMetrics struct {
	BundleSize     BundleMetrics `json:"bundleSize"`
	CSSParsingTime float64       `json:"cssParsingTime,omitempty"` // Milliseconds, approximate
	Timestamp      int64         `json:"timestamp"`                // Unix milliseconds
}

// BaselineMetrics is a persisted PerformanceMetrics snapshot
type BaselineMetrics struct {
	PerformanceMetrics
	Version     string `json:"version"`
	Description string `json:"description"`
	RunID       string `json:"runId,omitempty"`
}

// MetricsComparison holds deltas between a baseline and the current run.
// Positive reductions mean the bundle got smaller.
type MetricsComparison struct {
	BundleSizeReduction         int64    `json:"bundleSizeReduction"`
	BundleSizeReductionPercent  float64  `json:"bundleSizeReductionPercent"`
	GzippedSizeReduction        int64    `json:"gzippedSizeReduction"`
	GzippedSizeReductionPercent float64  `json:"gzippedSizeReductionPercent"`
	HasParsingTime              bool     `json:"hasParsingTime"`
	ParsingTimeChange           float64  `json:"parsingTimeChange,omitempty"`
	ParsingTimeChangePercent    float64  `json:"parsingTimeChangePercent,omitempty"`
	ChangedFiles                []string `json:"changedFiles,omitempty"`
	AddedFiles                  []string `json:"addedFiles,omitempty"`
	RemovedFiles                []string `json:"removedFiles,omitempty"`
}

// MetricsOptions configures metrics collection
type MetricsOptions struct {
	Now    func() time.Time
	Logger *slog.Logger
}

func (o MetricsOptions) withDefaults() MetricsOptions {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// CalculateBundleSize measures raw, gzip and minified sizes of every
// stylesheet below dir
func CalculateBundleSize(dir string, opts MetricsOptions) (BundleMetrics, error) {
	opts = opts.withDefaults()

	paths, err := DiscoverStylesheets(dir)
	if err != nil {
		return BundleMetrics{}, err
	}

	bundle := BundleMetrics{Files: []FileMetrics{}}
	for _, p := range paths {
		// #nosec G304 - path comes from discovery
		content, err := os.ReadFile(p)
		if err != nil {
			return BundleMetrics{}, fmt.Errorf("read file: %w", err)
		}

		gz, err := gzipSize(content)
		if err != nil {
			return BundleMetrics{}, fmt.Errorf("gzip %s: %w", p, err)
		}

		fm := FileMetrics{
			Path:         relativeTo(dir, p),
			Size:         int64(len(content)),
			GzippedSize:  gz,
			MinifiedSize: minifiedSize(p, content, opts.Logger),
			Hash:         Fingerprint(content),
		}

		bundle.TotalSize += fm.Size
		bundle.GzippedSize += fm.GzippedSize
		bundle.MinifiedSize += fm.MinifiedSize
		bundle.Files = append(bundle.Files, fm)
	}
	bundle.FileCount = len(bundle.Files)

	return bundle, nil
}

func gzipSize(content []byte) (int64, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(content); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}
	return int64(buf.Len()), nil
}

// minifiedSize runs the esbuild CSS minifier. Files esbuild rejects count
// with their raw size.
func minifiedSize(path string, content []byte, logger *slog.Logger) int64 {
	result := api.Transform(string(content), api.TransformOptions{
		Loader:            api.LoaderCSS,
		Sourcefile:        path,
		MinifyWhitespace:  true,
		MinifySyntax:      true,
		MinifyIdentifiers: true,
		LogLevel:          api.LogLevelSilent,
	})

	if len(result.Errors) > 0 {
		for _, msg := range result.Errors {
			line, column := 0, 0
			if msg.Location != nil {
				line, column = msg.Location.Line, msg.Location.Column
			}
			logger.Warn("minify failed", "file", path, "line", line, "column", column, "error", msg.Text)
		}
		return int64(len(content))
	}
	return int64(len(result.Code))
}

// Fingerprint returns the xxh3 hash of content as 16 hex digits
func Fingerprint(content []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(content))
}

var ruleProxyPattern = regexp.MustCompile(`[^{}]+\{[^}]*\}`)

// MeasureParsingTime times a regex pass over the stylesheet text. It is a
// rough proxy for browser parse cost, useful only for relative comparison.
func MeasureParsingTime(content string) float64 {
	start := time.Now()
	lines := strings.Split(content, "\n")
	rules := ruleProxyPattern.FindAllStringIndex(content, -1)
	elapsed := time.Since(start)
	_ = len(lines) + len(rules)
	return float64(elapsed.Nanoseconds()) / 1e6
}

// CalculateTotalParsingTime sums MeasureParsingTime over every stylesheet
func CalculateTotalParsingTime(dir string) (float64, error) {
	paths, err := DiscoverStylesheets(dir)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, p := range paths {
		// #nosec G304 - path comes from discovery
		content, err := os.ReadFile(p)
		if err != nil {
			return 0, fmt.Errorf("read file: %w", err)
		}
		total += MeasureParsingTime(string(content))
	}
	return total, nil
}

// CollectMetrics gathers bundle size and parsing time for dir
func CollectMetrics(dir string, opts MetricsOptions) (PerformanceMetrics, error) {
	opts = opts.withDefaults()

	bundle, err := CalculateBundleSize(dir, opts)
	if err != nil {
		return PerformanceMetrics{}, err
	}
	parsing, err := CalculateTotalParsingTime(dir)
	if err != nil {
		return PerformanceMetrics{}, err
	}

	opts.Logger.Debug("collected metrics", "files", bundle.FileCount, "bytes", bundle.TotalSize)
	return PerformanceMetrics{
		BundleSize:     bundle,
		CSSParsingTime: parsing,
		Timestamp:      opts.Now().UnixMilli(),
	}, nil
}

// CreateBaseline collects metrics and labels them as a baseline snapshot
func CreateBaseline(dir, version, description string, opts MetricsOptions) (BaselineMetrics, error) {
	if version == "" {
		version = DefaultBaselineVersion
	}
	if description == "" {
		description = DefaultBaselineDescription
	}

	metrics, err := CollectMetrics(dir, opts)
	if err != nil {
		return BaselineMetrics{}, err
	}
	return BaselineMetrics{
		PerformanceMetrics: metrics,
		Version:            version,
		Description:        description,
		RunID:              uuid.NewString(),
	}, nil
}

// SaveBaseline writes the snapshot as indented JSON, creating parent
// directories as needed
func SaveBaseline(path string, baseline BaselineMetrics) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create baseline directory: %w", err)
	}

	data, err := json.MarshalIndent(baseline, "", "  ")
	if err != nil {
		return fmt.Errorf("encode baseline: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write baseline: %w", err)
	}
	return nil
}

// LoadBaseline reads a snapshot written by SaveBaseline
func LoadBaseline(path string) (BaselineMetrics, error) {
	// #nosec G304 - path comes from trusted configuration
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return BaselineMetrics{}, fmt.Errorf("%w: %s", ErrNoBaseline, path)
		}
		return BaselineMetrics{}, fmt.Errorf("read baseline: %w", err)
	}

	var baseline BaselineMetrics
	if err := json.Unmarshal(data, &baseline); err != nil {
		return BaselineMetrics{}, fmt.Errorf("decode baseline %s: %w", path, err)
	}
	return baseline, nil
}

// CompareMetrics computes the deltas between baseline and current
func CompareMetrics(current PerformanceMetrics, baseline BaselineMetrics) MetricsComparison {
	base, cur := baseline.BundleSize, current.BundleSize

	cmp := MetricsComparison{
		BundleSizeReduction:  base.TotalSize - cur.TotalSize,
		GzippedSizeReduction: base.GzippedSize - cur.GzippedSize,
	}
	cmp.BundleSizeReductionPercent = percentOf(cmp.BundleSizeReduction, base.TotalSize)
	cmp.GzippedSizeReductionPercent = percentOf(cmp.GzippedSizeReduction, base.GzippedSize)

	if current.CSSParsingTime != 0 && baseline.CSSParsingTime != 0 {
		cmp.HasParsingTime = true
		cmp.ParsingTimeChange = baseline.CSSParsingTime - current.CSSParsingTime
		cmp.ParsingTimeChangePercent = cmp.ParsingTimeChange * 100 / baseline.CSSParsingTime
	}

	baseFiles := make(map[string]string, len(base.Files))
	for _, f := range base.Files {
		baseFiles[f.Path] = f.Hash
	}
	for _, f := range cur.Files {
		hash, ok := baseFiles[f.Path]
		switch {
		case !ok:
			cmp.AddedFiles = append(cmp.AddedFiles, f.Path)
		case hash != "" && f.Hash != "" && hash != f.Hash:
			cmp.ChangedFiles = append(cmp.ChangedFiles, f.Path)
		}
		delete(baseFiles, f.Path)
	}
	for _, f := range base.Files {
		if _, missing := baseFiles[f.Path]; missing {
			cmp.RemovedFiles = append(cmp.RemovedFiles, f.Path)
		}
	}

	return cmp
}

func percentOf(delta, base int64) float64 {
	if base == 0 {
		return 0
	}
	return float64(delta) * 100 / float64(base)
}

// AssessReduction describes progress against the 30-40% bundle reduction
// target
func AssessReduction(percent float64) string {
	switch {
	case percent >= 30 && percent <= 40:
		return "✅ Target achieved: 30-40% reduction"
	case percent > 40:
		return "🎉 Exceeded target: >40% reduction"
	case percent > 0:
		return fmt.Sprintf("⚠️  Progress: %.2f%% (target: 30-40%%)", percent)
	default:
		return "❌ Size increased"
	}
}

// FormatBytes renders a byte count with binary units, e.g. "1.5 KB".
// Negative counts keep their sign.
func FormatBytes(n int64) string {
	if n == 0 {
		return "0 Bytes"
	}
	if n < 0 {
		return "-" + FormatBytes(-n)
	}

	const k = 1024
	sizes := []string{"Bytes", "KB", "MB", "GB"}
	i := 0
	for unit := int64(k); i < len(sizes)-1 && n >= unit; unit *= k {
		i++
	}

	value := float64(n) / math.Pow(k, float64(i))
	value = math.Round(value*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizes[i]
}
