package cssaudit

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 Bytes"},
		{512, "512 Bytes"},
		{1023, "1023 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
		{1234567, "1.18 MB"},
		{1073741824, "1 GB"},
		{-2048, "-2 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBytes(tt.n))
		})
	}
}

func baselineWithSize(total, gzipped int64) BaselineMetrics {
	return BaselineMetrics{
		PerformanceMetrics: PerformanceMetrics{
			BundleSize: BundleMetrics{TotalSize: total, GzippedSize: gzipped},
		},
	}
}

func TestCompareMetrics_SignConvention(t *testing.T) {
	current := PerformanceMetrics{BundleSize: BundleMetrics{TotalSize: 65000, GzippedSize: 13000}}
	cmp := CompareMetrics(current, baselineWithSize(100000, 20000))
	assert.Equal(t, int64(35000), cmp.BundleSizeReduction)
	assert.Equal(t, 35.0, cmp.BundleSizeReductionPercent)
	assert.Equal(t, 35.0, cmp.GzippedSizeReductionPercent)

	grown := PerformanceMetrics{BundleSize: BundleMetrics{TotalSize: 100000}}
	cmp = CompareMetrics(grown, baselineWithSize(70000, 0))
	assert.Equal(t, int64(-30000), cmp.BundleSizeReduction)
	assert.InDelta(t, -42.857, cmp.BundleSizeReductionPercent, 0.001)
	assert.Equal(t, 0.0, cmp.GzippedSizeReductionPercent, "zero baseline gives zero percent")
}

func TestCompareMetrics_ParsingTime(t *testing.T) {
	baseline := baselineWithSize(1, 1)

	cmp := CompareMetrics(PerformanceMetrics{CSSParsingTime: 5}, baseline)
	assert.False(t, cmp.HasParsingTime)

	baseline.CSSParsingTime = 10
	cmp = CompareMetrics(PerformanceMetrics{CSSParsingTime: 5}, baseline)
	assert.True(t, cmp.HasParsingTime)
	assert.Equal(t, 5.0, cmp.ParsingTimeChange)
	assert.Equal(t, 50.0, cmp.ParsingTimeChangePercent)
}

func TestCompareMetrics_Files(t *testing.T) {
	baseline := BaselineMetrics{PerformanceMetrics: PerformanceMetrics{BundleSize: BundleMetrics{Files: []FileMetrics{
		{Path: "a.css", Hash: "1"},
		{Path: "b.css", Hash: "2"},
		{Path: "c.css", Hash: "3"},
	}}}}
	current := PerformanceMetrics{BundleSize: BundleMetrics{Files: []FileMetrics{
		{Path: "a.css", Hash: "1"},
		{Path: "b.css", Hash: "changed"},
		{Path: "d.css", Hash: "4"},
	}}}

	cmp := CompareMetrics(current, baseline)
	assert.Equal(t, []string{"b.css"}, cmp.ChangedFiles)
	assert.Equal(t, []string{"d.css"}, cmp.AddedFiles)
	assert.Equal(t, []string{"c.css"}, cmp.RemovedFiles)
}

func TestAssessReduction(t *testing.T) {
	assert.Equal(t, "✅ Target achieved: 30-40% reduction", AssessReduction(35))
	assert.Equal(t, "🎉 Exceeded target: >40% reduction", AssessReduction(41))
	assert.Equal(t, "⚠️  Progress: 12.50% (target: 30-40%)", AssessReduction(12.5))
	assert.Equal(t, "❌ Size increased", AssessReduction(0))
	assert.Equal(t, "❌ Size increased", AssessReduction(-5))
}

func TestCalculateBundleSize(t *testing.T) {
	content := ".card {\n    color:   red;\n    margin:  0px   0px;\n}\n\n\n.card   .title {\n    color: red;\n}\n"
	root := writeTree(t, map[string]string{
		"components/card.css": content,
		"empty.css":           "",
		"node_modules/x.css":  ".x{}",
	})

	bundle, err := CalculateBundleSize(root, MetricsOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, bundle.FileCount)

	card := bundle.Files[0]
	assert.Equal(t, "components/card.css", card.Path)
	assert.Equal(t, int64(len(content)), card.Size)
	assert.Positive(t, card.GzippedSize)
	assert.Positive(t, card.MinifiedSize)
	assert.Less(t, card.MinifiedSize, card.Size)
	assert.Equal(t, Fingerprint([]byte(content)), card.Hash)
	assert.Len(t, card.Hash, 16)

	assert.Equal(t, "empty.css", bundle.Files[1].Path)
	assert.Equal(t, int64(len(content)), bundle.TotalSize)
	assert.Equal(t, card.GzippedSize+bundle.Files[1].GzippedSize, bundle.GzippedSize)
}

func TestCalculateBundleSize_MissingDir(t *testing.T) {
	_, err := CalculateBundleSize(filepath.Join(t.TempDir(), "missing"), MetricsOptions{})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestBaselineRoundTrip(t *testing.T) {
	root := writeTree(t, map[string]string{"a.css": ".a { color: red; }"})
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	baseline, err := CreateBaseline(root, "", "", MetricsOptions{Now: func() time.Time { return now }})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaselineVersion, baseline.Version)
	assert.Equal(t, DefaultBaselineDescription, baseline.Description)
	assert.Equal(t, now.UnixMilli(), baseline.Timestamp)
	assert.NotEmpty(t, baseline.RunID)

	path := filepath.Join(t.TempDir(), "nested", "baseline.json")
	require.NoError(t, SaveBaseline(path, baseline))

	loaded, err := LoadBaseline(path)
	require.NoError(t, err)
	assert.Equal(t, baseline, loaded)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"bundleSize"`)
	assert.Contains(t, string(data), `"version": "1.0.0-baseline"`)
}

func TestLoadBaseline_Missing(t *testing.T) {
	_, err := LoadBaseline(filepath.Join(t.TempDir(), "none.json"))
	require.ErrorIs(t, err, ErrNoBaseline)
}

func TestLoadBaseline_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadBaseline(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoBaseline)
}

func TestWriteTextfile(t *testing.T) {
	current := PerformanceMetrics{
		BundleSize:     BundleMetrics{TotalSize: 65000, GzippedSize: 13000, MinifiedSize: 50000, FileCount: 4},
		CSSParsingTime: 1.5,
	}
	cmp := CompareMetrics(current, baselineWithSize(100000, 20000))

	path := filepath.Join(t.TempDir(), "cssaudit.prom")
	require.NoError(t, WriteTextfile(path, current, &cmp))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `cssaudit_bundle_bytes{encoding="raw"} 65000`)
	assert.Contains(t, out, `cssaudit_bundle_bytes{encoding="gzip"} 13000`)
	assert.Contains(t, out, `cssaudit_bundle_files 4`)
	assert.Contains(t, out, `cssaudit_parsing_time_milliseconds 1.5`)
	assert.Contains(t, out, `cssaudit_bundle_reduction_percent{encoding="raw"} 35`)

	require.NoError(t, WriteTextfile(path, current, nil))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "reduction")
}

func TestWriteMetricsReport(t *testing.T) {
	current := PerformanceMetrics{
		BundleSize: BundleMetrics{
			TotalSize:   65000,
			GzippedSize: 13000,
			FileCount:   1,
			Files:       []FileMetrics{{Path: "a.css", Size: 65000, GzippedSize: 13000}},
		},
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli(),
	}
	baseline := baselineWithSize(100000, 20000)
	baseline.Version = "v1"
	baseline.Description = "before"

	var first, second bytes.Buffer
	require.NoError(t, WriteMetricsReport(&first, current, &baseline))
	require.NoError(t, WriteMetricsReport(&second, current, &baseline))
	assert.Equal(t, first.String(), second.String())

	out := first.String()
	assert.True(t, strings.HasPrefix(out, "# CSS Metrics Report\n\nGenerated: 2024-03-01T12:00:00Z\n"))
	assert.Contains(t, out, "- Total Size: 63.48 KB")
	assert.Contains(t, out, "- Baseline: v1 (before)")
	assert.Contains(t, out, "- Bundle Size Reduction: 34.18 KB (35.00%)")
	assert.NotContains(t, out, "## Performance")
}
