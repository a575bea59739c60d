// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateRegressionPerfectMatch(t *testing.T) {
	assignments := map[string][]string{"sec-1": {"a"}, "sec-2": {"b"}}

	report := EvaluateRegression(assignments, assignments, 0.9)
	assert.True(t, report.Passed)
	assert.InDelta(t, 1.0, report.Precision, 1e-9)
	assert.InDelta(t, 1.0, report.Recall, 1e-9)
	assert.InDelta(t, 1.0, report.F1, 1e-9)
}

func TestEvaluateRegressionFlagsLowPrecision(t *testing.T) {
	predicted := map[string][]string{"sec-1": {"a", "b"}, "sec-2": {"b"}}
	golden := map[string][]string{"sec-1": {"a"}, "sec-2": {"c"}}

	report := EvaluateRegression(predicted, golden, 0.8)
	assert.False(t, report.Passed)
	assert.Less(t, report.Precision, 1.0)
	assert.Contains(t, report.Details, "golden")
	assert.Contains(t, report.Details, "sec-2:c")
}

func TestEvaluateRegressionEmptyPrediction(t *testing.T) {
	report := EvaluateRegression(nil, map[string][]string{"sec-1": {"a"}}, 0.5)
	assert.False(t, report.Passed)
	assert.Zero(t, report.Precision)
	assert.Zero(t, report.Recall)
	assert.Zero(t, report.F1)
}

func TestRecordSLOMetrics(t *testing.T) {
	metrics := RecordSLOMetrics(
		map[string]float64{"1": 1.2, "2": 2.5},
		[]float64{0.1, 0.2},
		0.9,
		map[string]float64{"openai": 1.23},
	)

	assert.InDelta(t, 1.85, metrics.AvgChapterDuration, 1e-9)
	assert.GreaterOrEqual(t, metrics.VectorSearchP95, metrics.VectorSearchP50)
	assert.Equal(t, 0.9, metrics.SciteSuccessRate)
	assert.Equal(t, 1.23, metrics.APICosts["openai"])
}

func TestRecordSLOMetricsEmptyInputs(t *testing.T) {
	metrics := RecordSLOMetrics(nil, nil, 0.0, nil)
	assert.Zero(t, metrics.AvgChapterDuration)
	assert.Zero(t, metrics.VectorSearchP50)
	assert.Zero(t, metrics.VectorSearchP95)
	assert.Empty(t, metrics.APICosts)
}

func TestPercentileInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	assert.InDelta(t, 2.5, percentile(values, 0.5), 1e-9)
	assert.InDelta(t, 4.0, percentile(values, 1.0), 1e-9)
	assert.InDelta(t, 1.0, percentile(values, 0.0), 1e-9)
}
