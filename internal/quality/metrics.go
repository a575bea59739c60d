// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quality

import (
	"fmt"
	"math"
	"sort"
)

// RegressionReport compares predicted citation assignments against a
// golden set.
type RegressionReport struct {
	Precision float64
	Recall    float64
	F1        float64
	Passed    bool
	Details   string
}

// EvaluateRegression scores predicted section-to-reference pairs against a
// golden mapping. Both precision and recall must meet threshold to pass.
func EvaluateRegression(predicted, golden map[string][]string, threshold float64) RegressionReport {
	predSet := pairSet(predicted)
	goldSet := pairSet(golden)

	truePositive := 0
	for pair := range predSet {
		if _, ok := goldSet[pair]; ok {
			truePositive++
		}
	}

	var precision, recall, f1 float64
	if len(predSet) > 0 {
		precision = float64(truePositive) / float64(len(predSet))
	}
	if len(goldSet) > 0 {
		recall = float64(truePositive) / float64(len(goldSet))
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	extra := sortedDifference(predSet, goldSet)
	missing := sortedDifference(goldSet, predSet)

	return RegressionReport{
		Precision: precision,
		Recall:    recall,
		F1:        f1,
		Passed:    precision >= threshold && recall >= threshold,
		Details: fmt.Sprintf("extra: %v missing: %v; golden size=%d, predicted=%d",
			extra, missing, len(goldSet), len(predSet)),
	}
}

// SLOMetrics summarizes run latency and cost measurements for monitoring.
type SLOMetrics struct {
	AvgChapterDuration float64
	VectorSearchP50    float64
	VectorSearchP95    float64
	SciteSuccessRate   float64
	APICosts           map[string]float64
}

// RecordSLOMetrics aggregates per-chapter durations, vector search latency
// percentiles, and API cost figures into one snapshot.
func RecordSLOMetrics(chapterDurations map[string]float64, vectorSearchLatencies []float64, sciteSuccessRate float64, apiCosts map[string]float64) SLOMetrics {
	var avg float64
	if len(chapterDurations) > 0 {
		total := 0.0
		for _, d := range chapterDurations {
			total += d
		}
		avg = total / float64(len(chapterDurations))
	}

	costs := make(map[string]float64, len(apiCosts))
	for name, cost := range apiCosts {
		costs[name] = cost
	}

	return SLOMetrics{
		AvgChapterDuration: avg,
		VectorSearchP50:    percentile(vectorSearchLatencies, 0.5),
		VectorSearchP95:    percentile(vectorSearchLatencies, 0.95),
		SciteSuccessRate:   sciteSuccessRate,
		APICosts:           costs,
	}
}

// percentile computes a linearly interpolated percentile over values.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	k := float64(len(sorted)-1) * p
	lo := math.Floor(k)
	hi := math.Ceil(k)
	if lo == hi {
		return sorted[int(k)]
	}
	return sorted[int(lo)]*(hi-k) + sorted[int(hi)]*(k-lo)
}

type refPair struct {
	section string
	ref     string
}

func pairSet(assignments map[string][]string) map[refPair]struct{} {
	set := map[refPair]struct{}{}
	for section, refs := range assignments {
		for _, ref := range refs {
			set[refPair{section, ref}] = struct{}{}
		}
	}
	return set
}

func sortedDifference(a, b map[refPair]struct{}) []string {
	var diff []string
	for pair := range a {
		if _, ok := b[pair]; !ok {
			diff = append(diff, pair.section+":"+pair.ref)
		}
	}
	sort.Strings(diff)
	return diff
}
