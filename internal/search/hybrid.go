package search

import (
	"math"
	"sort"
	"time"
)

const (
	// keywordWeight is the weight for BM25 relevance in the blended score (0.7 = 70%).
	keywordWeight = 0.7

	// recencyWeight is the weight for recency in the blended score (0.3 = 30%).
	recencyWeight = 0.3

	// recencyHalfLife is the half-life for exponential decay (7 days).
	recencyHalfLife = 7 * 24 * time.Hour
)

// SearchRecent performs keyword search with recency-aware ranking.
// Formula: 0.7*relevance + 0.3*recency
func (ix *Index) SearchRecent(query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	// Over-fetch so recency can reorder beyond the final cutoff.
	keywordResults, err := ix.Search(query, limit*2)
	if err != nil {
		return nil, err
	}

	blended := blendRecency(keywordResults, time.Now())

	sort.Slice(blended, func(i, j int) bool {
		return blended[i].Score > blended[j].Score
	})

	if len(blended) > limit {
		blended = blended[:limit]
	}

	return blended, nil
}

// blendRecency combines normalized relevance scores with recency decay.
func blendRecency(results []Result, now time.Time) []Result {
	normalized := normalizeScores(results)

	blended := make([]Result, len(normalized))
	for i, result := range normalized {
		blended[i] = result
		blended[i].Score = keywordWeight*result.Score +
			recencyWeight*recencyScore(result.Timestamp, now)
	}

	return blended
}

// recencyScore maps the age of a command to (0, 1], halving every
// recencyHalfLife. A zero timestamp scores 0.
func recencyScore(timestamp time.Time, now time.Time) float64 {
	if timestamp.IsZero() {
		return 0
	}

	age := now.Sub(timestamp)
	if age < 0 {
		age = 0
	}

	return math.Exp(-math.Ln2 * age.Hours() / recencyHalfLife.Hours())
}

// normalizeScores normalizes scores to [0, 1] range.
func normalizeScores(results []Result) []Result {
	if len(results) == 0 {
		return results
	}

	// Find min and max scores
	minScore := results[0].Score
	maxScore := results[0].Score

	for _, result := range results {
		if result.Score < minScore {
			minScore = result.Score
		}
		if result.Score > maxScore {
			maxScore = result.Score
		}
	}

	// Avoid division by zero - when all scores are equal, set all to 1.0
	if maxScore == minScore {
		normalized := make([]Result, len(results))
		for i, result := range results {
			normalized[i] = result
			normalized[i].Score = 1.0
		}
		return normalized
	}

	// Normalize
	normalized := make([]Result, len(results))
	for i, result := range results {
		normalized[i] = result
		normalized[i].Score = (result.Score - minScore) / (maxScore - minScore)
	}

	return normalized
}
