package storage

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

const (
	// topKeywordCount is how many tag keywords Stats reports.
	topKeywordCount = 5

	// activeHourCount is how many hour buckets Stats reports.
	activeHourCount = 3
)

// Stats computes usage statistics across the whole history: the total
// command count, the most frequent tags, and the busiest UTC hours as
// "HH:00-HH:00" ranges. Ties break toward the smaller tag name or hour so
// the output is stable.
func (s *SQLiteStore) Stats() (Stats, error) {
	if err := s.ready(); err != nil {
		return Stats{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT tags, timestamp FROM commands")
	if err != nil {
		return Stats{}, fmt.Errorf("failed to query commands for stats: %w", err)
	}
	defer rows.Close()

	total := 0
	tagCounts := make(map[string]int)
	hourCounts := make(map[int]int)

	for rows.Next() {
		var tagsCol, timestampStr string
		if err := rows.Scan(&tagsCol, &timestampStr); err != nil {
			return Stats{}, fmt.Errorf("failed to scan stats row: %w", err)
		}
		total++

		for _, tag := range splitTags(tagsCol) {
			tagCounts[tag]++
		}

		ts, err := time.Parse(time.RFC3339, timestampStr)
		if err != nil {
			s.logger.Warn("stats skipping unparseable timestamp", zap.Error(err))
			continue
		}
		hourCounts[ts.UTC().Hour()]++
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("failed to iterate stats rows: %w", err)
	}

	return Stats{
		TotalCommands: total,
		TopKeywords:   topTags(tagCounts, topKeywordCount),
		ActiveHours:   topHours(hourCounts, activeHourCount),
	}, nil
}

// topTags returns up to n tag names by descending count, name ascending on
// ties.
func topTags(counts map[string]int, n int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

// topHours returns up to n hour buckets by descending count formatted as
// "HH:00-HH:00" ranges, hour ascending on ties.
func topHours(counts map[int]int, n int) []string {
	hours := make([]int, 0, len(counts))
	for hour := range counts {
		hours = append(hours, hour)
	}
	sort.Slice(hours, func(i, j int) bool {
		if counts[hours[i]] != counts[hours[j]] {
			return counts[hours[i]] > counts[hours[j]]
		}
		return hours[i] < hours[j]
	})
	if len(hours) > n {
		hours = hours[:n]
	}

	ranges := make([]string, 0, len(hours))
	for _, h := range hours {
		ranges = append(ranges, fmt.Sprintf("%02d:00-%02d:00", h, (h+1)%24))
	}
	return ranges
}
