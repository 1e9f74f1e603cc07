/*
Package search provides full-text retrieval over the stored command history.

An in-memory Bleve index is built from the history at startup and kept in
sync as new commands are recorded. Lookups run a BM25 match query and blend
the relevance score with a recency component so fresh instructions surface
first among equally relevant ones.
*/
package search

import (
	"strings"
	"time"
)

// Result is a single ranked match from the command index.
type Result struct {
	Text      string    `json:"command_text"`
	Tags      []string  `json:"tags"`
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
}

// joinTags flattens tags into the indexed field value.
func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// splitTags parses the indexed field value back into a slice, never nil.
func splitTags(field string) []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(field, ",") {
		if t == "" {
			continue
		}
		tags = append(tags, t)
	}
	return tags
}
