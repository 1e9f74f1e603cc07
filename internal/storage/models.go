package storage

import (
	"strings"
	"time"
)

// MaxTags caps how many tags a single command keeps. Extra tags are dropped
// at insert time.
const MaxTags = 3

// Command is one immutable stored user instruction.
type Command struct {
	// ID is the autoincrement row id. Internal, never serialized.
	ID int64 `json:"-"`

	// Text is the raw instruction exactly as the user issued it, never
	// paraphrased or truncated.
	Text string `json:"command_text"`

	// Tags are caller-supplied short lowercase labels, at most MaxTags.
	// Stored and matched as-is.
	Tags []string `json:"tags"`

	// Timestamp is the UTC insert time assigned by storage. Immutable.
	Timestamp time.Time `json:"timestamp"`
}

// Stats summarizes the stored history: total size, the most frequent tags,
// and the busiest UTC hours formatted as "HH:00-HH:00" ranges.
type Stats struct {
	TotalCommands int      `json:"total_commands"`
	TopKeywords   []string `json:"top_keywords"`
	ActiveHours   []string `json:"active_hours"`
}

// cleanTags drops empty entries and clamps the list to MaxTags.
func cleanTags(tags []string) []string {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		clean = append(clean, t)
		if len(clean) == MaxTags {
			break
		}
	}
	return clean
}

// joinTags flattens tags into the comma-separated column value.
func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// splitTags parses the comma-separated column back into a slice. The result
// is never nil so it serializes as [] rather than null.
func splitTags(column string) []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(column, ",") {
		if t == "" {
			continue
		}
		tags = append(tags, t)
	}
	return tags
}
