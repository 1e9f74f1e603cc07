package prefs

import (
	"sort"
	"strings"

	"github.com/smallyunet/memory-mcp-server/internal/storage"
)

// HolisticPreferences summarizes signals across the whole supplied history.
// Raw counts are exposed alongside every derived field so callers can always
// see the evidence behind a summary.
type HolisticPreferences struct {
	// PreferredLanguage is the dominant language canonical; null in JSON
	// when no language keyword was ever seen.
	PreferredLanguage *string `json:"preferred_language"`

	// PreferredLanguageConfidence is the dominant language's share of all
	// language signals, in [0,1]. Exactly zero when no language was seen.
	PreferredLanguageConfidence float64 `json:"preferred_language_confidence"`

	// CommonTasks holds the top task canonicals by descending count.
	CommonTasks []string `json:"common_tasks"`

	// Style is the comma-joined ranked style canonicals, "" when none.
	Style string `json:"style"`

	Frameworks []string    `json:"frameworks"`
	Tools      []string    `json:"tools"`
	Signals    SignalTable `json:"signals"`
}

// Holistic aggregates the full record snapshot and reduces it to top picks
// per category. An empty snapshot yields empty results, never an error.
func (e *Engine) Holistic(records []storage.Command) HolisticPreferences {
	table := e.lexicon.Aggregate(records)
	lang, confidence := e.preferredLanguage(table)
	return HolisticPreferences{
		PreferredLanguage:           lang,
		PreferredLanguageConfidence: confidence,
		CommonTasks:                 e.rankedNames(table, CategoryTask, e.opts.TopTasks),
		Style:                       strings.Join(e.rankedNames(table, CategoryStyle, 0), ", "),
		Frameworks:                  e.rankedNames(table, CategoryFramework, 0),
		Tools:                       e.rankedNames(table, CategoryTool, 0),
		Signals:                     table,
	}
}

// preferredLanguage picks the highest-count language canonical, ties broken
// by lexicon declaration order, along with its share of all language counts.
// Returns (nil, 0) when the category is empty.
func (e *Engine) preferredLanguage(table SignalTable) (*string, float64) {
	ranked := e.rankedNames(table, CategoryLanguage, 1)
	if len(ranked) == 0 {
		return nil, 0
	}

	total := 0
	for _, n := range table[CategoryLanguage] {
		total += n
	}

	top := ranked[0]
	return &top, float64(table[CategoryLanguage][top]) / float64(total)
}

// rankedNames returns the canonical names with nonzero counts in a category,
// descending by count, ties broken by lexicon declaration order. A limit of
// 0 means no cap. The result is never nil.
func (e *Engine) rankedNames(table SignalTable, cat Category, limit int) []string {
	counts := table[cat]
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return e.lexicon.rankOf(cat, names[i]) < e.lexicon.rankOf(cat, names[j])
	})

	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names
}
