package prefs

import (
	"strings"

	"github.com/smallyunet/memory-mcp-server/internal/storage"
)

// FallbackNote is attached to contextual results when no task group matched
// the context, so callers can always tell a real match from the generic
// fallback.
const FallbackNote = "no task group matched the context; showing generic top preferences"

// ContextualPreferences is the context-filtered view of the signals.
type ContextualPreferences struct {
	// MatchedGroups lists every task group triggered by the context, in
	// group declaration order. Empty (never null) on the fallback path.
	MatchedGroups []string `json:"matched_groups"`

	// PreferredLanguage is computed from the same (possibly filtered)
	// subset as the other fields.
	PreferredLanguage *string `json:"preferred_language"`

	StyleSubset      []string `json:"style_subset"`
	TasksSubset      []string `json:"tasks_subset"`
	FrameworksSubset []string `json:"frameworks_subset"`
	ToolsSubset      []string `json:"tools_subset"`

	// SignalsOverlap is the subset's signal table restricted to the task,
	// style, and tool categories.
	SignalsOverlap SignalTable `json:"signals_overlap"`

	// Context echoes the caller's task description.
	Context string `json:"context"`

	// Note is set only on the fallback path.
	Note string `json:"note,omitempty"`
}

// Match returns the names of every task group with at least one trigger
// keyword among the context's tokens, in group declaration order. Multiple
// groups may match the same context.
func (e *Engine) Match(context string) []string {
	tokens := make(map[string]bool)
	for _, tok := range Tokenize(context) {
		tokens[tok] = true
	}

	matched := make([]string, 0)
	for _, g := range e.groups {
		for _, trigger := range g.Triggers {
			if tokens[trigger] {
				matched = append(matched, g.Name)
				break
			}
		}
	}
	return matched
}

// Contextual summarizes the signals relevant to a free-text task
// description.
//
// The snapshot must be ordered newest first (as ListCommands returns it);
// only the most recent limit records are considered. When at least one task
// group matches the context, the summary covers just the records that share
// a trigger keyword with any matched group. When nothing matches, the
// summary falls back to the generic top slice of the bounded history and
// sets Note.
//
// A blank context or non-positive limit is a caller contract violation and
// returns an InvalidArgumentError before any aggregation runs. An empty
// record snapshot is valid and yields empty results.
func (e *Engine) Contextual(records []storage.Command, context string, limit int) (ContextualPreferences, error) {
	if strings.TrimSpace(context) == "" {
		return ContextualPreferences{}, &InvalidArgumentError{
			Field:  "context",
			Reason: "must be a non-empty string",
		}
	}
	if limit <= 0 {
		return ContextualPreferences{}, &InvalidArgumentError{
			Field:  "limit",
			Reason: "must be a positive integer",
		}
	}

	if len(records) > limit {
		records = records[:limit]
	}

	matched := e.Match(context)

	subset := records
	limits := subsetLimits{tasks: e.opts.TopTasks}
	note := ""
	if len(matched) > 0 {
		subset = e.filterByGroups(records, matched)
	} else {
		n := e.opts.FallbackTopN
		limits = subsetLimits{tasks: n, style: n, frameworks: n, tools: n}
		note = FallbackNote
	}

	table := e.lexicon.Aggregate(subset)
	lang, _ := e.preferredLanguage(table)

	return ContextualPreferences{
		MatchedGroups:     matched,
		PreferredLanguage: lang,
		StyleSubset:       e.rankedNames(table, CategoryStyle, limits.style),
		TasksSubset:       e.rankedNames(table, CategoryTask, limits.tasks),
		FrameworksSubset:  e.rankedNames(table, CategoryFramework, limits.frameworks),
		ToolsSubset:       e.rankedNames(table, CategoryTool, limits.tools),
		SignalsOverlap:    table.Restrict(CategoryTask, CategoryStyle, CategoryTool),
		Context:           context,
		Note:              note,
	}, nil
}

// subsetLimits caps each contextual subset; zero means no cap.
type subsetLimits struct {
	tasks      int
	style      int
	frameworks int
	tools      int
}

// filterByGroups keeps records whose tokens or tags intersect the union of
// the matched groups' trigger keywords. Membership in any one matched group
// is enough; a record may belong to several.
func (e *Engine) filterByGroups(records []storage.Command, matched []string) []storage.Command {
	names := make(map[string]bool, len(matched))
	for _, name := range matched {
		names[name] = true
	}

	triggers := make(map[string]bool)
	for _, g := range e.groups {
		if !names[g.Name] {
			continue
		}
		for _, t := range g.Triggers {
			triggers[t] = true
		}
	}

	filtered := make([]storage.Command, 0, len(records))
	for _, rec := range records {
		if recordMatchesTriggers(rec, triggers) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// recordMatchesTriggers reports whether any of the record's tokens or tags
// is a trigger keyword. Tags are matched as-is.
func recordMatchesTriggers(rec storage.Command, triggers map[string]bool) bool {
	for _, tok := range Tokenize(rec.Text) {
		if triggers[tok] {
			return true
		}
	}
	for _, tag := range rec.Tags {
		if triggers[tag] {
			return true
		}
	}
	return false
}
