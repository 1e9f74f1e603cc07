/*
Package prefs infers user preferences from recorded command history.

The package is pure computation: it consumes a snapshot of stored commands
and produces per-category keyword counts (the "signals") plus two summaries
over them. The holistic summary covers the whole history; the contextual
summary filters the history down to records relevant to a free-text task
description, falling back to a generic top slice when nothing matches.

Nothing here performs I/O or holds mutable state. The keyword tables are
built once and are safe for any number of concurrent readers.
*/
package prefs

const (
	// DefaultTopTasks is how many task canonicals common_tasks reports.
	DefaultTopTasks = 3

	// DefaultFallbackTopN caps every subset when no task group matches and
	// the contextual summary falls back to generic top preferences.
	DefaultFallbackTopN = 3

	// DefaultContextLimit bounds contextual analysis to the most recent
	// records when the caller does not supply a limit.
	DefaultContextLimit = 50

	// DefaultRecentLimit is how many records a recent-context payload
	// carries when the caller does not supply a limit.
	DefaultRecentLimit = 10
)

// Options tunes the summarizers. Zero values select the defaults.
type Options struct {
	// TopTasks overrides DefaultTopTasks.
	TopTasks int

	// FallbackTopN overrides DefaultFallbackTopN.
	FallbackTopN int
}

// Engine owns the static classification tables and exposes the two read
// paths over a record snapshot. All state is immutable after construction.
type Engine struct {
	lexicon *Lexicon
	groups  []TaskGroup
	opts    Options
}

// NewEngine builds an engine with the built-in lexicon and task groups.
func NewEngine(opts Options) *Engine {
	return NewEngineWithTables(DefaultLexicon(), DefaultTaskGroups(), opts)
}

// NewEngineWithTables builds an engine from caller-supplied tables.
func NewEngineWithTables(lexicon *Lexicon, groups []TaskGroup, opts Options) *Engine {
	if opts.TopTasks <= 0 {
		opts.TopTasks = DefaultTopTasks
	}
	if opts.FallbackTopN <= 0 {
		opts.FallbackTopN = DefaultFallbackTopN
	}
	return &Engine{
		lexicon: lexicon,
		groups:  groups,
		opts:    opts,
	}
}
