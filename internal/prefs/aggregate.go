package prefs

import "github.com/smallyunet/memory-mcp-server/internal/storage"

// SignalTable maps category to canonical name to the number of distinct
// records that matched the name. Built fresh per aggregation, never
// persisted.
type SignalTable map[Category]map[string]int

// bump increments a counter, allocating the category map on first use.
func (t SignalTable) bump(cat Category, name string) {
	counts := t[cat]
	if counts == nil {
		counts = make(map[string]int)
		t[cat] = counts
	}
	counts[name]++
}

// Restrict returns a copy of the table containing only the given categories.
func (t SignalTable) Restrict(cats ...Category) SignalTable {
	out := make(SignalTable, len(cats))
	for _, cat := range cats {
		counts, ok := t[cat]
		if !ok {
			continue
		}
		copied := make(map[string]int, len(counts))
		for name, n := range counts {
			copied[name] = n
		}
		out[cat] = copied
	}
	return out
}

// signalKey identifies one (category, canonical name) counter.
type signalKey struct {
	cat  Category
	name string
}

// Aggregate scans records and produces the per-category signal counts.
//
// Record text is tokenized; tags are short lowercase labels by contract and
// are matched as-is. A record contributes at most one increment per
// (category, canonical name) pair no matter how often a keyword repeats
// inside it, so one verbose command cannot dominate the signal. The result
// depends only on the record set and the lexicon; reordering records never
// changes the counts.
func (lx *Lexicon) Aggregate(records []storage.Command) SignalTable {
	table := make(SignalTable)
	for _, rec := range records {
		lx.aggregateRecord(rec, table)
	}
	return table
}

// aggregateRecord folds one record into the table, deduplicating matches
// within the record.
func (lx *Lexicon) aggregateRecord(rec storage.Command, table SignalTable) {
	seen := make(map[signalKey]bool)

	consider := func(token string) {
		for _, e := range lx.Matches(token) {
			key := signalKey{cat: e.Category, name: e.Canonical}
			if seen[key] {
				continue
			}
			seen[key] = true
			table.bump(e.Category, e.Canonical)
		}
	}

	for _, token := range Tokenize(rec.Text) {
		consider(token)
	}
	for _, tag := range rec.Tags {
		consider(tag)
	}
}
