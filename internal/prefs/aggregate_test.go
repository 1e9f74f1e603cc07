package prefs

import (
	"reflect"
	"testing"

	"github.com/smallyunet/memory-mcp-server/internal/storage"
)

func TestAggregate_EmptyRecords(t *testing.T) {
	lx := DefaultLexicon()

	table := lx.Aggregate(nil)

	if len(table) != 0 {
		t.Errorf("expected empty table for no records, got %v", table)
	}
}

func TestAggregate_CountsRecordsNotOccurrences(t *testing.T) {
	lx := DefaultLexicon()
	records := []storage.Command{
		{Text: "test test test and more tests"},
	}

	table := lx.Aggregate(records)

	if got := table[CategoryTask]["test"]; got != 1 {
		t.Errorf("expected one count for repeated keyword in a single record, got %d", got)
	}
}

func TestAggregate_SeparateRecordsEachCount(t *testing.T) {
	lx := DefaultLexicon()
	records := []storage.Command{
		{Text: "write a test"},
		{Text: "another test here"},
	}

	table := lx.Aggregate(records)

	if got := table[CategoryTask]["test"]; got != 2 {
		t.Errorf("expected count 2 across two records, got %d", got)
	}
}

func TestAggregate_TagsProduceSignals(t *testing.T) {
	lx := DefaultLexicon()
	records := []storage.Command{
		{Text: "do something", Tags: []string{"python"}},
	}

	table := lx.Aggregate(records)

	if got := table[CategoryLanguage]["python"]; got != 1 {
		t.Errorf("expected tag to count as language signal, got %d", got)
	}
}

func TestAggregate_TagsMatchedDirectly(t *testing.T) {
	lx := DefaultLexicon()
	records := []storage.Command{
		{Text: "do something", Tags: []string{"js", "oop"}},
	}

	table := lx.Aggregate(records)

	if got := table[CategoryLanguage]["javascript"]; got != 1 {
		t.Errorf("expected tag alias to resolve to its canonical, got %d", got)
	}
	if got := table[CategoryStyle]["oop"]; got != 1 {
		t.Errorf("expected style tag to count, got %d", got)
	}
}

func TestAggregate_TagAndTextDeduplicated(t *testing.T) {
	lx := DefaultLexicon()
	records := []storage.Command{
		{Text: "rewrite the python parser", Tags: []string{"python"}},
	}

	table := lx.Aggregate(records)

	if got := table[CategoryLanguage]["python"]; got != 1 {
		t.Errorf("expected one count when tag and text both match, got %d", got)
	}
}

func TestAggregate_AliasesFoldIntoCanonical(t *testing.T) {
	lx := DefaultLexicon()
	records := []storage.Command{
		{Text: "port the js client"},
		{Text: "clean up javascript helpers"},
	}

	table := lx.Aggregate(records)

	if got := table[CategoryLanguage]["javascript"]; got != 2 {
		t.Errorf("expected alias and full keyword to share a counter, got %d", got)
	}
}

func TestAggregate_MultiCategoryTokenIncrementsBoth(t *testing.T) {
	lx := DefaultLexicon()
	records := []storage.Command{
		{Text: "improve performance of the importer"},
	}

	table := lx.Aggregate(records)

	if got := table[CategoryStyle]["performance"]; got != 1 {
		t.Errorf("expected style count 1, got %d", got)
	}
	if got := table[CategoryTask]["optimize"]; got != 1 {
		t.Errorf("expected task count 1, got %d", got)
	}
}

func TestAggregate_UnknownTokensIgnored(t *testing.T) {
	lx := DefaultLexicon()
	records := []storage.Command{
		{Text: "xyzzy plugh qux"},
	}

	table := lx.Aggregate(records)

	if len(table) != 0 {
		t.Errorf("expected unknown tokens to produce no signals, got %v", table)
	}
}

func TestAggregate_PermutationInvariance(t *testing.T) {
	lx := DefaultLexicon()
	records := []storage.Command{
		{Text: "write unit tests for the parser", Tags: []string{"test", "python"}},
		{Text: "refactor auth module", Tags: []string{"refactor", "python"}},
		{Text: "deploy with docker", Tags: []string{"deploy"}},
	}
	reversed := []storage.Command{records[2], records[1], records[0]}

	forward := lx.Aggregate(records)
	backward := lx.Aggregate(reversed)

	if !reflect.DeepEqual(forward, backward) {
		t.Errorf("expected identical tables under reordering, got %v and %v", forward, backward)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	lx := DefaultLexicon()
	records := []storage.Command{
		{Text: "optimize the docker build for performance", Tags: []string{"go"}},
		{Text: "document the api", Tags: []string{"docs"}},
	}

	first := lx.Aggregate(records)
	second := lx.Aggregate(records)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical tables across runs, got %v and %v", first, second)
	}
}

func TestSignalTable_RestrictKeepsOnlyRequestedCategories(t *testing.T) {
	table := SignalTable{
		CategoryLanguage: {"python": 2},
		CategoryTask:     {"test": 1},
		CategoryStyle:    {"clean": 1},
		CategoryTool:     {"docker": 3},
	}

	restricted := table.Restrict(CategoryTask, CategoryStyle, CategoryTool)

	if _, ok := restricted[CategoryLanguage]; ok {
		t.Errorf("expected language category to be dropped, got %v", restricted)
	}
	if restricted[CategoryTask]["test"] != 1 || restricted[CategoryStyle]["clean"] != 1 || restricted[CategoryTool]["docker"] != 3 {
		t.Errorf("expected retained counts to survive restriction, got %v", restricted)
	}
}

func TestSignalTable_RestrictCopiesCounts(t *testing.T) {
	table := SignalTable{
		CategoryTask: {"test": 1},
	}

	restricted := table.Restrict(CategoryTask)
	restricted[CategoryTask]["test"] = 99

	if table[CategoryTask]["test"] != 1 {
		t.Errorf("expected original table untouched, got %d", table[CategoryTask]["test"])
	}
}
