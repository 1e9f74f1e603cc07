package search

import (
	"math"
	"testing"
	"time"

	"github.com/smallyunet/memory-mcp-server/internal/storage"
)

func TestNewIndex(t *testing.T) {
	index, err := NewIndex(nil)
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}
	defer index.Close()

	count, err := index.Count()
	if err != nil {
		t.Fatalf("failed to get count: %v", err)
	}

	if count != 0 {
		t.Errorf("expected empty index, got %d documents", count)
	}
}

func TestIndexCommands(t *testing.T) {
	index, err := NewIndex(nil)
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}
	defer index.Close()

	commands := []storage.Command{
		{ID: 1, Text: "refactor the auth module", Tags: []string{"refactor"}, Timestamp: time.Now()},
		{ID: 2, Text: "write unit tests for the parser", Tags: []string{"testing"}, Timestamp: time.Now()},
		{ID: 3, Text: "deploy to staging", Tags: []string{"deploy"}, Timestamp: time.Now()},
	}

	if err := index.IndexCommands(commands); err != nil {
		t.Fatalf("failed to index commands: %v", err)
	}

	count, err := index.Count()
	if err != nil {
		t.Fatalf("failed to get count: %v", err)
	}

	if count != 3 {
		t.Errorf("expected 3 indexed commands, got %d", count)
	}
}

func TestIndexCommand(t *testing.T) {
	index, err := NewIndex(nil)
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}
	defer index.Close()

	commands := []storage.Command{
		{ID: 1, Text: "refactor the auth module", Timestamp: time.Now()},
	}
	if err := index.IndexCommands(commands); err != nil {
		t.Fatalf("failed to index commands: %v", err)
	}

	cmd := storage.Command{ID: 2, Text: "optimize the query planner", Timestamp: time.Now()}
	if err := index.IndexCommand(cmd); err != nil {
		t.Fatalf("failed to index command: %v", err)
	}

	count, err := index.Count()
	if err != nil {
		t.Fatalf("failed to get count: %v", err)
	}

	if count != 2 {
		t.Errorf("expected 2 indexed commands, got %d", count)
	}
}

func TestSearch(t *testing.T) {
	index, err := NewIndex(nil)
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}
	defer index.Close()

	recorded := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	commands := []storage.Command{
		{ID: 1, Text: "refactor the auth module in python", Tags: []string{"python", "refactor"}, Timestamp: recorded},
		{ID: 2, Text: "take a screenshot of the dashboard", Tags: []string{}, Timestamp: recorded},
		{ID: 3, Text: "deploy the api gateway", Tags: []string{"deploy"}, Timestamp: recorded},
	}

	if err := index.IndexCommands(commands); err != nil {
		t.Fatalf("failed to index commands: %v", err)
	}

	results, err := index.Search("refactor", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(results) == 0 {
		t.Fatal("expected at least one result for 'refactor'")
	}

	if results[0].Text != "refactor the auth module in python" {
		t.Errorf("expected the refactor command first, got %q", results[0].Text)
	}

	if !results[0].Timestamp.Equal(recorded) {
		t.Errorf("expected timestamp %v, got %v", recorded, results[0].Timestamp)
	}

	if len(results[0].Tags) != 2 || results[0].Tags[0] != "python" {
		t.Errorf("expected tags [python refactor], got %v", results[0].Tags)
	}
}

func TestSearchMatchesTags(t *testing.T) {
	index, err := NewIndex(nil)
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}
	defer index.Close()

	commands := []storage.Command{
		{ID: 1, Text: "clean up the import graph", Tags: []string{"golang"}, Timestamp: time.Now()},
		{ID: 2, Text: "update the readme", Tags: []string{"docs"}, Timestamp: time.Now()},
	}

	if err := index.IndexCommands(commands); err != nil {
		t.Fatalf("failed to index commands: %v", err)
	}

	results, err := index.Search("golang", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(results) == 0 {
		t.Fatal("expected tag match for 'golang'")
	}

	if results[0].Text != "clean up the import graph" {
		t.Errorf("expected the tagged command, got %q", results[0].Text)
	}
}

func TestSearchNoResults(t *testing.T) {
	index, err := NewIndex(nil)
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}
	defer index.Close()

	commands := []storage.Command{
		{ID: 1, Text: "deploy the api gateway", Timestamp: time.Now()},
	}

	if err := index.IndexCommands(commands); err != nil {
		t.Fatalf("failed to index commands: %v", err)
	}

	results, err := index.Search("nonexistent_command_xyz", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(results) != 0 {
		t.Errorf("expected 0 results for non-existent query, got %d", len(results))
	}
}

func TestSearchRecentPrefersFresh(t *testing.T) {
	index, err := NewIndex(nil)
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}
	defer index.Close()

	now := time.Now().UTC().Truncate(time.Second)
	commands := []storage.Command{
		{ID: 1, Text: "deploy the api gateway", Tags: []string{"deploy"}, Timestamp: now.Add(-30 * 24 * time.Hour)},
		{ID: 2, Text: "deploy the api gateway", Tags: []string{"deploy"}, Timestamp: now},
	}

	if err := index.IndexCommands(commands); err != nil {
		t.Fatalf("failed to index commands: %v", err)
	}

	results, err := index.SearchRecent("deploy", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// Equal relevance, so the fresher record must rank first.
	if !results[0].Timestamp.After(results[1].Timestamp) {
		t.Errorf("expected newest result first, got %v before %v",
			results[0].Timestamp, results[1].Timestamp)
	}
}

func TestSearchRecentLimit(t *testing.T) {
	index, err := NewIndex(nil)
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}
	defer index.Close()

	now := time.Now()
	commands := []storage.Command{
		{ID: 1, Text: "run the test suite", Timestamp: now},
		{ID: 2, Text: "re-run the failing test", Timestamp: now},
		{ID: 3, Text: "test the rollback path", Timestamp: now},
	}

	if err := index.IndexCommands(commands); err != nil {
		t.Fatalf("failed to index commands: %v", err)
	}

	results, err := index.SearchRecent("test", 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestRecencyScore(t *testing.T) {
	now := time.Now()

	// Fresh timestamp scores 1.0.
	fresh := recencyScore(now, now)
	if math.Abs(fresh-1.0) > 1e-9 {
		t.Errorf("expected fresh score 1.0, got %f", fresh)
	}

	// One half-life old scores 0.5.
	aged := recencyScore(now.Add(-recencyHalfLife), now)
	if math.Abs(aged-0.5) > 1e-9 {
		t.Errorf("expected half-life score 0.5, got %f", aged)
	}

	// Zero timestamp scores 0.
	if got := recencyScore(time.Time{}, now); got != 0 {
		t.Errorf("expected zero score for zero timestamp, got %f", got)
	}

	// Future timestamps clamp to 1.0.
	future := recencyScore(now.Add(time.Hour), now)
	if math.Abs(future-1.0) > 1e-9 {
		t.Errorf("expected future score 1.0, got %f", future)
	}
}

func TestNormalizeScores(t *testing.T) {
	results := []Result{
		{Text: "a", Score: 2.0},
		{Text: "b", Score: 1.0},
		{Text: "c", Score: 0.5},
	}

	normalized := normalizeScores(results)

	if normalized[0].Score != 1.0 {
		t.Errorf("expected max score 1.0, got %f", normalized[0].Score)
	}
	if normalized[2].Score != 0.0 {
		t.Errorf("expected min score 0.0, got %f", normalized[2].Score)
	}
}

func TestNormalizeScoresAllEqual(t *testing.T) {
	results := []Result{
		{Text: "a", Score: 0.8},
		{Text: "b", Score: 0.8},
	}

	normalized := normalizeScores(results)

	for _, result := range normalized {
		if result.Score != 1.0 {
			t.Errorf("expected equal scores to normalize to 1.0, got %f", result.Score)
		}
	}
}
