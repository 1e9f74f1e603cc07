package search

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"go.uber.org/zap"

	"github.com/smallyunet/memory-mcp-server/internal/storage"
)

// Index wraps an in-memory Bleve index over command records.
type Index struct {
	bleveIndex bleve.Index
	mu         sync.RWMutex
	logger     *zap.Logger
}

// NewIndex creates an empty in-memory index. The caller seeds it from the
// stored history with IndexCommands.
func NewIndex(logger *zap.Logger) (*Index, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	return &Index{
		bleveIndex: index,
		logger:     logger,
	}, nil
}

// buildIndexMapping creates the Bleve mapping for command documents.
func buildIndexMapping() mapping.IndexMapping {
	commandMapping := bleve.NewDocumentMapping()

	// Command text: searchable.
	textFieldMapping := bleve.NewTextFieldMapping()
	commandMapping.AddFieldMappingsAt("text", textFieldMapping)

	// Tags: searchable; the standard analyzer splits the comma-joined value.
	tagsFieldMapping := bleve.NewTextFieldMapping()
	commandMapping.AddFieldMappingsAt("tags", tagsFieldMapping)

	// Timestamp: stored for recency scoring, not searched.
	timestampMapping := bleve.NewTextFieldMapping()
	timestampMapping.Index = false
	timestampMapping.IncludeInAll = false
	commandMapping.AddFieldMappingsAt("timestamp", timestampMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", commandMapping)

	return indexMapping
}

// IndexCommands indexes a batch of commands, typically the whole stored
// history at startup.
func (ix *Index) IndexCommands(commands []storage.Command) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	batch := ix.bleveIndex.NewBatch()

	for _, cmd := range commands {
		if err := batch.Index(docID(cmd), commandDocument(cmd)); err != nil {
			ix.logger.Warn("failed to index command",
				zap.Int64("id", cmd.ID),
				zap.Error(err))
		}
	}

	if err := ix.bleveIndex.Batch(batch); err != nil {
		return fmt.Errorf("failed to batch index commands: %w", err)
	}

	return nil
}

// IndexCommand indexes a single freshly recorded command.
func (ix *Index) IndexCommand(cmd storage.Command) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := ix.bleveIndex.Index(docID(cmd), commandDocument(cmd)); err != nil {
		return fmt.Errorf("failed to index command: %w", err)
	}

	return nil
}

// Count returns the number of indexed commands.
func (ix *Index) Count() (uint64, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	docCount, err := ix.bleveIndex.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}

	return docCount, nil
}

// Close closes the index and releases resources.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.bleveIndex != nil {
		return ix.bleveIndex.Close()
	}

	return nil
}

// docID derives the document id from the storage row id.
func docID(cmd storage.Command) string {
	return strconv.FormatInt(cmd.ID, 10)
}

// commandDocument flattens a command into the indexed document shape.
func commandDocument(cmd storage.Command) map[string]interface{} {
	return map[string]interface{}{
		"text":      cmd.Text,
		"tags":      joinTags(cmd.Tags),
		"timestamp": cmd.Timestamp.UTC().Format(time.RFC3339),
	}
}
