package search

import (
	"fmt"
	"time"

	"github.com/blevesearch/bleve/v2"
)

// Search performs BM25 keyword search over the indexed commands.
func (ix *Index) Search(query string, limit int) ([]Result, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	searchQuery := bleve.NewMatchQuery(query)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, limit, 0, false)
	searchRequest.Fields = []string{"text", "tags", "timestamp"}

	results, err := ix.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	return convertBleveResults(results), nil
}

// convertBleveResults converts Bleve hits to our Result format.
func convertBleveResults(results *bleve.SearchResult) []Result {
	searchResults := make([]Result, 0, len(results.Hits))

	for _, hit := range results.Hits {
		text, _ := hit.Fields["text"].(string)
		tags, _ := hit.Fields["tags"].(string)
		timestampStr, _ := hit.Fields["timestamp"].(string)

		timestamp, err := time.Parse(time.RFC3339, timestampStr)
		if err != nil {
			timestamp = time.Time{}
		}

		result := Result{
			Text:      text,
			Tags:      splitTags(tags),
			Timestamp: timestamp,
			Score:     hit.Score,
		}

		searchResults = append(searchResults, result)
	}

	return searchResults
}
