package search

import (
	"testing"

	"backtrace-backend/application/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestExtractSources(t *testing.T) {
	t.Run("text block citations carry the block text as summary", func(t *testing.T) {
		blocks := []ports.ContentBlock{
			{
				Type: ports.BlockTypeText,
				Text: "Limits are covered in [1].",
				Citations: []ports.Citation{
					{Type: ports.CitationTypeWebSearchLocation, URL: "https://a.co", Title: strptr("Limits 101")},
				},
			},
		}

		results := ExtractSources(blocks)
		require.Len(t, results, 1)
		assert.Equal(t, "0", results[0].ID)
		assert.Equal(t, "https://a.co", results[0].URL)
		require.NotNil(t, results[0].Title)
		assert.Equal(t, "Limits 101", *results[0].Title)
		assert.Equal(t, "Limits are covered in [1].", results[0].Summary)
	})

	t.Run("missing citation title stays nil", func(t *testing.T) {
		blocks := []ports.ContentBlock{
			{
				Type: ports.BlockTypeText,
				Text: "see source",
				Citations: []ports.Citation{
					{Type: ports.CitationTypeWebSearchLocation, URL: "https://b.co"},
				},
			},
		}

		results := ExtractSources(blocks)
		require.Len(t, results, 1)
		assert.Nil(t, results[0].Title)
	})

	t.Run("tool result entries have empty summaries", func(t *testing.T) {
		blocks := []ports.ContentBlock{
			{
				Type: ports.BlockTypeWebSearchResult,
				Results: []ports.WebResult{
					{Type: ports.ResultTypeWebSearch, URL: "https://c.co", Title: "C"},
				},
			},
		}

		results := ExtractSources(blocks)
		require.Len(t, results, 1)
		assert.Equal(t, "0", results[0].ID)
		assert.Equal(t, "https://c.co", results[0].URL)
		assert.Equal(t, "", results[0].Summary)
	})

	t.Run("two citations in one block collide on id", func(t *testing.T) {
		// Current behavior: the id is the block ordinal, so every result
		// derived from the same block shares it. Do not dedupe silently.
		blocks := []ports.ContentBlock{
			{
				Type: ports.BlockTypeText,
				Text: "two sources",
				Citations: []ports.Citation{
					{Type: ports.CitationTypeWebSearchLocation, URL: "https://a.co"},
					{Type: ports.CitationTypeWebSearchLocation, URL: "https://b.co"},
				},
			},
		}

		results := ExtractSources(blocks)
		require.Len(t, results, 2)
		assert.Equal(t, results[0].ID, results[1].ID)
		assert.NotEqual(t, results[0].URL, results[1].URL)
	})

	t.Run("ids follow block position, not emission count", func(t *testing.T) {
		blocks := []ports.ContentBlock{
			{Type: "thinking"},
			{
				Type: ports.BlockTypeText,
				Text: "t",
				Citations: []ports.Citation{
					{Type: ports.CitationTypeWebSearchLocation, URL: "https://a.co"},
				},
			},
			{
				Type: ports.BlockTypeWebSearchResult,
				Results: []ports.WebResult{
					{Type: ports.ResultTypeWebSearch, URL: "https://b.co", Title: "B"},
				},
			},
		}

		results := ExtractSources(blocks)
		require.Len(t, results, 2)
		assert.Equal(t, "1", results[0].ID)
		assert.Equal(t, "2", results[1].ID)
	})

	t.Run("non-matching entry kinds are skipped", func(t *testing.T) {
		blocks := []ports.ContentBlock{
			{
				Type: ports.BlockTypeText,
				Text: "t",
				Citations: []ports.Citation{
					{Type: "char_location", URL: "https://x.co"},
				},
			},
			{
				Type: ports.BlockTypeWebSearchResult,
				Results: []ports.WebResult{
					{Type: "web_search_tool_result_error", URL: ""},
				},
			},
		}

		assert.Empty(t, ExtractSources(blocks))
	})

	t.Run("duplicate urls are not deduplicated", func(t *testing.T) {
		blocks := []ports.ContentBlock{
			{
				Type: ports.BlockTypeText,
				Text: "a",
				Citations: []ports.Citation{
					{Type: ports.CitationTypeWebSearchLocation, URL: "https://a.co"},
				},
			},
			{
				Type: ports.BlockTypeWebSearchResult,
				Results: []ports.WebResult{
					{Type: ports.ResultTypeWebSearch, URL: "https://a.co", Title: "A"},
				},
			},
		}

		results := ExtractSources(blocks)
		assert.Len(t, results, 2)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, ExtractSources(nil))
	})
}
