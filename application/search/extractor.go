package search

import (
	"strconv"

	"backtrace-backend/application/ports"
)

// SourceResult is one citable resource candidate extracted from a provider
// response. ID is the ordinal of the originating block within that response;
// it is unique per extraction call only, and two results extracted from the
// same block share an ID. That collision is current behavior, kept as-is.
type SourceResult struct {
	ID      string  `json:"id"`
	URL     string  `json:"url"`
	Title   *string `json:"title"`
	Summary string  `json:"summary"`
}

// ExtractSources flattens a heterogeneous block sequence into an ordered
// list of resource candidates. For a text block, every web-search location
// citation yields a result carrying the block's full text as its summary.
// For a tool-result block, every result entry yields a result with an empty
// summary. Other block shapes contribute nothing. Emission order follows
// block order; no deduplication by URL is performed.
func ExtractSources(blocks []ports.ContentBlock) []SourceResult {
	results := []SourceResult{}

	for idx, block := range blocks {
		id := strconv.Itoa(idx)

		switch block.Type {
		case ports.BlockTypeText:
			for _, citation := range block.Citations {
				if citation.Type != ports.CitationTypeWebSearchLocation {
					continue
				}
				results = append(results, SourceResult{
					ID:      id,
					URL:     citation.URL,
					Title:   citation.Title,
					Summary: block.Text,
				})
			}

		case ports.BlockTypeWebSearchResult:
			for _, entry := range block.Results {
				if entry.Type != ports.ResultTypeWebSearch {
					continue
				}
				title := entry.Title
				results = append(results, SourceResult{
					ID:      id,
					URL:     entry.URL,
					Title:   &title,
					Summary: "",
				})
			}
		}
	}

	return results
}
