package ports

import "context"

// Block type and entry kind tags used in provider responses. The values
// follow the provider's wire format so extraction can match on them
// directly.
const (
	BlockTypeText            = "text"
	BlockTypeWebSearchResult = "web_search_tool_result"

	CitationTypeWebSearchLocation = "web_search_result_location"
	ResultTypeWebSearch           = "web_search_result"
)

// Citation is a source reference attached to a text block. Title is nil
// when the provider sent no title, as opposed to an empty one.
type Citation struct {
	Type  string
	URL   string
	Title *string
}

// WebResult is one entry of a tool-result block whose payload was an
// ordered sequence.
type WebResult struct {
	Type  string
	URL   string
	Title string
}

// ContentBlock is one element of the ordered block sequence a search
// provider returns. Blocks of other types pass through with only Type set
// and contribute nothing to extraction.
type ContentBlock struct {
	Type      string
	Text      string
	Citations []Citation
	Results   []WebResult
}

// SearchProvider is the port over the text-generation/search backend.
// Search runs a resource-discovery query for the given question text and
// returns the raw ordered block sequence. Failures (network, auth, quota)
// surface as errors; the caller propagates them rather than returning a
// partial list.
type SearchProvider interface {
	Search(ctx context.Context, question string) ([]ContentBlock, error)
}
