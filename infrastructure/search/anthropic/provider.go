package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"backtrace-backend/application/ports"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

// Provider implements the SearchProvider port using Anthropic's Messages
// API with the web search tool enabled. The model runs searches on its
// own and the response carries the findings as content blocks: text
// blocks citing specific result locations, plus raw tool-result blocks.
type Provider struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
	logger    *zap.Logger
}

// NewProvider constructs a provider. The API key is read from
// ANTHROPIC_API_KEY by the SDK's default environment handling.
func NewProvider(apiKey, model string, maxTokens int, logger *zap.Logger) *Provider {
	cl := anthropic.NewClient(
		anthropicopt.WithAPIKey(apiKey),
	)
	return &Provider{
		client:    &cl,
		model:     model,
		maxTokens: int64(maxTokens),
		logger:    logger,
	}
}

// Search asks the model to research the question with web search enabled
// and returns the response content as provider-neutral blocks, ordinals
// preserved.
func (p *Provider) Search(ctx context.Context, question string) ([]ports.ContentBlock, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("Find educational resources for: " + question)),
		},
		Tools: []anthropic.ToolUnionParam{
			{OfWebSearchTool20250305: &anthropic.WebSearchTool20250305Param{}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic messages request: %w", err)
	}

	blocks := make([]ports.ContentBlock, 0, len(msg.Content))
	for _, cb := range msg.Content {
		blocks = append(blocks, p.toBlock(cb.RawJSON()))
	}

	return blocks, nil
}

// Wire shapes of the response content. Decoding from raw JSON keeps the
// mapping stable across SDK union reshuffles.
type wireCitation struct {
	Type  string  `json:"type"`
	URL   string  `json:"url"`
	Title *string `json:"title"`
}

type wireResult struct {
	Type  string `json:"type"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

type wireBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text"`
	Citations []wireCitation  `json:"citations"`
	Content   json.RawMessage `json:"content"`
}

func (p *Provider) toBlock(raw string) ports.ContentBlock {
	var wb wireBlock
	if err := json.Unmarshal([]byte(raw), &wb); err != nil {
		p.logger.Warn("Undecodable content block", zap.Error(err))
		return ports.ContentBlock{}
	}

	block := ports.ContentBlock{
		Type: wb.Type,
		Text: wb.Text,
	}

	for _, c := range wb.Citations {
		block.Citations = append(block.Citations, ports.Citation{
			Type:  c.Type,
			URL:   c.URL,
			Title: c.Title,
		})
	}

	if wb.Type == ports.BlockTypeWebSearchResult && len(wb.Content) > 0 {
		// The content field is an array of results on success and an
		// error object otherwise; only the array shape carries sources.
		var results []wireResult
		if err := json.Unmarshal(wb.Content, &results); err == nil {
			for _, r := range results {
				block.Results = append(block.Results, ports.WebResult{
					Type:  r.Type,
					URL:   r.URL,
					Title: r.Title,
				})
			}
		}
	}

	return block
}
