package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	"backtrace-backend/application/ports"
	pkgerrors "backtrace-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// stubProvider returns canned blocks, optionally blocking until released
type stubProvider struct {
	blocks  []ports.ContentBlock
	err     error
	started chan struct{}
	release chan struct{}
}

func (p *stubProvider) Search(ctx context.Context, question string) ([]ports.ContentBlock, error) {
	if p.started != nil {
		close(p.started)
	}
	if p.release != nil {
		<-p.release
	}
	return p.blocks, p.err
}

func TestFindResources(t *testing.T) {
	ctx := context.Background()

	t.Run("extracts candidates from provider blocks", func(t *testing.T) {
		provider := &stubProvider{
			blocks: []ports.ContentBlock{
				{
					Type: ports.BlockTypeText,
					Text: "block text",
					Citations: []ports.Citation{
						{Type: ports.CitationTypeWebSearchLocation, URL: "https://a.co", Title: strptr("Limits 101")},
					},
				},
			},
		}
		svc := NewService(provider, zaptest.NewLogger(t))

		results, err := svc.FindResources(ctx, "What is a limit?")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "https://a.co", results[0].URL)
		assert.False(t, svc.Busy())
	})

	t.Run("propagates provider failure and clears busy flag", func(t *testing.T) {
		provider := &stubProvider{err: errors.New("quota exceeded")}
		svc := NewService(provider, zaptest.NewLogger(t))

		_, err := svc.FindResources(ctx, "q")
		require.Error(t, err)
		assert.True(t, pkgerrors.IsExternal(err))
		assert.False(t, svc.Busy())
	})

	t.Run("zero candidates is not an error", func(t *testing.T) {
		provider := &stubProvider{blocks: []ports.ContentBlock{{Type: "text"}}}
		svc := NewService(provider, zaptest.NewLogger(t))

		results, err := svc.FindResources(ctx, "q")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("refuses concurrent searches", func(t *testing.T) {
		provider := &stubProvider{
			started: make(chan struct{}),
			release: make(chan struct{}),
		}
		svc := NewService(provider, zaptest.NewLogger(t))

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.FindResources(ctx, "first")
		}()

		<-provider.started
		assert.True(t, svc.Busy())

		_, err := svc.FindResources(ctx, "second")
		require.Error(t, err)
		assert.True(t, pkgerrors.IsConflict(err))

		close(provider.release)
		wg.Wait()
		assert.False(t, svc.Busy())
	})
}
