package search

import (
	"context"
	"sync/atomic"

	"backtrace-backend/application/ports"
	pkgerrors "backtrace-backend/pkg/errors"

	"go.uber.org/zap"
)

// Service runs resource discovery for question nodes. A single search may
// be outstanding at a time: re-invocation while one is in flight is refused
// rather than queued. No timeout is enforced beyond what the caller's
// context carries.
type Service struct {
	provider ports.SearchProvider
	logger   *zap.Logger
	busy     atomic.Bool
}

// NewService creates a discovery service
func NewService(provider ports.SearchProvider, logger *zap.Logger) *Service {
	return &Service{
		provider: provider,
		logger:   logger,
	}
}

// Busy reports whether a search is currently outstanding
func (s *Service) Busy() bool {
	return s.busy.Load()
}

// FindResources queries the provider for resources addressing the given
// question and extracts candidates from the response. Provider failures
// propagate to the caller; a zero-candidate response is logged and returned
// as an empty list, not an error.
func (s *Service) FindResources(ctx context.Context, question string) ([]SourceResult, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, pkgerrors.NewConflictError("a search is already in progress")
	}
	defer s.busy.Store(false)

	s.logger.Info("Searching for resources", zap.String("question", question))

	blocks, err := s.provider.Search(ctx, question)
	if err != nil {
		s.logger.Error("Resource search failed", zap.Error(err))
		return nil, pkgerrors.NewExternalError("search provider", err)
	}

	results := ExtractSources(blocks)
	if len(results) == 0 {
		s.logger.Warn("Resource search returned no candidates",
			zap.String("question", question),
			zap.Int("blocks", len(blocks)),
		)
	}

	return results, nil
}
