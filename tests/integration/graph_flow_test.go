package integration

import (
	"context"
	"testing"
	"time"

	"backtrace-backend/application/engine"
	"backtrace-backend/application/ports"
	"backtrace-backend/application/search"
	"backtrace-backend/domain/core/entities"
	"backtrace-backend/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type scriptedProvider struct {
	blocks []ports.ContentBlock
}

func (p scriptedProvider) Search(ctx context.Context, question string) ([]ports.ContentBlock, error) {
	return p.blocks, nil
}

func waitForGraph(t *testing.T, eng *engine.Engine, nodes, edges int) engine.RenderSnapshot {
	t.Helper()

	var snap engine.RenderSnapshot
	require.Eventually(t, func() bool {
		snap = eng.Snapshot()
		return len(snap.Nodes) == nodes && len(snap.Edges) == edges
	}, 2*time.Second, 10*time.Millisecond)
	return snap
}

// TestQuestionToResourceFlow walks the primary loop: a learner records a
// question, runs discovery, and files one of the found sources as a
// resource connected to that question.
func TestQuestionToResourceFlow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := zap.NewNop()
	store := memory.NewStore(logger)
	eng := engine.New(store.Nodes(), store.Edges(), logger)
	go eng.Run(ctx)

	// 1. Record the question
	question, err := eng.CreateQuestionNode(ctx, engine.QuestionInput{
		Question: "How do Fourier transforms work?",
		TopicTag: "math",
	}, "")
	require.NoError(t, err)
	waitForGraph(t, eng, 1, 0)

	// 2. Run discovery
	title := "An Interactive Guide to the Fourier Transform"
	svc := search.NewService(scriptedProvider{
		blocks: []ports.ContentBlock{
			{
				Type: ports.BlockTypeText,
				Text: "Builds intuition with animations before any formulas.",
				Citations: []ports.Citation{
					{
						Type:  ports.CitationTypeWebSearchLocation,
						URL:   "https://example.com/fourier",
						Title: &title,
					},
				},
			},
		},
	}, logger)

	sources, err := svc.FindResources(ctx, question.Question)
	require.NoError(t, err)
	require.Len(t, sources, 1)

	// 3. File the found source as a connected resource. The form fields
	// prefill straight from the search result: title becomes the name,
	// url becomes the link.
	picked := sources[0]
	require.NotNil(t, picked.Title)

	resource, err := eng.CreateResourceNode(ctx, engine.ResourceInput{
		Name: *picked.Title,
		Link: picked.URL,
	}, question.ID)
	require.NoError(t, err)

	snap := waitForGraph(t, eng, 2, 1)

	edge := snap.Edges[0]
	assert.Equal(t, resource.ID, edge.Source)
	assert.Equal(t, question.ID, edge.Target)
	assert.Equal(t, "default", edge.Type)

	// 4. Progress: the question gets answered a bit and moves on canvas
	require.NoError(t, eng.UpdateAnsweredLevel(ctx, question.ID, 0.6))

	require.Eventually(t, func() bool {
		for _, n := range eng.Snapshot().Nodes {
			if n.ID == question.ID {
				q, ok := n.Data.(entities.QuestionNode)
				return ok && q.AnsweredLevel.Float64() == 0.6
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	// 5. Deleting the question cascades to its edges, the resource stays
	require.NoError(t, eng.DeleteNode(ctx, question.ID))
	snap = waitForGraph(t, eng, 1, 0)
	assert.Equal(t, resource.ID, snap.Nodes[0].ID)
}
