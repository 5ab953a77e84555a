package memory

import (
	"context"
	"testing"
	"time"

	"backtrace-backend/application/ports"
	"backtrace-backend/domain/core/entities"
	"backtrace-backend/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func receiveNodes(t *testing.T, ch <-chan ports.NodeSnapshot) ports.NodeSnapshot {
	t.Helper()
	select {
	case snapshot := <-ch:
		return snapshot
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for node snapshot")
		return nil
	}
}

func TestStoreSnapshots(t *testing.T) {
	ctx := context.Background()
	store := NewStore(zaptest.NewLogger(t))

	sub, err := store.Nodes().Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	// Initial snapshot is the (empty) current contents
	assert.Empty(t, receiveNodes(t, sub.C))

	node, err := entities.NewQuestionNode("q", "", 0, "")
	require.NoError(t, err)
	require.NoError(t, store.Nodes().Write(ctx, node))

	snapshot := receiveNodes(t, sub.C)
	require.Len(t, snapshot, 1)
	assert.Equal(t, node.ID, snapshot[0].NodeID())

	require.NoError(t, store.Nodes().Delete(ctx, node.ID))
	assert.Empty(t, receiveNodes(t, sub.C))
}

func TestStoreLatestSnapshotWins(t *testing.T) {
	ctx := context.Background()
	store := NewStore(zaptest.NewLogger(t))

	sub, err := store.Nodes().Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	// Do not read the seed; pile up writes so only the newest survives
	var last entities.AppNode
	for i := 0; i < 5; i++ {
		node, err := entities.NewResourceNode("n", valueobjects.ResourceTypeArticle, "", "https://a.co")
		require.NoError(t, err)
		require.NoError(t, store.Nodes().Write(ctx, node))
		last = node
	}

	snapshot := receiveNodes(t, sub.C)
	assert.Len(t, snapshot, 5)

	found := false
	for _, n := range snapshot {
		if n.NodeID() == last.NodeID() {
			found = true
		}
	}
	assert.True(t, found)
}

func TestStoreWriteReplacesDocument(t *testing.T) {
	ctx := context.Background()
	store := NewStore(zaptest.NewLogger(t))

	node, err := entities.NewQuestionNode("q", "", 0.2, "")
	require.NoError(t, err)
	require.NoError(t, store.Nodes().Write(ctx, node))
	require.NoError(t, store.Nodes().Write(ctx, node.WithAnsweredLevel(0.9)))

	sub, err := store.Nodes().Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	snapshot := receiveNodes(t, sub.C)
	require.Len(t, snapshot, 1)
	assert.Equal(t, 0.9, snapshot[0].(entities.QuestionNode).AnsweredLevel.Float64())
}

func TestStoreCloseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewStore(zaptest.NewLogger(t))

	sub, err := store.Edges().Subscribe(ctx)
	require.NoError(t, err)

	sub.Close()
	sub.Close()

	// The buffered seed snapshot drains first, then the closed channel shows
	<-sub.C
	_, open := <-sub.C
	assert.False(t, open)
}
