package entities

import (
	"encoding/json"
	"testing"

	"backtrace-backend/domain/core/valueobjects"
	pkgerrors "backtrace-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResourceNode(t *testing.T) {
	t.Run("trims fields and assigns id", func(t *testing.T) {
		node, err := NewResourceNode("  Limits 101  ", valueobjects.ResourceTypeArticle, "", "  https://a.co ")
		require.NoError(t, err)

		assert.NotEmpty(t, node.ID)
		assert.Equal(t, "Limits 101", node.Name)
		assert.Equal(t, "https://a.co", node.Link)
		assert.Equal(t, NodeTypeResource, node.NodeType)
		assert.Nil(t, node.TopicTag)
		assert.Nil(t, node.Position)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := NewResourceNode("   ", valueobjects.ResourceTypeVideo, "", "https://a.co")
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("rejects blank link", func(t *testing.T) {
		_, err := NewResourceNode("A name", valueobjects.ResourceTypeVideo, "", " ")
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("keeps non-empty topic tag", func(t *testing.T) {
		node, err := NewResourceNode("A name", valueobjects.ResourceTypeBook, " Topology ", "https://a.co")
		require.NoError(t, err)
		require.NotNil(t, node.TopicTag)
		assert.Equal(t, "Topology", *node.TopicTag)
	})

	t.Run("ids are unique across creations", func(t *testing.T) {
		seen := map[string]bool{}
		for i := 0; i < 50; i++ {
			node, err := NewResourceNode("n", valueobjects.ResourceTypeOther, "", "https://a.co")
			require.NoError(t, err)
			assert.False(t, seen[node.ID])
			seen[node.ID] = true
		}
	})
}

func TestNewQuestionNode(t *testing.T) {
	t.Run("rejects blank question", func(t *testing.T) {
		_, err := NewQuestionNode("  ", "", 0, "")
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("clamps answered level on creation", func(t *testing.T) {
		node, err := NewQuestionNode("What is a limit?", "", 1.5, "")
		require.NoError(t, err)
		assert.Equal(t, 1.0, node.AnsweredLevel.Float64())

		node, err = NewQuestionNode("What is a limit?", "", -0.3, "")
		require.NoError(t, err)
		assert.Equal(t, 0.0, node.AnsweredLevel.Float64())
	})

	t.Run("clamps answered level on update", func(t *testing.T) {
		node, err := NewQuestionNode("What is a limit?", "", 0.5, "")
		require.NoError(t, err)

		assert.Equal(t, 1.0, node.WithAnsweredLevel(1.5).AnsweredLevel.Float64())
		assert.Equal(t, 0.0, node.WithAnsweredLevel(-0.3).AnsweredLevel.Float64())
		assert.Equal(t, 0.7, node.WithAnsweredLevel(0.7).AnsweredLevel.Float64())
	})
}

func TestWithPosition(t *testing.T) {
	node, err := NewQuestionNode("q", "", 0, "")
	require.NoError(t, err)

	placed := node.WithPosition(valueobjects.NewPosition(10, 20))
	require.NotNil(t, placed.Pos())
	assert.Equal(t, 10.0, placed.Pos().X)
	assert.Equal(t, 20.0, placed.Pos().Y)

	// The original stays unplaced
	assert.Nil(t, node.Position)
}

func TestUnmarshalAppNode(t *testing.T) {
	t.Run("dispatches resource", func(t *testing.T) {
		src, err := NewResourceNode("Limits 101", valueobjects.ResourceTypeArticle, "", "https://a.co")
		require.NoError(t, err)
		data, err := json.Marshal(src)
		require.NoError(t, err)

		decoded, err := UnmarshalAppNode(data)
		require.NoError(t, err)

		res, ok := decoded.(ResourceNode)
		require.True(t, ok)
		assert.Equal(t, src.ID, res.ID)
		assert.Equal(t, "Limits 101", res.Name)
	})

	t.Run("dispatches question", func(t *testing.T) {
		src, err := NewQuestionNode("What is a limit?", "", 0.4, "")
		require.NoError(t, err)
		data, err := json.Marshal(src)
		require.NoError(t, err)

		decoded, err := UnmarshalAppNode(data)
		require.NoError(t, err)

		q, ok := decoded.(QuestionNode)
		require.True(t, ok)
		assert.Equal(t, src.ID, q.ID)
		assert.Equal(t, 0.4, q.AnsweredLevel.Float64())
	})

	t.Run("rejects unknown discriminant", func(t *testing.T) {
		_, err := UnmarshalAppNode([]byte(`{"id":"x","nodeType":"mystery"}`))
		assert.Error(t, err)
	})
}

func TestEdge(t *testing.T) {
	t.Run("requires both endpoints", func(t *testing.T) {
		_, err := NewEdge("", "b")
		assert.Error(t, err)
		_, err = NewEdge("a", "")
		assert.Error(t, err)
	})

	t.Run("touches either endpoint", func(t *testing.T) {
		edge, err := NewEdge("a", "b")
		require.NoError(t, err)
		assert.Equal(t, EdgeTypeDefault, edge.Type)
		assert.True(t, edge.Touches("a"))
		assert.True(t, edge.Touches("b"))
		assert.False(t, edge.Touches("c"))
	})
}
