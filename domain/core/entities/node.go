package entities

import (
	"encoding/json"
	"fmt"

	"backtrace-backend/domain/core/valueobjects"
)

// NodeType discriminates the two node kinds in the knowledge map
type NodeType string

const (
	NodeTypeResource NodeType = "resource"
	NodeTypeQuestion NodeType = "question"
)

// AppNode is the tagged union over ResourceNode and QuestionNode.
// Every consumption site dispatches on the concrete type via a type switch;
// the unexported method seals the union to this package.
type AppNode interface {
	// NodeID returns the node's unique identifier
	NodeID() string

	// Kind returns the discriminant tag
	Kind() NodeType

	// Pos returns the node's position, or nil if it has never been placed
	Pos() *valueobjects.Position

	// WithPosition returns a copy of the node with the given position set
	WithPosition(valueobjects.Position) AppNode

	appNode()
}

// nodeTypeProbe is used to peek at the discriminant before full decoding
type nodeTypeProbe struct {
	NodeType NodeType `json:"nodeType"`
}

// UnmarshalAppNode decodes a stored document into the concrete node type.
// Documents with an unknown or missing nodeType are rejected, never guessed.
func UnmarshalAppNode(data []byte) (AppNode, error) {
	var probe nodeTypeProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode node discriminant: %w", err)
	}

	switch probe.NodeType {
	case NodeTypeResource:
		var n ResourceNode
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("decode resource node: %w", err)
		}
		return n, nil
	case NodeTypeQuestion:
		var n QuestionNode
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("decode question node: %w", err)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unknown nodeType: %q", probe.NodeType)
	}
}
