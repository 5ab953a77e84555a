package entities

import (
	"strings"

	"backtrace-backend/domain/core/valueobjects"
	pkgerrors "backtrace-backend/pkg/errors"

	"github.com/google/uuid"
)

// ResourceNode is a piece of learning material on the knowledge map:
// a video, book, article or similar that addresses one or more questions.
type ResourceNode struct {
	ID           string                     `json:"id" dynamodbav:"ID"`
	Name         string                     `json:"name" dynamodbav:"Name"`
	ResourceType valueobjects.ResourceType  `json:"resourceType" dynamodbav:"ResourceType"`
	TopicTag     *string                    `json:"topicTag" dynamodbav:"TopicTag,omitempty"`
	Link         string                     `json:"link" dynamodbav:"Link"`
	NodeType     NodeType                   `json:"nodeType" dynamodbav:"NodeType"`
	Position     *valueobjects.Position     `json:"position,omitempty" dynamodbav:"Position,omitempty"`
}

// NewResourceNode creates a resource node with a fresh ID.
// Name and link must be non-empty after trimming; an empty topic tag is
// stored as absent rather than as an empty string.
func NewResourceNode(name string, resourceType valueobjects.ResourceType, topicTag, link string) (ResourceNode, error) {
	name = strings.TrimSpace(name)
	link = strings.TrimSpace(link)
	topicTag = strings.TrimSpace(topicTag)

	if name == "" {
		return ResourceNode{}, pkgerrors.NewValidationError("resource name cannot be empty")
	}
	if link == "" {
		return ResourceNode{}, pkgerrors.NewValidationError("resource link cannot be empty")
	}
	if !resourceType.IsValid() {
		return ResourceNode{}, pkgerrors.NewValidationError("invalid resource type")
	}

	node := ResourceNode{
		ID:           uuid.New().String(),
		Name:         name,
		ResourceType: resourceType,
		Link:         link,
		NodeType:     NodeTypeResource,
	}
	if topicTag != "" {
		node.TopicTag = &topicTag
	}

	return node, nil
}

// NodeID returns the node's unique identifier
func (n ResourceNode) NodeID() string {
	return n.ID
}

// Kind returns the discriminant tag
func (n ResourceNode) Kind() NodeType {
	return NodeTypeResource
}

// Pos returns the node's position, or nil if it has never been placed
func (n ResourceNode) Pos() *valueobjects.Position {
	return n.Position
}

// WithPosition returns a copy of the node with the given position set
func (n ResourceNode) WithPosition(p valueobjects.Position) AppNode {
	n.Position = &p
	return n
}

func (ResourceNode) appNode() {}
