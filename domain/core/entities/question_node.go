package entities

import (
	"strings"

	"backtrace-backend/domain/core/valueobjects"
	pkgerrors "backtrace-backend/pkg/errors"

	"github.com/google/uuid"
)

// QuestionNode is something the learner does not understand yet.
// Its answered level tracks self-assessed progress from 0 to 1.
type QuestionNode struct {
	ID            string                     `json:"id" dynamodbav:"ID"`
	Question      string                     `json:"question" dynamodbav:"Question"`
	TopicTag      *string                    `json:"topicTag" dynamodbav:"TopicTag,omitempty"`
	AnsweredLevel valueobjects.AnsweredLevel `json:"answeredLevel" dynamodbav:"AnsweredLevel"`
	Note          *string                    `json:"note" dynamodbav:"Note,omitempty"`
	NodeType      NodeType                   `json:"nodeType" dynamodbav:"NodeType"`
	Position      *valueobjects.Position     `json:"position,omitempty" dynamodbav:"Position,omitempty"`
}

// NewQuestionNode creates a question node with a fresh ID.
// The question text must be non-empty after trimming; empty topic tag and
// note are stored as absent. The level is clamped, not validated.
func NewQuestionNode(question, topicTag string, answeredLevel float64, note string) (QuestionNode, error) {
	question = strings.TrimSpace(question)
	topicTag = strings.TrimSpace(topicTag)
	note = strings.TrimSpace(note)

	if question == "" {
		return QuestionNode{}, pkgerrors.NewValidationError("question cannot be empty")
	}

	node := QuestionNode{
		ID:            uuid.New().String(),
		Question:      question,
		AnsweredLevel: valueobjects.NewAnsweredLevel(answeredLevel),
		NodeType:      NodeTypeQuestion,
	}
	if topicTag != "" {
		node.TopicTag = &topicTag
	}
	if note != "" {
		node.Note = &note
	}

	return node, nil
}

// WithAnsweredLevel returns a copy of the node with the clamped level set
func (n QuestionNode) WithAnsweredLevel(level float64) QuestionNode {
	n.AnsweredLevel = valueobjects.NewAnsweredLevel(level)
	return n
}

// NodeID returns the node's unique identifier
func (n QuestionNode) NodeID() string {
	return n.ID
}

// Kind returns the discriminant tag
func (n QuestionNode) Kind() NodeType {
	return NodeTypeQuestion
}

// Pos returns the node's position, or nil if it has never been placed
func (n QuestionNode) Pos() *valueobjects.Position {
	return n.Position
}

// WithPosition returns a copy of the node with the given position set
func (n QuestionNode) WithPosition(p valueobjects.Position) AppNode {
	n.Position = &p
	return n
}

func (QuestionNode) appNode() {}
