package dynamodb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"backtrace-backend/application/ports"
	"backtrace-backend/domain/core/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	entityTypeNode = "NODE"
	entityTypeEdge = "EDGE"

	// metadataSK keeps the single-table key schema uniform
	metadataSK = "METADATA"

	refreshTimeout = 10 * time.Second
)

// Store persists the two graph collections in one DynamoDB table and
// re-creates the remote store's snapshot semantics on top of it: after
// every successful mutation the collection is re-read and fanned out to
// subscribers in full. Fanout only covers mutations issued through this
// process; cross-process change capture is out of scope here.
type Store struct {
	client *dynamodb.Client
	table  string
	logger *zap.Logger

	mu       sync.Mutex
	nodeSubs map[int]chan ports.NodeSnapshot
	edgeSubs map[int]chan ports.EdgeSnapshot
	nextSub  int
}

// NewStore creates a DynamoDB-backed store over the given table
func NewStore(client *dynamodb.Client, table string, logger *zap.Logger) *Store {
	return &Store{
		client:   client,
		table:    table,
		logger:   logger,
		nodeSubs: make(map[int]chan ports.NodeSnapshot),
		edgeSubs: make(map[int]chan ports.EdgeSnapshot),
	}
}

// Nodes returns the store's nodes-collection port
func (s *Store) Nodes() ports.NodeStore {
	return nodeStore{s}
}

// Edges returns the store's edges-collection port
func (s *Store) Edges() ports.EdgeStore {
	return edgeStore{s}
}

func nodeKey(id string) string { return "NODE#" + id }
func edgeKey(id string) string { return "EDGE#" + id }

// scan reads the full contents of one collection
func (s *Store) scan(ctx context.Context, entityType string) ([]map[string]types.AttributeValue, error) {
	expr, err := expression.NewBuilder().
		WithFilter(expression.Name("EntityType").Equal(expression.Value(entityType))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build scan expression: %w", err)
	}

	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:                 aws.String(s.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s collection: %w", entityType, err)
		}
		items = append(items, page.Items...)
	}

	return items, nil
}

func (s *Store) readNodes(ctx context.Context) (ports.NodeSnapshot, error) {
	items, err := s.scan(ctx, entityTypeNode)
	if err != nil {
		return nil, err
	}

	snapshot := make(ports.NodeSnapshot, 0, len(items))
	for _, item := range items {
		node, err := unmarshalNode(item)
		if err != nil {
			// One bad document must not poison the whole snapshot
			s.logger.Warn("Skipping undecodable node document", zap.Error(err))
			continue
		}
		snapshot = append(snapshot, node)
	}

	return snapshot, nil
}

func (s *Store) readEdges(ctx context.Context) (ports.EdgeSnapshot, error) {
	items, err := s.scan(ctx, entityTypeEdge)
	if err != nil {
		return nil, err
	}

	snapshot := make(ports.EdgeSnapshot, 0, len(items))
	for _, item := range items {
		var edge entities.Edge
		if err := attributevalue.UnmarshalMap(item, &edge); err != nil {
			s.logger.Warn("Skipping undecodable edge document", zap.Error(err))
			continue
		}
		snapshot = append(snapshot, edge)
	}

	return snapshot, nil
}

// unmarshalNode dispatches a stored document to its concrete node type
func unmarshalNode(item map[string]types.AttributeValue) (entities.AppNode, error) {
	var probe struct {
		NodeType entities.NodeType `dynamodbav:"NodeType"`
	}
	if err := attributevalue.UnmarshalMap(item, &probe); err != nil {
		return nil, fmt.Errorf("decode node discriminant: %w", err)
	}

	switch probe.NodeType {
	case entities.NodeTypeResource:
		var node entities.ResourceNode
		if err := attributevalue.UnmarshalMap(item, &node); err != nil {
			return nil, fmt.Errorf("decode resource node: %w", err)
		}
		return node, nil
	case entities.NodeTypeQuestion:
		var node entities.QuestionNode
		if err := attributevalue.UnmarshalMap(item, &node); err != nil {
			return nil, fmt.Errorf("decode question node: %w", err)
		}
		return node, nil
	default:
		return nil, fmt.Errorf("unknown NodeType: %q", probe.NodeType)
	}
}

// refreshNodes re-reads the nodes collection and fans it out
func (s *Store) refreshNodes() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	snapshot, err := s.readNodes(ctx)
	if err != nil {
		s.logger.Error("Node snapshot refresh failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.nodeSubs {
		deliver(ch, snapshot)
	}
}

func (s *Store) refreshEdges() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	snapshot, err := s.readEdges(ctx)
	if err != nil {
		s.logger.Error("Edge snapshot refresh failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.edgeSubs {
		deliver(ch, snapshot)
	}
}

// deliver pushes a snapshot without blocking, newest wins
func deliver[T any](ch chan T, snapshot T) {
	select {
	case ch <- snapshot:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}

type nodeStore struct {
	s *Store
}

func (n nodeStore) Subscribe(ctx context.Context) (*ports.NodeSubscription, error) {
	seed, err := n.s.readNodes(ctx)
	if err != nil {
		return nil, err
	}

	n.s.mu.Lock()
	id := n.s.nextSub
	n.s.nextSub++
	ch := make(chan ports.NodeSnapshot, 1)
	n.s.nodeSubs[id] = ch
	ch <- seed
	n.s.mu.Unlock()

	var once sync.Once
	closeFn := func() {
		once.Do(func() {
			n.s.mu.Lock()
			defer n.s.mu.Unlock()
			delete(n.s.nodeSubs, id)
			close(ch)
		})
	}

	return &ports.NodeSubscription{C: ch, Close: closeFn}, nil
}

func (n nodeStore) Write(ctx context.Context, node entities.AppNode) error {
	item, err := attributevalue.MarshalMap(node)
	if err != nil {
		return fmt.Errorf("marshal node: %w", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: nodeKey(node.NodeID())}
	item["SK"] = &types.AttributeValueMemberS{Value: metadataSK}
	item["EntityType"] = &types.AttributeValueMemberS{Value: entityTypeNode}

	if _, err := n.s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(n.s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put node %s: %w", node.NodeID(), err)
	}

	go n.s.refreshNodes()
	return nil
}

func (n nodeStore) Delete(ctx context.Context, id string) error {
	if _, err := n.s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(n.s.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: nodeKey(id)},
			"SK": &types.AttributeValueMemberS{Value: metadataSK},
		},
	}); err != nil {
		return fmt.Errorf("delete node %s: %w", id, err)
	}

	go n.s.refreshNodes()
	return nil
}

type edgeStore struct {
	s *Store
}

func (e edgeStore) Subscribe(ctx context.Context) (*ports.EdgeSubscription, error) {
	seed, err := e.s.readEdges(ctx)
	if err != nil {
		return nil, err
	}

	e.s.mu.Lock()
	id := e.s.nextSub
	e.s.nextSub++
	ch := make(chan ports.EdgeSnapshot, 1)
	e.s.edgeSubs[id] = ch
	ch <- seed
	e.s.mu.Unlock()

	var once sync.Once
	closeFn := func() {
		once.Do(func() {
			e.s.mu.Lock()
			defer e.s.mu.Unlock()
			delete(e.s.edgeSubs, id)
			close(ch)
		})
	}

	return &ports.EdgeSubscription{C: ch, Close: closeFn}, nil
}

func (e edgeStore) Write(ctx context.Context, edge entities.Edge) error {
	item, err := attributevalue.MarshalMap(edge)
	if err != nil {
		return fmt.Errorf("marshal edge: %w", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: edgeKey(edge.ID)}
	item["SK"] = &types.AttributeValueMemberS{Value: metadataSK}
	item["EntityType"] = &types.AttributeValueMemberS{Value: entityTypeEdge}

	if _, err := e.s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(e.s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put edge %s: %w", edge.ID, err)
	}

	go e.s.refreshEdges()
	return nil
}

func (e edgeStore) Delete(ctx context.Context, id string) error {
	if _, err := e.s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(e.s.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: edgeKey(id)},
			"SK": &types.AttributeValueMemberS{Value: metadataSK},
		},
	}); err != nil {
		return fmt.Errorf("delete edge %s: %w", id, err)
	}

	go e.s.refreshEdges()
	return nil
}
