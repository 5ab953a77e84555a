package di

import (
	"context"
	"fmt"
	"os"

	"backtrace-backend/application/engine"
	"backtrace-backend/application/ports"
	"backtrace-backend/application/search"
	"backtrace-backend/infrastructure/config"
	"backtrace-backend/infrastructure/messaging/eventbridge"
	dynamostore "backtrace-backend/infrastructure/persistence/dynamodb"
	memorystore "backtrace-backend/infrastructure/persistence/memory"
	anthropicsearch "backtrace-backend/infrastructure/search/anthropic"
	"backtrace-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	NodeStore     ports.NodeStore
	EdgeStore     ports.EdgeStore
	EventBus      ports.EventBus
	Metrics       *observability.Metrics
	Engine        *engine.Engine
	SearchService *search.Service
}

// GraphStores bundles the two collection ports so a single backing
// store serves both
type GraphStores struct {
	Nodes ports.NodeStore
	Edges ports.EdgeStore
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideGraphStores selects the storage driver
func ProvideGraphStores(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) (*GraphStores, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		store := memorystore.NewStore(logger)
		return &GraphStores{Nodes: store.Nodes(), Edges: store.Edges()}, nil
	case config.StorageDynamoDB:
		store := dynamostore.NewStore(client, cfg.DynamoDBTable, logger)
		return &GraphStores{Nodes: store.Nodes(), Edges: store.Edges()}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.StorageDriver)
	}
}

// ProvideNodeStore extracts the nodes collection port
func ProvideNodeStore(stores *GraphStores) ports.NodeStore {
	return stores.Nodes
}

// ProvideEdgeStore extracts the edges collection port
func ProvideEdgeStore(stores *GraphStores) ports.EdgeStore {
	return stores.Edges
}

// ProvideEventBus creates an event bus, or nil when no bus is configured
func ProvideEventBus(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventBus {
	if cfg.EventBusName == "" {
		return nil
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates a metrics recorder, or nil when disabled
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewMetrics("Backtrace/Graph", client)
}

// ProvideEngine creates the graph engine
func ProvideEngine(
	nodeStore ports.NodeStore,
	edgeStore ports.EdgeStore,
	bus ports.EventBus,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *engine.Engine {
	opts := []engine.Option{}
	if bus != nil {
		opts = append(opts, engine.WithEventBus(bus))
	}
	if metrics != nil {
		opts = append(opts, engine.WithMetrics(metrics))
	}
	return engine.New(nodeStore, edgeStore, logger, opts...)
}

// ProvideSearchProvider creates the resource discovery provider
func ProvideSearchProvider(cfg *config.Config, logger *zap.Logger) ports.SearchProvider {
	return anthropicsearch.NewProvider(
		os.Getenv("ANTHROPIC_API_KEY"),
		cfg.AnthropicModel,
		cfg.SearchMaxTokens,
		logger,
	)
}

// ProvideSearchService creates the search application service
func ProvideSearchService(provider ports.SearchProvider, logger *zap.Logger) *search.Service {
	return search.NewService(provider, logger)
}
