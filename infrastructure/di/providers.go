// Package di wires the application dependencies with google/wire.
package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"go.uber.org/zap"

	"bookreviews-backend/application/ports"
	"bookreviews-backend/infrastructure/config"
	"bookreviews-backend/infrastructure/messaging/eventbridge"
	"bookreviews-backend/infrastructure/observability"
	"bookreviews-backend/infrastructure/persistence/dynamodb"
	"bookreviews-backend/pkg/auth"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration, instrumented with X-Ray when
// tracing is enabled.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, err
	}

	if cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}

	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client, pointed at the local
// endpoint when running offline.
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideReviewRepository creates the review store adapter
func ProvideReviewRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ReviewRepository {
	return dynamodb.NewReviewRepository(
		client,
		cfg.ReviewsTable,
		cfg.BookIndexName,
		logger,
	)
}

// ProvideTokenVerifier creates the bearer-token verifier
func ProvideTokenVerifier(cfg *config.Config) (auth.Verifier, error) {
	secret := cfg.JWTSecret
	if secret == "" && cfg.IsDevelopment() {
		secret = "development-secret-change-in-production"
	}
	return auth.NewJWTVerifier(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
		Audience:  cfg.JWTAudience,
	})
}

// ProvideEventPublisher creates the review event publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if !cfg.EnableEvents {
		return eventbridge.NewNoopPublisher()
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates the metrics sink
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) ports.Metrics {
	if !cfg.EnableMetrics {
		return observability.NewNoopMetrics()
	}
	return observability.NewMetrics(client, cfg.MetricsNamespace+"/"+cfg.Environment)
}
