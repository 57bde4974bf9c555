package main

import (
	"context"
	"log"
	"time"

	"bookreviews-backend/infrastructure/config"
	"bookreviews-backend/infrastructure/di"
	"bookreviews-backend/interfaces/http/rest"
	"bookreviews-backend/interfaces/http/rest/middleware"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Global variables for Lambda lifecycle management
var (
	// chiLambda wraps the Chi router for AWS Lambda integration
	chiLambda *chiadapter.ChiLambdaV2

	// container holds the dependency injection container
	container *di.Container

	// coldStart tracks whether this is a cold start invocation
	coldStart = true

	// coldStartTime records when the cold start began
	coldStartTime time.Time
)

// init runs during cold start
func init() {
	coldStartTime = time.Now()
	log.Println("Lambda cold start initiated")

	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	// Create router
	router := rest.NewRouter(
		container.ReviewRepo,
		container.Events,
		container.Metrics,
		container.Verifier,
		container.Logger,
	)

	// Setup routes
	handler := router.Setup()

	// Create Lambda adapter - need to type assert to *chi.Mux
	chiRouter, ok := handler.(*chi.Mux)
	if !ok {
		log.Fatal("Failed to cast handler to chi.Mux")
	}
	chiLambda = chiadapter.NewV2(chiRouter)

	coldStartDuration := time.Since(coldStartTime)
	log.Printf("Lambda cold start completed in %v", coldStartDuration)
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if container != nil && container.Logger != nil {
		container.Logger.Info("Lambda received request",
			zap.String("path", req.RequestContext.HTTP.Path),
			zap.String("method", req.RequestContext.HTTP.Method),
			zap.String("request_id", req.RequestContext.RequestID),
		)
	}

	// The claim headers are only ever set here. API Gateway forwards unknown
	// headers untouched, so drop any client-supplied copies before deciding
	// whether to inject verified ones.
	middleware.StripClaimHeaders(req.Headers)

	// When the request passed through the API Gateway JWT authorizer, the
	// token was already validated and the claims are available on the
	// request context. Forward them as trusted headers so the middleware
	// can skip re-validating the token inside the function.
	if req.RequestContext.Authorizer != nil && req.RequestContext.Authorizer.JWT != nil {
		claims := req.RequestContext.Authorizer.JWT.Claims
		if sub, ok := claims["sub"]; ok && sub != "" {
			if req.Headers == nil {
				req.Headers = make(map[string]string)
			}
			req.Headers[middleware.HeaderGatewayAuthorized] = "true"
			req.Headers[middleware.HeaderClaimSubject] = sub
			if username, ok := claims["cognito:username"]; ok {
				req.Headers[middleware.HeaderClaimUsername] = username
			}

			if container != nil && container.Logger != nil {
				container.Logger.Info("API Gateway pre-validated request",
					zap.String("path", req.RequestContext.HTTP.Path),
				)
			}
		}
	}

	// Process the request through the Chi router
	proxyResp, err := chiLambda.ProxyWithContextV2(ctx, req)

	// Add custom headers for monitoring
	if proxyResp.Headers == nil {
		proxyResp.Headers = make(map[string]string)
	}

	if coldStart {
		proxyResp.Headers["X-Cold-Start"] = "true"
		proxyResp.Headers["X-Cold-Start-Duration"] = time.Since(coldStartTime).String()
		coldStart = false
	} else {
		proxyResp.Headers["X-Cold-Start"] = "false"
	}

	// Add request ID for tracing
	if req.RequestContext.RequestID != "" {
		proxyResp.Headers["X-Request-ID"] = req.RequestContext.RequestID
	}

	if container != nil && container.Logger != nil {
		container.Logger.Info("Lambda response",
			zap.String("method", req.RequestContext.HTTP.Method),
			zap.String("path", req.RequestContext.HTTP.Path),
			zap.String("request_id", req.RequestContext.RequestID),
			zap.Int("status_code", proxyResp.StatusCode),
		)

		if proxyResp.StatusCode >= 400 && proxyResp.StatusCode < 600 {
			container.Logger.Error("Lambda error response",
				zap.String("body", proxyResp.Body),
				zap.Int("status_code", proxyResp.StatusCode),
			)
		}
	}

	return proxyResp, err
}

// main is the entry point for the Lambda function
func main() {
	lambda.Start(Handler)
}
