package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"transfit-backend/internal/bootstrap"
	"transfit-backend/internal/shared/config"
)

var (
	initOnce  sync.Once
	initErr   error
	ginLambda *ginadapter.GinLambdaV2
)

func initApp() {
	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		return
	}
	ginLambda = ginadapter.NewV2(app.Router)
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		log.Printf("bootstrap error: %v", initErr)
		return errorResponse(http.StatusServiceUnavailable, "bootstrap_failed", "service is starting, try again later"), nil
	}
	return ginLambda.ProxyWithContext(ctx, withGatewayIdentity(req))
}

// withGatewayIdentity replaces any caller-supplied X-User-Id with the
// subject the API Gateway JWT authorizer verified. Unauthenticated requests
// keep only their guest id.
func withGatewayIdentity(req events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPRequest {
	headers := make(map[string]string, len(req.Headers)+1)
	for k, v := range req.Headers {
		if strings.EqualFold(k, "x-user-id") {
			continue
		}
		headers[k] = v
	}
	if auth := req.RequestContext.Authorizer; auth != nil && auth.JWT != nil {
		if sub := strings.TrimSpace(auth.JWT.Claims["sub"]); sub != "" {
			headers["x-user-id"] = sub
		}
	}
	req.Headers = headers
	return req
}

func errorResponse(status int, code, message string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json", "Retry-After": "5"},
	}
}

func main() {
	lambda.Start(handler)
}
