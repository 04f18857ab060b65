package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"fanout-runner/config"
	"fanout-runner/logging"
	"fanout-runner/models"
	"fanout-runner/services"
)

// LambdaHandler adapts the invocation service to the Lambda runtime.
type LambdaHandler struct {
	service *services.InvocationService
	logger  logging.Logger
}

func NewLambdaHandler(svc *services.InvocationService, logger logging.Logger) *LambdaHandler {
	return &LambdaHandler{service: svc, logger: logger}
}

// HandleEvent runs one invocation for a raw event. The error is always nil:
// failures are reported in the response body.
func (h *LambdaHandler) HandleEvent(ctx context.Context, event map[string]interface{}) (models.InvocationResponse, error) {
	h.logRequest(ctx)
	if event == nil {
		event = map[string]interface{}{}
	}
	return h.service.Invoke(ctx, event), nil
}

// HandleAPIGateway wraps the response in an API Gateway proxy envelope:
// 200 for completed, 500 for failed. The request body becomes the event
// when it decodes as a JSON object.
func (h *LambdaHandler) HandleAPIGateway(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	h.logRequest(ctx)

	resp := h.service.Invoke(ctx, decodeBody(req))

	statusCode := http.StatusOK
	if resp.Failed() {
		statusCode = http.StatusInternalServerError
	}

	body, err := json.Marshal(resp)
	if err != nil {
		body, _ = json.Marshal(models.InvocationResponse{
			Language:       resp.Language,
			Threads:        resp.Threads,
			CountPerThread: resp.CountPerThread,
			DurationMs:     resp.DurationMs,
			Status:         models.StatusFailed,
			Error:          err.Error(),
		})
		statusCode = http.StatusInternalServerError
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}

// Start hands control to the Lambda runtime using the handler matching
// format. It does not return.
func (h *LambdaHandler) Start(format string) {
	if format == config.FormatAPIGateway {
		lambda.Start(h.HandleAPIGateway)
		return
	}
	lambda.Start(h.HandleEvent)
}

func (h *LambdaHandler) logRequest(ctx context.Context) {
	fields := []logging.Field{logging.String("function", lambdacontext.FunctionName)}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		fields = append(fields, logging.String("request_id", lc.AwsRequestID))
	}
	h.logger.Info("lambda invocation", fields...)
}

func decodeBody(req events.APIGatewayProxyRequest) map[string]interface{} {
	event := map[string]interface{}{}
	raw := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return event
		}
		raw = decoded
	}
	if len(raw) == 0 {
		return event
	}
	if err := json.Unmarshal(raw, &event); err != nil || event == nil {
		return map[string]interface{}{}
	}
	return event
}
