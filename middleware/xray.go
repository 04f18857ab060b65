package middleware

import (
	"context"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gofiber/fiber/v2"
)

const xrayCtxKey = "xray-ctx"

// XRayMiddleware wraps Fiber requests in an X-Ray segment named segmentName.
// The traced context is installed as the request's user context so handlers
// and the runner attach their subsegments to it.
func XRayMiddleware(segmentName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Skip tracing for health checks to reduce noise
		if c.Path() == "/health" {
			return c.Next()
		}

		ctx, seg := xray.BeginSegment(c.UserContext(), segmentName)
		if seg == nil {
			return c.Next()
		}
		defer seg.Close(nil)

		if req := seg.GetHTTP().GetRequest(); req != nil {
			req.Method = c.Method()
			req.URL = c.OriginalURL()
			req.ClientIP = c.IP()
			req.UserAgent = c.Get(fiber.HeaderUserAgent)
		}

		seg.AddAnnotation("route", c.Path())
		seg.AddAnnotation("method", c.Method())

		c.Locals(xrayCtxKey, ctx)
		c.SetUserContext(ctx)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			seg.AddError(err)
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		seg.GetHTTP().GetResponse().Status = status

		return err
	}
}

// GetXRayContext retrieves X-Ray context from Fiber locals
func GetXRayContext(c *fiber.Ctx) context.Context {
	if ctx, ok := c.Locals(xrayCtxKey).(context.Context); ok {
		return ctx
	}
	return c.UserContext()
}
