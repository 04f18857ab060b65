package logging

import (
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xraylog"
)

// XRayLogger routes the X-Ray SDK's internal messages through l, so they
// come out as structured records instead of bare stderr lines.
type XRayLogger struct {
	l Logger
}

// NewXRayLogger wraps l for xray.SetLogger.
func NewXRayLogger(l Logger) *XRayLogger {
	return &XRayLogger{l: l}
}

var _ xraylog.Logger = (*XRayLogger)(nil)

func (x *XRayLogger) Log(level xraylog.LogLevel, msg fmt.Stringer) {
	text := msg.String()
	switch level {
	case xraylog.LogLevelDebug:
		x.l.Debug(text, String("source", "xray"))
	case xraylog.LogLevelInfo:
		x.l.Info(text, String("source", "xray"))
	case xraylog.LogLevelWarn:
		x.l.Warn(text, String("source", "xray"))
	default:
		x.l.Error(text, nil, String("source", "xray"))
	}
}
