package otel

import (
	"os"
	"sync/atomic"
)

// EnvTrace turns on per-request trace events when set to any value.
const EnvTrace = "RESQ_TRACE"

var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv(EnvTrace) != "")
}

// TraceEnabled reports whether RESQ_TRACE was set at startup.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
