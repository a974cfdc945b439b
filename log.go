package nagare

import "go.uber.org/zap"

// logger is the package-wide structured logger. It defaults to a no-op
// logger so importing nagare never produces unsolicited output; hosts that
// want visibility into pipeline construction decisions call SetLogger. Grounded in BaSui01-agentflow's zap-everywhere convention —
// nothing in the channel-native processors logs on the hot path, so this
// is an ambient addition rather than an adaptation of existing code.
var logger = zap.NewNop()

// SetLogger installs the structured logger used for construction-time
// diagnostics. The one message logged today is the Debug entry written
// when fusion is disabled by config (finalize.go); a missing kernel and
// backpressure state changes are not logged. Never called on the
// per-item hot path — that would defeat the fusion engine.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
