// Package frame defines the wire-level Frame shape a transport (the
// Durable-Object/WebSocket host, out of scope for this module) uses to
// carry stream items and control messages, plus a pluggable Codec
// contract for (de)serializing them. Nothing here runs a transport —
// this is the structural contract spec.md §3/§6 calls out as an
// external collaborator.
package frame

// PayloadKind tags which variant a Payload holds.
type PayloadKind byte

const (
	PayloadData PayloadKind = iota
	PayloadFloat32
	PayloadControl
	PayloadError
)

// ControlKind tags which variant a Control message holds.
type ControlKind byte

const (
	ControlCredit ControlKind = iota
	ControlAck
	ControlPause
	ControlResume
	ControlComplete
	ControlSubscribe
	ControlUnsubscribe
)

// Control is the bidirectional protocol a WebSocket-hosted subscriber
// uses for credit granting, pause/resume, subscribe/unsubscribe, and
// completion. Only the fields relevant to Kind are populated.
type Control struct {
	Kind     ControlKind
	N        uint32 // Credit
	Seq      uint64 // Ack
	StreamID string // Subscribe / Unsubscribe
}

// ErrorInfo is the Error payload variant: a protocol-level error report
// distinct from the core engine's own Fault taxonomy.
type ErrorInfo struct {
	Code        uint32
	Message     string
	Recoverable bool
}

// Payload is one of {Data, Float32, Control, Error}; Kind selects which
// field is meaningful.
type Payload struct {
	Kind    PayloadKind
	Data    []byte
	Float32 []float32
	Control Control
	Error   ErrorInfo
}

// Frame is the unit a transport sends or receives: a monotonically
// increasing sequence number, a millisecond timestamp, and a Payload.
type Frame struct {
	Sequence    uint64
	TimestampMs uint64
	Payload     Payload
}
