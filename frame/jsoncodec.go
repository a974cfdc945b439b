package frame

import (
	"encoding/json"
	"fmt"
)

// JSONCodec is the fallback codec spec.md §6 calls for when a transport
// cannot or does not want binary framing. Field names mirror Frame/
// Payload/Control directly rather than matching the binary wire
// layout's tag bytes.
type JSONCodec struct{}

type jsonFrame struct {
	Sequence    uint64      `json:"sequence"`
	TimestampMs uint64      `json:"timestampMs"`
	Payload     jsonPayload `json:"payload"`
}

type jsonPayload struct {
	Kind    PayloadKind  `json:"kind"`
	Data    []byte       `json:"data,omitempty"`
	Float32 []float32    `json:"float32,omitempty"`
	Control *jsonControl `json:"control,omitempty"`
	Error   *ErrorInfo   `json:"error,omitempty"`
}

type jsonControl struct {
	Kind     ControlKind `json:"kind"`
	N        uint32      `json:"n,omitempty"`
	Seq      uint64      `json:"seq,omitempty"`
	StreamID string      `json:"streamId,omitempty"`
}

// Encode marshals f as JSON.
func (JSONCodec) Encode(f Frame) ([]byte, error) {
	jf := jsonFrame{
		Sequence:    f.Sequence,
		TimestampMs: f.TimestampMs,
		Payload: jsonPayload{
			Kind:    f.Payload.Kind,
			Data:    f.Payload.Data,
			Float32: f.Payload.Float32,
		},
	}
	if f.Payload.Kind == PayloadControl {
		c := f.Payload.Control
		jf.Payload.Control = &jsonControl{Kind: c.Kind, N: c.N, Seq: c.Seq, StreamID: c.StreamID}
	}
	if f.Payload.Kind == PayloadError {
		e := f.Payload.Error
		jf.Payload.Error = &e
	}
	out, err := json.Marshal(jf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	return out, nil
}

// Decode unmarshals JSON produced by Encode.
func (JSONCodec) Decode(data []byte) (Frame, error) {
	var jf jsonFrame
	if err := json.Unmarshal(data, &jf); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	p := Payload{Kind: jf.Payload.Kind, Data: jf.Payload.Data, Float32: jf.Payload.Float32}
	if jf.Payload.Control != nil {
		p.Control = Control{Kind: jf.Payload.Control.Kind, N: jf.Payload.Control.N, Seq: jf.Payload.Control.Seq, StreamID: jf.Payload.Control.StreamID}
	}
	if jf.Payload.Error != nil {
		p.Error = *jf.Payload.Error
	}
	return Frame{Sequence: jf.Sequence, TimestampMs: jf.TimestampMs, Payload: p}, nil
}
