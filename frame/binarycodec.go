package frame

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// BinaryCodec is the structured binary codec spec.md §6 prefers over
// JSON, with a wire layout grounded on original_source/src/
// serialization.rs's field order: u64 sequence, u64 timestamp_ms, a
// one-byte payload tag, then a u32 length-prefixed body specific to
// that tag.
type BinaryCodec struct{}

// Encode writes f's wire representation.
func (BinaryCodec) Encode(f Frame) ([]byte, error) {
	body, err := encodeBody(f.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.BigEndian, f.Sequence); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if err := binary.Write(buf, binary.BigEndian, f.TimestampMs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	buf.WriteByte(byte(f.Payload.Kind))
	if err := binary.Write(buf, binary.BigEndian, uint32(len(body))); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

// Decode parses a wire representation produced by Encode.
func (BinaryCodec) Decode(data []byte) (Frame, error) {
	r := bytes.NewReader(data)
	var seq, ts uint64
	if err := binary.Read(r, binary.BigEndian, &seq); err != nil {
		return Frame{}, fmt.Errorf("%w: reading sequence: %v", ErrProtocol, err)
	}
	if err := binary.Read(r, binary.BigEndian, &ts); err != nil {
		return Frame{}, fmt.Errorf("%w: reading timestamp: %v", ErrProtocol, err)
	}
	kindByte, err := r.ReadByte()
	if err != nil {
		return Frame{}, fmt.Errorf("%w: reading payload kind: %v", ErrProtocol, err)
	}
	var bodyLen uint32
	if err := binary.Read(r, binary.BigEndian, &bodyLen); err != nil {
		return Frame{}, fmt.Errorf("%w: reading body length: %v", ErrProtocol, err)
	}
	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return Frame{}, fmt.Errorf("%w: reading body: %v", ErrProtocol, err)
	}

	payload, err := decodeBody(PayloadKind(kindByte), body)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	return Frame{Sequence: seq, TimestampMs: ts, Payload: payload}, nil
}

func encodeBody(p Payload) ([]byte, error) {
	buf := &bytes.Buffer{}
	switch p.Kind {
	case PayloadData:
		buf.Write(p.Data)
	case PayloadFloat32:
		for _, v := range p.Float32 {
			if err := binary.Write(buf, binary.BigEndian, math.Float32bits(v)); err != nil {
				return nil, err
			}
		}
	case PayloadControl:
		if err := encodeControl(buf, p.Control); err != nil {
			return nil, err
		}
	case PayloadError:
		if err := binary.Write(buf, binary.BigEndian, p.Error.Code); err != nil {
			return nil, err
		}
		var recoverable byte
		if p.Error.Recoverable {
			recoverable = 1
		}
		buf.WriteByte(recoverable)
		writeLenPrefixedString(buf, p.Error.Message)
	default:
		return nil, fmt.Errorf("unknown payload kind %d", p.Kind)
	}
	return buf.Bytes(), nil
}

func decodeBody(kind PayloadKind, body []byte) (Payload, error) {
	r := bytes.NewReader(body)
	switch kind {
	case PayloadData:
		return Payload{Kind: kind, Data: body}, nil
	case PayloadFloat32:
		if len(body)%4 != 0 {
			return Payload{}, fmt.Errorf("float32 body length %d not a multiple of 4", len(body))
		}
		out := make([]float32, len(body)/4)
		for i := range out {
			var bits uint32
			if err := binary.Read(r, binary.BigEndian, &bits); err != nil {
				return Payload{}, err
			}
			out[i] = math.Float32frombits(bits)
		}
		return Payload{Kind: kind, Float32: out}, nil
	case PayloadControl:
		c, err := decodeControl(r)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Kind: kind, Control: c}, nil
	case PayloadError:
		var e ErrorInfo
		if err := binary.Read(r, binary.BigEndian, &e.Code); err != nil {
			return Payload{}, err
		}
		recoverable, err := r.ReadByte()
		if err != nil {
			return Payload{}, err
		}
		e.Recoverable = recoverable != 0
		msg, err := readLenPrefixedString(r)
		if err != nil {
			return Payload{}, err
		}
		e.Message = msg
		return Payload{Kind: kind, Error: e}, nil
	default:
		return Payload{}, fmt.Errorf("unknown payload kind %d", kind)
	}
}

func encodeControl(buf *bytes.Buffer, c Control) error {
	buf.WriteByte(byte(c.Kind))
	switch c.Kind {
	case ControlCredit:
		return binary.Write(buf, binary.BigEndian, c.N)
	case ControlAck:
		return binary.Write(buf, binary.BigEndian, c.Seq)
	case ControlPause, ControlResume, ControlComplete:
		return nil
	case ControlSubscribe, ControlUnsubscribe:
		writeLenPrefixedString(buf, c.StreamID)
		return nil
	default:
		return fmt.Errorf("unknown control kind %d", c.Kind)
	}
}

func decodeControl(r *bytes.Reader) (Control, error) {
	kindByte, err := r.ReadByte()
	if err != nil {
		return Control{}, err
	}
	kind := ControlKind(kindByte)
	c := Control{Kind: kind}
	switch kind {
	case ControlCredit:
		if err := binary.Read(r, binary.BigEndian, &c.N); err != nil {
			return Control{}, err
		}
	case ControlAck:
		if err := binary.Read(r, binary.BigEndian, &c.Seq); err != nil {
			return Control{}, err
		}
	case ControlPause, ControlResume, ControlComplete:
	case ControlSubscribe, ControlUnsubscribe:
		id, err := readLenPrefixedString(r)
		if err != nil {
			return Control{}, err
		}
		c.StreamID = id
	default:
		return Control{}, fmt.Errorf("unknown control kind %d", kind)
	}
	return c, nil
}

func writeLenPrefixedString(buf *bytes.Buffer, s string) {
	_ = binary.Write(buf, binary.BigEndian, uint32(len(s)))
	buf.WriteString(s)
}

func readLenPrefixedString(r *bytes.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return "", err
	}
	return string(out), nil
}
