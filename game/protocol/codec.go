package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrMalformedMessage  = errors.New("malformed message")
	ErrUnexpectedMessage = errors.New("unexpected message type")
	ErrUnknownCodec      = errors.New("unknown codec")
)

// Codec encodes outbound messages and decodes inbound paddle positions.
type Codec interface {
	// Name is the value clients pass in ?codec= to select this codec.
	Name() string
	// Binary reports whether frames are binary rather than text.
	Binary() bool
	Encode(msg Message) ([]byte, error)
	// DecodePosition parses a client PlayerPositionMessage and returns YPos.
	DecodePosition(data []byte) (float64, error)
	// Decode parses a server message. Clients use it to read the stream.
	Decode(data []byte) (Envelope, error)
}

// JSONCodec is the default text codec.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }
func (JSONCodec) Binary() bool { return false }

func (JSONCodec) Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) DecodePosition(data []byte) (float64, error) {
	var u positionUpdate
	if err := json.Unmarshal(data, &u); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return u.validate()
}

func (JSONCodec) Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return env, env.validate()
}

// MsgpackCodec encodes messages as MessagePack maps keyed by field name.
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return "msgpack" }
func (MsgpackCodec) Binary() bool { return true }

func (MsgpackCodec) Encode(msg Message) ([]byte, error) {
	return msgpack.Marshal(msg)
}

func (MsgpackCodec) DecodePosition(data []byte) (float64, error) {
	var u positionUpdate
	if err := msgpack.Unmarshal(data, &u); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return u.validate()
}

func (MsgpackCodec) Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return env, env.validate()
}

// CodecFor looks a codec up by name. An empty name selects JSON.
func CodecFor(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return JSONCodec{}, nil
	case "msgpack":
		return MsgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}
