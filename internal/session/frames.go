package session

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/ccheshirecat/folio/internal/terminal"
)

// Outbound frame types.
const (
	FrameReady  = "ready"
	FrameBlock  = "block"
	FrameClear  = "clear"
	FrameScroll = "scroll"
	FrameValue  = "value"
	FrameOpen   = "open"
	FrameError  = "error"
)

// Inbound frame types.
const (
	FrameInput = "input"
	FrameKey   = "key"
)

// Frame is a server-to-client message.
type Frame struct {
	Type     string          `json:"type"`
	Session  string          `json:"session,omitempty"`
	Prompt   string          `json:"prompt,omitempty"`
	Commands []string        `json:"commands,omitempty"`
	Block    *terminal.Block `json:"block,omitempty"`
	Value    *string         `json:"value,omitempty"`
	URL      string          `json:"url,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// inbound is a decoded client-to-server message.
type inbound struct {
	kind     string
	value    string
	hasValue bool
	key      terminal.Key
}

var errMalformedFrame = errors.New("malformed frame")

func decodeInbound(data []byte) (inbound, error) {
	if !gjson.ValidBytes(data) {
		return inbound{}, errMalformedFrame
	}
	kind := gjson.GetBytes(data, "type")
	if kind.Type != gjson.String {
		return inbound{}, fmt.Errorf("%w: missing type", errMalformedFrame)
	}
	switch kind.String() {
	case FrameInput:
		value := gjson.GetBytes(data, "value")
		if value.Exists() && value.Type != gjson.String {
			return inbound{}, fmt.Errorf("%w: value must be a string", errMalformedFrame)
		}
		return inbound{kind: FrameInput, value: value.String(), hasValue: true}, nil
	case FrameKey:
		name := gjson.GetBytes(data, "key").String()
		key := terminal.ParseKey(name)
		if key == terminal.KeyNone {
			return inbound{}, fmt.Errorf("%w: unsupported key %q", errMalformedFrame, name)
		}
		in := inbound{kind: FrameKey, key: key}
		// A key frame may carry the field value so clients can skip a
		// separate input frame before Enter.
		if value := gjson.GetBytes(data, "value"); value.Type == gjson.String {
			in.value = value.String()
			in.hasValue = true
		}
		return in, nil
	default:
		return inbound{}, fmt.Errorf("%w: unknown type %q", errMalformedFrame, kind.String())
	}
}
