// Package vtbridge maps DECSET/DECRST-style mode tokens, as a VT parser
// would recognize them off the wire, onto encoder.Encoder setter calls. It
// exists only to drive the encoder from tests and the cmd/ harnesses in
// this module; the encoder package itself has no notion of a mode token,
// only of its own typed setters.
package vtbridge

import (
	"fmt"

	"github.com/rhcher/contour/encoder"
)

// mode describes one recognized DECSET/DECRST token and how to apply it
// to an Encoder, generalized from vt.modeDefaults' name/code/public table
// to the handful of modes the encoder cares about.
type mode struct {
	name  string
	apply func(e *encoder.Encoder, set bool)
}

// modes maps a token — "?" prefix for DEC private, bare digits for ANSI —
// to its encoder effect. DECPAM/DECPNM arrive as bare ESC sequences rather
// than CSI mode tokens; Apply accepts "DECPAM"/"DECPNM" as pseudo-tokens
// for them rather than inventing a numeric code that was never assigned.
var modes = map[string]mode{
	"?1": {
		name: "DECCKM",
		apply: func(e *encoder.Encoder, set bool) {
			if set {
				e.SetCursorKeysMode(encoder.KeyModeApplication)
			} else {
				e.SetCursorKeysMode(encoder.KeyModeNormal)
			}
		},
	},
	"?9": {
		name:  "X10_MOUSE",
		apply: mouseProtocolApply(encoder.MouseProtocolX10),
	},
	"?1000": {
		name:  "NORMAL_TRACKING_MOUSE",
		apply: mouseProtocolApply(encoder.MouseProtocolNormalTracking),
	},
	"?1002": {
		name:  "BUTTON_TRACKING_MOUSE",
		apply: mouseProtocolApply(encoder.MouseProtocolButtonTracking),
	},
	"?1003": {
		name:  "ANY_EVENT_TRACKING_MOUSE",
		apply: mouseProtocolApply(encoder.MouseProtocolAnyEventTracking),
	},
	"?1005": {
		name:  "UTF8_MOUSE",
		apply: mouseTransportApply(encoder.MouseTransportExtended),
	},
	"?1006": {
		name:  "SGR_MOUSE",
		apply: mouseTransportApply(encoder.MouseTransportSGR),
	},
	"?1015": {
		name:  "URXVT_MOUSE",
		apply: mouseTransportApply(encoder.MouseTransportURXVT),
	},
	"?1016": {
		name:  "SGR_PIXELS_MOUSE",
		apply: mouseTransportApply(encoder.MouseTransportSGRPixels),
	},
	"?1004": {
		name: "FOCUS_EVENTS",
		apply: func(e *encoder.Encoder, set bool) {
			e.SetGenerateFocusEvents(set)
		},
	},
	"?2004": {
		name: "BRACKET_PASTE",
		apply: func(e *encoder.Encoder, set bool) {
			e.SetBracketedPaste(set)
		},
	},
	"DECPAM": {
		name: "DECPAM",
		apply: func(e *encoder.Encoder, set bool) {
			e.SetNumpadKeysMode(encoder.KeyModeApplication)
		},
	},
	"DECPNM": {
		name: "DECPNM",
		apply: func(e *encoder.Encoder, set bool) {
			e.SetNumpadKeysMode(encoder.KeyModeNormal)
		},
	},
}

func mouseProtocolApply(proto encoder.MouseProtocol) func(*encoder.Encoder, bool) {
	return func(e *encoder.Encoder, set bool) {
		e.SetMouseProtocol(proto, set)
	}
}

func mouseTransportApply(transport encoder.MouseTransport) func(*encoder.Encoder, bool) {
	return func(e *encoder.Encoder, set bool) {
		if set {
			e.SetMouseTransport(transport)
		} else {
			e.SetMouseTransport(encoder.MouseTransportDefault)
		}
	}
}

// Apply looks up token — e.g. "?1000", "?2004", "DECPAM" — and, if
// recognized, invokes its encoder setter with set. It reports whether the
// token was recognized; an unrecognized token leaves e untouched.
func Apply(e *encoder.Encoder, token string, set bool) bool {
	m, ok := modes[token]
	if !ok {
		return false
	}
	m.apply(e, set)
	return true
}

// Name returns the human-readable mode name for token, for logging, or
// "" if token is unrecognized.
func Name(token string) string {
	return modes[token].name
}

// MustApply is Apply, except it panics on an unrecognized token. It is
// meant for call sites — tests and demo harnesses — that build token
// strings from a fixed, known-good set rather than parsing host input.
func MustApply(e *encoder.Encoder, token string, set bool) {
	if !Apply(e, token, set) {
		panic(fmt.Sprintf("vtbridge: unrecognized mode token %q", token))
	}
}
