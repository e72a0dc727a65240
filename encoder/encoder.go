// Package encoder implements the input-event encoding core of a terminal
// emulator: translating high-level keyboard, mouse, focus and paste events
// into the exact byte sequences a VT-style host expects, under a set of
// runtime-toggleable modes. It owns no pty, no screen model and no VT
// parser — those are external collaborators that drive it (mode setters)
// and drain it (Peek/Consume).
package encoder

import "sync"

// Encoder accumulates outgoing VT byte sequences for a single terminal
// session. All public methods are safe for concurrent use; every operation
// holds the encoder's lock for its full duration, matching spec.md §5's
// synchronous, single-logical-owner concurrency model.
type Encoder struct {
	mu  sync.Mutex
	buf outbuf

	cursorKeysMode KeyMode
	numpadKeysMode KeyMode
	bracketedPaste bool
	focusEvents    bool

	mouseProtocolSet bool
	mouseProtocol    MouseProtocol
	mouseTransport   MouseTransport
	mouseWheelMode   MouseWheelMode

	pressed     map[MouseButton]bool
	lastEmitted mouseEmission
}

// mouseEmission remembers the last (position, button-byte, press-or-
// release) triple actually written to the wire, so identical repeats can
// be suppressed per spec.md §4.1.5. release is part of the key so a
// release that follows a press at the same cell with the same button byte
// — which differs only in the final M/m byte — is never mistaken for a
// repeated report and dropped.
type mouseEmission struct {
	valid   bool
	cell    CellLocation
	pixel   MousePixelPosition
	button  int
	release bool
}

// New returns a freshly constructed Encoder with every mode at its
// spec.md §4.1.1 default.
func New() *Encoder {
	e := &Encoder{}
	e.resetLocked()
	return e
}

// SetCursorKeysMode sets whether arrow/Home/End keys encode in VT normal
// or application form.
func (e *Encoder) SetCursorKeysMode(mode KeyMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursorKeysMode = mode
}

// SetNumpadKeysMode sets whether the numeric keypad encodes in VT normal
// or application form.
func (e *Encoder) SetNumpadKeysMode(mode KeyMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.numpadKeysMode = mode
}

// SetBracketedPaste toggles bracketed-paste framing (DEC private mode
// 2004).
func (e *Encoder) SetBracketedPaste(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bracketedPaste = on
}

// SetGenerateFocusEvents toggles focus in/out reporting (DEC private mode
// 1004).
func (e *Encoder) SetGenerateFocusEvents(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.focusEvents = on
}

// SetMouseProtocol enables or disables proto. Disabling the protocol that
// is not currently active is a no-op; the encoder remembers only one
// protocol at a time, matching real hosts which issue DECRST for the mode
// they previously set.
func (e *Encoder) SetMouseProtocol(proto MouseProtocol, enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if enabled {
		e.mouseProtocolSet = true
		e.mouseProtocol = proto
		return
	}
	if e.mouseProtocolSet && e.mouseProtocol == proto {
		e.mouseProtocolSet = false
		e.mouseProtocol = MouseProtocolNone
	}
}

// SetMouseTransport sets the byte format used for mouse reports.
func (e *Encoder) SetMouseTransport(t MouseTransport) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mouseTransport = t
}

// SetMouseWheelMode sets how wheel events are reported when no mouse
// protocol is active.
func (e *Encoder) SetMouseWheelMode(m MouseWheelMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mouseWheelMode = m
}

// Reset clears the pending buffer, releases any pressed buttons, and
// returns every mode to its default. After Reset, the encoder is
// indistinguishable from one returned by New.
func (e *Encoder) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
}

func (e *Encoder) resetLocked() {
	e.buf.reset()
	e.cursorKeysMode = KeyModeNormal
	e.numpadKeysMode = KeyModeNormal
	e.bracketedPaste = false
	e.focusEvents = false
	e.mouseProtocolSet = false
	e.mouseProtocol = MouseProtocolNone
	e.mouseTransport = MouseTransportDefault
	e.mouseWheelMode = MouseWheelModeDefault
	e.pressed = make(map[MouseButton]bool)
	e.lastEmitted = mouseEmission{}
}

// Generate appends the wire bytes for a single codepoint under mod. It
// returns true iff it appended at least one byte.
func (e *Encoder) Generate(r rune, mod Modifier) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, ok := generateChar(e.buf.pending, r, mod)
	if !ok {
		return false
	}
	e.buf.pending = next
	return true
}

// GenerateString applies Generate to each rune of s in order, returning
// true iff any rune appended bytes.
func (e *Encoder) GenerateString(s string, mod Modifier) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	any := false
	for _, r := range s {
		next, ok := generateChar(e.buf.pending, r, mod)
		if ok {
			e.buf.pending = next
			any = true
		}
	}
	return any
}

// GenerateKey appends the wire bytes for an abstract key under mod. It
// returns false for an unknown Key without appending anything.
func (e *Encoder) GenerateKey(key Key, mod Modifier) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, ok := encodeKey(e.buf.pending, key, mod, e.cursorKeysMode, e.numpadKeysMode)
	if !ok {
		return false
	}
	e.buf.pending = next
	return true
}

// GeneratePaste appends text, bracketed-paste framed if that mode is on.
func (e *Encoder) GeneratePaste(text string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if text == "" {
		return false
	}
	e.buf.pending = encodePaste(e.buf.pending, text, e.bracketedPaste)
	return true
}

// GenerateFocusInEvent appends a focus-in report. It returns false when
// focus events are disabled.
func (e *Encoder) GenerateFocusInEvent() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.focusEvents {
		return false
	}
	e.buf.pending = append(e.buf.pending, focusIn...)
	return true
}

// GenerateFocusOutEvent appends a focus-out report. It returns false when
// focus events are disabled.
func (e *Encoder) GenerateFocusOutEvent() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.focusEvents {
		return false
	}
	e.buf.pending = append(e.buf.pending, focusOut...)
	return true
}

// GenerateRaw appends b verbatim. It always succeeds, even for an empty or
// nil slice the caller used only to flush ordering — though an empty slice
// never counts as having appended anything.
func (e *Encoder) GenerateRaw(b []byte) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(b) == 0 {
		return false
	}
	e.buf.pending = append(e.buf.pending, b...)
	return true
}

// Peek returns a view over the unconsumed bytes. The returned slice
// aliases the encoder's internal buffer and is only valid until the next
// call into the encoder; the caller's contract is peek, write, then
// Consume, per spec.md §4.1.7.
func (e *Encoder) Peek() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.peek()
}

// Consume advances the drain pointer by n bytes.
func (e *Encoder) Consume(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.consume(n)
}
