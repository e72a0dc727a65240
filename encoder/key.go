package encoder

import "fmt"

// Key enumerates the abstract keys the encoder knows how to translate,
// mirroring spec.md §3's function/cursor/editing-pad/numpad inventory.
type Key int

const (
	KeyUnknown Key = iota

	// Cursor arrows and the 6-key editing pad.
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPageUp
	KeyPageDown

	// Function keys.
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20

	// Numeric keypad, including NumLock which carries no wire
	// representation of its own.
	KeyNumpadNumLock
	KeyNumpadDivide
	KeyNumpadMultiply
	KeyNumpadSubtract
	KeyNumpadAdd
	KeyNumpadDecimal
	KeyNumpadEnter
	KeyNumpadEqual
	KeyNumpad0
	KeyNumpad1
	KeyNumpad2
	KeyNumpad3
	KeyNumpad4
	KeyNumpad5
	KeyNumpad6
	KeyNumpad7
	KeyNumpad8
	KeyNumpad9
)

// KeyMode selects between the VT "normal" and "application" cursor-key or
// numeric-keypad encodings, tracked independently per spec.md §3.
type KeyMode int

const (
	KeyModeNormal KeyMode = iota
	KeyModeApplication
)

func (m KeyMode) String() string {
	if m == KeyModeApplication {
		return "application"
	}
	return "normal"
}

// cursorFinal maps the arrow/Home/End keys to their CSI/SS3 final byte, per
// the VT220 table spec.md §4.1.3 cites.
var cursorFinal = map[Key]byte{
	KeyUp:    'A',
	KeyDown:  'B',
	KeyRight: 'C',
	KeyLeft:  'D',
	KeyHome:  'H',
	KeyEnd:   'F',
}

// fkeyFinal maps F1-F4 to their SS3 final byte.
var fkeyFinal = map[Key]byte{
	KeyF1: 'P',
	KeyF2: 'Q',
	KeyF3: 'R',
	KeyF4: 'S',
}

// tildeCode maps editing-pad keys and F5-F20 to the VT220 numeric code used
// in the "ESC [ n ~" family of sequences. The gaps at 16, 22, 27 and 30 are
// historical (xterm never assigned them) and are preserved here.
var tildeCode = map[Key]int{
	KeyInsert:   2,
	KeyDelete:   3,
	KeyPageUp:   5,
	KeyPageDown: 6,
	KeyF5:       15,
	KeyF6:       17,
	KeyF7:       18,
	KeyF8:       19,
	KeyF9:       20,
	KeyF10:      21,
	KeyF11:      23,
	KeyF12:      24,
	KeyF13:      25,
	KeyF14:      26,
	KeyF15:      28,
	KeyF16:      29,
	KeyF17:      31,
	KeyF18:      32,
	KeyF19:      33,
	KeyF20:      34,
}

// numpadAppFinal maps numeric-keypad keys to their SS3 final byte in
// application mode.
var numpadAppFinal = map[Key]byte{
	KeyNumpad0:        'p',
	KeyNumpad1:        'q',
	KeyNumpad2:        'r',
	KeyNumpad3:        's',
	KeyNumpad4:        't',
	KeyNumpad5:        'u',
	KeyNumpad6:        'v',
	KeyNumpad7:        'w',
	KeyNumpad8:        'x',
	KeyNumpad9:        'y',
	KeyNumpadDecimal:  'n',
	KeyNumpadEnter:    'M',
	KeyNumpadEqual:    'X',
	KeyNumpadDivide:   'o',
	KeyNumpadMultiply: 'j',
	KeyNumpadSubtract: 'm',
	KeyNumpadAdd:      'k',
}

// numpadNormal maps numeric-keypad keys to the plain ASCII byte they send
// when the keypad is in normal mode.
var numpadNormal = map[Key]byte{
	KeyNumpad0:        '0',
	KeyNumpad1:        '1',
	KeyNumpad2:        '2',
	KeyNumpad3:        '3',
	KeyNumpad4:        '4',
	KeyNumpad5:        '5',
	KeyNumpad6:        '6',
	KeyNumpad7:        '7',
	KeyNumpad8:        '8',
	KeyNumpad9:        '9',
	KeyNumpadDecimal:  '.',
	KeyNumpadEnter:    CR,
	KeyNumpadEqual:    '=',
	KeyNumpadDivide:   '/',
	KeyNumpadMultiply: '*',
	KeyNumpadSubtract: '-',
	KeyNumpadAdd:      '+',
}

func (k Key) String() string {
	return fmt.Sprintf("Key(%d)", int(k))
}

// encodeKey appends the wire bytes for key under mod to buf, returning the
// extended buffer and whether anything was appended. cursorMode and
// numpadMode are the encoder's current modes for the two independently
// tracked key groups.
func encodeKey(buf []byte, key Key, mod Modifier, cursorMode, numpadMode KeyMode) ([]byte, bool) {
	if key == KeyNumpadNumLock {
		return buf, false
	}

	if final, ok := cursorFinal[key]; ok {
		return encodeCursorLike(buf, final, mod, cursorMode), true
	}

	if final, ok := fkeyFinal[key]; ok {
		if mod.None() {
			return append(buf, ESC, SS3, final), true
		}
		return encodeModifiedCSI(buf, final, mod), true
	}

	if n, ok := tildeCode[key]; ok {
		return encodeTilde(buf, n, mod), true
	}

	if final, ok := numpadAppFinal[key]; numpadMode == KeyModeApplication && ok {
		return append(buf, ESC, SS3, final), true
	}

	if b, ok := numpadNormal[key]; ok {
		return append(buf, b), true
	}

	return buf, false
}

// encodeCursorLike encodes an arrow/Home/End key. A non-None modifier
// always forces the "ESC [ 1 ; P X" form regardless of cursorMode, matching
// the fact that SS3 sequences carry no parameter slot.
func encodeCursorLike(buf []byte, final byte, mod Modifier, mode KeyMode) []byte {
	if !mod.None() {
		return encodeModifiedCSI(buf, final, mod)
	}
	if mode == KeyModeApplication {
		return append(buf, ESC, SS3, final)
	}
	return append(buf, ESC, CSI, final)
}

// encodeModifiedCSI appends "ESC [ 1 ; P final" where P is mod's
// virtual-terminal parameter.
func encodeModifiedCSI(buf []byte, final byte, mod Modifier) []byte {
	buf = append(buf, ESC, CSI, '1', ';')
	buf = appendInt(buf, mod.vtParam())
	return append(buf, final)
}

// encodeTilde appends "ESC [ n ~" or, when mod is set, "ESC [ n ; P ~".
func encodeTilde(buf []byte, n int, mod Modifier) []byte {
	buf = append(buf, ESC, CSI)
	buf = appendInt(buf, n)
	if !mod.None() {
		buf = append(buf, ';')
		buf = appendInt(buf, mod.vtParam())
	}
	return append(buf, '~')
}

// appendInt appends the decimal digits of a non-negative int without going
// through fmt, since this sits on the hot path of every keypress.
func appendInt(buf []byte, n int) []byte {
	if n == 0 {
		return append(buf, '0')
	}
	start := len(buf)
	for n > 0 {
		buf = append(buf, byte('0'+n%10))
		n /= 10
	}
	for i, j := start, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf
}
