package encoder

import "strconv"

// MouseButton enumerates the buttons and wheel directions the encoder can
// report, per spec.md §3.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
	MouseRelease
)

// MouseProtocol selects which xterm mouse-reporting protocol is active.
// The host enables exactly one at a time via DECSET 9/1000/1002/1003.
type MouseProtocol int

const (
	MouseProtocolNone MouseProtocol = iota
	MouseProtocolX10
	MouseProtocolNormalTracking
	MouseProtocolButtonTracking
	MouseProtocolAnyEventTracking
)

// MouseTransport selects the byte format used to carry button/coordinate
// information, independent of which protocol decides whether to report an
// event at all.
type MouseTransport int

const (
	MouseTransportDefault MouseTransport = iota
	MouseTransportExtended
	MouseTransportSGR
	MouseTransportURXVT
	MouseTransportSGRPixels
)

// MouseWheelMode governs what happens to wheel events when no mouse
// protocol is active: translate them into cursor-key presses, or drop
// them.
type MouseWheelMode int

const (
	MouseWheelModeDefault MouseWheelMode = iota
	MouseWheelModeNormalCursorKeys
	MouseWheelModeApplicationCursorKeys
)

// CellLocation is a 1-based (line, column) grid position.
type CellLocation struct {
	Line, Column int
}

// wire clamps a cell location to the minimum valid 1-based coordinate,
// absorbing 0-based or negative positions a caller might pass through from
// a grid model that counts from zero.
func (c CellLocation) wire() CellLocation {
	l, col := c.Line, c.Column
	if l < 1 {
		l = 1
	}
	if col < 1 {
		col = 1
	}
	return CellLocation{Line: l, Column: col}
}

// MousePixelPosition is a pixel-precision (x, y) position, used only by the
// SGRPixels transport.
type MousePixelPosition struct {
	X, Y int
}

// buttonBase returns the unmodified, un-shifted button id xterm's mouse
// protocols use as the low bits of the reported button byte: 0/1/2 for
// left/middle/right, 64/65 for the wheel directions (bit 6 marks "extended
// button"), and 3 for a legacy/X10-style release with no known button.
func buttonBase(btn MouseButton) int {
	switch btn {
	case MouseLeft:
		return 0
	case MouseMiddle:
		return 1
	case MouseRight:
		return 2
	case MouseWheelUp:
		return 64
	case MouseWheelDown:
		return 65
	case MouseRelease:
		return 3
	default:
		return 3
	}
}

// modifierBits returns the shift/alt/control contribution to the reported
// button byte. Meta has no mouse-reporting bit.
func modifierBits(mod Modifier) int {
	var b int
	if mod.Has(ModShift) {
		b += 4
	}
	if mod.Has(ModAlt) {
		b += 8
	}
	if mod.Has(ModControl) {
		b += 16
	}
	return b
}

// buttonByte composes the full button value reported on the wire: the base
// button id, the drag/motion flag (bit 5, value 32), and the modifier
// bits.
func buttonByte(btn MouseButton, mod Modifier, drag bool) int {
	b := buttonBase(btn) + modifierBits(mod)
	if drag {
		b += 32
	}
	return b
}

// appendLegacyValue appends a single coordinate or button value using the
// legacy "value+32" byte encoding. Default clamps anything that would
// overflow a single byte; Extended instead UTF-8-encodes the codepoint, per
// spec.md §4.1.5.
func appendLegacyValue(buf []byte, value int, extended bool) []byte {
	cp := value + 32
	if extended {
		return appendUTF8(buf, rune(cp))
	}
	if cp > 255 {
		cp = 255
	}
	if cp < 0 {
		cp = 0
	}
	return append(buf, byte(cp))
}

// encodeLegacyMouse appends "ESC [ M Cb Cx Cy" for the Default/Extended
// transports.
func encodeLegacyMouse(buf []byte, btn MouseButton, mod Modifier, drag bool, pos CellLocation, extended bool) []byte {
	pos = pos.wire()
	buf = append(buf, ESC, CSI, 'M')
	buf = appendLegacyValue(buf, buttonByte(btn, mod, drag), extended)
	buf = appendLegacyValue(buf, pos.Column, extended)
	buf = appendLegacyValue(buf, pos.Line, extended)
	return buf
}

// encodeSGRMouse appends "ESC [ < b ; x ; y {M|m}" using either cell or
// pixel coordinates.
func encodeSGRMouse(buf []byte, btn MouseButton, mod Modifier, drag, release bool, x, y int) []byte {
	b := buttonByte(btn, mod, drag)
	buf = append(buf, ESC, CSI, '<')
	buf = strconv.AppendInt(buf, int64(b), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(x), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(y), 10)
	if release {
		return append(buf, 'm')
	}
	return append(buf, 'M')
}

// encodeURXVTMouse appends "ESC [ b+32 ; x ; y M".
func encodeURXVTMouse(buf []byte, btn MouseButton, mod Modifier, drag bool, pos CellLocation) []byte {
	pos = pos.wire()
	b := buttonByte(btn, mod, drag) + 32
	buf = append(buf, ESC, CSI)
	buf = strconv.AppendInt(buf, int64(b), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(pos.Column), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(pos.Line), 10)
	return append(buf, 'M')
}
