package encoder

import "unicode"

// controlTable maps the non-letter codepoints that have a dedicated
// Control+key mapping in the VT control table (spec.md §4.1.2) to the
// control byte they produce.
var controlTable = map[rune]byte{
	' ':  NUL,
	'[':  ESC,
	'\\': FS,
	']':  GS,
	'^':  RS,
	'_':  US,
}

// generateChar appends the wire bytes for one codepoint under mod,
// returning the extended buffer and whether anything was appended.
func generateChar(buf []byte, r rune, mod Modifier) ([]byte, bool) {
	if mod.Has(ModControl) {
		if b, ok := controlLetterByte(r); ok {
			return appendMeta(buf, []byte{b}, mod), true
		}
		if b, ok := controlTable[r]; ok {
			return appendMeta(buf, []byte{b}, mod), true
		}
	}

	if !isEmittable(r) {
		return buf, false
	}

	return appendMeta(buf, encodeUTF8(r), mod), true
}

// controlLetterByte folds A-Z/a-z into the 0x01-0x1A control-byte range.
func controlLetterByte(r rune) (byte, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return byte(r-'a') + 1, true
	case r >= 'A' && r <= 'Z':
		return byte(r-'A') + 1, true
	default:
		return 0, false
	}
}

// appendMeta prepends ESC ("meta sends escape") when Alt is set, then
// appends p.
func appendMeta(buf []byte, p []byte, mod Modifier) []byte {
	if mod.Has(ModAlt) {
		buf = append(buf, ESC)
	}
	return append(buf, p...)
}

// isEmittable reports whether r is printable ASCII/UTF-8 text rather than a
// control code the caller should have routed through a Key instead.
func isEmittable(r rune) bool {
	if r == unicode.ReplacementChar {
		return false
	}
	if r < 0x20 {
		return false
	}
	if r == DEL {
		return false
	}
	return true
}

// encodeUTF8 returns the UTF-8 encoding of r as a fresh byte slice.
func encodeUTF8(r rune) []byte {
	return appendUTF8(nil, r)
}

// appendUTF8 appends the UTF-8 encoding of r to buf.
func appendUTF8(buf []byte, r rune) []byte {
	switch {
	case r < 0:
		return buf
	case r <= 0x7F:
		return append(buf, byte(r))
	case r <= 0x7FF:
		return append(buf,
			byte(0xC0|(r>>6)),
			byte(0x80|(r&0x3F)),
		)
	case r <= 0xFFFF:
		return append(buf,
			byte(0xE0|(r>>12)),
			byte(0x80|((r>>6)&0x3F)),
			byte(0x80|(r&0x3F)),
		)
	default:
		return append(buf,
			byte(0xF0|(r>>18)),
			byte(0x80|((r>>12)&0x3F)),
			byte(0x80|((r>>6)&0x3F)),
			byte(0x80|(r&0x3F)),
		)
	}
}
