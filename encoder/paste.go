package encoder

import "strings"

const (
	pasteStart = "\x1b[200~"
	pasteEnd   = "\x1b[201~"
)

// encodePaste appends the wire bytes for pasted text. When bracketed is
// true, the text is wrapped in the bracketed-paste framing and any
// embedded end-of-paste marker is stripped so a malicious or accidental
// paste can't forge the end-of-paste boundary the host relies on.
func encodePaste(buf []byte, text string, bracketed bool) []byte {
	if !bracketed {
		return append(buf, text...)
	}

	buf = append(buf, pasteStart...)
	buf = append(buf, strings.ReplaceAll(text, pasteEnd, "")...)
	buf = append(buf, pasteEnd...)
	return buf
}
