package encoder

// Control bytes used when assembling outgoing VT byte sequences. Named the
// way vt/constants.go names them in the teacher package, trimmed to the
// subset the encoder actually emits.
const (
	NUL = 0x00 // ^@
	CR  = 0x0d // ^M
	FS  = 0x1c // ^\
	GS  = 0x1d // ^]
	RS  = 0x1e // ^^
	US  = 0x1f // ^_
	ESC = 0x1b
	DEL = 0x7f

	CSI = '[' // introducer following ESC for cursor/editing/SGR sequences
	SS3 = 'O' // introducer following ESC for application-mode single shifts
)
