package encoder

const (
	focusIn  = "\x1b[I"
	focusOut = "\x1b[O"
)
