// Command encdemo drives an encoder.Encoder from real keypresses typed at
// a raw-mode terminal and feeds its output to a pty-spawned shell, so the
// shell sees exactly the byte sequences the encoder produces rather than
// whatever the local terminal driver would have sent directly.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/rhcher/contour/encoder"
	"github.com/rhcher/contour/internal/vtbridge"
	"github.com/rhcher/contour/logging"
)

var (
	debug   = flag.Bool("debug", false, "If true, enable DEBUG log level for verbose log output")
	logfile = flag.String("logfile", "", "If set, logs will be written to this file.")
	shell   = flag.String("shell", "", "Shell to spawn under the pty; defaults to $SHELL")
)

// arrowSeq maps the escape sequence a local raw-mode terminal sends for an
// arrow key to the abstract Key the user pressed, so encdemo can re-encode
// it itself rather than passing the local terminal's bytes straight
// through — the whole point of the demo.
var arrowSeq = map[string]encoder.Key{
	"\x1b[A": encoder.KeyUp,
	"\x1b[B": encoder.KeyDown,
	"\x1b[C": encoder.KeyRight,
	"\x1b[D": encoder.KeyLeft,
}

func main() {
	flag.Parse()

	if err := logging.Setup(*logfile, *debug); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	orig, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		slog.Error("couldn't make terminal raw", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := term.Restore(int(os.Stdin.Fd()), orig); err != nil {
			slog.Error("couldn't restore terminal state", "err", err)
		}
	}()

	sh := *shell
	if sh == "" {
		sh = os.Getenv("SHELL")
	}
	if sh == "" {
		sh = "/bin/sh"
	}

	cmd := exec.Command(sh)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		slog.Error("couldn't start pty", "err", err)
		os.Exit(1)
	}
	defer ptmx.Close()

	if w, h, err := term.GetSize(int(os.Stdin.Fd())); err == nil {
		pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(h), Cols: uint16(w)})
	}

	enc := encoder.New()

	go io.Copy(os.Stdout, ptmx)

	slog.Info("encdemo ready", "shell", sh, "hint", "Ctrl-A then 1 toggles DECCKM application cursor keys; Ctrl-C exits")
	runInputLoop(enc, ptmx)

	if err := cmd.Wait(); err != nil {
		slog.Debug("shell exited", "err", err)
	}
}

// runInputLoop reads raw bytes from stdin, re-encodes arrow sequences and
// plain runes through enc, drains enc's output into w, and exits on
// Ctrl-C. Ctrl-A followed by '1' toggles DECCKM via vtbridge, to demonstrate the
// mode actually changing the arrow-key encoding live.
func runInputLoop(enc *encoder.Encoder, w io.Writer) {
	in := bufReader{r: os.Stdin}
	appMode := false

	for {
		b, err := in.readByte()
		if err != nil {
			return
		}

		switch {
		case b == 0x03: // Ctrl-C
			return
		case b == 0x01: // Ctrl-A prefix
			cmdByte, err := in.readByte()
			if err != nil {
				return
			}
			if cmdByte == '1' {
				appMode = !appMode
				vtbridge.MustApply(enc, "?1", appMode)
				slog.Info("toggled DECCKM", "application", appMode)
			}
			continue
		case b == 0x1b:
			seq, ok := in.readArrowTail()
			if ok {
				if key, known := arrowSeq["\x1b"+string(seq)]; known {
					enc.GenerateKey(key, encoder.ModNone)
					break
				}
			}
			enc.GenerateRaw(append([]byte{0x1b}, seq...))
		default:
			enc.Generate(rune(b), encoder.ModNone)
		}

		if out := enc.Peek(); len(out) > 0 {
			n, _ := w.Write(out)
			enc.Consume(n)
		}
	}
}

// bufReader is a minimal single-byte reader with a two-byte lookahead for
// recognizing the "[A".."[D" tail of an arrow-key escape sequence.
type bufReader struct {
	r io.Reader
}

func (b bufReader) readByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(b.r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// readArrowTail consumes the two bytes following an ESC that begins a CSI
// arrow sequence, returning them and whether both were read and the first
// is '[' (a CSI tail). Non-arrow sequences are returned verbatim so the
// caller can forward them as raw bytes instead of silently dropping them.
func (b bufReader) readArrowTail() ([]byte, bool) {
	var buf [2]byte
	n, _ := io.ReadFull(b.r, buf[:])
	if n < 2 {
		return buf[:n], false
	}
	return buf[:], bytes.Equal(buf[:1], []byte("["))
}
