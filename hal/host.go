package hal

import (
	"io"
	"os"
	"sync"
)

// hostHAL runs the toolkit on a desktop. It serves as its own Display and Input.
type hostHAL struct {
	log *lineWriter
	fb  *hostFramebuffer
	kbd *hostKeyboard
	t   *hostTime
}

// New returns a host HAL with a ScreenWidth x ScreenHeight framebuffer, logging
// to stdout.
func New() HAL {
	return newHostHAL(os.Stdout)
}

func newHostHAL(logOut io.Writer) *hostHAL {
	return &hostHAL{
		log: &lineWriter{w: logOut},
		fb:  newHostFramebuffer(ScreenWidth, ScreenHeight),
		kbd: newHostKeyboard(),
		t:   newHostTime(),
	}
}

func (h *hostHAL) Logger() Logger           { return h.log }
func (h *hostHAL) Display() Display         { return h }
func (h *hostHAL) Input() Input             { return h }
func (h *hostHAL) Time() Time               { return h.t }
func (h *hostHAL) Framebuffer() Framebuffer { return h.fb }
func (h *hostHAL) Keyboard() Keyboard       { return h.kbd }

// lineWriter is a Logger over an io.Writer. Each line is written with a single
// Write call so lines from different goroutines never interleave.
type lineWriter struct {
	mu  sync.Mutex
	w   io.Writer
	buf []byte
}

func (l *lineWriter) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf = append(append(l.buf[:0], s...), '\n')
	_, _ = l.w.Write(l.buf)
}

func (l *lineWriter) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf = append(append(l.buf[:0], b...), '\n')
	_, _ = l.w.Write(l.buf)
}
