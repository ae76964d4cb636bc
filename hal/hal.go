// Package hal is the only contact point between the toolkit and the device:
// a log sink, an RGB565 framebuffer, key events and a millisecond tick stream.
package hal

// Screen geometry of the handheld target.
const (
	ScreenWidth  = 480
	ScreenHeight = 272
)

// Logger is the device log sink. Each call is one line.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// PixelFormat is the byte layout of framebuffer pixels.
type PixelFormat uint8

const (
	// PixelFormatRGB565 stores each pixel as a little-endian rrrrrggggggbbbbb word.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is the screen memory. Row 0 is the top of the screen. Present
// hands a finished frame to the display.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier. The handheld's d-pad maps to the arrows,
// Start to Enter and Select to Tab.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyTab
	KeyF1
)

// KeyEvent reports a key going down (Press) or up.
type KeyEvent struct {
	Code  KeyCode
	Press bool
}

// Keyboard delivers key events in the order they happened.
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Display exposes the framebuffer; it may return nil on headless devices.
type Display interface {
	Framebuffer() Framebuffer
}

// Input exposes the buttons.
type Input interface {
	Keyboard() Keyboard
}

// Time provides a base tick stream, one tick per millisecond.
type Time interface {
	Ticks() <-chan uint64
}

// AppFunc builds an app on a HAL. step runs once per frame; stop, if non-nil,
// releases the app and is called exactly once when the runner returns, whatever
// ended the run.
type AppFunc func(h HAL) (step func() error, stop func(), err error)

// HAL is what the playground is given at startup.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Time() Time
}
