package hal

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramebufferClearAndSnapshot(t *testing.T) {
	fb := newHostFramebuffer(4, 2)
	assert.Equal(t, 8, fb.StrideBytes())
	assert.Len(t, fb.Buffer(), 16)
	assert.Equal(t, PixelFormatRGB565, fb.Format())

	fb.ClearRGB(0xFF, 0x00, 0xFF)
	dst := make([]byte, 4*2*4)
	fb.snapshotRGBA(dst)
	for i := 0; i < len(dst); i += 4 {
		assert.Equal(t, []byte{0xFF, 0x00, 0xFF, 0xFF}, dst[i:i+4])
	}

	require.NoError(t, fb.Present())
	assert.Equal(t, uint64(1), fb.presented())
}

func TestRGB565RoundTrip(t *testing.T) {
	r, g, b := rgb888From565(rgb565(0xFF, 0xFF, 0xFF))
	assert.Equal(t, [3]uint8{0xFF, 0xFF, 0xFF}, [3]uint8{r, g, b})

	r, g, b = rgb888From565(rgb565(0, 0, 0))
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, g, b})
}

func TestHostLogger(t *testing.T) {
	var buf bytes.Buffer
	h := newHostHAL(&buf)
	h.Logger().WriteLineString("app: hello")
	h.Logger().WriteLineBytes([]byte("app: bytes"))
	assert.Equal(t, "app: hello\napp: bytes\n", buf.String())
}

func TestRunHeadlessStopsAfterTicks(t *testing.T) {
	var steps int
	var got []KeyEvent
	cfg := HeadlessConfig{
		Hz:    1000,
		Ticks: 3,
		Keys:  []KeyEvent{{Code: KeyLeft, Press: true}},
		Log:   &bytes.Buffer{},
	}
	err := RunHeadless(context.Background(), func(h HAL) (func() error, func(), error) {
		kbd := h.Input().Keyboard()
		require.NotNil(t, h.Display().Framebuffer())
		return func() error {
			steps++
			for {
				select {
				case ev := <-kbd.Events():
					got = append(got, ev)
				default:
					return nil
				}
			}
		}, nil, nil
	}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, steps)
	assert.Equal(t, []KeyEvent{{Code: KeyLeft, Press: true}}, got)
}

func TestRunHeadlessStopAndErrors(t *testing.T) {
	quiet := HeadlessConfig{Hz: 1000, Log: &bytes.Buffer{}}

	err := RunHeadless(context.Background(), func(HAL) (func() error, func(), error) {
		return func() error { return ErrStop }, nil, nil
	}, quiet)
	assert.NoError(t, err)

	boom := errors.New("boom")
	err = RunHeadless(context.Background(), func(HAL) (func() error, func(), error) {
		return nil, nil, boom
	}, quiet)
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = RunHeadless(ctx, func(HAL) (func() error, func(), error) {
		return func() error { return nil }, nil, nil
	}, quiet)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunHeadlessStopsAppOnEveryExit(t *testing.T) {
	quiet := HeadlessConfig{Hz: 1000, Log: &bytes.Buffer{}}
	run := func(ctx context.Context, cfg HeadlessConfig, step func() error) (int, error) {
		stops := 0
		err := RunHeadless(ctx, func(HAL) (func() error, func(), error) {
			return step, func() { stops++ }, nil
		}, cfg)
		return stops, err
	}

	limited := quiet
	limited.Ticks = 3
	stops, err := run(context.Background(), limited, func() error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, stops)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stops, err = run(ctx, quiet, func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, stops)

	boom := errors.New("boom")
	stops, err = run(context.Background(), quiet, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, stops)

	stops, err = run(context.Background(), quiet, func() error { return ErrStop })
	require.NoError(t, err)
	assert.Equal(t, 1, stops)
}

func TestHostTimeEmitsTicks(t *testing.T) {
	ht := newHostTime()
	ht.step()
	select {
	case seq := <-ht.Ticks():
		assert.Equal(t, uint64(1), seq)
	default:
		t.Fatal("expected first tick")
	}
	time.Sleep(3 * time.Millisecond)
	ht.step()
	assert.GreaterOrEqual(t, len(ht.Ticks()), 2)
}
