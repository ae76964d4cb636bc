//go:build !cgo

package hal

import "errors"

// ErrStop ends a runner without reporting an error.
var ErrStop = errors.New("hal: stop")

func RunWindow(_ AppFunc) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
