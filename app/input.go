package app

import "spritekit/hal"

// keyState tracks which keys are held down.
type keyState [hal.KeyF1 + 1]bool

func (k *keyState) set(code hal.KeyCode, down bool) {
	if int(code) < len(k) {
		k[code] = down
	}
}

func (k *keyState) held(code hal.KeyCode) bool {
	return int(code) < len(k) && k[code]
}

// axis returns -1, 0 or 1 from a pair of opposing keys.
func (k *keyState) axis(neg, pos hal.KeyCode) float32 {
	var v float32
	if k.held(neg) {
		v--
	}
	if k.held(pos) {
		v++
	}
	return v
}
