//go:build !linux

package gpio

import (
	"errors"

	"github.com/sweeney/call-alert/internal/logic"
)

// RealVibrator is not available on non-Linux platforms.
type RealVibrator struct{}

// NewRealVibrator returns an error on non-Linux platforms.
func NewRealVibrator(pin int) (*RealVibrator, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// HasVibrator always reports false on non-Linux platforms.
func (v *RealVibrator) HasVibrator() bool { return false }

// Vibrate is not implemented on non-Linux platforms.
func (v *RealVibrator) Vibrate(w logic.Waveform) error {
	return errors.New("gpio: not supported")
}

// Cancel is a no-op on non-Linux platforms.
func (v *RealVibrator) Cancel() error { return nil }

// Close is a no-op on non-Linux platforms.
func (v *RealVibrator) Close() error { return nil }

// RealTorch is not available on non-Linux platforms.
type RealTorch struct{}

// NewRealTorch returns an error on non-Linux platforms.
func NewRealTorch(pins []int) (*RealTorch, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// HasFlash always reports false on non-Linux platforms.
func (t *RealTorch) HasFlash() bool { return false }

// Torches is not implemented on non-Linux platforms.
func (t *RealTorch) Torches() ([]string, error) {
	return nil, errors.New("gpio: not supported")
}

// SetTorch is not implemented on non-Linux platforms.
func (t *RealTorch) SetTorch(id string, on bool) error {
	return errors.New("gpio: not supported")
}

// Close is a no-op on non-Linux platforms.
func (t *RealTorch) Close() error { return nil }
