// Package gpio provides the vibration motor and torch LED actuators with
// hardware abstraction. The real implementation uses the Linux GPIO
// character device. The fake implementation allows testing without hardware.
package gpio

import (
	"errors"

	"github.com/sweeney/call-alert/internal/logic"
)

// Vibrator drives the vibration motor.
type Vibrator interface {
	// HasVibrator reports whether a motor is present.
	HasVibrator() bool

	// Vibrate starts playing the waveform and returns immediately.
	// Any waveform already playing is replaced.
	Vibrate(w logic.Waveform) error

	// Cancel stops any playing waveform. Safe to call when idle.
	Cancel() error

	// Close releases GPIO resources.
	Close() error
}

// Torch drives one or more flash LEDs.
type Torch interface {
	// HasFlash reports whether any flash LED is present.
	HasFlash() bool

	// Torches lists the available torch ids.
	Torches() ([]string, error)

	// SetTorch switches a torch on or off.
	SetTorch(id string, on bool) error

	// Close releases GPIO resources.
	Close() error
}

// Default pin definitions (BCM numbering)
const (
	DefaultPinVibrator = 17
	DefaultPinTorch    = 27
)

// Chip is the GPIO character device the actuators live on.
const Chip = "gpiochip0"

// ErrAbsent is returned when driving hardware that is not fitted.
var ErrAbsent = errors.New("gpio: hardware not fitted")

// Absent stands in for a device without a vibration motor or flash LED.
type Absent struct{}

func (Absent) HasVibrator() bool                 { return false }
func (Absent) Vibrate(w logic.Waveform) error    { return ErrAbsent }
func (Absent) Cancel() error                     { return nil }
func (Absent) HasFlash() bool                    { return false }
func (Absent) Torches() ([]string, error)        { return nil, ErrAbsent }
func (Absent) SetTorch(id string, on bool) error { return ErrAbsent }
func (Absent) Close() error                      { return nil }
