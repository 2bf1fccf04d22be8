// Package channel implements the three alert channels: haptic vibration,
// audible ring and the visual torch blink. Haptic and audible channels are
// synchronous and must be driven from a single goroutine; the torch channel
// owns a background blink loop.
package channel

import (
	"fmt"
	"log"

	"github.com/sweeney/call-alert/internal/gpio"
	"github.com/sweeney/call-alert/internal/logic"
)

// Haptic owns the vibration motor. At most one looping vibration is active
// across all calls; a second Start while vibrating is refused.
type Haptic struct {
	vib       gpio.Vibrator
	vibrating bool
	call      *logic.Call
}

// NewHaptic creates a haptic channel over vib.
func NewHaptic(vib gpio.Vibrator) *Haptic {
	return &Haptic{vib: vib}
}

// HasVibrator reports whether the device has a motor.
func (h *Haptic) HasVibrator() bool {
	return h.vib.HasVibrator()
}

// Vibrating reports whether a vibration is active.
func (h *Haptic) Vibrating() bool {
	return h.vibrating
}

// Call returns the call the active vibration belongs to, or nil.
func (h *Haptic) Call() *logic.Call {
	return h.call
}

// Start vibrates with w on behalf of call. Returns false without touching the
// hardware if a vibration is already active. A hardware error leaves the
// channel idle.
func (h *Haptic) Start(call *logic.Call, w logic.Waveform) (bool, error) {
	if h.vibrating {
		return false, nil
	}
	if err := h.vib.Vibrate(w); err != nil {
		return false, fmt.Errorf("start vibration: %w", err)
	}
	h.vibrating = true
	h.call = call
	return true, nil
}

// Stop cancels any vibration and clears the channel. Safe to call when idle.
func (h *Haptic) Stop() {
	if err := h.vib.Cancel(); err != nil {
		log.Printf("haptic: cancel: %v", err)
	}
	h.vibrating = false
	h.call = nil
}

// Burst plays a one-shot waveform without claiming the channel. Does nothing
// on a device without a motor.
func (h *Haptic) Burst(w logic.Waveform) (bool, error) {
	if !h.vib.HasVibrator() {
		return false, nil
	}
	if err := h.vib.Vibrate(w); err != nil {
		return false, fmt.Errorf("vibration burst: %w", err)
	}
	return true, nil
}
