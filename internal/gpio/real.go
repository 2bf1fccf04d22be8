//go:build linux

package gpio

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sweeney/call-alert/internal/logic"
	"github.com/warthog618/go-gpiocdev"
)

// RealVibrator drives a vibration motor wired to a single GPIO output.
// The line is binary: any non-zero amplitude switches the motor on.
type RealVibrator struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewRealVibrator requests pin as an output, initially low.
func NewRealVibrator(pin int) (*RealVibrator, error) {
	chip, err := gpiocdev.NewChip(Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request vibrator pin %d: %w", pin, err)
	}

	return &RealVibrator{chip: chip, line: line}, nil
}

// HasVibrator reports whether the motor line was acquired.
func (v *RealVibrator) HasVibrator() bool {
	return v.line != nil
}

// Vibrate starts playing w on a background goroutine, replacing any
// waveform already playing.
func (v *RealVibrator) Vibrate(w logic.Waveform) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("vibrate: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.cancelLocked()
	v.stop = make(chan struct{})
	v.done = make(chan struct{})
	go v.play(w, v.stop, v.done)
	return nil
}

func (v *RealVibrator) play(w logic.Waveform, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer func() {
		if err := v.line.SetValue(0); err != nil {
			log.Printf("gpio: vibrator off: %v", err)
		}
	}()

	for n := 0; ; n++ {
		step, ok := w.StepAt(n)
		if !ok {
			return
		}
		if step.Millis == 0 {
			continue
		}

		value := 0
		if step.Amplitude > 0 {
			value = 1
		}
		if err := v.line.SetValue(value); err != nil {
			log.Printf("gpio: vibrator step %d: %v", n, err)
			return
		}

		select {
		case <-stop:
			return
		case <-time.After(time.Duration(step.Millis) * time.Millisecond):
		}
	}
}

// Cancel stops the playing waveform and waits for the motor to switch off.
func (v *RealVibrator) Cancel() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cancelLocked()
	return nil
}

func (v *RealVibrator) cancelLocked() {
	if v.stop == nil {
		return
	}
	close(v.stop)
	<-v.done
	v.stop = nil
	v.done = nil
}

// Close stops the motor and releases the line.
// Reconfigures the pin to input with pull-down (matching Pi boot defaults)
// before closing.
func (v *RealVibrator) Close() error {
	v.Cancel()

	var errs []error
	if v.line != nil {
		if err := v.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure vibrator pin: %w", err))
		}
		if err := v.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close vibrator pin: %w", err))
		}
	}
	if v.chip != nil {
		if err := v.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealTorch drives flash LEDs wired to GPIO outputs, one line per torch.
type RealTorch struct {
	chip  *gpiocdev.Chip
	ids   []string
	lines map[string]*gpiocdev.Line
}

// NewRealTorch requests each pin as an output, initially low. Torch ids are
// torch0, torch1, ... in pin order. An empty pin list yields a torch with no
// flash capability.
func NewRealTorch(pins []int) (*RealTorch, error) {
	t := &RealTorch{lines: make(map[string]*gpiocdev.Line)}
	if len(pins) == 0 {
		return t, nil
	}

	chip, err := gpiocdev.NewChip(Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	t.chip = chip

	for i, pin := range pins {
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			t.Close()
			return nil, fmt.Errorf("request torch pin %d: %w", pin, err)
		}
		id := torchID(i)
		t.ids = append(t.ids, id)
		t.lines[id] = line
	}
	return t, nil
}

func torchID(i int) string {
	return fmt.Sprintf("torch%d", i)
}

// HasFlash reports whether any torch line was acquired.
func (t *RealTorch) HasFlash() bool {
	return len(t.ids) > 0
}

// Torches lists the torch ids in pin order.
func (t *RealTorch) Torches() ([]string, error) {
	if len(t.ids) == 0 {
		return nil, errors.New("no torch available")
	}
	return append([]string(nil), t.ids...), nil
}

// SetTorch switches the torch with the given id.
func (t *RealTorch) SetTorch(id string, on bool) error {
	line, ok := t.lines[id]
	if !ok {
		return fmt.Errorf("unknown torch %q", id)
	}
	value := 0
	if on {
		value = 1
	}
	if err := line.SetValue(value); err != nil {
		return fmt.Errorf("set torch %s: %w", id, err)
	}
	return nil
}

// Close switches every torch off and releases the lines.
func (t *RealTorch) Close() error {
	var errs []error
	for _, id := range t.ids {
		line := t.lines[id]
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s: %w", id, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", id, err))
		}
	}
	if t.chip != nil {
		if err := t.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
