package channel

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/sweeney/call-alert/internal/gpio"
)

// BlinkPeriod is how long the torch stays on, and then off, per blink.
const BlinkPeriod = 500 * time.Millisecond

// BlinkState is the lifecycle state of a blink task.
type BlinkState int32

const (
	BlinkIdle BlinkState = iota
	BlinkBlinking
	BlinkStopping
)

func (s BlinkState) String() string {
	switch s {
	case BlinkBlinking:
		return "blinking"
	case BlinkStopping:
		return "stopping"
	}
	return "idle"
}

// BlinkTask is one run of the blink loop. Cancellation is cooperative: the
// loop checks the stop flag before every torch command, so a stop takes
// effect within one period.
type BlinkTask struct {
	stop  atomic.Bool
	state atomic.Int32
	done  chan struct{}
}

// Stop asks the loop to exit and returns without waiting.
func (t *BlinkTask) Stop() {
	t.stop.Store(true)
	t.state.CompareAndSwap(int32(BlinkBlinking), int32(BlinkStopping))
}

// State returns the task's current state.
func (t *BlinkTask) State() BlinkState {
	return BlinkState(t.state.Load())
}

// Done is closed once the loop has exited.
func (t *BlinkTask) Done() <-chan struct{} {
	return t.done
}

// Torch runs at most one tracked blink task. Starting a new task signals the
// previous one to stop but does not wait for it, so for up to one period two
// loops may drive the torch at the same time.
type Torch struct {
	torch   gpio.Torch
	period  time.Duration
	sleep   func(time.Duration)
	current *BlinkTask
}

// NewTorch creates a torch channel blinking with the given period.
func NewTorch(torch gpio.Torch, period time.Duration) *Torch {
	return &Torch{torch: torch, period: period, sleep: time.Sleep}
}

// Start launches a fresh blink task, abandoning any previous one. The
// returned task is already blinking when a torch is available; otherwise it
// is idle and done.
func (c *Torch) Start() *BlinkTask {
	if c.current != nil {
		c.current.Stop()
	}
	t := &BlinkTask{done: make(chan struct{})}
	c.current = t

	id, ok := c.pick()
	if !ok {
		close(t.done)
		return t
	}
	t.state.Store(int32(BlinkBlinking))
	go c.run(t, id)
	return t
}

func (c *Torch) pick() (string, bool) {
	if !c.torch.HasFlash() {
		return "", false
	}
	ids, err := c.torch.Torches()
	if err != nil || len(ids) == 0 {
		log.Printf("torch: no torch to blink: %v", err)
		return "", false
	}
	return ids[0], true
}

// Stop signals the tracked task, if any. Safe to call when idle.
func (c *Torch) Stop() {
	if c.current != nil {
		c.current.Stop()
	}
}

// Blinking reports whether the tracked task is still blinking.
func (c *Torch) Blinking() bool {
	return c.current != nil && c.current.State() == BlinkBlinking
}

// Current returns the tracked task, or nil.
func (c *Torch) Current() *BlinkTask {
	return c.current
}

func (c *Torch) run(t *BlinkTask, id string) {
	defer close(t.done)
	defer t.state.Store(int32(BlinkIdle))

	lit := false
	defer func() {
		if lit {
			if err := c.torch.SetTorch(id, false); err != nil {
				log.Printf("torch: switch off %s: %v", id, err)
			}
		}
	}()

	for {
		if t.stop.Load() {
			return
		}
		if err := c.torch.SetTorch(id, true); err != nil {
			log.Printf("torch: blink %s: %v", id, err)
			return
		}
		lit = true
		c.sleep(c.period)

		if t.stop.Load() {
			return
		}
		if err := c.torch.SetTorch(id, false); err != nil {
			log.Printf("torch: blink %s: %v", id, err)
			return
		}
		lit = false
		c.sleep(c.period)
	}
}
