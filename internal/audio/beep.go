package audio

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/sweeney/call-alert/internal/logic"
)

// Cadence is one on/off segment of a tone.
type Cadence struct {
	FreqHz float64
	OnMs   int
	OffMs  int
}

// Ring cadence: two short rings followed by a pause.
var ringCadence = []Cadence{
	{FreqHz: 480, OnMs: 400, OffMs: 200},
	{FreqHz: 480, OnMs: 400, OffMs: 2000},
}

// Call-waiting tone: one short pip, then a long gap.
var callWaitingCadence = []Cadence{
	{FreqHz: 440, OnMs: 300, OffMs: 9700},
}

// beeper plays a cadence in a loop until stopped.
type beeper struct {
	beep func(freq float64, ms int) error

	mu   sync.Mutex
	stop chan struct{}
}

func (b *beeper) start(name string, cadence []Cadence) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stop != nil {
		close(b.stop)
	}
	stop := make(chan struct{})
	b.stop = stop
	go b.loop(name, cadence, stop)
}

func (b *beeper) loop(name string, cadence []Cadence, stop <-chan struct{}) {
	for {
		for _, c := range cadence {
			select {
			case <-stop:
				return
			default:
			}
			if err := b.beep(c.FreqHz, c.OnMs); err != nil {
				log.Printf("audio: %s beep: %v", name, err)
				return
			}
			select {
			case <-stop:
				return
			case <-time.After(time.Duration(c.OffMs) * time.Millisecond):
			}
		}
	}
}

func (b *beeper) halt() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stop != nil {
		close(b.stop)
		b.stop = nil
	}
}

// BeepRingtonePlayer rings through the system beeper and raises a desktop
// notification naming the caller. The beeper has no volume control, so the
// ramp is only logged.
type BeepRingtonePlayer struct {
	notify func(title, message string) error
	b      beeper
}

// NewBeepRingtonePlayer creates a ringtone player backed by beeep.
func NewBeepRingtonePlayer() *BeepRingtonePlayer {
	return &BeepRingtonePlayer{
		notify: func(title, message string) error { return beeep.Notify(title, message, "") },
		b:      beeper{beep: beeep.Beep},
	}
}

// Play starts ringing for call.
func (p *BeepRingtonePlayer) Play(call *logic.Call, tone Ringtone, ramp logic.VolumeRamp) error {
	if call == nil {
		return fmt.Errorf("play: no call")
	}
	caller := call.Contact
	if caller == "" {
		caller = "Unknown caller"
	}
	if err := p.notify("Incoming call", caller); err != nil {
		log.Printf("audio: notify: %v", err)
	}
	log.Printf("audio: ringing %s tone=%s start_volume=%.2f ramp=%dms", call.ID, tone.URI, ramp.StartVolume, ramp.RampMillis)
	p.b.start("ringtone", ringCadence)
	return nil
}

// Stop stops ringing. The current beep, if any, finishes first.
func (p *BeepRingtonePlayer) Stop() {
	p.b.halt()
}

// BeepTonePlayer plays an in-call tone through the system beeper.
type BeepTonePlayer struct {
	kind ToneKind
	b    beeper
}

// StartTone starts the tone loop.
func (p *BeepTonePlayer) StartTone() error {
	switch p.kind {
	case ToneCallWaiting:
		p.b.start(string(p.kind), callWaitingCadence)
		return nil
	}
	return fmt.Errorf("unknown tone %q", p.kind)
}

// StopTone stops the tone loop.
func (p *BeepTonePlayer) StopTone() {
	p.b.halt()
}

// BeepToneFactory creates beeper-backed tone players.
type BeepToneFactory struct{}

// CreatePlayer returns a new tone player for kind.
func (BeepToneFactory) CreatePlayer(kind ToneKind) TonePlayer {
	return &BeepTonePlayer{kind: kind, b: beeper{beep: beeep.Beep}}
}
