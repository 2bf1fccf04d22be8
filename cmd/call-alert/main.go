// Command call-alert drives the vibration motor, torch and ringer for
// incoming calls announced over MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sweeney/call-alert/internal/audio"
	"github.com/sweeney/call-alert/internal/channel"
	"github.com/sweeney/call-alert/internal/gpio"
	"github.com/sweeney/call-alert/internal/logic"
	"github.com/sweeney/call-alert/internal/mqtt"
	"github.com/sweeney/call-alert/internal/ringer"
	"github.com/sweeney/call-alert/internal/settings"
	"github.com/sweeney/call-alert/internal/status"
	"github.com/sweeney/call-alert/internal/web"
)

type options struct {
	settingsPath  string
	broker        string
	clientID      string
	httpAddr      string
	vibratorPin   int
	torchPins     []int
	heartbeat     time.Duration
	printDecision bool
	contact       string
}

func main() {
	settingsPath := flag.String("settings", "/etc/call-alert/settings.toml", "Settings file (.toml or .yaml)")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	clientID := flag.String("client-id", "call-alert", "MQTT client id")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	vibratorPin := flag.Int("vibrator-pin", gpio.DefaultPinVibrator, "BCM pin number for the vibration motor")
	torchPins := flag.String("torch-pins", strconv.Itoa(gpio.DefaultPinTorch), "Comma-separated BCM pin numbers for torch LEDs (empty for none)")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	printDecision := flag.Bool("print-decision", false, "Print the alert decision for a call from the contact given as argument and exit")

	flag.Parse()

	pins, err := parsePins(*torchPins)
	if err != nil {
		log.Fatalf("fatal: -torch-pins: %v", err)
	}

	opts := options{
		settingsPath:  *settingsPath,
		broker:        *broker,
		clientID:      *clientID,
		httpAddr:      *httpAddr,
		vibratorPin:   *vibratorPin,
		torchPins:     pins,
		heartbeat:     *heartbeat,
		printDecision: *printDecision,
		contact:       flag.Arg(0),
	}
	if err := run(opts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(opts options) error {
	store, err := settings.Open(opts.settingsPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize hardware; has_vibrator is only read here.
	fitted := store.HasVibrator()
	store.OnReload(func(f settings.File) {
		if note := restartNote(fitted, f); note != "" {
			log.Printf("settings: %s", note)
		}
	})
	vib := openVibrator(opts.vibratorPin, fitted)
	defer vib.Close()
	torch := openTorch(opts.torchPins)
	defer torch.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		HeartbeatMs:  opts.heartbeat.Milliseconds(),
		Broker:       opts.broker,
		HTTPPort:     opts.httpAddr,
		SettingsPath: opts.settingsPath,
		VibratorPin:  opts.vibratorPin,
		TorchPins:    opts.torchPins,
	})

	// Print decision mode
	if opts.printDecision {
		ctrl := newController(store, vib, torch, nil)
		call := &logic.Call{ID: "print-decision", Contact: opts.contact}
		d, tone := ctrl.Evaluate(call, false)
		fmt.Println(formatDecision(d, tone))
		return nil
	}

	go func() {
		if err := store.Watch(ctx); err != nil {
			log.Printf("settings watch: %v", err)
		}
	}()

	// Initialize MQTT; commands are handed to runLoop, the only goroutine
	// that touches the controller.
	commands := make(chan mqtt.Command, 64)
	publisher, err := mqtt.NewRealPublisher(mqtt.Config{
		Broker:   opts.broker,
		ClientID: opts.clientID,
		OnCommand: func(c mqtt.Command) {
			select {
			case commands <- c:
			default:
				log.Printf("command queue full, dropping %s", c.Type)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	ctrl := newController(store, vib, torch, eventSink(tracker, publisher))
	tracker.SetMQTTConnected(publisher.IsConnected())
	tracker.SetSession(sessionOf(ctrl.Snapshot()))

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", opts.httpAddr)
	}

	log.Printf("started: broker=%s settings=%s pattern=%s vibrator=%v torch_pins=%v heartbeat=%v",
		opts.broker, opts.settingsPath, store.PatternStyle(), vib.HasVibrator(), opts.torchPins, opts.heartbeat)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(ctrl, commands, publisher, publisher, tracker, opts.heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(ctrl *ringer.Controller, commands <-chan mqtt.Command, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	hb := logic.NewHeartbeat(now())

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}

			// Leave nothing ringing, buzzing or lit.
			ctrl.StopRinging()
			ctrl.StopCallWaiting()
			tracker.SetSession(sessionOf(ctrl.Snapshot()))
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			snap := tracker.Snapshot()
			event := mqtt.SystemEvent{
				Timestamp:  now(),
				Event:      "SHUTDOWN",
				Reason:     signalName,
				Retained:   true,
				RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case cmd := <-commands:
			dispatch(ctrl, cmd)
			tracker.SetSession(sessionOf(ctrl.Snapshot()))

		case <-tick:
			t := now()
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
			// The torch loop can exit on its own after a hardware error.
			tracker.SetSession(sessionOf(ctrl.Snapshot()))

			snap := tracker.Snapshot()
			if hbData := hb.Check(t, heartbeat, snap.Counts); hbData != nil {
				log.Printf("heartbeat: uptime=%v rings=%d vibrations=%d call_waiting=%d flashes=%d",
					hbData.Uptime, hbData.Counts.Rings, hbData.Counts.Vibrations, hbData.Counts.CallWaiting, hbData.Counts.Flashes)

				hbEvent := mqtt.SystemEvent{
					Timestamp:  hbData.Timestamp,
					Event:      "HEARTBEAT",
					RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

// newController wires the settings store and hardware into a ringer
// controller. events may be nil.
func newController(store *settings.Store, vib gpio.Vibrator, torch gpio.Torch, events ringer.EventSink) *ringer.Controller {
	return ringer.New(ringer.Deps{
		Filter:    store,
		Ringtones: store,
		Settings:  store,
		Dialer:    store,
		Audio:     store,
		Haptic:    channel.NewHaptic(vib),
		Audible:   channel.NewAudible(audio.NewBeepRingtonePlayer(), audio.BeepToneFactory{}),
		Torch:     channel.NewTorch(torch, channel.BlinkPeriod),
		Patterns:  logic.NewLibrary(store.PatternStyle()),
		Events:    events,
	})
}

// eventSink counts every alert event and forwards it to MQTT.
func eventSink(tracker *status.Tracker, publisher mqtt.Publisher) ringer.EventSink {
	return ringer.EventSinkFunc(func(e logic.Event) {
		tracker.RecordEvent(e)
		if err := publisher.Publish(e); err != nil {
			log.Printf("publish error: %v", err)
		}
	})
}

func dispatch(ctrl *ringer.Controller, cmd mqtt.Command) {
	switch cmd.Type {
	case mqtt.CmdStartRinging:
		focus := ctrl.StartRinging(cmd.Call, cmd.HFPAttached)
		log.Printf("command: start_ringing call=%s hfp=%v focus=%v", callID(cmd.Call), cmd.HFPAttached, focus)
	case mqtt.CmdStartCallWaiting:
		log.Printf("command: start_call_waiting call=%s", callID(cmd.Call))
		ctrl.StartCallWaiting(cmd.Call)
	case mqtt.CmdStopRinging:
		log.Printf("command: stop_ringing")
		ctrl.StopRinging()
	case mqtt.CmdStopCallWaiting:
		log.Printf("command: stop_call_waiting")
		ctrl.StopCallWaiting()
	default:
		log.Printf("command: ignoring %q", cmd.Type)
	}
}

func sessionOf(s ringer.Snapshot) status.Session {
	return status.Session{
		RingingCall:     s.RingingCall,
		VibratingCall:   s.VibratingCall,
		CallWaitingCall: s.CallWaitingCall,
		Vibrating:       s.Vibrating,
		Flashing:        s.Flashing,
		CallWaitingTone: s.CallWaitingTone,
		PatternStyle:    string(s.PatternStyle),
	}
}

func callID(call *logic.Call) string {
	if call == nil {
		return "<none>"
	}
	return call.ID
}

func formatDecision(d logic.Decision, tone audio.Ringtone) string {
	ringtone := tone.URI
	if !tone.Present {
		ringtone = "none"
	}
	return fmt.Sprintf("focus=%v end_early=%v ring=%v vibrate=%v flash=%v effect=%s ringtone=%s ramp=%.2f/%dms",
		d.AcquireAudioFocus, d.EndEarly, d.RingAudibly, d.Vibrate, d.Flash, d.Effect.Name, ringtone,
		d.Ramp.StartVolume, d.Ramp.RampMillis)
}

// openVibrator falls back to an absent motor when none is configured or the
// GPIO line cannot be requested.
func openVibrator(pin int, fitted bool) gpio.Vibrator {
	if !fitted {
		return gpio.Absent{}
	}
	v, err := gpio.NewRealVibrator(pin)
	if err != nil {
		log.Printf("vibrator unavailable: %v", err)
		return gpio.Absent{}
	}
	return v
}

func openTorch(pins []int) gpio.Torch {
	if len(pins) == 0 {
		return gpio.Absent{}
	}
	t, err := gpio.NewRealTorch(pins)
	if err != nil {
		log.Printf("torch unavailable: %v", err)
		return gpio.Absent{}
	}
	return t
}

// parsePins parses a comma-separated list of BCM pin numbers.
// restartNote describes reloaded settings that only apply at startup, or
// returns "" when nothing needs a restart.
func restartNote(fitted bool, f settings.File) string {
	if f.HasVibrator == fitted {
		return ""
	}
	return fmt.Sprintf("has_vibrator=%v takes effect on restart (running with %v)", f.HasVibrator, fitted)
}

func parsePins(s string) ([]int, error) {
	var pins []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid pin %q", f)
		}
		if n < 0 {
			return nil, fmt.Errorf("negative pin %d", n)
		}
		pins = append(pins, n)
	}
	return pins, nil
}
