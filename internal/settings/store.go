package settings

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/sweeney/call-alert/internal/audio"
	"github.com/sweeney/call-alert/internal/logic"
)

// Store holds the current settings and answers the controller's settings,
// filter, ringtone, dialer and audio-environment queries. Safe for
// concurrent use: Watch swaps the settings from its own goroutine.
type Store struct {
	path string

	mu       sync.RWMutex
	f        File
	onReload func(File)
}

// NewStore creates a store serving f. path is the file Reload and Watch read;
// it may be empty for a store that never reloads.
func NewStore(path string, f File) *Store {
	return &Store{path: path, f: f}
}

// Open loads path and returns a store over it.
func Open(path string) (*Store, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewStore(path, f), nil
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// Current returns a copy of the current settings.
func (s *Store) Current() File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.f
}

// Set replaces the current settings.
func (s *Store) Set(f File) {
	s.mu.Lock()
	s.f = f
	fn := s.onReload
	s.mu.Unlock()
	if fn != nil {
		fn(f)
	}
}

// OnReload registers fn to be called after every successful Set or Reload.
func (s *Store) OnReload(fn func(File)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReload = fn
}

// Reload re-reads the file. On error the current settings are kept.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	f, err := Load(s.path)
	if err != nil {
		return fmt.Errorf("reload %s: %w", s.path, err)
	}
	s.Set(f)
	return nil
}

// Watch reloads the settings whenever the file changes, until ctx is done.
// The parent directory is watched so editors that replace the file by rename
// are picked up.
func (s *Store) Watch(ctx context.Context) error {
	return s.watch(ctx, nil)
}

func (s *Store) watch(ctx context.Context, ready chan<- struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("settings watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(s.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	if ready != nil {
		close(ready)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != target {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := s.Reload(); err != nil {
				log.Printf("settings: %v", err)
				continue
			}
			log.Printf("settings: reloaded %s", s.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("settings: watcher: %v", err)
		}
	}
}

// PatternStyle returns the configured default vibration pattern.
func (s *Store) PatternStyle() logic.PatternStyle {
	return s.Current().VibrationPattern
}

// HasVibrator reports whether the device is configured with a motor.
func (s *Store) HasVibrator() bool {
	return s.Current().HasVibrator
}

// MatchesFilter reports whether contact may ring. With do-not-disturb off
// everyone rings; with it on only allow-listed contacts do, and an unknown
// caller never does.
func (s *Store) MatchesFilter(contact string) bool {
	dnd := s.Current().DoNotDisturb
	if !dnd.Enabled {
		return true
	}
	if contact == "" {
		return false
	}
	for _, c := range dnd.AllowedContacts {
		if c == contact {
			return true
		}
	}
	return false
}

// Resolve picks the ringtone for call: silent contacts get none, contact
// overrides win over the default, and embedded vibration data is attached
// by URI.
func (s *Store) Resolve(call *logic.Call) audio.Ringtone {
	rt := s.Current().Ringtone
	uri := rt.Default
	if call != nil && call.Contact != "" {
		if u, ok := rt.Contacts[call.Contact]; ok {
			uri = u
		}
		for _, c := range rt.Silent {
			if c == call.Contact {
				uri = ""
				break
			}
		}
	}
	if uri == "" {
		return audio.Ringtone{}
	}

	tone := audio.Ringtone{Present: true, URI: uri}
	if v, ok := rt.Vibrations[uri]; ok {
		w, err := v.Waveform(uri)
		if err != nil {
			log.Printf("settings: ringtone %s vibration: %v", uri, err)
		} else {
			tone.Vibration = &w
		}
	}
	return tone
}

func (s *Store) TheaterMode() bool {
	return s.Current().TheaterMode
}

// IncreasingRing returns the ramp, or zero values when it is disabled.
func (s *Store) IncreasingRing() (bool, float64, int) {
	ir := s.Current().IncreasingRing
	if !ir.Enabled {
		return false, 0, 0
	}
	return true, ir.StartVolume, ir.RampUpMs
}

func (s *Store) VibrateWhenRinging() bool {
	return s.Current().VibrateWhenRinging
}

func (s *Store) VibrateOnCallWaiting() bool {
	return s.Current().VibrateOnCallWaiting
}

func (s *Store) TorchMode() logic.TorchMode {
	return s.Current().TorchOnCall
}

// SupportsRinging reports whether the dialer plays its own ringing.
func (s *Store) SupportsRinging() bool {
	return s.Current().DialerHandlesRinging
}

func (s *Store) RingVolume() int {
	return s.Current().RingVolume
}

func (s *Store) RingerMode() logic.RingerMode {
	return s.Current().RingerMode
}
