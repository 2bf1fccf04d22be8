// Package settings loads the device settings file and serves it to the
// alert controller. Files are TOML or YAML, chosen by extension.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/sweeney/call-alert/internal/logic"
)

// Default increasing-ring ramp, used when the ramp is enabled without values.
const (
	DefaultRampStartVolume = 0.1
	DefaultRampMillis      = 20000
)

// IncreasingRing configures the ringtone volume ramp.
type IncreasingRing struct {
	Enabled     bool    `toml:"enabled" yaml:"enabled"`
	StartVolume float64 `toml:"start_volume" yaml:"start_volume"`
	RampUpMs    int     `toml:"ramp_up_ms" yaml:"ramp_up_ms"`
}

// DoNotDisturb is the notification filter. When enabled only allow-listed
// contacts ring.
type DoNotDisturb struct {
	Enabled         bool     `toml:"enabled" yaml:"enabled"`
	AllowedContacts []string `toml:"allowed_contacts" yaml:"allowed_contacts"`
}

// Vibration is the vibration data embedded in a ringtone.
type Vibration struct {
	Timings    []int `toml:"timings" yaml:"timings"`
	Amplitudes []int `toml:"amplitudes" yaml:"amplitudes"`
	// Repeat is the loop index; absent means play once.
	Repeat *int `toml:"repeat" yaml:"repeat"`
}

// Ringtones maps contacts to ringtone URIs.
type Ringtones struct {
	// Default is the ringtone URI for everyone else. Empty means no ringtone.
	Default string `toml:"default" yaml:"default"`
	// Silent lists contacts that never get a ringtone.
	Silent []string `toml:"silent" yaml:"silent"`
	// Contacts overrides the ringtone per contact.
	Contacts map[string]string `toml:"contacts" yaml:"contacts"`
	// Vibrations holds embedded vibration data keyed by ringtone URI.
	Vibrations map[string]Vibration `toml:"vibrations" yaml:"vibrations"`
}

// File is the on-disk settings document.
type File struct {
	TheaterMode          bool               `toml:"theater_mode" yaml:"theater_mode"`
	DialerHandlesRinging bool               `toml:"dialer_handles_ringing" yaml:"dialer_handles_ringing"`
	RingVolume           int                `toml:"ring_volume" yaml:"ring_volume"`
	RingerMode           logic.RingerMode   `toml:"ringer_mode" yaml:"ringer_mode"`
	HasVibrator          bool               `toml:"has_vibrator" yaml:"has_vibrator"`
	VibrateWhenRinging   bool               `toml:"vibrate_when_ringing" yaml:"vibrate_when_ringing"`
	VibrateOnCallWaiting bool               `toml:"vibrate_on_call_waiting" yaml:"vibrate_on_call_waiting"`
	TorchOnCall          logic.TorchMode    `toml:"torch_on_call" yaml:"torch_on_call"`
	VibrationPattern     logic.PatternStyle `toml:"vibration_pattern" yaml:"vibration_pattern"`
	IncreasingRing       IncreasingRing     `toml:"increasing_ring" yaml:"increasing_ring"`
	DoNotDisturb         DoNotDisturb       `toml:"do_not_disturb" yaml:"do_not_disturb"`
	Ringtone             Ringtones          `toml:"ringtone" yaml:"ringtone"`
}

// Default returns the settings used when no file exists. Keys missing from a
// file keep these values.
func Default() File {
	return File{
		RingVolume:         5,
		RingerMode:         logic.RingerNormal,
		HasVibrator:        true,
		VibrateWhenRinging: true,
		TorchOnCall:        logic.TorchOff,
		VibrationPattern:   logic.PatternPulse,
		IncreasingRing: IncreasingRing{
			StartVolume: DefaultRampStartVolume,
			RampUpMs:    DefaultRampMillis,
		},
		Ringtone: Ringtones{Default: "builtin:ring"},
	}
}

// Load reads and validates the settings file at path. A missing file yields
// the defaults.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return File{}, fmt.Errorf("read settings: %w", err)
	}
	return Decode(data, filepath.Ext(path))
}

// Decode parses data in the format named by ext (".toml", ".yaml" or ".yml")
// over the defaults and validates the result.
func Decode(data []byte, ext string) (File, error) {
	f := Default()
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
			return File{}, fmt.Errorf("parse toml settings: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return File{}, fmt.Errorf("parse yaml settings: %w", err)
		}
	default:
		return File{}, fmt.Errorf("unsupported settings format %q", ext)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate checks enumerations, ranges and embedded vibration data.
func (f File) Validate() error {
	var errs []error
	if f.RingVolume < 0 {
		errs = append(errs, fmt.Errorf("ring_volume %d is negative", f.RingVolume))
	}
	switch f.RingerMode {
	case logic.RingerNormal, logic.RingerVibrate, logic.RingerSilent:
	default:
		errs = append(errs, fmt.Errorf("unknown ringer_mode %q", f.RingerMode))
	}
	switch f.TorchOnCall {
	case logic.TorchOff, logic.TorchRing, logic.TorchSilent, logic.TorchAlways:
	default:
		errs = append(errs, fmt.Errorf("unknown torch_on_call %q", f.TorchOnCall))
	}
	switch f.VibrationPattern {
	case logic.PatternPulse, logic.PatternSimple:
	default:
		errs = append(errs, fmt.Errorf("unknown vibration_pattern %q", f.VibrationPattern))
	}
	if v := f.IncreasingRing.StartVolume; v < 0 || v > 1 {
		errs = append(errs, fmt.Errorf("increasing_ring.start_volume %v out of range [0,1]", v))
	}
	if f.IncreasingRing.RampUpMs < 0 {
		errs = append(errs, fmt.Errorf("increasing_ring.ramp_up_ms %d is negative", f.IncreasingRing.RampUpMs))
	}
	for uri, v := range f.Ringtone.Vibrations {
		if _, err := v.Waveform(uri); err != nil {
			errs = append(errs, fmt.Errorf("ringtone.vibrations %q: %w", uri, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid settings: %w", errors.Join(errs...))
	}
	return nil
}

// Waveform converts the vibration data into a waveform named name.
func (v Vibration) Waveform(name string) (logic.Waveform, error) {
	repeat := logic.NoRepeat
	if v.Repeat != nil {
		repeat = *v.Repeat
	}
	return logic.NewWaveform(name, v.Timings, v.Amplitudes, repeat)
}
