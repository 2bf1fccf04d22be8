package logic

// Evaluate decides which alert channels a call should activate.
// It never fails: a nil call yields a zero Decision, which alerts nothing.
func Evaluate(call *Call, env Env) Decision {
	if call == nil {
		return Decision{}
	}

	r := Reasons{
		VolumeOverZero:       env.RingVolume > 0,
		ShouldRingForContact: env.ShouldRingForContact,
		RingtonePresent:      env.RingtonePresent,
		SelfManaged:          call.SelfManaged,
		ExternalRinger:       call.HasExternalRinger(),
		TheaterMode:          env.TheaterMode,
		DialerHandlesRinging: env.DialerHandlesRinging,
		AlreadyVibrating:     env.AlreadyVibrating,
		TorchMode:            env.TorchMode,
	}

	d := Decision{Reasons: r}
	d.RingerAudible = r.VolumeOverZero && r.ShouldRingForContact && r.RingtonePresent
	d.AcquireAudioFocus = d.RingerAudible ||
		(env.HFPAttached && r.ShouldRingForContact) ||
		r.SelfManaged

	d.EndEarly = r.TheaterMode || r.DialerHandlesRinging || r.SelfManaged || r.ExternalRinger
	if d.EndEarly {
		return d
	}

	d.RingAudibly = d.RingerAudible
	if d.RingAudibly && env.IncreasingRing {
		d.Ramp = VolumeRamp{StartVolume: env.RampStartVolume, RampMillis: env.RampMillis}
	}

	d.Reasons.VibrateGlobally = ShouldVibrate(env.RingerMode, env.HasVibrator && env.VibrateWhenRinging)
	d.Vibrate = d.Reasons.VibrateGlobally && !env.AlreadyVibrating && r.ShouldRingForContact
	d.Flash = ShouldFlash(env.TorchMode, d.RingerAudible)
	d.Effect = vibrationEffect(d.RingAudibly, env)

	return d
}

// ShouldVibrate applies the device-wide vibration rule: with the
// vibrate-when-ringing preference anything but silent vibrates, without it
// only vibrate mode does.
func ShouldVibrate(mode RingerMode, vibrateWhenRinging bool) bool {
	if vibrateWhenRinging {
		return mode != RingerSilent
	}
	return mode == RingerVibrate
}

// ShouldFlash applies the torch-on-call setting.
func ShouldFlash(mode TorchMode, ringerAudible bool) bool {
	switch mode {
	case TorchRing:
		return ringerAudible
	case TorchSilent:
		return !ringerAudible
	case TorchAlways:
		return true
	}
	return false
}

func vibrationEffect(audible bool, env Env) Waveform {
	if audible && env.RingtoneVibration != nil && !env.RingtoneVibration.IsZero() {
		return *env.RingtoneVibration
	}
	return env.DefaultVibration
}
