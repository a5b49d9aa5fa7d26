package domain

type PlaybackState string

const (
	StateIdle    PlaybackState = "idle"
	StateLoading PlaybackState = "loading"
	StatePlaying PlaybackState = "playing"
	StatePaused  PlaybackState = "paused"
	StateEnded   PlaybackState = "ended"
	StateErrored PlaybackState = "errored"

	// StateBuffering exists on the wire only. The engine can report
	// "waiting for data" independent of the play/pause intent, so
	// buffering is tracked as the IsBuffering flag layered over the
	// primary state rather than stored as a primary state itself.
	StateBuffering PlaybackState = "buffering"
)

const (
	VolumeMin = 0
	VolumeMax = 100

	RateMin = 0.25
	RateMax = 2.0
)

func ClampVolume(level int) int {
	if level < VolumeMin {
		return VolumeMin
	}
	if level > VolumeMax {
		return VolumeMax
	}

	return level
}

func ClampRate(rate float64) float64 {
	if rate < RateMin {
		return RateMin
	}
	if rate > RateMax {
		return RateMax
	}

	return rate
}

// ClampSeek clamps a seek target to [0, duration]. A zero duration means
// the media length is not known yet, then only the lower bound applies.
func ClampSeek(toSeconds, duration float64) float64 {
	if toSeconds < 0 {
		return 0
	}
	if duration > 0 && toSeconds > duration {
		return duration
	}

	return toSeconds
}
