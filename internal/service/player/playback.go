package player

import (
	"context"

	"github.com/JoeSaf/sencloud-gui/internal/domain"
)

// playingIntentLocked is the play intent as the engine currently reports
// it, overridden by any command issued since the last engine event. Reading
// ground truth here is what keeps rapid repeated commands from
// double-transitioning.
func (p *player) playingIntentLocked(ctx context.Context) bool {
	if p.pendingIntent != nil {
		return *p.pendingIntent
	}

	return !p.engine.Paused(ctx)
}

func (s *service) requestPlayLocked(ctx context.Context, p *player) error {
	if p.playingIntentLocked(ctx) {
		return nil
	}

	playing := true
	p.pendingIntent = &playing

	return p.engine.Play(ctx)
}

func (s *service) requestPauseLocked(ctx context.Context, p *player) error {
	if !p.playingIntentLocked(ctx) {
		return nil
	}

	playing := false
	p.pendingIntent = &playing

	return p.engine.Pause(ctx)
}

type PlayParams struct {
	PlayerID string
}

func (s *service) Play(ctx context.Context, params *PlayParams) (*Snapshot, error) {
	return s.command(ctx, params.PlayerID, func(ctx context.Context, p *player) error {
		return s.requestPlayLocked(ctx, p)
	})
}

type PauseParams struct {
	PlayerID string
}

func (s *service) Pause(ctx context.Context, params *PauseParams) (*Snapshot, error) {
	return s.command(ctx, params.PlayerID, func(ctx context.Context, p *player) error {
		return s.requestPauseLocked(ctx, p)
	})
}

type TogglePlayPauseParams struct {
	PlayerID string
}

func (s *service) TogglePlayPause(ctx context.Context, params *TogglePlayPauseParams) (*Snapshot, error) {
	return s.command(ctx, params.PlayerID, func(ctx context.Context, p *player) error {
		if p.playingIntentLocked(ctx) {
			return s.requestPauseLocked(ctx, p)
		}

		return s.requestPlayLocked(ctx, p)
	})
}

type SeekParams struct {
	PlayerID  string
	ToSeconds float64
}

func (s *service) Seek(ctx context.Context, params *SeekParams) (*Snapshot, error) {
	return s.command(ctx, params.PlayerID, func(ctx context.Context, p *player) error {
		target := domain.ClampSeek(params.ToSeconds, p.duration)
		return p.engine.SetCurrentTime(ctx, target)
	})
}

type SkipParams struct {
	PlayerID     string
	DeltaSeconds float64
}

func (s *service) Skip(ctx context.Context, params *SkipParams) (*Snapshot, error) {
	return s.command(ctx, params.PlayerID, func(ctx context.Context, p *player) error {
		target := domain.ClampSeek(p.engine.CurrentTime(ctx)+params.DeltaSeconds, p.duration)
		return p.engine.SetCurrentTime(ctx, target)
	})
}

type SetVolumeParams struct {
	PlayerID string
	Level    int
}

func (s *service) SetVolume(ctx context.Context, params *SetVolumeParams) (*Snapshot, error) {
	return s.command(ctx, params.PlayerID, func(ctx context.Context, p *player) error {
		p.volume = domain.ClampVolume(params.Level)
		return p.engine.SetVolume(ctx, p.volume)
	})
}

type ToggleMuteParams struct {
	PlayerID string
}

func (s *service) ToggleMute(ctx context.Context, params *ToggleMuteParams) (*Snapshot, error) {
	return s.command(ctx, params.PlayerID, func(ctx context.Context, p *player) error {
		p.muted = !p.muted
		return p.engine.SetMuted(ctx, p.muted)
	})
}

type SetPlaybackRateParams struct {
	PlayerID string
	Rate     float64
}

func (s *service) SetPlaybackRate(ctx context.Context, params *SetPlaybackRateParams) (*Snapshot, error) {
	return s.command(ctx, params.PlayerID, func(ctx context.Context, p *player) error {
		p.rate = domain.ClampRate(params.Rate)
		return p.engine.SetPlaybackRate(ctx, p.rate)
	})
}

// command runs one advisory playback command. Commands count as control
// interaction, so they also feed the visibility timer.
func (s *service) command(ctx context.Context, playerID string, fn func(ctx context.Context, p *player) error) (*Snapshot, error) {
	p, err := s.getPlayer(playerID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sess == nil {
		return nil, ErrNoSession
	}

	if err := fn(ctx, p); err != nil {
		return nil, err
	}

	s.touchControlsLocked(ctx, p)

	return p.snapshotLocked(), nil
}

type EngineEventParams struct {
	PlayerID    string
	SessionID   string
	Type        string
	CurrentTime float64
	Duration    float64
}

// HandleEngineEvent applies one normalized engine event. Authoritative
// state transitions happen here and nowhere else. Events tagged with a
// session other than the live one are dropped, which is what tears the
// event subscription down atomically on close/replace.
func (s *service) HandleEngineEvent(ctx context.Context, params *EngineEventParams) (*Snapshot, error) {
	p, err := s.getPlayer(params.PlayerID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sess == nil || p.sess.ID != params.SessionID {
		s.logger.DebugContext(ctx, "dropping engine event for dead session",
			"playerId", p.id, "eventType", params.Type, "sessionId", params.SessionID)
		return p.snapshotLocked(), nil
	}

	switch params.Type {
	case "loadedmetadata":
		p.duration = params.Duration
		if p.state == domain.StateLoading {
			p.state = domain.StatePaused
		}

	case "timeupdate":
		p.currentTime = params.CurrentTime

	case "play":
		p.state = domain.StatePlaying
		p.pendingIntent = nil
		s.handleFirstPlayLocked(ctx, p)
		s.refreshVisibilityLocked(ctx, p)

	case "pause":
		p.state = domain.StatePaused
		p.pendingIntent = nil
		s.refreshVisibilityLocked(ctx, p)

	case "waiting":
		p.isBuffering = true

	case "canplay":
		p.isBuffering = false

	case "ended":
		p.state = domain.StateEnded
		p.isBuffering = false
		p.pendingIntent = nil
		s.refreshVisibilityLocked(ctx, p)
		s.handleEndedLocked(ctx, p)

	case "error":
		p.state = domain.StateErrored
		p.isBuffering = false
		p.pendingIntent = nil
		s.refreshVisibilityLocked(ctx, p)
		s.logger.WarnContext(ctx, "engine reported playback error",
			"playerId", p.id, "sessionId", p.sess.ID)

	default:
		s.logger.DebugContext(ctx, "unknown engine event", "playerId", p.id, "eventType", params.Type)
	}

	return p.snapshotLocked(), nil
}

// handleFirstPlayLocked flips the one-time first-play flag and, when the
// player was mounted with auto-fullscreen, enters fullscreen on the first
// playing transition of a video session.
func (s *service) handleFirstPlayLocked(ctx context.Context, p *player) {
	if p.sess.FirstPlayDone {
		return
	}
	p.sess.FirstPlayDone = true

	if p.autoFullscreen && p.sess.Kind == domain.KindVideo && p.fullscreen == domain.ModeWindowed {
		s.enterFullscreenLocked(ctx, p)
	}
}
