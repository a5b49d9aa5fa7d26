package player

import (
	"context"
	"time"

	"github.com/JoeSaf/sencloud-gui/internal/domain"
)

// Snapshot is the full observable state of one player, pushed to the host
// after every transition.
type Snapshot struct {
	Session     *domain.PlaybackSession `json:"session"`
	State       domain.PlaybackState    `json:"state"`
	IsBuffering bool                    `json:"is_buffering"`
	CurrentTime float64                 `json:"current_time"`
	Duration    float64                 `json:"duration"`

	Volume       int     `json:"volume"`
	Muted        bool    `json:"muted"`
	PlaybackRate float64 `json:"playback_rate"`

	Controls   domain.VisibilityState `json:"controls"`
	Fullscreen domain.FullscreenMode  `json:"fullscreen"`

	Episodes            *domain.EpisodeContext `json:"episodes"`
	AutoplayEnabled     bool                   `json:"autoplay_enabled"`
	AutoplayPending     bool                   `json:"autoplay_pending"`
	AutoplayRemaining   float64                `json:"autoplay_remaining"`
	Recommendations     []domain.EpisodeRef    `json:"recommendations"`
	ShowRecommendations bool                   `json:"show_recommendations"`
}

type GetSnapshotParams struct {
	PlayerID string
}

func (s *service) GetSnapshot(ctx context.Context, params *GetSnapshotParams) (*Snapshot, error) {
	p, err := s.getPlayer(params.PlayerID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.snapshotLocked(), nil
}

func (p *player) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		Session:         p.sess,
		State:           p.state,
		IsBuffering:     p.isBuffering,
		CurrentTime:     p.currentTime,
		Duration:        p.duration,
		Volume:          p.volume,
		Muted:           p.muted,
		PlaybackRate:    p.rate,
		Controls:        p.visibility,
		Fullscreen:      p.fullscreen,
		Episodes:        p.episodes,
		AutoplayEnabled: p.autoplay,
		AutoplayPending: p.autoplayPending,
		Recommendations: p.recommendations,
	}

	if p.autoplayPending {
		snap.AutoplayRemaining = time.Until(p.autoplayEnds).Seconds()
		if snap.AutoplayRemaining < 0 {
			snap.AutoplayRemaining = 0
		}
	}

	// the recommendations display takes over at end of media when there is
	// no next episode to hand off to
	snap.ShowRecommendations = p.state == domain.StateEnded &&
		(p.episodes == nil || p.episodes.Next == nil)

	return snap
}
