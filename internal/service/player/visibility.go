package player

import (
	"context"
	"time"

	"github.com/JoeSaf/sencloud-gui/internal/domain"
)

type ActivityParams struct {
	PlayerID string
}

// Activity is the pointer-movement signal from the host. It shows the
// controls and restarts the inactivity countdown.
func (s *service) Activity(ctx context.Context, params *ActivityParams) (*Snapshot, error) {
	p, err := s.getPlayer(params.PlayerID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sess == nil {
		return nil, ErrNoSession
	}

	s.touchControlsLocked(ctx, p)

	return p.snapshotLocked(), nil
}

func (s *service) touchControlsLocked(ctx context.Context, p *player) {
	p.visibility = domain.ControlsVisible
	s.refreshVisibilityLocked(ctx, p)
}

// refreshVisibilityLocked applies the visibility rule: controls are forced
// visible unless the player is playing in some fullscreen mode, and only
// then does the inactivity countdown arm.
func (s *service) refreshVisibilityLocked(ctx context.Context, p *player) {
	if p.state != domain.StatePlaying || !p.fullscreen.IsFullscreen() {
		p.cancelHideTimerLocked()
		p.visibility = domain.ControlsVisible
		return
	}

	if p.visibility == domain.ControlsVisible {
		s.armHideTimerLocked(ctx, p)
	}
}

// armHideTimerLocked starts the hide countdown. Arming always cancels the
// previous handle first, keeping at most one outstanding.
func (s *service) armHideTimerLocked(ctx context.Context, p *player) {
	p.cancelHideTimerLocked()

	seq := p.hideSeq
	p.hideTimer = time.AfterFunc(s.cfg.HideDelay, func() {
		s.fireHideTimer(ctx, p, seq)
	})
}

func (p *player) cancelHideTimerLocked() {
	p.hideSeq++
	if p.hideTimer != nil {
		p.hideTimer.Stop()
		p.hideTimer = nil
	}
}

func (s *service) fireHideTimer(ctx context.Context, p *player, seq uint64) {
	p.mu.Lock()

	if seq != p.hideSeq {
		// cancelled after the callback was already scheduled
		p.mu.Unlock()
		return
	}
	p.hideTimer = nil

	if p.state != domain.StatePlaying || !p.fullscreen.IsFullscreen() {
		p.mu.Unlock()
		return
	}

	p.visibility = domain.ControlsHidden
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.host.PlayerUpdated(ctx, snap)
}
