package player

import (
	"context"

	"github.com/JoeSaf/sencloud-gui/internal/domain"
)

type ToggleFullscreenParams struct {
	PlayerID string
}

func (s *service) ToggleFullscreen(ctx context.Context, params *ToggleFullscreenParams) (*Snapshot, error) {
	p, err := s.getPlayer(params.PlayerID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sess == nil {
		return nil, ErrNoSession
	}

	if p.fullscreen.IsFullscreen() {
		s.exitFullscreenLocked(ctx, p)
	} else {
		s.enterFullscreenLocked(ctx, p)
	}

	return p.snapshotLocked(), nil
}

// enterFullscreenLocked walks the entry chain for the mounted device class:
// orientation lock (touch only, best effort), then native fullscreen, then
// the emulated CSS mode with scroll suppression on touch. Whatever path
// succeeds, the player ends in exactly one of native or emulated.
func (s *service) enterFullscreenLocked(ctx context.Context, p *player) {
	if p.touch {
		if err := p.surface.LockLandscape(ctx); err != nil {
			s.logger.DebugContext(ctx, "failed to lock orientation", "playerId", p.id, "err", err)
		} else {
			p.orientationLocked = true
		}
	}

	err := p.surface.RequestNativeFullscreen(ctx)
	if err == nil {
		p.fullscreen = domain.ModeNativeFullscreen
		s.refreshVisibilityLocked(ctx, p)
		return
	}
	s.logger.DebugContext(ctx, "native fullscreen unavailable, falling back",
		"playerId", p.id, "err", err)

	if err := p.surface.EnterEmulatedFullscreen(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to enter emulated fullscreen", "playerId", p.id, "err", err)
		s.unwindFullscreenLocked(ctx, p)
		return
	}

	p.fullscreen = domain.ModeEmulatedFullscreen
	if p.touch {
		if err := p.surface.SetScrollLock(ctx, true); err != nil {
			s.logger.DebugContext(ctx, "failed to suppress scrolling", "playerId", p.id, "err", err)
		} else {
			p.scrollLocked = true
		}
	}

	s.refreshVisibilityLocked(ctx, p)
}

// exitFullscreenLocked mirrors entry and always lands windowed, whichever
// path was used to enter. Idempotent, safe to call on teardown.
func (s *service) exitFullscreenLocked(ctx context.Context, p *player) {
	switch p.fullscreen {
	case domain.ModeNativeFullscreen:
		if err := p.surface.ExitNativeFullscreen(ctx); err != nil {
			s.logger.DebugContext(ctx, "failed to exit native fullscreen", "playerId", p.id, "err", err)
		}
	case domain.ModeEmulatedFullscreen:
		if err := p.surface.ExitEmulatedFullscreen(ctx); err != nil {
			s.logger.DebugContext(ctx, "failed to exit emulated fullscreen", "playerId", p.id, "err", err)
		}
	}
	p.fullscreen = domain.ModeWindowed

	s.unwindFullscreenLocked(ctx, p)
	s.refreshVisibilityLocked(ctx, p)
}

// unwindFullscreenLocked releases the window-level side effects: scroll
// suppression and the orientation lock.
func (s *service) unwindFullscreenLocked(ctx context.Context, p *player) {
	if p.scrollLocked {
		if err := p.surface.SetScrollLock(ctx, false); err != nil {
			s.logger.DebugContext(ctx, "failed to restore scrolling", "playerId", p.id, "err", err)
		}
		p.scrollLocked = false
	}

	if p.orientationLocked {
		if err := p.surface.UnlockOrientation(ctx); err != nil {
			s.logger.DebugContext(ctx, "failed to unlock orientation", "playerId", p.id, "err", err)
		}
		p.orientationLocked = false
	}
}

type DisplayEventParams struct {
	PlayerID string
	Type     string
}

// HandleDisplayEvent re-normalizes the mode after surface-initiated
// changes: the browser can kick the container out of native fullscreen (or
// fail it late) without a toggle going through the coordinator.
func (s *service) HandleDisplayEvent(ctx context.Context, params *DisplayEventParams) (*Snapshot, error) {
	p, err := s.getPlayer(params.PlayerID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sess == nil {
		return nil, ErrNoSession
	}

	switch params.Type {
	case "fullscreenerror":
		if p.fullscreen != domain.ModeNativeFullscreen {
			break
		}
		s.logger.DebugContext(ctx, "native fullscreen failed late, falling back",
			"playerId", p.id)
		if err := p.surface.EnterEmulatedFullscreen(ctx); err != nil {
			s.logger.WarnContext(ctx, "failed to enter emulated fullscreen", "playerId", p.id, "err", err)
			p.fullscreen = domain.ModeWindowed
			s.unwindFullscreenLocked(ctx, p)
		} else {
			p.fullscreen = domain.ModeEmulatedFullscreen
		}
		s.refreshVisibilityLocked(ctx, p)

	case "fullscreenexit":
		if p.fullscreen != domain.ModeNativeFullscreen {
			break
		}
		p.fullscreen = domain.ModeWindowed
		s.unwindFullscreenLocked(ctx, p)
		s.refreshVisibilityLocked(ctx, p)

	default:
		s.logger.DebugContext(ctx, "unknown display event", "playerId", p.id, "eventType", params.Type)
	}

	return p.snapshotLocked(), nil
}
