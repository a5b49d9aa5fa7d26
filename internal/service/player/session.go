package player

import (
	"context"

	"github.com/google/uuid"

	"github.com/JoeSaf/sencloud-gui/internal/domain"
)

type OpenParams struct {
	PlayerID string
	Item     *domain.MediaItem
}

// Open loads a media item. When a session is already active it performs the
// implicit close first, so no timers or fullscreen state leak across items.
func (s *service) Open(ctx context.Context, params *OpenParams) (*Snapshot, error) {
	p, err := s.getPlayer(params.PlayerID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sess != nil {
		s.closeSessionLocked(ctx, p)
	}
	s.openSessionLocked(ctx, p, params.Item)

	return p.snapshotLocked(), nil
}

type ReplaceParams struct {
	PlayerID string
	Item     *domain.MediaItem
}

func (s *service) Replace(ctx context.Context, params *ReplaceParams) (*Snapshot, error) {
	p, err := s.getPlayer(params.PlayerID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sess == nil {
		return nil, ErrNoSession
	}
	s.replaceSessionLocked(ctx, p, params.Item)

	return p.snapshotLocked(), nil
}

type CloseParams struct {
	PlayerID string
}

// Close tears the session down. Calling it with no active session is a
// no-op.
func (s *service) Close(ctx context.Context, params *CloseParams) (*Snapshot, error) {
	p, err := s.getPlayer(params.PlayerID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	hadSession := p.sess != nil
	s.closeSessionLocked(ctx, p)
	snap := p.snapshotLocked()
	p.mu.Unlock()

	if hadSession {
		p.host.SessionClosed(ctx)
	}

	return snap, nil
}

func (s *service) openSessionLocked(ctx context.Context, p *player, item *domain.MediaItem) {
	p.sess = domain.NewPlaybackSession(uuid.NewString(), item)
	p.state = domain.StateLoading
	p.isBuffering = false
	p.currentTime = 0
	p.duration = item.DurationHint
	p.visibility = domain.ControlsVisible
	p.pendingIntent = nil

	s.logger.InfoContext(ctx, "session opened",
		"playerId", p.id,
		"sessionId", p.sess.ID,
		"sourceId", item.SourceID,
		"kind", item.Kind,
	)

	if err := p.engine.Load(ctx, item.Locator); err != nil {
		s.logger.WarnContext(ctx, "failed to load media", "playerId", p.id, "err", err)
		p.state = domain.StateErrored
		return
	}

	s.startContextFetch(ctx, p)
}

// closeSessionLocked cancels every outstanding timer, discards the in-flight
// episode-context fetch and restores the surface to windowed. Idempotent.
func (s *service) closeSessionLocked(ctx context.Context, p *player) {
	if p.sess == nil {
		return
	}

	p.cancelHideTimerLocked()
	p.cancelAutoplayTimerLocked()
	p.autoplayPending = false

	if p.fetchCancel != nil {
		p.fetchCancel()
		p.fetchCancel = nil
	}

	if err := p.engine.Pause(ctx); err != nil {
		s.logger.DebugContext(ctx, "failed to pause engine on close", "playerId", p.id, "err", err)
	}

	s.exitFullscreenLocked(ctx, p)

	s.logger.InfoContext(ctx, "session closed", "playerId", p.id, "sessionId", p.sess.ID)

	p.sess = nil
	p.episodes = nil
	p.pendingIntent = nil
	p.state = domain.StateIdle
	p.isBuffering = false
	p.currentTime = 0
	p.duration = 0
	p.visibility = domain.ControlsVisible
}

func (s *service) replaceSessionLocked(ctx context.Context, p *player, item *domain.MediaItem) {
	s.closeSessionLocked(ctx, p)
	s.openSessionLocked(ctx, p, item)
}
