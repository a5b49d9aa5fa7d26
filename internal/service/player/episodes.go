package player

import (
	"context"
	"time"

	"golang.org/x/exp/slices"

	"github.com/JoeSaf/sencloud-gui/internal/domain"
	"github.com/JoeSaf/sencloud-gui/internal/repository/episode"
)

func toDomainRef(ref *episode.Ref) *domain.EpisodeRef {
	if ref == nil {
		return nil
	}

	return &domain.EpisodeRef{
		SourceID:     ref.SourceID,
		Kind:         domain.MediaKind(ref.Kind),
		Locator:      ref.Locator,
		Title:        ref.Title,
		Poster:       ref.Poster,
		DurationHint: ref.DurationHint,
		Number:       ref.Number,
	}
}

// startContextFetch kicks off the asynchronous episode-context prefetch for
// the freshly opened session. The player stays fully responsive while the
// fetch is outstanding.
func (s *service) startContextFetch(ctx context.Context, p *player) {
	fetchCtx, cancel := context.WithCancel(context.Background())
	p.fetchCancel = cancel

	go s.fetchEpisodeContext(fetchCtx, p, p.sess.ID, p.sess.SourceID)

	s.logger.DebugContext(ctx, "episode context fetch started",
		"playerId", p.id, "sessionId", p.sess.ID, "sourceId", p.sess.SourceID)
}

// fetchEpisodeContext resolves next/previous/series. Every directory
// failure degrades to absent data, and a result for a session that is no
// longer live is discarded.
func (s *service) fetchEpisodeContext(ctx context.Context, p *player, sessionID, sourceID string) {
	next, err := s.episodeRepo.GetNext(ctx, sourceID)
	if err != nil {
		s.logger.DebugContext(ctx, "no next episode", "sourceId", sourceID, "err", err)
		next = nil
	}

	previous, err := s.episodeRepo.GetPrevious(ctx, sourceID)
	if err != nil {
		s.logger.DebugContext(ctx, "no previous episode", "sourceId", sourceID, "err", err)
		previous = nil
	}

	series, err := s.episodeRepo.GetSeries(ctx, sourceID)
	if err != nil {
		s.logger.DebugContext(ctx, "no series list", "sourceId", sourceID, "err", err)
		series = nil
	}

	if ctx.Err() != nil {
		return
	}

	seriesList := make([]domain.EpisodeRef, 0, len(series))
	for i := range series {
		seriesList = append(seriesList, *toDomainRef(&series[i]))
	}
	slices.SortFunc(seriesList, func(a, b domain.EpisodeRef) int {
		return a.Number - b.Number
	})

	episodeCtx := &domain.EpisodeContext{
		SessionID:  sessionID,
		Previous:   toDomainRef(previous),
		Next:       toDomainRef(next),
		SeriesList: seriesList,
		CurrentIndex: slices.IndexFunc(seriesList, func(ref domain.EpisodeRef) bool {
			return ref.SourceID == sourceID
		}),
	}

	p.mu.Lock()
	if p.sess == nil || p.sess.ID != sessionID {
		p.mu.Unlock()
		s.logger.DebugContext(ctx, "discarding stale episode context",
			"playerId", p.id, "sessionId", sessionID)
		return
	}
	p.episodes = episodeCtx
	p.fetchCancel = nil
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.host.PlayerUpdated(ctx, snap)
}

// handleEndedLocked drives the end-of-media transition: an autoplay
// countdown when a next episode is known, otherwise the recommendations
// display (surfaced through the snapshot).
func (s *service) handleEndedLocked(ctx context.Context, p *player) {
	if p.episodes == nil || p.episodes.Next == nil || !p.autoplay {
		return
	}

	p.autoplayPending = true
	p.autoplayEnds = time.Now().Add(s.cfg.AutoplayDelay)
	s.armAutoplayTimerLocked(ctx, p)

	s.logger.InfoContext(ctx, "autoplay countdown started",
		"playerId", p.id, "sessionId", p.sess.ID, "next", p.episodes.Next.SourceID)
}

func (s *service) armAutoplayTimerLocked(ctx context.Context, p *player) {
	p.cancelAutoplayTimerLocked()

	seq := p.autoplaySeq
	p.autoplayTimer = time.AfterFunc(s.cfg.AutoplayDelay, func() {
		s.fireAutoplayTimer(ctx, p, seq)
	})
}

func (p *player) cancelAutoplayTimerLocked() {
	p.autoplaySeq++
	if p.autoplayTimer != nil {
		p.autoplayTimer.Stop()
		p.autoplayTimer = nil
	}
}

// fireAutoplayTimer hands off to the next episode exactly once at expiry.
func (s *service) fireAutoplayTimer(ctx context.Context, p *player, seq uint64) {
	p.mu.Lock()

	if seq != p.autoplaySeq || !p.autoplayPending {
		p.mu.Unlock()
		return
	}
	p.autoplayTimer = nil
	p.autoplayPending = false

	if p.sess == nil || p.episodes == nil || p.episodes.Next == nil {
		p.mu.Unlock()
		return
	}

	next := *p.episodes.Next
	s.replaceSessionLocked(ctx, p, next.AsMediaItem())
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.host.NextEpisodeStarted(ctx, next)
	p.host.PlayerUpdated(ctx, snap)
}

type CancelAutoplayParams struct {
	PlayerID string
}

// CancelAutoplay clears the countdown and leaves the current frame as is.
func (s *service) CancelAutoplay(ctx context.Context, params *CancelAutoplayParams) (*Snapshot, error) {
	p, err := s.getPlayer(params.PlayerID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sess == nil {
		return nil, ErrNoSession
	}

	p.cancelAutoplayTimerLocked()
	p.autoplayPending = false

	return p.snapshotLocked(), nil
}

type SetAutoplayParams struct {
	PlayerID string
	Enabled  bool
}

func (s *service) SetAutoplay(ctx context.Context, params *SetAutoplayParams) (*Snapshot, error) {
	p, err := s.getPlayer(params.PlayerID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.autoplay = params.Enabled
	if !p.autoplay && p.autoplayPending {
		p.cancelAutoplayTimerLocked()
		p.autoplayPending = false
	}

	return p.snapshotLocked(), nil
}

type SetRecommendationsParams struct {
	PlayerID        string
	Recommendations []domain.EpisodeRef
}

func (s *service) SetRecommendations(ctx context.Context, params *SetRecommendationsParams) (*Snapshot, error) {
	p, err := s.getPlayer(params.PlayerID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.recommendations = params.Recommendations

	return p.snapshotLocked(), nil
}

type PlayNextParams struct {
	PlayerID string
}

func (s *service) PlayNext(ctx context.Context, params *PlayNextParams) (*Snapshot, error) {
	p, err := s.getPlayer(params.PlayerID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.sess == nil {
		p.mu.Unlock()
		return nil, ErrNoSession
	}
	if p.episodes == nil || p.episodes.Next == nil {
		p.mu.Unlock()
		return nil, ErrNoNextEpisode
	}

	next := *p.episodes.Next
	s.replaceSessionLocked(ctx, p, next.AsMediaItem())
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.host.NextEpisodeStarted(ctx, next)

	return snap, nil
}

type PlayPreviousParams struct {
	PlayerID string
}

func (s *service) PlayPrevious(ctx context.Context, params *PlayPreviousParams) (*Snapshot, error) {
	p, err := s.getPlayer(params.PlayerID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sess == nil {
		return nil, ErrNoSession
	}
	if p.episodes == nil || p.episodes.Previous == nil {
		return nil, ErrNoPreviousEpisode
	}

	previous := *p.episodes.Previous
	s.replaceSessionLocked(ctx, p, previous.AsMediaItem())

	return p.snapshotLocked(), nil
}

type PlayFromListParams struct {
	PlayerID string
	SourceID string
}

func (s *service) PlayFromList(ctx context.Context, params *PlayFromListParams) (*Snapshot, error) {
	p, err := s.getPlayer(params.PlayerID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sess == nil {
		return nil, ErrNoSession
	}

	var target *domain.EpisodeRef
	if p.episodes != nil {
		idx := slices.IndexFunc(p.episodes.SeriesList, func(ref domain.EpisodeRef) bool {
			return ref.SourceID == params.SourceID
		})
		if idx >= 0 {
			target = &p.episodes.SeriesList[idx]
		}
	}
	if target == nil {
		return nil, ErrEpisodeNotInList
	}

	item := target.AsMediaItem()
	s.replaceSessionLocked(ctx, p, item)

	return p.snapshotLocked(), nil
}

type SelectRecommendedParams struct {
	PlayerID string
	SourceID string
}

func (s *service) SelectRecommended(ctx context.Context, params *SelectRecommendedParams) (*Snapshot, error) {
	p, err := s.getPlayer(params.PlayerID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.sess == nil {
		p.mu.Unlock()
		return nil, ErrNoSession
	}

	idx := slices.IndexFunc(p.recommendations, func(ref domain.EpisodeRef) bool {
		return ref.SourceID == params.SourceID
	})
	if idx < 0 {
		p.mu.Unlock()
		return nil, ErrEpisodeNotInList
	}

	selected := p.recommendations[idx]
	s.replaceSessionLocked(ctx, p, selected.AsMediaItem())
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.host.RecommendedSelected(ctx, selected)

	return snap, nil
}
