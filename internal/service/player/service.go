package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JoeSaf/sencloud-gui/internal/domain"
	"github.com/JoeSaf/sencloud-gui/internal/repository/episode"
)

var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrNoSession         = errors.New("no active session")
	ErrNoNextEpisode     = errors.New("no next episode")
	ErrNoPreviousEpisode = errors.New("no previous episode")
	ErrEpisodeNotInList  = errors.New("episode not in list")
)

// MediaEngine is the decode/render surface the playback controller drives.
// Commands are advisory; the engine reports back through engine events.
// Paused is the flag the engine last reported, not the controller's own
// cached state.
type MediaEngine interface {
	Load(ctx context.Context, locator string) error
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	SetCurrentTime(ctx context.Context, seconds float64) error
	SetVolume(ctx context.Context, level int) error
	SetMuted(ctx context.Context, muted bool) error
	SetPlaybackRate(ctx context.Context, rate float64) error
	Paused(ctx context.Context) bool
	CurrentTime(ctx context.Context) float64
}

// DisplaySurface is the window-level fullscreen/orientation resource.
// Every call is allowed to fail; failures select the next fallback.
type DisplaySurface interface {
	RequestNativeFullscreen(ctx context.Context) error
	ExitNativeFullscreen(ctx context.Context) error
	EnterEmulatedFullscreen(ctx context.Context) error
	ExitEmulatedFullscreen(ctx context.Context) error
	LockLandscape(ctx context.Context) error
	UnlockOrientation(ctx context.Context) error
	SetScrollLock(ctx context.Context, locked bool) error
}

// Host receives engine-initiated notifications. Callbacks fire at most once
// per user action and never during RemovePlayer teardown.
type Host interface {
	PlayerUpdated(ctx context.Context, snapshot *Snapshot)
	SessionClosed(ctx context.Context)
	NextEpisodeStarted(ctx context.Context, next domain.EpisodeRef)
	RecommendedSelected(ctx context.Context, selected domain.EpisodeRef)
}

type iEpisodeRepo interface {
	GetNext(ctx context.Context, sourceID string) (*episode.Ref, error)
	GetPrevious(ctx context.Context, sourceID string) (*episode.Ref, error)
	GetSeries(ctx context.Context, sourceID string) ([]episode.Ref, error)
}

type Config struct {
	HideDelay     time.Duration
	AutoplayDelay time.Duration
	SeekStep      float64
	VolumeStep    int
}

const (
	defaultHideDelay     = 3 * time.Second
	defaultAutoplayDelay = 5 * time.Second
	defaultSeekStep      = 10
	defaultVolumeStep    = 5
)

func (cfg *Config) withDefaults() Config {
	out := Config{
		HideDelay:     defaultHideDelay,
		AutoplayDelay: defaultAutoplayDelay,
		SeekStep:      defaultSeekStep,
		VolumeStep:    defaultVolumeStep,
	}
	if cfg == nil {
		return out
	}

	if cfg.HideDelay > 0 {
		out.HideDelay = cfg.HideDelay
	}
	if cfg.AutoplayDelay > 0 {
		out.AutoplayDelay = cfg.AutoplayDelay
	}
	if cfg.SeekStep > 0 {
		out.SeekStep = cfg.SeekStep
	}
	if cfg.VolumeStep > 0 {
		out.VolumeStep = cfg.VolumeStep
	}

	return out
}

type service struct {
	episodeRepo iEpisodeRepo
	cfg         Config
	logger      *slog.Logger

	mu      sync.RWMutex
	players map[string]*player
}

func NewService(episodeRepo iEpisodeRepo, cfg *Config, logger *slog.Logger) *service {
	return &service{
		episodeRepo: episodeRepo,
		cfg:         cfg.withDefaults(),
		logger:      logger,
		players:     make(map[string]*player),
	}
}

// player holds everything one mounted player owns. All mutable fields are
// guarded by mu; commands, engine events and timer callbacks serialize on
// it, so no two handlers interleave.
type player struct {
	id      string
	engine  MediaEngine
	surface DisplaySurface
	host    Host

	// detected once at mount
	touch          bool
	autoFullscreen bool

	mu sync.Mutex

	sess        *domain.PlaybackSession
	state       domain.PlaybackState
	isBuffering bool
	duration    float64
	currentTime float64

	volume int
	muted  bool
	rate   float64

	// pendingIntent overlays engine ground truth between a play/pause
	// command and the engine event acknowledging it.
	pendingIntent *bool

	visibility domain.VisibilityState
	hideTimer  *time.Timer
	hideSeq    uint64

	fullscreen        domain.FullscreenMode
	orientationLocked bool
	scrollLocked      bool

	episodes        *domain.EpisodeContext
	fetchCancel     context.CancelFunc
	autoplay        bool
	autoplayPending bool
	autoplayEnds    time.Time
	autoplayTimer   *time.Timer
	autoplaySeq     uint64

	recommendations []domain.EpisodeRef
}

type CreatePlayerParams struct {
	Engine          MediaEngine
	Surface         DisplaySurface
	Host            Host
	TouchDevice     bool
	AutoFullscreen  bool
	Autoplay        bool
	Recommendations []domain.EpisodeRef
}

func (s *service) CreatePlayer(ctx context.Context, params *CreatePlayerParams) (string, error) {
	p := &player{
		id:              uuid.NewString(),
		engine:          params.Engine,
		surface:         params.Surface,
		host:            params.Host,
		touch:           params.TouchDevice,
		autoFullscreen:  params.AutoFullscreen,
		autoplay:        params.Autoplay,
		recommendations: params.Recommendations,
		state:           domain.StateIdle,
		visibility:      domain.ControlsVisible,
		fullscreen:      domain.ModeWindowed,
		volume:          domain.VolumeMax,
		rate:            1,
	}

	s.mu.Lock()
	s.players[p.id] = p
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "player created", "playerId", p.id, "touch", p.touch)

	return p.id, nil
}

type RemovePlayerParams struct {
	PlayerID string
}

// RemovePlayer tears the player down on host disconnect. The session is
// closed without host callbacks and the display surface is always left
// windowed.
func (s *service) RemovePlayer(ctx context.Context, params *RemovePlayerParams) error {
	s.mu.Lock()
	p, ok := s.players[params.PlayerID]
	if ok {
		delete(s.players, params.PlayerID)
	}
	s.mu.Unlock()

	if !ok {
		return ErrPlayerNotFound
	}

	p.mu.Lock()
	s.closeSessionLocked(ctx, p)
	p.mu.Unlock()

	s.logger.InfoContext(ctx, "player removed", "playerId", p.id)

	return nil
}

func (s *service) getPlayer(playerID string) (*player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[playerID]
	if !ok {
		return nil, fmt.Errorf("failed to get player %q: %w", playerID, ErrPlayerNotFound)
	}

	return p, nil
}
