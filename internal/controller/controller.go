package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/JoeSaf/sencloud-gui/internal/service/player"
	"github.com/JoeSaf/sencloud-gui/pkg/validator"
)

type iPlayerService interface {
	CreatePlayer(context.Context, *player.CreatePlayerParams) (string, error)
	RemovePlayer(context.Context, *player.RemovePlayerParams) error
	GetSnapshot(context.Context, *player.GetSnapshotParams) (*player.Snapshot, error)
	// session
	Open(context.Context, *player.OpenParams) (*player.Snapshot, error)
	Close(context.Context, *player.CloseParams) (*player.Snapshot, error)
	Replace(context.Context, *player.ReplaceParams) (*player.Snapshot, error)
	// playback
	Play(context.Context, *player.PlayParams) (*player.Snapshot, error)
	Pause(context.Context, *player.PauseParams) (*player.Snapshot, error)
	TogglePlayPause(context.Context, *player.TogglePlayPauseParams) (*player.Snapshot, error)
	Seek(context.Context, *player.SeekParams) (*player.Snapshot, error)
	Skip(context.Context, *player.SkipParams) (*player.Snapshot, error)
	SetVolume(context.Context, *player.SetVolumeParams) (*player.Snapshot, error)
	ToggleMute(context.Context, *player.ToggleMuteParams) (*player.Snapshot, error)
	SetPlaybackRate(context.Context, *player.SetPlaybackRateParams) (*player.Snapshot, error)
	HandleEngineEvent(context.Context, *player.EngineEventParams) (*player.Snapshot, error)
	// visibility
	Activity(context.Context, *player.ActivityParams) (*player.Snapshot, error)
	// fullscreen
	ToggleFullscreen(context.Context, *player.ToggleFullscreenParams) (*player.Snapshot, error)
	HandleDisplayEvent(context.Context, *player.DisplayEventParams) (*player.Snapshot, error)
	// episodes
	SetAutoplay(context.Context, *player.SetAutoplayParams) (*player.Snapshot, error)
	SetRecommendations(context.Context, *player.SetRecommendationsParams) (*player.Snapshot, error)
	CancelAutoplay(context.Context, *player.CancelAutoplayParams) (*player.Snapshot, error)
	PlayNext(context.Context, *player.PlayNextParams) (*player.Snapshot, error)
	PlayPrevious(context.Context, *player.PlayPreviousParams) (*player.Snapshot, error)
	PlayFromList(context.Context, *player.PlayFromListParams) (*player.Snapshot, error)
	SelectRecommended(context.Context, *player.SelectRecommendedParams) (*player.Snapshot, error)
	// keyboard
	HandleKeyPress(context.Context, *player.KeyPressParams) (*player.Snapshot, error)
}

type controller struct {
	playerService iPlayerService
	upgrader      websocket.Upgrader
	validate      *validator.Validator
	logger        *slog.Logger
}

func NewController(playerService iPlayerService, logger *slog.Logger) *controller {
	return &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		playerService: playerService,
		validate:      validator.NewValidator(),
		logger:        logger,
	}
}
