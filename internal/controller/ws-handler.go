package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/JoeSaf/sencloud-gui/internal/domain"
	"github.com/JoeSaf/sencloud-gui/internal/service/player"
	"github.com/JoeSaf/sencloud-gui/pkg/ctxlogger"
)

// mountPlayer upgrades the connection and mounts one player for its
// lifetime. Device class and surface capabilities are read once from the
// query string; the player is torn down when the socket goes away, which
// always restores the windowed rest state.
func (c controller) mountPlayer(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade connection", "err", err)
		return
	}
	defer conn.Close()

	q := r.URL.Query()

	writer := newConnWriter(conn)
	engine := newConnMediaEngine(writer)
	surface := newConnDisplaySurface(writer, surfaceCapabilities{
		nativeFullscreen: q.Get("native_fullscreen") != "false",
		orientationLock:  q.Get("orientation_lock") == "true",
	})
	host := newConnHost(writer)

	ctx := r.Context()
	playerID, err := c.playerService.CreatePlayer(ctx, &player.CreatePlayerParams{
		Engine:         engine,
		Surface:        surface,
		Host:           host,
		TouchDevice:    q.Get("device") == "touch",
		AutoFullscreen: q.Get("auto_fullscreen") == "true",
		Autoplay:       q.Get("autoplay") != "false",
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to create player", "err", err)
		return
	}

	ctx = ctxlogger.AppendCtx(ctx, slog.String("player_id", playerID))
	defer func() {
		if err := c.playerService.RemovePlayer(context.WithoutCancel(ctx), &player.RemovePlayerParams{
			PlayerID: playerID,
		}); err != nil {
			c.logger.WarnContext(ctx, "failed to remove player", "err", err)
		}
	}()

	writer.send(&Output{Type: "MOUNTED", Payload: map[string]any{"player_id": playerID}})

	pc := &playerConn{controller: c, playerID: playerID, engine: engine, w: writer}
	if err := pc.getWSRouter().ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "websocket connection closed", "err", err)
	}
}

// playerConn binds one websocket connection to its mounted player.
type playerConn struct {
	controller
	playerID string
	engine   *connMediaEngine
	w        *connWriter
}

// sendSnapshot pushes the post-operation snapshot back to the host. A nil
// snapshot (no-op dispatch) sends nothing.
func (pc *playerConn) sendSnapshot(snap *player.Snapshot) error {
	if snap == nil {
		return nil
	}

	return pc.w.send(&Output{Type: "PLAYER_UPDATED", Payload: snap})
}

// serviceError reports an operation failure to the host without tearing
// the connection down.
func (pc *playerConn) serviceError(ctx context.Context, err error) error {
	pc.logger.InfoContext(ctx, "operation rejected", "err", err)

	return pc.w.send(&Output{Type: "ERROR", Payload: map[string]any{"message": err.Error()}})
}

type EmptyInput struct{}

func (pc *playerConn) handleAlive(_ context.Context, _ *websocket.Conn, _ EmptyInput) error {
	return nil
}

type MediaItemInput struct {
	SourceID     string  `json:"source_id" validate:"required"`
	Kind         string  `json:"kind" validate:"required,oneof=video audio image"`
	Locator      string  `json:"locator" validate:"required"`
	Title        string  `json:"title"`
	Poster       string  `json:"poster"`
	DurationHint float64 `json:"duration_hint"`
}

func (i MediaItemInput) toDomain() *domain.MediaItem {
	return &domain.MediaItem{
		SourceID:     i.SourceID,
		Kind:         domain.MediaKind(i.Kind),
		Locator:      i.Locator,
		Title:        i.Title,
		Poster:       i.Poster,
		DurationHint: i.DurationHint,
	}
}

type OpenInput struct {
	Item MediaItemInput `json:"item" validate:"required"`
}

func (pc *playerConn) handleOpen(ctx context.Context, _ *websocket.Conn, input OpenInput) error {
	if errs, ok := pc.validate.Validate(input); !ok {
		return pc.w.send(&Output{Type: "ERROR", Payload: errs})
	}

	snap, err := pc.playerService.Open(ctx, &player.OpenParams{
		PlayerID: pc.playerID,
		Item:     input.Item.toDomain(),
	})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

func (pc *playerConn) handleClose(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	snap, err := pc.playerService.Close(ctx, &player.CloseParams{PlayerID: pc.playerID})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

func (pc *playerConn) handleReplace(ctx context.Context, _ *websocket.Conn, input OpenInput) error {
	if errs, ok := pc.validate.Validate(input); !ok {
		return pc.w.send(&Output{Type: "ERROR", Payload: errs})
	}

	snap, err := pc.playerService.Replace(ctx, &player.ReplaceParams{
		PlayerID: pc.playerID,
		Item:     input.Item.toDomain(),
	})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

func (pc *playerConn) handlePlay(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	snap, err := pc.playerService.Play(ctx, &player.PlayParams{PlayerID: pc.playerID})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

func (pc *playerConn) handlePause(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	snap, err := pc.playerService.Pause(ctx, &player.PauseParams{PlayerID: pc.playerID})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

func (pc *playerConn) handleTogglePlayPause(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	snap, err := pc.playerService.TogglePlayPause(ctx, &player.TogglePlayPauseParams{PlayerID: pc.playerID})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

type SeekInput struct {
	ToSeconds float64 `json:"to_seconds"`
}

func (pc *playerConn) handleSeek(ctx context.Context, _ *websocket.Conn, input SeekInput) error {
	snap, err := pc.playerService.Seek(ctx, &player.SeekParams{
		PlayerID:  pc.playerID,
		ToSeconds: input.ToSeconds,
	})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

type SkipInput struct {
	DeltaSeconds float64 `json:"delta_seconds"`
}

func (pc *playerConn) handleSkip(ctx context.Context, _ *websocket.Conn, input SkipInput) error {
	snap, err := pc.playerService.Skip(ctx, &player.SkipParams{
		PlayerID:     pc.playerID,
		DeltaSeconds: input.DeltaSeconds,
	})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

type SetVolumeInput struct {
	Level int `json:"level"`
}

func (pc *playerConn) handleSetVolume(ctx context.Context, _ *websocket.Conn, input SetVolumeInput) error {
	snap, err := pc.playerService.SetVolume(ctx, &player.SetVolumeParams{
		PlayerID: pc.playerID,
		Level:    input.Level,
	})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

func (pc *playerConn) handleToggleMute(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	snap, err := pc.playerService.ToggleMute(ctx, &player.ToggleMuteParams{PlayerID: pc.playerID})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

type SetPlaybackRateInput struct {
	Rate float64 `json:"rate" validate:"required"`
}

func (pc *playerConn) handleSetPlaybackRate(ctx context.Context, _ *websocket.Conn, input SetPlaybackRateInput) error {
	if errs, ok := pc.validate.Validate(input); !ok {
		return pc.w.send(&Output{Type: "ERROR", Payload: errs})
	}

	snap, err := pc.playerService.SetPlaybackRate(ctx, &player.SetPlaybackRateParams{
		PlayerID: pc.playerID,
		Rate:     input.Rate,
	})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

func (pc *playerConn) handleActivity(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	snap, err := pc.playerService.Activity(ctx, &player.ActivityParams{PlayerID: pc.playerID})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

func (pc *playerConn) handleToggleFullscreen(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	snap, err := pc.playerService.ToggleFullscreen(ctx, &player.ToggleFullscreenParams{PlayerID: pc.playerID})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

type KeyPressInput struct {
	Key         string `json:"key" validate:"required"`
	InTextInput bool   `json:"in_text_input"`
}

func (pc *playerConn) handleKeyPress(ctx context.Context, _ *websocket.Conn, input KeyPressInput) error {
	if errs, ok := pc.validate.Validate(input); !ok {
		return pc.w.send(&Output{Type: "ERROR", Payload: errs})
	}

	snap, err := pc.playerService.HandleKeyPress(ctx, &player.KeyPressParams{
		PlayerID:    pc.playerID,
		Key:         input.Key,
		InTextInput: input.InTextInput,
	})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

type SetAutoplayInput struct {
	Enabled bool `json:"enabled"`
}

func (pc *playerConn) handleSetAutoplay(ctx context.Context, _ *websocket.Conn, input SetAutoplayInput) error {
	snap, err := pc.playerService.SetAutoplay(ctx, &player.SetAutoplayParams{
		PlayerID: pc.playerID,
		Enabled:  input.Enabled,
	})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

type EpisodeRefInput struct {
	SourceID     string  `json:"source_id" validate:"required"`
	Kind         string  `json:"kind" validate:"required,oneof=video audio image"`
	Locator      string  `json:"locator" validate:"required"`
	Title        string  `json:"title"`
	Poster       string  `json:"poster"`
	DurationHint float64 `json:"duration_hint"`
	Number       int     `json:"number"`
}

type SetRecommendationsInput struct {
	Recommendations []EpisodeRefInput `json:"recommendations" validate:"dive"`
}

func (pc *playerConn) handleSetRecommendations(ctx context.Context, _ *websocket.Conn, input SetRecommendationsInput) error {
	if errs, ok := pc.validate.Validate(input); !ok {
		return pc.w.send(&Output{Type: "ERROR", Payload: errs})
	}

	refs := make([]domain.EpisodeRef, 0, len(input.Recommendations))
	for _, rec := range input.Recommendations {
		refs = append(refs, domain.EpisodeRef{
			SourceID:     rec.SourceID,
			Kind:         domain.MediaKind(rec.Kind),
			Locator:      rec.Locator,
			Title:        rec.Title,
			Poster:       rec.Poster,
			DurationHint: rec.DurationHint,
			Number:       rec.Number,
		})
	}

	snap, err := pc.playerService.SetRecommendations(ctx, &player.SetRecommendationsParams{
		PlayerID:        pc.playerID,
		Recommendations: refs,
	})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

func (pc *playerConn) handleCancelAutoplay(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	snap, err := pc.playerService.CancelAutoplay(ctx, &player.CancelAutoplayParams{PlayerID: pc.playerID})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

func (pc *playerConn) handlePlayNext(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	snap, err := pc.playerService.PlayNext(ctx, &player.PlayNextParams{PlayerID: pc.playerID})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

func (pc *playerConn) handlePlayPrevious(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	snap, err := pc.playerService.PlayPrevious(ctx, &player.PlayPreviousParams{PlayerID: pc.playerID})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

type PlayFromListInput struct {
	SourceID string `json:"source_id" validate:"required"`
}

func (pc *playerConn) handlePlayFromList(ctx context.Context, _ *websocket.Conn, input PlayFromListInput) error {
	if errs, ok := pc.validate.Validate(input); !ok {
		return pc.w.send(&Output{Type: "ERROR", Payload: errs})
	}

	snap, err := pc.playerService.PlayFromList(ctx, &player.PlayFromListParams{
		PlayerID: pc.playerID,
		SourceID: input.SourceID,
	})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

type SelectRecommendedInput struct {
	SourceID string `json:"source_id" validate:"required"`
}

func (pc *playerConn) handleSelectRecommended(ctx context.Context, _ *websocket.Conn, input SelectRecommendedInput) error {
	if errs, ok := pc.validate.Validate(input); !ok {
		return pc.w.send(&Output{Type: "ERROR", Payload: errs})
	}

	snap, err := pc.playerService.SelectRecommended(ctx, &player.SelectRecommendedParams{
		PlayerID: pc.playerID,
		SourceID: input.SourceID,
	})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

type EngineEventInput struct {
	SessionID   string  `json:"session_id" validate:"required"`
	Type        string  `json:"event_type" validate:"required"`
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
	Paused      *bool   `json:"paused"`
}

func (pc *playerConn) handleEngineEvent(ctx context.Context, _ *websocket.Conn, input EngineEventInput) error {
	if errs, ok := pc.validate.Validate(input); !ok {
		return pc.w.send(&Output{Type: "ERROR", Payload: errs})
	}

	// fold the reported flags into the engine mirror first, so the
	// service sees ground truth when it probes during this dispatch
	pc.engine.observe(input.Paused, input.CurrentTime)

	snap, err := pc.playerService.HandleEngineEvent(ctx, &player.EngineEventParams{
		PlayerID:    pc.playerID,
		SessionID:   input.SessionID,
		Type:        input.Type,
		CurrentTime: input.CurrentTime,
		Duration:    input.Duration,
	})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

type DisplayEventInput struct {
	Type string `json:"event_type" validate:"required"`
}

func (pc *playerConn) handleDisplayEvent(ctx context.Context, _ *websocket.Conn, input DisplayEventInput) error {
	if errs, ok := pc.validate.Validate(input); !ok {
		return pc.w.send(&Output{Type: "ERROR", Payload: errs})
	}

	snap, err := pc.playerService.HandleDisplayEvent(ctx, &player.DisplayEventParams{
		PlayerID: pc.playerID,
		Type:     input.Type,
	})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}

func (pc *playerConn) handleGetSnapshot(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	snap, err := pc.playerService.GetSnapshot(ctx, &player.GetSnapshotParams{PlayerID: pc.playerID})
	if err != nil {
		return pc.serviceError(ctx, err)
	}

	return pc.sendSnapshot(snap)
}
