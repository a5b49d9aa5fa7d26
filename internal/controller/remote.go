package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/JoeSaf/sencloud-gui/internal/domain"
	"github.com/JoeSaf/sencloud-gui/internal/service/player"
	"github.com/JoeSaf/sencloud-gui/pkg/omitnil"
)

var errUnsupported = errors.New("not supported by client surface")

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// connWriter serializes websocket writes; the engine, the surface and the
// host adapters all share one connection.
type connWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func newConnWriter(conn *websocket.Conn) *connWriter {
	return &connWriter{conn: conn}
}

func (w *connWriter) send(output *Output) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.conn.WriteJSON(output)
}

// connMediaEngine drives the browser-side media element over the
// websocket. Paused and CurrentTime answer from the flags the element last
// reported, which is the ground truth the playback controller checks at
// command time.
type connMediaEngine struct {
	w *connWriter

	mu          sync.Mutex
	paused      bool
	currentTime float64
}

func newConnMediaEngine(w *connWriter) *connMediaEngine {
	return &connMediaEngine{w: w, paused: true}
}

func (e *connMediaEngine) cmd(fields map[string]any) error {
	return e.w.send(&Output{
		Type:    "ENGINE_CMD",
		Payload: omitnil.OmitNilPointers(fields),
	})
}

// observe folds one reported media-element event into the mirror.
func (e *connMediaEngine) observe(paused *bool, currentTime float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if paused != nil {
		e.paused = *paused
	}
	e.currentTime = currentTime
}

func (e *connMediaEngine) Load(ctx context.Context, locator string) error {
	e.mu.Lock()
	e.paused = true
	e.currentTime = 0
	e.mu.Unlock()

	return e.cmd(map[string]any{"op": "load", "locator": locator})
}

func (e *connMediaEngine) Play(ctx context.Context) error {
	return e.cmd(map[string]any{"op": "play"})
}

func (e *connMediaEngine) Pause(ctx context.Context) error {
	return e.cmd(map[string]any{"op": "pause"})
}

func (e *connMediaEngine) SetCurrentTime(ctx context.Context, seconds float64) error {
	e.mu.Lock()
	e.currentTime = seconds
	e.mu.Unlock()

	return e.cmd(map[string]any{"op": "seek", "seconds": seconds})
}

func (e *connMediaEngine) SetVolume(ctx context.Context, level int) error {
	return e.cmd(map[string]any{"op": "set_volume", "level": level})
}

func (e *connMediaEngine) SetMuted(ctx context.Context, muted bool) error {
	return e.cmd(map[string]any{"op": "set_muted", "muted": muted})
}

func (e *connMediaEngine) SetPlaybackRate(ctx context.Context, rate float64) error {
	return e.cmd(map[string]any{"op": "set_rate", "rate": rate})
}

func (e *connMediaEngine) Paused(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.paused
}

func (e *connMediaEngine) CurrentTime(ctx context.Context) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.currentTime
}

type surfaceCapabilities struct {
	nativeFullscreen bool
	orientationLock  bool
}

// connDisplaySurface forwards fullscreen/orientation work to the client.
// Capabilities are reported once at mount; a missing capability fails the
// call synchronously so the coordinator can pick the next fallback.
type connDisplaySurface struct {
	w    *connWriter
	caps surfaceCapabilities
}

func newConnDisplaySurface(w *connWriter, caps surfaceCapabilities) *connDisplaySurface {
	return &connDisplaySurface{w: w, caps: caps}
}

func (s *connDisplaySurface) cmd(op string) error {
	return s.w.send(&Output{
		Type:    "DISPLAY_CMD",
		Payload: map[string]any{"op": op},
	})
}

func (s *connDisplaySurface) RequestNativeFullscreen(ctx context.Context) error {
	if !s.caps.nativeFullscreen {
		return errUnsupported
	}

	return s.cmd("request_fullscreen")
}

func (s *connDisplaySurface) ExitNativeFullscreen(ctx context.Context) error {
	if !s.caps.nativeFullscreen {
		return errUnsupported
	}

	return s.cmd("exit_fullscreen")
}

func (s *connDisplaySurface) EnterEmulatedFullscreen(ctx context.Context) error {
	return s.cmd("enter_emulated")
}

func (s *connDisplaySurface) ExitEmulatedFullscreen(ctx context.Context) error {
	return s.cmd("exit_emulated")
}

func (s *connDisplaySurface) LockLandscape(ctx context.Context) error {
	if !s.caps.orientationLock {
		return errUnsupported
	}

	return s.cmd("lock_landscape")
}

func (s *connDisplaySurface) UnlockOrientation(ctx context.Context) error {
	if !s.caps.orientationLock {
		return errUnsupported
	}

	return s.cmd("unlock_orientation")
}

func (s *connDisplaySurface) SetScrollLock(ctx context.Context, locked bool) error {
	if locked {
		return s.cmd("lock_scroll")
	}

	return s.cmd("unlock_scroll")
}

// connHost pushes engine-initiated notifications back to the presentation
// layer.
type connHost struct {
	w *connWriter
}

func newConnHost(w *connWriter) *connHost {
	return &connHost{w: w}
}

func (h *connHost) PlayerUpdated(ctx context.Context, snapshot *player.Snapshot) {
	h.w.send(&Output{Type: "PLAYER_UPDATED", Payload: snapshot})
}

func (h *connHost) SessionClosed(ctx context.Context) {
	h.w.send(&Output{Type: "SESSION_CLOSED", Payload: nil})
}

func (h *connHost) NextEpisodeStarted(ctx context.Context, next domain.EpisodeRef) {
	h.w.send(&Output{Type: "NEXT_EPISODE", Payload: map[string]any{"next": next}})
}

func (h *connHost) RecommendedSelected(ctx context.Context, selected domain.EpisodeRef) {
	h.w.send(&Output{Type: "RECOMMENDED_SELECTED", Payload: map[string]any{"selected": selected}})
}
