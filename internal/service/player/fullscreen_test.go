package player

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeSaf/sencloud-gui/internal/domain"
)

func TestToggleFullscreenNative(t *testing.T) {
	surface := &fakeSurface{}
	s := newTestService(nil, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: newFakeEngine(), Surface: surface, Host: &fakeHost{}})

	ctx := context.Background()
	openTestItem(t, s, playerID, testItem("ep1"))

	snap, err := s.ToggleFullscreen(ctx, &ToggleFullscreenParams{PlayerID: playerID})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeNativeFullscreen, snap.Fullscreen)

	snap, err = s.ToggleFullscreen(ctx, &ToggleFullscreenParams{PlayerID: playerID})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeWindowed, snap.Fullscreen)

	assert.Equal(t, []string{"request_fullscreen", "exit_fullscreen"}, surface.recorded())
}

func TestNativeFailureFallsBackToEmulated(t *testing.T) {
	surface := &fakeSurface{nativeErr: errors.New("denied")}
	s := newTestService(nil, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: newFakeEngine(), Surface: surface, Host: &fakeHost{}})

	ctx := context.Background()
	openTestItem(t, s, playerID, testItem("ep1"))

	snap, err := s.ToggleFullscreen(ctx, &ToggleFullscreenParams{PlayerID: playerID})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeEmulatedFullscreen, snap.Fullscreen)

	// desktop emulated mode never touches scrolling
	assert.NotContains(t, surface.recorded(), "lock_scroll")

	snap, err = s.ToggleFullscreen(ctx, &ToggleFullscreenParams{PlayerID: playerID})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeWindowed, snap.Fullscreen)
	assert.Contains(t, surface.recorded(), "exit_emulated")
}

func TestTouchFullscreenPath(t *testing.T) {
	surface := &fakeSurface{nativeErr: errors.New("unsupported")}
	s := newTestService(nil, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{
		Engine:      newFakeEngine(),
		Surface:     surface,
		Host:        &fakeHost{},
		TouchDevice: true,
	})

	ctx := context.Background()
	openTestItem(t, s, playerID, testItem("ep1"))

	snap, err := s.ToggleFullscreen(ctx, &ToggleFullscreenParams{PlayerID: playerID})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeEmulatedFullscreen, snap.Fullscreen)
	assert.Equal(t, []string{"lock_landscape", "request_fullscreen", "enter_emulated", "lock_scroll"}, surface.recorded())

	snap, err = s.ToggleFullscreen(ctx, &ToggleFullscreenParams{PlayerID: playerID})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeWindowed, snap.Fullscreen)

	// exit releases every lock the entry took
	recorded := surface.recorded()
	assert.Contains(t, recorded, "exit_emulated")
	assert.Contains(t, recorded, "unlock_scroll")
	assert.Contains(t, recorded, "unlock_orientation")
}

func TestOrientationLockFailureIsNonFatal(t *testing.T) {
	surface := &fakeSurface{lockErr: errors.New("not allowed")}
	s := newTestService(nil, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{
		Engine:      newFakeEngine(),
		Surface:     surface,
		Host:        &fakeHost{},
		TouchDevice: true,
	})

	ctx := context.Background()
	openTestItem(t, s, playerID, testItem("ep1"))

	snap, err := s.ToggleFullscreen(ctx, &ToggleFullscreenParams{PlayerID: playerID})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeNativeFullscreen, snap.Fullscreen)

	_, err = s.ToggleFullscreen(ctx, &ToggleFullscreenParams{PlayerID: playerID})
	require.NoError(t, err)
	// the lock never took, so exit must not try to release it
	assert.NotContains(t, surface.recorded(), "unlock_orientation")
}

func TestEmulatedFailureStaysWindowed(t *testing.T) {
	surface := &fakeSurface{
		nativeErr:   errors.New("denied"),
		emulatedErr: errors.New("denied"),
	}
	s := newTestService(nil, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{
		Engine:      newFakeEngine(),
		Surface:     surface,
		Host:        &fakeHost{},
		TouchDevice: true,
	})

	ctx := context.Background()
	openTestItem(t, s, playerID, testItem("ep1"))

	snap, err := s.ToggleFullscreen(ctx, &ToggleFullscreenParams{PlayerID: playerID})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeWindowed, snap.Fullscreen)
	assert.Contains(t, surface.recorded(), "unlock_orientation")
}

func TestDisplayEventFullscreenExit(t *testing.T) {
	surface := &fakeSurface{}
	s := newTestService(nil, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{
		Engine:      newFakeEngine(),
		Surface:     surface,
		Host:        &fakeHost{},
		TouchDevice: true,
	})

	ctx := context.Background()
	openTestItem(t, s, playerID, testItem("ep1"))

	_, err := s.ToggleFullscreen(ctx, &ToggleFullscreenParams{PlayerID: playerID})
	require.NoError(t, err)

	// the browser kicked the container out of fullscreen itself
	snap, err := s.HandleDisplayEvent(ctx, &DisplayEventParams{PlayerID: playerID, Type: "fullscreenexit"})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeWindowed, snap.Fullscreen)
	assert.Contains(t, surface.recorded(), "unlock_orientation")
}

func TestDisplayEventFullscreenError(t *testing.T) {
	surface := &fakeSurface{}
	s := newTestService(nil, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: newFakeEngine(), Surface: surface, Host: &fakeHost{}})

	ctx := context.Background()
	openTestItem(t, s, playerID, testItem("ep1"))

	_, err := s.ToggleFullscreen(ctx, &ToggleFullscreenParams{PlayerID: playerID})
	require.NoError(t, err)

	snap, err := s.HandleDisplayEvent(ctx, &DisplayEventParams{PlayerID: playerID, Type: "fullscreenerror"})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeEmulatedFullscreen, snap.Fullscreen)
}

func TestAutoFullscreenOnFirstPlayOnly(t *testing.T) {
	engine := newFakeEngine()
	surface := &fakeSurface{}
	s := newTestService(nil, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{
		Engine:         engine,
		Surface:        surface,
		Host:           &fakeHost{},
		AutoFullscreen: true,
	})

	ctx := context.Background()
	sessionID := openTestItem(t, s, playerID, testItem("ep1")).Session.ID

	engine.report(false, 0)
	snap, err := s.HandleEngineEvent(ctx, &EngineEventParams{PlayerID: playerID, SessionID: sessionID, Type: "play"})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeNativeFullscreen, snap.Fullscreen)

	_, err = s.ToggleFullscreen(ctx, &ToggleFullscreenParams{PlayerID: playerID})
	require.NoError(t, err)

	// subsequent playing transitions of the same session stay put
	snap, err = s.HandleEngineEvent(ctx, &EngineEventParams{PlayerID: playerID, SessionID: sessionID, Type: "play"})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeWindowed, snap.Fullscreen)
}

func TestToggleFullscreenRequiresSession(t *testing.T) {
	s := newTestService(nil, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: newFakeEngine(), Surface: &fakeSurface{}, Host: &fakeHost{}})

	_, err := s.ToggleFullscreen(context.Background(), &ToggleFullscreenParams{PlayerID: playerID})
	assert.ErrorIs(t, err, ErrNoSession)
}
