package player

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeSaf/sencloud-gui/internal/domain"
)

func TestOpenLoadsMedia(t *testing.T) {
	engine := newFakeEngine()
	s := newTestService(nil, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: engine, Surface: &fakeSurface{}, Host: &fakeHost{}})

	item := testItem("ep1")
	item.DurationHint = 1200

	snap := openTestItem(t, s, playerID, item)
	assert.Equal(t, domain.StateLoading, snap.State)
	assert.Equal(t, "ep1", snap.Session.SourceID)
	assert.Equal(t, 1200.0, snap.Duration)
	assert.Equal(t, domain.ControlsVisible, snap.Controls)
	assert.Equal(t, []string{"media/ep1.mp4"}, engine.loaded())
}

func TestOpenLoadFailure(t *testing.T) {
	engine := newFakeEngine()
	engine.loadErr = errors.New("decoder exploded")
	s := newTestService(nil, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: engine, Surface: &fakeSurface{}, Host: &fakeHost{}})

	snap := openTestItem(t, s, playerID, testItem("ep1"))
	assert.Equal(t, domain.StateErrored, snap.State)
	assert.NotNil(t, snap.Session)
}

func TestOpenReplacesActiveSession(t *testing.T) {
	engine := newFakeEngine()
	s := newTestService(nil, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: engine, Surface: &fakeSurface{}, Host: &fakeHost{}})

	first := openTestItem(t, s, playerID, testItem("ep1"))
	second := openTestItem(t, s, playerID, testItem("ep2"))

	assert.NotEqual(t, first.Session.ID, second.Session.ID)
	assert.Equal(t, domain.StateLoading, second.State)
	assert.Equal(t, []string{"media/ep1.mp4", "media/ep2.mp4"}, engine.loaded())
	assert.GreaterOrEqual(t, engine.pauseCount(), 1)
}

func TestReplaceRequiresSession(t *testing.T) {
	s := newTestService(nil, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: newFakeEngine(), Surface: &fakeSurface{}, Host: &fakeHost{}})

	_, err := s.Replace(context.Background(), &ReplaceParams{PlayerID: playerID, Item: testItem("ep1")})
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestCloseFiresSessionClosedOnce(t *testing.T) {
	host := &fakeHost{}
	s := newTestService(nil, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: newFakeEngine(), Surface: &fakeSurface{}, Host: host})

	ctx := context.Background()
	openTestItem(t, s, playerID, testItem("ep1"))

	snap, err := s.Close(ctx, &CloseParams{PlayerID: playerID})
	require.NoError(t, err)
	assert.Nil(t, snap.Session)
	assert.Equal(t, domain.StateIdle, snap.State)
	assert.Equal(t, 1, host.closedCount())

	// closing with no session is a no-op
	snap, err = s.Close(ctx, &CloseParams{PlayerID: playerID})
	require.NoError(t, err)
	assert.Nil(t, snap.Session)
	assert.Equal(t, 1, host.closedCount())
}

func TestCloseRestoresWindowedSurface(t *testing.T) {
	surface := &fakeSurface{}
	s := newTestService(nil, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: newFakeEngine(), Surface: surface, Host: &fakeHost{}})

	ctx := context.Background()
	openTestItem(t, s, playerID, testItem("ep1"))

	_, err := s.ToggleFullscreen(ctx, &ToggleFullscreenParams{PlayerID: playerID})
	require.NoError(t, err)

	snap, err := s.Close(ctx, &CloseParams{PlayerID: playerID})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeWindowed, snap.Fullscreen)
	assert.Contains(t, surface.recorded(), "exit_fullscreen")
}
