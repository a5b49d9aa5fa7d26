package player

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeSaf/sencloud-gui/internal/domain"
	"github.com/JoeSaf/sencloud-gui/internal/repository/episode"
)

func TestEpisodeContextFetched(t *testing.T) {
	repo := &stubEpisodeRepo{
		next:     map[string]episode.Ref{"ep2": testRef("ep3", 3)},
		previous: map[string]episode.Ref{"ep2": testRef("ep1", 1)},
		series: map[string][]episode.Ref{
			// deliberately unordered
			"ep2": {testRef("ep3", 3), testRef("ep1", 1), testRef("ep2", 2)},
		},
	}
	s := newTestService(repo, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: newFakeEngine(), Surface: &fakeSurface{}, Host: &fakeHost{}})

	openTestItem(t, s, playerID, testItem("ep2"))
	waitEpisodes(t, s, playerID)

	episodes := snapshotOf(t, s, playerID).Episodes
	require.NotNil(t, episodes.Next)
	require.NotNil(t, episodes.Previous)
	assert.Equal(t, "ep3", episodes.Next.SourceID)
	assert.Equal(t, "ep1", episodes.Previous.SourceID)

	require.Len(t, episodes.SeriesList, 3)
	assert.Equal(t, "ep1", episodes.SeriesList[0].SourceID)
	assert.Equal(t, "ep2", episodes.SeriesList[1].SourceID)
	assert.Equal(t, "ep3", episodes.SeriesList[2].SourceID)
	assert.Equal(t, 1, episodes.CurrentIndex)
}

func TestDirectoryFailureDegrades(t *testing.T) {
	repo := &stubEpisodeRepo{err: episode.ErrUnavailable}
	s := newTestService(repo, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: newFakeEngine(), Surface: &fakeSurface{}, Host: &fakeHost{}, Autoplay: true})

	ctx := context.Background()
	sessionID := openTestItem(t, s, playerID, testItem("ep1")).Session.ID
	waitEpisodes(t, s, playerID)

	episodes := snapshotOf(t, s, playerID).Episodes
	assert.Nil(t, episodes.Next)
	assert.Nil(t, episodes.Previous)
	assert.Empty(t, episodes.SeriesList)

	_, err := s.PlayNext(ctx, &PlayNextParams{PlayerID: playerID})
	assert.ErrorIs(t, err, ErrNoNextEpisode)

	_, err = s.PlayPrevious(ctx, &PlayPreviousParams{PlayerID: playerID})
	assert.ErrorIs(t, err, ErrNoPreviousEpisode)

	// end of media with nothing to hand off to surfaces recommendations
	snap, err := s.HandleEngineEvent(ctx, &EngineEventParams{PlayerID: playerID, SessionID: sessionID, Type: "ended"})
	require.NoError(t, err)
	assert.False(t, snap.AutoplayPending)
	assert.True(t, snap.ShowRecommendations)
}

func TestAutoplayHandoff(t *testing.T) {
	repo := &stubEpisodeRepo{
		next: map[string]episode.Ref{"ep1": testRef("ep2", 2)},
	}
	engine := newFakeEngine()
	host := &fakeHost{}
	s := newTestService(repo, &Config{AutoplayDelay: 30 * time.Millisecond})
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: engine, Surface: &fakeSurface{}, Host: host, Autoplay: true})

	ctx := context.Background()
	sessionID := openTestItem(t, s, playerID, testItem("ep1")).Session.ID
	waitEpisodes(t, s, playerID)

	snap, err := s.HandleEngineEvent(ctx, &EngineEventParams{PlayerID: playerID, SessionID: sessionID, Type: "ended"})
	require.NoError(t, err)
	assert.True(t, snap.AutoplayPending)
	assert.Greater(t, snap.AutoplayRemaining, 0.0)
	assert.False(t, snap.ShowRecommendations)

	require.Eventually(t, func() bool {
		snap, err := s.GetSnapshot(ctx, &GetSnapshotParams{PlayerID: playerID})
		return err == nil && snap.Session != nil && snap.Session.SourceID == "ep2"
	}, time.Second, 5*time.Millisecond)

	nextStarted := host.nextStartedRefs()
	require.Len(t, nextStarted, 1)
	assert.Equal(t, "ep2", nextStarted[0].SourceID)
	assert.Contains(t, engine.loaded(), "media/ep2.mp4")
	assert.False(t, snapshotOf(t, s, playerID).AutoplayPending)
}

func TestCancelAutoplay(t *testing.T) {
	repo := &stubEpisodeRepo{
		next: map[string]episode.Ref{"ep1": testRef("ep2", 2)},
	}
	host := &fakeHost{}
	s := newTestService(repo, &Config{AutoplayDelay: 30 * time.Millisecond})
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: newFakeEngine(), Surface: &fakeSurface{}, Host: host, Autoplay: true})

	ctx := context.Background()
	sessionID := openTestItem(t, s, playerID, testItem("ep1")).Session.ID
	waitEpisodes(t, s, playerID)

	_, err := s.HandleEngineEvent(ctx, &EngineEventParams{PlayerID: playerID, SessionID: sessionID, Type: "ended"})
	require.NoError(t, err)

	snap, err := s.CancelAutoplay(ctx, &CancelAutoplayParams{PlayerID: playerID})
	require.NoError(t, err)
	assert.False(t, snap.AutoplayPending)

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, "ep1", snapshotOf(t, s, playerID).Session.SourceID)
	assert.Empty(t, host.nextStartedRefs())
}

func TestDisablingAutoplayCancelsCountdown(t *testing.T) {
	repo := &stubEpisodeRepo{
		next: map[string]episode.Ref{"ep1": testRef("ep2", 2)},
	}
	s := newTestService(repo, &Config{AutoplayDelay: 30 * time.Millisecond})
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: newFakeEngine(), Surface: &fakeSurface{}, Host: &fakeHost{}, Autoplay: true})

	ctx := context.Background()
	sessionID := openTestItem(t, s, playerID, testItem("ep1")).Session.ID
	waitEpisodes(t, s, playerID)

	_, err := s.HandleEngineEvent(ctx, &EngineEventParams{PlayerID: playerID, SessionID: sessionID, Type: "ended"})
	require.NoError(t, err)

	snap, err := s.SetAutoplay(ctx, &SetAutoplayParams{PlayerID: playerID, Enabled: false})
	require.NoError(t, err)
	assert.False(t, snap.AutoplayPending)
	assert.False(t, snap.AutoplayEnabled)

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, "ep1", snapshotOf(t, s, playerID).Session.SourceID)
}

func TestStaleFetchDiscarded(t *testing.T) {
	repo := &stubEpisodeRepo{
		delay: 50 * time.Millisecond,
		next: map[string]episode.Ref{
			"ep1": testRef("wrong", 9),
			"ep2": testRef("right", 3),
		},
	}
	s := newTestService(repo, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: newFakeEngine(), Surface: &fakeSurface{}, Host: &fakeHost{}})

	openTestItem(t, s, playerID, testItem("ep1"))
	openTestItem(t, s, playerID, testItem("ep2"))

	waitEpisodes(t, s, playerID)

	snap := snapshotOf(t, s, playerID)
	assert.Equal(t, "ep2", snap.Session.SourceID)
	require.NotNil(t, snap.Episodes.Next)
	assert.Equal(t, "right", snap.Episodes.Next.SourceID)
}

func TestPlayNext(t *testing.T) {
	repo := &stubEpisodeRepo{
		next: map[string]episode.Ref{"ep1": testRef("ep2", 2)},
	}
	host := &fakeHost{}
	s := newTestService(repo, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: newFakeEngine(), Surface: &fakeSurface{}, Host: host})

	ctx := context.Background()
	openTestItem(t, s, playerID, testItem("ep1"))
	waitEpisodes(t, s, playerID)

	snap, err := s.PlayNext(ctx, &PlayNextParams{PlayerID: playerID})
	require.NoError(t, err)
	assert.Equal(t, "ep2", snap.Session.SourceID)
	assert.Equal(t, domain.StateLoading, snap.State)

	nextStarted := host.nextStartedRefs()
	require.Len(t, nextStarted, 1)
	assert.Equal(t, "ep2", nextStarted[0].SourceID)
}

func TestPlayPrevious(t *testing.T) {
	repo := &stubEpisodeRepo{
		previous: map[string]episode.Ref{"ep2": testRef("ep1", 1)},
	}
	s := newTestService(repo, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: newFakeEngine(), Surface: &fakeSurface{}, Host: &fakeHost{}})

	openTestItem(t, s, playerID, testItem("ep2"))
	waitEpisodes(t, s, playerID)

	snap, err := s.PlayPrevious(context.Background(), &PlayPreviousParams{PlayerID: playerID})
	require.NoError(t, err)
	assert.Equal(t, "ep1", snap.Session.SourceID)
}

func TestPlayFromList(t *testing.T) {
	repo := &stubEpisodeRepo{
		series: map[string][]episode.Ref{
			"ep1": {testRef("ep1", 1), testRef("ep2", 2), testRef("ep3", 3)},
		},
	}
	s := newTestService(repo, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: newFakeEngine(), Surface: &fakeSurface{}, Host: &fakeHost{}})

	ctx := context.Background()
	openTestItem(t, s, playerID, testItem("ep1"))
	waitEpisodes(t, s, playerID)

	snap, err := s.PlayFromList(ctx, &PlayFromListParams{PlayerID: playerID, SourceID: "ep3"})
	require.NoError(t, err)
	assert.Equal(t, "ep3", snap.Session.SourceID)

	_, err = s.PlayFromList(ctx, &PlayFromListParams{PlayerID: playerID, SourceID: "nope"})
	assert.ErrorIs(t, err, ErrEpisodeNotInList)
}

func TestSelectRecommended(t *testing.T) {
	host := &fakeHost{}
	s := newTestService(nil, nil)

	recommended := domain.EpisodeRef{
		SourceID: "movie2",
		Kind:     domain.KindVideo,
		Locator:  "media/movie2.mp4",
		Title:    "movie2",
	}
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{
		Engine:          newFakeEngine(),
		Surface:         &fakeSurface{},
		Host:            host,
		Recommendations: []domain.EpisodeRef{recommended},
	})

	ctx := context.Background()
	openTestItem(t, s, playerID, testItem("movie1"))

	snap, err := s.SelectRecommended(ctx, &SelectRecommendedParams{PlayerID: playerID, SourceID: "movie2"})
	require.NoError(t, err)
	assert.Equal(t, "movie2", snap.Session.SourceID)

	selected := host.recommendedRefs()
	require.Len(t, selected, 1)
	assert.Equal(t, "movie2", selected[0].SourceID)

	_, err = s.SelectRecommended(ctx, &SelectRecommendedParams{PlayerID: playerID, SourceID: "nope"})
	assert.ErrorIs(t, err, ErrEpisodeNotInList)
}

func TestSetRecommendations(t *testing.T) {
	s := newTestService(nil, nil)
	playerID := mountTestPlayer(t, s, &CreatePlayerParams{Engine: newFakeEngine(), Surface: &fakeSurface{}, Host: &fakeHost{}})

	snap, err := s.SetRecommendations(context.Background(), &SetRecommendationsParams{
		PlayerID:        playerID,
		Recommendations: []domain.EpisodeRef{{SourceID: "movie2", Kind: domain.KindVideo, Locator: "media/movie2.mp4"}},
	})
	require.NoError(t, err)
	require.Len(t, snap.Recommendations, 1)
	assert.Equal(t, "movie2", snap.Recommendations[0].SourceID)
}
