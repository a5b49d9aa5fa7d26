package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JoeSaf/sencloud-gui/internal/repository/episode"
)

type iEpisodeRepo interface {
	GetNext(ctx context.Context, sourceID string) (*episode.Ref, error)
	GetPrevious(ctx context.Context, sourceID string) (*episode.Ref, error)
	GetSeries(ctx context.Context, sourceID string) ([]episode.Ref, error)
}

// repo is a read-through cache over the directory service. It caches
// episode relationships only, never playback state.
type repo struct {
	rc             *redis.Client
	inner          iEpisodeRepo
	expireDuration time.Duration
}

func NewRepo(rc *redis.Client, inner iEpisodeRepo, expireDuration time.Duration) *repo {
	return &repo{
		rc:             rc,
		inner:          inner,
		expireDuration: expireDuration,
	}
}

func (r repo) getNextKey(sourceID string) string {
	return "episode:" + sourceID + ":next"
}

func (r repo) getPreviousKey(sourceID string) string {
	return "episode:" + sourceID + ":previous"
}

func (r repo) getSeriesKey(sourceID string) string {
	return "episode:" + sourceID + ":series"
}

func (r repo) getCached(ctx context.Context, key string, out any) (bool, error) {
	raw, err := r.rc.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read cache: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}

	return true, nil
}

func (r repo) setCached(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	// best effort, a failed write only costs a directory roundtrip later
	r.rc.Set(ctx, key, raw, r.expireDuration)
}

func (r repo) GetNext(ctx context.Context, sourceID string) (*episode.Ref, error) {
	key := r.getNextKey(sourceID)

	var cached episode.Ref
	if ok, err := r.getCached(ctx, key, &cached); err == nil && ok {
		return &cached, nil
	}

	ref, err := r.inner.GetNext(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	r.setCached(ctx, key, ref)

	return ref, nil
}

func (r repo) GetPrevious(ctx context.Context, sourceID string) (*episode.Ref, error) {
	key := r.getPreviousKey(sourceID)

	var cached episode.Ref
	if ok, err := r.getCached(ctx, key, &cached); err == nil && ok {
		return &cached, nil
	}

	ref, err := r.inner.GetPrevious(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	r.setCached(ctx, key, ref)

	return ref, nil
}

func (r repo) GetSeries(ctx context.Context, sourceID string) ([]episode.Ref, error) {
	key := r.getSeriesKey(sourceID)

	var cached []episode.Ref
	if ok, err := r.getCached(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}

	series, err := r.inner.GetSeries(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	r.setCached(ctx, key, series)

	return series, nil
}
