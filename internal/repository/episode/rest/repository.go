package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/JoeSaf/sencloud-gui/internal/repository/episode"
)

type repo struct {
	client  *http.Client
	baseURL string
}

func NewRepo(baseURL string, timeout time.Duration) *repo {
	return &repo{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

type nextResponse struct {
	Success     bool         `json:"success"`
	NextEpisode *episode.Ref `json:"next_episode"`
}

type previousResponse struct {
	Success         bool         `json:"success"`
	PreviousEpisode *episode.Ref `json:"previous_episode"`
}

type seriesResponse struct {
	Success  bool          `json:"success"`
	Episodes []episode.Ref `json:"episodes"`
}

func (r repo) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", episode.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", episode.ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", episode.ErrUnavailable, err)
	}

	return nil
}

func (r repo) GetNext(ctx context.Context, sourceID string) (*episode.Ref, error) {
	var resp nextResponse
	if err := r.get(ctx, "/episode/next/"+sourceID, &resp); err != nil {
		return nil, fmt.Errorf("failed to get next episode: %w", err)
	}

	if !resp.Success || resp.NextEpisode == nil {
		return nil, episode.ErrNotFound
	}

	return resp.NextEpisode, nil
}

func (r repo) GetPrevious(ctx context.Context, sourceID string) (*episode.Ref, error) {
	var resp previousResponse
	if err := r.get(ctx, "/episode/previous/"+sourceID, &resp); err != nil {
		return nil, fmt.Errorf("failed to get previous episode: %w", err)
	}

	if !resp.Success || resp.PreviousEpisode == nil {
		return nil, episode.ErrNotFound
	}

	return resp.PreviousEpisode, nil
}

func (r repo) GetSeries(ctx context.Context, sourceID string) ([]episode.Ref, error) {
	var resp seriesResponse
	if err := r.get(ctx, "/series/"+sourceID, &resp); err != nil {
		return nil, fmt.Errorf("failed to get series: %w", err)
	}

	if !resp.Success {
		return nil, episode.ErrNotFound
	}

	return resp.Episodes, nil
}
