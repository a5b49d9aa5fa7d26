package domain

// EpisodeRef identifies one playable episode in a series.
type EpisodeRef struct {
	SourceID     string    `json:"source_id"`
	Kind         MediaKind `json:"kind"`
	Locator      string    `json:"locator"`
	Title        string    `json:"title"`
	Poster       string    `json:"poster"`
	DurationHint float64   `json:"duration_hint"`
	Number       int       `json:"number"`
}

func (r EpisodeRef) AsMediaItem() *MediaItem {
	return &MediaItem{
		SourceID:     r.SourceID,
		Kind:         r.Kind,
		Locator:      r.Locator,
		Title:        r.Title,
		Poster:       r.Poster,
		DurationHint: r.DurationHint,
	}
}

// EpisodeContext is the next/previous/series neighborhood of one session.
// SessionID tags the session the context was fetched for; a context tagged
// with a dead session must never be shown against a new one.
type EpisodeContext struct {
	SessionID    string       `json:"-"`
	Previous     *EpisodeRef  `json:"previous"`
	Next         *EpisodeRef  `json:"next"`
	SeriesList   []EpisodeRef `json:"series_list"`
	CurrentIndex int          `json:"current_index"`
}
