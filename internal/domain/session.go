package domain

type MediaKind string

const (
	KindVideo MediaKind = "video"
	KindAudio MediaKind = "audio"
	KindImage MediaKind = "image"
)

// MediaItem is what the host hands over when it asks for playback.
type MediaItem struct {
	SourceID     string    `json:"source_id"`
	Kind         MediaKind `json:"kind"`
	Locator      string    `json:"locator"`
	Title        string    `json:"title"`
	Poster       string    `json:"poster"`
	DurationHint float64   `json:"duration_hint"`
}

// PlaybackSession is the identity of the currently loaded media item.
// It is replaced wholesale on item change, never mutated in place.
type PlaybackSession struct {
	ID           string    `json:"id"`
	SourceID     string    `json:"source_id"`
	Kind         MediaKind `json:"kind"`
	Locator      string    `json:"locator"`
	Title        string    `json:"title"`
	Poster       string    `json:"poster"`
	DurationHint float64   `json:"duration_hint"`

	// FirstPlayDone flips once, on the first playing transition of the
	// session. It gates auto-fullscreen on first play.
	FirstPlayDone bool `json:"-"`
}

func NewPlaybackSession(id string, item *MediaItem) *PlaybackSession {
	return &PlaybackSession{
		ID:           id,
		SourceID:     item.SourceID,
		Kind:         item.Kind,
		Locator:      item.Locator,
		Title:        item.Title,
		Poster:       item.Poster,
		DurationHint: item.DurationHint,
	}
}
