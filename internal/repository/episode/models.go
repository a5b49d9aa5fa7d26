package episode

type Ref struct {
	SourceID     string  `json:"source_id" redis:"source_id"`
	Kind         string  `json:"kind" redis:"kind"`
	Locator      string  `json:"locator" redis:"locator"`
	Title        string  `json:"title" redis:"title"`
	Poster       string  `json:"poster" redis:"poster"`
	DurationHint float64 `json:"duration_hint" redis:"duration_hint"`
	Number       int     `json:"number" redis:"number"`
}
