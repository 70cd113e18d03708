package domain

// SearchCandidate is one file record returned by the external catalog.
// Ephemeral, produced per request. Ident is mandatory: a record without it
// cannot be resolved and is dropped by the parser.
type SearchCandidate struct {
	Name      string
	Ident     string
	SizeBytes int64
}

// Stream is one playable entry in the addon's stream response.
// Field names follow the addon protocol's stream object.
type Stream struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Name  string `json:"name"`
}
