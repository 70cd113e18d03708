package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MediaKind distinguishes the two lookup shapes the addon serves.
type MediaKind string

const (
	KindMovie  MediaKind = "movie"
	KindSeries MediaKind = "series"
)

var ErrBadMediaID = errors.New("unrecognised media identifier")

// MediaID identifies either a movie or a single series episode.
type MediaID struct {
	Kind    MediaKind
	IMDB    string
	Season  int
	Episode int
}

// ParseMediaID parses the addon-protocol identifier for the given kind:
// movies are a bare IMDb id, series are "imdbId:season:episode" with decimal
// season/episode (leading zeros not required).
func ParseMediaID(kind, id string) (MediaID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return MediaID{}, ErrBadMediaID
	}

	switch MediaKind(kind) {
	case KindMovie:
		if strings.Contains(id, ":") {
			return MediaID{}, ErrBadMediaID
		}
		return MediaID{Kind: KindMovie, IMDB: id}, nil

	case KindSeries:
		parts := strings.Split(id, ":")
		if len(parts) != 3 || parts[0] == "" {
			return MediaID{}, ErrBadMediaID
		}
		season, err := strconv.Atoi(parts[1])
		if err != nil || season < 0 {
			return MediaID{}, ErrBadMediaID
		}
		episode, err := strconv.Atoi(parts[2])
		if err != nil || episode < 0 {
			return MediaID{}, ErrBadMediaID
		}
		return MediaID{Kind: KindSeries, IMDB: parts[0], Season: season, Episode: episode}, nil
	}

	return MediaID{}, ErrBadMediaID
}

// Query renders the search text sent to the external catalog: the IMDb id
// alone for movies, "imdbId SxxEyy" for episodes (zero-padded below 10).
func (m MediaID) Query() string {
	if m.Kind == KindSeries {
		return fmt.Sprintf("%s S%02dE%02d", m.IMDB, m.Season, m.Episode)
	}
	return m.IMDB
}
