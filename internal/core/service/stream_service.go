package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/streamgate/webshare-addon/internal/core/domain"
	"github.com/streamgate/webshare-addon/internal/core/ports"
)

const (
	// searchLimit is the number of candidates requested from the catalog.
	searchLimit = 50
	// maxResolved bounds the per-request round trips to the link endpoint.
	// Candidates beyond this cut are never attempted, and a failed candidate
	// is not replaced by the next one.
	maxResolved = 10

	providerName = "Webshare"
	titlePrefix  = "[Webshare] "
)

// StreamService is the resolution pipeline: it builds the search query from
// a media identifier, fetches candidates and resolves them into playable
// streams one by one, in catalog order.
type StreamService struct {
	searcher ports.Searcher
	resolver ports.LinkResolver
	log      zerolog.Logger
}

func NewStreamService(searcher ports.Searcher, resolver ports.LinkResolver, log zerolog.Logger) *StreamService {
	return &StreamService{searcher: searcher, resolver: resolver, log: log}
}

// Lookup returns the playable streams for media, possibly none. Without a
// session credential it returns immediately; no network call is made.
// Resolution is deliberately sequential: parallel bursts under a single
// account credential are not worth the latency win here.
func (s *StreamService) Lookup(ctx context.Context, media domain.MediaID, credential string) []domain.Stream {
	if credential == "" {
		return []domain.Stream{}
	}

	query := media.Query()
	candidates := s.searcher.Search(ctx, query, credential, searchLimit)
	if len(candidates) == 0 {
		s.log.Debug().Str("query", query).Msg("no candidates")
		return []domain.Stream{}
	}
	if len(candidates) > maxResolved {
		candidates = candidates[:maxResolved]
	}

	streams := make([]domain.Stream, 0, len(candidates))
	for _, c := range candidates {
		if ctx.Err() != nil {
			// Caller is gone; do not hand back a partial result.
			return []domain.Stream{}
		}
		url := s.resolver.ResolveLink(ctx, c.Ident, credential)
		if url == "" {
			continue
		}
		streams = append(streams, domain.Stream{
			URL:   url,
			Title: streamTitle(c),
			Name:  providerName,
		})
	}

	s.log.Info().
		Str("query", query).
		Int("candidates", len(candidates)).
		Int("streams", len(streams)).
		Msg("resolved streams")
	return streams
}

// streamTitle renders the display label: the candidate's name plus its size
// in whole megabytes. Unknown size (0) gets no size line.
func streamTitle(c domain.SearchCandidate) string {
	if c.SizeBytes <= 0 {
		return titlePrefix + c.Name
	}
	return fmt.Sprintf("%s%s\n%.0f MB", titlePrefix, c.Name, float64(c.SizeBytes)/(1024*1024))
}
