package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/streamgate/webshare-addon/internal/api/metrics"
	"github.com/streamgate/webshare-addon/internal/api/middleware"
	"github.com/streamgate/webshare-addon/internal/core/domain"
	"github.com/streamgate/webshare-addon/internal/core/ports"
)

// Manifest announcement, served per device under the gated mount.
type manifest struct {
	ID            string         `json:"id"`
	Version       string         `json:"version"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Resources     []string       `json:"resources"`
	Types         []string       `json:"types"`
	IDPrefixes    []string       `json:"idPrefixes"`
	Catalogs      []struct{}     `json:"catalogs"`
	BehaviorHints map[string]any `json:"behaviorHints"`
}

var addonManifest = manifest{
	ID:          "org.streamgate.webshare.private",
	Version:     "1.0.0",
	Name:        "Webshare Private",
	Description: "Private addon that searches Webshare.",
	Resources:   []string{"stream"},
	Types:       []string{"movie", "series"},
	IDPrefixes:  []string{"tt"},
	Catalogs:    []struct{}{},
	BehaviorHints: map[string]any{
		"configurable": false,
		"adult":        false,
	},
}

// StreamHandler serves the addon-protocol routes behind the access gate.
type StreamHandler struct {
	streams ports.StreamService
	usage   ports.UsageRecorder
}

func NewStreamHandler(streams ports.StreamService, usage ports.UsageRecorder) *StreamHandler {
	return &StreamHandler{streams: streams, usage: usage}
}

type streamsResponse struct {
	Streams []domain.Stream `json:"streams"`
}

// Manifest handles GET /:token/:device/manifest.json.
func (h *StreamHandler) Manifest(c echo.Context) error {
	return c.JSON(http.StatusOK, addonManifest)
}

// Streams handles GET /:token/:device/stream/:type/:id — the stream lookup.
// A malformed media identifier is a client error; everything past that point
// degrades to an empty stream list, never an error payload.
func (h *StreamHandler) Streams(c echo.Context) error {
	mediaType := c.Param("type")
	mediaID := strings.TrimSuffix(c.Param("id"), ".json")

	media, err := domain.ParseMediaID(mediaType, mediaID)
	if err != nil {
		return err
	}

	credential, _ := c.Get(middleware.CtxCredential).(string)
	streams := h.streams.Lookup(c.Request().Context(), media, credential)
	if streams == nil {
		streams = []domain.Stream{}
	}

	outcome := "hit"
	if len(streams) == 0 {
		outcome = "empty"
	}
	metrics.StreamLookupsTotal.WithLabelValues(string(media.Kind), outcome).Inc()
	metrics.StreamsReturned.Observe(float64(len(streams)))

	if h.usage != nil {
		if token, _ := c.Get(middleware.CtxToken).(string); token != "" {
			h.usage.RecordLookup(c.Request().Context(), token)
		}
	}

	return c.JSON(http.StatusOK, streamsResponse{Streams: streams})
}
