// Package catalog searches the external music catalog and normalizes its
// responses into domain track values. Authentication is supplied by the
// caller through a TokenSource; the sign-in flow itself lives outside this
// core.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/mapmemories/mapmemories/internal/model"
)

// DefaultBaseURL points at the public catalog API.
const DefaultBaseURL = "https://api.spotify.com/v1"

const defaultLimit = 20

// TokenSource supplies a bearer token for catalog requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed token, used by tooling and
// tests.
type StaticToken string

func (t StaticToken) Token(ctx context.Context) (string, error) {
	return string(t), nil
}

// Client is a thin search client over the catalog's REST API.
type Client struct {
	http   *resty.Client
	tokens TokenSource
	log    zerolog.Logger
}

func New(baseURL string, tokens TokenSource, log zerolog.Logger) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)
	return &Client{http: c, tokens: tokens, log: log}
}

// externalTrack / searchResponse structs for JSON binding

type externalTrack struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
	PreviewURL *string `json:"preview_url"`
}

type searchResponse struct {
	Tracks struct {
		Items []externalTrack `json:"items"`
	} `json:"tracks"`
}

// SearchTracks looks up tracks matching the query. A blank query returns an
// empty result without a network call. limit <= 0 falls back to the default.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]model.Track, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog token: %w", err)
	}

	var body searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"q":     trimmed,
			"type":  "track",
			"limit": strconv.Itoa(limit),
		}).
		SetResult(&body).
		Get("/search")
	if err != nil {
		c.log.Error().Err(err).Msg("catalog search request failed")
		return nil, fmt.Errorf("catalog search: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		c.log.Error().Int("status", resp.StatusCode()).Str("body", resp.String()).Msg("catalog search failed")
		return nil, fmt.Errorf("catalog search: status %d", resp.StatusCode())
	}

	tracks := make([]model.Track, 0, len(body.Tracks.Items))
	for _, item := range body.Tracks.Items {
		tracks = append(tracks, normalizeTrack(item))
	}
	return tracks, nil
}

// normalizeTrack maps the catalog's response shape onto the domain Track.
// A missing preview URL is preserved as nil: "preview unavailable" is a
// valid, displayable state.
func normalizeTrack(t externalTrack) model.Track {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	out := model.Track{
		ExternalID: t.ID,
		Title:      t.Name,
		Artist:     strings.Join(names, ", "),
		PreviewURL: t.PreviewURL,
	}
	if len(t.Album.Images) > 0 {
		url := t.Album.Images[0].URL
		out.AlbumArtURL = &url
	}
	return out
}
