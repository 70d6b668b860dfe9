package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
  "tracks": {
    "items": [
      {
        "id": "tr-1",
        "name": "Sea Song",
        "artists": [{"name": "Robert Wyatt"}],
        "album": {"images": [{"url": "https://img.example/a.jpg"}, {"url": "https://img.example/b.jpg"}]},
        "preview_url": "https://audio.example/p.mp3"
      },
      {
        "id": "tr-2",
        "name": "Duet",
        "artists": [{"name": "First"}, {"name": "Second"}],
        "album": {"images": []},
        "preview_url": null
      }
    ]
  }
}`

func TestSearchTracks_NormalizesResponse(t *testing.T) {
	var gotAuth, gotQuery, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok-123"), zerolog.Nop())
	tracks, err := c.SearchTracks(context.Background(), "  sea song ", 5)
	require.NoError(t, err)
	require.Len(t, tracks, 2)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "sea song", gotQuery)
	assert.Equal(t, "5", gotLimit)

	assert.Equal(t, "tr-1", tracks[0].ExternalID)
	assert.Equal(t, "Sea Song", tracks[0].Title)
	assert.Equal(t, "Robert Wyatt", tracks[0].Artist)
	require.NotNil(t, tracks[0].AlbumArtURL)
	assert.Equal(t, "https://img.example/a.jpg", *tracks[0].AlbumArtURL)
	require.NotNil(t, tracks[0].PreviewURL)

	// multiple artists are joined; missing art and preview stay absent
	assert.Equal(t, "First, Second", tracks[1].Artist)
	assert.Nil(t, tracks[1].AlbumArtURL)
	assert.Nil(t, tracks[1].PreviewURL)
}

func TestSearchTracks_BlankQuerySkipsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"), zerolog.Nop())
	tracks, err := c.SearchTracks(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestSearchTracks_NonOKStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"), zerolog.Nop())
	_, err := c.SearchTracks(context.Background(), "sea", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
