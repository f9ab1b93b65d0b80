package metadata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*GoogleBooksClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := &GoogleBooksClient{
		httpClient:  server.Client(),
		baseURL:     server.URL,
		rateLimiter: newRateLimiter(time.Millisecond),
	}
	return client, server
}

func volumesBody(covers ...map[string]string) []byte {
	type links struct {
		Thumbnail      string `json:"thumbnail,omitempty"`
		SmallThumbnail string `json:"smallThumbnail,omitempty"`
	}
	type info struct {
		Title      string `json:"title"`
		ImageLinks links  `json:"imageLinks"`
	}
	type item struct {
		VolumeInfo info `json:"volumeInfo"`
	}
	items := make([]item, 0, len(covers))
	for _, c := range covers {
		items = append(items, item{VolumeInfo: info{
			Title:      "A Book",
			ImageLinks: links{Thumbnail: c["thumbnail"], SmallThumbnail: c["smallThumbnail"]},
		}})
	}
	body, _ := json.Marshal(map[string]any{"totalItems": len(items), "items": items})
	return body
}

func TestSearchDecodesVolumes(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "golang", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("maxResults"))
		w.Write(volumesBody(map[string]string{"thumbnail": "http://img/1"}))
	})
	defer server.Close()

	volumes, err := client.Search(context.Background(), "golang", 2)
	require.NoError(t, err)
	require.Len(t, volumes, 1)
	assert.Equal(t, "A Book", volumes[0].Title)
}

func TestSearchErrorStatus(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer server.Close()

	_, err := client.Search(context.Background(), "q", 1)
	assert.ErrorContains(t, err, "unexpected status")
}

func TestBestCoverPrefersISBNQuery(t *testing.T) {
	var gotQuery string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write(volumesBody(map[string]string{"thumbnail": "http://img/cover.jpg"}))
	})
	defer server.Close()

	cover, err := client.BestCover(context.Background(), "978-0575081406", "The Name of the Wind", "Rothfuss")
	require.NoError(t, err)
	assert.Equal(t, "isbn:9780575081406", gotQuery)
	assert.Equal(t, "https://img/cover.jpg", cover, "http upgraded to https")
}

func TestBestCoverFallsBackToTitleAuthor(t *testing.T) {
	var gotQuery string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write(volumesBody(map[string]string{"smallThumbnail": "https://img/small.jpg"}))
	})
	defer server.Close()

	cover, err := client.BestCover(context.Background(), "123", "Piranesi", "Clarke")
	require.NoError(t, err)
	assert.Equal(t, "Piranesi Clarke", gotQuery, "short ISBNs are ignored")
	assert.Equal(t, "https://img/small.jpg", cover, "small thumbnail is the fallback")
}

func TestBestCoverNoImages(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write(volumesBody(map[string]string{}))
	})
	defer server.Close()

	cover, err := client.BestCover(context.Background(), "", "Obscure", "Nobody")
	require.NoError(t, err)
	assert.Empty(t, cover)
}
