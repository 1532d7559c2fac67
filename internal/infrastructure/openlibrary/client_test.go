package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.URL, "https://covers.openlibrary.org", 5*time.Second, 20)
}

func TestSearch_NormalizesDocs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "dune", r.URL.Query().Get("q"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"docs": [
				{
					"key": "/works/OL893415W",
					"title": "Dune",
					"author_name": ["Frank Herbert"],
					"first_publish_year": 1965,
					"isbn": ["9780441172719", "0441172717"],
					"number_of_pages_median": 658,
					"cover_i": 11481354,
					"publisher": ["Ace Books", "Chilton"]
				},
				{
					"key": "/works/OL000001W",
					"title": "Anonymous Work"
				}
			]
		}`))
	})

	results, err := client.Search(context.Background(), "dune")
	require.NoError(t, err)
	require.Len(t, results, 2)

	dune := results[0]
	assert.Equal(t, "/works/OL893415W", dune.OpenLibraryKey)
	assert.Equal(t, "Dune", dune.Title)
	assert.Equal(t, "Frank Herbert", dune.Author)
	require.NotNil(t, dune.PublicationYear)
	assert.Equal(t, 1965, *dune.PublicationYear)
	require.NotNil(t, dune.ISBN)
	assert.Equal(t, "9780441172719", *dune.ISBN)
	require.NotNil(t, dune.Pages)
	assert.Equal(t, 658, *dune.Pages)
	require.NotNil(t, dune.CoverURL)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/11481354-L.jpg", *dune.CoverURL)
	require.NotNil(t, dune.Publisher)
	assert.Equal(t, "Ace Books", *dune.Publisher)

	// Sparse documents fall back to safe defaults.
	sparse := results[1]
	assert.Equal(t, "Unknown Author", sparse.Author)
	assert.Nil(t, sparse.ISBN)
	assert.Nil(t, sparse.CoverURL)
	assert.Nil(t, sparse.Publisher)
}

func TestSearch_MultipleAuthorsJoined(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"docs": [{"key": "/works/OL1W", "title": "Good Omens", "author_name": ["Terry Pratchett", "Neil Gaiman"]}]}`))
	})

	results, err := client.Search(context.Background(), "good omens")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Terry Pratchett, Neil Gaiman", results[0].Author)
}

func TestSearch_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Search(context.Background(), "dune")
	assert.Error(t, err)
}

func TestGetWorkDetails_StringDescription(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works/OL893415W.json", r.URL.Path)
		w.Write([]byte(`{
			"title": "Dune",
			"description": "A desert planet saga.",
			"covers": [11481354, 8401971],
			"subjects": ["Science fiction"],
			"publishers": ["Ace Books"]
		}`))
	})

	details, err := client.GetWorkDetails(context.Background(), "/works/OL893415W")
	require.NoError(t, err)

	assert.Equal(t, "Dune", details.Title)
	require.NotNil(t, details.Description)
	assert.Equal(t, "A desert planet saga.", *details.Description)
	assert.Equal(t, []string{
		"https://covers.openlibrary.org/b/id/11481354-L.jpg",
		"https://covers.openlibrary.org/b/id/8401971-L.jpg",
	}, details.Covers)
	assert.Equal(t, []string{"Science fiction"}, details.Subjects)
}

func TestGetWorkDetails_ObjectDescription(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title": "Dune", "description": {"type": "/type/text", "value": "Typed description."}}`))
	})

	details, err := client.GetWorkDetails(context.Background(), "works/OL893415W")
	require.NoError(t, err)

	require.NotNil(t, details.Description)
	assert.Equal(t, "Typed description.", *details.Description)
	assert.Empty(t, details.Covers)
	assert.Empty(t, details.Subjects)
}

func TestGetWorkDetails_NoDescription(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title": "Dune"}`))
	})

	details, err := client.GetWorkDetails(context.Background(), "/works/OL893415W")
	require.NoError(t, err)
	assert.Nil(t, details.Description)
}
