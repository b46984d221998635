package openlibrary

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediadiet/mediadiet/internal/catalog"
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
	"github.com/mediadiet/mediadiet/internal/validation"
)

func newTestClient(t *testing.T, routes map[string]string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(Config{
		BaseURL:           server.URL,
		Timeout:           time.Second,
		RequestsPerSecond: 1000,
		Burst:             100,
	}, server.Client(), validation.New(), logger)
}

func intPtr(i int) *int { return &i }

func TestDedupe(t *testing.T) {
	docs := []searchDoc{
		{Key: "/works/A", Title: "Dune", AuthorName: []string{"Frank Herbert"}, FirstPublishYear: intPtr(1984)},
		{Key: "/works/B", Title: "Dune Messiah", AuthorName: []string{"Frank Herbert"}, FirstPublishYear: intPtr(1969)},
		{Key: "/works/C", Title: "Dune", AuthorName: []string{"Frank Herbert"}, FirstPublishYear: intPtr(1965)},
		{Key: "/works/D", Title: "Dune", AuthorName: []string{"Frank Herbert"}, FirstPublishYear: intPtr(1965)},
		{Key: "/works/E", Title: "Dune", AuthorName: []string{"Someone Else"}, FirstPublishYear: intPtr(1900)},
	}

	got := dedupe(docs)
	keys := make([]string, len(got))
	for i, d := range got {
		keys[i] = d.Key
	}
	// C is earliest; D ties with C and loses to the first occurrence.
	assert.Equal(t, []string{"/works/C", "/works/B", "/works/E"}, keys)
}

func TestDedupe_MissingYearsKeepFirst(t *testing.T) {
	docs := []searchDoc{
		{Key: "/works/A", Title: "Emma", AuthorName: []string{"Jane Austen"}},
		{Key: "/works/B", Title: "Emma", AuthorName: []string{"Jane Austen"}, FirstPublishYear: intPtr(1815)},
		{Key: "/works/C", Title: "Emma", AuthorName: []string{"Jane Austen"}},
	}

	got := dedupe(docs)
	require.Len(t, got, 1)
	assert.Equal(t, "/works/A", got[0].Key)
}

func TestDedupe_UnicodeNormalization(t *testing.T) {
	docs := []searchDoc{
		{Key: "/works/A", Title: "Caf\u00e9", AuthorName: []string{"X"}, FirstPublishYear: intPtr(2000)},
		{Key: "/works/B", Title: "Cafe\u0301", AuthorName: []string{"X"}, FirstPublishYear: intPtr(1990)},
	}

	got := dedupe(docs)
	require.Len(t, got, 1)
	assert.Equal(t, "/works/B", got[0].Key)
}

func TestParseYear(t *testing.T) {
	tests := map[string]string{
		"1974":           "1974",
		"May 1974":       "1974",
		"March 1, 1995":  "1995",
		"1995-03-01":     "1995",
		"":               "",
		"unknown":        "",
		"c. 12345 pages": "",
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseYear(in), in)
	}
}

func TestSearchBooks(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"/search.json": `{"docs":[
			{"key":"/works/OL1W","title":"Dune","author_name":["Frank Herbert"],"first_publish_year":1965,"cover_i":11481354},
			{"key":"/works/OL2W","title":"Dune","author_name":["Frank Herbert"],"first_publish_year":1990},
			{"key":"/works/OL3W","title":"Anonymous Pamphlet","cover_i":-1}
		]}`,
	})

	results, err := client.SearchBooks(context.Background(), "dune")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, catalog.Result{
		ID:       "OL1W",
		Title:    "Dune",
		Year:     "1965",
		CoverRef: "11481354",
		Creators: []string{"Frank Herbert"},
	}, results[0])
	assert.Equal(t, "", results[1].CoverRef)
}

func TestSearchBooks_BlankTerm(t *testing.T) {
	client := newTestClient(t, nil)
	_, err := client.SearchBooks(context.Background(), "\t")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestSearchBooks_InvalidShape(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"/search.json": `{"docs":[{"key":"OL1W","title":"Dune"}]}`,
	})
	_, err := client.SearchBooks(context.Background(), "dune")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestGetBook(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"/works/OL123.json": `{
			"key":"/works/OL123","title":"Good Omens","covers":[-1, 8231856],
			"first_publish_date":"May 1990",
			"authors":[{"author":{"key":"/authors/OL1A"}},{"author":{"key":"/authors/OL2A"}}]
		}`,
		"/authors/OL1A.json": `{"key":"/authors/OL1A","name":"Terry Pratchett"}`,
		"/authors/OL2A.json": `{"key":"/authors/OL2A","name":"Neil Gaiman"}`,
	})

	book, err := client.GetBook(context.Background(), "OL123")
	require.NoError(t, err)
	assert.Equal(t, "OL123", book.ID)
	assert.Equal(t, "Good Omens", book.Title)
	assert.Equal(t, "1990", book.FirstPublishYear)
	assert.Equal(t, "8231856", book.CoverID)
	assert.Equal(t, []catalog.Credit{
		{ID: "OL1A", Name: "Terry Pratchett"},
		{ID: "OL2A", Name: "Neil Gaiman"},
	}, book.Authors)
}

func TestGetBook_AuthorFailure(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"/works/OL9.json": `{"key":"/works/OL9","title":"Orphan","authors":[{"author":{"key":"/authors/OLX"}}]}`,
	})

	_, err := client.GetBook(context.Background(), "OL9")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestGetBook_NotFound(t *testing.T) {
	client := newTestClient(t, nil)
	_, err := client.GetBook(context.Background(), "OL404")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
