// Package openlibrary is a book catalog backed by the Open Library API.
package openlibrary

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/text/unicode/norm"

	"github.com/mediadiet/mediadiet/internal/catalog"
	"github.com/mediadiet/mediadiet/internal/validation"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://openlibrary.org"

const (
	searchLimit      = 20
	searchFields     = "key,title,author_name,author_key,first_publish_year,cover_i"
	maxAuthorFetches = 4
	worksPrefix      = "/works/"
	authorsPrefix    = "/authors/"
)

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// Config configures a Client.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client implements catalog.BookCatalog.
type Client struct {
	http *catalog.HTTPClient
}

var _ catalog.BookCatalog = (*Client)(nil)

// New creates an Open Library client. httpClient is shared across providers.
func New(cfg Config, httpClient *http.Client, v *validation.Validator, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		http: catalog.NewHTTPClient(catalog.ClientOptions{
			Provider:          "openlibrary",
			BaseURL:           cfg.BaseURL,
			HTTP:              httpClient,
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
			Validator:         v,
			Logger:            logger,
		}),
	}
}

// SearchBooks returns works matching term. Editions sharing a title and
// author list collapse to the earliest published one.
func (c *Client) SearchBooks(ctx context.Context, term string) ([]catalog.Result, error) {
	term, err := catalog.RequireTerm(term)
	if err != nil {
		return nil, err
	}

	query := url.Values{
		"q":      {term},
		"fields": {searchFields},
		"limit":  {strconv.Itoa(searchLimit)},
	}
	var resp searchResponse
	if err := c.http.GetJSON(ctx, "/search.json", query, &resp); err != nil {
		return nil, err
	}

	docs := dedupe(resp.Docs)
	results := make([]catalog.Result, 0, len(docs))
	for _, d := range docs {
		r := catalog.Result{
			ID:       strings.TrimPrefix(d.Key, worksPrefix),
			Title:    d.Title,
			Creators: d.AuthorName,
		}
		if d.FirstPublishYear != nil {
			r.Year = strconv.Itoa(*d.FirstPublishYear)
		}
		if d.CoverI != nil && *d.CoverI > 0 {
			r.CoverRef = strconv.Itoa(*d.CoverI)
		}
		results = append(results, r)
	}
	return results, nil
}

// GetBook fetches a work and resolves its author names.
func (c *Client) GetBook(ctx context.Context, id string) (*catalog.BookDetail, error) {
	id, err := catalog.RequireID(id)
	if err != nil {
		return nil, err
	}

	var work rawWork
	if err := c.http.GetJSON(ctx, worksPrefix+id+".json", nil, &work); err != nil {
		return nil, err
	}

	authors, err := c.authors(ctx, work.Authors)
	if err != nil {
		return nil, err
	}

	book := &catalog.BookDetail{
		ID:               strings.TrimPrefix(work.Key, worksPrefix),
		Title:            work.Title,
		FirstPublishYear: ParseYear(work.FirstPublishDate),
		Authors:          authors,
	}
	// Open Library uses -1 as a "no cover" placeholder.
	for _, cover := range work.Covers {
		if cover > 0 {
			book.CoverID = strconv.Itoa(cover)
			break
		}
	}
	return book, nil
}

// authors fetches author records concurrently, preserving credit order.
func (c *Client) authors(ctx context.Context, refs []rawWorkAuthor) ([]catalog.Credit, error) {
	credits := make([]catalog.Credit, len(refs))

	p := pool.New().WithErrors().WithContext(ctx).WithFirstError().WithMaxGoroutines(maxAuthorFetches)
	for i, ref := range refs {
		p.Go(func(ctx context.Context) error {
			var a rawAuthor
			if err := c.http.GetJSON(ctx, ref.Author.Key+".json", nil, &a); err != nil {
				return err
			}
			credits[i] = catalog.Credit{ID: strings.TrimPrefix(a.Key, authorsPrefix), Name: a.Name}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return credits, nil
}

// ParseYear extracts the first four-digit year from a loose date string.
func ParseYear(s string) string {
	m := yearPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

// dedupe keeps one doc per (title, author list). The kept doc has the
// earliest first-publish year and sits at the first occurrence's position;
// a missing or equal year never displaces the first occurrence.
func dedupe(docs []searchDoc) []searchDoc {
	out := make([]searchDoc, 0, len(docs))
	index := make(map[string]int, len(docs))

	for _, d := range docs {
		key := dedupeKey(d)
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, d)
			continue
		}
		kept := out[i]
		if d.FirstPublishYear != nil && kept.FirstPublishYear != nil && *d.FirstPublishYear < *kept.FirstPublishYear {
			out[i] = d
		}
	}
	return out
}

func dedupeKey(d searchDoc) string {
	var sb strings.Builder
	sb.WriteString(norm.NFC.String(d.Title))
	for _, a := range d.AuthorName {
		sb.WriteByte(0)
		sb.WriteString(norm.NFC.String(a))
	}
	return sb.String()
}
