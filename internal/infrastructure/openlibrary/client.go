package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookworm-backend/pkg/logger"
)

// searchFields is the projection requested from the search endpoint;
// anything outside this list is dead weight on the wire.
const searchFields = "key,title,author_name,first_publish_year,isbn,number_of_pages_median,cover_i,publisher"

// =====================================================
// OPEN LIBRARY CLIENT
// =====================================================

// Client talks to the public Open Library API. It is read-only and
// unauthenticated; all methods honor the caller's context.
type Client struct {
	baseURL    string
	coversURL  string
	limit      int
	httpClient *http.Client
}

func NewClient(baseURL, coversURL string, timeout time.Duration, limit int) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		coversURL: strings.TrimRight(coversURL, "/"),
		limit:     limit,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SearchResult is one normalized search hit.
type SearchResult struct {
	OpenLibraryKey  string  `json:"open_library_key"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	PublicationYear *int    `json:"publication_year"`
	ISBN            *string `json:"isbn"`
	Pages           *int    `json:"pages"`
	CoverURL        *string `json:"cover_url"`
	Publisher       *string `json:"publisher"`
}

// WorkDetails is the normalized detail view of one work.
type WorkDetails struct {
	Title         string   `json:"title"`
	Description   *string  `json:"description"`
	Covers        []string `json:"covers"`
	Subjects      []string `json:"subjects"`
	PublishDate   *string  `json:"publish_date"`
	Publishers    []string `json:"publishers"`
	NumberOfPages *int     `json:"number_of_pages"`
}

// searchDoc mirrors the raw search.json document shape.
type searchDoc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	AuthorName          []string `json:"author_name"`
	FirstPublishYear    *int     `json:"first_publish_year"`
	ISBN                []string `json:"isbn"`
	NumberOfPagesMedian *int     `json:"number_of_pages_median"`
	CoverI              *int     `json:"cover_i"`
	Publisher           []string `json:"publisher"`
}

type searchResponse struct {
	Docs []searchDoc `json:"docs"`
}

// workDoc mirrors the raw work/edition document. Description is either
// a plain string or a {type, value} object depending on the record.
type workDoc struct {
	Title         string          `json:"title"`
	Description   json.RawMessage `json:"description"`
	Covers        []int           `json:"covers"`
	Subjects      []string        `json:"subjects"`
	PublishDate   *string         `json:"publish_date"`
	Publishers    []string        `json:"publishers"`
	NumberOfPages *int            `json:"number_of_pages"`
}

// Search queries the search endpoint and normalizes each hit.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	endpoint := fmt.Sprintf("%s/search.json?q=%s&limit=%d&fields=%s",
		c.baseURL, url.QueryEscape(query), c.limit, url.QueryEscape(searchFields))

	var resp searchResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("open library search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(resp.Docs))
	for _, doc := range resp.Docs {
		results = append(results, c.normalizeDoc(doc))
	}

	return results, nil
}

// GetWorkDetails fetches one work or edition record by its Open
// Library key, e.g. "/works/OL45883W".
func (c *Client) GetWorkDetails(ctx context.Context, key string) (*WorkDetails, error) {
	if !strings.HasPrefix(key, "/") {
		key = "/" + key
	}
	endpoint := fmt.Sprintf("%s%s.json", c.baseURL, key)

	var doc workDoc
	if err := c.getJSON(ctx, endpoint, &doc); err != nil {
		return nil, fmt.Errorf("open library details failed: %w", err)
	}

	details := &WorkDetails{
		Title:         doc.Title,
		Description:   parseDescription(doc.Description),
		Covers:        make([]string, 0, len(doc.Covers)),
		Subjects:      doc.Subjects,
		PublishDate:   doc.PublishDate,
		Publishers:    doc.Publishers,
		NumberOfPages: doc.NumberOfPages,
	}
	if details.Subjects == nil {
		details.Subjects = []string{}
	}
	if details.Publishers == nil {
		details.Publishers = []string{}
	}
	for _, id := range doc.Covers {
		details.Covers = append(details.Covers, c.coverURL(id))
	}

	return details, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("Open Library returned non-200", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    endpoint,
		})
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *Client) normalizeDoc(doc searchDoc) SearchResult {
	result := SearchResult{
		OpenLibraryKey:  doc.Key,
		Title:           doc.Title,
		Author:          "Unknown Author",
		PublicationYear: doc.FirstPublishYear,
		Pages:           doc.NumberOfPagesMedian,
	}

	if len(doc.AuthorName) > 0 {
		result.Author = strings.Join(doc.AuthorName, ", ")
	}
	if len(doc.ISBN) > 0 {
		result.ISBN = &doc.ISBN[0]
	}
	if len(doc.Publisher) > 0 {
		result.Publisher = &doc.Publisher[0]
	}
	if doc.CoverI != nil {
		cover := c.coverURL(*doc.CoverI)
		result.CoverURL = &cover
	}

	return result
}

func (c *Client) coverURL(coverID int) string {
	return fmt.Sprintf("%s/b/id/%d-L.jpg", c.coversURL, coverID)
}

// parseDescription handles the two shapes Open Library uses for work
// descriptions: a bare string or {"type": ..., "value": ...}.
func parseDescription(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return &plain
	}

	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &typed); err == nil && typed.Value != "" {
		return &typed.Value
	}

	return nil
}
