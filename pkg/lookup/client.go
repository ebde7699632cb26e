package lookup

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/littleshelf/littleshelf/pkg/config"
	"github.com/littleshelf/littleshelf/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"golang.org/x/time/rate"
)

// BookMetadata carries the fields of the add-book form that can be filled in
// from an ISBN.
type BookMetadata struct {
	ISBN        string `json:"isbn"`
	Title       string `json:"title"`
	Authors     string `json:"authors"`
	Publishers  string `json:"publishers"`
	Pages       string `json:"pages"`
	Genres      string `json:"genres"`
	Language    string `json:"language"`
	Cover       string `json:"cover"`
	Description string `json:"description"`
}

// Client looks up a book by ISBN. It returns a not-found error when the
// service has no match.
type Client interface {
	Lookup(ctx context.Context, isbn string) (*BookMetadata, error)
}

type volumesResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo volumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

type volumeInfo struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Publisher   string   `json:"publisher"`
	PageCount   int      `json:"pageCount"`
	Categories  []string `json:"categories"`
	Language    string   `json:"language"`
	Description string   `json:"description"`
	ImageLinks  struct {
		Thumbnail      string `json:"thumbnail"`
		SmallThumbnail string `json:"smallThumbnail"`
	} `json:"imageLinks"`
}

// maxResponseBytes caps how much of a volumes response is read. A single-ISBN
// query is a few kilobytes.
const maxResponseBytes = 2 << 20

// GoogleBooksClient queries the Google Books volumes API. Requests share one
// rate limiter so a burst of scans can't exhaust the API quota.
type GoogleBooksClient struct {
	baseURL          string
	httpClient       *http.Client
	limiter          *rate.Limiter
	maxResponseBytes int64
}

func NewGoogleBooksClient(cfg *config.Config) *GoogleBooksClient {
	limit := rate.Inf
	if cfg.LookupRequestsPerSecond > 0 {
		limit = rate.Limit(cfg.LookupRequestsPerSecond)
	}
	return &GoogleBooksClient{
		baseURL:          cfg.LookupBaseURL,
		httpClient:       &http.Client{Timeout: cfg.LookupTimeout},
		limiter:          rate.NewLimiter(limit, 1),
		maxResponseBytes: maxResponseBytes,
	}
}

func (gc *GoogleBooksClient) Lookup(ctx context.Context, isbn string) (*BookMetadata, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, errcodes.ValidationError("ISBN is required")
	}

	if err := gc.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "lookup rate limit")
	}

	u, err := url.Parse(gc.baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid lookup base url")
	}
	q := u.Query()
	q.Set("q", "isbn:"+isbn)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create lookup request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := gc.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch from Google Books API")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("failed to fetch from Google Books API: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, gc.maxResponseBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read Google Books response")
	}
	if int64(len(body)) > gc.maxResponseBytes {
		return nil, errors.Errorf("Google Books response exceeds %d bytes", gc.maxResponseBytes)
	}

	var volumes volumesResponse
	if err := json.Unmarshal(body, &volumes); err != nil {
		return nil, errors.Wrap(err, "failed to parse Google Books response")
	}
	if len(volumes.Items) == 0 {
		return nil, errcodes.NotFound("Book")
	}

	return toMetadata(isbn, volumes.Items[0].VolumeInfo), nil
}

func toMetadata(isbn string, info volumeInfo) *BookMetadata {
	md := &BookMetadata{
		ISBN:        isbn,
		Title:       info.Title,
		Authors:     strings.Join(info.Authors, ", "),
		Publishers:  info.Publisher,
		Genres:      strings.Join(info.Categories, ", "),
		Language:    info.Language,
		Cover:       info.ImageLinks.Thumbnail,
		Description: info.Description,
	}
	if info.PageCount > 0 {
		md.Pages = strconv.Itoa(info.PageCount)
	}
	if md.Cover == "" {
		md.Cover = info.ImageLinks.SmallThumbnail
	}
	return md
}
