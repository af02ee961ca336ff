// Package guardian is a client for The Guardian content API, limited to the
// football section.
package guardian

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/anonto42/kickoff/backend/internal/cache"
	"github.com/anonto42/kickoff/backend/internal/models"
	"github.com/anonto42/kickoff/backend/internal/security"
	"github.com/anonto42/kickoff/backend/internal/upstream"
)

const (
	Provider = "guardian"

	// FallbackImage is used when an article has neither a thumbnail nor an image element.
	FallbackImage = "https://images.unsplash.com/photo-1657957746418-6a38df9e1ea7?w=800"

	section      = "football"
	searchFields = "headline,thumbnail,trailText,byline,body"
	bodyFields   = "bodyText,body"
)

type Options struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *slog.Logger
	Recorder   upstream.Recorder
	Cache      *cache.JSON
	Sanitizer  security.Sanitizer
}

type Client struct {
	api       *upstream.Client
	baseURL   *url.URL
	apiKey    string
	cache     *cache.JSON
	sanitizer security.Sanitizer
}

// New creates a Client. A nil Cache disables caching and a nil Sanitizer
// falls back to the article sanitizer.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid guardian base URL %q", opts.BaseURL)
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewJSON(cache.Noop{}, 0, opts.Logger, nil)
	}
	if opts.Sanitizer == nil {
		opts.Sanitizer = security.NewArticleSanitizer()
	}
	return &Client{
		api:       upstream.NewClient(Provider, opts.HTTPClient, opts.Timeout, opts.Logger, opts.Recorder),
		baseURL:   base,
		apiKey:    opts.APIKey,
		cache:     opts.Cache,
		sanitizer: opts.Sanitizer,
	}, nil
}

// Search returns one page of football articles matching q.
func (c *Client) Search(ctx context.Context, q models.NewsQuery) (*models.NewsPage, error) {
	q = q.Normalize()
	key := fmt.Sprintf("guardian:search:%d:%d:%s", q.Page, q.PageSize, strings.ToLower(q.Search))

	var page models.NewsPage
	if c.cache.Load(ctx, key, &page) {
		return &page, nil
	}

	u := c.baseURL.JoinPath("search")
	params := url.Values{}
	params.Set("section", section)
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("page-size", strconv.Itoa(q.PageSize))
	params.Set("show-fields", searchFields)
	params.Set("show-elements", "image")
	params.Set("api-key", c.apiKey)
	if q.Search != "" {
		params.Set("q", q.Search)
	}
	u.RawQuery = params.Encode()

	var resp searchResponse
	status, err := c.api.GetJSON(ctx, u, nil, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Response.Results == nil {
		return nil, fmt.Errorf("guardian search failed with status %d: %s", status, resp.Response.Message)
	}

	page = models.NewsPage{
		Articles:    make([]models.Article, 0, len(resp.Response.Results)),
		Total:       resp.Response.Total,
		Pages:       resp.Response.Pages,
		CurrentPage: resp.Response.CurrentPage,
	}
	for _, item := range resp.Response.Results {
		page.Articles = append(page.Articles, c.normalize(item))
	}

	c.cache.Store(ctx, key, page)
	return &page, nil
}

// Article returns the sanitized full body of one item. The plain-text body is
// preferred over the HTML one.
func (c *Client) Article(ctx context.Context, id string) (string, error) {
	id = strings.Trim(id, "/")
	if !validID(id) {
		return "", models.ErrArticleNotFound
	}

	key := "guardian:article:" + id
	var body string
	if c.cache.Load(ctx, key, &body) {
		return body, nil
	}

	u := c.baseURL.JoinPath(strings.Split(id, "/")...)
	params := url.Values{}
	params.Set("show-fields", bodyFields)
	params.Set("api-key", c.apiKey)
	u.RawQuery = params.Encode()

	var resp itemResponse
	if _, err := c.api.GetJSON(ctx, u, nil, &resp); err != nil {
		return "", err
	}
	if resp.Response.Content == nil {
		return "", models.ErrArticleNotFound
	}

	f := resp.Response.Content.Fields
	body = c.sanitizer.Sanitize(firstNonEmpty(f.BodyText, f.Body))
	if body == "" {
		return "", models.ErrArticleNotFound
	}

	c.cache.Store(ctx, key, body)
	return body, nil
}

func (c *Client) normalize(item content) models.Article {
	f := item.Fields

	title := firstNonEmpty(f.Headline, item.WebTitle, "Untitled")
	excerpt := c.sanitizer.Sanitize(f.TrailText)
	body := c.sanitizer.Sanitize(firstNonEmpty(f.Body, f.TrailText))

	return models.Article{
		ID:            item.ID,
		Title:         title,
		Excerpt:       excerpt,
		Body:          body,
		Author:        firstNonEmpty(f.Byline, "The Guardian"),
		Image:         pickImage(item),
		URL:           item.WebURL,
		PublishedDate: item.WebPublicationDate,
		Category:      firstNonEmpty(item.SectionName, "Football"),
	}
}

// pickImage prefers the thumbnail, then the widest asset of the first image
// element, then FallbackImage.
func pickImage(item content) string {
	if item.Fields.Thumbnail != "" {
		return item.Fields.Thumbnail
	}

	idx := slices.IndexFunc(item.Elements, func(e element) bool { return e.Type == "image" })
	if idx >= 0 {
		assets := item.Elements[idx].Assets
		best := -1
		for i, a := range assets {
			if a.File == "" {
				continue
			}
			if best < 0 || a.TypeData.Width > assets[best].TypeData.Width {
				best = i
			}
		}
		if best >= 0 {
			return assets[best].File
		}
	}
	return FallbackImage
}

// validID rejects ids that would escape the item path once joined.
func validID(id string) bool {
	if id == "" || strings.ContainsAny(id, "%?#") {
		return false
	}
	for _, seg := range strings.Split(id, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

type searchResponse struct {
	Response struct {
		Status      string    `json:"status"`
		Message     string    `json:"message"`
		Total       int       `json:"total"`
		Pages       int       `json:"pages"`
		CurrentPage int       `json:"currentPage"`
		Results     []content `json:"results"`
	} `json:"response"`
}

type itemResponse struct {
	Response struct {
		Status  string   `json:"status"`
		Content *content `json:"content"`
	} `json:"response"`
}

type content struct {
	ID                 string    `json:"id"`
	WebTitle           string    `json:"webTitle"`
	WebURL             string    `json:"webUrl"`
	WebPublicationDate time.Time `json:"webPublicationDate"`
	SectionName        string    `json:"sectionName"`
	Fields             fields    `json:"fields"`
	Elements           []element `json:"elements"`
}

type fields struct {
	Headline  string `json:"headline"`
	Thumbnail string `json:"thumbnail"`
	TrailText string `json:"trailText"`
	Byline    string `json:"byline"`
	Body      string `json:"body"`
	BodyText  string `json:"bodyText"`
}

type element struct {
	Type   string  `json:"type"`
	Assets []asset `json:"assets"`
}

type asset struct {
	File     string `json:"file"`
	TypeData struct {
		Width flexInt `json:"width"`
	} `json:"typeData"`
}

// flexInt decodes integers the API sends either as numbers or as strings.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		var f float64
		if ferr := json.Unmarshal([]byte(s), &f); ferr != nil {
			return fmt.Errorf("invalid integer %s", b)
		}
		v = int(f)
	}
	*n = flexInt(v)
	return nil
}
