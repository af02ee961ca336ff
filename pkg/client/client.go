// Package client is a typed Go client for the kickoff HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const maxErrorBody = 64 << 10

// User is the account returned by signup, login and profile.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Auth is the result of signup and login.
type Auth struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

type Comment struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"articleId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	Likes     int       `json:"likes"`
	HasLiked  bool      `json:"hasLiked"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeState is a comment's like count and the caller's like after a toggle.
type LikeState struct {
	Likes    int  `json:"likes"`
	HasLiked bool `json:"hasLiked"`
}

type Article struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Excerpt       string    `json:"excerpt"`
	Body          string    `json:"body"`
	Author        string    `json:"author"`
	Image         string    `json:"image"`
	URL           string    `json:"url"`
	PublishedDate time.Time `json:"publishedDate"`
	Category      string    `json:"category"`
}

type NewsPage struct {
	Articles    []Article `json:"articles"`
	Total       int       `json:"total"`
	Pages       int       `json:"pages"`
	CurrentPage int       `json:"currentPage"`
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kickoff api: %d %s", e.Status, e.Message)
}

// IsUnauthorized reports whether the server rejected the session token.
func (e *APIError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsUnauthorized()
}

// Client talks to one API base URL, e.g. "http://localhost:3000/api".
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// New creates a Client. httpClient defaults to http.DefaultClient.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: u, httpClient: httpClient}, nil
}

func (c *Client) Signup(ctx context.Context, name, email, password string) (*Auth, error) {
	var out Auth
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, c.endpoint("signup"), "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Auth, error) {
	var out Auth
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, c.endpoint("login"), "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile returns the account the token belongs to.
func (c *Client) Profile(ctx context.Context, token string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint("profile"), token, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Comments lists an article's comments newest first. token may be empty.
func (c *Client) Comments(ctx context.Context, token, articleID string) ([]Comment, error) {
	var out struct {
		Comments []Comment `json:"comments"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint("comments", articleID), token, nil, &out); err != nil {
		return nil, err
	}
	return out.Comments, nil
}

func (c *Client) PostComment(ctx context.Context, token, articleID, text string) (*Comment, error) {
	var out struct {
		Comment Comment `json:"comment"`
	}
	body := map[string]string{"articleId": articleID, "text": text}
	if err := c.do(ctx, http.MethodPost, c.endpoint("comments"), token, body, &out); err != nil {
		return nil, err
	}
	return &out.Comment, nil
}

func (c *Client) ToggleLike(ctx context.Context, token, commentID string) (*LikeState, error) {
	var out LikeState
	if err := c.do(ctx, http.MethodPost, c.endpoint("comments", commentID, "like"), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// News returns a page of articles. Zero page or pageSize use the server defaults.
func (c *Client) News(ctx context.Context, page, pageSize int, search string) (*NewsPage, error) {
	u := c.endpoint("news")
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	if search != "" {
		q.Set("search", search)
	}
	u.RawQuery = q.Encode()

	var out NewsPage
	if err := c.do(ctx, http.MethodGet, u, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Article returns an article's sanitized HTML body.
func (c *Client) Article(ctx context.Context, id string) (string, error) {
	var out struct {
		Body string `json:"body"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint("article", id), "", nil, &out); err != nil {
		return "", err
	}
	return out.Body, nil
}

// endpoint joins segments onto the base URL, escaping each one so ids
// containing slashes stay a single segment.
func (c *Client) endpoint(segments ...string) *url.URL {
	u := *c.baseURL
	raw := u.EscapedPath()
	for _, s := range segments {
		raw += "/" + url.PathEscape(s)
	}
	u.RawPath = raw
	u.Path, _ = url.PathUnescape(raw)
	return &u
}

func (c *Client) do(ctx context.Context, method string, u *url.URL, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}
