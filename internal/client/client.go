// Package client talks to a clilstudio server. *Client implements the
// editor's Backend.
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
	"strings"

	"golang.org/x/oauth2"

	"github.com/ziadkadry99/clil-studio/internal/api"
	"github.com/ziadkadry99/clil-studio/internal/audit"
	"github.com/ziadkadry99/clil-studio/internal/auth"
	"github.com/ziadkadry99/clil-studio/internal/lesson"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Apply it before any
// token option.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource authenticates every request with a bearer token from ts.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.http = &http.Client{
			Timeout:   c.http.Timeout,
			Transport: &oauth2.Transport{Source: ts, Base: c.http.Transport},
		}
	}
}

// WithToken authenticates every request with a fixed bearer token.
func WithToken(token string) Option {
	return WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the part of every JSON response shared by all routes.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// send performs the request and returns the response once the status is
// known to be successful. The caller closes the body.
func (c *Client) send(ctx context.Context, op, method, path string, body any) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encoding request: %w", op, err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("%s: building request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, backendError(op, resp)
	}
	return resp, nil
}

func backendError(op string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(data))
	var env envelope
	if json.Unmarshal(data, &env) == nil && env.Error != "" {
		msg = env.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &BackendError{Op: op, Status: resp.StatusCode, Message: msg}
}

// do sends a JSON request and decodes the envelope into out.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	resp, err := c.send(ctx, op, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return &MalformedError{Op: op, Err: err}
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "request failed"
		}
		return &BackendError{Op: op, Status: resp.StatusCode, Message: msg}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &MalformedError{Op: op, Err: err}
	}
	return nil
}

func (c *Client) Generate(ctx context.Context, req api.GenerateRequest) (string, error) {
	var resp api.GenerateResponse
	if err := c.do(ctx, "generate", http.MethodPost, "/generate", req, &resp); err != nil {
		return "", err
	}
	return resp.Data, nil
}

func (c *Client) GenerateHelper(ctx context.Context, prompt string) (string, error) {
	var resp api.HelperResponse
	if err := c.do(ctx, "generate helper", http.MethodPost, "/generate_helper", api.HelperRequest{Prompt: prompt}, &resp); err != nil {
		return "", err
	}
	return resp.HelperData, nil
}

func (c *Client) GenerateInsight(ctx context.Context, concept string, hc *api.HelperContext) (string, error) {
	var resp api.InsightResponse
	req := api.InsightRequest{Concept: concept, HelperContext: hc}
	if err := c.do(ctx, "generate insight", http.MethodPost, "/generate_insight", req, &resp); err != nil {
		return "", err
	}
	return resp.InsightData, nil
}

// RelatedTags decodes the tags field, itself a JSON document.
func (c *Client) RelatedTags(ctx context.Context, tag string, tc api.TagContext) ([]string, error) {
	var resp api.RelatedTagsResponse
	req := api.RelatedTagsRequest{Tag: tag, Context: tc}
	if err := c.do(ctx, "related tags", http.MethodPost, "/generate_related_tags", req, &resp); err != nil {
		return nil, err
	}
	var tags api.RelatedTags
	if err := json.Unmarshal([]byte(resp.Tags), &tags); err != nil {
		return nil, &MalformedError{Op: "related tags", Err: err}
	}
	return tags.RelatedTags, nil
}

// Inline returns the raw text stream. An error found mid-stream arrives as
// a final chunk starting with api.InlineErrorPrefix.
func (c *Client) Inline(ctx context.Context, req api.InlineRequest) (io.ReadCloser, error) {
	resp, err := c.send(ctx, "inline", http.MethodPost, "/generate_inline", req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (c *Client) Chat(ctx context.Context, req api.ChatRequest) (string, error) {
	var resp api.ChatResponse
	if err := c.do(ctx, "chat", http.MethodPost, "/chat", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) SaveLesson(ctx context.Context, doc *lesson.Document) (string, error) {
	var resp api.SaveResponse
	if err := c.do(ctx, "save lesson", http.MethodPost, "/save_lesson", doc, &resp); err != nil {
		return "", err
	}
	if resp.LessonID == "" {
		return "", &MalformedError{Op: "save lesson", Err: errors.New("missing lessonId")}
	}
	return resp.LessonID, nil
}

func (c *Client) LoadLesson(ctx context.Context, id string) (*lesson.Document, error) {
	var resp api.LoadResponse
	if err := c.do(ctx, "load lesson", http.MethodGet, "/load_lesson/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Lesson == nil {
		return nil, &MalformedError{Op: "load lesson", Err: errors.New("missing lesson")}
	}
	return resp.Lesson, nil
}

func (c *Client) ListLessons(ctx context.Context) ([]lesson.Summary, error) {
	var resp api.ListResponse
	if err := c.do(ctx, "list lessons", http.MethodGet, "/get_lessons", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Lessons, nil
}

// SearchLessons runs a semantic search over the caller's saved lessons.
func (c *Client) SearchLessons(ctx context.Context, query string, limit int) ([]api.SearchResult, error) {
	q := url.Values{"q": {query}}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	var resp api.SearchResponse
	if err := c.do(ctx, "search lessons", http.MethodGet, "/search_lessons?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Preview fetches the rendered HTML page of a saved lesson.
func (c *Client) Preview(ctx context.Context, id string) ([]byte, error) {
	resp, err := c.send(ctx, "preview lesson", http.MethodGet, "/lessons/"+url.PathEscape(id)+"/preview", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "preview lesson", Err: err}
	}
	return data, nil
}

// History returns the change history of a saved lesson, newest first.
func (c *Client) History(ctx context.Context, id string, limit int) ([]audit.Entry, error) {
	path := "/lessons/" + url.PathEscape(id) + "/history"
	if limit > 0 {
		path += "?limit=" + fmt.Sprint(limit)
	}
	var resp audit.HistoryResponse
	if err := c.do(ctx, "lesson history", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// SignInWithGoogle trades a Google access token for a server token.
func (c *Client) SignInWithGoogle(ctx context.Context, accessToken string) (*auth.TokenResponse, error) {
	var resp auth.TokenResponse
	req := map[string]string{"access_token": accessToken}
	if err := c.do(ctx, "google sign-in", http.MethodPost, "/auth/google", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &MalformedError{Op: "google sign-in", Err: errors.New("missing token")}
	}
	return &resp, nil
}

// Me returns the user the client's token belongs to.
func (c *Client) Me(ctx context.Context) (auth.User, error) {
	var resp auth.TokenResponse
	if err := c.do(ctx, "whoami", http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return auth.User{}, err
	}
	return resp.User, nil
}
