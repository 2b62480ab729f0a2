// Package hub provides a client for the Hugging Face Hub HTTP API: searching
// models, datasets, and spaces, fetching repo metadata, and downloading
// files.
package hub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultEndpoint is the public Hugging Face Hub API host.
const DefaultEndpoint = "https://huggingface.co"

// DefaultInferenceEndpoint is the serverless Inference API host.
const DefaultInferenceEndpoint = "https://api-inference.huggingface.co"

// ErrTokenRequired is returned by write operations when the client was
// created without a token.
var ErrTokenRequired = errors.New("a Hub access token is required")

// RepoType selects which kind of Hub repository an operation targets.
type RepoType string

const (
	RepoModel   RepoType = "model"
	RepoDataset RepoType = "dataset"
	RepoSpace   RepoType = "space"
)

// ParseRepoType validates a user-supplied repo type.
func ParseRepoType(s string) (RepoType, error) {
	switch RepoType(s) {
	case RepoModel, RepoDataset, RepoSpace:
		return RepoType(s), nil
	}
	return "", fmt.Errorf("unknown type %q (expected model, dataset, or space)", s)
}

func (t RepoType) apiPath() string {
	switch t {
	case RepoDataset:
		return "datasets"
	case RepoSpace:
		return "spaces"
	default:
		return "models"
	}
}

// Repo is the subset of Hub repo metadata the tools surface.
type Repo struct {
	ID          string   `json:"id"`
	Author      string   `json:"author,omitempty"`
	Downloads   int64    `json:"downloads"`
	Likes       int64    `json:"likes"`
	Tags        []string `json:"tags,omitempty"`
	PipelineTag string   `json:"pipeline_tag,omitempty"`
	LibraryName string   `json:"library_name,omitempty"`
	SDK         string   `json:"sdk,omitempty"`
}

// Client talks to the Hub API. Requests are rate limited so bursty tool
// usage does not trip the Hub's anonymous quota.
type Client struct {
	endpoint          string
	inferenceEndpoint string
	token             string
	httpClient        *http.Client
	limiter           *rate.Limiter

	infoCache *infoCache
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (used in tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCacheSize overrides the repo-info memoization cap.
func WithCacheSize(n int) Option {
	return func(c *Client) { c.infoCache = newInfoCache(n) }
}

// WithInferenceEndpoint overrides the Inference API host (used in tests).
func WithInferenceEndpoint(endpoint string) Option {
	return func(c *Client) { c.inferenceEndpoint = endpoint }
}

// NewClient creates a Hub client. endpoint defaults to the public Hub,
// token may be empty for anonymous access.
func NewClient(endpoint, token string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint:          endpoint,
		inferenceEndpoint: DefaultInferenceEndpoint,
		token:             token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter:   rate.NewLimiter(rate.Limit(5), 10),
		infoCache: newInfoCache(100),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search queries the Hub for repos of the given type matching query.
func (c *Client) Search(ctx context.Context, repoType RepoType, query string, limit int) ([]Repo, error) {
	if limit <= 0 {
		limit = 10
	}

	q := url.Values{}
	q.Set("search", query)
	q.Set("limit", strconv.Itoa(limit))

	var repos []Repo
	if err := c.getJSON(ctx, fmt.Sprintf("/api/%s?%s", repoType.apiPath(), q.Encode()), &repos); err != nil {
		return nil, fmt.Errorf("hub search: %w", err)
	}
	return repos, nil
}

// List returns the most recent repos of the given type, without a query.
func (c *Client) List(ctx context.Context, repoType RepoType, limit int) ([]Repo, error) {
	if limit <= 0 {
		limit = 20
	}

	var repos []Repo
	path := fmt.Sprintf("/api/%s?limit=%d", repoType.apiPath(), limit)
	if err := c.getJSON(ctx, path, &repos); err != nil {
		return nil, fmt.Errorf("hub list: %w", err)
	}
	return repos, nil
}

// Info fetches metadata for a single repo. Results are memoized up to the
// configured cache size since model comparison hits the same ids repeatedly.
func (c *Client) Info(ctx context.Context, repoType RepoType, id string) (Repo, error) {
	key := string(repoType) + "/" + id
	if repo, ok := c.infoCache.get(key); ok {
		return repo, nil
	}

	var repo Repo
	path := fmt.Sprintf("/api/%s/%s", repoType.apiPath(), id)
	if err := c.getJSON(ctx, path, &repo); err != nil {
		return Repo{}, fmt.Errorf("hub info for %s: %w", id, err)
	}

	c.infoCache.put(key, repo)
	return repo, nil
}

// Download fetches one file from a repo's main revision into localDir and
// returns the written path.
func (c *Client) Download(ctx context.Context, repoID, filename, localDir string) (string, error) {
	if localDir == "" {
		localDir = "."
	}
	if err := os.MkdirAll(localDir, 0755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	url := fmt.Sprintf("%s/%s/resolve/main/%s", c.endpoint, repoID, filename)
	resp, err := c.do(ctx, url)
	if err != nil {
		return "", fmt.Errorf("hub download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("hub download: %s returned %s", url, resp.Status)
	}

	dest := filepath.Join(localDir, filepath.Base(filename))
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create download file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("write download: %w", err)
	}
	return dest, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.do(ctx, c.endpoint+path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("not found (status 404)")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %s: %s", resp.Status, body)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

// HasToken reports whether authenticated operations are available.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// Infer runs a model on the serverless Inference API and returns the raw
// JSON response body.
func (c *Client) Infer(ctx context.Context, modelID, inputs string, parameters map[string]any) (json.RawMessage, error) {
	payload := map[string]any{"inputs": inputs}
	if len(parameters) > 0 {
		payload["parameters"] = parameters
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode inference payload: %w", err)
	}

	resp, err := c.post(ctx, c.inferenceEndpoint+"/models/"+modelID, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read inference response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference failed (status %d): %s", resp.StatusCode, out)
	}
	return json.RawMessage(out), nil
}

// CreateRepo creates a model or dataset repository on the Hub.
func (c *Client) CreateRepo(ctx context.Context, repoType RepoType, repoID string, private bool) error {
	if c.token == "" {
		return ErrTokenRequired
	}

	payload := map[string]any{
		"type":    string(repoType),
		"private": private,
	}
	if org, name, ok := strings.Cut(repoID, "/"); ok {
		payload["organization"] = org
		payload["name"] = name
	} else {
		payload["name"] = repoID
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode create payload: %w", err)
	}

	resp, err := c.post(ctx, c.endpoint+"/api/repos/create", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create repo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("create repo: unexpected status %s: %s", resp.Status, msg)
	}
	return nil
}

// commitLine is one NDJSON record in a Hub commit request.
type commitLine struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// UploadFile commits one local file to a model repo's main revision.
func (c *Client) UploadFile(ctx context.Context, repoID, localPath, pathInRepo, message string) error {
	if c.token == "" {
		return ErrTokenRequired
	}
	if message == "" {
		message = "Upload file"
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("read upload file: %w", err)
	}

	// The commit API takes newline-delimited JSON: a header record followed
	// by one record per file.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	_ = enc.Encode(commitLine{Key: "header", Value: map[string]any{"summary": message}})
	_ = enc.Encode(commitLine{Key: "file", Value: map[string]any{
		"path":     pathInRepo,
		"content":  base64.StdEncoding.EncodeToString(data),
		"encoding": "base64",
	}})

	url := fmt.Sprintf("%s/api/models/%s/commit/main", c.endpoint, repoID)
	resp, err := c.post(ctx, url, "application/x-ndjson", &buf)
	if err != nil {
		return fmt.Errorf("upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upload file: unexpected status %s: %s", resp.Status, msg)
	}
	return nil
}

func (c *Client) post(ctx context.Context, url, contentType string, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.httpClient.Do(req)
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.httpClient.Do(req)
}
