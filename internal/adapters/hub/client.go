// Package hub talks to a HuggingFace-compatible dataset hub over HTTP
package hub

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// DefaultEndpoint is the public hub
const DefaultEndpoint = "https://huggingface.co"

// Config configures the client
type Config struct {
	Endpoint  string
	Token     string
	Timeout   time.Duration
	UserAgent string
}

// Client issues hub API calls. No request is retried
type Client struct {
	api      *resty.Client
	storage  *resty.Client
	endpoint string
}

// New builds a client; the storage client used for LFS uploads carries no hub credentials
func New(cfg Config) *Client {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	api := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if cfg.Token != "" {
		api.SetAuthToken(cfg.Token)
	}
	if cfg.UserAgent != "" {
		api.SetHeader("User-Agent", cfg.UserAgent)
	}

	storage := resty.New().SetTimeout(timeout).SetRetryCount(0)

	return &Client{api: api, storage: storage, endpoint: endpoint}
}

// Endpoint returns the hub base URL
func (c *Client) Endpoint() string { return c.endpoint }

// DatasetURL is the browsable page of a dataset repo
func (c *Client) DatasetURL(repo string) string {
	return c.endpoint + "/datasets/" + repo
}

// WhoAmI checks the token and returns the account name
func (c *Client) WhoAmI(ctx context.Context) (string, error) {
	resp, err := c.api.R().SetContext(ctx).Get("/api/whoami-v2")
	if err := check("whoami", resp, err); err != nil {
		return "", err
	}
	return gjson.GetBytes(resp.Body(), "name").String(), nil
}

type createRepoReq struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	Organization string `json:"organization,omitempty"`
	Private      bool   `json:"private"`
}

// CreateDataset creates a public dataset repo; an existing repo is fine
func (c *Client) CreateDataset(ctx context.Context, repo string) error {
	ns, name := splitRepo(repo)
	resp, err := c.api.R().
		SetContext(ctx).
		SetBody(createRepoReq{Type: "dataset", Name: name, Organization: ns, Private: false}).
		Post("/api/repos/create")
	if err == nil && resp.StatusCode() == 409 {
		return nil
	}
	return check("create repo", resp, err)
}

// ReadFile fetches one file at rev; found is false when the repo has no such file
func (c *Client) ReadFile(ctx context.Context, repo, rev, path string) (body []byte, found bool, err error) {
	resp, err := c.api.R().
		SetContext(ctx).
		Get("/datasets/" + repoPath(repo) + "/resolve/" + url.PathEscape(rev) + "/" + filePath(path))
	if err == nil && resp.StatusCode() == 404 {
		return nil, false, nil
	}
	if err := check("read "+path, resp, err); err != nil {
		return nil, false, err
	}
	return resp.Body(), true, nil
}

// File is one file of a commit
type File struct {
	Path    string
	Content []byte
}

// OID is the sha256 of the content, hex encoded
func (f File) OID() string {
	sum := sha256.Sum256(f.Content)
	return hex.EncodeToString(sum[:])
}

// sample is the head of the content the hub inspects to pick an upload mode
func (f File) sample() string {
	n := min(len(f.Content), 512)
	return base64.StdEncoding.EncodeToString(f.Content[:n])
}

// CommitInfo identifies the created commit
type CommitInfo struct {
	URL string `json:"commitUrl"`
	OID string `json:"commitOid"`
}

// Push uploads files and records them in a single commit on rev.
// Large files go through LFS storage first; the commit itself is atomic
func (c *Client) Push(ctx context.Context, repo, rev, summary string, files []File) (CommitInfo, error) {
	modes, err := c.preupload(ctx, repo, rev, files)
	if err != nil {
		return CommitInfo{}, err
	}

	var lfs []File
	for _, f := range files {
		if modes[f.Path] == modeLFS {
			lfs = append(lfs, f)
		}
	}
	if len(lfs) > 0 {
		if err := c.uploadLFS(ctx, repo, lfs); err != nil {
			return CommitInfo{}, err
		}
	}
	return c.commit(ctx, repo, rev, summary, files, modes)
}

func splitRepo(repo string) (ns, name string) {
	if i := strings.LastIndex(repo, "/"); i >= 0 {
		return repo[:i], repo[i+1:]
	}
	return "", repo
}

func repoPath(repo string) string { return filePath(repo) }

// filePath escapes each segment and keeps the slashes
func filePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
