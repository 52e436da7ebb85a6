package publish

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
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/deusflow/ainews/internal/logger"
)

// ErrRejected is returned when the contents API answers with a non-2xx
// status.
var ErrRejected = errors.New("github rejected the request")

const (
	DefaultBaseURL = "https://api.github.com"
	requestTimeout = 30 * time.Second
	commitPrefix   = "Automated Scraper Update: "
)

// GitHub overwrites one file in a repository through the contents API.
type GitHub struct {
	Owner   string
	Repo    string
	Branch  string
	Path    string
	BaseURL string

	client *http.Client
	now    func() time.Time
}

type contentsFile struct {
	SHA string `json:"sha"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch,omitempty"`
	SHA     string `json:"sha,omitempty"`
}

// NewGitHub builds a publisher that authenticates every request with token.
func NewGitHub(ctx context.Context, token, owner, repo, branch, path string) *GitHub {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	client.Timeout = requestTimeout
	return &GitHub{
		Owner:   owner,
		Repo:    repo,
		Branch:  branch,
		Path:    path,
		BaseURL: DefaultBaseURL,
		client:  client,
		now:     time.Now,
	}
}

func (g *GitHub) contentsURL() string {
	base := strings.TrimRight(g.BaseURL, "/")
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", base,
		url.PathEscape(g.Owner), url.PathEscape(g.Repo), strings.TrimLeft(g.Path, "/"))
}

// Publish replaces the remote file with content. The current sha is read
// first; a missing file is created. Conflicts are not retried.
func (g *GitHub) Publish(ctx context.Context, content []byte) error {
	sha, err := g.currentSHA(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(putRequest{
		Message: commitPrefix + g.now().UTC().Format(time.RFC3339),
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  g.Branch,
		SHA:     sha,
	})
	if err != nil {
		return fmt.Errorf("failed to encode contents request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, g.contentsURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", g.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return rejected(resp)
	}

	logger.Info("collection published", "repo", g.Owner+"/"+g.Repo, "path", g.Path, "bytes", len(content), "created", sha == "")
	return nil
}

// currentSHA returns the blob sha of the remote file, or "" if it does not
// exist yet.
func (g *GitHub) currentSHA(ctx context.Context) (string, error) {
	u := g.contentsURL()
	if g.Branch != "" {
		u += "?ref=" + url.QueryEscape(g.Branch)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", g.Path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var file contentsFile
		if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
			return "", fmt.Errorf("failed to decode contents response: %w", err)
		}
		return file.SHA, nil
	case http.StatusNotFound:
		logger.Debug("remote file missing, creating", "path", g.Path)
		return "", nil
	default:
		return "", rejected(resp)
	}
}

func rejected(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%w: %s %s: status %d: %s", ErrRejected,
		resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, strings.TrimSpace(string(msg)))
}
