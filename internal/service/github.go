package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"nishtha/internal/config"
)

var (
	ErrInvalidGitHubURL = invalidInput("Invalid GitHub URL format.")
	ErrNoCodeFiles      = errors.New("No valid code files found in the specified path.")
)

// RepoRef identifies a directory of a GitHub repository at a branch
type RepoRef struct {
	Owner  string
	Repo   string
	Branch string
	Path   string
}

// ParseGitHubURL parses github.com/<owner>/<repo>[/tree/<branch>[/<path>]].
// The branch defaults to main.
func ParseGitHubURL(raw string) (RepoRef, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return RepoRef{}, ErrInvalidGitHubURL
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, ErrInvalidGitHubURL
	}

	ref := RepoRef{
		Owner:  parts[0],
		Repo:   strings.TrimSuffix(parts[1], ".git"),
		Branch: "main",
	}
	if len(parts) > 3 && parts[2] == "tree" {
		ref.Branch = parts[3]
		ref.Path = strings.Join(parts[4:], "/")
	}
	return ref, nil
}

// GitHubClient reads repository trees and raw files over the public API
type GitHubClient struct {
	config *config.GitHubConfig
	client *http.Client
}

// NewGitHubClient creates a new GitHub client
func NewGitHubClient(cfg *config.GitHubConfig) *GitHubClient {
	return &GitHubClient{
		config: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// ListFiles returns the blob paths under ref.Path in tree order, skipping
// node_modules
func (c *GitHubClient) ListFiles(ctx context.Context, ref RepoRef) ([]string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1",
		c.config.APIBaseURL, url.PathEscape(ref.Owner), url.PathEscape(ref.Repo), url.PathEscape(ref.Branch))
	body, status, err := c.get(ctx, endpoint, true)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("Failed to fetch repo tree. Status: %d. Check owner, repo, or branch name.", status)
	}

	var tree struct {
		Tree []treeEntry `json:"tree"`
	}
	if err := json.Unmarshal(body, &tree); err != nil {
		return nil, fmt.Errorf("decoding repo tree: %w", err)
	}

	var files []string
	for _, e := range tree.Tree {
		if e.Type != "blob" || !underPath(e.Path, ref.Path) || strings.Contains(e.Path, "node_modules") {
			continue
		}
		files = append(files, e.Path)
	}
	if len(files) == 0 {
		return nil, ErrNoCodeFiles
	}
	if limit := c.config.MaxFiles; limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}

// FetchCode downloads every file concurrently and concatenates them in
// tree order, each under a "--- FILE: <path> ---" header
func (c *GitHubClient) FetchCode(ctx context.Context, ref RepoRef) (string, error) {
	files, err := c.ListFiles(ctx, ref)
	if err != nil {
		return "", err
	}

	contents := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	if n := c.config.Concurrency; n > 0 {
		g.SetLimit(n)
	}
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			endpoint := fmt.Sprintf("%s/%s/%s/%s/%s", c.config.RawBaseURL, ref.Owner, ref.Repo, ref.Branch, path)
			body, status, err := c.get(gctx, endpoint, false)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", path, err)
			}
			if status != http.StatusOK {
				return fmt.Errorf("fetching %s: status %d", path, status)
			}
			contents[i] = string(body)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var sb strings.Builder
	for i, path := range files {
		fmt.Fprintf(&sb, "\n\n--- FILE: %s ---\n\n%s", path, contents[i])
	}
	return sb.String(), nil
}

func (c *GitHubClient) get(ctx context.Context, endpoint string, api bool) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	if api {
		req.Header.Set("Accept", "application/vnd.github+json")
	}
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// underPath reports whether a tree path lies inside dir; an empty dir is the repo root
func underPath(path, dir string) bool {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return true
	}
	return path == dir || strings.HasPrefix(path, dir+"/")
}
