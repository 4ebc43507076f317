package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nishtha/internal/config"
)

func TestParseGitHubURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want RepoRef
	}{
		{"repo root", "https://github.com/ada/app", RepoRef{Owner: "ada", Repo: "app", Branch: "main"}},
		{"dot git", "https://github.com/ada/app.git", RepoRef{Owner: "ada", Repo: "app", Branch: "main"}},
		{"branch", "https://github.com/ada/app/tree/dev", RepoRef{Owner: "ada", Repo: "app", Branch: "dev"}},
		{"subdir", "https://github.com/ada/app/tree/main/week1/server", RepoRef{Owner: "ada", Repo: "app", Branch: "main", Path: "week1/server"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGitHubURL(tt.in)
			if err != nil {
				t.Fatalf("ParseGitHubURL: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseGitHubURLInvalid(t *testing.T) {
	for _, in := range []string{"", "not a url", "https://github.com/onlyowner"} {
		_, err := ParseGitHubURL(in)
		if !errors.Is(err, ErrInvalidGitHubURL) {
			t.Errorf("%q: expected ErrInvalidGitHubURL, got %v", in, err)
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%q: should be an input error", in)
		}
	}
}

func githubServer(t *testing.T, tree []treeEntry, treeStatus int) *GitHubClient {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/ada/app/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("recursive") != "1" {
			t.Errorf("tree should be fetched recursively")
		}
		if r.Header.Get("Authorization") != "Bearer gh-token" {
			t.Errorf("token not sent")
		}
		w.WriteHeader(treeStatus)
		json.NewEncoder(w).Encode(map[string]interface{}{"tree": tree})
	})
	mux.HandleFunc("/raw/ada/app/main/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("content of " + strings.TrimPrefix(r.URL.Path, "/raw/ada/app/main/")))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewGitHubClient(&config.GitHubConfig{
		APIBaseURL:  srv.URL,
		RawBaseURL:  srv.URL + "/raw",
		Token:       "gh-token",
		MaxFiles:    10,
		Concurrency: 2,
	})
}

func TestFetchCodeConcatenatesInTreeOrder(t *testing.T) {
	client := githubServer(t, []treeEntry{
		{Path: "src", Type: "tree"},
		{Path: "src/index.js", Type: "blob"},
		{Path: "src/node_modules/lib.js", Type: "blob"},
		{Path: "src/routes.js", Type: "blob"},
		{Path: "README.md", Type: "blob"},
	}, http.StatusOK)

	code, err := client.FetchCode(context.Background(), RepoRef{Owner: "ada", Repo: "app", Branch: "main", Path: "src"})
	if err != nil {
		t.Fatalf("FetchCode: %v", err)
	}

	want := "\n\n--- FILE: src/index.js ---\n\ncontent of src/index.js" +
		"\n\n--- FILE: src/routes.js ---\n\ncontent of src/routes.js"
	if code != want {
		t.Errorf("unexpected code:\n%q\nwant\n%q", code, want)
	}
}

func TestListFilesNoneUnderPath(t *testing.T) {
	client := githubServer(t, []treeEntry{{Path: "docs/a.md", Type: "blob"}}, http.StatusOK)

	_, err := client.ListFiles(context.Background(), RepoRef{Owner: "ada", Repo: "app", Branch: "main", Path: "src"})
	if !errors.Is(err, ErrNoCodeFiles) {
		t.Fatalf("expected ErrNoCodeFiles, got %v", err)
	}
}

func TestListFilesSkipsSiblingDirectories(t *testing.T) {
	client := githubServer(t, []treeEntry{
		{Path: "src/app.js", Type: "blob"},
		{Path: "src2/other.js", Type: "blob"},
		{Path: "srcmap.js", Type: "blob"},
	}, http.StatusOK)

	files, err := client.ListFiles(context.Background(), RepoRef{Owner: "ada", Repo: "app", Branch: "main", Path: "src"})
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 || files[0] != "src/app.js" {
		t.Errorf("files = %v, want [src/app.js]", files)
	}
}

func TestListFilesTreeStatus(t *testing.T) {
	client := githubServer(t, nil, http.StatusNotFound)

	_, err := client.ListFiles(context.Background(), RepoRef{Owner: "ada", Repo: "app", Branch: "main"})
	if err == nil || !strings.Contains(err.Error(), "Status: 404") {
		t.Fatalf("expected tree status error, got %v", err)
	}
}

func TestListFilesCapsCount(t *testing.T) {
	var tree []treeEntry
	for i := 0; i < 25; i++ {
		tree = append(tree, treeEntry{Path: "f" + string(rune('a'+i)) + ".go", Type: "blob"})
	}
	client := githubServer(t, tree, http.StatusOK)

	files, err := client.ListFiles(context.Background(), RepoRef{Owner: "ada", Repo: "app", Branch: "main"})
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 10 {
		t.Errorf("expected cap of 10 files, got %d", len(files))
	}
}
