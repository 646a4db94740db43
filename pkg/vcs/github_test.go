package vcs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v60/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *GitHubClient {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := github.NewClient(nil)
	u, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = u
	return NewGitHubClient(client)
}

func TestListTagsPaginates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/tags", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"name":"v0.1.0","commit":{"sha":"c3"}}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<http://%s/repos/o/r/tags?per_page=100&page=2>; rel="next"`, r.Host))
		fmt.Fprint(w, `[{"name":"v1.0.0","commit":{"sha":"c1"}},{"name":"junk","commit":{"sha":"c2"}}]`)
	})

	tags, err := newTestClient(t, mux).ListTags(context.Background(), "o", "r")
	require.NoError(t, err)
	assert.Equal(t, []Tag{
		{Name: "v1.0.0", SHA: "c1"},
		{Name: "junk", SHA: "c2"},
		{Name: "v0.1.0", SHA: "c3"},
	}, tags)
}

func TestListTagsRejectsNamelessTag(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/tags", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"commit":{"sha":"c1"}}]`)
	})

	_, err := newTestClient(t, mux).ListTags(context.Background(), "o", "r")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed tag")
}

func TestListTagsError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/tags", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
	})

	_, err := newTestClient(t, mux).ListTags(context.Background(), "o", "r")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list tags for o/r")
}

func TestListPullRequestCommits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls/7/commits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"sha":"a1","commit":{"message":"feat: one","committer":{"date":"2024-05-01T10:00:00Z"}}},
			{"sha":"a2","commit":{"message":"fix: two","committer":{"date":"2024-05-02T10:00:00Z"}}}
		]`)
	})

	commits, err := newTestClient(t, mux).ListPullRequestCommits(context.Background(), "o", "r", 7)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, []string{"feat: one", "fix: two"}, Messages(commits))
	assert.Equal(t, "a1", commits[0].SHA)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), commits[0].Date.UTC())
}

func TestListPullRequestCommitsMissingPayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls/7/commits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"sha":"a1"}]`)
	})

	_, err := newTestClient(t, mux).ListPullRequestCommits(context.Background(), "o", "r", 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no commit payload")
}

func TestListCommitsSince(t *testing.T) {
	since := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/commits", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("sha"))
		assert.Equal(t, since.Format(time.RFC3339), r.URL.Query().Get("since"))
		fmt.Fprint(w, `[{"sha":"b2","commit":{"message":"feat: later"}},{"sha":"b1","commit":{"message":"chore: tag"}}]`)
	})

	commits, err := newTestClient(t, mux).ListCommitsSince(context.Background(), "o", "r", "main", since)
	require.NoError(t, err)
	assert.Equal(t, []string{"feat: later", "chore: tag"}, Messages(commits))
}

func TestCommitDate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/commits/c1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha":"c1","commit":{"message":"x","committer":{"date":"2023-12-31T23:59:59Z"}}}`)
	})
	mux.HandleFunc("/repos/o/r/commits/c2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha":"c2","commit":{"message":"x"}}`)
	})

	c := newTestClient(t, mux)
	date, err := c.CommitDate(context.Background(), "o", "r", "c1")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC), date.UTC())

	_, err = c.CommitDate(context.Background(), "o", "r", "c2")
	assert.Error(t, err)
}

func TestCreateRelease(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/releases", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "1.3.0", got["tag_name"])
		assert.Equal(t, "Release 1.3.0", got["name"])
		assert.Equal(t, "notes", got["body"])
		assert.Equal(t, "main", got["target_commitish"])

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"tag_name":"1.3.0","name":"Release 1.3.0","html_url":"https://github.com/o/r/releases/tag/1.3.0"}`)
	})

	rel, err := newTestClient(t, mux).CreateRelease(context.Background(), "o", "r", ReleaseRequest{
		TagName: "1.3.0",
		Name:    "Release 1.3.0",
		Body:    "notes",
		Target:  "main",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/o/r/releases/tag/1.3.0", rel.URL)
	assert.Equal(t, "1.3.0", rel.TagName)
}

func TestCreateReleaseRequiresTag(t *testing.T) {
	c := newTestClient(t, http.NewServeMux())
	_, err := c.CreateRelease(context.Background(), "o", "r", ReleaseRequest{Name: "Release"})
	assert.Error(t, err)
}

func TestCreateReleaseFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/releases", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message":"Validation Failed","errors":[{"resource":"Release","code":"already_exists","field":"tag_name"}]}`)
	})

	_, err := newTestClient(t, mux).CreateRelease(context.Background(), "o", "r", ReleaseRequest{TagName: "1.0.0", Name: "Release 1.0.0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create release 1.0.0 in o/r")
}

func TestNewClient(t *testing.T) {
	c, err := NewClient("tok", "")
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/", c.BaseURL.String())

	c, err = NewClient("tok", "https://ghe.example.com/api/v3")
	require.NoError(t, err)
	assert.Equal(t, "https://ghe.example.com/api/v3/", c.BaseURL.String())
}

func TestParseGitHubRepo(t *testing.T) {
	tests := []struct {
		in    string
		owner string
		repo  string
		ok    bool
	}{
		{"o/r", "o", "r", true},
		{"https://github.com/o/r.git", "o", "r", true},
		{"github.com/o/r/", "o", "r", true},
		{"o", "", "", false},
		{"/r", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			owner, repo, err := ParseGitHubRepo(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
		})
	}
}

func TestTagNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, TagNames([]Tag{{Name: "a"}, {Name: "b"}}))
	assert.Empty(t, TagNames(nil))
}
