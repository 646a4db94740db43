package vcs

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
)

type Tag struct {
	Name string `validate:"required"`
	SHA  string
}

type Commit struct {
	SHA     string `validate:"required"`
	Message string
	Date    time.Time
}

type ReleaseRequest struct {
	TagName string `validate:"required"`
	Name    string `validate:"required"`
	Body    string
	Target  string // branch or SHA the tag is created on; empty means the default branch
}

type Release struct {
	TagName string
	Name    string
	URL     string `validate:"required"`
}

type RepoClient interface {
	// ListTags returns all tags for the given repository.
	ListTags(ctx context.Context, owner, repo string) ([]Tag, error)

	// ListPullRequestCommits returns the commits of a pull request, oldest first.
	ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]Commit, error)

	// ListCommitsSince returns commits reachable from branch committed at or
	// after since, newest first. A zero since returns the whole history.
	ListCommitsSince(ctx context.Context, owner, repo, branch string, since time.Time) ([]Commit, error)

	// CommitDate returns the committer date of the given commit.
	CommitDate(ctx context.Context, owner, repo, sha string) (time.Time, error)

	CreateRelease(ctx context.Context, owner, repo string, req ReleaseRequest) (*Release, error)
}

var validate = validator.New()

// Messages extracts commit messages, preserving order.
func Messages(commits []Commit) []string {
	out := make([]string, 0, len(commits))
	for _, c := range commits {
		out = append(out, c.Message)
	}
	return out
}

// TagNames extracts tag names, preserving order.
func TagNames(tags []Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out
}
