package vcs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v60/github"
)

type GitHubClient struct {
	client *github.Client
}

func NewGitHubClient(client *github.Client) *GitHubClient {
	return &GitHubClient{client: client}
}

// NewClient builds an authenticated go-github client. A non-empty apiURL
// points it at a GitHub Enterprise instance.
func NewClient(token, apiURL string) (*github.Client, error) {
	client := github.NewClient(nil).WithAuthToken(token)
	if apiURL == "" || strings.TrimSuffix(apiURL, "/") == "https://api.github.com" {
		return client, nil
	}
	ghe, err := client.WithEnterpriseURLs(apiURL, apiURL)
	if err != nil {
		return nil, fmt.Errorf("configure api url %q: %w", apiURL, err)
	}
	return ghe, nil
}

func (g *GitHubClient) ListTags(ctx context.Context, owner, repo string) ([]Tag, error) {
	var allTags []Tag
	opts := &github.ListOptions{PerPage: 100}

	for {
		tags, resp, err := g.client.Repositories.ListTags(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list tags for %s/%s: %w", owner, repo, err)
		}
		for _, t := range tags {
			tag := Tag{
				Name: t.GetName(),
				SHA:  t.GetCommit().GetSHA(),
			}
			if err := validate.Struct(tag); err != nil {
				return nil, fmt.Errorf("list tags for %s/%s: malformed tag: %w", owner, repo, err)
			}
			allTags = append(allTags, tag)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return allTags, nil
}

func (g *GitHubClient) ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]Commit, error) {
	var all []Commit
	opts := &github.ListOptions{PerPage: 100}

	for {
		commits, resp, err := g.client.PullRequests.ListCommits(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("list commits of %s/%s#%d: %w", owner, repo, number, err)
		}
		page, err := toCommits(commits)
		if err != nil {
			return nil, fmt.Errorf("list commits of %s/%s#%d: %w", owner, repo, number, err)
		}
		all = append(all, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func (g *GitHubClient) ListCommitsSince(ctx context.Context, owner, repo, branch string, since time.Time) ([]Commit, error) {
	var all []Commit
	opts := &github.CommitsListOptions{
		SHA:         branch,
		Since:       since,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		commits, resp, err := g.client.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list commits on %s/%s@%s: %w", owner, repo, branch, err)
		}
		page, err := toCommits(commits)
		if err != nil {
			return nil, fmt.Errorf("list commits on %s/%s@%s: %w", owner, repo, branch, err)
		}
		all = append(all, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func (g *GitHubClient) CommitDate(ctx context.Context, owner, repo, sha string) (time.Time, error) {
	c, _, err := g.client.Repositories.GetCommit(ctx, owner, repo, sha, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("get commit %s in %s/%s: %w", sha, owner, repo, err)
	}
	date := c.GetCommit().GetCommitter().GetDate()
	if date.IsZero() {
		return time.Time{}, fmt.Errorf("commit %s in %s/%s has no committer date", sha, owner, repo)
	}
	return date.Time, nil
}

func (g *GitHubClient) CreateRelease(ctx context.Context, owner, repo string, req ReleaseRequest) (*Release, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("create release in %s/%s: %w", owner, repo, err)
	}

	in := &github.RepositoryRelease{
		TagName: github.String(req.TagName),
		Name:    github.String(req.Name),
		Body:    github.String(req.Body),
	}
	if req.Target != "" {
		in.TargetCommitish = github.String(req.Target)
	}

	out, _, err := g.client.Repositories.CreateRelease(ctx, owner, repo, in)
	if err != nil {
		return nil, fmt.Errorf("create release %s in %s/%s: %w", req.TagName, owner, repo, err)
	}

	rel := &Release{
		TagName: out.GetTagName(),
		Name:    out.GetName(),
		URL:     out.GetHTMLURL(),
	}
	if err := validate.Struct(rel); err != nil {
		return nil, fmt.Errorf("create release %s in %s/%s: unexpected response: %w", req.TagName, owner, repo, err)
	}
	return rel, nil
}

func toCommits(in []*github.RepositoryCommit) ([]Commit, error) {
	out := make([]Commit, 0, len(in))
	for _, rc := range in {
		if rc.Commit == nil {
			return nil, fmt.Errorf("commit %s has no commit payload", rc.GetSHA())
		}
		c := Commit{
			SHA:     rc.GetSHA(),
			Message: rc.GetCommit().GetMessage(),
			Date:    rc.GetCommit().GetCommitter().GetDate().Time,
		}
		if err := validate.Struct(c); err != nil {
			return nil, fmt.Errorf("malformed commit: %w", err)
		}
		out = append(out, c)
	}
	return out, nil
}

func ParseGitHubRepo(repoURL string) (owner, repo string, err error) {
	repoURL = strings.TrimPrefix(repoURL, "https://")
	repoURL = strings.TrimPrefix(repoURL, "http://")
	repoURL = strings.TrimPrefix(repoURL, "github.com/")
	repoURL = strings.TrimSuffix(repoURL, ".git")
	repoURL = strings.TrimSuffix(repoURL, "/")

	parts := strings.SplitN(repoURL, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("cannot parse GitHub repo from %q", repoURL)
	}
	return parts[0], parts[1], nil
}
