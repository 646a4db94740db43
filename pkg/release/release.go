package release

import (
	"context"
	"errors"
	"time"

	"github.com/semver-release/pkg/config"
	"github.com/semver-release/pkg/failure"
	"github.com/semver-release/pkg/logger"
	"github.com/semver-release/pkg/notes"
	"github.com/semver-release/pkg/vcs"
	"github.com/semver-release/pkg/version"
)

// Result is what one run reports back to the caller.
type Result struct {
	Decision   version.Decision
	Tag        string // tag name for the next version, prefix included
	Previous   string // latest tag name as found on the host, empty if none
	Commits    []vcs.Commit
	Published  bool
	ReleaseURL string
}

type Releaser struct {
	repoClient vcs.RepoClient
	config     *config.Config
	event      vcs.Event
	log        *logger.Logger
}

func New(repoClient vcs.RepoClient, cfg *config.Config, event vcs.Event, log *logger.Logger) *Releaser {
	if log == nil {
		log = logger.Nop()
	}
	return &Releaser{
		repoClient: repoClient,
		config:     cfg,
		event:      event,
		log:        log,
	}
}

// Run computes the next version and, when trigger-release is set, creates
// the release. Host failures abort the run; nothing is retried.
func (r *Releaser) Run(ctx context.Context) (*Result, error) {
	owner, repo, err := vcs.ParseGitHubRepo(r.config.Repo)
	if err != nil {
		return nil, failure.Config(err)
	}
	if err := r.checkTrigger(); err != nil {
		return nil, err
	}
	renderer, err := notes.NewRenderer(r.config.Release.Title, r.config.Release.Body)
	if err != nil {
		return nil, failure.Config(err)
	}

	tags, err := r.repoClient.ListTags(ctx, owner, repo)
	if err != nil {
		return nil, failure.Host(err)
	}

	commits, err := r.commits(ctx, owner, repo, tags)
	if err != nil {
		return nil, err
	}

	messages := vcs.Messages(commits)
	r.log.Info().Strs("messages", messages).Msg("Commit messages")

	d := r.config.Policy().Next(vcs.TagNames(tags), messages)
	d.Publish = version.ShouldPublish(r.config.TriggerRelease)

	_, previous := version.Latest(vcs.TagNames(tags))
	res := &Result{
		Decision: d,
		Tag:      version.FormatTag(r.config.TagPrefix, d.Next),
		Previous: previous,
		Commits:  commits,
	}
	if previous == "" {
		r.log.Info().Msg("No tags found in the repository. Starting from version 0.0.0.")
	}
	r.log.Info().
		Str("previous", previous).
		Str("next", d.Next.String()).
		Str("bump", d.Bump.String()).
		Str("trigger", d.Trigger).
		Msg("computed next version")

	if !d.Publish {
		r.log.Info().Msgf("Dry run mode: The next version would be %s", d.Next)
		return res, nil
	}

	rel, err := r.publish(ctx, owner, repo, renderer, res)
	if err != nil {
		return nil, err
	}
	res.Published = true
	res.ReleaseURL = rel.URL
	r.log.Info().Str("tag", res.Tag).Str("url", rel.URL).Msg("release created")
	return res, nil
}

func (r *Releaser) checkTrigger() error {
	switch r.config.CommitsFrom {
	case config.SourceSinceTag:
		if r.branch() == "" {
			return failure.Configf("a branch is required to list commits since the latest tag")
		}
	default:
		if !r.event.IsPullRequest() {
			return failure.Configf("This action only works for pull_request events")
		}
		if r.pullNumber() <= 0 {
			return failure.Configf("Pull request payload is missing")
		}
	}
	return nil
}

func (r *Releaser) commits(ctx context.Context, owner, repo string, tags []vcs.Tag) ([]vcs.Commit, error) {
	if r.config.CommitsFrom != config.SourceSinceTag {
		commits, err := r.repoClient.ListPullRequestCommits(ctx, owner, repo, r.pullNumber())
		if err != nil {
			return nil, failure.Host(err)
		}
		return commits, nil
	}

	var (
		since  time.Time
		tagSHA string
	)
	if latest := latestTag(tags); latest != nil {
		date, err := r.repoClient.CommitDate(ctx, owner, repo, latest.SHA)
		if err != nil {
			return nil, failure.Host(err)
		}
		since, tagSHA = date, latest.SHA
	}

	all, err := r.repoClient.ListCommitsSince(ctx, owner, repo, r.branch(), since)
	if err != nil {
		return nil, failure.Host(err)
	}
	commits := make([]vcs.Commit, 0, len(all))
	for _, c := range all {
		if tagSHA != "" && c.SHA == tagSHA {
			continue
		}
		commits = append(commits, c)
	}
	return commits, nil
}

func (r *Releaser) publish(ctx context.Context, owner, repo string, renderer *notes.Renderer, res *Result) (*vcs.Release, error) {
	data := notes.Data{
		Version:  res.Decision.Next.String(),
		Tag:      res.Tag,
		Previous: res.Previous,
		Bump:     res.Decision.Bump.String(),
	}
	for _, c := range res.Commits {
		data.Commits = append(data.Commits, notes.Commit{SHA: c.SHA, Message: c.Message})
	}

	title, err := renderer.Title(data)
	if err != nil {
		return nil, failure.Config(err)
	}
	body, err := renderer.Body(data)
	if err != nil {
		return nil, failure.Config(err)
	}

	rel, err := r.repoClient.CreateRelease(ctx, owner, repo, vcs.ReleaseRequest{
		TagName: res.Tag,
		Name:    title,
		Body:    body,
		Target:  r.target(),
	})
	if err != nil {
		return nil, failure.Host(err)
	}
	if rel == nil {
		return nil, failure.Host(errors.New("create release: empty response"))
	}
	return rel, nil
}

func (r *Releaser) pullNumber() int {
	if r.config.PullNumber > 0 {
		return r.config.PullNumber
	}
	return r.event.PullNumber
}

func (r *Releaser) branch() string {
	if r.config.Branch != "" {
		return r.config.Branch
	}
	return r.event.BaseRef
}

// target is the commitish a new tag is created on. Only the since-tag
// source pins it; pull request runs leave it to the default branch.
func (r *Releaser) target() string {
	if r.config.CommitsFrom == config.SourceSinceTag {
		return r.branch()
	}
	return ""
}

func latestTag(tags []vcs.Tag) *vcs.Tag {
	_, name := version.Latest(vcs.TagNames(tags))
	if name == "" {
		return nil
	}
	for i := range tags {
		if tags[i].Name == name {
			return &tags[i]
		}
	}
	return nil
}
