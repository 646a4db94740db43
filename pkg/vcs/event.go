package vcs

import (
	"fmt"
	"os"

	"github.com/google/go-github/v60/github"
)

// Event is the part of the triggering workflow event the action needs.
type Event struct {
	Name       string
	PullNumber int
	BaseRef    string
}

// IsPullRequest reports whether the event was raised by a pull request.
func (e Event) IsPullRequest() bool {
	return e.Name == "pull_request" || e.Name == "pull_request_target"
}

// LoadEvent reads the webhook payload at path. Pull request fields are only
// populated for pull request events; other payloads are not decoded. An empty
// path yields an Event carrying only the name.
func LoadEvent(name, path string) (Event, error) {
	ev := Event{Name: name}
	if path == "" || !ev.IsPullRequest() {
		return ev, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ev, fmt.Errorf("read event payload: %w", err)
	}
	return parsePullRequestEvent(ev, data)
}

func parsePullRequestEvent(ev Event, payload []byte) (Event, error) {
	parsed, err := github.ParseWebHook("pull_request", payload)
	if err != nil {
		return ev, fmt.Errorf("parse %s payload: %w", ev.Name, err)
	}
	pre, ok := parsed.(*github.PullRequestEvent)
	if !ok || pre.PullRequest == nil {
		return ev, fmt.Errorf("pull request payload is missing")
	}

	pr := pre.GetPullRequest()
	ev.PullNumber = pr.GetNumber()
	if ev.PullNumber == 0 {
		ev.PullNumber = pre.GetNumber()
	}
	ev.BaseRef = pr.GetBase().GetRef()
	return ev, nil
}
