package reporter

import (
	"encoding/json"
	"io"

	"github.com/semver-release/pkg/release"
)

type JSONReporter struct {
	w io.Writer
}

type jsonCommit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
}

type jsonResult struct {
	Version    string       `json:"version"`
	Tag        string       `json:"tag"`
	Previous   string       `json:"previous,omitempty"`
	Bump       string       `json:"bump"`
	Trigger    string       `json:"trigger,omitempty"`
	Published  bool         `json:"published"`
	ReleaseURL string       `json:"release_url,omitempty"`
	Commits    []jsonCommit `json:"commits"`
}

func (r *JSONReporter) Report(res *release.Result) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")

	out := jsonResult{
		Version:    res.Decision.Next.String(),
		Tag:        res.Tag,
		Previous:   res.Previous,
		Bump:       res.Decision.Bump.String(),
		Trigger:    res.Decision.Trigger,
		Published:  res.Published,
		ReleaseURL: res.ReleaseURL,
		Commits:    make([]jsonCommit, 0, len(res.Commits)),
	}
	for _, c := range res.Commits {
		out.Commits = append(out.Commits, jsonCommit{SHA: c.SHA, Message: c.Message})
	}
	return enc.Encode(out)
}
