package reporter

import (
	"io"

	"github.com/semver-release/pkg/release"
)

type Reporter interface {
	Report(res *release.Result) error
}

func New(format string, w io.Writer) Reporter {
	switch format {
	case "json":
		return &JSONReporter{w: w}
	default:
		return &TextReporter{w: w}
	}
}
