package reporter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/semver-release/pkg/release"
)

type TextReporter struct {
	w io.Writer
}

func (r *TextReporter) Report(res *release.Result) error {
	if res.Published {
		fmt.Fprintf(r.w, "Released %s: %s\n", res.Tag, res.ReleaseURL)
	} else {
		fmt.Fprintf(r.w, "Dry run mode: The next version would be %s\n", res.Decision.Next)
	}

	previous := res.Previous
	if previous == "" {
		previous = "(none)"
	}
	trigger := subject(res.Decision.Trigger)
	if trigger == "" {
		trigger = "-"
	}

	w := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PREVIOUS\tNEXT\tTAG\tBUMP\tCOMMITS\tTRIGGER")
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
		previous,
		res.Decision.Next,
		res.Tag,
		res.Decision.Bump,
		len(res.Commits),
		trigger,
	)
	return w.Flush()
}

func subject(msg string) string {
	line, _, _ := strings.Cut(msg, "\n")
	return strings.TrimSpace(line)
}
