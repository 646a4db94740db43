package reporter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/semver-release/pkg/release"
)

// WriteOutputs appends the step outputs for res to the file GitHub Actions
// exposes as $GITHUB_OUTPUT. An empty path is a no-op.
func WriteOutputs(path string, res *release.Result) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open step output file: %w", err)
	}
	return writeAndClose(f, res)
}

// writeAndClose reports a close error only when the write itself succeeded.
func writeAndClose(wc io.WriteCloser, res *release.Result) error {
	werr := writeOutputs(wc, res)
	cerr := wc.Close()
	if werr != nil {
		return fmt.Errorf("write step outputs: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("close step output file: %w", cerr)
	}
	return nil
}

func writeOutputs(w io.Writer, res *release.Result) error {
	outputs := [][2]string{
		{"version", res.Decision.Next.String()},
		{"tag", res.Tag},
		{"bump", res.Decision.Bump.String()},
		{"published", strconv.FormatBool(res.Published)},
	}
	if res.ReleaseURL != "" {
		outputs = append(outputs, [2]string{"release-url", res.ReleaseURL})
	}
	for _, kv := range outputs {
		if _, err := fmt.Fprintf(w, "%s=%s\n", kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

// Annotate writes msg as a workflow error command so the failure shows up
// on the run summary.
func Annotate(w io.Writer, msg string) {
	fmt.Fprintf(w, "::error::%s\n", escapeData(msg))
}

func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}
