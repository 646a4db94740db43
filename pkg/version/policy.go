package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	DefaultMajorKeyword  = "BREAKING_CHANGE"
	DefaultMinorKeywords = "fix,feat"
)

type Bump int

const (
	BumpNone Bump = iota
	BumpPatch
	BumpMinor
	BumpMajor
)

func (b Bump) String() string {
	switch b {
	case BumpPatch:
		return "patch"
	case BumpMinor:
		return "minor"
	case BumpMajor:
		return "major"
	default:
		return "none"
	}
}

// Policy classifies commit messages by substring containment.
type Policy struct {
	MajorKeyword  string
	MinorKeywords []string
}

func DefaultPolicy() Policy {
	return Policy{
		MajorKeyword:  DefaultMajorKeyword,
		MinorKeywords: SplitKeywords(DefaultMinorKeywords),
	}
}

// Decision is the outcome of one policy evaluation.
type Decision struct {
	Latest  *semver.Version // nil when no tag parsed
	Next    *semver.Version
	Bump    Bump
	Trigger string // commit message behind a minor or major bump
	Publish bool
}

// Next derives the next version from tags and commit messages.
//
// The default is a patch bump of the latest tag, or 0.0.0 when there is no
// tag. A major keyword anywhere wins and stops the scan. Otherwise the first
// commit carrying a minor keyword yields a single minor bump; later minor
// matches do not compound. Commits are scanned once, in the order given.
func (p Policy) Next(tags, commits []string) Decision {
	latest, _ := Latest(tags)

	basis := semver.New(0, 0, 0, "", "")
	baseline, bump := *basis, BumpNone
	if latest != nil {
		basis = latest
		baseline, bump = latest.IncPatch(), BumpPatch
	}

	d := Decision{Latest: latest, Next: &baseline, Bump: bump}

	minorAt := -1
	for i, msg := range commits {
		if p.isMajor(msg) {
			next := basis.IncMajor()
			d.Next, d.Bump, d.Trigger = &next, BumpMajor, msg
			return d
		}
		if minorAt < 0 && p.isMinor(msg) {
			minorAt = i
		}
	}

	if minorAt >= 0 {
		next := basis.IncMinor()
		d.Next, d.Bump, d.Trigger = &next, BumpMinor, commits[minorAt]
	}
	return d
}

func (p Policy) isMajor(msg string) bool {
	return p.MajorKeyword != "" && strings.Contains(msg, p.MajorKeyword)
}

func (p Policy) isMinor(msg string) bool {
	for _, k := range p.MinorKeywords {
		if k != "" && strings.Contains(msg, k) {
			return true
		}
	}
	return false
}

// NextVersion is the functional form of Policy.Next.
func NextVersion(tags, commits []string, majorKeyword string, minorKeywords []string) *semver.Version {
	return Policy{MajorKeyword: majorKeyword, MinorKeywords: minorKeywords}.Next(tags, commits).Next
}

// ShouldPublish gates the release creation on the trigger-release setting.
func ShouldPublish(trigger bool) bool {
	return trigger
}
