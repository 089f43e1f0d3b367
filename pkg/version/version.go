// Package version implements the semantic-version policy for releases:
// parsing, pre-release ordinal advancement, and major/minor/patch bumps.
package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const defaultPreLabel = "alpha"

// ErrInvalidFormat reports a string that is not a supported version.
var ErrInvalidFormat = errors.New("invalid version format")

// ErrInvalidReleaseVersion reports a stable-release target that is not
// plain MAJOR.MINOR.PATCH.
var ErrInvalidReleaseVersion = errors.New("invalid release version")

// versionPattern is stricter than full semver: it admits exactly the
// forms the build descriptor may carry, MAJOR.MINOR.PATCH with an
// optional -label.N suffix.
var (
	versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z]+\.?\d*)?$`)
	stablePattern  = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
)

// Version is a parsed release version.
type Version struct {
	Major, Minor, Patch uint64
	PreLabel            string // empty for stable versions
	PreNum              uint64 // 0 when the suffix carries no ordinal
}

// String renders the version in descriptor form.
func (v Version) String() string {
	base := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.PreLabel == "" {
		return base
	}
	return fmt.Sprintf("%s-%s.%d", base, v.PreLabel, v.PreNum)
}

// IsPreRelease reports whether the version carries a pre-release suffix.
func (v Version) IsPreRelease() bool {
	return v.PreLabel != ""
}

// Parse validates and decomposes a version string.
func Parse(s string) (Version, error) {
	if !versionPattern.MatchString(s) {
		return Version{}, fmt.Errorf("%w: %q does not match MAJOR.MINOR.PATCH[-label.N]", ErrInvalidFormat, s)
	}

	sv, err := semver.StrictNewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, s, err)
	}

	v := Version{Major: sv.Major(), Minor: sv.Minor(), Patch: sv.Patch()}
	if pre := sv.Prerelease(); pre != "" {
		label, num, ok := strings.Cut(pre, ".")
		v.PreLabel = label
		if ok {
			n, convErr := strconv.ParseUint(num, 10, 64)
			if convErr != nil {
				return Version{}, fmt.Errorf("%w: %q has non-numeric pre-release ordinal", ErrInvalidFormat, s)
			}
			v.PreNum = n
		}
	}
	return v, nil
}

// NextPreRelease computes the next pre-release version. A version that
// already carries a pre-release suffix advances its ordinal, keeping the
// label and base triple. A stable version gets "-alpha.1" appended.
// Pure and deterministic: callers must re-read the stored version before
// each call, never feed a previous result back in.
func NextPreRelease(current string) (string, error) {
	v, err := Parse(current)
	if err != nil {
		return "", err
	}
	if v.IsPreRelease() {
		v.PreNum++
		return v.String(), nil
	}
	v.PreLabel = defaultPreLabel
	v.PreNum = 1
	return v.String(), nil
}

// BumpKind selects which component NextBump advances.
type BumpKind string

const (
	BumpMajor BumpKind = "major"
	BumpMinor BumpKind = "minor"
	BumpPatch BumpKind = "patch"
)

// NextBump computes the next stable version, zeroing all lower
// components. Any pre-release suffix on the input is dropped.
func NextBump(current string, kind BumpKind) (string, error) {
	v, err := Parse(current)
	if err != nil {
		return "", err
	}

	next := Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch}
	switch kind {
	case BumpMajor:
		next.Major++
		next.Minor, next.Patch = 0, 0
	case BumpMinor:
		next.Minor++
		next.Patch = 0
	case BumpPatch:
		next.Patch++
	default:
		return "", fmt.Errorf("unknown bump kind %q (valid: major, minor, patch)", kind)
	}
	return next.String(), nil
}

// ValidateStable rejects anything but plain MAJOR.MINOR.PATCH.
func ValidateStable(s string) error {
	if !stablePattern.MatchString(s) {
		return fmt.Errorf("%w: %q must be MAJOR.MINOR.PATCH with no suffix", ErrInvalidReleaseVersion, s)
	}
	return nil
}
