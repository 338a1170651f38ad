package skillmd

import "github.com/Masterminds/semver/v3"

// CompareVersions compares two metadata versions. ok is false when either
// side is not a semantic version.
func CompareVersions(from, to string) (cmp int, ok bool) {
	a, err := semver.NewVersion(from)
	if err != nil {
		return 0, false
	}
	b, err := semver.NewVersion(to)
	if err != nil {
		return 0, false
	}
	return a.Compare(b), true
}

// DescribeVersionChange renders a human summary of a version transition,
// or "" when nothing changed or either side is unknown.
func DescribeVersionChange(from, to string) string {
	if from == "" || to == "" || from == to {
		return ""
	}
	cmp, ok := CompareVersions(from, to)
	switch {
	case !ok:
		return from + " -> " + to
	case cmp < 0:
		return "upgraded " + from + " -> " + to
	case cmp > 0:
		return "downgraded " + from + " -> " + to
	}
	return ""
}
