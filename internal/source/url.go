// Package source resolves user-supplied skill references into a clone URL,
// an optional branch and an optional subpath inside the repository.
package source

import (
	"fmt"
	"strings"
)

// Reference is a resolved source reference.
type Reference struct {
	// CloneURL is what gets handed to the fetcher.
	CloneURL string
	// Branch is empty when the reference names no branch.
	Branch string
	// Subpath is a slash-separated path inside the repository, empty for the root.
	Subpath string
}

// HasBranch reports whether the reference pins a branch.
func (r Reference) HasBranch() bool { return r.Branch != "" }

// HasSubpath reports whether the reference points below the repository root.
func (r Reference) HasSubpath() bool { return r.Subpath != "" }

// IsGitHub reports whether the clone URL targets github.com.
func (r Reference) IsGitHub() bool {
	return strings.HasPrefix(r.CloneURL, "https://github.com/")
}

// RepoName returns the last path segment of the clone URL without ".git".
func (r Reference) RepoName() string {
	u := strings.TrimRight(r.CloneURL, "/")
	if i := strings.LastIndexAny(u, "/:"); i >= 0 {
		u = u[i+1:]
	}
	return strings.TrimSuffix(u, ".git")
}

func (r Reference) String() string {
	s := r.CloneURL
	if r.Branch != "" {
		s += "@" + r.Branch
	}
	if r.Subpath != "" {
		s += "#" + r.Subpath
	}
	return s
}

// Parse resolves a reference. It never fails: anything that is neither a
// GitHub URL nor a GitHub shorthand passes through unchanged as the clone URL.
//
// Accepted GitHub forms:
//   - owner/repo
//   - github.com/owner/repo
//   - http(s)://github.com/owner/repo[.git]
//   - https://github.com/owner/repo/tree/<branch>/<subpath...>
//   - https://github.com/owner/repo/blob/<branch>/<subpath...>
func Parse(input string) Reference {
	trimmed := strings.TrimRight(strings.TrimSpace(input), "/")

	normalized := trimmed
	switch {
	case strings.HasPrefix(normalized, "https://github.com/"):
	case strings.HasPrefix(normalized, "http://github.com/"):
		normalized = "https://github.com/" + strings.TrimPrefix(normalized, "http://github.com/")
	case strings.HasPrefix(normalized, "github.com/"):
		normalized = "https://" + normalized
	case looksLikeGitHubShorthand(normalized):
		normalized = "https://github.com/" + normalized
	}

	rest, ok := strings.CutPrefix(normalized, "https://github.com/")
	if !ok {
		return Reference{CloneURL: trimmed}
	}

	parts := strings.Split(rest, "/")
	if len(parts) < 2 {
		return Reference{CloneURL: trimmed}
	}

	owner := parts[0]
	repo := strings.TrimSuffix(parts[1], ".git")
	ref := Reference{
		CloneURL: fmt.Sprintf("https://github.com/%s/%s.git", owner, repo),
	}

	if len(parts) > 2 && (parts[2] == "tree" || parts[2] == "blob") {
		if len(parts) > 3 {
			ref.Branch = parts[3]
		}
		if len(parts) > 4 {
			ref.Subpath = strings.Join(parts[4:], "/")
		}
	}

	return ref
}

// looksLikeGitHubShorthand reports whether input is an owner/repo shorthand,
// optionally followed by tree|blob and further segments.
func looksLikeGitHubShorthand(input string) bool {
	if input == "" {
		return false
	}
	if strings.HasPrefix(input, "/") || strings.HasPrefix(input, "~") || strings.HasPrefix(input, ".") {
		return false
	}
	if strings.Contains(input, "://") || strings.Contains(input, "@") || strings.Contains(input, ":") {
		return false
	}

	parts := strings.Split(input, "/")
	if len(parts) < 2 {
		return false
	}

	owner, repo := parts[0], parts[1]
	for _, seg := range []string{owner, repo} {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	if !isValidSegment(owner) || !isValidSegment(strings.TrimSuffix(repo, ".git")) {
		return false
	}

	if len(parts) > 2 && parts[2] != "tree" && parts[2] != "blob" {
		return false
	}
	return true
}

func isValidSegment(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}
