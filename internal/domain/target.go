// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"errors"
	"regexp"
	"strings"
)

// DefaultHost is the public GitHub host. Any other host is treated as GitHub Enterprise.
const DefaultHost = "github.com"

// DefaultAPIBaseURL is the REST API root for the public GitHub host.
const DefaultAPIBaseURL = "https://api.github.com"

// ErrInvalidURL is returned when a URL does not carry an organization or repository path.
var ErrInvalidURL = errors.New("invalid URL: it must contain an organization or repository path")

// TargetKind tells whether a scan covers one repository or a whole organization.
type TargetKind int

const (
	KindOrganization TargetKind = iota
	KindRepository
)

// String returns the human-readable kind used in console output and the HTML report.
func (k TargetKind) String() string {
	if k == KindOrganization {
		return "Organization"
	}
	return "Repository"
}

// Target is the organization or repository being scanned.
type Target struct {
	Kind TargetKind
	// Path is the organization name or the repository path (owner/name).
	Path string
	// APIBaseURL is the REST root derived from the URL host.
	APIBaseURL string
}

// IsOrg reports whether the target is a whole organization.
func (t Target) IsOrg() bool {
	return t.Kind == KindOrganization
}

var (
	protocolPattern = regexp.MustCompile(`^https?://`)
	domainPattern   = regexp.MustCompile(`^[^/]*/`)
	gitSuffix       = regexp.MustCompile(`\.git$`)
)

// ParseTarget classifies a hosting-service URL.
//
// A path with no slash is an organization, anything else is a repository. Paths with more
// than one slash are kept as-is and treated as a repository without further validation.
func ParseTarget(rawURL string) (Target, error) {
	rest := protocolPattern.ReplaceAllString(strings.TrimSpace(rawURL), "")

	apiBase := DefaultAPIBaseURL
	if host := strings.SplitN(rest, "/", 2)[0]; host != "" && host != DefaultHost {
		apiBase = "https://api." + host
	}

	path := domainPattern.ReplaceAllString(rest, "")
	if path == rest {
		// No slash after the host: the URL names only a domain.
		path = ""
	}
	path = gitSuffix.ReplaceAllString(path, "")
	path = strings.TrimRight(path, "/")
	if path == "" {
		return Target{}, ErrInvalidURL
	}

	kind := KindRepository
	if !strings.Contains(path, "/") {
		kind = KindOrganization
	}
	return Target{Kind: kind, Path: path, APIBaseURL: apiBase}, nil
}
