package practice

import (
	"fmt"
	"net/url"
	"strings"

	"studyhub/internal/common"
)

// problemMarker is the fixed path segment that precedes a problem slug in
// practice-site links, e.g. https://practice.example.com/problems/two-sum/.
const problemMarker = "/problems/"

// ParseProblemSlug extracts the problem slug from a task's resource link.
// Links without the marker, or with nothing after it, are rejected outright;
// callers must not fall back to partial verification.
func ParseProblemSlug(resourceURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(resourceURL))
	if err != nil {
		return "", fmt.Errorf("unparseable resource link: %w", common.ErrMalformedLink)
	}

	idx := strings.Index(u.Path, problemMarker)
	if idx < 0 {
		return "", fmt.Errorf("resource link has no %q segment: %w", problemMarker, common.ErrMalformedLink)
	}

	rest := u.Path[idx+len(problemMarker):]
	slug := rest
	if slash := strings.IndexByte(rest, '/'); slash >= 0 {
		slug = rest[:slash]
	}
	if slug == "" {
		return "", fmt.Errorf("resource link has empty problem slug: %w", common.ErrMalformedLink)
	}
	return slug, nil
}
