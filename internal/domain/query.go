package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the date format the search API expects in range qualifiers.
const DateLayout = "2006-01-02"

// ErrMissingInput is returned when the organization name or access token is absent.
var ErrMissingInput = errors.New("please provide the organization name and access token")

// Query holds the parameters of a single counting run.
// From and To are passed to the search API verbatim.
type Query struct {
	Org       string
	From      string
	To        string
	Breakdown bool
}

// Validate reports ErrMissingInput when the run cannot start.
func (q Query) Validate(token string) error {
	if strings.TrimSpace(q.Org) == "" || token == "" {
		return ErrMissingInput
	}
	return nil
}

// OrgScope restricts a search to every repository of org.
func OrgScope(org string) string {
	return "org:" + org
}

// RepoScope restricts a search to a single repository.
func RepoScope(org, repo string) string {
	return fmt.Sprintf("repo:%s/%s", org, repo)
}

// MergedQuery builds the issue search query for pull requests merged between from and to.
func MergedQuery(from, to, scope string) string {
	return fmt.Sprintf("is:pr is:merged merged:%s..%s %s", from, to, scope)
}

// inputDateLayouts are the accepted spellings of a date typed by a user.
var inputDateLayouts = []string{DateLayout, "2006/01/02"}

// ParseDate checks that s is a calendar date and returns it in DateLayout.
func ParseDate(s string) (string, error) {
	for _, layout := range inputDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
}

// DefaultRange returns January 1st of now's year through now.
func DefaultRange(now time.Time) (string, string) {
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return start.Format(DateLayout), now.Format(DateLayout)
}
