package clean

import "strings"

// Matcher decides whether a normalized (trimmed, lowercased) status value
// counts as verified. The default is an exact match against "verified";
// substring mode is an explicit opt-in for exports that bury the status in
// longer text, never inferred.
type Matcher struct {
	values    []string
	substring bool
}

// NewMatcher builds a Matcher from accepted values. Values are expected
// pre-normalized (config does this); an empty list means the default.
func NewMatcher(values []string, substring bool) *Matcher {
	if len(values) == 0 {
		values = []string{"verified"}
	}
	return &Matcher{values: values, substring: substring}
}

// DefaultMatcher matches exactly "verified".
func DefaultMatcher() *Matcher {
	return NewMatcher(nil, false)
}

// Verified reports whether the raw status field passes the policy.
// The field is trimmed and lowercased before comparison, so "  Verified "
// and "VERIFIED" pass while "verified-pending" does not in exact mode.
func (m *Matcher) Verified(raw string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return false
	}
	for _, v := range m.values {
		if m.substring {
			if strings.Contains(s, v) {
				return true
			}
		} else if s == v {
			return true
		}
	}
	return false
}
