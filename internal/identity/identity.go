// Package identity maps commit author signatures onto canonical contributor keys.
package identity

import (
	"regexp"
	"strings"
)

// noreplyPattern matches anonymized addresses such as
// 12345+octocat@users.noreply.github.com.
var noreplyPattern = regexp.MustCompile(`^(\d+)\+.+@users\.noreply\.([a-z0-9.-]+)$`)

// Normalize returns the key under which commits of one logical contributor are merged.
// Noreply addresses collapse to "<host-tag>:<account id>", so a platform account that
// committed under several names or emails ends up as a single contributor.
func Normalize(email, authorName string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return strings.ToLower(strings.TrimSpace(authorName))
	}

	if m := noreplyPattern.FindStringSubmatch(normalized); m != nil {
		return hostTag(m[2]) + ":" + m[1]
	}

	return normalized
}

// hostTag is the first DNS label of host: github.com -> github.
func hostTag(host string) string {
	if i := strings.IndexByte(host, '.'); i > 0 {
		return host[:i]
	}
	return host
}
