// Package social turns the SOCIAL_HANDLES configuration into displayable
// footer links. Entries may be bare handles ("@yourbrand", "yourbrand") or
// full profile URLs.
package social

import (
	"net/url"
	"strings"
)

type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Links normalizes configured handles into label/URL pairs. Invalid URLs fall
// back to a generic label rather than being dropped.
func Links(handles []string) []Link {
	links := make([]Link, 0, len(handles))
	for _, h := range handles {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		links = append(links, Link{Label: label(h), URL: profileURL(h)})
	}
	return links
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func profileURL(s string) string {
	if isURL(s) {
		return s
	}
	return "https://instagram.com/" + strings.TrimPrefix(s, "@")
}

func label(s string) string {
	if isURL(s) {
		u, err := url.Parse(s)
		if err != nil {
			return "@instagram"
		}
		for _, seg := range strings.Split(u.Path, "/") {
			if seg != "" {
				return "@" + seg
			}
		}
		return "@instagram"
	}
	return "@" + strings.TrimPrefix(s, "@")
}
