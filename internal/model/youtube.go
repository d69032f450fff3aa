package model

import (
	"net/url"
	"strings"
)

// YouTubeID extracts the video id from a YouTube watch, short or embed
// URL. Unparseable URLs yield "".
func YouTubeID(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	if u.Hostname() == "youtu.be" {
		return strings.TrimPrefix(u.Path, "/")
	}
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	for i, p := range parts {
		if p == "embed" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}
	return ""
}
