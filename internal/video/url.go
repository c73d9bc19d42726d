package video

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var videoIDRE = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// IsVideoID reports whether s looks like a bare YouTube video id.
func IsVideoID(s string) bool {
	return videoIDRE.MatchString(s)
}

// ParseVideoID extracts the video id from the common YouTube URL shapes
// (watch?v=, youtu.be/, /shorts/, /embed/, /live/) or accepts a bare id.
// It is a cheap local check; the extractor remains the authority on what
// resolves.
func ParseVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty url")
	}
	if IsVideoID(raw) {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("not an http(s) URL: %s", raw)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	switch host {
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		if IsVideoID(id) {
			return id, nil
		}
	case "youtube.com", "music.youtube.com", "youtube-nocookie.com":
		if v := u.Query().Get("v"); IsVideoID(v) {
			return v, nil
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 {
			switch parts[0] {
			case "shorts", "embed", "live", "v":
				if IsVideoID(parts[1]) {
					return parts[1], nil
				}
			}
		}
	default:
		return "", fmt.Errorf("not a YouTube URL: %s", raw)
	}
	return "", fmt.Errorf("could not extract video ID from URL: %s", raw)
}
