package video

import (
	"fmt"
	"time"
)

// VideoRef describes one resolved video. It is created by the Resolver and
// read-only afterwards.
type VideoRef struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	UploadDate string `json:"upload_date"` // YYYYMMDD as reported by the extractor
	Channel    string `json:"channel"`
	Duration   string `json:"duration"` // human readable, e.g. "12:34"
}

// UploadDateDisplay formats a YYYYMMDD upload date as YYYY-MM-DD and returns
// any other value unchanged.
func (v VideoRef) UploadDateDisplay() string {
	t, err := time.Parse("20060102", v.UploadDate)
	if err != nil {
		return v.UploadDate
	}
	return t.Format("2006-01-02")
}

// ytdlpInfo is the subset of `yt-dlp --dump-single-json` we read.
type ytdlpInfo struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	UploadDate     string  `json:"upload_date"`
	Channel        string  `json:"channel"`
	Uploader       string  `json:"uploader"`
	DurationString string  `json:"duration_string"`
	Duration       float64 `json:"duration"`
}

func (i ytdlpInfo) toRef() VideoRef {
	ref := VideoRef{
		ID:         i.ID,
		Title:      i.Title,
		UploadDate: i.UploadDate,
		Channel:    i.Channel,
		Duration:   i.DurationString,
	}
	if ref.Channel == "" {
		ref.Channel = i.Uploader
	}
	if ref.Duration == "" && i.Duration > 0 {
		ref.Duration = formatDuration(time.Duration(i.Duration * float64(time.Second)))
	}
	return ref
}

// formatDuration renders like yt-dlp's duration_string: "45", "3:07", "1:02:03".
func formatDuration(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	switch {
	case h > 0:
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	case m > 0:
		return fmt.Sprintf("%d:%02d", m, s)
	default:
		return fmt.Sprintf("%d", s)
	}
}
