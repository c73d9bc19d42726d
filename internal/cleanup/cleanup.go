// Package cleanup prunes extracted audio files on a cron schedule.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/dasolkim7/speaker-diarization/pkg/file"
	"github.com/dasolkim7/speaker-diarization/pkg/icron"
	"github.com/dasolkim7/speaker-diarization/pkg/log"
)

type cronRegistry interface {
	AddFunc(spec string, cmd func()) (cron.EntryID, error)
}

// AudioCleaner removes audio files older than the retention window.
type AudioCleaner struct {
	dir       string
	retention time.Duration
	cronExpr  string
	cron      cronRegistry
	now       func() time.Time
	group     singleflight.Group
}

func NewAudioCleaner(dir string, retention time.Duration, cronExpr string, c cronRegistry) *AudioCleaner {
	return &AudioCleaner{
		dir:       dir,
		retention: retention,
		cronExpr:  cronExpr,
		cron:      c,
		now:       time.Now,
	}
}

// Schedule registers the sweep. An empty expression leaves audio in place
// forever.
func (c *AudioCleaner) Schedule(ctx context.Context) error {
	if c.cronExpr == "" {
		log.Info("Audio cleanup disabled")
		return nil
	}
	if c.retention <= 0 {
		return fmt.Errorf("audio retention must be positive, got %s", c.retention)
	}

	info, err := icron.GetTriggerInfo(c.cronExpr, c.now())
	if err != nil {
		return err
	}

	_, err = c.cron.AddFunc(c.cronExpr, func() {
		_, _, _ = c.group.Do("sweep", func() (any, error) {
			removed, err := c.Sweep(ctx)
			if err != nil {
				log.Error("Audio cleanup in %s failed: %v", c.dir, err)
			}
			return removed, err
		})
	})
	if err != nil {
		return fmt.Errorf("schedule audio cleanup: %w", err)
	}
	log.Info("Audio cleanup scheduled for %s, keeping %s: %s", c.dir, c.retention, info)
	return nil
}

// Sweep deletes stale files once and returns their paths.
func (c *AudioCleaner) Sweep(ctx context.Context) ([]string, error) {
	cutoff := c.now().Add(-c.retention)
	stale, err := file.FindOlderThan(c.dir, cutoff)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", c.dir, err)
	}

	removed := make([]string, 0, len(stale))
	var errs []error
	for _, path := range stale {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, path)
	}
	if len(removed) > 0 {
		log.Info("Removed %d audio files older than %s", len(removed), cutoff.Format(time.RFC3339))
	}
	return removed, errors.Join(errs...)
}
