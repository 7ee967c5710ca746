package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/whatsthatbrick/whatsthatbrick/internal/models"
	"gorm.io/gorm"
)

// Sweeper periodically deletes read notifications older than the retention
// window. Unread notifications are never swept.
type Sweeper struct {
	db        *gorm.DB
	interval  time.Duration
	retention time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewSweeper(db *gorm.DB, interval, retention time.Duration) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		db:        db,
		interval:  interval,
		retention: retention,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start runs the sweep loop until Stop is called.
func (s *Sweeper) Start() {
	log.Printf("Starting notification sweeper (retention %s)", s.retention)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// Stop cancels the loop; an in-flight sweep finishes on its own.
func (s *Sweeper) Stop() {
	s.cancel()
	log.Println("Notification sweeper stopped")
}

func (s *Sweeper) sweep() {
	cutoff := time.Now().Add(-s.retention)

	result := s.db.Unscoped().
		Where("read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})

	if result.Error != nil {
		log.Printf("Notification sweep failed: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Swept %d read notifications older than %s", result.RowsAffected, cutoff.Format(time.RFC3339))
	}
}
