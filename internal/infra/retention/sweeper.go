package retention

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/civicworks/udcpr-compliance/internal/domain/audit"
	"github.com/civicworks/udcpr-compliance/internal/domain/notifications"
)

const DefaultDays = 90

// Sweeper purge audit log dan notifikasi yang lebih tua dari retention window
type Sweeper struct {
	Audit  audit.Repository
	Notify notifications.Repository
	Days   int

	cron *cron.Cron
}

func NewSweeper(auditRepo audit.Repository, notifyRepo notifications.Repository, days int) *Sweeper {
	if days <= 0 {
		days = DefaultDays
	}
	return &Sweeper{Audit: auditRepo, Notify: notifyRepo, Days: days}
}

// Start schedule sweep harian. Schedule kosong berarti jam 02:00 tiap hari.
func (s *Sweeper) Start(schedule string) error {
	if schedule == "" {
		schedule = "0 2 * * *"
	}
	s.cron = cron.New()
	_, err := s.cron.AddFunc(schedule, func() { s.Sweep(context.Background()) })
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Sweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -s.Days)
	if s.Audit != nil {
		n, err := s.Audit.PurgeBefore(ctx, cutoff)
		if err != nil {
			log.Printf("retention: audit purge failed: %v", err)
		} else if n > 0 {
			log.Printf("retention: purged %d audit entries older than %s", n, cutoff.Format("2006-01-02"))
		}
	}
	if s.Notify != nil {
		n, err := s.Notify.PurgeBefore(ctx, cutoff)
		if err != nil {
			log.Printf("retention: notification purge failed: %v", err)
		} else if n > 0 {
			log.Printf("retention: purged %d notifications older than %s", n, cutoff.Format("2006-01-02"))
		}
	}
}
