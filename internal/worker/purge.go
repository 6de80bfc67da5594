package worker

import (
	"context"
	"log"
	"time"

	"github.com/dom/xwing-campaign/internal/metrics"
	"github.com/go-co-op/gocron/v2"
)

// Purger removes expired sessions and reports how many were deleted.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// SessionPurger runs a Purger on a fixed interval.
type SessionPurger struct {
	scheduler gocron.Scheduler
	purger    Purger
	interval  time.Duration
	timeout   time.Duration
}

func NewSessionPurger(purger Purger, interval time.Duration) (*SessionPurger, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &SessionPurger{
		scheduler: scheduler,
		purger:    purger,
		interval:  interval,
		timeout:   30 * time.Second,
	}, nil
}

// Start schedules the purge job. An interval of zero leaves the scheduler idle.
func (p *SessionPurger) Start() error {
	if p.interval <= 0 {
		log.Println("Session purge disabled")
		return nil
	}

	_, err := p.scheduler.NewJob(
		gocron.DurationJob(p.interval),
		gocron.NewTask(p.RunOnce),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	p.scheduler.Start()
	log.Printf("Session purge scheduled every %s", p.interval)
	return nil
}

func (p *SessionPurger) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	deleted, err := p.purger.PurgeExpired(ctx)
	if err != nil {
		log.Printf("ERROR [worker.SessionPurger] purge failed: %v", err)
		return
	}
	if deleted > 0 {
		metrics.SessionsPurged.Add(float64(deleted))
		log.Printf("Purged %d expired sessions", deleted)
	}
}

func (p *SessionPurger) Shutdown() error {
	return p.scheduler.Shutdown()
}
