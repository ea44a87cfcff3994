package notification

import (
	"context"
	"sync"
	"time"

	authdomain "planner-backend/internal/auth/domain"

	"github.com/rs/zerolog/log"
)

const (
	outboxCapacity = 100
	outboxTimeout  = 30 * time.Second
)

type confirmationJob struct {
	user authdomain.User
}

// Outbox sends best-effort emails on background workers so request
// handlers never wait on SMTP.
type Outbox struct {
	service     *Service
	jobQueue    chan confirmationJob
	workerWg    sync.WaitGroup
	workerCount int
	started     bool
	stopped     bool
	mu          sync.Mutex
}

func NewOutbox(service *Service, workerCount int) *Outbox {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &Outbox{
		service:     service,
		jobQueue:    make(chan confirmationJob, outboxCapacity),
		workerCount: workerCount,
	}
}

// Start launches the workers. Calling it twice is a no-op.
func (o *Outbox) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.started || o.stopped {
		return
	}
	for i := 0; i < o.workerCount; i++ {
		o.workerWg.Add(1)
		go o.worker()
	}
	o.started = true
	log.Info().Str("component", "outbox").Int("workers", o.workerCount).Msg("started")
}

// Stop drains queued jobs and waits for the workers.
func (o *Outbox) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.jobQueue)
	o.mu.Unlock()

	o.workerWg.Wait()
	log.Info().Str("component", "outbox").Msg("stopped")
}

func (o *Outbox) worker() {
	defer o.workerWg.Done()
	for job := range o.jobQueue {
		o.process(job)
	}
}

func (o *Outbox) process(job confirmationJob) {
	ctx, cancel := context.WithTimeout(context.Background(), outboxTimeout)
	defer cancel()

	if err := o.service.SendNotificationsEnabled(ctx, &job.user); err != nil {
		log.Warn().Err(err).Str("component", "outbox").Str("user_id", job.user.ID).Msg("confirmation email failed")
	}
}

// QueueNotificationsEnabled enqueues the confirmation email without
// blocking. It returns false when the queue is full or closed.
func (o *Outbox) QueueNotificationsEnabled(user *authdomain.User) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return false
	}
	select {
	case o.jobQueue <- confirmationJob{user: *user}:
		return true
	default:
		return false
	}
}
