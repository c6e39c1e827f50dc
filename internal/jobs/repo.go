package jobs

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type Repo struct {
	DB *gorm.DB
}

type EnqueueOptions struct {
	MaxAttempts    int
	InitialBackoff time.Duration
}

// DefaultEnqueueOptions mirrors the delivery policy: three attempts,
// exponential backoff starting at one second.
func DefaultEnqueueOptions() EnqueueOptions {
	return EnqueueOptions{MaxAttempts: 3, InitialBackoff: time.Second}
}

func (r *Repo) EnqueuePush(ctx context.Context, userID uint64, p PushPayload, opts EnqueueOptions) error {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = time.Second
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	j := Job{
		UserID:      userID,
		Type:        TypePushDispatch,
		Payload:     payload,
		RunAt:       time.Now(),
		Status:      StatusPending,
		MaxAttempts: opts.MaxAttempts,
		BackoffMS:   opts.InitialBackoff.Milliseconds(),
	}
	return r.DB.WithContext(ctx).Create(&j).Error
}

// Claim one due job atomically using SKIP LOCKED.
// Works on Postgres.
func (r *Repo) Claim(ctx context.Context, workerID string) (*Job, error) {
	var job Job
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// requeue stuck RUNNING jobs (worker died mid-attempt)
		tx.Exec(`
update jobs
set status='PENDING', locked_by=null, locked_at=null, updated_at=now()
where status='RUNNING' and locked_at is not null and locked_at < now() - interval '5 minutes'
`)

		// FOR UPDATE SKIP LOCKED ensures no double-claim
		q := tx.Raw(`
with cte as (
  select id
  from jobs
  where status='PENDING' and run_at <= now()
  order by run_at asc
  for update skip locked
  limit 1
)
update jobs
set status='RUNNING', locked_by=?, locked_at=now(), updated_at=now()
where id in (select id from cte)
returning *;
`, workerID)

		return q.Scan(&job).Error
	})
	if err != nil {
		return nil, err
	}
	if job.ID == 0 {
		return nil, nil
	}
	return &job, nil
}

func (r *Repo) MarkDone(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).
		Exec(`update jobs set status='DONE', updated_at=now() where id=?`, id).Error
}

func (r *Repo) MarkFailed(ctx context.Context, id uint64, errMsg string) error {
	return r.DB.WithContext(ctx).
		Exec(`update jobs set status='FAILED', last_error=?, updated_at=now() where id=?`, errMsg, id).Error
}

func (r *Repo) RetryLater(ctx context.Context, id uint64, attempts int, runAt time.Time, errMsg string) error {
	return r.DB.WithContext(ctx).Exec(`
update jobs
set status='PENDING',
    attempts=?,
    run_at=?,
    locked_by=null,
    locked_at=null,
    last_error=?,
    updated_at=now()
where id=?`, attempts, runAt, errMsg, id).Error
}

// Counts reports queue depth per state for operational health checks.
type Counts struct {
	Waiting   int64 `json:"waiting"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

func (r *Repo) Counts(ctx context.Context) (Counts, error) {
	var rows []struct {
		Status string
		N      int64
	}
	err := r.DB.WithContext(ctx).
		Raw(`select status, count(*) as n from jobs group by status`).
		Scan(&rows).Error
	if err != nil {
		return Counts{}, err
	}

	var c Counts
	for _, row := range rows {
		switch row.Status {
		case StatusPending:
			c.Waiting = row.N
		case StatusRunning:
			c.Active = row.N
		case StatusDone:
			c.Completed = row.N
		case StatusFailed:
			c.Failed = row.N
		}
	}
	return c, nil
}
