package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type mockQueue struct {
	done       []uint64
	failed     map[uint64]string
	retried    []retryCall
	claimQueue []*Job
}

type retryCall struct {
	id       uint64
	attempts int
	runAt    time.Time
	errMsg   string
}

func (m *mockQueue) Claim(ctx context.Context, workerID string) (*Job, error) {
	if len(m.claimQueue) == 0 {
		return nil, nil
	}
	j := m.claimQueue[0]
	m.claimQueue = m.claimQueue[1:]
	return j, nil
}

func (m *mockQueue) MarkDone(ctx context.Context, id uint64) error {
	m.done = append(m.done, id)
	return nil
}

func (m *mockQueue) MarkFailed(ctx context.Context, id uint64, errMsg string) error {
	if m.failed == nil {
		m.failed = map[uint64]string{}
	}
	m.failed[id] = errMsg
	return nil
}

func (m *mockQueue) RetryLater(ctx context.Context, id uint64, attempts int, runAt time.Time, errMsg string) error {
	m.retried = append(m.retried, retryCall{id, attempts, runAt, errMsg})
	return nil
}

type mockTransport struct {
	err   error
	sends []string
}

func (m *mockTransport) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	m.sends = append(m.sends, token)
	return m.err
}

type mockMarker struct {
	err       error
	triggered []uint64
}

func (m *mockMarker) SetTriggered(ctx context.Context, reminderID uint64) error {
	m.triggered = append(m.triggered, reminderID)
	return m.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pushJob(t *testing.T, attempts int) *Job {
	t.Helper()
	payload, err := json.Marshal(PushPayload{
		ReminderID: 7,
		PushToken:  "ExponentPushToken[abc]",
		Title:      "t",
		Body:       "b",
	})
	if err != nil {
		t.Fatal(err)
	}
	return &Job{
		ID:          42,
		UserID:      3,
		Type:        TypePushDispatch,
		Payload:     payload,
		Attempts:    attempts,
		MaxAttempts: 3,
		BackoffMS:   1000,
	}
}

func newTestWorker(q *mockQueue, tr *mockTransport, mk *mockMarker) *Worker {
	return &Worker{
		ID:        "test-worker",
		Repo:      q,
		Push:      tr,
		Reminders: mk,
		Validate:  func(token string) bool { return token != "garbage" },
		Log:       testLogger(),
	}
}

func TestHandlePushSuccessMarksTriggeredThenDone(t *testing.T) {
	q := &mockQueue{}
	tr := &mockTransport{}
	mk := &mockMarker{}
	w := newTestWorker(q, tr, mk)

	w.handle(context.Background(), pushJob(t, 0))

	if len(tr.sends) != 1 {
		t.Fatalf("expected 1 send, got %d", len(tr.sends))
	}
	if len(mk.triggered) != 1 || mk.triggered[0] != 7 {
		t.Fatalf("expected reminder 7 triggered, got %v", mk.triggered)
	}
	if len(q.done) != 1 || q.done[0] != 42 {
		t.Fatalf("expected job 42 done, got %v", q.done)
	}
	if len(q.retried) != 0 || len(q.failed) != 0 {
		t.Fatalf("unexpected retry/fail calls: %v %v", q.retried, q.failed)
	}
}

func TestHandlePushInvalidTokenDroppedWithoutSend(t *testing.T) {
	q := &mockQueue{}
	tr := &mockTransport{}
	mk := &mockMarker{}
	w := newTestWorker(q, tr, mk)

	payload, _ := json.Marshal(PushPayload{ReminderID: 7, PushToken: "garbage"})
	job := pushJob(t, 0)
	job.Payload = payload

	w.handle(context.Background(), job)

	if len(tr.sends) != 0 {
		t.Fatalf("send must not be attempted for a malformed token")
	}
	if len(mk.triggered) != 0 {
		t.Fatalf("triggered flag must stay untouched")
	}
	if q.failed[42] != "invalid push token" {
		t.Fatalf("expected terminal failure, got %v", q.failed)
	}
	if len(q.retried) != 0 {
		t.Fatalf("malformed token must not be retried")
	}
}

func TestHandlePushTransientErrorRetriesWithDoublingBackoff(t *testing.T) {
	tr := &mockTransport{err: errors.New("timeout")}
	mk := &mockMarker{}

	cases := []struct {
		attempts  int
		wantDelay time.Duration
	}{
		{attempts: 0, wantDelay: time.Second},
		{attempts: 1, wantDelay: 2 * time.Second},
	}

	for _, tc := range cases {
		q := &mockQueue{}
		w := newTestWorker(q, tr, mk)

		before := time.Now()
		w.handle(context.Background(), pushJob(t, tc.attempts))

		if len(q.retried) != 1 {
			t.Fatalf("attempts=%d: expected a retry, got %v", tc.attempts, q.retried)
		}
		rc := q.retried[0]
		if rc.attempts != tc.attempts+1 {
			t.Errorf("attempts=%d: recorded attempts = %d", tc.attempts, rc.attempts)
		}
		gotDelay := rc.runAt.Sub(before)
		if gotDelay < tc.wantDelay || gotDelay > tc.wantDelay+time.Second {
			t.Errorf("attempts=%d: delay = %v, want about %v", tc.attempts, gotDelay, tc.wantDelay)
		}
	}

	if len(mk.triggered) != 0 {
		t.Fatalf("triggered flag must stay false after failed sends")
	}
}

func TestHandlePushRetriesExhaustedMarksFailed(t *testing.T) {
	q := &mockQueue{}
	tr := &mockTransport{err: errors.New("timeout")}
	mk := &mockMarker{}
	w := newTestWorker(q, tr, mk)

	// Third attempt of three: no further retry.
	w.handle(context.Background(), pushJob(t, 2))

	if len(q.retried) != 0 {
		t.Fatalf("expected no retry after exhaustion, got %v", q.retried)
	}
	if _, ok := q.failed[42]; !ok {
		t.Fatalf("expected terminal failure, got %v", q.failed)
	}
	if len(mk.triggered) != 0 {
		t.Fatalf("triggered flag must stay false after exhaustion")
	}
}

func TestHandlePushFlagErrorStillAcks(t *testing.T) {
	q := &mockQueue{}
	tr := &mockTransport{}
	mk := &mockMarker{err: errors.New("db down")}
	w := newTestWorker(q, tr, mk)

	w.handle(context.Background(), pushJob(t, 0))

	if len(q.done) != 1 {
		t.Fatalf("job must be acked even when the flag update fails")
	}
}

func TestHandleUnknownTypeFails(t *testing.T) {
	q := &mockQueue{}
	w := newTestWorker(q, &mockTransport{}, &mockMarker{})

	w.handle(context.Background(), &Job{ID: 9, Type: "MYSTERY"})

	if q.failed[9] != "unknown job type" {
		t.Fatalf("expected unknown-type failure, got %v", q.failed)
	}
}

func TestHandlePushBadPayloadFails(t *testing.T) {
	q := &mockQueue{}
	w := newTestWorker(q, &mockTransport{}, &mockMarker{})

	job := pushJob(t, 0)
	job.Payload = []byte("{not json")
	w.handle(context.Background(), job)

	if q.failed[42] != "bad payload" {
		t.Fatalf("expected bad-payload failure, got %v", q.failed)
	}
}
