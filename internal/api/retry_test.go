package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/psyprep/psyprep/internal/exercise"
	"github.com/psyprep/psyprep/internal/report"
	"github.com/psyprep/psyprep/internal/session"
)

func testPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond}
}

// scriptedSubmitter returns the queued errors in order, then succeeds.
type scriptedSubmitter struct {
	errs  []error
	calls int
}

func (s *scriptedSubmitter) SaveSession(ctx context.Context, kind exercise.Kind, responses []session.Response) (string, error) {
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return "sess-ok", nil
}

type scriptedAnalyzer struct {
	errs  []error
	calls int
}

func (s *scriptedAnalyzer) AnalyzeSession(ctx context.Context, sessionID string) (*report.Report, error) {
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &report.Report{SessionID: sessionID}, nil
}

func TestSubmitRetry_FailTwiceThenSucceed(t *testing.T) {
	inner := &scriptedSubmitter{errs: []error{
		&ErrServer{StatusCode: 500},
		&ErrServer{StatusCode: 502},
	}}
	sub := WithRetry(inner, testPolicy())

	id, err := sub.SaveSession(context.Background(), exercise.WordAssociation, nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id != "sess-ok" {
		t.Errorf("id = %q", id)
	}
	if inner.calls != 3 {
		t.Errorf("calls = %d, want 3", inner.calls)
	}
}

func TestSubmitRetry_ExhaustsAttempts(t *testing.T) {
	inner := &scriptedSubmitter{errs: []error{
		&ErrServer{StatusCode: 500},
		&ErrServer{StatusCode: 500},
		&ErrServer{StatusCode: 500},
		&ErrServer{StatusCode: 500},
	}}
	sub := WithRetry(inner, testPolicy())

	_, err := sub.SaveSession(context.Background(), exercise.WordAssociation, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	// Exactly 1 original + 2 retries, never more.
	if inner.calls != 3 {
		t.Errorf("calls = %d, want 3", inner.calls)
	}
	var server *ErrServer
	if !errors.As(err, &server) {
		t.Errorf("err = %v, want *ErrServer", err)
	}
}

func TestSubmitRetry_UnauthorizedNotRetried(t *testing.T) {
	inner := &scriptedSubmitter{errs: []error{&ErrUnauthorized{StatusCode: 401}}}
	sub := WithRetry(inner, testPolicy())

	_, err := sub.SaveSession(context.Background(), exercise.WordAssociation, nil)
	var unauth *ErrUnauthorized
	if !errors.As(err, &unauth) {
		t.Fatalf("err = %v, want *ErrUnauthorized", err)
	}
	if inner.calls != 1 {
		t.Errorf("calls = %d, want 1", inner.calls)
	}
}

func TestSubmitRetry_ContextCancelStopsRetrying(t *testing.T) {
	inner := &scriptedSubmitter{errs: []error{
		&ErrServer{StatusCode: 500},
		&ErrServer{StatusCode: 500},
	}}
	sub := WithRetry(inner, RetryPolicy{MaxAttempts: 3, Delay: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sub.SaveSession(ctx, exercise.WordAssociation, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if inner.calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry after cancel)", inner.calls)
	}
}

func TestAnalysisRetry_OneAutomaticRetry(t *testing.T) {
	inner := &scriptedAnalyzer{errs: []error{&ErrServer{StatusCode: 503}}}
	a := WithAnalysisRetry(inner, RetryPolicy{MaxAttempts: 2, Delay: time.Millisecond})

	rep, err := a.AnalyzeSession(context.Background(), "sess-7")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if rep.SessionID != "sess-7" {
		t.Errorf("report = %+v", rep)
	}
	if inner.calls != 2 {
		t.Errorf("calls = %d, want 2", inner.calls)
	}
}

func TestAnalysisRetry_SurfacesAfterExhaustion(t *testing.T) {
	inner := &scriptedAnalyzer{errs: []error{
		&ErrServer{StatusCode: 503},
		&ErrServer{StatusCode: 503},
	}}
	a := WithAnalysisRetry(inner, RetryPolicy{MaxAttempts: 2, Delay: time.Millisecond})

	if _, err := a.AnalyzeSession(context.Background(), "sess-7"); err == nil {
		t.Fatal("expected error")
	}
	if inner.calls != 2 {
		t.Errorf("calls = %d, want 2", inner.calls)
	}
}

// End-to-end: a controller wired to a retrying submitter whose inner
// client fails twice reaches Finished off a single SubmitSession call.
func TestControllerWithRetryingSubmitter(t *testing.T) {
	inner := &scriptedSubmitter{errs: []error{
		&ErrServer{StatusCode: 500},
		&ErrServer{StatusCode: 500},
	}}

	progressStore := &mapProgressStore{m: make(map[string]*session.Snapshot)}
	c := session.New(session.Config{
		Settings:  exercise.DefaultSettings(exercise.WordAssociation),
		Source:    promptSourceFunc(func() []string { return []string{"Fire"} }),
		Submitter: WithRetry(inner, testPolicy()),
		Store:     progressStore,
	})

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	c.SetInput("truck")
	c.Submit()

	id, err := c.SubmitSession(context.Background())
	if err != nil {
		t.Fatalf("submit session: %v", err)
	}
	if id != "sess-ok" {
		t.Errorf("id = %q", id)
	}
	if inner.calls != 3 {
		t.Errorf("inner calls = %d, want 3 (two automatic retries)", inner.calls)
	}
	if c.State() != session.StateFinished {
		t.Errorf("state = %s, want finished", c.State())
	}
	if len(progressStore.m) != 0 {
		t.Error("progress store should be cleared after success")
	}
}

type promptSourceFunc func() []string

func (f promptSourceFunc) FetchPrompts(ctx context.Context, kind exercise.Kind) ([]string, error) {
	return f(), nil
}

type mapProgressStore struct {
	m map[string]*session.Snapshot
}

func (s *mapProgressStore) Save(key string, snap *session.Snapshot) error {
	s.m[key] = snap
	return nil
}

func (s *mapProgressStore) Load(key string) (*session.Snapshot, bool, error) {
	snap, ok := s.m[key]
	return snap, ok, nil
}

func (s *mapProgressStore) Clear(key string) error {
	delete(s.m, key)
	return nil
}
