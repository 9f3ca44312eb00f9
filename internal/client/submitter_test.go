package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func draftForSubmit() *Draft {
	d := NewDraft(4, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), checklist(10, 11))
	_ = d.SetRating(10, 10)
	_ = d.SetRating(11, 6)
	return d
}

func submissionServer(t *testing.T, handle http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/cleanings/submissions/", handle)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	store := NewMemoryTokenStore()
	_ = store.SetPair("access", "refresh")

	c, err := New(ts.URL, store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestSubmitSuccess(t *testing.T) {
	c := submissionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Submission{ID: 42, Location: 4, CompletionRate: 80})
	})

	var states []SubmitState
	var mu sync.Mutex
	s := NewSubmitter(c,
		WithSuccessDelay(20*time.Millisecond),
		WithStateHandler(func(st SubmitState) {
			mu.Lock()
			states = append(states, st)
			mu.Unlock()
		}),
	)

	if err := s.SetDraft(draftForSubmit()); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	result, err := s.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.ID != 42 {
		t.Errorf("result ID = %d, want 42", result.ID)
	}
	if s.Draft() != nil {
		t.Error("draft should be cleared after success")
	}
	if s.State() != StateSucceeded {
		t.Errorf("state = %s, want succeeded", s.State())
	}

	// After the grace delay the submitter returns to idle
	deadline := time.Now().Add(time.Second)
	for s.State() != StateIdle {
		if time.Now().After(deadline) {
			t.Fatalf("state stuck at %s", s.State())
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []SubmitState{StateEncoding, StateSending, StateSucceeded, StateIdle}
	if len(states) != len(want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("states[%d] = %s, want %s", i, states[i], want[i])
		}
	}
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	c := submissionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Submission already exists for this location and date."})
	})

	s := NewSubmitter(c, WithSuccessDelay(time.Millisecond))
	draft := draftForSubmit()
	_ = s.SetDraft(draft)

	_, err := s.Submit(context.Background())
	if !IsBadRequest(err) {
		t.Fatalf("err = %v, want 400 APIError", err)
	}
	if s.State() != StateFailed {
		t.Errorf("state = %s, want failed", s.State())
	}
	if s.Draft() != draft {
		t.Error("draft must survive a failed attempt")
	}
	if s.Err() == nil {
		t.Error("Err() should report the failure")
	}
}

func TestSubmitFailedAttemptCanBeRetried(t *testing.T) {
	attempts := 0
	c := submissionServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "try later"})
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Submission{ID: 7})
	})

	s := NewSubmitter(c, WithSuccessDelay(time.Millisecond))
	_ = s.SetDraft(draftForSubmit())

	if _, err := s.Submit(context.Background()); err == nil {
		t.Fatal("first attempt should fail")
	}
	result, err := s.Submit(context.Background())
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if result.ID != 7 {
		t.Errorf("result ID = %d, want 7", result.ID)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestSubmitWhileInFlightIsRejected(t *testing.T) {
	release := make(chan struct{})
	c := submissionServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Submission{ID: 1})
	})

	s := NewSubmitter(c, WithSuccessDelay(time.Millisecond))
	_ = s.SetDraft(draftForSubmit())

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()

	// Wait until the first attempt is holding the sending state
	deadline := time.Now().Add(time.Second)
	for s.State() != StateSending {
		if time.Now().After(deadline) {
			t.Fatalf("state = %s, never reached sending", s.State())
		}
		time.Sleep(2 * time.Millisecond)
	}

	if _, err := s.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("duplicate submit err = %v, want ErrSubmitInFlight", err)
	}
	if err := s.SetDraft(draftForSubmit()); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("SetDraft during flight err = %v, want ErrSubmitInFlight", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
}

func TestSubmitWithoutDraft(t *testing.T) {
	c := submissionServer(t, func(w http.ResponseWriter, r *http.Request) {})
	s := NewSubmitter(c)

	if _, err := s.Submit(context.Background()); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("err = %v, want ErrNoDraft", err)
	}
}
