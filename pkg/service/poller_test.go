package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tunebench-io/tunebench/pkg/status"
)

// S3: host_start returns 202 retry-after:0 async-op:/op/42 (so the
// poller's DefaultInterval applies); polling /op/42 returns InProgress
// twice then Succeeded. Expect final (succeeded, body) after three
// polling intervals, at most 3 GETs.
func TestPollerScenarioS3(t *testing.T) {
	var gets int32
	mux := http.NewServeMux()
	mux.HandleFunc("/hosts/start", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("async-op", "/op/42")
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("/op/42", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&gets, 1)
		w.Header().Set("Content-Type", "application/json")
		if n < 3 {
			w.Write([]byte(`{"status":"InProgress"}`))
			return
		}
		w.Write([]byte(`{"status":"Succeeded","result":"ok"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := &http.Client{Timeout: DefaultRequestTimeout}
	st, _, handle, err := Initiate(context.Background(), client, http.MethodPost, srv.URL+"/hosts/start", Params{})
	if err != nil {
		t.Fatal(err)
	}
	if st != status.Pending {
		t.Fatalf("expected pending, got %s", st)
	}
	if handle.PollURL != srv.URL+"/op/42" {
		t.Fatalf("expected poll url from async-op header, got %q", handle.PollURL)
	}

	poller := NewPoller(client)
	poller.DefaultInterval = 10 * time.Millisecond
	poller.Timeout = time.Second

	final, body, err := poller.Wait(context.Background(), *handle)
	if err != nil {
		t.Fatal(err)
	}
	if final != status.Succeeded {
		t.Fatalf("expected succeeded, got %s", final)
	}
	if body["result"] != "ok" {
		t.Fatalf("expected result body to be carried through, got %v", body)
	}
	if gets := atomic.LoadInt32(&gets); gets > 3 {
		t.Fatalf("expected at most 3 GETs, got %d", gets)
	}
}

// S4: /op/42 always returns InProgress; poll_timeout is small. Expect
// (timed-out, {}).
func TestPollerScenarioS4(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/op/42", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"InProgress"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := &http.Client{Timeout: DefaultRequestTimeout}
	poller := NewPoller(client)
	poller.DefaultInterval = 5 * time.Millisecond
	poller.Timeout = 30 * time.Millisecond

	start := time.Now()
	st, _, err := poller.Wait(context.Background(), RemoteOpHandle{PollURL: srv.URL + "/op/42"})
	elapsed := time.Since(start)
	if err != nil {
		t.Fatal(err)
	}
	if st != status.TimedOut {
		t.Fatalf("expected timed-out, got %s", st)
	}
	if elapsed < poller.Timeout {
		t.Fatalf("expected at least %s to elapse, got %s", poller.Timeout, elapsed)
	}
}

// Invariant 5: invoking the initiating operation twice with the same
// params produces poll_url values that each reach the same terminal
// status, and each wait takes at least interval*(num polls) but no more
// than timeout plus one request timeout.
func TestPollerIdempotence(t *testing.T) {
	ops := map[string]*int32{"/op/1": new(int32), "/op/2": new(int32)}
	mux := http.NewServeMux()
	for path, counter := range ops {
		path, counter := path, counter
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			n := atomic.AddInt32(counter, 1)
			w.Header().Set("Content-Type", "application/json")
			if n < 3 {
				w.Write([]byte(`{"status":"InProgress"}`))
				return
			}
			w.Write([]byte(`{"status":"Succeeded","result":"ok"}`))
		})
	}
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := &http.Client{Timeout: DefaultRequestTimeout}
	poller := NewPoller(client)
	poller.DefaultInterval = 10 * time.Millisecond
	poller.Timeout = time.Second

	for path := range ops {
		start := time.Now()
		final, body, err := poller.Wait(context.Background(), RemoteOpHandle{PollURL: srv.URL + path})
		elapsed := time.Since(start)
		if err != nil {
			t.Fatal(err)
		}
		if final != status.Succeeded {
			t.Fatalf("%s: expected succeeded, got %s", path, final)
		}
		if body["result"] != "ok" {
			t.Fatalf("%s: expected result body, got %v", path, body)
		}
		if elapsed < 3*poller.DefaultInterval {
			t.Fatalf("%s: expected at least three intervals (one per poll) to elapse, got %s", path, elapsed)
		}
		if elapsed > poller.Timeout+DefaultRequestTimeout {
			t.Fatalf("%s: expected at most timeout+one request timeout, got %s", path, elapsed)
		}
	}
}

func TestPollerCancellation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/op/42", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"InProgress"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := &http.Client{Timeout: DefaultRequestTimeout}
	poller := NewPoller(client)
	poller.DefaultInterval = 50 * time.Millisecond
	poller.Timeout = 10 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	st, _, err := poller.Wait(ctx, RemoteOpHandle{PollURL: srv.URL + "/op/42"})
	if err != nil {
		t.Fatal(err)
	}
	if st != status.Canceled {
		t.Fatalf("expected canceled, got %s", st)
	}
	if time.Since(start) > poller.DefaultInterval*2+200*time.Millisecond {
		t.Fatal("expected cancellation to take effect within roughly one request timeout")
	}
}
