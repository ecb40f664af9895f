// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

// fakeService counts starts and fails its first failFirst runs.
type fakeService struct {
	name      string
	starts    atomic.Int32
	failFirst int32
}

func (s *fakeService) Serve(ctx context.Context) error {
	n := s.starts.Add(1)
	if n <= s.failFirst {
		return errors.New("boom")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *fakeService) String() string { return s.name }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	t.Parallel()

	tree := NewSupervisorTree(quietLogger(), TreeConfig{})
	got := tree.Config()
	want := DefaultTreeConfig()
	if got != want {
		t.Errorf("Config() = %+v, want %+v", got, want)
	}

	custom := NewSupervisorTree(quietLogger(), TreeConfig{FailureBackoff: time.Second})
	if custom.Config().FailureBackoff != time.Second {
		t.Errorf("FailureBackoff = %v, want 1s", custom.Config().FailureBackoff)
	}
	if custom.Config().FailureThreshold != want.FailureThreshold {
		t.Errorf("FailureThreshold = %v, want default", custom.Config().FailureThreshold)
	}
}

func TestSupervisorTree_RunsAllLayers(t *testing.T) {
	t.Parallel()

	tree := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureBackoff:  50 * time.Millisecond,
		ShutdownTimeout: time.Second,
	})
	data := &fakeService{name: "data"}
	ev := &fakeService{name: "events"}
	api := &fakeService{name: "api"}
	tree.AddDataService(data)
	tree.AddEventService(ev)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	done := tree.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for data.starts.Load() == 0 || ev.starts.Load() == 0 || api.starts.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("services did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not stop")
	}

	report, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport() error = %v", err)
	}
	if len(report) != 0 {
		t.Errorf("unstopped services = %v, want none", report)
	}
}

func TestSupervisorTree_RestartsFailedService(t *testing.T) {
	t.Parallel()

	tree := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	flaky := &fakeService{name: "flaky", failFirst: 2}
	tree.AddDataService(flaky)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := tree.ServeBackground(ctx)

	deadline := time.Now().Add(3 * time.Second)
	for flaky.starts.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("starts = %d, want at least 3", flaky.starts.Load())
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	<-done
}
