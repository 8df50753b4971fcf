package backend

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/inventorypro/client-go/internal/backendtest"
)

func TestHealthMonitorProbe(t *testing.T) {
	ts := httptest.NewServer(backendtest.New().Handler())
	defer ts.Close()

	m := NewHealthMonitor(ts.URL, time.Minute, time.Second, zerolog.Nop())
	if !m.CheckNow(context.Background()) {
		t.Fatal("probe against a live backend must report healthy")
	}
	if !m.Healthy() {
		t.Error("Healthy() must reflect the last probe")
	}

	ts.Close()
	if m.CheckNow(context.Background()) {
		t.Fatal("probe against a closed backend must report unhealthy")
	}
	if m.Healthy() {
		t.Error("Healthy() must flip after a failed probe")
	}
}

func TestHealthMonitorLoop(t *testing.T) {
	ts := httptest.NewServer(backendtest.New().Handler())
	defer ts.Close()

	m := NewHealthMonitor(ts.URL, 10*time.Millisecond, time.Second, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for !m.Healthy() {
		if time.Now().After(deadline) {
			t.Fatal("monitor never observed a healthy backend")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
}
