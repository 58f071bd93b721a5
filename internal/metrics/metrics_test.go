package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/orders"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/workflow"
)

func TestRecorder_Workflow(t *testing.T) {
	r := New()
	r.Started(workflow.KindVerify)
	r.Started(workflow.KindVerify)
	r.Finished(workflow.KindVerify, workflow.ResultInvalid, 10*time.Millisecond)
	r.Finished(workflow.KindVerify, workflow.ResultConfirmed, 1500*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.started.WithLabelValues("verify")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.finished.WithLabelValues("verify", "confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.finished.WithLabelValues("verify", "invalid")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.duration))
}

func TestRecorder_Partition(t *testing.T) {
	r := New()
	r.ObservePartition(orders.Partitioned{
		Active:  make([]orders.OrderView, 2),
		History: make([]orders.OrderView, 5),
		Dropped: []string{"x"},
	})

	expected := `
# HELP far_orders Orders in the last claim snapshot, by partition.
# TYPE far_orders gauge
far_orders{partition="active"} 2
far_orders{partition="dropped"} 1
far_orders{partition="history"} 5
`
	require.NoError(t, testutil.CollectAndCompare(r.orders, strings.NewReader(expected)))
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.Started(workflow.KindCancel)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `far_workflow_started_total{kind="cancel"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestRecorder_ServeStopsWithContext(t *testing.T) {
	r := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
