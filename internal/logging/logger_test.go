package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, cats map[string]bool) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	InitializeWith(zap.New(core), cats)
	t.Cleanup(Reset)
	return logs
}

func TestDefaultIsSilent(t *testing.T) {
	Reset()
	// Must not panic and must not need Initialize.
	Get(CategoryStore).Info("hello %s", "world")
	Workflow("noop")
}

func TestCategoryField(t *testing.T) {
	logs := observe(t, nil)

	Store("opened %s", "claims.db")
	WorkflowDebug("phase %d", 2)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "opened claims.db", entries[0].Message)
	assert.Equal(t, "store", entries[0].ContextMap()["category"])
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, "workflow", entries[1].ContextMap()["category"])
}

func TestDisabledCategory(t *testing.T) {
	logs := observe(t, map[string]bool{"desk": false, "store": true})

	Desk("hidden")
	Store("shown")
	Boot("shown too") // not listed = enabled

	assert.Equal(t, 2, logs.Len())
	assert.False(t, IsCategoryEnabled(CategoryDesk))
	assert.True(t, IsCategoryEnabled(CategoryBoot))
}

func TestWithAddsContext(t *testing.T) {
	logs := observe(t, nil)
	Get(CategoryOrders).With("order", "42").Info("projected")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "42", logs.All()[0].ContextMap()["order"])
}

func TestAuditEvent(t *testing.T) {
	logs := observe(t, nil)

	AuditWithSession("sess-1").Log(AuditEvent{
		EventType: AuditVerifyConfirmed,
		OrderID:   "7",
		RequestID: "req",
		Success:   true,
		Duration:  time.Second,
	})

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "verify_confirmed", ctx["event"])
	assert.Equal(t, "7", ctx["order"])
	assert.Equal(t, "sess-1", ctx["session"])
	assert.Equal(t, true, ctx["success"])
}

func TestAuditRespectsCategoryToggle(t *testing.T) {
	logs := observe(t, map[string]bool{"audit": false})
	Audit().Event(AuditCancelConfirmed, "1", true)
	assert.Equal(t, 0, logs.Len())
}

func TestTimerStopWithThreshold(t *testing.T) {
	logs := observe(t, nil)
	timer := StartTimer(CategoryStore, "list")
	time.Sleep(2 * time.Millisecond)
	timer.StopWithThreshold(time.Nanosecond)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	assert.True(t, strings.HasPrefix(logs.All()[0].Message, "list took"))
}

func TestInitializeWritesFile(t *testing.T) {
	t.Cleanup(Reset)
	path := filepath.Join(t.TempDir(), "far.log")

	require.NoError(t, Initialize(Options{Level: "debug", Format: "json", File: path}))
	Boot("booted")
	require.NoError(t, Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"booted"`)
	assert.Contains(t, string(data), `"category":"boot"`)
}

func TestInitializeRejectsBadOptions(t *testing.T) {
	t.Cleanup(Reset)
	assert.Error(t, Initialize(Options{Level: "loud"}))
	assert.Error(t, Initialize(Options{Format: "xml"}))
	assert.NoError(t, Initialize(Options{Disabled: true}))
}
