// Package logging provides categorized structured logging for the provider desk.
//
// Every subsystem logs through a category (store, orders, workflow, ...) so a
// single zap core can be filtered per concern. Until Initialize is called all
// loggers are no-ops, which keeps library packages silent in tests and lets the
// TUI own the terminal.
package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup, config resolution
	CategoryStore      Category = "store"      // Claim stores and file watching
	CategoryOrders     Category = "orders"     // Projection, partitioning, filtering
	CategoryNavigation Category = "navigation" // View/detail transitions
	CategoryWorkflow   Category = "workflow"   // Verification and cancellation flows
	CategoryDesk       Category = "desk"       // Interactive TUI host
	CategoryMetrics    Category = "metrics"    // Metrics exporter
	CategoryAudit      Category = "audit"      // Lifecycle audit trail
)

// Options mirrors config.LoggingConfig so this package has no dependency on
// the config package.
type Options struct {
	Level      string          // debug, info, warn, error
	Format     string          // json, console
	File       string          // empty = stderr
	Disabled   bool            // no-op everything
	Categories map[string]bool // per-category toggles, missing = enabled
}

// Logger is a category-scoped printf-style logger backed by zap.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	mu         sync.RWMutex
	base       = zap.NewNop()
	categories map[string]bool
	loggers    = make(map[Category]*Logger)
)

// Initialize builds the process-wide zap logger from opts. It may be called
// again to reconfigure; existing category loggers are rebuilt lazily.
func Initialize(opts Options) error {
	if opts.Disabled {
		InitializeWith(zap.NewNop(), opts.Categories)
		return nil
	}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(opts.Level))); err != nil {
			return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	var cfg zap.Config
	switch opts.Format {
	case "", "json":
		cfg = zap.NewProductionConfig()
	case "console", "text":
		cfg = zap.NewDevelopmentConfig()
	default:
		return fmt.Errorf("invalid log format %q", opts.Format)
	}
	cfg.Level = level
	if opts.File != "" {
		cfg.OutputPaths = []string{opts.File}
		cfg.ErrorOutputPaths = []string{opts.File}
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	InitializeWith(l, opts.Categories)
	return nil
}

// InitializeWith installs an already-built zap logger. Tests use it with an
// observer core.
func InitializeWith(l *zap.Logger, cats map[string]bool) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	defer mu.Unlock()
	base = l
	categories = cats
	loggers = make(map[Category]*Logger)
}

// Reset returns the package to its silent default.
func Reset() {
	InitializeWith(zap.NewNop(), nil)
}

// Sync flushes buffered entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return base.Sync()
}

// Zap returns the process-wide zap logger.
func Zap() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return categoryEnabled(category)
}

func categoryEnabled(category Category) bool {
	if categories == nil {
		return true
	}
	enabled, exists := categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if the category is disabled.
func Get(category Category) *Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	zl := zap.NewNop()
	if categoryEnabled(category) {
		zl = base.With(zap.String("category", string(category)))
	}
	l := &Logger{category: category, sugar: zl.Sugar()}
	loggers[category] = l
	return l
}

// Category returns the logger's category.
func (l *Logger) Category() Category { return l.category }

// With returns a child logger carrying structured key/value context.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// =============================================================================
// CONVENIENCE FUNCTIONS
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) { Get(CategoryBoot).Info(format, args...) }

// BootDebug logs debug to the boot category
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debug(format, args...) }

// Store logs to the store category
func Store(format string, args ...interface{}) { Get(CategoryStore).Info(format, args...) }

// StoreDebug logs debug to the store category
func StoreDebug(format string, args ...interface{}) { Get(CategoryStore).Debug(format, args...) }

// OrdersDebug logs debug to the orders category
func OrdersDebug(format string, args ...interface{}) { Get(CategoryOrders).Debug(format, args...) }

// NavigationDebug logs debug to the navigation category
func NavigationDebug(format string, args ...interface{}) {
	Get(CategoryNavigation).Debug(format, args...)
}

// Workflow logs to the workflow category
func Workflow(format string, args ...interface{}) { Get(CategoryWorkflow).Info(format, args...) }

// WorkflowDebug logs debug to the workflow category
func WorkflowDebug(format string, args ...interface{}) {
	Get(CategoryWorkflow).Debug(format, args...)
}

// Desk logs to the desk category
func Desk(format string, args ...interface{}) { Get(CategoryDesk).Info(format, args...) }

// DeskDebug logs debug to the desk category
func DeskDebug(format string, args ...interface{}) { Get(CategoryDesk).Debug(format, args...) }

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
