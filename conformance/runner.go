// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package conformance

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/Query-farm/httpfactory/conformance/report"
	"go.uber.org/atomic"
)

// Runner executes suites outside of go test and records a [report.Report].
type Runner struct {
	implementation string
	filter         *regexp.Regexp
	hook           RunHook
	logger         *slog.Logger
}

// NewRunner creates a runner that logs through slog.Default.
func NewRunner() *Runner {
	return &Runner{
		implementation: "unnamed",
		logger:         slog.Default(),
	}
}

// SetImplementation names the implementation under test in reports.
func (r *Runner) SetImplementation(name string) {
	r.implementation = name
}

// SetFilter restricts the run to cases whose "suite/case" name matches
// pattern. An empty pattern selects every case.
func (r *Runner) SetFilter(pattern string) error {
	if pattern == "" {
		r.filter = nil
		return nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid case filter %q: %w", pattern, err)
	}
	r.filter = re
	return nil
}

// SetRunHook registers a hook called around each case.
func (r *Runner) SetRunHook(hook RunHook) {
	r.hook = hook
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *slog.Logger) {
	r.logger = logger
}

// Run executes the selected cases of suites one at a time. Cancelling ctx
// stops the run before the next case; the report covers the cases that ran.
func (r *Runner) Run(ctx context.Context, suites ...Suite) *report.Report {
	rep := report.New(r.implementation)
	start := time.Now()
	defer func() { rep.Duration = time.Since(start) }()

	for _, suite := range suites {
		result := report.SuiteResult{Name: suite.Name}
		for _, c := range suite.Cases {
			info := CaseInfo{Implementation: r.implementation, Suite: suite.Name, Case: c.Name}
			if r.filter != nil && !r.filter.MatchString(info.FullName()) {
				continue
			}
			if err := ctx.Err(); err != nil {
				r.logger.Warn("conformance run cancelled", "next_case", info.FullName(), "err", err)
				if len(result.Cases) > 0 {
					rep.Suites = append(rep.Suites, result)
				}
				return rep
			}
			result.Cases = append(result.Cases, r.runCase(ctx, info, c))
		}
		if len(result.Cases) > 0 {
			rep.Suites = append(rep.Suites, result)
		}
	}
	return rep
}

func (r *Runner) runCase(ctx context.Context, info CaseInfo, c Case) report.CaseResult {
	var token HookToken
	if r.hook != nil {
		func() {
			defer func() {
				if rv := recover(); rv != nil {
					r.logger.Error("run hook start panic", "err", rv)
				}
			}()
			ctx, token = r.hook.OnCaseStart(ctx, info)
		}()
	}

	rec := newRecorder(info.FullName())
	started := time.Now()
	rec.run(c.Run)

	result := report.CaseResult{
		Name:     c.Name,
		Status:   report.StatusPass,
		Duration: time.Since(started),
		Messages: rec.messages,
	}
	if rec.Failed() {
		result.Status = report.StatusFail
	}
	r.logger.Debug("conformance case finished",
		"case", info.FullName(), "status", result.Status, "duration", result.Duration)

	if r.hook != nil {
		func() {
			defer func() {
				if rv := recover(); rv != nil {
					r.logger.Error("run hook end panic", "err", rv)
				}
			}()
			r.hook.OnCaseEnd(ctx, token, info, &result)
		}()
	}
	return result
}

// recorder is the T handed to cases by a Runner. The case runs on its own
// goroutine so FailNow can stop it with runtime.Goexit.
type recorder struct {
	name     string
	failed   atomic.Bool
	mu       sync.Mutex
	messages []report.Message
	cleanups []func()
}

var _ T = (*recorder)(nil)

func newRecorder(name string) *recorder {
	return &recorder{name: name}
}

// run calls fn and waits for it, including its cleanups, to finish.
func (r *recorder) run(fn func(T)) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer r.runCleanups()
		defer func() {
			if rv := recover(); rv != nil {
				r.record(report.LevelError, fmt.Sprintf("panic: %v\n%s", rv, debug.Stack()))
				r.failed.Store(true)
			}
		}()
		fn(r)
	}()
	<-done
}

// runCleanups pops cleanups in LIFO order until none remain, so a cleanup
// may register further cleanups.
func (r *recorder) runCleanups() {
	for {
		r.mu.Lock()
		n := len(r.cleanups)
		if n == 0 {
			r.mu.Unlock()
			return
		}
		cleanup := r.cleanups[n-1]
		r.cleanups = r.cleanups[:n-1]
		r.mu.Unlock()

		func() {
			defer func() {
				if rv := recover(); rv != nil {
					r.record(report.LevelError, fmt.Sprintf("panic in cleanup: %v", rv))
					r.failed.Store(true)
				}
			}()
			cleanup()
		}()
	}
}

func (r *recorder) record(level report.Level, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, report.Message{Level: level, Text: text})
}

func (r *recorder) Helper() {}

func (r *recorder) Name() string {
	return r.name
}

func (r *recorder) Errorf(format string, args ...any) {
	r.record(report.LevelError, fmt.Sprintf(format, args...))
	r.failed.Store(true)
}

func (r *recorder) FailNow() {
	r.failed.Store(true)
	runtime.Goexit()
}

func (r *recorder) Failed() bool {
	return r.failed.Load()
}

func (r *recorder) Logf(format string, args ...any) {
	r.record(report.LevelInfo, fmt.Sprintf(format, args...))
}

func (r *recorder) Cleanup(f func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleanups = append(r.cleanups, f)
}

// Setenv sets key for the rest of the case and restores its previous value,
// or unsets it, at cleanup.
func (r *recorder) Setenv(key, value string) {
	prev, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		r.Errorf("setenv %s: %v", key, err)
		r.FailNow()
	}
	r.Cleanup(func() {
		if had {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	})
}

// TempDir returns a fresh directory removed at cleanup.
func (r *recorder) TempDir() string {
	dir, err := os.MkdirTemp("", "httpfactory-conformance-*")
	if err != nil {
		r.Errorf("creating temp dir: %v", err)
		r.FailNow()
	}
	r.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}
