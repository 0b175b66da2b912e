// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package report holds the results of a conformance run and encodes them as
// text, JSON, or an Arrow IPC stream.
package report

import (
	"time"

	"github.com/google/uuid"
)

// Status is the outcome of one conformance case.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// Level is the severity of a message recorded while a case ran.
type Level string

const (
	// LevelError marks an assertion failure or panic.
	LevelError Level = "ERROR"
	// LevelInfo marks a message logged by the case.
	LevelInfo Level = "INFO"
)

// Message is one line recorded while a case ran.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration_ns"`
	Messages []Message     `json:"messages,omitempty"`
}

// Failures returns the number of ERROR messages.
func (c *CaseResult) Failures() int {
	n := 0
	for _, m := range c.Messages {
		if m.Level == LevelError {
			n++
		}
	}
	return n
}

// SuiteResult groups the cases of one suite.
type SuiteResult struct {
	Name  string       `json:"name"`
	Cases []CaseResult `json:"cases"`
}

// Report is the outcome of one conformance run.
type Report struct {
	RunID          uuid.UUID     `json:"run_id"`
	Implementation string        `json:"implementation"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration_ns"`
	Suites         []SuiteResult `json:"suites"`
}

// New starts a report for the named implementation.
func New(implementation string) *Report {
	return &Report{
		RunID:          uuid.New(),
		Implementation: implementation,
		StartedAt:      time.Now().UTC(),
	}
}

// Summary counts case outcomes.
type Summary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// Summary counts the outcomes across all suites.
func (r *Report) Summary() Summary {
	var s Summary
	for _, suite := range r.Suites {
		for _, c := range suite.Cases {
			s.Total++
			if c.Status == StatusPass {
				s.Passed++
			} else {
				s.Failed++
			}
		}
	}
	return s
}

// Failed reports whether any case failed.
func (r *Report) Failed() bool {
	return r.Summary().Failed > 0
}

// Case returns the result for suite/name.
func (r *Report) Case(suite, name string) (CaseResult, bool) {
	for _, s := range r.Suites {
		if s.Name != suite {
			continue
		}
		for _, c := range s.Cases {
			if c.Name == name {
				return c, true
			}
		}
	}
	return CaseResult{}, false
}
