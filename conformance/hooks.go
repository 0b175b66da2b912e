// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package conformance

import (
	"context"

	"github.com/Query-farm/httpfactory/conformance/report"
)

// RunHook provides observability callpoints around each case a [Runner]
// executes. Cases run one at a time, so implementations need not be safe
// for concurrent use by a single runner.
type RunHook interface {
	OnCaseStart(ctx context.Context, info CaseInfo) (context.Context, HookToken)
	OnCaseEnd(ctx context.Context, token HookToken, info CaseInfo, result *report.CaseResult)
}

// HookToken is an opaque value returned by OnCaseStart and passed back to
// OnCaseEnd. Only meaningful to the RunHook that created it.
type HookToken interface{}

// CaseInfo identifies the case passed to hooks.
type CaseInfo struct {
	Implementation string // name given to Runner.SetImplementation
	Suite          string // e.g. SuiteStream
	Case           string // case name within the suite
}

// FullName returns "suite/case", the form matched by Runner.SetFilter.
func (i CaseInfo) FullName() string {
	return i.Suite + "/" + i.Case
}
