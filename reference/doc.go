// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package reference is a conforming implementation of every httpfactory
// factory. It exists so the conformance suites can be exercised end to end
// and serves as a worked example for implementers.
package reference
