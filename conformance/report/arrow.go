// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/uuid"
)

// Schema metadata keys carried by the Arrow encoding.
const (
	MetaRunID          = "httpfactory.run_id"
	MetaImplementation = "httpfactory.implementation"
	MetaStartedAt      = "httpfactory.started_at"
	MetaDurationNS     = "httpfactory.duration_ns"
)

// caseFields is the row layout of the Arrow encoding: one row per case.
var caseFields = []arrow.Field{
	{Name: "suite", Type: arrow.BinaryTypes.String},
	{Name: "case", Type: arrow.BinaryTypes.String},
	{Name: "status", Type: arrow.BinaryTypes.String},
	{Name: "duration_ns", Type: arrow.PrimitiveTypes.Int64},
	{Name: "failures", Type: arrow.PrimitiveTypes.Int64},
	{Name: "messages", Type: arrow.ListOf(arrow.BinaryTypes.String)},
}

func (r *Report) arrowSchema() *arrow.Schema {
	meta := arrow.NewMetadata(
		[]string{MetaRunID, MetaImplementation, MetaStartedAt, MetaDurationNS},
		[]string{r.RunID.String(), r.Implementation, r.StartedAt.Format(time.RFC3339Nano), fmt.Sprint(int64(r.Duration))},
	)
	return arrow.NewSchema(caseFields, &meta)
}

// WriteArrow writes r as an Arrow IPC stream holding a single record batch.
// Messages are flattened to "LEVEL: text" strings.
func (r *Report) WriteArrow(w io.Writer) error {
	mem := memory.NewGoAllocator()
	schema := r.arrowSchema()

	suiteBuilder := array.NewStringBuilder(mem)
	defer suiteBuilder.Release()

	caseBuilder := array.NewStringBuilder(mem)
	defer caseBuilder.Release()

	statusBuilder := array.NewStringBuilder(mem)
	defer statusBuilder.Release()

	durationBuilder := array.NewInt64Builder(mem)
	defer durationBuilder.Release()

	failuresBuilder := array.NewInt64Builder(mem)
	defer failuresBuilder.Release()

	messagesBuilder := array.NewListBuilder(mem, arrow.BinaryTypes.String)
	defer messagesBuilder.Release()
	messageValues := messagesBuilder.ValueBuilder().(*array.StringBuilder)

	var n int64
	for _, suite := range r.Suites {
		for _, c := range suite.Cases {
			suiteBuilder.Append(suite.Name)
			caseBuilder.Append(c.Name)
			statusBuilder.Append(string(c.Status))
			durationBuilder.Append(int64(c.Duration))
			failuresBuilder.Append(int64(c.Failures()))
			messagesBuilder.Append(true)
			for _, m := range c.Messages {
				messageValues.Append(string(m.Level) + ": " + m.Text)
			}
			n++
		}
	}

	cols := []arrow.Array{
		suiteBuilder.NewArray(),
		caseBuilder.NewArray(),
		statusBuilder.NewArray(),
		durationBuilder.NewArray(),
		failuresBuilder.NewArray(),
		messagesBuilder.NewArray(),
	}
	for _, c := range cols {
		defer c.Release()
	}

	rec := array.NewRecord(schema, cols, n)
	defer rec.Release()

	writer := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("writing report batch: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing report IPC writer: %w", err)
	}
	return nil
}

// ReadArrow decodes a report written by [Report.WriteArrow]. Message levels
// are recovered from their "LEVEL: " prefix.
func ReadArrow(rd io.Reader) (*Report, error) {
	reader, err := ipc.NewReader(rd)
	if err != nil {
		return nil, fmt.Errorf("reading report IPC stream: %w", err)
	}
	defer reader.Release()

	if err := checkSchema(reader.Schema()); err != nil {
		return nil, err
	}

	out := &Report{}
	meta := reader.Schema().Metadata()
	if v, ok := meta.GetValue(MetaRunID); ok {
		if out.RunID, err = uuid.Parse(v); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", MetaRunID, err)
		}
	}
	out.Implementation, _ = meta.GetValue(MetaImplementation)
	if v, ok := meta.GetValue(MetaStartedAt); ok {
		if out.StartedAt, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", MetaStartedAt, err)
		}
	}
	if v, ok := meta.GetValue(MetaDurationNS); ok {
		var ns int64
		if _, err := fmt.Sscan(v, &ns); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", MetaDurationNS, err)
		}
		out.Duration = time.Duration(ns)
	}

	suiteIdx := map[string]int{}
	for reader.Next() {
		rec := reader.Record()
		suites, ok1 := rec.Column(0).(*array.String)
		cases, ok2 := rec.Column(1).(*array.String)
		statuses, ok3 := rec.Column(2).(*array.String)
		durations, ok4 := rec.Column(3).(*array.Int64)
		messages, ok5 := rec.Column(5).(*array.List)
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
			return nil, fmt.Errorf("unexpected report batch layout: %s", rec.Schema())
		}
		messageValues, ok := messages.ListValues().(*array.String)
		if !ok {
			return nil, fmt.Errorf("unexpected report message values: %s", messages.ListValues().DataType())
		}

		for i := 0; i < int(rec.NumRows()); i++ {
			c := CaseResult{
				Name:     cases.Value(i),
				Status:   Status(statuses.Value(i)),
				Duration: time.Duration(durations.Value(i)),
			}
			start, end := messages.ValueOffsets(i)
			for j := start; j < end; j++ {
				c.Messages = append(c.Messages, parseMessage(messageValues.Value(int(j))))
			}

			name := suites.Value(i)
			idx, ok := suiteIdx[name]
			if !ok {
				idx = len(out.Suites)
				suiteIdx[name] = idx
				out.Suites = append(out.Suites, SuiteResult{Name: name})
			}
			out.Suites[idx].Cases = append(out.Suites[idx].Cases, c)
		}
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("reading report batch: %w", err)
	}
	return out, nil
}

// checkSchema rejects IPC streams whose columns differ from caseFields.
// Metadata is not compared.
func checkSchema(schema *arrow.Schema) error {
	if schema.NumFields() != len(caseFields) {
		return fmt.Errorf("unexpected report schema: %d fields, want %d", schema.NumFields(), len(caseFields))
	}
	for i, want := range caseFields {
		got := schema.Field(i)
		if got.Name != want.Name || !arrow.TypeEqual(got.Type, want.Type) {
			return fmt.Errorf("unexpected report schema: field %d is %s: %s, want %s: %s", i, got.Name, got.Type, want.Name, want.Type)
		}
	}
	return nil
}

func parseMessage(s string) Message {
	for _, level := range []Level{LevelError, LevelInfo} {
		prefix := string(level) + ": "
		if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
			return Message{Level: level, Text: s[len(prefix):]}
		}
	}
	return Message{Level: LevelInfo, Text: s}
}
