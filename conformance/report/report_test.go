package report

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	return &Report{
		RunID:          uuid.MustParse("0b6f2c1e-4a53-4a8e-9d7c-2f1e6b9c0a11"),
		Implementation: "example.org/factory",
		StartedAt:      time.Date(2026, 3, 1, 12, 30, 0, 123456789, time.UTC),
		Duration:       1500 * time.Millisecond,
		Suites: []SuiteResult{
			{Name: "StreamFactory", Cases: []CaseResult{
				{Name: "CreateStream", Status: StatusPass, Duration: 2 * time.Millisecond},
				{Name: "CreateStreamFromFile", Status: StatusFail, Duration: 3 * time.Millisecond, Messages: []Message{
					{Level: LevelInfo, Text: "opened file"},
					{Level: LevelError, Text: "expected \"a\"\nactual \"b\""},
				}},
			}},
			{Name: "URIFactory", Cases: []CaseResult{
				{Name: "CreateURI_0", Status: StatusPass, Duration: time.Millisecond},
			}},
		},
	}
}

func TestSummary(t *testing.T) {
	rep := sampleReport()

	assert.Equal(t, Summary{Total: 3, Passed: 2, Failed: 1}, rep.Summary())
	assert.True(t, rep.Failed())

	c, ok := rep.Case("StreamFactory", "CreateStreamFromFile")
	require.True(t, ok)
	assert.Equal(t, 1, c.Failures())

	_, ok = rep.Case("URIFactory", "CreateStream")
	assert.False(t, ok)

	empty := New("impl")
	assert.NotEqual(t, uuid.Nil, empty.RunID)
	assert.False(t, empty.Failed())
}

func TestParse(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	_, err = ParseFormat("xml")
	assert.Error(t, err)

	c, err := ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, c)
	c, err = ParseCompression("zstd")
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, c)
	_, err = ParseCompression("gzip")
	assert.Error(t, err)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().Encode(&buf, FormatText))

	out := buf.String()
	assert.Contains(t, out, "conformance run 0b6f2c1e-4a53-4a8e-9d7c-2f1e6b9c0a11 for example.org/factory\n")
	assert.Contains(t, out, "--- PASS: StreamFactory/CreateStream (0.002s)\n")
	assert.Contains(t, out, "--- FAIL: StreamFactory/CreateStreamFromFile (0.003s)\n")
	assert.Contains(t, out, "    expected \"a\"\n    actual \"b\"\n")
	assert.True(t, strings.HasSuffix(out, "FAIL\t2 passed, 1 failed, 3 total (1.500s)\n"), out)
}

func TestWriteColorText(t *testing.T) {
	prev := color.NoColor
	t.Cleanup(func() { color.NoColor = prev })

	color.NoColor = false
	var colored bytes.Buffer
	require.NoError(t, sampleReport().WriteColorText(&colored))
	assert.Contains(t, colored.String(), "\x1b[")
	assert.Contains(t, colored.String(), "StreamFactory/CreateStream (0.002s)")

	color.NoColor = true
	var plain, text bytes.Buffer
	require.NoError(t, sampleReport().WriteColorText(&plain))
	require.NoError(t, sampleReport().WriteText(&text))
	assert.Equal(t, text.String(), plain.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().Encode(&buf, FormatJSON))

	var decoded struct {
		RunID          string  `json:"run_id"`
		Implementation string  `json:"implementation"`
		Summary        Summary `json:"summary"`
		Suites         []struct {
			Name  string `json:"name"`
			Cases []struct {
				Name       string    `json:"name"`
				Status     string    `json:"status"`
				DurationNS int64     `json:"duration_ns"`
				Messages   []Message `json:"messages"`
			} `json:"cases"`
		} `json:"suites"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "0b6f2c1e-4a53-4a8e-9d7c-2f1e6b9c0a11", decoded.RunID)
	assert.Equal(t, Summary{Total: 3, Passed: 2, Failed: 1}, decoded.Summary)
	require.Len(t, decoded.Suites, 2)
	require.Len(t, decoded.Suites[0].Cases, 2)
	assert.Equal(t, int64(3*time.Millisecond), decoded.Suites[0].Cases[1].DurationNS)
	assert.Equal(t, "FAIL", decoded.Suites[0].Cases[1].Status)
	assert.Len(t, decoded.Suites[0].Cases[1].Messages, 2)
}

func TestArrowRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionZstd} {
		t.Run(string(c), func(t *testing.T) {
			want := sampleReport()

			var buf bytes.Buffer
			w, err := NewWriter(&buf, c)
			require.NoError(t, err)
			require.NoError(t, want.Encode(w, FormatArrow))
			require.NoError(t, w.Close())

			r, err := NewReader(&buf, c)
			require.NoError(t, err)
			defer r.Close()

			got, err := ReadArrow(r)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func writeForeignArrow(t *testing.T, fields []arrow.Field, cols func(mem memory.Allocator) []arrow.Array) *bytes.Buffer {
	t.Helper()
	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema(fields, nil)

	arrs := cols(mem)
	for _, a := range arrs {
		defer a.Release()
	}
	rec := array.NewRecord(schema, arrs, int64(arrs[0].Len()))
	defer rec.Release()

	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())
	return &buf
}

func TestReadArrowRejectsForeignSchema(t *testing.T) {
	t.Run("single int64 column", func(t *testing.T) {
		buf := writeForeignArrow(t, []arrow.Field{{Name: "n", Type: arrow.PrimitiveTypes.Int64}}, func(mem memory.Allocator) []arrow.Array {
			b := array.NewInt64Builder(mem)
			defer b.Release()
			b.AppendValues([]int64{1, 2, 3}, nil)
			return []arrow.Array{b.NewArray()}
		})

		var rep *Report
		var err error
		require.NotPanics(t, func() { rep, err = ReadArrow(buf) })
		assert.Nil(t, rep)
		assert.ErrorContains(t, err, "unexpected report schema")
	})

	t.Run("wrong column type", func(t *testing.T) {
		fields := append([]arrow.Field(nil), caseFields...)
		fields[3] = arrow.Field{Name: "duration_ns", Type: arrow.BinaryTypes.String}
		buf := writeForeignArrow(t, fields, func(mem memory.Allocator) []arrow.Array {
			var arrs []arrow.Array
			for i, f := range fields {
				b := array.NewBuilder(mem, f.Type)
				switch i {
				case 4:
					b.(*array.Int64Builder).Append(0)
				case 5:
					b.(*array.ListBuilder).Append(true)
				default:
					b.(*array.StringBuilder).Append("x")
				}
				arrs = append(arrs, b.NewArray())
				b.Release()
			}
			return arrs
		})

		_, err := ReadArrow(buf)
		assert.ErrorContains(t, err, "field 3 is duration_ns: utf8")
	})
}

func TestZstdShrinksText(t *testing.T) {
	rep := sampleReport()
	for i := 0; i < 200; i++ {
		rep.Suites[1].Cases = append(rep.Suites[1].Cases, CaseResult{Name: "CreateURI", Status: StatusPass})
	}

	var plain, packed bytes.Buffer
	require.NoError(t, rep.WriteText(&plain))

	w, err := NewWriter(&packed, CompressionZstd)
	require.NoError(t, err)
	require.NoError(t, rep.WriteText(w))
	require.NoError(t, w.Close())
	assert.Less(t, packed.Len(), plain.Len())

	r, err := NewReader(&packed, CompressionZstd)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, plain.String(), string(data))
}
