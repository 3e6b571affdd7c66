package diagnostics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseSeverity(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		label       string
		expected    Severity
		expectError bool
	}{
		{name: "upper_case", label: "ERROR", expected: SeverityError},
		{name: "lower_case_with_spaces", label: "  warning ", expected: SeverityWarning},
		{name: "critical", label: "Critical", expected: SeverityCritical},
		{name: "unknown", label: "fatal", expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			parsed, err := ParseSeverity(testCase.label)
			if testCase.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, parsed)
		})
	}
}

func TestLogFiltersByThreshold(t *testing.T) {
	t.Parallel()

	var log Log
	log.Note("clean")
	log.Warning("branch %s has no content", "header.title")
	log.Error("duplicate %q", "foo")
	log.Critical("missing title")

	assert.Equal(t, 4, log.Len())
	assert.True(t, log.Has(SeverityCritical))
	assert.Equal(t, 1, log.Count(SeverityError))

	filtered := log.AtLeast(SeverityError)
	require.Len(t, filtered, 2)
	assert.Equal(t, "[ERROR] duplicate \"foo\"", filtered[0].String())
	assert.Equal(t, SeverityCritical, filtered[1].Severity)

	var empty Log
	assert.False(t, empty.Has(SeverityNote))
}

func TestLogEntriesReturnsCopy(t *testing.T) {
	t.Parallel()

	var log Log
	log.Note("first")
	entries := log.Entries()
	entries[0].Message = "changed"
	assert.Equal(t, "first", log.Entries()[0].Message)
}

func TestLogMarshalJSON(t *testing.T) {
	t.Parallel()

	var log Log
	encodedEmpty, err := json.Marshal(log)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(encodedEmpty))

	log.Warning("advisory")
	encoded, err := json.Marshal(log)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"severity":"WARNING","message":"advisory"}]`, string(encoded))
}

func TestEmitTagsDocumentScope(t *testing.T) {
	t.Parallel()

	core, recorded := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	var log Log
	log.Note("informational")
	log.Warning("advisory")
	log.Critical("fatal for document")

	Emit(logger, Scope{Document: "pages/a.yaml"}, log, SeverityWarning)

	records := recorded.All()
	require.Len(t, records, 2)
	assert.Equal(t, zapcore.WarnLevel, records[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, records[1].Level)
	assert.Equal(t, "pages/a.yaml", records[1].ContextMap()[documentFieldName])
	assert.Equal(t, "CRITICAL", records[1].ContextMap()[severityFieldName])
}
