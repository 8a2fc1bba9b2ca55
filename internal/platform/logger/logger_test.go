package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time { return time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC) }

func TestStdLogger_JSON_MergesBaseAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Debug, Format: FormatJSON, App: "petcare", Out: &buf})
	l.now = fixedNow

	l.With(Fields{"request_id": "r-1"}).Warn("validation failed", Fields{"user_id": int64(7), "err": errors.New("boom")})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "validation failed", entry["msg"])
	assert.Equal(t, "petcare", entry["app"])
	assert.Equal(t, "r-1", entry["request_id"])
	assert.Equal(t, float64(7), entry["user_id"])
	assert.Equal(t, "boom", entry["err"])
	assert.Equal(t, "2025-03-15T10:00:00Z", entry["ts"])
}

func TestStdLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Out: &buf})

	l.Info("skip me", nil)
	assert.Empty(t, buf.String())

	l.Error("keep me", Fields{"a": 1})
	line := buf.String()
	assert.True(t, strings.Contains(line, "msg=keep me"), line)
	assert.True(t, strings.Contains(line, "a=1"), line)
}

func TestContext_RoundTripAndNopFallback(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := New(Options{})
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestParseLevelAndFormat(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Warn, ParseLevel("warning"))
	assert.Equal(t, Info, ParseLevel("whatever"))
	assert.Equal(t, FormatJSON, ParseFormat(" json "))
	assert.Equal(t, FormatText, ParseFormat(""))
}
