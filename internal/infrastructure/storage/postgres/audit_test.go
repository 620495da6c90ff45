package postgres

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	oldState := map[string]any{
		"name":  "Cola",
		"price": decimal.RequireFromString("1.50"),
		"gone":  true,
	}
	newState := map[string]any{
		"name":  "Cola",
		"price": decimal.RequireFromString("1.5"),
		"added": 3,
	}

	changes := Diff(oldState, newState)

	assert.NotContains(t, changes, "name")
	assert.NotContains(t, changes, "price", "1.50 and 1.5 are the same decimal")
	assert.Equal(t, map[string]any{"old": true, "new": nil}, changes["gone"])
	assert.Equal(t, map[string]any{"old": nil, "new": 3}, changes["added"])
}

func TestDiff_NilStates(t *testing.T) {
	created := Diff(nil, map[string]any{"name": "Cola"})
	assert.Equal(t, map[string]any{"name": map[string]any{"old": nil, "new": "Cola"}}, created)

	deleted := Diff(map[string]any{"name": "Cola"}, nil)
	assert.Equal(t, map[string]any{"name": map[string]any{"old": "Cola", "new": nil}}, deleted)
}

func TestAuditService_CompressRoundTrip(t *testing.T) {
	svc, err := NewAuditService(nil)
	require.NoError(t, err)
	svc.compressThreshold = 64

	small := json.RawMessage(`{"name":{"old":"a","new":"b"}}`)
	changes, packed, algo := svc.compress(small)
	assert.Equal(t, CompressionNone, algo)
	assert.Equal(t, small, changes)
	assert.Nil(t, packed)

	large := json.RawMessage(`{"description":{"old":"` + string(bytes.Repeat([]byte("x"), 500)) + `","new":null}}`)
	changes, packed, algo = svc.compress(large)
	assert.Equal(t, CompressionZstd, algo)
	assert.Nil(t, changes)
	assert.Less(t, len(packed), len(large))

	entry := AuditEntry{ChangesCompressed: packed, CompressionAlgo: algo}
	require.NoError(t, svc.decompress(&entry))
	assert.JSONEq(t, string(large), string(entry.Changes))
}
