package oplog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(opID, action string, succeeded, failed int) Entry {
	return Entry{
		Timestamp:   time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
		OperationID: opID,
		Action:      action,
		TagName:     "food",
		Succeeded:   succeeded,
		Failed:      failed,
	}
}

func TestAppendAndRead(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Append(dir, []Entry{entry("op-1", "apply", 3, 1)}))
	require.NoError(t, Append(dir, []Entry{entry("op-1", "retry", 1, 0)}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "op-1", entries[0].OperationID)
	assert.Equal(t, "apply", entries[0].Action)
	assert.Equal(t, 3, entries[0].Succeeded)
	assert.Equal(t, 1, entries[0].Failed)
	assert.Equal(t, "retry", entries[1].Action)
}

// The header is written once, on first create, never on later appends.
func TestAppend_HeaderOnce(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Append(dir, []Entry{entry("op-1", "apply", 1, 0)}))
	require.NoError(t, Append(dir, []Entry{entry("op-2", "apply", 1, 0)}))

	data, err := os.ReadFile(filepath.Join(dir, "logs", "operations.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header))
}

func TestRead_MissingFile(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"too", "short"})
	require.Error(t, err)

	_, err = UnmarshalEntry([]string{"not a time", "op-1", "apply", "food", "1", "0"})
	require.Error(t, err)

	_, err = UnmarshalEntry([]string{time.Now().Format(time.RFC3339), "op-1", "apply", "food", "x", "0"})
	require.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	e := entry("op-9", "remove", 5, 2)
	decoded, err := UnmarshalEntry(MarshalEntry(e))
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
}
