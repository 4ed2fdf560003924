package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "cache", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSelectMissing(t *testing.T) {
	db := openTestDB(t)

	body, ok, err := db.Select(context.Background(), RecordKey{Table: TableTickets, Key: "PROJ-1"})

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, body)
}

func TestMerge(t *testing.T) {
	key := RecordKey{Table: TableTickets, Key: "PROJ-1"}

	testCases := []struct {
		name    string
		initial string
		patch   any
		want    string
	}{
		{
			name:  "Creates missing record",
			patch: map[string]any{"key": "PROJ-1"},
			want:  `{"key":"PROJ-1"}`,
		},
		{
			name:    "Keeps untouched fields",
			initial: `{"key":"PROJ-1","fields":{"summary":"Old","status":{"name":"Open"}}}`,
			patch:   json.RawMessage(`{"fields":{"summary":"New"}}`),
			want:    `{"key":"PROJ-1","fields":{"summary":"New","status":{"name":"Open"}}}`,
		},
		{
			name:    "Null removes a member",
			initial: `{"key":"PROJ-1","fields":{"summary":"S","comments":{"comments":[]}}}`,
			patch:   json.RawMessage(`{"fields":{"comments":null}}`),
			want:    `{"key":"PROJ-1","fields":{"summary":"S"}}`,
		},
		{
			name:    "Arrays are replaced",
			initial: `{"fields":{"labels":["a","b"]}}`,
			patch:   []byte(`{"fields":{"labels":["c"]}}`),
			want:    `{"fields":{"labels":["c"]}}`,
		},
		{
			name:  "Null on a new record is dropped",
			patch: json.RawMessage(`{"key":"PROJ-1","fields":{"comments":null}}`),
			want:  `{"key":"PROJ-1","fields":{}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := openTestDB(t)
			ctx := context.Background()

			if tc.initial != "" {
				_, err := db.Merge(ctx, key, json.RawMessage(tc.initial))
				require.NoError(t, err)
			}

			merged, err := db.Merge(ctx, key, tc.patch)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(merged))

			stored, ok, err := db.Select(ctx, key)
			require.NoError(t, err)
			require.True(t, ok)
			assert.JSONEq(t, tc.want, string(stored))
		})
	}
}

func TestMergeRejectsInvalidJSON(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Merge(context.Background(), RecordKey{Table: TableTickets, Key: "PROJ-1"}, json.RawMessage(`{"key":`))

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "merge", ioErr.Op)
}

func TestListAndClear(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for key, project := range map[string]string{"ABC-1": "ABC", "ABC-2": "ABC", "DEF-1": "DEF"} {
		_, err := db.Merge(ctx, RecordKey{Table: TableTickets, Key: key}, map[string]any{
			"key":    key,
			"fields": map[string]any{"project": map[string]any{"key": project}},
		})
		require.NoError(t, err)
	}

	abc, err := db.List(ctx, TableTickets, "$.fields.project.key", "ABC")
	require.NoError(t, err)
	assert.Len(t, abc, 2)

	all, err := db.List(ctx, TableTickets, "", nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, db.Clear(ctx))

	all, err = db.List(ctx, TableTickets, "", nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestOpenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	key := RecordKey{Table: TableProjects, Key: "ABC"}

	db, err := Open(path)
	require.NoError(t, err)
	_, err = db.Merge(context.Background(), key, map[string]any{"key": "ABC"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	body, ok, err := reopened.Select(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"key":"ABC"}`, string(body))
}
