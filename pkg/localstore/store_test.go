package localstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadUnknownKey(t *testing.T) {
	store, err := New(t.TempDir(), 0)
	require.NoError(t, err)

	var out []string
	err = store.Read("subjects", &out)
	assert.ErrorIs(t, err, ErrNoKey)
}

func TestWriteReadRoundTrip(t *testing.T) {
	store, err := New(t.TempDir(), 0)
	require.NoError(t, err)

	in := []map[string]string{{"id": "math", "name": "Mathematics"}}
	require.NoError(t, store.Write("subjects", in))

	var out []map[string]string
	require.NoError(t, store.Read("subjects", &out))
	assert.Equal(t, in, out)
}

func TestDelete(t *testing.T) {
	store, err := New(t.TempDir(), 0)
	require.NoError(t, err)

	require.NoError(t, store.Write("quizResults", []string{"r1"}))
	require.NoError(t, store.Delete("quizResults"))

	var out []string
	assert.ErrorIs(t, store.Read("quizResults", &out), ErrNoKey)

	// deleting again is a no-op
	assert.NoError(t, store.Delete("quizResults"))
}
