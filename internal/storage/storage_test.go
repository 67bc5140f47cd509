package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return fs
}

func TestFileStore_SaveLoad(t *testing.T) {
	fs := newTestStore(t)

	require.NoError(t, fs.Save(KeyToken, []byte("abc123")))

	data, err := fs.Load(KeyToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc123"), data)
}

func TestFileStore_LoadMissing(t *testing.T) {
	fs := newTestStore(t)

	_, err := fs.Load("session/missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileStore_Delete(t *testing.T) {
	fs := newTestStore(t)

	require.NoError(t, fs.Save(KeyToken, []byte("abc")))
	require.NoError(t, fs.Delete(KeyToken))

	_, err := fs.Load(KeyToken)
	assert.True(t, errors.Is(err, ErrNotFound))

	// Deleting a missing key is not an error
	assert.NoError(t, fs.Delete(KeyToken))
}

func TestFileStore_Exists(t *testing.T) {
	fs := newTestStore(t)

	exists, err := fs.Exists(KeyUser)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, fs.Save(KeyUser, []byte("{}")))

	exists, err = fs.Exists(KeyUser)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFileStore_ListAndClear(t *testing.T) {
	fs := newTestStore(t)

	require.NoError(t, fs.Save(KeyUser, []byte("{}")))
	require.NoError(t, fs.Save(KeyToken, []byte("tok")))
	require.NoError(t, fs.Save(KeyProjects, []byte("[]")))

	keys, err := fs.List(SessionPrefix)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{KeyUser, KeyToken}, keys)

	require.NoError(t, fs.Clear(SessionPrefix))

	keys, err = fs.List(SessionPrefix)
	require.NoError(t, err)
	assert.Empty(t, keys)

	// Keys outside the cleared prefix survive
	data, err := fs.Load(KeyProjects)
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), data)
}

func TestFileStore_ClearMissingPrefix(t *testing.T) {
	fs := newTestStore(t)
	assert.NoError(t, fs.Clear("nothing/here"))
}

func TestFileStore_JSONRoundTrip(t *testing.T) {
	fs := newTestStore(t)

	type session struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}

	in := session{Email: "a@x.com", Role: "Admin"}
	require.NoError(t, fs.SaveJSON(KeyUser, in))

	var out session
	require.NoError(t, fs.LoadJSON(KeyUser, &out))
	assert.Equal(t, in, out)
}

func TestFileStore_LoadJSONMissing(t *testing.T) {
	fs := newTestStore(t)

	var out map[string]any
	err := fs.LoadJSON("session/missing", &out)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileStore_OverwriteIsAtomicReplacement(t *testing.T) {
	fs := newTestStore(t)

	require.NoError(t, fs.Save(KeyToken, []byte("first")))
	require.NoError(t, fs.Save(KeyToken, []byte("second")))

	data, err := fs.Load(KeyToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}
