package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	store := NewLocalStorage(t.TempDir())

	locator, err := store.Save([]byte("pdf-bytes"), "certificates", "CERT1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "certificates/CERT1.pdf", locator)

	data, err := store.Open(locator)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf-bytes"), data)

	require.NoError(t, store.Delete(locator))

	_, err = store.Open(locator)
	assert.Error(t, err)
}

func TestLocalStorage_DeleteMissingIsNoop(t *testing.T) {
	store := NewLocalStorage(t.TempDir())
	assert.NoError(t, store.Delete("certificates/nope.pdf"))
}

func TestLocalStorage_NoSubfolder(t *testing.T) {
	store := NewLocalStorage(t.TempDir())

	locator, err := store.Save([]byte("x"), "", "plain.txt")
	require.NoError(t, err)
	assert.Equal(t, "plain.txt", locator)
}
