package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)

	token, expiresAt, err := signer.Generate("abc123.pdf")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	key, _, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "abc123.pdf", key)
}

func TestSignedURLExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	signer.ttl = -time.Minute

	token, _, err := signer.Generate("abc123.pdf")
	require.NoError(t, err)

	_, _, err = signer.Parse(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestSignedURLTampered(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)

	token, _, err := signer.Generate("abc123.pdf")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	parts[2] = strings.Repeat("0", len(parts[2]))

	_, _, err = signer.Parse(strings.Join(parts, "."))
	require.Error(t, err)
}

func TestSignedURLWrongSecret(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	other := NewSignedURLSigner("other", time.Minute)

	token, _, err := signer.Generate("abc123.pdf")
	require.NoError(t, err)

	_, _, err = other.Parse(token)
	require.Error(t, err)
}

func TestStoreKeyFor(t *testing.T) {
	store, err := NewStore(t.TempDir(), "/api/v1/files")
	require.NoError(t, err)

	assert.Equal(t, "obj.png", store.KeyFor("/api/v1/files/obj.png"))
	assert.Equal(t, "", store.KeyFor("https://elsewhere.example/x.png"))
	assert.Equal(t, "", store.KeyFor("/api/v1/files/nested/obj.png"))
}

func TestStoreSaveOpenDelete(t *testing.T) {
	store, err := NewStore(t.TempDir(), "/api/v1/files")
	require.NoError(t, err)

	url, err := store.Save("report.pdf", strings.NewReader("content"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/api/v1/files/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))

	key := store.KeyFor(url)
	file, err := store.Open(key)
	require.NoError(t, err)
	file.Close()

	require.NoError(t, store.Delete(url))
	_, err = store.Open(key)
	require.Error(t, err)

	// deleting foreign or missing URLs is a no-op
	require.NoError(t, store.Delete("https://elsewhere.example/x.png"))
	require.NoError(t, store.Delete(url))
}
