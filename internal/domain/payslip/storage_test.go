package payslip

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoutil "managertc/internal/platform/crypto"
)

func TestFSStoreWriteReadPlain(t *testing.T) {
	store := NewFSStore(t.TempDir(), nil)
	ctx := context.Background()

	path, err := store.Write(ctx, "payslip_emp-1_9_2025.pdf", []byte("%PDF-1.4 test"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".pdf"))

	data, err := store.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 test"), data)
}

func TestFSStoreEncryptsAtRest(t *testing.T) {
	crypto, err := cryptoutil.New(strings.Repeat("ab", 32))
	require.NoError(t, err)
	store := NewFSStore(t.TempDir(), crypto)
	ctx := context.Background()

	payload := []byte("%PDF-1.4 secret payslip")
	path, err := store.Write(ctx, "payslip_emp-1_9_2025.pdf", payload)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".pdf.enc"), "encrypted artifacts carry the enc suffix")

	data, err := store.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, payload, data, "read transparently decrypts")
}

func TestFSStoreReadRejectsPathEscape(t *testing.T) {
	store := NewFSStore(t.TempDir(), nil)

	_, err := store.Read(context.Background(), filepath.Join(store.BaseDir, "..", "etc", "passwd"))
	assert.Error(t, err)

	_, err = store.Read(context.Background(), "/etc/passwd")
	assert.Error(t, err)
}
