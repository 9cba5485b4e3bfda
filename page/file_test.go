package page

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileDisk_CreateWriteReadClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.elki")

	d, err := CreateFileDisk(path, 64, 5, 7)
	require.NoError(t, err)
	assert.Equal(t, 5, d.DirCapacity())
	assert.Equal(t, 7, d.LeafCapacity())

	data := make([]byte, 64)
	copy(data, "a node page")
	p := &Page{ID: NoPage, Data: data}
	require.NoError(t, d.WritePage(p))
	assert.Equal(t, ID(0), p.ID)

	got, err := d.ReadPage(p.ID)
	require.NoError(t, err)
	assert.Equal(t, data, got.Data)

	require.NoError(t, d.Close())
}

func TestFileDisk_ReopenPreservesHeaderAndPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.elki")

	d, err := CreateFileDisk(path, 64, 5, 7)
	require.NoError(t, err)

	data := make([]byte, 64)
	copy(data, "persisted")
	p := &Page{ID: NoPage, Data: data}
	require.NoError(t, d.WritePage(p))
	require.NoError(t, d.Close())

	reopened, err := OpenFileDisk(path)
	require.NoError(t, err)
	assert.Equal(t, 5, reopened.DirCapacity())
	assert.Equal(t, 7, reopened.LeafCapacity())

	got, err := reopened.ReadPage(p.ID)
	require.NoError(t, err)
	assert.Equal(t, data, got.Data)
	require.NoError(t, reopened.Close())
}

func TestFileDisk_DetectsCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.elki")

	d, err := CreateFileDisk(path, 64, 5, 7)
	require.NoError(t, err)

	data := make([]byte, 64)
	copy(data, "intact")
	p := &Page{ID: NoPage, Data: data}
	require.NoError(t, d.WritePage(p))
	require.NoError(t, d.Close())

	corrupted, err := OpenFileDisk(path)
	require.NoError(t, err)

	offset := corrupted.offset(p.ID) + blockOverhead
	_, err = corrupted.file.WriteAt([]byte{0xFF}, offset)
	require.NoError(t, err)

	_, err = corrupted.ReadPage(p.ID)
	assert.Error(t, err, "a flipped byte must be caught by the page checksum")
}

func TestOpenFileDisk_RejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-elki.bin")

	d, err := CreateFileDisk(path, 64, 5, 7)
	require.NoError(t, err)
	require.NoError(t, d.Close())

	f, err := os.OpenFile(path, os.O_RDWR, 0666)
	require.NoError(t, err)
	_, err = f.WriteAt([]byte{'X', 'X', 'X', 'X'}, 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = OpenFileDisk(path)
	assert.Error(t, err, "a file with the wrong magic must be rejected")
}
