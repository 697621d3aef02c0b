package registration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registration", "student_indexes.txt")
	r := NewFileRoster(path)

	ok, err := r.IsStudent("123456")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.FileExists(t, path)

	require.NoError(t, os.WriteFile(path, []byte("111111\n123456\r\n 222222 \n"), 0644))

	for idx, want := range map[string]bool{"123456": true, "222222": true, "333333": false, "12345": false} {
		ok, err := r.IsStudent(idx)
		require.NoError(t, err)
		assert.Equal(t, want, ok, idx)
	}
}
