package registration

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type StudentRoster interface {
	IsStudent(index string) (bool, error)
}

// FileRoster reads one index per line. The file is re-read on every lookup
// so operators can edit it while the bot runs.
type FileRoster struct {
	path string
	mu   sync.Mutex
}

func NewFileRoster(path string) *FileRoster {
	return &FileRoster{path: path}
}

// IsStudent creates an empty roster file when it is missing.
func (r *FileRoster) IsStudent(index string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
			return false, err
		}
		return false, os.WriteFile(r.path, nil, 0644)
	}
	if err != nil {
		return false, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == index {
			return true, nil
		}
	}
	return false, sc.Err()
}
