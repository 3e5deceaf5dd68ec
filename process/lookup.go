package process

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/kbukum/vpgbench/errors"
)

// LookPath resolves an executable by searching dirs in order and then $PATH.
// The returned path is absolute when found in one of dirs.
func LookPath(name string, dirs ...string) (string, error) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			if abs, err := filepath.Abs(candidate); err == nil {
				return abs, nil
			}
			return candidate, nil
		}
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", errors.MissingBinary(name, dirs).WithCause(err)
	}
	return path, nil
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
