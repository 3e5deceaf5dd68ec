package experiment

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kbukum/vpgbench/errors"
)

// GameExt is the file extension of prepared games.
const GameExt = ".svpg"

// DiscoverGames returns the games in dir sorted by name.
func DiscoverGames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("work directory", dir).WithCause(err)
		}
		return nil, errors.Internal(fmt.Errorf("experiment: read %s: %w", dir, err))
	}
	var games []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), GameExt) {
			continue
		}
		games = append(games, filepath.Join(dir, e.Name()))
	}
	sort.Strings(games)
	return games, nil
}
