package state

import (
	"database/sql"
	"path/filepath"

	"github.com/adrg/xdg"

	dbutil "github.com/llehouerou/folderplay/internal/db"
)

const (
	appName    = "folderplay"
	dbFileName = "folderplay.db"
)

// Manager is the SQLite store for playlists and playback progress.
type Manager struct {
	db *sql.DB
}

// Open opens the database at path. An empty path selects the default
// location under the XDG data directory.
func Open(path string) (*Manager, error) {
	if path == "" {
		var err error
		path, err = DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}

	db, err := dbutil.Open(path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db}, nil
}

// OpenMemory opens a private in-memory store.
func OpenMemory() (*Manager, error) {
	return Open(dbutil.MemoryPath)
}

func (m *Manager) Close() error {
	return m.db.Close()
}

// DefaultDBPath returns the XDG data path of the database, creating its
// parent directory.
func DefaultDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
