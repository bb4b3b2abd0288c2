package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/seosync/internal/common"
	"github.com/ternarybob/seosync/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db     *BadgerDB
	seo    interfaces.SeoStorage
	logger arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig, chunkSize int) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:     db,
		seo:    NewSeoStorage(db, logger, chunkSize),
		logger: logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// SeoStorage returns the Seo storage interface
func (m *Manager) SeoStorage() interfaces.SeoStorage {
	return m.seo
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
