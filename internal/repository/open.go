package repository

import (
	"fmt"

	"plumberry-inventory/pkg/database"

	"go.uber.org/zap"
)

// Open returns the store named by kind: "memory" or "sqlite" (an in-memory SQLite
// database behind gorm). Neither outlives the process. sqlLog, when non-nil,
// receives gorm's statement log.
func Open(kind string, sqlLog *zap.Logger) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		db, err := database.ConnectMemoryDB(sqlLog)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db), nil
	}
	return nil, fmt.Errorf("unknown store %q, use memory or sqlite", kind)
}
