// Package repomanager vends the SQLite repository implementations.
package repomanager

import (
	"github.com/dmitrijs2005/urbanmobility/internal/dbx"
	"github.com/dmitrijs2005/urbanmobility/internal/repositories/scooters"
	"github.com/dmitrijs2005/urbanmobility/internal/repositories/travellers"
	"github.com/dmitrijs2005/urbanmobility/internal/repositories/users"
)

type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Scooters(db dbx.DBTX) scooters.Repository {
	return scooters.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Travellers(db dbx.DBTX) travellers.Repository {
	return travellers.NewSQLiteRepository(db)
}
