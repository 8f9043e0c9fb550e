package repomanager

import (
	"github.com/dmitrijs2005/urbanmobility/internal/dbx"
	"github.com/dmitrijs2005/urbanmobility/internal/repositories/scooters"
	"github.com/dmitrijs2005/urbanmobility/internal/repositories/travellers"
	"github.com/dmitrijs2005/urbanmobility/internal/repositories/users"
)

// RepositoryManager builds repositories bound to a DBTX, so a service can
// use the same code against *sql.DB or inside dbx.WithTx.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Scooters(db dbx.DBTX) scooters.Repository
	Travellers(db dbx.DBTX) travellers.Repository
}
