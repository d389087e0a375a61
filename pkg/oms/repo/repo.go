package repo

import (
	"gorm.io/gorm"
)

type IRepo interface {
	OrderEvent() IOrderEvent
	Trade() ITrade
}

type Repo struct {
	ledgerDB *gorm.DB
}

func NewRepo(ledgerDB *gorm.DB) IRepo {
	return &Repo{
		ledgerDB: ledgerDB,
	}
}

func (r *Repo) OrderEvent() IOrderEvent {
	return NewOrderEventSQLRepo(r.ledgerDB)
}

func (r *Repo) Trade() ITrade {
	return NewTradeSQLRepo(r.ledgerDB)
}
