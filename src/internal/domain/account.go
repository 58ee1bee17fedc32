package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID        string
	Balance   decimal.Decimal
	Frozen    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
