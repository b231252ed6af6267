package core

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidPayDay   = errors.New("pay day must be between 1 and 31")
	ErrUnknownCategory = errors.New("unknown category")
	ErrEmptyName       = errors.New("empty credit name")
)

type (
	// User is registered on first contact and never mutated afterwards.
	User struct {
		ID        int64
		CreatedAt time.Time
	}

	// Expense is an immutable ledger row. Amounts are whole rubles.
	Expense struct {
		ID        int64
		UserID    int64
		Amount    int64
		Category  string
		CreatedAt time.Time
	}

	// Income is an immutable ledger row.
	Income struct {
		ID        int64
		UserID    int64
		Amount    int64
		CreatedAt time.Time
	}

	// Credit is a recurring payment obligation due on PayDay each month.
	// Credits carry no timestamp: they are not part of windowed reports.
	// (user_id, name) is deliberately not unique; several credits may share
	// a name and deletion removes every match.
	Credit struct {
		ID     int64
		UserID int64
		Name   string
		Amount int64
		PayDay int
	}
)

func (e Expense) Validate() error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !ValidCategory(e.Category) {
		return ErrUnknownCategory
	}
	return nil
}

func (i Income) Validate() error {
	if i.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (c Credit) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Amount <= 0 {
		return ErrInvalidAmount
	}
	if c.PayDay < 1 || c.PayDay > 31 {
		return ErrInvalidPayDay
	}
	return nil
}
