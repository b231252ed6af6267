package core

import (
	"errors"
	"testing"
)

func TestExpenseValidate(t *testing.T) {
	tests := []struct {
		name    string
		expense Expense
		wantErr error
	}{
		{name: "valid", expense: Expense{UserID: 1, Amount: 500, Category: "food"}},
		{name: "zero amount", expense: Expense{UserID: 1, Amount: 0, Category: "food"}, wantErr: ErrInvalidAmount},
		{name: "negative amount", expense: Expense{UserID: 1, Amount: -10, Category: "food"}, wantErr: ErrInvalidAmount},
		{name: "unknown category", expense: Expense{UserID: 1, Amount: 500, Category: "misc"}, wantErr: ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.expense.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIncomeValidate(t *testing.T) {
	if err := (Income{UserID: 1, Amount: 5000}).Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if err := (Income{UserID: 1, Amount: 0}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Validate() = %v, want ErrInvalidAmount", err)
	}
}

func TestCreditValidate(t *testing.T) {
	tests := []struct {
		name    string
		credit  Credit
		wantErr error
	}{
		{name: "valid", credit: Credit{UserID: 1, Name: "ипотека", Amount: 25000, PayDay: 15}},
		{name: "first day", credit: Credit{UserID: 1, Name: "аренда", Amount: 100, PayDay: 1}},
		{name: "last day", credit: Credit{UserID: 1, Name: "аренда", Amount: 100, PayDay: 31}},
		{name: "empty name", credit: Credit{UserID: 1, Name: "  ", Amount: 100, PayDay: 15}, wantErr: ErrEmptyName},
		{name: "zero amount", credit: Credit{UserID: 1, Name: "x", Amount: 0, PayDay: 15}, wantErr: ErrInvalidAmount},
		{name: "day zero", credit: Credit{UserID: 1, Name: "x", Amount: 100, PayDay: 0}, wantErr: ErrInvalidPayDay},
		{name: "day 32", credit: Credit{UserID: 1, Name: "x", Amount: 100, PayDay: 32}, wantErr: ErrInvalidPayDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.credit.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
