package events

import (
	"encoding/json"
	"time"
)

// Transaction kinds carried in messages.
const (
	KindExpense      = "expense"
	KindIncome       = "income"
	KindCredit       = "credit"
	KindCreditDelete = "credit_delete"
)

// TransactionMessage is published after every successful write so the
// worker can audit-log and export it. It carries the full row because the
// worker has no database access of its own.
type TransactionMessage struct {
	UserID     int64     `json:"user_id"`
	Kind       string    `json:"kind"`
	Amount     int64     `json:"amount,omitempty"`
	Category   string    `json:"category,omitempty"`
	Name       string    `json:"name,omitempty"`
	PayDay     int       `json:"pay_day,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (m *TransactionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionMessageFromJSON(data []byte) (*TransactionMessage, error) {
	var msg TransactionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
