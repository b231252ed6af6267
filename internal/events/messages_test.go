package events

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionMessageRoundTrip(t *testing.T) {
	msg := &TransactionMessage{
		UserID:     42,
		Kind:       KindCredit,
		Amount:     25000,
		Name:       "ипотека",
		PayDay:     15,
		RecordedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := msg.ToJSON()
	require.NoError(t, err)

	got, err := TransactionMessageFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestTransactionMessageOmitsUnsetFields(t *testing.T) {
	// An income carries no category, name or pay day; the wire form must
	// not include them as zero values.
	msg := &TransactionMessage{UserID: 1, Kind: KindIncome, Amount: 5000}

	data, err := msg.ToJSON()
	require.NoError(t, err)

	s := string(data)
	assert.NotContains(t, s, "category")
	assert.NotContains(t, s, "name")
	assert.NotContains(t, s, "pay_day")
	assert.True(t, strings.Contains(s, `"kind":"income"`))
}

func TestTransactionMessageFromJSONRejectsGarbage(t *testing.T) {
	_, err := TransactionMessageFromJSON([]byte("{not json"))
	assert.Error(t, err)
}
