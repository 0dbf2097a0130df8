package amqp

import (
	"encoding/json"
	"time"

	"bilancio/internal/finance"
)

// NearPayoffAlert flags a debt within two payments of being retired.
type NearPayoffAlert struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	RemainingAmount float64 `json:"remaining_amount"`
	MonthlyPayment  float64 `json:"monthly_payment"`
}

// ReminderBatchMessage carries one day's due-payment evaluation to the
// notification dispatcher. It holds semantic identifiers only; presentation
// (wording, icons, dismissal state) is the consumer's concern.
type ReminderBatchMessage struct {
	CallerKey  string             `json:"caller_key"`
	RunDate    string             `json:"run_date"` // YYYY-MM-DD
	Reminders  []finance.Reminder `json:"reminders"`
	NearPayoff []NearPayoffAlert  `json:"near_payoff,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
}

// NewReminderBatchMessage builds a batch message for a completed evaluation.
func NewReminderBatchMessage(callerKey string, runDate time.Time, reminders []finance.Reminder, nearPayoff []NearPayoffAlert) *ReminderBatchMessage {
	return &ReminderBatchMessage{
		CallerKey:  callerKey,
		RunDate:    runDate.Format("2006-01-02"),
		Reminders:  reminders,
		NearPayoff: nearPayoff,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ReminderBatchMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReminderBatchMessageFromJSON creates a message from JSON bytes.
func ReminderBatchMessageFromJSON(data []byte) (*ReminderBatchMessage, error) {
	var msg ReminderBatchMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
