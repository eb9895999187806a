package amqp

import (
	"encoding/json"
	"time"

	"gastos/internal/core"
)

// EntryMessage is an entry as carried on the wire. Amounts travel as
// decimal strings so no precision is lost.
type EntryMessage struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Amount   string `json:"amount"`
}

// SnapshotMessage announces the new state of the selected month after a
// change to the ledger or to the selection.
type SnapshotMessage struct {
	Month        string         `json:"month"`
	Label        string         `json:"label"`
	TotalIncome  string         `json:"totalIncome"`
	TotalExpense string         `json:"totalExpense"`
	Balance      string         `json:"balance"`
	Entries      []EntryMessage `json:"entries"`
	Timestamp    time.Time      `json:"timestamp"`
}

// NewSnapshotMessage builds the message for snap, stamped with the current time.
func NewSnapshotMessage(snap core.Snapshot) *SnapshotMessage {
	entries := make([]EntryMessage, len(snap.Entries))
	for i, e := range snap.Entries {
		entries[i] = EntryMessage{
			ID:       e.ID,
			Date:     e.Date.String(),
			Category: e.CategoryKey,
			Title:    e.Title,
			Amount:   core.AmountString(e.Amount),
		}
	}
	return &SnapshotMessage{
		Month:        snap.Month.String(),
		Label:        snap.Label,
		TotalIncome:  core.AmountString(snap.TotalIncome),
		TotalExpense: core.AmountString(snap.TotalExpense),
		Balance:      core.AmountString(snap.Balance),
		Entries:      entries,
		Timestamp:    time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SnapshotMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotMessageFromJSON decodes a message produced by ToJSON.
func SnapshotMessageFromJSON(data []byte) (*SnapshotMessage, error) {
	var msg SnapshotMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
