// Package observer exposes a running game over HTTP and websockets. Any
// number of clients may watch the same game; each may also click and buy.
package observer

import "github.com/vovakirdan/tui-idle/internal/sim"

// Message types.
const (
	TypeState  = "STATE"
	TypeClick  = "CLICK"
	TypeBuy    = "BUY"
	TypeResult = "RESULT"
	TypeError  = "ERROR"
)

// ClientMsg is a command sent by a websocket client.
type ClientMsg struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"` // upgrade id for BUY
}

// StateMsg carries a full snapshot. It is sent on connect and after every
// state change.
type StateMsg struct {
	Type     string       `json:"type"`
	Session  string       `json:"session"`
	Scenario string       `json:"scenario"`
	State    sim.Snapshot `json:"state"`
}

// ResultMsg answers a CLICK or BUY.
type ResultMsg struct {
	Type   string  `json:"type"`
	Action string  `json:"action"`
	OK     bool    `json:"ok"`
	Reason string  `json:"reason,omitempty"`
	ID     string  `json:"id,omitempty"`
	Price  float64 `json:"price,omitempty"`
	Count  int     `json:"count,omitempty"`
}

// ErrorMsg reports a message the server could not act on.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func purchaseResult(res sim.PurchaseResult) ResultMsg {
	msg := ResultMsg{
		Type:   TypeResult,
		Action: TypeBuy,
		OK:     res.OK,
		ID:     res.ID,
		Price:  res.Price,
		Count:  res.Count,
	}
	if !res.OK {
		msg.Reason = res.Reason.String()
	}
	return msg
}
