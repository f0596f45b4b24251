package trading

import (
	"strings"
	"time"
)

// TriggerType classifies what prompted a trade action
type TriggerType string

const (
	TriggerBuy       TriggerType = "BUY"
	TriggerSell      TriggerType = "SELL"
	TriggerRebalance TriggerType = "REBALANCE"
	TriggerDeposit   TriggerType = "DEPOSIT"
)

// IsSellLike returns true for actions that reduce positions. Both explicit
// sells and rebalances count when measuring panic-selling behavior.
func (t TriggerType) IsSellLike() bool {
	switch t {
	case TriggerSell, TriggerRebalance:
		return true
	default:
		return false
	}
}

// TriggerTypeFromString creates a TriggerType from a string (case-insensitive)
func TriggerTypeFromString(value string) TriggerType {
	return TriggerType(strings.ToUpper(strings.TrimSpace(value)))
}

// Action is one immutable entry in the trade/rebalancing log
type Action struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	ExecutedAt  time.Time   `json:"executed_at"`
	TriggerType TriggerType `json:"trigger_type"`
	Reason      string      `json:"reason,omitempty"`
}
