package launchpad

import (
	"github.com/gagliardetto/solana-go"

	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad/curve"
	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad/graduation"
)

// EventType labels the mutating operation an Event describes.
type EventType string

const (
	EventInitPool EventType = "init_pool"
	EventBuy      EventType = "buy"
	EventSell     EventType = "sell"
	EventLock     EventType = "lock"
	EventGraduate EventType = "graduate"
	EventWithdraw EventType = "withdraw"
)

// Event is the change notification emitted once per committed mutating
// operation. Downstream indexers snapshot reserves from these for charting
// and risk scoring; the core has no dependency on their storage.
type Event struct {
	Type    EventType        `json:"type"`
	Address solana.PublicKey `json:"address"`
	Mint    solana.PublicKey `json:"mint"`

	// Moved amounts, set for buy, sell, and withdraw events.
	Tokens uint64 `json:"tokens,omitempty"`
	Sol    uint64 `json:"sol,omitempty"`

	// Reserves after the operation committed.
	Reserves curve.Reserves `json:"reserves"`

	Locked    bool                  `json:"locked"`
	Migration *graduation.Migration `json:"migration,omitempty"`
}
