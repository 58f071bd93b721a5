// Package orders projects raw claim records into the order views the provider
// works with, and derives the active/history collections and their filtered
// subsets. Everything here is pure: no I/O, no shared state.
package orders

import (
	"fmt"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/claims"
)

// DisplayStatus is the label an order carries in the provider's views. It is
// not the lifecycle stage; see DisplayStatusFor.
type DisplayStatus string

const (
	DisplayClaimed   DisplayStatus = "claimed"
	DisplayCompleted DisplayStatus = "completed"
	DisplayCancelled DisplayStatus = "cancelled"
)

// DisplayStatusFor maps a lifecycle stage to its display label. ok is false for
// stages outside the lifecycle; every known stage must have a case here.
func DisplayStatusFor(s claims.Status) (DisplayStatus, bool) {
	switch s {
	case claims.StatusActive:
		return DisplayClaimed, true
	case claims.StatusCompleted:
		return DisplayCompleted, true
	case claims.StatusCancelled:
		return DisplayCancelled, true
	}
	return "", false
}

// Person is someone the provider may need to reach about an order.
type Person struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"` // initial shown in place of a photo
	Phone  string `json:"phone"`
}

// Timestamps records when an order was claimed and, for completed orders,
// when it was handed off.
type Timestamps struct {
	ClaimedAt   string  `json:"claimedAt"`
	CompletedAt *string `json:"completedAt,omitempty"`
}

// Rating is the receiver's feedback as shown to the provider.
type Rating struct {
	Stars     int      `json:"stars"`
	Comment   string   `json:"comment"`
	MediaURLs []string `json:"mediaUrls"`
}

// Report flags a problem raised against an order.
type Report struct {
	Issue       string `json:"issue"`
	Description string `json:"description"`
	IsUrgent    bool   `json:"isUrgent"`
}

// OrderView is the presentation-side projection of one claim record. It is
// rebuilt on every projection pass and has no identity beyond ID.
type OrderView struct {
	ID             string                `json:"id"`
	FoodName       string                `json:"foodName"`
	Description    string                `json:"description"`
	Quantity       string                `json:"quantity"`
	ImageURL       string                `json:"imageUrl"`
	Status         DisplayStatus         `json:"status"`
	DeliveryMethod claims.DeliveryMethod `json:"deliveryMethod"`
	Receiver       Person                `json:"receiver"`
	Courier        *Person               `json:"courier,omitempty"`
	Timestamps     Timestamps            `json:"timestamps"`
	Rating         *Rating               `json:"rating,omitempty"`
	Report         *Report               `json:"report,omitempty"`
}

// Actionable reports whether the order still awaits handoff, i.e. whether the
// verification and cancellation workflows apply to it.
func (o OrderView) Actionable() bool {
	return o.Status == DisplayClaimed
}

// String returns a short human-readable form used in logs.
func (o OrderView) String() string {
	return fmt.Sprintf("%s(%s, %s)", o.ID, o.FoodName, o.Status)
}
