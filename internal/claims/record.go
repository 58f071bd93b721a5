// Package claims defines the raw claim records a provider receives when a user
// claims one of their donated items, and the store contract the rest of the
// application reads snapshots from.
//
// Records are owned by whichever Store backs the running host. Nothing outside a
// Store mutates a Record in place; callers ask for a status change instead.
package claims

// Status is the lifecycle stage of a claim. It is the single source of truth for
// where a claim sits; rating and report flags are annotations on top of it.
type Status string

const (
	StatusActive    Status = "active"    // claimed, waiting for handoff
	StatusCompleted Status = "completed" // handed off and verified
	StatusCancelled Status = "cancelled" // cancelled by the provider
)

// Statuses lists every known lifecycle stage.
var Statuses = []Status{StatusActive, StatusCompleted, StatusCancelled}

// Valid reports whether s is a known lifecycle stage.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further lifecycle change is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// DeliveryMethod is how the claimed item reaches the receiver.
type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "pickup"
	DeliveryDelivery DeliveryMethod = "delivery"
)

// Rating is the receiver's feedback on a finished claim.
type Rating struct {
	Stars  int     `yaml:"stars" json:"stars"`                       // 1-5
	Review *string `yaml:"review,omitempty" json:"review,omitempty"` // optional free text
}

// Record is a single claim as stored by the provider's claim history.
type Record struct {
	ID              string          `yaml:"id" json:"id"`
	FoodName        string          `yaml:"foodName" json:"foodName"`
	Description     *string         `yaml:"description,omitempty" json:"description,omitempty"`
	ClaimedQuantity *string         `yaml:"claimedQuantity,omitempty" json:"claimedQuantity,omitempty"`
	ImageURL        string          `yaml:"imageUrl" json:"imageUrl"`
	Status          Status          `yaml:"status" json:"status"`
	DeliveryMethod  *DeliveryMethod `yaml:"deliveryMethod,omitempty" json:"deliveryMethod,omitempty"`
	Date            string          `yaml:"date" json:"date"`
	Rating          *Rating         `yaml:"rating,omitempty" json:"rating,omitempty"`
	IsReported      bool            `yaml:"isReported" json:"isReported"`

	// ReportIssue is the reporter's own description of the problem, when the
	// source captured one.
	ReportIssue *string `yaml:"reportIssue,omitempty" json:"reportIssue,omitempty"`

	// Courier details for delivery claims.
	CourierName  *string `yaml:"courierName,omitempty" json:"courierName,omitempty"`
	CourierPhone *string `yaml:"courierPhone,omitempty" json:"courierPhone,omitempty"`
}

// Clone returns a deep copy of r so callers can hand out snapshots without
// sharing pointer fields with the store.
func (r Record) Clone() Record {
	cp := r
	cp.Description = cloneString(r.Description)
	cp.ClaimedQuantity = cloneString(r.ClaimedQuantity)
	cp.ReportIssue = cloneString(r.ReportIssue)
	cp.CourierName = cloneString(r.CourierName)
	cp.CourierPhone = cloneString(r.CourierPhone)
	if r.DeliveryMethod != nil {
		dm := *r.DeliveryMethod
		cp.DeliveryMethod = &dm
	}
	if r.Rating != nil {
		rating := Rating{Stars: r.Rating.Stars, Review: cloneString(r.Rating.Review)}
		cp.Rating = &rating
	}
	return cp
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// String returns a pointer to s. Handy when building records in fixtures.
func String(s string) *string { return &s }

// Method returns a pointer to m.
func Method(m DeliveryMethod) *DeliveryMethod { return &m }
