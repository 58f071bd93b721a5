package orders

import (
	"fmt"
	"sync"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/claims"
)

// Defaults applied when a claim record leaves a field empty.
const (
	DefaultDescription = "Tidak ada deskripsi"
	DefaultQuantity    = "1 Porsi"
	ReportIssueLabel   = "Reported"
)

// Placeholder contacts until receivers and couriers are linked to real users.
var (
	PlaceholderReceiver = Person{Name: "Penerima Tamu", Avatar: "P", Phone: "6281234567890"}
	PlaceholderCourier  = Person{Name: "Kurir FAR", Phone: "6289876543210"}
)

// Project maps a claim record to its order view. It is total: every missing
// optional field gets a default and no input makes it fail.
func Project(c claims.Record) OrderView {
	status, _ := DisplayStatusFor(c.Status)

	v := OrderView{
		ID:             c.ID,
		FoodName:       c.FoodName,
		Description:    DefaultDescription,
		Quantity:       DefaultQuantity,
		ImageURL:       c.ImageURL,
		Status:         status,
		DeliveryMethod: claims.DeliveryPickup,
		Receiver:       PlaceholderReceiver,
		Timestamps:     Timestamps{ClaimedAt: c.Date},
	}
	if c.Description != nil && *c.Description != "" {
		v.Description = *c.Description
	}
	if c.ClaimedQuantity != nil && *c.ClaimedQuantity != "" {
		v.Quantity = *c.ClaimedQuantity
	}
	if c.DeliveryMethod != nil && *c.DeliveryMethod == claims.DeliveryDelivery {
		v.DeliveryMethod = claims.DeliveryDelivery
		courier := PlaceholderCourier
		if c.CourierName != nil && *c.CourierName != "" {
			courier.Name = *c.CourierName
		}
		if c.CourierPhone != nil && *c.CourierPhone != "" {
			courier.Phone = *c.CourierPhone
		}
		v.Courier = &courier
	}
	if c.Status == claims.StatusCompleted {
		completed := c.Date
		v.Timestamps.CompletedAt = &completed
	}
	if c.Rating != nil {
		r := Rating{Stars: c.Rating.Stars, MediaURLs: []string{}}
		if c.Rating.Review != nil {
			r.Comment = *c.Rating.Review
		}
		v.Rating = &r
	}
	if c.IsReported {
		r := Report{Issue: ReportIssueLabel, IsUrgent: true}
		if c.ReportIssue != nil {
			r.Description = *c.ReportIssue
		}
		v.Report = &r
	}
	return v
}

// Projector memoizes projections per claim id. A cached view is reused only
// while the record's fingerprint is unchanged, so stale data never leaks.
type Projector struct {
	mu    sync.Mutex
	cache map[string]cachedView
}

type cachedView struct {
	fingerprint string
	view        OrderView
}

// NewProjector creates an empty caching projector.
func NewProjector() *Projector {
	return &Projector{cache: make(map[string]cachedView)}
}

// Project returns the projection of c, reusing the cached one when possible.
func (p *Projector) Project(c claims.Record) OrderView {
	fp := fingerprint(c)
	p.mu.Lock()
	defer p.mu.Unlock()
	if cv, ok := p.cache[c.ID]; ok && cv.fingerprint == fp {
		return cv.view
	}
	v := Project(c)
	p.cache[c.ID] = cachedView{fingerprint: fp, view: v}
	return v
}

// Forget drops cached views for ids not present in keep.
func (p *Projector) Forget(keep []claims.Record) {
	live := make(map[string]struct{}, len(keep))
	for _, c := range keep {
		live[c.ID] = struct{}{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for id := range p.cache {
		if _, ok := live[id]; !ok {
			delete(p.cache, id)
		}
	}
}

func fingerprint(c claims.Record) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s|%s|%v|%s|%s|%s|%s",
		c.FoodName, deref(c.Description), deref(c.ClaimedQuantity), c.ImageURL, c.Status,
		derefMethod(c.DeliveryMethod), c.Date, ratingKey(c.Rating), c.IsReported,
		deref(c.ReportIssue), deref(c.CourierName), deref(c.CourierPhone), c.ID)
}

func deref(s *string) string {
	if s == nil {
		return "\x00"
	}
	return *s
}

func derefMethod(m *claims.DeliveryMethod) string {
	if m == nil {
		return "\x00"
	}
	return string(*m)
}

func ratingKey(r *claims.Rating) string {
	if r == nil {
		return "\x00"
	}
	return fmt.Sprintf("%d:%s", r.Stars, deref(r.Review))
}
