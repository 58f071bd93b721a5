package orders

import (
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/claims"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/logging"
)

// Partitioned holds the two presentation collections derived from a claim
// snapshot. Dropped lists the ids of records whose status is outside the
// lifecycle; they appear in neither collection.
type Partitioned struct {
	Active  []OrderView
	History []OrderView
	Dropped []string
}

// Total returns the number of input records accounted for.
func (p Partitioned) Total() int {
	return len(p.Active) + len(p.History) + len(p.Dropped)
}

// Partition splits claims into active orders and completed/cancelled history,
// preserving input order within each collection.
func Partition(recs []claims.Record) Partitioned {
	return partition(recs, Project)
}

// Partition is the caching variant of the package-level Partition.
func (p *Projector) Partition(recs []claims.Record) Partitioned {
	out := partition(recs, p.Project)
	p.Forget(recs)
	return out
}

func partition(recs []claims.Record, project func(claims.Record) OrderView) Partitioned {
	out := Partitioned{
		Active:  make([]OrderView, 0, len(recs)),
		History: make([]OrderView, 0, len(recs)),
	}
	for _, rec := range recs {
		switch rec.Status {
		case claims.StatusActive:
			out.Active = append(out.Active, project(rec))
		case claims.StatusCompleted, claims.StatusCancelled:
			out.History = append(out.History, project(rec))
		default:
			logging.OrdersDebug("dropping claim %s with unknown status %q", rec.ID, rec.Status)
			out.Dropped = append(out.Dropped, rec.ID)
		}
	}
	return out
}
