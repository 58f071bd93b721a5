package orders

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/claims"
)

func ids(vs []OrderView) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.ID)
	}
	return out
}

func TestPartition_SplitsAndPreservesOrder(t *testing.T) {
	recs := []claims.Record{
		{ID: "1", Status: claims.StatusActive},
		{ID: "2", Status: claims.StatusCompleted},
		{ID: "3", Status: "pending"},
		{ID: "4", Status: claims.StatusActive},
		{ID: "5", Status: claims.StatusCancelled},
		{ID: "6", Status: ""},
	}

	p := Partition(recs)
	assert.Equal(t, []string{"1", "4"}, ids(p.Active))
	assert.Equal(t, []string{"2", "5"}, ids(p.History))
	assert.Equal(t, []string{"3", "6"}, p.Dropped)
	assert.Equal(t, len(recs), p.Total())

	for _, v := range p.Active {
		assert.Equal(t, DisplayClaimed, v.Status)
	}
}

func TestPartition_AccountsForEveryRecord(t *testing.T) {
	statuses := []claims.Status{claims.StatusActive, claims.StatusCompleted, claims.StatusCancelled, "bogus"}
	for n := 0; n < 40; n += 7 {
		recs := make([]claims.Record, n)
		for i := range recs {
			recs[i] = claims.Record{ID: fmt.Sprint(i), Status: statuses[i%len(statuses)]}
		}
		p := Partition(recs)
		require.Equal(t, n, p.Total())

		seen := map[string]int{}
		for _, id := range append(append(ids(p.Active), ids(p.History)...), p.Dropped...) {
			seen[id]++
		}
		for _, r := range recs {
			assert.Equal(t, 1, seen[r.ID], "record %s must appear exactly once", r.ID)
		}
	}
}

func TestPartition_ScenarioA(t *testing.T) {
	p := Partition([]claims.Record{{ID: "1", Status: claims.StatusActive, FoodName: "Nasi Kotak"}})
	require.Len(t, p.Active, 1)
	assert.Equal(t, DisplayClaimed, p.Active[0].Status)
	assert.Nil(t, p.Active[0].Timestamps.CompletedAt)
	assert.Empty(t, p.History)
}

func TestPartition_ScenarioB(t *testing.T) {
	p := Partition([]claims.Record{{
		ID: "2", Status: claims.StatusCompleted, Date: "2024-01-01", Rating: &claims.Rating{Stars: 5},
	}})
	require.Len(t, p.History, 1)
	h := p.History[0]
	assert.Equal(t, "2024-01-01", *h.Timestamps.CompletedAt)
	assert.Equal(t, 5, h.Rating.Stars)
	assert.Nil(t, h.Report)
}

func TestPartition_Empty(t *testing.T) {
	p := Partition(nil)
	assert.Empty(t, p.Active)
	assert.Empty(t, p.History)
	assert.Equal(t, 0, p.Total())
}

func TestProjectorPartition_MatchesPure(t *testing.T) {
	recs := []claims.Record{
		{ID: "1", Status: claims.StatusActive, FoodName: "A"},
		{ID: "2", Status: claims.StatusCancelled, FoodName: "B", IsReported: true},
	}
	pr := NewProjector()
	assert.Equal(t, Partition(recs), pr.Partition(recs))
	assert.Equal(t, Partition(recs[:1]), pr.Partition(recs[:1]))
	assert.Len(t, pr.cache, 1)
}
