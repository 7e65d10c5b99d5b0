package domain

import "time"

// Recommendation suggests a task to prioritize today.
// The TaskID is a weak reference; the task may have been deleted since.
type Recommendation struct {
	CreatedAt        time.Time `json:"createdAt" yaml:"createdAt"`
	ID               string    `json:"id" yaml:"id"`
	TaskID           string    `json:"taskId" yaml:"taskId"`
	Reason           string    `json:"reason" yaml:"reason"`
	SuggestedMinutes int       `json:"suggestedDuration" yaml:"suggestedDuration"`
}

// IsForDay returns true if the recommendation was created on the same
// calendar day as now, in now's location.
func (r *Recommendation) IsForDay(now time.Time) bool {
	return SameDay(r.CreatedAt, now)
}

// SameDay reports whether a and b fall on the same calendar day in b's location.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FilterForDay returns the recommendations created on now's calendar day.
func FilterForDay(recs []Recommendation, now time.Time) []Recommendation {
	out := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		if r.IsForDay(now) {
			out = append(out, r)
		}
	}
	return out
}
