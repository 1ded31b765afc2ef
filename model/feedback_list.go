package model

import "fmt"

// FeedbackStatus classifies a record relative to the viewing user.
type FeedbackStatus string

const (
	StatusSent         FeedbackStatus = "sent"
	StatusReceived     FeedbackStatus = "received"
	StatusWishSent     FeedbackStatus = "wish-sent"
	StatusWishReceived FeedbackStatus = "wish-received"
)

// AllStatuses lists the categories in the order the filter dialog shows them.
var AllStatuses = []FeedbackStatus{StatusReceived, StatusSent, StatusWishSent, StatusWishReceived}

// Label is the human readable type shown next to each entry.
func (s FeedbackStatus) Label() string {
	switch s {
	case StatusSent:
		return "Feedback Sent"
	case StatusReceived:
		return "Feedback Received"
	case StatusWishSent:
		return "Wish Sent"
	case StatusWishReceived:
		return "Wish Received"
	}
	return ""
}

func (s FeedbackStatus) Valid() bool {
	switch s {
	case StatusSent, StatusReceived, StatusWishSent, StatusWishReceived:
		return true
	}
	return false
}

type FeedbackListEntry struct {
	ID       string         `json:"id"`
	Person   string         `json:"person"`
	PersonID string         `json:"person_id"`
	Type     string         `json:"type"`
	Date     string         `json:"date"`
	Status   FeedbackStatus `json:"status"`
	Title    string         `json:"title,omitempty"`
	Content  string         `json:"content,omitempty"`
}

// Href is the page an entry links to from the home listing.
func (e FeedbackListEntry) Href() string {
	switch e.Status {
	case StatusReceived:
		return fmt.Sprintf("/feedback/received/%s", e.ID)
	case StatusSent:
		return fmt.Sprintf("/feedback/sent/%s", e.ID)
	case StatusWishSent:
		return fmt.Sprintf("/wish-feedback/sent/%s", e.ID)
	case StatusWishReceived:
		return fmt.Sprintf("/give-feedback/%s", e.PersonID)
	}
	return "/"
}

// FeedbackList is the aggregated timeline of one user. Unavailable is set when the
// feedback query failed, which callers currently render the same as an empty list.
type FeedbackList struct {
	Entries     []FeedbackListEntry `json:"entries"`
	Unavailable bool                `json:"unavailable"`
}

// FeedbackFilter hides whole categories from a list. The zero value shows everything.
type FeedbackFilter struct {
	Hidden map[FeedbackStatus]bool
}

// NewFeedbackFilter builds a filter from raw status names, ignoring unknown ones.
func NewFeedbackFilter(hidden []string) FeedbackFilter {
	f := FeedbackFilter{Hidden: make(map[FeedbackStatus]bool)}
	for _, h := range hidden {
		if s := FeedbackStatus(h); s.Valid() {
			f.Hidden[s] = true
		}
	}
	return f
}

func (f FeedbackFilter) Shows(s FeedbackStatus) bool {
	return !f.Hidden[s]
}

func (f FeedbackFilter) Apply(entries []FeedbackListEntry) []FeedbackListEntry {
	if len(f.Hidden) == 0 {
		return entries
	}
	out := make([]FeedbackListEntry, 0, len(entries))
	for _, e := range entries {
		if f.Shows(e.Status) {
			out = append(out, e)
		}
	}
	return out
}
