package view

import "feedback-tool-backend/model"

// Layout is embedded in every page context; User is nil on the sign-in page.
type Layout struct {
	Title string
	User  *model.CurrentUser
}

type HomePage struct {
	Layout
	Entries     []model.FeedbackListEntry
	Filter      model.FeedbackFilter
	Unavailable bool
}

// SearchPage lists colleagues. Base is the path each result links under.
type SearchPage struct {
	Layout
	Heading        string
	Base           string
	Query          string
	Profiles       []model.Profile
	SelfReportLink bool
}

type FormPage struct {
	Layout
	Heading      string
	Receiver     *model.Profile
	IsWish       bool
	IsSelfReport bool
	Error        string
	TitleValue   string
	ContentValue string
}

type DetailPage struct {
	Layout
	Heading  string
	Feedback *model.FeedbackDetail
	// Counterpart is the participant shown under the heading.
	Counterpart model.Participant
}

type AuthPage struct {
	Layout
	Error string
}

type MessagePage struct {
	Layout
	Message string
}

type FixProfilesPage struct {
	Layout
	Ran     bool
	Updated int
	Errors  int
	Details []string
}
