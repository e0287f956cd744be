package view

import "github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"

// Pagination describes the page being shown and the pager controls around it.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
	// DisplayTotalPages is TotalPages but never below 1, for "page 1 of 1".
	DisplayTotalPages int    `json:"display_total_pages"`
	Showing           string `json:"showing"` // "21-40 of 45"

	Window           []int `json:"window"`
	LeadingEllipsis  bool  `json:"leading_ellipsis"`
	TrailingEllipsis bool  `json:"trailing_ellipsis"`

	FirstDisabled bool `json:"first_disabled"`
	PrevDisabled  bool `json:"prev_disabled"`
	NextDisabled  bool `json:"next_disabled"`
	LastDisabled  bool `json:"last_disabled"`
}

// Row is a record as displayed, with its derived status.
type Row struct {
	attendance.Record
	DerivedStatus attendance.Status `json:"derived_status"`
	StatusClass   string            `json:"status_class"`
	IsToday       bool              `json:"is_today"`
}

// FilteredPage is the current page of rows. It is derived from the record set
// and the state on every change and never stored.
type FilteredPage struct {
	Rows       []Row      `json:"rows"`
	Pagination Pagination `json:"pagination"`
}

// Option is an entry of the employee filter.
type Option struct {
	Value attendance.ID `json:"value"`
	Label string        `json:"label"`
}
