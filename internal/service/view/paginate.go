package view

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/view"
)

const maxVisiblePages = 5

// Paginate cuts the requested page out of an ordered record set. The page is
// clamped into range; the returned Pagination carries the page actually shown.
func Paginate(ordered []attendance.Record, pageSize, requested int) ([]attendance.Record, view.Pagination) {
	if pageSize <= 0 {
		pageSize = view.DefaultPageSize
	}

	total := len(ordered)
	totalPages := (total + pageSize - 1) / pageSize

	page := requested
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := min((page-1)*pageSize, total)
	end := min(page*pageSize, total)

	showing := fmt.Sprintf("%d-%d of %d", start+1, end, total)
	if total == 0 {
		showing = "0 of 0"
	}

	window, leading, trailing := PageWindow(page, totalPages)
	lastPage := page == totalPages || totalPages == 0

	return ordered[start:end], view.Pagination{
		Page:              page,
		PageSize:          pageSize,
		TotalItems:        total,
		TotalPages:        totalPages,
		DisplayTotalPages: max(totalPages, 1),
		Showing:           showing,
		Window:            window,
		LeadingEllipsis:   leading,
		TrailingEllipsis:  trailing,
		FirstDisabled:     page == 1,
		PrevDisabled:      page == 1,
		NextDisabled:      lastPage,
		LastDisabled:      lastPage,
	}
}

// PageWindow returns up to five consecutive page numbers around page, shifted
// to stay inside [1, totalPages], and whether pages are hidden on either side.
// There is no window for a single page.
func PageWindow(page, totalPages int) ([]int, bool, bool) {
	if totalPages <= 1 {
		return []int{}, false, false
	}

	start := max(1, page-maxVisiblePages/2)
	end := min(totalPages, start+maxVisiblePages-1)
	if end-start+1 < maxVisiblePages {
		start = max(1, end-maxVisiblePages+1)
	}

	window := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		window = append(window, p)
	}
	return window, start > 1, end < totalPages
}
