package usecase

import (
	"cmp"
	"slices"
	"strings"

	"github.com/xavierca1/lead-console/internal/entity"
)

// PageLink is one entry of the pagination control. Ellipsis entries have no number.
type PageLink struct {
	Number   int  `json:"number,omitempty"`
	Current  bool `json:"current,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// ViewResult is the filtered, sorted and paginated projection of the lead list.
type ViewResult struct {
	Leads         []entity.Lead             `json:"leads"`
	All           []entity.Lead             `json:"-"`
	FilteredCount int                       `json:"filteredCount"`
	TotalCount    int                       `json:"totalCount"`
	Page          int                       `json:"page"`
	PageSize      int                       `json:"pageSize"`
	TotalPages    int                       `json:"totalPages"`
	HasNextPage   bool                      `json:"hasNextPage"`
	HasPrevPage   bool                      `json:"hasPrevPage"`
	PageStart     int                       `json:"pageStart"`
	PageEnd       int                       `json:"pageEnd"`
	StatusCounts  map[entity.LeadStatus]int `json:"statusCounts"`
	Pages         []PageLink                `json:"pages"`
}

// DeriveView computes the visible page for filters over leads. It does not modify
// its inputs.
func DeriveView(leads []entity.Lead, f entity.LeadFilters) ViewResult {
	f = f.Normalize()

	filtered := make([]entity.Lead, 0, len(leads))
	term := strings.ToLower(f.SearchTerm)
	for _, l := range leads {
		if term != "" &&
			!strings.Contains(strings.ToLower(l.Name), term) &&
			!strings.Contains(strings.ToLower(l.Company), term) {
			continue
		}
		if f.StatusFilter != entity.StatusFilterAll && l.Status != entity.LeadStatus(f.StatusFilter) {
			continue
		}
		filtered = append(filtered, l)
	}

	compare := leadComparator(f.SortBy)
	slices.SortStableFunc(filtered, func(a, b entity.Lead) int {
		c := compare(a, b)
		if f.SortOrder == entity.SortDesc {
			return -c
		}
		return c
	})

	count := len(filtered)
	totalPages := TotalPages(count, f.PageSize)
	page := ClampPage(f.Page, totalPages)

	start := (page - 1) * f.PageSize
	end := min(start+f.PageSize, count)
	start = min(start, count)

	counts := make(map[entity.LeadStatus]int, len(entity.LeadStatuses))
	for _, s := range entity.LeadStatuses {
		counts[s] = 0
	}
	for _, l := range filtered {
		counts[l.Status]++
	}

	v := ViewResult{
		Leads:         slices.Clone(filtered[start:end]),
		All:           filtered,
		FilteredCount: count,
		TotalCount:    len(leads),
		Page:          page,
		PageSize:      f.PageSize,
		TotalPages:    totalPages,
		HasNextPage:   page < totalPages,
		HasPrevPage:   page > 1,
		PageEnd:       end,
		StatusCounts:  counts,
		Pages:         VisiblePages(page, totalPages),
	}
	if count > 0 {
		v.PageStart = start + 1
	}
	return v
}

func leadComparator(key entity.SortKey) func(a, b entity.Lead) int {
	switch key {
	case entity.SortByName:
		return func(a, b entity.Lead) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case entity.SortByCompany:
		return func(a, b entity.Lead) int {
			return strings.Compare(strings.ToLower(a.Company), strings.ToLower(b.Company))
		}
	case entity.SortByCreatedAt:
		// unparseable timestamps sort as the zero instant
		return func(a, b entity.Lead) int {
			ta, _ := parseTimestamp(a.CreatedAt)
			tb, _ := parseTimestamp(b.CreatedAt)
			return ta.Compare(tb)
		}
	default:
		return func(a, b entity.Lead) int {
			return cmp.Compare(a.Score, b.Score)
		}
	}
}

// TotalPages is ceil(count/pageSize), at least 1.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

func ClampPage(page, totalPages int) int {
	return max(1, min(page, max(1, totalPages)))
}

const pageWindow = 2

// VisiblePages returns the page links around current: always the first and last
// page, current±2, and ellipses for the gaps ("1 … 4 5 [6] 7 8 … 20").
func VisiblePages(current, totalPages int) []PageLink {
	if totalPages <= 1 {
		return []PageLink{{Number: 1, Current: true}}
	}

	links := []PageLink{{Number: 1, Current: current == 1}}
	if current-pageWindow > 2 {
		links = append(links, PageLink{Ellipsis: true})
	}
	for i := max(2, current-pageWindow); i <= min(totalPages-1, current+pageWindow); i++ {
		links = append(links, PageLink{Number: i, Current: i == current})
	}
	if current+pageWindow < totalPages-1 {
		links = append(links, PageLink{Ellipsis: true})
	}
	links = append(links, PageLink{Number: totalPages, Current: current == totalPages})
	return links
}
