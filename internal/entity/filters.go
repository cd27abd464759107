package entity

// StatusFilter is a LeadStatus or "all".
type StatusFilter string

const StatusFilterAll StatusFilter = "all"

func (f StatusFilter) IsValid() bool {
	return f == StatusFilterAll || LeadStatus(f).IsValid()
}

type SortKey string

const (
	SortByScore     SortKey = "score"
	SortByName      SortKey = "name"
	SortByCompany   SortKey = "company"
	SortByCreatedAt SortKey = "createdAt"
)

func (k SortKey) IsValid() bool {
	switch k {
	case SortByScore, SortByName, SortByCompany, SortByCreatedAt:
		return true
	default:
		return false
	}
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

// PageSizes are the page sizes offered by the console.
var PageSizes = []int{10, 20, 50, 100}

func IsAllowedPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

const DefaultPageSize = 100

// LeadFilters is the filter/sort/pagination configuration of the lead list.
type LeadFilters struct {
	SearchTerm   string       `json:"searchTerm"`
	StatusFilter StatusFilter `json:"statusFilter"`
	SortBy       SortKey      `json:"sortBy"`
	SortOrder    SortOrder    `json:"sortOrder"`
	Page         int          `json:"page"`
	PageSize     int          `json:"pageSize"`
}

func DefaultLeadFilters() LeadFilters {
	return LeadFilters{
		SearchTerm:   "",
		StatusFilter: StatusFilterAll,
		SortBy:       SortByScore,
		SortOrder:    SortDesc,
		Page:         1,
		PageSize:     DefaultPageSize,
	}
}

// Normalize replaces invalid values with their defaults. Persisted filters from
// an older or hand-edited store go through here before use.
func (f LeadFilters) Normalize() LeadFilters {
	def := DefaultLeadFilters()
	if !f.StatusFilter.IsValid() {
		f.StatusFilter = def.StatusFilter
	}
	if !f.SortBy.IsValid() {
		f.SortBy = def.SortBy
	}
	if !f.SortOrder.IsValid() {
		f.SortOrder = def.SortOrder
	}
	if f.PageSize <= 0 {
		f.PageSize = def.PageSize
	}
	if f.Page < 1 {
		f.Page = 1
	}
	return f
}
