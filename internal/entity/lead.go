package entity

// LeadStatus is the qualification state of a lead.
type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "new"
	LeadStatusContacted   LeadStatus = "contacted"
	LeadStatusQualified   LeadStatus = "qualified"
	LeadStatusUnqualified LeadStatus = "unqualified"
)

// LeadStatuses lists every status in display order.
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusUnqualified,
}

func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusUnqualified:
		return true
	default:
		return false
	}
}

const (
	MinLeadScore = 0
	MaxLeadScore = 100
)

type Lead struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Company   string     `json:"company"`
	Email     string     `json:"email"`
	Source    string     `json:"source"`
	Score     int        `json:"score"`
	Status    LeadStatus `json:"status"`
	CreatedAt string     `json:"createdAt"` // ISO-8601
}

// LeadPatch carries the editable fields of a lead. Empty fields are left untouched.
type LeadPatch struct {
	Email  string     `json:"email,omitempty"`
	Status LeadStatus `json:"status,omitempty"`
}

func (p LeadPatch) IsEmpty() bool {
	return p.Email == "" && p.Status == ""
}
