package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-console/internal/entity"
	"github.com/xavierca1/lead-console/internal/infra/export"
	"github.com/xavierca1/lead-console/internal/usecase"
)

// multipart overhead allowed on top of the import size limit
const multipartSlack = 1 << 20

type LeadHandler struct {
	Leads   *usecase.LeadManager
	Convert *usecase.ConvertLeadUseCase
	Logger  *zap.Logger
}

func NewLeadHandler(leads *usecase.LeadManager, convert *usecase.ConvertLeadUseCase, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{Leads: leads, Convert: convert, Logger: logger}
}

// LeadListResponse is the console state as shown to a client.
type LeadListResponse struct {
	State             usecase.LeadState  `json:"state"`
	Error             string             `json:"error,omitempty"`
	Filters           entity.LeadFilters `json:"filters"`
	AppliedSearchTerm string             `json:"appliedSearchTerm"`
	View              usecase.ViewResult `json:"view"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
	LeadListResponse
}

// FiltersRequest is a partial filter update. Absent fields keep their value.
type FiltersRequest struct {
	SearchTerm   *string              `json:"searchTerm"`
	StatusFilter *entity.StatusFilter `json:"statusFilter"`
	SortBy       *entity.SortKey      `json:"sortBy"`
	SortOrder    *entity.SortOrder    `json:"sortOrder"`
	Page         *int                 `json:"page"`
	PageSize     *int                 `json:"pageSize"`
}

func (r FiltersRequest) validate() usecase.ValidationErrors {
	var errs usecase.ValidationErrors
	if r.StatusFilter != nil && !r.StatusFilter.IsValid() {
		errs = append(errs, usecase.ValidationError{Field: "statusFilter", Message: "must be all, new, contacted, qualified or unqualified"})
	}
	if r.SortBy != nil && !r.SortBy.IsValid() {
		errs = append(errs, usecase.ValidationError{Field: "sortBy", Message: "must be score, name, company or createdAt"})
	}
	if r.SortOrder != nil && !r.SortOrder.IsValid() {
		errs = append(errs, usecase.ValidationError{Field: "sortOrder", Message: "must be asc or desc"})
	}
	if r.PageSize != nil && !entity.IsAllowedPageSize(*r.PageSize) {
		errs = append(errs, usecase.ValidationError{Field: "pageSize", Message: fmt.Sprintf("must be one of %v", entity.PageSizes)})
	}
	return errs
}

type ConvertRequest struct {
	Amount *float64 `json:"amount"`
}

func (h *LeadHandler) state() LeadListResponse {
	return LeadListResponse{
		State:             h.Leads.State(),
		Error:             h.Leads.LastError(),
		Filters:           h.Leads.Filters(),
		AppliedSearchTerm: h.Leads.AppliedSearchTerm(),
		View:              h.Leads.View(),
	}
}

// Import handles POST /leads/import with the file in the multipart field "file".
func (h *LeadHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, usecase.MaxImportSize+multipartSlack)

	file, header, err := r.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			ferr := &usecase.FileSizeError{Size: mbe.Limit, Limit: usecase.MaxImportSize}
			h.Leads.RejectImport(r.Context(), ferr)
			writeUsecaseError(w, ferr)
			return
		}
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FILE", "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	n, err := h.Leads.Import(r.Context(), usecase.ImportFile{
		Name:    header.Filename,
		Size:    header.Size,
		Content: file,
	})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ImportResponse{Imported: n, LeadListResponse: h.state()})
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state())
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.Leads.Get(chi.URLParam(r, "id"))
	if !ok {
		writeUsecaseError(w, usecase.ErrLeadNotFound)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.LeadPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return
	}

	lead, err := h.Leads.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.Leads.Clear(r.Context())
	writeJSON(w, http.StatusOK, h.state())
}

// UpdateFilters handles PUT /leads/filters. The search term is debounced unless the
// request carries ?immediate=true.
func (h *LeadHandler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	var req FiltersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeUsecaseError(w, errs)
		return
	}

	if req.StatusFilter != nil {
		h.Leads.SetStatusFilter(*req.StatusFilter)
	}
	if req.SortBy != nil {
		h.Leads.SetSortBy(*req.SortBy)
	}
	if req.SortOrder != nil {
		h.Leads.SetSortOrder(*req.SortOrder)
	}
	if req.PageSize != nil {
		h.Leads.SetPageSize(*req.PageSize)
	}
	if req.Page != nil {
		h.Leads.SetPage(*req.Page)
	}
	if req.SearchTerm != nil {
		h.Leads.SetSearchTerm(*req.SearchTerm)
		if r.URL.Query().Get("immediate") == "true" {
			h.Leads.FlushSearch()
		}
	}

	writeJSON(w, http.StatusOK, h.state())
}

func (h *LeadHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	h.Leads.ClearFilters()
	writeJSON(w, http.StatusOK, h.state())
}

// Page handles POST /leads/page/{direction}.
func (h *LeadHandler) Page(w http.ResponseWriter, r *http.Request) {
	switch dir := chi.URLParam(r, "direction"); dir {
	case "first":
		h.Leads.FirstPage()
	case "prev":
		h.Leads.PrevPage()
	case "next":
		h.Leads.NextPage()
	case "last":
		h.Leads.LastPage()
	default:
		writeUsecaseError(w, usecase.ValidationError{Field: "direction", Message: "must be first, prev, next or last"})
		return
	}
	writeJSON(w, http.StatusOK, h.state())
}

func (h *LeadHandler) ConvertLead(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return
	}

	out, err := h.Convert.Execute(r.Context(), usecase.ConvertLeadInput{
		LeadID: chi.URLParam(r, "id"),
		Amount: req.Amount,
	})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// Export handles GET /leads/export?format=csv|xlsx. It writes every lead matching the
// current filters in view order, not only the visible page.
func (h *LeadHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = usecase.FormatCSV
	}

	leads := h.Leads.View().All
	var (
		buf         bytes.Buffer
		err         error
		contentType string
	)
	switch format {
	case usecase.FormatCSV:
		contentType = "text/csv"
		err = export.WriteCSV(&buf, leads)
	case usecase.FormatXLSX:
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = export.WriteXLSX(&buf, leads)
	default:
		writeUsecaseError(w, usecase.ValidationError{Field: "format", Message: "must be csv or xlsx"})
		return
	}
	if err != nil {
		h.Logger.Error("Lead export failed", zap.String("format", format), zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, "EXPORT_FAILED", "failed to export leads")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "leads."+format))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
