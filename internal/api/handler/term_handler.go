package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/service"
	"github.com/Chafic123/Attendance-Backend/pkg/response"
)

// TermHandler serves academic terms.
type TermHandler struct {
	termSvc service.TermService
}

// NewTermHandler creates a TermHandler.
func NewTermHandler(termSvc service.TermService) *TermHandler {
	return &TermHandler{termSvc: termSvc}
}

// ListTerms
// GET /api/v1/admin/terms
func (h *TermHandler) ListTerms(c *gin.Context) {
	terms, err := h.termSvc.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": terms})
}

// GetTerm
// GET /api/v1/admin/terms/:id
func (h *TermHandler) GetTerm(c *gin.Context) {
	term, err := h.termSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, term)
}

// GetActiveTerm returns the term containing today.
// GET /api/v1/terms/active
func (h *TermHandler) GetActiveTerm(c *gin.Context) {
	term, err := h.termSvc.GetActive(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, term)
}

// CreateTerm
// POST /api/v1/admin/terms
func (h *TermHandler) CreateTerm(c *gin.Context) {
	var req dto.CreateTermRequest
	if !bindJSON(c, &req) {
		return
	}

	term, err := h.termSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, term)
}

// UpdateTerm
// PUT /api/v1/admin/terms/:id
func (h *TermHandler) UpdateTerm(c *gin.Context) {
	var req dto.UpdateTermRequest
	if !bindJSON(c, &req) {
		return
	}

	term, err := h.termSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, term)
}

// DeleteTerm
// DELETE /api/v1/admin/terms/:id
func (h *TermHandler) DeleteTerm(c *gin.Context) {
	if err := h.termSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}
