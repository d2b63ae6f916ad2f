package dto

// ── terms ──

// CreateTermRequest creates a term. Dates are YYYY-MM-DD.
type CreateTermRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=100"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   binding:"required,datetime=2006-01-02"`
}

// UpdateTermRequest patches a term.
type UpdateTermRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=2,max=100"`
	StartDate *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date"   binding:"omitempty,datetime=2006-01-02"`
}

// TermResponse is a term.
type TermResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsActive  bool   `json:"is_active"`
}
