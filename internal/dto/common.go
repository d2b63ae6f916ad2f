package dto

// ── pagination ──

// DefaultPageSize applies when page_size is omitted.
const DefaultPageSize = 50

// PaginationRequest is the common paging query.
type PaginationRequest struct {
	Page     int    `form:"page"      binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"    binding:"omitempty,max=100"`
}

// GetPage returns the page, defaulting to 1.
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize returns the page size, defaulting to DefaultPageSize.
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	return p.PageSize
}

// GetOffset returns the row offset of the page.
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// ── shared responses ──

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// DepartmentResponse is a department reference.
type DepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ImportResult summarizes a spreadsheet import.
type ImportResult struct {
	Total   int           `json:"total"`
	Success int           `json:"success"`
	Failed  int           `json:"failed"`
	Errors  []ImportError `json:"errors,omitempty"`
}

// ImportError is one rejected spreadsheet row.
type ImportError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
