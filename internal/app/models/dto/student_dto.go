package dto

import "github.com/sigescol/backend/internal/app/models"

// StudentListResponse is the paginated roster listing body
type StudentListResponse struct {
	Success     bool              `json:"success" example:"true"`
	Students    []*models.Student `json:"students"`
	Total       int64             `json:"total" example:"128"`
	Pages       int               `json:"pages" example:"13"`
	CurrentPage int               `json:"current_page" example:"1"`
}

// StudentResponse wraps a single roster record
type StudentResponse struct {
	Success bool            `json:"success" example:"true"`
	Student *models.Student `json:"student"`
}

// StudentCountResponse carries the roster size
type StudentCountResponse struct {
	Success       bool  `json:"success" example:"true"`
	TotalStudents int64 `json:"total_students" example:"128"`
}
