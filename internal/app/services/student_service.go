package services

import (
	"context"

	"github.com/sigescol/backend/internal/app/models"
	"github.com/sigescol/backend/internal/app/repositories"
	"github.com/sigescol/backend/internal/pkg/helpers"
)

// StudentService handles student queries for the admin endpoints
type StudentService struct {
	studentRepo repositories.IStudentRepository
}

// NewStudentService creates a new StudentService
func NewStudentService(studentRepo repositories.IStudentRepository) *StudentService {
	return &StudentService{studentRepo: studentRepo}
}

// List returns a page of students matching the search term, with the total
// row and page counts.
func (s *StudentService) List(ctx context.Context, search string, p helpers.Pagination) ([]*models.Student, int64, int, error) {
	students, total, err := s.studentRepo.List(ctx, search, p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, 0, err
	}
	return students, total, helpers.TotalPages(total, p.PerPage), nil
}

// GetByUsername returns a single student by username
func (s *StudentService) GetByUsername(ctx context.Context, username string) (*models.Student, error) {
	return s.studentRepo.GetByUsername(ctx, username)
}

// Count returns the total number of students
func (s *StudentService) Count(ctx context.Context) (int64, error) {
	return s.studentRepo.Count(ctx)
}
