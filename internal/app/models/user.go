package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           int64     `json:"id" db:"id" example:"1"`                                  // Unique identifier for the user
	Username     string    `json:"username" db:"username" example:"jperez"`                 // Login name, unique
	Email        string    `json:"email" db:"email" example:"jperez@colegio.edu.pe"`        // User's email address, unique
	PasswordHash string    `json:"-" db:"password_hash"`                                    // Hashed password (excluded from JSON)
	IsAdmin      bool      `json:"is_admin" db:"is_admin" example:"false"`                  // Whether the user has the admin role
	StudentID    *int64    `json:"student_id,omitempty" db:"student_id" example:"7"`        // Linked student record (nullable, unique)
	CreatedAt    time.Time `json:"created_at" db:"created_at" example:"2024-01-01T10:00:00Z"`
}

// IsLinked reports whether the user owns a link to a student record.
func (u *User) IsLinked() bool {
	return u.StudentID != nil
}
