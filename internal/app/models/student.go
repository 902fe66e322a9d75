package models

import "time"

// Estado represents a student's enrollment status
type Estado string

const (
	EstadoActivo     Estado = "Activo"
	EstadoInactivo   Estado = "Inactivo"
	EstadoSuspendido Estado = "Suspendido"
)

// Student defines the roster record based on the 'students' table.
// Field names follow the roster spreadsheet columns.
type Student struct {
	ID           int64     `json:"id" db:"id"`
	DNI          string    `json:"dni" db:"dni"`                     // National identity number, unique
	Nombre       string    `json:"nombre" db:"nombre"`               // First name
	Apellido     string    `json:"apellido" db:"apellido"`           // Last name
	Username     string    `json:"username" db:"username"`           // Unique
	Email        string    `json:"email" db:"email"`                 // Unique
	Grado        string    `json:"grado" db:"grado"`                 // Grade, 1-6
	Seccion      string    `json:"seccion" db:"seccion"`             // Section letter
	Turno        string    `json:"turno" db:"turno"`                 // Mañana, Tarde or Noche
	Especialidad string    `json:"especialidad" db:"especialidad"`   // Optional specialization
	Matricula    string    `json:"matricula" db:"matricula"`         // Enrollment code, unique
	Estado       Estado    `json:"estado" db:"estado"`               // Activo, Inactivo or Suspendido
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// IsActive reports whether the student may log in and register an account.
func (s *Student) IsActive() bool {
	return s.Estado == EstadoActivo
}
