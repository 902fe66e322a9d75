package dto

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Success  bool      `json:"success" example:"true"`
	Token    string    `json:"token"`
	UserID   int64     `json:"user_id" example:"1"`
	Message  string    `json:"message" example:"Login exitoso"`
	UserData *UserData `json:"user_data"`
}

// UserData is the denormalized profile returned on login: user identity merged
// with the linked student's academic fields, or synthesized placeholders for
// accounts without a student profile.
type UserData struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"is_admin"`
	Role         string `json:"role" example:"Estudiante"`
	Nombre       string `json:"nombre"`
	Apellido     string `json:"apellido"`
	Grado        string `json:"grado"`
	Seccion      string `json:"seccion"`
	Turno        string `json:"turno"`
	Especialidad string `json:"especialidad"`
	Matricula    string `json:"matricula" example:"USR-0001"`
	Estado       string `json:"estado" example:"Activo"`
}

// RegisterRequest represents a self-service registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// RegisterResponse represents a successful registration
type RegisterResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Usuario creado exitosamente"`
	UserID  int64  `json:"user_id" example:"12"`
}

// UserResponse represents basic authenticated-user information
type UserResponse struct {
	Success bool      `json:"success" example:"true"`
	Message string    `json:"message,omitempty"`
	User    *UserInfo `json:"user"`
}

// UserInfo carries the identity fields exposed on /api/user and /api/protected
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}
