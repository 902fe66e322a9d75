package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sigescol/backend/internal/app/models"
	"github.com/sigescol/backend/internal/app/models/dto"
	"github.com/sigescol/backend/internal/app/repositories"
	"github.com/sigescol/backend/internal/pkg/apperrors"
	"github.com/sigescol/backend/internal/pkg/auth"
	"github.com/sigescol/backend/internal/pkg/logger"
	"github.com/sigescol/backend/internal/pkg/validation"
)

// AuthService handles login, registration and logout
type AuthService struct {
	userRepo    repositories.IUserRepository
	studentRepo repositories.IStudentRepository
	tokenRepo   repositories.ITokenRepository
	jwtService  *auth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	studentRepo repositories.IStudentRepository,
	tokenRepo repositories.ITokenRepository,
	jwtService *auth.JWTService,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		tokenRepo:   tokenRepo,
		jwtService:  jwtService,
	}
}

// Login verifies credentials and the linked student's status, then issues a
// token. Non-admin accounts must be linked to an active student.
func (s *AuthService) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Credenciales inválidas")
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		logger.Warn().Str("username", username).Msg("Login failed: wrong password")
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Credenciales inválidas")
	}

	var student *models.Student
	if !user.IsAdmin {
		student, err = s.studentRepo.GetByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, apperrors.ErrStudentNotFound) {
				return nil, apperrors.NewCustomError(apperrors.ErrNotRegisteredStudent,
					"Acceso denegado. Su cuenta no está registrada como estudiante.")
			}
			return nil, err
		}
		if !student.IsActive() {
			logger.Warn().Str("username", username).Str("estado", string(student.Estado)).Msg("Login denied for inactive student")
			return nil, apperrors.NewCustomError(apperrors.ErrAccountNotActive,
				fmt.Sprintf("Acceso denegado. Su cuenta está %s. Contacte a administración.", student.Estado))
		}
	} else if user.StudentID != nil {
		if linked, err := s.studentRepo.GetByID(ctx, *user.StudentID); err == nil {
			student = linked
		}
	}

	token, _, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("userID", user.ID).Str("username", username).Msg("Login successful")

	return &dto.LoginResponse{
		Success:  true,
		Token:    token,
		UserID:   user.ID,
		Message:  "Login exitoso",
		UserData: buildUserData(user, student),
	}, nil
}

// buildUserData merges the user with their student profile, or synthesizes
// placeholder academic fields for accounts without one.
func buildUserData(user *models.User, student *models.Student) *dto.UserData {
	data := &dto.UserData{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
		Role:     "Estudiante",
	}
	if user.IsAdmin {
		data.Role = "Administrador"
	}

	if student != nil {
		data.Nombre = student.Nombre
		data.Apellido = student.Apellido
		data.Grado = student.Grado
		data.Seccion = student.Seccion
		data.Turno = student.Turno
		data.Especialidad = student.Especialidad
		data.Matricula = student.Matricula
		data.Estado = string(student.Estado)
		return data
	}

	data.Nombre = user.Username
	data.Apellido = ""
	data.Grado = "N/A"
	data.Seccion = "N/A"
	data.Turno = "N/A"
	data.Especialidad = "N/A"
	if user.IsAdmin {
		data.Matricula = fmt.Sprintf("ADM-%04d", user.ID)
	} else {
		data.Matricula = fmt.Sprintf("USR-%04d", user.ID)
	}
	data.Estado = string(models.EstadoActivo)
	return data
}

// Register creates an account for a student already present in the roster.
// The username and email must match an active, unlinked student exactly.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := validation.ValidatePasswordStrength(req.Password); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	usernameTaken, err := s.userRepo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	emailTaken, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if usernameTaken || emailTaken {
		return nil, apperrors.NewConflictError("El usuario o email ya existe")
	}

	student, err := s.studentRepo.GetByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, apperrors.ErrStudentNotFound) {
		return nil, err
	}
	if student == nil || student.Email != req.Email || !student.IsActive() {
		logger.Warn().Str("username", req.Username).Msg("Registration denied: no matching active student")
		return nil, apperrors.NewCustomError(apperrors.ErrRegistrationDenied,
			"No se puede registrar. Su usuario no está en la lista de estudiantes activos o el email no coincide.")
	}

	_, err = s.userRepo.GetByStudentID(ctx, student.ID)
	if err == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrRegistrationDenied,
			"Este estudiante ya tiene una cuenta de usuario asociada.")
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsAdmin:      false,
		StudentID:    &student.ID,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserAlreadyExists) {
			return nil, apperrors.NewConflictError("Error de integridad de datos (usuario o email duplicado).")
		}
		return nil, err
	}

	logger.Info().Int64("userID", userID).Str("username", req.Username).Msg("User registered and linked to student")

	return &dto.RegisterResponse{
		Success: true,
		Message: "Usuario creado exitosamente y vinculado a su perfil de estudiante.",
		UserID:  userID,
	}, nil
}

// Logout revokes the token so it can no longer be used
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperrors.ErrTokenInvalid
	}
	return s.tokenRepo.Revoke(ctx, claims.ID, claims.UserID, claims.ExpiresAt.Time)
}

// IsTokenRevoked reports whether a token ID has been revoked
func (s *AuthService) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return s.tokenRepo.IsRevoked(ctx, jti)
}

// GetUser returns basic account information for a user ID
func (s *AuthService) GetUser(ctx context.Context, userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
	}, nil
}
