package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/sigescol/backend/internal/app/models"
	"github.com/sigescol/backend/internal/app/models/dto"
	"github.com/sigescol/backend/internal/app/repositories"
	"github.com/sigescol/backend/internal/pkg/apperrors"
	"github.com/sigescol/backend/internal/pkg/auth"
	"github.com/sigescol/backend/internal/pkg/logger"
	"github.com/sigescol/backend/internal/pkg/spreadsheet"
)

// RequiredRosterColumns are the spreadsheet columns every upload must carry.
// especialidad and estado are optional; estado defaults to Activo.
var RequiredRosterColumns = []string{
	"dni", "nombre", "apellido", "username", "email",
	"grado", "seccion", "turno", "matricula",
}

// RosterService reconciles the student roster from an uploaded spreadsheet.
// The whole upload runs in one transaction; row-level failures are collected
// and reported without aborting the batch.
type RosterService struct {
	rosterRepo repositories.IRosterRepository

	// Injectable for tests; bcrypt at cost 12 per generated account is too
	// slow for table-driven runs.
	generatePassword func() (string, error)
	hashPassword     func(string) (string, error)
}

// NewRosterService creates a new RosterService
func NewRosterService(rosterRepo repositories.IRosterRepository) *RosterService {
	return &RosterService{
		rosterRepo:       rosterRepo,
		generatePassword: auth.GenerateStrongPassword,
		hashPassword:     auth.HashPassword,
	}
}

// rosterRow is a validated spreadsheet row
type rosterRow struct {
	data map[string]string
}

// SyncFromSpreadsheet parses the workbook and reconciles students and users
// against it. Students active in the database but absent from the file are
// marked Inactivo.
func (s *RosterService) SyncFromSpreadsheet(ctx context.Context, r io.Reader) (*dto.RosterReport, error) {
	sheet, err := spreadsheet.Read(r)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read roster workbook")
		return nil, apperrors.NewCustomError(apperrors.ErrUnreadableFile,
			"Error al leer el archivo Excel. Asegúrate de que sea un formato válido.")
	}

	if missing := sheet.MissingColumns(RequiredRosterColumns); len(missing) > 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrMissingColumns,
			fmt.Sprintf("Faltan columnas requeridas en el archivo: %s", strings.Join(missing, ", ")))
	}

	report := &dto.RosterReport{Success: true}

	err = s.rosterRepo.Sync(ctx, func(ctx context.Context, batch repositories.RosterBatch) error {
		return s.reconcile(ctx, batch, sheet, report)
	})
	if err != nil {
		return nil, err
	}

	report.Message = fmt.Sprintf(
		"Procesamiento completado. Estudiantes actualizados/creados: %d, Desactivados: %d, Errores: %d",
		report.SuccessCount, report.DeactivatedCount, report.ErrorCount)

	logger.Info().
		Int("success", report.SuccessCount).
		Int("errors", report.ErrorCount).
		Int("deactivated", report.DeactivatedCount).
		Msg("Roster sync completed")

	return report, nil
}

func (s *RosterService) reconcile(ctx context.Context, batch repositories.RosterBatch, sheet *spreadsheet.Sheet, report *dto.RosterReport) error {
	students, err := batch.AllStudents(ctx)
	if err != nil {
		return err
	}
	users, err := batch.AllUsers(ctx)
	if err != nil {
		return err
	}

	// Lookup maps keyed by every unique field; first hit wins on resolve
	studentIndex := make(map[string]*models.Student, len(students)*4)
	for _, st := range students {
		for _, key := range []string{st.DNI, st.Username, st.Email, st.Matricula} {
			if key != "" {
				if _, ok := studentIndex[key]; !ok {
					studentIndex[key] = st
				}
			}
		}
	}

	userIndex := make(map[string]*models.User, len(users)*2)
	for _, u := range users {
		for _, key := range []string{u.Username, u.Email} {
			if key != "" {
				if _, ok := userIndex[key]; !ok {
					userIndex[key] = u
				}
			}
		}
	}

	seen := make(map[string]struct{}, len(sheet.Rows))
	var pendingUsers []*models.User
	type link struct{ userID, studentID int64 }
	var pendingLinks []link

	for i, raw := range sheet.Rows {
		// Header is row 1, so the first data row reports as Fila 2
		rowNum := i + 2

		row, errMsg := validateRosterRow(raw, rowNum)
		if errMsg != "" {
			report.ErrorCount++
			report.Errors = append(report.Errors, errMsg)
			logger.Warn().Str("error", errMsg).Msg("Roster row rejected")
			continue
		}

		username := row.data["username"]
		seen[username] = struct{}{}

		studentID, err := s.applyStudentRow(ctx, batch, row, studentIndex)
		if err != nil {
			report.ErrorCount++
			if errors.Is(err, apperrors.ErrDuplicateStudentField) {
				report.Errors = append(report.Errors,
					fmt.Sprintf("Fila %d (%s): Error de integridad de datos (DNI, Username, Email o Matrícula duplicados).", rowNum, username))
			} else {
				report.Errors = append(report.Errors,
					fmt.Sprintf("Fila %d (%s): Error inesperado al procesar.", rowNum, username))
			}
			logger.Error().Err(err).Int("row", rowNum).Str("username", username).Msg("Roster row failed")
			continue
		}

		// Resolve the account: link if unlinked, create if absent
		existing := userIndex[username]
		if existing == nil {
			existing = userIndex[row.data["email"]]
		}
		if existing != nil {
			if existing.StudentID == nil {
				pendingLinks = append(pendingLinks, link{userID: existing.ID, studentID: studentID})
				existing.StudentID = &studentID
			}
		} else {
			user, err := s.buildRosterUser(username, row.data["email"], studentID)
			if err != nil {
				return err
			}
			pendingUsers = append(pendingUsers, user)
			userIndex[username] = user
			userIndex[user.Email] = user
		}

		report.SuccessCount++
	}

	for _, user := range pendingUsers {
		if err := batch.InsertUser(ctx, user); err != nil {
			report.ErrorCount++
			report.Errors = append(report.Errors,
				fmt.Sprintf("Error al crear usuario '%s': usuario o email duplicado.", user.Username))
			logger.Error().Err(err).Str("username", user.Username).Msg("Failed to insert roster user")
		}
	}
	for _, l := range pendingLinks {
		if err := batch.LinkUser(ctx, l.userID, l.studentID); err != nil {
			report.ErrorCount++
			report.Errors = append(report.Errors,
				fmt.Sprintf("Error al vincular usuario con estudiante %d.", l.studentID))
			logger.Error().Err(err).Int64("studentID", l.studentID).Msg("Failed to link roster user")
		}
	}

	seenList := make([]string, 0, len(seen))
	for username := range seen {
		seenList = append(seenList, username)
	}
	deactivated, err := batch.DeactivateMissing(ctx, seenList)
	if err != nil {
		report.ErrorCount++
		report.Errors = append(report.Errors, fmt.Sprintf("Error al desactivar estudiantes: %v", err))
	} else {
		report.DeactivatedCount = int(deactivated)
	}

	return nil
}

// applyStudentRow updates the matching student in place or inserts a new one,
// returning the student ID.
func (s *RosterService) applyStudentRow(ctx context.Context, batch repositories.RosterBatch, row *rosterRow, studentIndex map[string]*models.Student) (int64, error) {
	data := row.data

	var existing *models.Student
	for _, key := range []string{data["dni"], data["username"], data["email"], data["matricula"]} {
		if st, ok := studentIndex[key]; ok {
			existing = st
			break
		}
	}

	student := &models.Student{
		DNI:          data["dni"],
		Nombre:       data["nombre"],
		Apellido:     data["apellido"],
		Username:     data["username"],
		Email:        data["email"],
		Grado:        data["grado"],
		Seccion:      data["seccion"],
		Turno:        data["turno"],
		Especialidad: data["especialidad"],
		Matricula:    data["matricula"],
		Estado:       models.Estado(data["estado"]),
	}

	if existing != nil {
		student.ID = existing.ID
		if err := batch.UpdateStudent(ctx, student); err != nil {
			return 0, err
		}
		logger.Debug().Str("username", student.Username).Int64("studentID", student.ID).Msg("Student updated from roster")
		return student.ID, nil
	}

	if err := batch.InsertStudent(ctx, student); err != nil {
		return 0, err
	}
	logger.Debug().Str("username", student.Username).Int64("studentID", student.ID).Msg("Student created from roster")
	return student.ID, nil
}

// buildRosterUser creates a non-admin account with a generated default
// password for a student that has none.
func (s *RosterService) buildRosterUser(username, email string, studentID int64) (*models.User, error) {
	password, err := s.generatePassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate default password: %w", err)
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash default password: %w", err)
	}
	return &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      false,
		StudentID:    &studentID,
	}, nil
}

// validateRosterRow checks required cells and field formats. It returns the
// validated row or a row-scoped error message in Spanish.
func validateRosterRow(raw map[string]string, rowNum int) (*rosterRow, string) {
	var errs []string
	data := make(map[string]string, len(raw))

	for _, col := range RequiredRosterColumns {
		value := strings.TrimSpace(raw[col])
		if value == "" {
			errs = append(errs, fmt.Sprintf("Columna '%s' vacía.", col))
		}
		data[col] = value
	}

	if data["email"] != "" && !strings.Contains(data["email"], "@") {
		errs = append(errs, "Formato de email inválido.")
	}
	if data["dni"] != "" && !isDigits(data["dni"]) {
		errs = append(errs, "DNI debe contener solo dígitos.")
	}
	if data["matricula"] != "" && !isAlphanumeric(data["matricula"]) {
		errs = append(errs, "Matrícula debe ser alfanumérica.")
	}

	data["especialidad"] = strings.TrimSpace(raw["especialidad"])
	data["estado"] = strings.TrimSpace(raw["estado"])
	if data["estado"] == "" {
		data["estado"] = string(models.EstadoActivo)
	}

	if len(errs) > 0 {
		return nil, fmt.Sprintf("Fila %d: %s", rowNum, strings.Join(errs, "; "))
	}
	return &rosterRow{data: data}, ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
