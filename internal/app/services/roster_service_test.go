package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sigescol/backend/internal/app/models"
	"github.com/sigescol/backend/internal/app/repositories"
	"github.com/sigescol/backend/internal/pkg/apperrors"
	"github.com/xuri/excelize/v2"
)

// fakeRoster is an in-memory stand-in for the roster repository. It acts as
// both the repository and the batch; Sync just runs the callback against
// itself.
type fakeRoster struct {
	students      []*models.Student
	users         []*models.User
	nextStudentID int64
	nextUserID    int64
}

func (f *fakeRoster) Sync(ctx context.Context, fn func(ctx context.Context, batch repositories.RosterBatch) error) error {
	return fn(ctx, f)
}

func (f *fakeRoster) AllStudents(ctx context.Context) ([]*models.Student, error) {
	return f.students, nil
}

func (f *fakeRoster) AllUsers(ctx context.Context) ([]*models.User, error) {
	return f.users, nil
}

func (f *fakeRoster) InsertStudent(ctx context.Context, student *models.Student) error {
	for _, existing := range f.students {
		if existing.DNI == student.DNI || existing.Username == student.Username ||
			existing.Email == student.Email || existing.Matricula == student.Matricula {
			return apperrors.ErrDuplicateStudentField
		}
	}
	f.nextStudentID++
	student.ID = f.nextStudentID
	f.students = append(f.students, student)
	return nil
}

func (f *fakeRoster) UpdateStudent(ctx context.Context, student *models.Student) error {
	for _, existing := range f.students {
		if existing.ID == student.ID {
			continue
		}
		if existing.DNI == student.DNI || existing.Username == student.Username ||
			existing.Email == student.Email || existing.Matricula == student.Matricula {
			return apperrors.ErrDuplicateStudentField
		}
	}
	for i, existing := range f.students {
		if existing.ID == student.ID {
			f.students[i] = student
			return nil
		}
	}
	return apperrors.ErrStudentNotFound
}

func (f *fakeRoster) InsertUser(ctx context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperrors.ErrUserAlreadyExists
		}
	}
	f.nextUserID++
	user.ID = f.nextUserID
	f.users = append(f.users, user)
	return nil
}

func (f *fakeRoster) LinkUser(ctx context.Context, userID, studentID int64) error {
	for _, user := range f.users {
		if user.ID == userID {
			user.StudentID = &studentID
			return nil
		}
	}
	return apperrors.ErrUserNotFound
}

func (f *fakeRoster) DeactivateMissing(ctx context.Context, seenUsernames []string) (int64, error) {
	seen := make(map[string]struct{}, len(seenUsernames))
	for _, username := range seenUsernames {
		seen[username] = struct{}{}
	}

	var count int64
	for _, student := range f.students {
		if student.Estado != models.EstadoActivo {
			continue
		}
		if _, ok := seen[student.Username]; !ok {
			student.Estado = models.EstadoInactivo
			count++
		}
	}
	return count, nil
}

func newTestRosterService(store *fakeRoster) *RosterService {
	svc := NewRosterService(store)
	svc.generatePassword = func() (string, error) { return "Segura#2847", nil }
	svc.hashPassword = func(p string) (string, error) { return "hashed:" + p, nil }
	return svc
}

var rosterHeader = []string{"dni", "nombre", "apellido", "username", "email", "grado", "seccion", "turno", "matricula", "especialidad", "estado"}

func rosterRowValues(dni, nombre, apellido, username, email, grado, seccion, turno, matricula string) []string {
	return []string{dni, nombre, apellido, username, email, grado, seccion, turno, matricula, "", ""}
}

func buildRosterWorkbook(t *testing.T, rows ...[]string) io.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	all := append([][]string{rosterHeader}, rows...)
	for i, row := range all {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue("Sheet1", name, cell); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return &buf
}

func TestSyncRejectsMissingColumns(t *testing.T) {
	svc := newTestRosterService(&fakeRoster{})

	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "dni")
	f.SetCellValue("Sheet1", "B1", "nombre")
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	_, err := svc.SyncFromSpreadsheet(context.Background(), &buf)
	if !errors.Is(err, apperrors.ErrMissingColumns) {
		t.Fatalf("error = %v, want ErrMissingColumns", err)
	}
}

func TestSyncRejectsGarbageFile(t *testing.T) {
	svc := newTestRosterService(&fakeRoster{})

	_, err := svc.SyncFromSpreadsheet(context.Background(), bytes.NewReader([]byte("not a workbook")))
	if !errors.Is(err, apperrors.ErrUnreadableFile) {
		t.Fatalf("error = %v, want ErrUnreadableFile", err)
	}
}

func TestSyncCreatesStudentsAndUsers(t *testing.T) {
	store := &fakeRoster{}
	svc := newTestRosterService(store)

	file := buildRosterWorkbook(t,
		rosterRowValues("12345678", "Juan", "Pérez", "jperez", "jperez@colegio.edu.pe", "3", "A", "Mañana", "MAT2024001"),
		rosterRowValues("87654321", "Ana", "García", "agarcia", "agarcia@colegio.edu.pe", "4", "B", "Tarde", "MAT2024002"),
	)

	report, err := svc.SyncFromSpreadsheet(context.Background(), file)
	if err != nil {
		t.Fatalf("SyncFromSpreadsheet: %v", err)
	}

	if report.SuccessCount != 2 || report.ErrorCount != 0 || report.DeactivatedCount != 0 {
		t.Errorf("report = %+v, want 2 successes, 0 errors, 0 deactivated", report)
	}
	if len(store.students) != 2 {
		t.Fatalf("students = %d, want 2", len(store.students))
	}
	if len(store.users) != 2 {
		t.Fatalf("users = %d, want 2", len(store.users))
	}

	for _, user := range store.users {
		if user.IsAdmin {
			t.Errorf("roster user %s created as admin", user.Username)
		}
		if user.StudentID == nil {
			t.Errorf("roster user %s not linked to a student", user.Username)
		}
		if user.PasswordHash != "hashed:Segura#2847" {
			t.Errorf("roster user %s has unexpected password hash", user.Username)
		}
	}

	if store.students[0].Estado != models.EstadoActivo {
		t.Errorf("estado = %s, want Activo default", store.students[0].Estado)
	}
}

func TestSyncReportsEmptyRequiredCell(t *testing.T) {
	store := &fakeRoster{}
	svc := newTestRosterService(store)

	file := buildRosterWorkbook(t,
		rosterRowValues("12345678", "Juan", "Pérez", "jperez", "jperez@colegio.edu.pe", "3", "A", "Mañana", "MAT2024001"),
		rosterRowValues("", "Ana", "García", "agarcia", "agarcia@colegio.edu.pe", "4", "B", "Tarde", "MAT2024002"),
	)

	report, err := svc.SyncFromSpreadsheet(context.Background(), file)
	if err != nil {
		t.Fatalf("SyncFromSpreadsheet: %v", err)
	}

	if report.SuccessCount != 1 || report.ErrorCount != 1 {
		t.Fatalf("report = %+v, want 1 success and 1 error", report)
	}
	want := "Fila 3: Columna 'dni' vacía."
	if len(report.Errors) != 1 || report.Errors[0] != want {
		t.Errorf("errors = %v, want [%q]", report.Errors, want)
	}
	if len(store.students) != 1 {
		t.Errorf("students = %d, want 1, invalid row must be skipped", len(store.students))
	}
}

func TestSyncRowFormatErrors(t *testing.T) {
	svc := newTestRosterService(&fakeRoster{})

	file := buildRosterWorkbook(t,
		rosterRowValues("12a45678", "Juan", "Pérez", "jperez", "jperez-sin-arroba", "3", "A", "Mañana", "MAT-2024"),
	)

	report, err := svc.SyncFromSpreadsheet(context.Background(), file)
	if err != nil {
		t.Fatalf("SyncFromSpreadsheet: %v", err)
	}

	if report.ErrorCount != 1 {
		t.Fatalf("error count = %d, want 1", report.ErrorCount)
	}
	want := "Fila 2: Formato de email inválido.; DNI debe contener solo dígitos.; Matrícula debe ser alfanumérica."
	if report.Errors[0] != want {
		t.Errorf("error = %q, want %q", report.Errors[0], want)
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	store := &fakeRoster{}
	svc := newTestRosterService(store)

	rows := []([]string){
		rosterRowValues("12345678", "Juan", "Pérez", "jperez", "jperez@colegio.edu.pe", "3", "A", "Mañana", "MAT2024001"),
		rosterRowValues("87654321", "Ana", "García", "agarcia", "agarcia@colegio.edu.pe", "4", "B", "Tarde", "MAT2024002"),
	}

	if _, err := svc.SyncFromSpreadsheet(context.Background(), buildRosterWorkbook(t, rows...)); err != nil {
		t.Fatalf("first sync: %v", err)
	}

	report, err := svc.SyncFromSpreadsheet(context.Background(), buildRosterWorkbook(t, rows...))
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}

	if report.SuccessCount != 2 || report.ErrorCount != 0 || report.DeactivatedCount != 0 {
		t.Errorf("second report = %+v, want 2 successes and nothing else", report)
	}
	if len(store.students) != 2 {
		t.Errorf("students = %d after re-upload, want 2", len(store.students))
	}
	if len(store.users) != 2 {
		t.Errorf("users = %d after re-upload, want 2", len(store.users))
	}
	for _, student := range store.students {
		if student.Estado != models.EstadoActivo {
			t.Errorf("student %s deactivated by identical re-upload", student.Username)
		}
	}
}

func TestSyncDeactivatesMissingStudents(t *testing.T) {
	oldStudentID := int64(1)
	store := &fakeRoster{
		students: []*models.Student{{
			ID: oldStudentID, DNI: "11111111", Nombre: "Luis", Apellido: "Rojas",
			Username: "lrojas", Email: "lrojas@colegio.edu.pe",
			Grado: "5", Seccion: "C", Turno: "Noche",
			Matricula: "MAT2023009", Estado: models.EstadoActivo,
		}},
		users: []*models.User{{
			ID: 1, Username: "lrojas", Email: "lrojas@colegio.edu.pe",
			PasswordHash: "x", StudentID: &oldStudentID,
		}},
		nextStudentID: 1,
		nextUserID:    1,
	}
	svc := newTestRosterService(store)

	file := buildRosterWorkbook(t,
		rosterRowValues("12345678", "Juan", "Pérez", "jperez", "jperez@colegio.edu.pe", "3", "A", "Mañana", "MAT2024001"),
	)

	report, err := svc.SyncFromSpreadsheet(context.Background(), file)
	if err != nil {
		t.Fatalf("SyncFromSpreadsheet: %v", err)
	}

	if report.DeactivatedCount != 1 {
		t.Errorf("deactivated = %d, want 1", report.DeactivatedCount)
	}
	if store.students[0].Estado != models.EstadoInactivo {
		t.Errorf("absent student estado = %s, want Inactivo", store.students[0].Estado)
	}
	// The linked account stays
	if len(store.users) != 2 {
		t.Errorf("users = %d, want 2, deactivation must not delete accounts", len(store.users))
	}
}

func TestSyncLinksExistingUnlinkedUser(t *testing.T) {
	store := &fakeRoster{
		users: []*models.User{{
			ID: 1, Username: "jperez", Email: "jperez@colegio.edu.pe", PasswordHash: "x",
		}},
		nextUserID: 1,
	}
	svc := newTestRosterService(store)

	file := buildRosterWorkbook(t,
		rosterRowValues("12345678", "Juan", "Pérez", "jperez", "jperez@colegio.edu.pe", "3", "A", "Mañana", "MAT2024001"),
	)

	if _, err := svc.SyncFromSpreadsheet(context.Background(), file); err != nil {
		t.Fatalf("SyncFromSpreadsheet: %v", err)
	}

	if len(store.users) != 1 {
		t.Fatalf("users = %d, want 1, existing account must be reused", len(store.users))
	}
	if store.users[0].StudentID == nil || *store.users[0].StudentID != store.students[0].ID {
		t.Errorf("existing user not linked to the new student")
	}
}

func TestSyncReportsDuplicateRows(t *testing.T) {
	store := &fakeRoster{}
	svc := newTestRosterService(store)

	// Same DNI on both rows; the second insert violates uniqueness
	file := buildRosterWorkbook(t,
		rosterRowValues("12345678", "Juan", "Pérez", "jperez", "jperez@colegio.edu.pe", "3", "A", "Mañana", "MAT2024001"),
		rosterRowValues("12345678", "Ana", "García", "agarcia", "agarcia@colegio.edu.pe", "4", "B", "Tarde", "MAT2024002"),
	)

	report, err := svc.SyncFromSpreadsheet(context.Background(), file)
	if err != nil {
		t.Fatalf("SyncFromSpreadsheet: %v", err)
	}

	if report.SuccessCount != 1 || report.ErrorCount != 1 {
		t.Fatalf("report = %+v, want 1 success and 1 error", report)
	}
	want := fmt.Sprintf("Fila 3 (%s): Error de integridad de datos (DNI, Username, Email o Matrícula duplicados).", "agarcia")
	if report.Errors[0] != want {
		t.Errorf("error = %q, want %q", report.Errors[0], want)
	}
}

func TestSyncReportMessage(t *testing.T) {
	store := &fakeRoster{}
	svc := newTestRosterService(store)

	file := buildRosterWorkbook(t,
		rosterRowValues("12345678", "Juan", "Pérez", "jperez", "jperez@colegio.edu.pe", "3", "A", "Mañana", "MAT2024001"),
	)

	report, err := svc.SyncFromSpreadsheet(context.Background(), file)
	if err != nil {
		t.Fatalf("SyncFromSpreadsheet: %v", err)
	}

	want := "Procesamiento completado. Estudiantes actualizados/creados: 1, Desactivados: 0, Errores: 0"
	if report.Message != want {
		t.Errorf("message = %q, want %q", report.Message, want)
	}
	if !report.Success {
		t.Error("report not marked successful")
	}
}
