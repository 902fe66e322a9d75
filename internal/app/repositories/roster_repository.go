package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sigescol/backend/internal/app/models"
	"github.com/sigescol/backend/internal/db"
	"github.com/sigescol/backend/internal/pkg/apperrors"
	"github.com/sigescol/backend/internal/pkg/dberrors"
	"github.com/sigescol/backend/internal/pkg/logger"
)

// RosterBatch exposes the operations available inside a roster sync
// transaction. Mutating operations run inside a savepoint, so a constraint
// violation on one row does not poison the rest of the sync.
type RosterBatch interface {
	AllStudents(ctx context.Context) ([]*models.Student, error)
	AllUsers(ctx context.Context) ([]*models.User, error)
	InsertStudent(ctx context.Context, student *models.Student) error
	UpdateStudent(ctx context.Context, student *models.Student) error
	InsertUser(ctx context.Context, user *models.User) error
	LinkUser(ctx context.Context, userID, studentID int64) error
	DeactivateMissing(ctx context.Context, seenUsernames []string) (int64, error)
}

// IRosterRepository defines the interface for transactional roster syncs
type IRosterRepository interface {
	Sync(ctx context.Context, fn func(ctx context.Context, batch RosterBatch) error) error
}

// RosterRepository runs roster reconciliation inside a single transaction
type RosterRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRosterRepository creates a new RosterRepository
func NewRosterRepository(db *pgxpool.Pool) *RosterRepository {
	return &RosterRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// syncTimeout bounds a roster sync. Large uploads hash a bcrypt password per
// new account, so the window is far wider than a normal request.
const syncTimeout = 5 * time.Minute

// Sync runs fn against a batch bound to a single transaction. Any error from
// fn rolls back the whole sync.
func (r *RosterRepository) Sync(ctx context.Context, fn func(ctx context.Context, batch RosterBatch) error) error {
	ctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, &pgxRosterBatch{tx: tx, sb: r.sb})
	})
}

// pgxRosterBatch implements RosterBatch over a pgx transaction. Begin on an
// open transaction creates a savepoint, which is what makes per-row recovery
// possible.
type pgxRosterBatch struct {
	tx pgx.Tx
	sb squirrel.StatementBuilderType
}

func (b *pgxRosterBatch) withSavepoint(ctx context.Context, fn func(pgx.Tx) error) error {
	sp, err := b.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}

	if err := fn(sp); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}

	return sp.Commit(ctx)
}

// AllStudents loads every student row
func (b *pgxRosterBatch) AllStudents(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := b.sb.Select(studentColumns...).From("students").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build students query: %w", err)
	}

	rows, err := b.tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	return students, rows.Err()
}

// AllUsers loads every user row
func (b *pgxRosterBatch) AllUsers(ctx context.Context) ([]*models.User, error) {
	sql, args, err := b.sb.Select(userColumns...).From("users").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build users query: %w", err)
	}

	rows, err := b.tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// InsertStudent inserts a student row. A unique violation maps to
// apperrors.ErrDuplicateStudentField.
func (b *pgxRosterBatch) InsertStudent(ctx context.Context, student *models.Student) error {
	return b.withSavepoint(ctx, func(sp pgx.Tx) error {
		sql, args, err := b.sb.Insert("students").
			Columns("dni", "nombre", "apellido", "username", "email",
				"grado", "seccion", "turno", "especialidad", "matricula", "estado").
			Values(student.DNI, student.Nombre, student.Apellido, student.Username, student.Email,
				student.Grado, student.Seccion, student.Turno, student.Especialidad, student.Matricula, student.Estado).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert student query: %w", err)
		}

		if err := sp.QueryRow(ctx, sql, args...).Scan(&student.ID); err != nil {
			if dberrors.IsDuplicateKeyError(err) {
				return apperrors.ErrDuplicateStudentField
			}
			return fmt.Errorf("error inserting student: %w", err)
		}
		return nil
	})
}

// UpdateStudent rewrites a student row by ID
func (b *pgxRosterBatch) UpdateStudent(ctx context.Context, student *models.Student) error {
	return b.withSavepoint(ctx, func(sp pgx.Tx) error {
		sql, args, err := b.sb.Update("students").
			SetMap(map[string]interface{}{
				"dni":          student.DNI,
				"nombre":       student.Nombre,
				"apellido":     student.Apellido,
				"username":     student.Username,
				"email":        student.Email,
				"grado":        student.Grado,
				"seccion":      student.Seccion,
				"turno":        student.Turno,
				"especialidad": student.Especialidad,
				"matricula":    student.Matricula,
				"estado":       student.Estado,
			}).
			Where(squirrel.Eq{"id": student.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update student query: %w", err)
		}

		if _, err := sp.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsDuplicateKeyError(err) {
				return apperrors.ErrDuplicateStudentField
			}
			return fmt.Errorf("error updating student: %w", err)
		}
		return nil
	})
}

// InsertUser inserts a user row created during reconciliation
func (b *pgxRosterBatch) InsertUser(ctx context.Context, user *models.User) error {
	return b.withSavepoint(ctx, func(sp pgx.Tx) error {
		sql, args, err := b.sb.Insert("users").
			Columns("username", "email", "password_hash", "is_admin", "student_id").
			Values(user.Username, user.Email, user.PasswordHash, user.IsAdmin, user.StudentID).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert user query: %w", err)
		}

		if err := sp.QueryRow(ctx, sql, args...).Scan(&user.ID); err != nil {
			if dberrors.IsDuplicateKeyError(err) {
				return apperrors.ErrUserAlreadyExists
			}
			return fmt.Errorf("error inserting user: %w", err)
		}
		return nil
	})
}

// LinkUser points an existing user at a student row
func (b *pgxRosterBatch) LinkUser(ctx context.Context, userID, studentID int64) error {
	return b.withSavepoint(ctx, func(sp pgx.Tx) error {
		sql, args, err := b.sb.Update("users").
			Set("student_id", studentID).
			Where(squirrel.Eq{"id": userID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build link user query: %w", err)
		}

		if _, err := sp.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsDuplicateKeyError(err) {
				return apperrors.ErrStudentAlreadyLinked
			}
			return fmt.Errorf("error linking user to student: %w", err)
		}
		return nil
	})
}

// DeactivateMissing marks every active student whose username is not in
// seenUsernames as inactive and returns the number of rows changed.
func (b *pgxRosterBatch) DeactivateMissing(ctx context.Context, seenUsernames []string) (int64, error) {
	cmdTag, err := b.tx.Exec(ctx,
		`UPDATE students SET estado = $1 WHERE estado = $2 AND username != ALL($3)`,
		models.EstadoInactivo, models.EstadoActivo, seenUsernames)
	if err != nil {
		logger.Error().Err(err).Msg("Error deactivating missing students")
		return 0, fmt.Errorf("error deactivating missing students: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}
