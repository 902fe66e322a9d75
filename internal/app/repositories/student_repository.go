package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sigescol/backend/internal/app/models"
	"github.com/sigescol/backend/internal/pkg/apperrors"
	"github.com/sigescol/backend/internal/pkg/logger"
)

// IStudentRepository defines the interface for student-related database operations
type IStudentRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByUsername(ctx context.Context, username string) (*models.Student, error)
	List(ctx context.Context, search string, limit, offset int) ([]*models.Student, int64, error)
	Count(ctx context.Context) (int64, error)
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var studentColumns = []string{
	"id", "dni", "nombre", "apellido", "username", "email",
	"grado", "seccion", "turno", "especialidad", "matricula", "estado", "created_at",
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	student := &models.Student{}
	err := row.Scan(
		&student.ID,
		&student.DNI,
		&student.Nombre,
		&student.Apellido,
		&student.Username,
		&student.Email,
		&student.Grado,
		&student.Seccion,
		&student.Turno,
		&student.Especialidad,
		&student.Matricula,
		&student.Estado,
		&student.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}

	return student, nil
}

// GetByUsername retrieves a student by username
func (r *StudentRepository) GetByUsername(ctx context.Context, username string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("username", username).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by username: %w", err)
	}

	return student, nil
}

// List retrieves students with optional search and pagination. The search
// term matches nombre, apellido, username, dni or matricula.
func (r *StudentRepository) List(ctx context.Context, search string, limit, offset int) ([]*models.Student, int64, error) {
	base := r.sb.Select(studentColumns...).From("students")
	countBase := r.sb.Select("COUNT(*)").From("students")

	if search != "" {
		pattern := "%" + search + "%"
		cond := squirrel.Or{
			squirrel.ILike{"nombre": pattern},
			squirrel.ILike{"apellido": pattern},
			squirrel.ILike{"username": pattern},
			squirrel.ILike{"dni": pattern},
			squirrel.ILike{"matricula": pattern},
		}
		base = base.Where(cond)
		countBase = countBase.Where(cond)
	}

	countSQL, countArgs, err := countBase.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting students")
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	sql, args, err := base.
		OrderBy("apellido ASC", "nombre ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying students")
		return nil, 0, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, total, nil
}

// Count returns the total number of students
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("students").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting students")
		return 0, fmt.Errorf("error counting students: %w", err)
	}

	return total, nil
}
