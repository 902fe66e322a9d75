package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sigescol/backend/internal/app/models/dto"
	"github.com/sigescol/backend/internal/app/services"
	"github.com/sigescol/backend/internal/middleware"
	"github.com/sigescol/backend/internal/pkg/helpers"
	"github.com/sigescol/backend/internal/pkg/validation"
)

// AdminController handles roster management endpoints
type AdminController struct {
	rosterService  *services.RosterService
	studentService *services.StudentService
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(rosterService *services.RosterService, studentService *services.StudentService, maxUploadBytes int64, logger zerolog.Logger) *AdminController {
	return &AdminController{
		rosterService:  rosterService,
		studentService: studentService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// UploadStudents receives a roster workbook and reconciles the student and
// user tables against it.
func (c *AdminController) UploadStudents(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("No se encontró el archivo"))
		return
	}

	if fileHeader.Filename == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("No se seleccionó ningún archivo"))
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" && ext != ".xls" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("El archivo debe ser un Excel (.xlsx o .xls)"))
		return
	}

	if c.maxUploadBytes > 0 && fileHeader.Size > c.maxUploadBytes {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			fmt.Sprintf("El archivo supera el tamaño máximo permitido (%d MB)", c.maxUploadBytes/(1<<20))))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	c.logger.Info().
		Str("filename", fileHeader.Filename).
		Int64("size", fileHeader.Size).
		Int64("adminID", ctx.GetInt64(middleware.ContextUserID)).
		Msg("Roster upload received")

	report, err := c.rosterService.SyncFromSpreadsheet(ctx.Request.Context(), file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, report)
}

// GetStudents returns a paginated, searchable student listing
func (c *AdminController) GetStudents(ctx *gin.Context) {
	pagination := helpers.GetPaginationParams(ctx)

	search, err := validation.SanitizeString(ctx.Query("search"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	students, total, pages, err := c.studentService.List(ctx.Request.Context(), search, pagination)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.StudentListResponse{
		Success:     true,
		Students:    students,
		Total:       total,
		Pages:       pages,
		CurrentPage: pagination.Page,
	})
}

// GetStudent returns a single student by username
func (c *AdminController) GetStudent(ctx *gin.Context) {
	username := ctx.Param("username")
	if err := validation.ValidateField("username", username); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	student, err := c.studentService.GetByUsername(ctx.Request.Context(), username)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.StudentResponse{
		Success: true,
		Student: student,
	})
}

// CountStudents returns the total roster size
func (c *AdminController) CountStudents(ctx *gin.Context) {
	total, err := c.studentService.Count(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.StudentCountResponse{
		Success:       true,
		TotalStudents: total,
	})
}
