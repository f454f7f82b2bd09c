package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/learnhub/lms-backend/internal/model"
	"github.com/learnhub/lms-backend/internal/repository"
	"github.com/learnhub/lms-backend/internal/response"
	"github.com/learnhub/lms-backend/internal/service"
	"github.com/learnhub/lms-backend/internal/validator"
)

// ClassHandler exposes the class catalog CRUD surface.
type ClassHandler struct {
	classService *service.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// ClassRequest is the payload for creating or updating a class. Any id or
// version the client sends along is bound but ignored: the path id is
// authoritative on updates and the store assigns ids on creation.
type ClassRequest struct {
	Name       string   `json:"name" binding:"required"`
	Instructor string   `json:"instructor" binding:"required"`
	Type       string   `json:"type" binding:"required,oneof=theory revision paper"`
	Lessons    []string `json:"lessons"`
	TimeTable  string   `json:"timeTable"`
	Place      string   `json:"place"`
	Duration   string   `json:"duration"`
	Students   int      `json:"students" binding:"min=0"`
	Color      string   `json:"color"`

	ID      string `json:"id"`
	Version int    `json:"__v"`
}

func (req *ClassRequest) toModel() *model.Class {
	return &model.Class{
		Name:       req.Name,
		Instructor: req.Instructor,
		Type:       model.ClassType(req.Type),
		Lessons:    req.Lessons,
		TimeTable:  req.TimeTable,
		Place:      req.Place,
		Duration:   req.Duration,
		Students:   req.Students,
		Color:      req.Color,
	}
}

// ListClasses godoc
// GET /api/classes
// Lists all classes. Open to every caller.
func (h *ClassHandler) ListClasses(c *gin.Context) {
	classes, err := h.classService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if classes == nil {
		classes = []model.Class{}
	}

	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// GetClass godoc
// GET /api/classes/:id
// Retrieves a single class. Open to every caller.
func (h *ClassHandler) GetClass(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	class, err := h.classService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// CreateClass godoc
// POST /api/classes
// Creates a new class. Routed behind the catalog-writer role gate.
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req ClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class := req.toModel()
	if err := h.classService.Create(c.Request.Context(), class); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// UpdateClass godoc
// PUT /api/classes/:id
// Full replace of every mutable field of an existing class.
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req ClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class := req.toModel()
	class.ID = id

	if err := h.classService.Update(c.Request.Context(), class); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// DeleteClass godoc
// DELETE /api/classes/:id
// Permanently removes a class by ID.
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.classService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Class deleted"})
}
