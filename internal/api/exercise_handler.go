package api

import (
	"net/http"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// CreateExerciseRequest defines the expected JSON for creating an exercise.
type CreateExerciseRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	VideoURL    *string `json:"videoUrl" binding:"omitempty,url"` // validated as URL if provided
	Category    string  `json:"category" binding:"required"`
}

// POST /api/v1/exercises
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	ex, err := h.exerciseService.CreateExercise(c.Request.Context(), actor, domain.Exercise{
		Name:        req.Name,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		Category:    req.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ex)
}

// GetTrainerExercises lists the caller's library, optionally ?category=.
// GET /api/v1/exercises
func (h *ExerciseHandler) GetTrainerExercises(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), actor, c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// GET /api/v1/exercises/:id
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ex, err := h.exerciseService.GetExercise(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ex)
}

// PATCH /api/v1/exercises/:id
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch domain.ExercisePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}
	ex, err := h.exerciseService.UpdateExercise(c.Request.Context(), actor, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ex)
}

// DELETE /api/v1/exercises/:id
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.exerciseService.DeleteExercise(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
