package api

import (
	"errors"
	"io"
	"net/http"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/service"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

type WorkoutRequest struct {
	Title           string  `json:"title" binding:"required"`
	Description     *string `json:"description"`
	Level           string  `json:"level" binding:"required"`
	DurationMinutes int     `json:"durationMinutes" binding:"required,gt=0"`
	Category        string  `json:"category" binding:"required"`
	Image           *string `json:"image"`
}

type AssignRequest struct {
	StudentID int64 `json:"studentId" binding:"required"`
}

// CompleteRequest names the student whose assignment is done. Students may
// omit it.
type CompleteRequest struct {
	StudentID int64 `json:"studentId"`
}

type WorkoutExerciseRequest struct {
	ExerciseID  int64   `json:"exerciseId" binding:"required"`
	Sets        *int    `json:"sets"`
	Reps        *int    `json:"reps"`
	TimeSeconds *int    `json:"timeSeconds"`
	RestSeconds *int    `json:"restSeconds"`
	Notes       *string `json:"notes"`
	Order       int     `json:"order"`
}

// POST /api/v1/workouts
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	w, err := h.workoutService.CreateWorkout(c.Request.Context(), actor, domain.Workout{
		Title:           req.Title,
		Description:     req.Description,
		Level:           req.Level,
		DurationMinutes: req.DurationMinutes,
		Category:        req.Category,
		Image:           req.Image,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// ListWorkouts returns the trainer's workouts, or for a student the assigned
// workouts with their completion state.
// GET /api/v1/workouts
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if actor.IsStudent() {
		views, err := h.workoutService.ListAssignedWorkouts(c.Request.Context(), actor)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
		return
	}
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// GET /api/v1/workouts/:id
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	w, err := h.workoutService.GetWorkout(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// PATCH /api/v1/workouts/:id
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch domain.WorkoutPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}
	w, err := h.workoutService.UpdateWorkout(c.Request.Context(), actor, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// DELETE /api/v1/workouts/:id
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/v1/workouts/:id/assign
func (h *WorkoutHandler) AssignWorkout(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	a, err := h.workoutService.AssignWorkout(c.Request.Context(), actor, id, req.StudentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// GET /api/v1/workouts/:id/assignments
func (h *WorkoutHandler) ListAssignments(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	assignments, err := h.workoutService.ListAssignments(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// CompleteWorkout marks an assignment done. The body is optional for students.
// POST /api/v1/workouts/:id/complete
func (h *WorkoutHandler) CompleteWorkout(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}
	if req.StudentID == 0 {
		if !actor.IsStudent() {
			abortWithError(c, http.StatusBadRequest, "studentId is required")
			return
		}
		req.StudentID = actor.ID
	}
	a, err := h.workoutService.CompleteWorkout(c.Request.Context(), actor, req.StudentID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// GET /api/v1/workouts/:id/exercises
func (h *WorkoutHandler) GetWorkoutExercises(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entries, err := h.workoutService.GetWorkoutExercises(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// POST /api/v1/workouts/:id/exercises
func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req WorkoutExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	entry, err := h.workoutService.AddExercise(c.Request.Context(), actor, id, domain.WorkoutExercise{
		ExerciseID:  req.ExerciseID,
		Sets:        req.Sets,
		Reps:        req.Reps,
		TimeSeconds: req.TimeSeconds,
		RestSeconds: req.RestSeconds,
		Notes:       req.Notes,
		Order:       req.Order,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// DELETE /api/v1/workouts/:id/exercises/:entryId
func (h *WorkoutHandler) RemoveExercise(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entryID, ok := pathID(c, "entryId")
	if !ok {
		return
	}
	if err := h.workoutService.RemoveExercise(c.Request.Context(), actor, id, entryID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
