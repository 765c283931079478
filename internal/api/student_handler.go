package api

import (
	"net/http"

	"fitstudio/server/internal/service"

	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	userService service.UserService
}

func NewStudentHandler(userService service.UserService) *StudentHandler {
	return &StudentHandler{userService: userService}
}

// ListStudents returns every student, sorted by name. Trainer only.
// GET /api/v1/students
func (h *StudentHandler) ListStudents(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	students, err := h.userService.ListStudents(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

// GET /api/v1/students/:id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !user.IsStudent() {
		abortWithError(c, http.StatusNotFound, "student not found")
		return
	}
	c.JSON(http.StatusOK, user)
}
