package api

import (
	"context"
	"net/http"
	"time"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/service"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type ScheduleHandler struct {
	sessionService service.SessionService
	loc            *time.Location
}

// NewScheduleHandler serves sessions. ?date= values are read in loc.
func NewScheduleHandler(sessionService service.SessionService, loc *time.Location) *ScheduleHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleHandler{sessionService: sessionService, loc: loc}
}

type SessionRequest struct {
	Title           string    `json:"title" binding:"required"`
	Description     *string   `json:"description"`
	Date            time.Time `json:"date" binding:"required"`
	Time            string    `json:"time"`
	DurationMinutes int       `json:"durationMinutes" binding:"required,gt=0"`
	Type            string    `json:"type"`
	StudentID       *int64    `json:"studentId"`
	IsGroup         bool      `json:"isGroup"`
	GroupSize       *int      `json:"groupSize"`
	Notes           *string   `json:"notes"`
}

// ListSessions returns the caller's visible sessions, earliest first.
// ?date=YYYY-MM-DD narrows to one day.
// GET /api/v1/schedule
func (h *ScheduleHandler) ListSessions(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var day *time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := time.ParseInLocation(dateLayout, raw, h.loc)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = &d
	}
	sessions, err := h.sessionService.ListSessions(c.Request.Context(), actor, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// POST /api/v1/schedule
func (h *ScheduleHandler) CreateSession(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	s, err := h.sessionService.CreateSession(c.Request.Context(), actor, domain.Session{
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: req.DurationMinutes,
		Type:            req.Type,
		StudentID:       req.StudentID,
		IsGroup:         req.IsGroup,
		GroupSize:       req.GroupSize,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// GET /api/v1/schedule/:id
func (h *ScheduleHandler) GetSession(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s, err := h.sessionService.GetSession(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// PATCH /api/v1/schedule/:id
func (h *ScheduleHandler) UpdateSession(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch domain.SessionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}
	s, err := h.sessionService.UpdateSession(c.Request.Context(), actor, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// POST /api/v1/schedule/:id/cancel
func (h *ScheduleHandler) CancelSession(c *gin.Context) {
	h.transition(c, h.sessionService.CancelSession)
}

// POST /api/v1/schedule/:id/complete
func (h *ScheduleHandler) CompleteSession(c *gin.Context) {
	h.transition(c, h.sessionService.CompleteSession)
}

type sessionTransition func(ctx context.Context, actor domain.Actor, id int64) (*domain.Session, error)

func (h *ScheduleHandler) transition(c *gin.Context, apply sessionTransition) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s, err := apply(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
