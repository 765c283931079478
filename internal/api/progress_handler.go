package api

import (
	"net/http"
	"strconv"
	"time"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type ProgressHandler struct {
	progressService service.ProgressService
	loc             *time.Location
}

func NewProgressHandler(progressService service.ProgressService, loc *time.Location) *ProgressHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ProgressHandler{progressService: progressService, loc: loc}
}

type ProgressRequest struct {
	Date               *time.Time        `json:"date"`
	WeightGrams        *int64            `json:"weightGrams" binding:"omitempty,gt=0"`
	BodyFatBasisPoints *int              `json:"bodyFatBasisPoints" binding:"omitempty,min=0,max=10000"`
	Measurements       datatypes.JSONMap `json:"measurements"`
	Notes              *string           `json:"notes"`
}

// ListProgress returns a progress history, newest first. Students read their
// own; trainers pass ?studentId=. ?from= and ?to= (YYYY-MM-DD) bound the
// range by whole days.
// GET /api/v1/progress
func (h *ProgressHandler) ListProgress(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var studentID int64
	if raw := c.Query("studentId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "studentId must be a number")
			return
		}
		studentID = id
	} else if actor.IsTrainer() {
		abortWithError(c, http.StatusBadRequest, "studentId is required")
		return
	}

	from, to, ok := dayRange(c, h.loc)
	if !ok {
		return
	}
	r := service.ProgressRange{From: from, To: to}

	entries, err := h.progressService.ListProgress(c.Request.Context(), actor, studentID, r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// POST /api/v1/progress
func (h *ProgressHandler) RecordProgress(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	entry := domain.Progress{
		WeightGrams:        req.WeightGrams,
		BodyFatBasisPoints: req.BodyFatBasisPoints,
		Measurements:       req.Measurements,
		Notes:              req.Notes,
	}
	if req.Date != nil {
		entry.Date = *req.Date
	}
	p, err := h.progressService.RecordProgress(c.Request.Context(), actor, entry)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// dayRange reads ?from= and ?to= (YYYY-MM-DD) in loc as whole days: from is
// the first instant of its day, to the last. Absent ends are nil.
func dayRange(c *gin.Context, loc *time.Location) (from, to *time.Time, ok bool) {
	if raw := c.Query("from"); raw != "" {
		d, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return nil, nil, false
		}
		from = &d
	}
	if raw := c.Query("to"); raw != "" {
		d, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return nil, nil, false
		}
		end := d.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}
	return from, to, true
}
