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

type PaymentHandler struct {
	paymentService service.PaymentService
	loc            *time.Location
}

func NewPaymentHandler(paymentService service.PaymentService, loc *time.Location) *PaymentHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &PaymentHandler{paymentService: paymentService, loc: loc}
}

type CreatePaymentRequest struct {
	StudentID   int64                `json:"studentId" binding:"required"`
	AmountCents int64                `json:"amountCents" binding:"required,gt=0"`
	Plan        string               `json:"plan" binding:"required"`
	Status      domain.PaymentStatus `json:"status" binding:"omitempty,oneof=pending paid overdue canceled"`
	DueDate     time.Time            `json:"dueDate" binding:"required"`
	Reference   *string              `json:"reference"`
	Method      *string              `json:"method"`
	Metadata    datatypes.JSONMap    `json:"metadata"`
}

type UpdatePaymentStatusRequest struct {
	Status domain.PaymentStatus `json:"status" binding:"required"`
}

// ListPayments returns the caller's visible payments, newest first. Accepts
// ?status=, ?from= and ?to= (YYYY-MM-DD, whole days) and, for trainers,
// ?studentId=.
// GET /api/v1/payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	filter := service.PaymentFilter{Status: domain.PaymentStatus(c.Query("status"))}
	if raw := c.Query("studentId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "studentId must be a number")
			return
		}
		filter.StudentID = id
	}
	from, to, ok := dayRange(c, h.loc)
	if !ok {
		return
	}
	filter.From, filter.To = from, to
	payments, err := h.paymentService.ListPayments(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// POST /api/v1/payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.paymentService.CreatePayment(c.Request.Context(), actor, domain.Payment{
		StudentID:   req.StudentID,
		AmountCents: req.AmountCents,
		Plan:        req.Plan,
		Status:      req.Status,
		DueDate:     req.DueDate,
		Reference:   req.Reference,
		Method:      req.Method,
		Metadata:    req.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GET /api/v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.paymentService.GetPayment(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdatePaymentStatus moves a payment between statuses. The payment is looked
// up before ownership is checked, so unknown ids answer 404 for everyone.
// PATCH /api/v1/payments/:id
func (h *PaymentHandler) UpdatePaymentStatus(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.paymentService.UpdatePaymentStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
