package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tutorhub/internal/model"
	"tutorhub/internal/pricing"
	"tutorhub/internal/service"
)

type BookingHandler struct {
	bookingService *service.BookingService
}

func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

type quoteRequest struct {
	StudentID       int64  `json:"student_id" binding:"required"`
	TeacherID       int64  `json:"teacher_id"` // 0 = учитель не выбран, вернём нулевой расчёт
	LessonType      string `json:"lesson_type" binding:"required,oneof=single package"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1"`
	LessonQuantity  int    `json:"lesson_quantity"`
}

func (r quoteRequest) selection() model.BookingSelection {
	return model.BookingSelection{
		TeacherID:       r.TeacherID,
		LessonType:      model.LessonType(r.LessonType),
		DurationMinutes: r.DurationMinutes,
		LessonQuantity:  r.LessonQuantity,
	}
}

// Quote считает расчёт цены для формы бронирования
func (h *BookingHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.bookingService.CalculateBookingPrice(c.Request.Context(), req.StudentID, req.selection())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

type confirmRequest struct {
	quoteRequest
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

// Confirm подтверждает бронирование и создаёт урок
func (h *BookingHandler) Confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lesson, err := h.bookingService.ConfirmBooking(c.Request.Context(), req.StudentID, req.selection(), req.ScheduledAt)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lesson)
}

// PackageQuote отдаёт разбивку цены пакета для витрины учителя
func (h *BookingHandler) PackageQuote(c *gin.Context) {
	teacherID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid teacher id"})
		return
	}

	duration, err := strconv.Atoi(c.Query("duration"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration"})
		return
	}

	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity"})
		return
	}

	quote, err := h.bookingService.QuotePackage(c.Request.Context(), teacherID, duration, quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// GroupQuote отдаёт цену с человека для группы заданного размера
func (h *BookingHandler) GroupQuote(c *gin.Context) {
	teacherID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid teacher id"})
		return
	}

	size, err := strconv.Atoi(c.Query("size"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group size"})
		return
	}

	pricePerPerson, err := h.bookingService.QuoteGroupLesson(c.Request.Context(), teacherID, size)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"group_size":       size,
		"price_per_person": pricePerPerson,
	})
}

// respondError переводит ошибки сервисов в HTTP-статусы
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLessonNotFound), errors.Is(err, service.ErrTeacherNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, pricing.ErrUnsupportedDuration),
		errors.Is(err, pricing.ErrInvalidQuantity),
		errors.Is(err, pricing.ErrNoGroupRate),
		errors.Is(err, service.ErrTeacherRequired),
		errors.Is(err, service.ErrPastTime),
		errors.Is(err, service.ErrRescheduleWindow):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrRescheduleLimit):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
