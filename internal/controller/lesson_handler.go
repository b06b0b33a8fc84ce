package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tutorhub/internal/service"
)

type LessonHandler struct {
	lessonService *service.LessonService
}

func NewLessonHandler(lessonService *service.LessonService) *LessonHandler {
	return &LessonHandler{lessonService: lessonService}
}

func lessonID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lesson id"})
		return 0, false
	}
	return id, true
}

// List отдаёт уроки студента или учителя
func (h *LessonHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("student_id"); raw != "" {
		studentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student_id"})
			return
		}
		lessons, err := h.lessonService.GetStudentLessons(ctx, studentID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"lessons": lessons})
		return
	}

	if raw := c.Query("teacher_id"); raw != "" {
		teacherID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid teacher_id"})
			return
		}
		lessons, err := h.lessonService.GetTeacherLessons(ctx, teacherID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"lessons": lessons})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "student_id or teacher_id is required"})
}

// Get отдаёт урок по ID
func (h *LessonHandler) Get(c *gin.Context) {
	id, ok := lessonID(c)
	if !ok {
		return
	}

	lesson, err := h.lessonService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if lesson == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lesson not found"})
		return
	}

	c.JSON(http.StatusOK, lesson)
}

// Complete подтверждает завершение урока вручную
func (h *LessonHandler) Complete(c *gin.Context) {
	id, ok := lessonID(c)
	if !ok {
		return
	}

	lesson, err := h.lessonService.CompleteLesson(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

// Cancel отменяет урок и возвращает решение по возврату
func (h *LessonHandler) Cancel(c *gin.Context) {
	id, ok := lessonID(c)
	if !ok {
		return
	}

	result, err := h.lessonService.CancelLesson(c.Request.Context(), id, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type rescheduleRequest struct {
	NewStart time.Time `json:"new_start" binding:"required"`
}

// Reschedule переносит урок на новое время по инициативе учителя
func (h *LessonHandler) Reschedule(c *gin.Context) {
	id, ok := lessonID(c)
	if !ok {
		return
	}

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	replacement, err := h.lessonService.RescheduleLesson(c.Request.Context(), id, req.NewStart, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, replacement)
}

// ReportAbsence фиксирует прогул учителя по уроку
func (h *LessonHandler) ReportAbsence(c *gin.Context) {
	id, ok := lessonID(c)
	if !ok {
		return
	}

	result, err := h.lessonService.ReportTutorAbsence(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
