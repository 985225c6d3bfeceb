package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/api/middleware"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/calendar"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/pkg/errors"
)

const noteDateLayout = "2006-01-02"

type NoteRequest struct {
	Date  string `json:"date" binding:"required"`
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
	Color string `json:"color"`
}

type NoteResponse struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
	Color string `json:"color,omitempty"`
}

func toNoteResponse(note *domain.Note) NoteResponse {
	return NoteResponse{
		ID:    note.ID.String(),
		Date:  note.Date.Format(noteDateLayout),
		Title: note.Title,
		Body:  note.Body,
		Color: note.Color,
	}
}

func parseNoteRequest(c *gin.Context, logger *zap.Logger) (*NoteRequest, time.Time, bool) {
	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation failed",
			"details": err.Error(),
		})
		return nil, time.Time{}, false
	}

	date, err := time.Parse(noteDateLayout, req.Date)
	if err != nil {
		verr := &errors.ErrValidation{}
		verr.Add("date", "date must be formatted YYYY-MM-DD")
		respondError(c, logger, verr)
		return nil, time.Time{}, false
	}

	return &req, date, true
}

func HandleCreateNote(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		req, date, ok := parseNoteRequest(c, logger)
		if !ok {
			return
		}

		note := &domain.Note{
			UserID: user.ID,
			Date:   date,
			Title:  req.Title,
			Body:   req.Body,
			Color:  req.Color,
		}

		if err := repos.Note.Create(c.Request.Context(), note); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, toNoteResponse(note))
	}
}

// HandleListNotes returns the user's notes in a date range. Both bounds are
// optional and inclusive; the default range is the current month.
func HandleListNotes(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		now := time.Now()
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, -1)

		verr := &errors.ErrValidation{}
		if raw := c.Query("from"); raw != "" {
			parsed, err := time.Parse(noteDateLayout, raw)
			if err != nil {
				verr.Add("from", "from must be formatted YYYY-MM-DD")
			} else {
				from = parsed
			}
		}
		if raw := c.Query("to"); raw != "" {
			parsed, err := time.Parse(noteDateLayout, raw)
			if err != nil {
				verr.Add("to", "to must be formatted YYYY-MM-DD")
			} else {
				to = parsed
			}
		}
		if verr.HasErrors() {
			respondError(c, logger, verr)
			return
		}

		notes, err := repos.Note.ListByUserAndRange(c.Request.Context(), user.ID, from, to.AddDate(0, 0, 1))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		resp := make([]NoteResponse, len(notes))
		for i, note := range notes {
			resp[i] = toNoteResponse(note)
		}

		c.JSON(http.StatusOK, gin.H{"notes": resp})
	}
}

func HandleGetNote(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		note, ok := findOwnNote(c, repos, user, logger)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, toNoteResponse(note))
	}
}

func HandleUpdateNote(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		note, ok := findOwnNote(c, repos, user, logger)
		if !ok {
			return
		}

		req, date, ok := parseNoteRequest(c, logger)
		if !ok {
			return
		}

		note.Date = date
		note.Title = req.Title
		note.Body = req.Body
		note.Color = req.Color

		if err := repos.Note.Update(c.Request.Context(), note); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toNoteResponse(note))
	}
}

func HandleDeleteNote(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		note, ok := findOwnNote(c, repos, user, logger)
		if !ok {
			return
		}

		if err := repos.Note.Delete(c.Request.Context(), note.ID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}

// findOwnNote loads the note and hides other users' notes behind a 404.
func findOwnNote(c *gin.Context, repos *repository.Repositories, user *domain.User, logger *zap.Logger) (*domain.Note, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, logger, &errors.ErrNotFound{Resource: "note", ID: c.Param("id")})
		return nil, false
	}

	note, err := repos.Note.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err)
		return nil, false
	}

	if note.UserID != user.ID {
		respondError(c, logger, &errors.ErrNotFound{Resource: "note", ID: id.String()})
		return nil, false
	}

	return note, true
}

type CalendarDayResponse struct {
	Date    string         `json:"date"`
	InMonth bool           `json:"in_month"`
	IsToday bool           `json:"is_today"`
	Notes   []NoteResponse `json:"notes,omitempty"`
}

// HandleGetCalendarMonth returns the six-week grid for a month with the
// user's notes placed on their days. Cells from adjacent months carry notes
// too so the visible grid is complete.
func HandleGetCalendarMonth(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		year, err := strconv.Atoi(c.Param("year"))
		if err != nil || year < 1970 || year > 2200 {
			verr := &errors.ErrValidation{}
			verr.Add("year", "invalid year")
			respondError(c, logger, verr)
			return
		}

		monthNum, err := strconv.Atoi(c.Param("month"))
		if err != nil || monthNum < 1 || monthNum > 12 {
			verr := &errors.ErrValidation{}
			verr.Add("month", "month must be between 1 and 12")
			respondError(c, logger, verr)
			return
		}

		grid := calendar.MonthGrid(year, time.Month(monthNum), time.Now())

		from := grid[0].Date
		to := grid[len(grid)-1].Date.AddDate(0, 0, 1)

		notes, err := repos.Note.ListByUserAndRange(c.Request.Context(), user.ID, from, to)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		byDay := make(map[string][]NoteResponse)
		for _, note := range notes {
			key := note.Date.Format(noteDateLayout)
			byDay[key] = append(byDay[key], toNoteResponse(note))
		}

		days := make([]CalendarDayResponse, len(grid))
		for i, day := range grid {
			key := day.Date.Format(noteDateLayout)
			days[i] = CalendarDayResponse{
				Date:    key,
				InMonth: day.InMonth,
				IsToday: day.IsToday,
				Notes:   byDay[key],
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"year":  year,
			"month": monthNum,
			"days":  days,
		})
	}
}
