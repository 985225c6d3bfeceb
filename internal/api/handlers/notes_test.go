package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/api/middleware"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/pkg/errors"
)

type fakeNoteRepo struct {
	notes map[uuid.UUID]*domain.Note
}

func (r *fakeNoteRepo) Create(_ context.Context, note *domain.Note) error {
	if r.notes == nil {
		r.notes = make(map[uuid.UUID]*domain.Note)
	}
	note.ID = uuid.New()
	r.notes[note.ID] = note
	return nil
}

func (r *fakeNoteRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Note, error) {
	if n, ok := r.notes[id]; ok {
		return n, nil
	}
	return nil, &errors.ErrNotFound{Resource: "note", ID: id.String()}
}

func (r *fakeNoteRepo) Update(_ context.Context, note *domain.Note) error {
	r.notes[note.ID] = note
	return nil
}

func (r *fakeNoteRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.notes, id)
	return nil
}

func (r *fakeNoteRepo) ListByUserAndRange(_ context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Note, error) {
	var out []*domain.Note
	for _, n := range r.notes {
		if n.UserID != userID {
			continue
		}
		if n.Date.Before(from) || !n.Date.Before(to) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func newNotesRouter(repo *fakeNoteRepo, user *domain.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repos := &repository.Repositories{Note: repo}
	logger := zap.NewNop()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserContextKey, user)
	})
	router.GET("/notes", HandleListNotes(repos, logger))
	router.GET("/notes/:id", HandleGetNote(repos, logger))
	return router
}

func noteOn(repo *fakeNoteRepo, userID uuid.UUID, date, title string) *domain.Note {
	day, _ := time.Parse(noteDateLayout, date)
	note := &domain.Note{UserID: userID, Date: day, Title: title}
	_ = repo.Create(context.Background(), note)
	return note
}

func TestListNotesInRange(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Role: domain.RoleClient}
	repo := &fakeNoteRepo{}
	noteOn(repo, user.ID, "2026-03-10", "pago proveedor")
	noteOn(repo, user.ID, "2026-03-31", "cierre de mes")
	noteOn(repo, user.ID, "2026-04-01", "inventario")
	noteOn(repo, uuid.New(), "2026-03-15", "ajena")

	router := newNotesRouter(repo, user)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/notes?from=2026-03-01&to=2026-03-31", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Notes []NoteResponse `json:"notes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Notes) != 2 {
		t.Fatalf("got %d notes, want the 2 March notes: %+v", len(resp.Notes), resp.Notes)
	}
	for _, n := range resp.Notes {
		if n.Title == "inventario" || n.Title == "ajena" {
			t.Fatalf("out-of-range or foreign note returned: %+v", n)
		}
	}
}

func TestListNotesRejectsBadRange(t *testing.T) {
	router := newNotesRouter(&fakeNoteRepo{}, &domain.User{ID: uuid.New()})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/notes?from=March+1st", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestGetNoteHidesForeignNotes(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Role: domain.RoleClient}
	repo := &fakeNoteRepo{}
	own := noteOn(repo, user.ID, "2026-03-10", "propia")
	foreign := noteOn(repo, uuid.New(), "2026-03-11", "ajena")

	router := newNotesRouter(repo, user)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes/"+own.ID.String(), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("own note: status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes/"+foreign.ID.String(), nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign note: status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
