package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/catalog"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository"
)

type fakeDestinationRepo struct {
	active  []*domain.Destination
	listErr error
}

func (r *fakeDestinationRepo) ListActive(context.Context) ([]*domain.Destination, error) {
	return r.active, r.listErr
}
func (r *fakeDestinationRepo) GetByID(context.Context, uuid.UUID) (*domain.Destination, error) {
	return nil, errors.New("not implemented")
}
func (r *fakeDestinationRepo) GetByName(context.Context, string) (*domain.Destination, error) {
	return nil, errors.New("not implemented")
}
func (r *fakeDestinationRepo) UpsertBatch(context.Context, []*domain.Destination) error {
	return nil
}

type destinationsResponse struct {
	Destinations []struct {
		Name         string `json:"name"`
		Cost         string `json:"cost"`
		ShippingMode string `json:"shipping_mode"`
	} `json:"destinations"`
}

func listDestinations(t *testing.T, repo *fakeDestinationRepo) destinationsResponse {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := &repository.Repositories{Destination: repo}
	router := gin.New()
	router.GET("/destinations", HandleListDestinations(repos, zap.NewNop()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/destinations", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp destinationsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return resp
}

func TestListDestinationsFromRepository(t *testing.T) {
	stored := catalog.FallbackDestinations()[:2]
	resp := listDestinations(t, &fakeDestinationRepo{active: stored})

	if len(resp.Destinations) != 2 {
		t.Fatalf("got %d destinations, want 2", len(resp.Destinations))
	}
	if resp.Destinations[0].Name != "Lima" || resp.Destinations[0].Cost != "10.00" {
		t.Errorf("first destination = %+v, want Lima at 10.00", resp.Destinations[0])
	}
}

func TestListDestinationsFallsBackOnError(t *testing.T) {
	resp := listDestinations(t, &fakeDestinationRepo{listErr: errors.New("connection refused")})

	if len(resp.Destinations) != 5 {
		t.Fatalf("got %d destinations, want the 5 fallback entries", len(resp.Destinations))
	}
	last := resp.Destinations[len(resp.Destinations)-1]
	if last.Name != "Iquitos" || last.ShippingMode != "air" {
		t.Errorf("last fallback destination = %+v, want Iquitos by air", last)
	}
}

func TestListDestinationsFallsBackWhenEmpty(t *testing.T) {
	resp := listDestinations(t, &fakeDestinationRepo{})

	if len(resp.Destinations) != 5 {
		t.Fatalf("got %d destinations, want the 5 fallback entries", len(resp.Destinations))
	}
}
