package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/trovato"
	"github.com/soundprediction/trovato/pkg/server/dto"
	"github.com/soundprediction/trovato/pkg/store"
	"github.com/soundprediction/trovato/pkg/types"
)

func packageRouter(client trovato.Trovato) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewPackageHandler(client)
	router := gin.New()
	router.PUT("/packages", handler.UpsertPackage)
	router.GET("/packages/:id", handler.GetPackage)
	router.GET("/stats", handler.Stats)
	return router
}

func TestUpsertPackage(t *testing.T) {
	var gotPkg *types.Package
	mock := &mockTrovato{
		addPackageFn: func(ctx context.Context, pkg *types.Package) error {
			gotPkg = pkg
			return nil
		},
	}
	router := packageRouter(mock)

	body := `{"id": "hyper", "name": "hyper", "description": "a fast HTTP implementation", "downloads": 250000000}`
	req := httptest.NewRequest(http.MethodPut, "/packages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp dto.UpsertPackageResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.ID != "hyper" {
		t.Errorf("expected success for hyper, got %+v", resp)
	}

	if gotPkg == nil {
		t.Fatal("expected AddPackage to be invoked")
	}
	if gotPkg.Name != "hyper" || gotPkg.Downloads != 250000000 {
		t.Errorf("unexpected package passed through: %+v", gotPkg)
	}
}

func TestUpsertPackageMissingFields(t *testing.T) {
	router := packageRouter(&mockTrovato{})

	// Name is required by the binding
	req := httptest.NewRequest(http.MethodPut, "/packages", strings.NewReader(`{"id": "hyper"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestUpsertPackageInvalid(t *testing.T) {
	mock := &mockTrovato{
		addPackageFn: func(ctx context.Context, pkg *types.Package) error {
			return fmt.Errorf("%w: id cannot be empty", trovato.ErrInvalidPackage)
		},
	}
	router := packageRouter(mock)

	body := `{"id": "x", "name": "x"}`
	req := httptest.NewRequest(http.MethodPut, "/packages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestGetPackage(t *testing.T) {
	mock := &mockTrovato{
		getPackageFn: func(ctx context.Context, id string) (*types.Package, error) {
			return &types.Package{
				ID:          id,
				Name:        "serde",
				Description: "a serialization framework",
				Downloads:   400000000,
			}, nil
		},
	}
	router := packageRouter(mock)

	req := httptest.NewRequest(http.MethodGet, "/packages/serde", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp dto.PackageResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "serde" || resp.Name != "serde" {
		t.Errorf("unexpected package: %+v", resp)
	}
	if resp.Downloads != 400000000 {
		t.Errorf("expected downloads to round-trip, got %d", resp.Downloads)
	}
}

func TestGetPackageNotFound(t *testing.T) {
	mock := &mockTrovato{
		getPackageFn: func(ctx context.Context, id string) (*types.Package, error) {
			return nil, fmt.Errorf("%w: %s", trovato.ErrPackageNotFound, id)
		},
	}
	router := packageRouter(mock)

	req := httptest.NewRequest(http.MethodGet, "/packages/no-such-package", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != "not_found" {
		t.Errorf("expected not_found, got %q", resp.Error)
	}
}

func TestStats(t *testing.T) {
	mock := &mockTrovato{
		statsFn: func(ctx context.Context) (*store.Stats, error) {
			return &store.Stats{Packages: 150000, Embedded: 120000, Missing: 30000}, nil
		},
	}
	router := packageRouter(mock)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp dto.StatsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Packages != 150000 || resp.Embedded != 120000 || resp.Missing != 30000 {
		t.Errorf("unexpected stats: %+v", resp)
	}
}
