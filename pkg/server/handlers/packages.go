package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/trovato"
	"github.com/soundprediction/trovato/pkg/server/dto"
	"github.com/soundprediction/trovato/pkg/types"
)

// PackageHandler handles catalog requests
type PackageHandler struct {
	trovato trovato.Trovato
}

// NewPackageHandler creates a new package handler
func NewPackageHandler(t trovato.Trovato) *PackageHandler {
	return &PackageHandler{
		trovato: t,
	}
}

// UpsertPackage handles PUT /packages
func (h *PackageHandler) UpsertPackage(c *gin.Context) {
	var req dto.UpsertPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	pkg := &types.Package{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Downloads:   req.Downloads,
	}
	if err := h.trovato.AddPackage(c.Request.Context(), pkg); err != nil {
		status := http.StatusInternalServerError
		code := "upsert_failed"
		if errors.Is(err, trovato.ErrInvalidPackage) {
			status = http.StatusBadRequest
			code = "invalid_request"
		}
		c.JSON(status, dto.ErrorResponse{
			Error:   code,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.UpsertPackageResponse{
		Success: true,
		ID:      req.ID,
	})
}

// GetPackage handles GET /packages/:id
func (h *PackageHandler) GetPackage(c *gin.Context) {
	id := c.Param("id")

	pkg, err := h.trovato.GetPackage(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, trovato.ErrPackageNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error:   "not_found",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "lookup_failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.PackageResponse{
		ID:          pkg.ID,
		Name:        pkg.Name,
		Description: pkg.Description,
		Downloads:   pkg.Downloads,
	})
}

// Stats handles GET /stats
func (h *PackageHandler) Stats(c *gin.Context) {
	stats, err := h.trovato.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "stats_failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{
		Packages: stats.Packages,
		Embedded: stats.Embedded,
		Missing:  stats.Missing,
	})
}
