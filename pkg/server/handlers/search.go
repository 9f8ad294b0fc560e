package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/trovato"
	"github.com/soundprediction/trovato/pkg/server/dto"
	"github.com/soundprediction/trovato/pkg/types"
)

// SearchHandler handles search requests
type SearchHandler struct {
	trovato trovato.Trovato
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(t trovato.Trovato) *SearchHandler {
	return &SearchHandler{
		trovato: t,
	}
}

// Search handles POST /search
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	h.search(c, req)
}

// SearchGET handles GET /search?q=...&sort=...&traditional=...
func (h *SearchHandler) SearchGET(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		query = c.Query("query")
	}
	traditional, _ := strconv.ParseBool(c.DefaultQuery("traditional", "false"))

	h.search(c, dto.SearchRequest{
		Query:       query,
		Sort:        c.Query("sort"),
		Traditional: traditional,
	})
}

func (h *SearchHandler) search(c *gin.Context, req dto.SearchRequest) {
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	sortBy, err := types.ParseSortCriteria(req.Sort)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	start := time.Now()
	candidates, err := h.trovato.Search(c.Request.Context(), req.Query, &trovato.SearchOptions{
		Sort:        sortBy,
		Traditional: req.Traditional,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "search_failed",
			Message: err.Error(),
		})
		return
	}

	results := make([]dto.PackageResult, 0, len(candidates))
	for _, cand := range candidates {
		results = append(results, dto.PackageResult{
			ID:            cand.ID,
			Name:          cand.Name,
			Description:   cand.Description,
			Downloads:     cand.Downloads,
			LexicalScore:  cand.LexicalScore,
			SemanticScore: cand.SemanticScore,
			FinalScore:    cand.FinalScore,
		})
	}

	c.JSON(http.StatusOK, dto.SearchResponse{
		Query:     req.Query,
		Sort:      string(sortBy),
		Results:   results,
		Count:     len(results),
		ElapsedMS: time.Since(start).Milliseconds(),
	})
}
