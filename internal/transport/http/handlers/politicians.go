package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
	"github.com/alkinoy/10x-politico-sub002/internal/usecase"
)

// PoliticianHandler exposes the politician directory over HTTP.
type PoliticianHandler struct {
	politicians *usecase.PoliticianService
}

func NewPoliticianHandler(politicians *usecase.PoliticianService) *PoliticianHandler {
	return &PoliticianHandler{politicians: politicians}
}

var politicianCases = []ErrorCase{
	{Err: usecase.ErrPoliticianNotFound, Status: http.StatusNotFound, Message: "politician not found"},
}

// List godoc
// @Summary List politicians
// @Description Returns a paginated politician directory.
// @Tags Politicians
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} PoliticianListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/politicians [get]
func (h *PoliticianHandler) List(c *gin.Context) {
	page, limit, ok := paginationParams(c)
	if !ok {
		return
	}

	result, err := h.politicians.ListPoliticians(c.Request.Context(), page, limit)
	if err != nil {
		RespondWithMappedError(c, err, politicianCases, http.StatusInternalServerError, "failed to list politicians")
		return
	}

	politicians := make([]PoliticianResponse, 0, len(result.Politicians))
	for _, politician := range result.Politicians {
		politicians = append(politicians, newPoliticianResponse(politician))
	}

	c.JSON(http.StatusOK, PoliticianListResponse{
		Politicians: politicians,
		Pagination: PaginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Get godoc
// @Summary Get a politician
// @Description Returns one politician directory entry.
// @Tags Politicians
// @Produce json
// @Param id path string true "Politician ID"
// @Success 200 {object} PoliticianResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/politicians/{id} [get]
func (h *PoliticianHandler) Get(c *gin.Context) {
	politician, err := h.politicians.GetPolitician(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, politicianCases, http.StatusInternalServerError, "failed to load politician")
		return
	}

	c.JSON(http.StatusOK, newPoliticianResponse(*politician))
}

func newPoliticianResponse(politician domain.Politician) PoliticianResponse {
	return PoliticianResponse{
		ID:        politician.ID,
		FullName:  politician.FullName,
		Party:     politician.Party,
		CreatedAt: politician.CreatedAt,
	}
}
