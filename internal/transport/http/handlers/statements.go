package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alkinoy/10x-politico-sub002/internal/transport/http/middleware"
	"github.com/alkinoy/10x-politico-sub002/internal/usecase"
)

// StatementHandler exposes the statement lifecycle over HTTP.
type StatementHandler struct {
	statements *usecase.StatementService
}

func NewStatementHandler(statements *usecase.StatementService) *StatementHandler {
	return &StatementHandler{statements: statements}
}

var statementReadCases = []ErrorCase{
	{Err: usecase.ErrStatementNotFound, Status: http.StatusNotFound, Message: "statement not found"},
	{Err: usecase.ErrPoliticianNotFound, Status: http.StatusNotFound, Message: "politician not found"},
}

var statementMutationCases = []ErrorCase{
	{Err: usecase.ErrAuthenticationRequired, Status: http.StatusUnauthorized, Message: "authentication required"},
	{Err: usecase.ErrStatementNotFound, Status: http.StatusNotFound, Message: "statement not found"},
	{Err: usecase.ErrPoliticianNotFound, Status: http.StatusNotFound, Message: "politician not found"},
	{Err: usecase.ErrNotOwner, Status: http.StatusForbidden, Message: "only the author may modify a statement"},
	{Err: usecase.ErrGracePeriodExpired, Status: http.StatusForbidden, Message: "modification window has expired"},
	{Err: usecase.ErrStatementDeleted, Status: http.StatusForbidden, Message: "statement has been deleted"},
	{Err: usecase.ErrAlreadyDeleted, Status: http.StatusForbidden, Message: "statement has already been deleted"},
}

// List godoc
// @Summary List statements
// @Description Returns a paginated, enriched statement feed, optionally filtered by politician.
// @Tags Statements
// @Produce json
// @Param politician_id query string false "Filter by politician"
// @Param sort_by query string false "Sort field: recorded_at or occurred_at"
// @Param order query string false "Sort order: asc or desc"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} StatementListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/statements [get]
func (h *StatementHandler) List(c *gin.Context) {
	page, limit, ok := paginationParams(c)
	if !ok {
		return
	}

	input := usecase.ListStatementsInput{
		PoliticianID: strings.TrimSpace(c.Query("politician_id")),
		SortField:    c.Query("sort_by"),
		SortOrder:    c.Query("order"),
		Page:         page,
		Limit:        limit,
	}

	result, err := h.statements.ListStatements(c.Request.Context(), middleware.GetIdentity(c), input)
	if err != nil {
		RespondWithMappedError(c, err, statementReadCases, http.StatusInternalServerError, "failed to list statements")
		return
	}

	c.JSON(http.StatusOK, listResponse(result))
}

// Timeline godoc
// @Summary Politician statement timeline
// @Description Returns a politician's statements within a relative time range.
// @Tags Statements
// @Produce json
// @Param id path string true "Politician ID"
// @Param time_range query string false "One of 7d, 30d, 365d, all"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} StatementListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/politicians/{id}/statements [get]
func (h *StatementHandler) Timeline(c *gin.Context) {
	page, limit, ok := paginationParams(c)
	if !ok {
		return
	}

	input := usecase.TimelineInput{
		PoliticianID: c.Param("id"),
		TimeRange:    c.Query("time_range"),
		Page:         page,
		Limit:        limit,
	}

	result, err := h.statements.Timeline(c.Request.Context(), middleware.GetIdentity(c), input)
	if err != nil {
		RespondWithMappedError(c, err, statementReadCases, http.StatusInternalServerError, "failed to load timeline")
		return
	}

	c.JSON(http.StatusOK, listResponse(result))
}

// Get godoc
// @Summary Get a statement
// @Description Returns one enriched statement. Deleted statements read as not found.
// @Tags Statements
// @Produce json
// @Param id path string true "Statement ID"
// @Success 200 {object} StatementResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/statements/{id} [get]
func (h *StatementHandler) Get(c *gin.Context) {
	enriched, err := h.statements.GetStatement(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, statementReadCases, http.StatusInternalServerError, "failed to load statement")
		return
	}

	c.JSON(http.StatusOK, NewStatementResponse(*enriched))
}

// Create godoc
// @Summary Record a statement
// @Description Records a statement attributed to the authenticated caller.
// @Tags Statements
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param request body StatementCreateRequest true "Statement payload"
// @Success 201 {object} StatementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} middleware.ProblemDetails
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/statements [post]
func (h *StatementHandler) Create(c *gin.Context) {
	var req StatementCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid statement payload"))
		return
	}

	input := usecase.CreateStatementInput{
		PoliticianID: strings.TrimSpace(req.PoliticianID),
		BodyText:     req.BodyText,
		OccurredAt:   req.OccurredAt,
	}

	enriched, err := h.statements.CreateStatement(c.Request.Context(), middleware.GetIdentity(c), input)
	if err != nil {
		RespondWithMappedError(c, err, statementMutationCases, http.StatusInternalServerError, "failed to record statement")
		return
	}

	c.JSON(http.StatusCreated, NewStatementResponse(*enriched))
}

// Update godoc
// @Summary Edit a statement
// @Description Applies a partial update within the author's modification window.
// @Tags Statements
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "Statement ID"
// @Param request body StatementUpdateRequest true "Fields to update"
// @Success 200 {object} StatementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/statements/{id} [patch]
func (h *StatementHandler) Update(c *gin.Context) {
	var req StatementUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid update payload"))
		return
	}

	input := usecase.UpdateStatementInput{
		ID:         c.Param("id"),
		BodyText:   req.BodyText,
		OccurredAt: req.OccurredAt,
	}

	enriched, err := h.statements.UpdateStatement(c.Request.Context(), middleware.GetIdentity(c), input)
	if err != nil {
		RespondWithMappedError(c, err, statementMutationCases, http.StatusInternalServerError, "failed to update statement")
		return
	}

	c.JSON(http.StatusOK, NewStatementResponse(*enriched))
}

// Delete godoc
// @Summary Delete a statement
// @Description Tombstones a statement within the author's modification window.
// @Tags Statements
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param id path string true "Statement ID"
// @Success 200 {object} StatementDeleteResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/statements/{id} [delete]
func (h *StatementHandler) Delete(c *gin.Context) {
	result, err := h.statements.DeleteStatement(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, statementMutationCases, http.StatusInternalServerError, "failed to delete statement")
		return
	}

	c.JSON(http.StatusOK, StatementDeleteResponse{
		ID:        result.ID,
		DeletedAt: result.DeletedAt,
	})
}

func listResponse(result *usecase.ListStatementsResult) StatementListResponse {
	statements := make([]StatementResponse, 0, len(result.Statements))
	for _, enriched := range result.Statements {
		statements = append(statements, NewStatementResponse(enriched))
	}

	return StatementListResponse{
		Statements: statements,
		Pagination: PaginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	}
}

// paginationParams parses page and limit query values. Non-numeric input is a
// 400; range checks live in the usecase layer.
func paginationParams(c *gin.Context) (int, int, bool) {
	page, ok := intQuery(c, "page")
	if !ok {
		return 0, 0, false
	}

	limit, ok := intQuery(c, "limit")
	if !ok {
		return 0, 0, false
	}

	return page, limit, true
}

func intQuery(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, name+" must be an integer"))
		return 0, false
	}

	return value, true
}
