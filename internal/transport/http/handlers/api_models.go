package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// StatementCreateRequest defines the payload for recording a statement.
type StatementCreateRequest struct {
	PoliticianID string    `json:"politician_id" binding:"required"`
	BodyText     string    `json:"body_text" binding:"required"`
	OccurredAt   time.Time `json:"occurred_at" binding:"required"`
}

// StatementUpdateRequest defines the payload for a partial statement update.
type StatementUpdateRequest struct {
	BodyText   *string    `json:"body_text,omitempty"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

// PoliticianSummary describes a statement subject in API responses.
type PoliticianSummary struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Party    string `json:"party,omitempty"`
}

// AuthorSummary describes a statement contributor in API responses.
type AuthorSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// StatementResponse is the enriched statement view returned to clients.
type StatementResponse struct {
	ID           string             `json:"id"`
	PoliticianID string             `json:"politician_id"`
	AuthorID     string             `json:"author_id"`
	BodyText     string             `json:"body_text"`
	OccurredAt   time.Time          `json:"occurred_at"`
	RecordedAt   time.Time          `json:"recorded_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Politician   PoliticianSummary  `json:"politician"`
	Author       AuthorSummary      `json:"author"`
	Permissions  domain.Permissions `json:"permissions"`
}

// NewStatementResponse converts an enriched statement into its API view.
func NewStatementResponse(enriched domain.EnrichedStatement) StatementResponse {
	return StatementResponse{
		ID:           enriched.ID,
		PoliticianID: enriched.PoliticianID,
		AuthorID:     enriched.AuthorID,
		BodyText:     enriched.BodyText,
		OccurredAt:   enriched.OccurredAt,
		RecordedAt:   enriched.RecordedAt,
		UpdatedAt:    enriched.UpdatedAt,
		Politician: PoliticianSummary{
			ID:       enriched.Politician.ID,
			FullName: enriched.Politician.FullName,
			Party:    enriched.Politician.Party,
		},
		Author: AuthorSummary{
			ID:          enriched.Author.ID,
			DisplayName: enriched.Author.DisplayName,
		},
		Permissions: enriched.Permissions,
	}
}

// PaginationResponse carries paging metadata alongside list payloads.
type PaginationResponse struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// StatementListResponse is the paginated enriched statement listing.
type StatementListResponse struct {
	Statements []StatementResponse `json:"statements"`
	Pagination PaginationResponse  `json:"pagination"`
}

// StatementDeleteResponse confirms a soft delete.
type StatementDeleteResponse struct {
	ID        string    `json:"id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// PoliticianResponse is the directory view of a politician.
type PoliticianResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Party     string    `json:"party,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PoliticianListResponse is the paginated politician directory listing.
type PoliticianListResponse struct {
	Politicians []PoliticianResponse `json:"politicians"`
	Pagination  PaginationResponse   `json:"pagination"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
