package assessment

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"
)

// Assessment is a single stored readiness submission.
type Assessment struct {
	// ID is assigned at creation and never reused.
	ID string `json:"id"`

	// Email is the submitter's address. Only presence is checked.
	Email string `json:"email"`

	// Opaque payload blobs supplied by the intake form.
	TechStack          json.RawMessage `json:"techStack"`
	MonthlyTickets     json.RawMessage `json:"monthlyTickets"`
	TicketDistribution json.RawMessage `json:"ticketDistribution"`

	// AdditionalContext is optional free text.
	AdditionalContext string `json:"additionalContext,omitempty"`

	// ReportData is the original submission body, stored verbatim.
	ReportData json.RawMessage `json:"reportData,omitempty"`

	// CreatedAt is set once at creation and drives retention.
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a deep copy of the assessment.
func (a *Assessment) Clone() *Assessment {
	if a == nil {
		return nil
	}
	c := *a
	c.TechStack = cloneRaw(a.TechStack)
	c.MonthlyTickets = cloneRaw(a.MonthlyTickets)
	c.TicketDistribution = cloneRaw(a.TicketDistribution)
	c.ReportData = cloneRaw(a.ReportData)
	return &c
}

func cloneRaw(r json.RawMessage) json.RawMessage {
	if r == nil {
		return nil
	}
	return append(json.RawMessage(nil), r...)
}

// Submission is the intake payload accepted by Service.Create.
type Submission struct {
	Email              string          `json:"email" validate:"required"`
	TechStack          json.RawMessage `json:"techStack" validate:"present"`
	MonthlyTickets     json.RawMessage `json:"monthlyTickets" validate:"present"`
	TicketDistribution json.RawMessage `json:"ticketDistribution" validate:"present"`
	AdditionalContext  string          `json:"additionalContext,omitempty"`

	// Raw is the verbatim request body. It becomes ReportData.
	Raw json.RawMessage `json:"-"`
}

// ParseSubmission decodes a request body into a Submission and keeps the
// body as Raw.
func ParseSubmission(body []byte) (*Submission, error) {
	var sub Submission
	if err := json.Unmarshal(body, &sub); err != nil {
		return nil, err
	}
	sub.Raw = append(json.RawMessage(nil), bytes.TrimSpace(body)...)
	return &sub, nil
}

// Query filters assessments for listing and export.
type Query struct {
	// Time range filters (nil = no filter)
	CreatedAfter  *time.Time
	CreatedBefore *time.Time

	// Email matches exactly when set.
	Email string

	// Pagination
	Limit  int
	Offset int

	// SortOrder is "asc" or "desc" on created_at. Default: "asc"
	SortOrder string
}

// Repository is the narrow store contract used by the retention and intake
// services.
type Repository interface {
	// Insert stores a new assessment and returns its id.
	Insert(ctx context.Context, a *Assessment) (string, error)

	// FindByID returns the assessment with the given id, or (nil, nil)
	// when no such record exists.
	FindByID(ctx context.Context, id string) (*Assessment, error)

	// FindOlderThan returns every assessment created strictly before
	// cutoff, oldest first with ties broken by id.
	FindOlderThan(ctx context.Context, cutoff time.Time) ([]*Assessment, error)

	// DeleteByIDs removes the given ids and returns how many rows were
	// actually removed. Unknown ids are not an error. On failure the count
	// reflects the rows removed before the failure.
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

// Storage is a Repository with the listing and lifecycle operations used by
// the outer surfaces.
type Storage interface {
	Repository

	// List returns assessments matching the query.
	List(ctx context.Context, query *Query) ([]*Assessment, error)

	// Count returns the number of assessments matching the query.
	Count(ctx context.Context, query *Query) (int64, error)

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}

// Exporter writes assessments in a specific format.
type Exporter interface {
	// Export writes records to w in the exporter's format.
	Export(ctx context.Context, records []*Assessment, w io.Writer) error
}
