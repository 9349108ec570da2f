package assessment

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service is the intake boundary: it validates submissions and reads
// assessments back by id.
type Service struct {
	repo  Repository
	newID func() string
}

// NewService creates a new assessment service backed by repo.
func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		newID: uuid.NewString,
	}
}

// Create validates sub and stores it as a new assessment created at now.
// Missing fields are reported as a *ValidationError and nothing is stored.
func (s *Service) Create(ctx context.Context, sub *Submission, now time.Time) (*Assessment, error) {
	if sub != nil {
		sub.Email = strings.TrimSpace(sub.Email)
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	reportData := sub.Raw
	if len(reportData) == 0 {
		data, err := json.Marshal(sub)
		if err != nil {
			return nil, err
		}
		reportData = data
	}

	a := &Assessment{
		ID:                 s.newID(),
		Email:              sub.Email,
		TechStack:          cloneRaw(sub.TechStack),
		MonthlyTickets:     cloneRaw(sub.MonthlyTickets),
		TicketDistribution: cloneRaw(sub.TicketDistribution),
		AdditionalContext:  sub.AdditionalContext,
		ReportData:         cloneRaw(reportData),
		// Postgres keeps microseconds; truncate so every backend round-trips.
		CreatedAt: now.UTC().Truncate(time.Microsecond),
	}

	id, err := s.repo.Insert(ctx, a)
	if err != nil {
		return nil, err
	}
	a.ID = id

	return a, nil
}

// GetByID returns the assessment with the given id, or ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id string) (*Assessment, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}
