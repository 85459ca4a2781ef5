package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
}

// TicketStats aggregates ticket counts for the admin dashboard.
type TicketStats struct {
	Total      int64
	Open       int64
	InProgress int64
	Closed     int64
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket opens a ticket for the owner. New tickets always start Open
// with created_at = updated_at.
func (s *TicketService) CreateTicket(ctx context.Context, ownerEmail, title, description string) (*domain.Ticket, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	ticket := &domain.Ticket{
		OwnerEmail:  ownerEmail,
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketCreated,
		Actor:     ownerEmail,
		Timestamp: time.Now(),
		Payload: events.TicketCreatedPayload{
			TicketID:   ticket.ID,
			OwnerEmail: ticket.OwnerEmail,
			Title:      ticket.Title,
		},
	})
	return ticket, nil
}

// ListTickets returns the requester's visible ticket set: the system-wide
// queue for admins and co-admins, the requester's own tickets otherwise.
// Newest tickets come first.
func (s *TicketService) ListTickets(ctx context.Context, requesterEmail string, role domain.Role) ([]domain.Ticket, error) {
	if role.CanManageAllTickets() {
		return s.tickets.ListAll(ctx)
	}
	return s.tickets.ListByOwner(ctx, requesterEmail)
}

// UpdateStatus sets a ticket's status. Transitions between valid statuses are
// unrestricted; the status enum itself is checked at this boundary.
func (s *TicketService) UpdateStatus(ctx context.Context, actor string, ticketID int64, rawStatus string) (*domain.Ticket, error) {
	status, err := domain.ParseTicketStatus(rawStatus)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": rawStatus})
	}

	previous, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}

	ticket, err := s.tickets.UpdateStatus(ctx, ticketID, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketStatusChanged,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload: events.TicketStatusChangedPayload{
			TicketID:  ticket.ID,
			OldStatus: previous.Status,
			NewStatus: ticket.Status,
		},
	})
	return ticket, nil
}

// Stats returns aggregate ticket counts by status.
func (s *TicketService) Stats(ctx context.Context) (*TicketStats, error) {
	counts, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &TicketStats{
		Open:       counts[domain.TicketStatusOpen],
		InProgress: counts[domain.TicketStatusInProgress],
		Closed:     counts[domain.TicketStatusClosed],
	}
	stats.Total = stats.Open + stats.InProgress + stats.Closed
	return stats, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
