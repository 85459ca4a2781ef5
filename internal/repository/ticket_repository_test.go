package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"

	"github.com/spec-kit/helpdesk/internal/domain"
)

var ticketColumns = []string{"id", "owner_email", "title", "description", "status", "created_at", "updated_at"}

func TestTicketRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO tickets`).
		WithArgs("jane@x.com", "Printer jam", "Tray 2 stuck", domain.TicketStatusOpen).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(1), now, now))

	repo := NewTicketRepository(mock)
	ticket := &domain.Ticket{
		OwnerEmail:  "jane@x.com",
		Title:       "Printer jam",
		Description: "Tray 2 stuck",
		Status:      domain.TicketStatusOpen,
	}
	if err := repo.Create(context.Background(), ticket); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ticket.ID != 1 || !ticket.CreatedAt.Equal(ticket.UpdatedAt) {
		t.Fatalf("unexpected ticket: %+v", ticket)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTicketRepositoryListByOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM tickets WHERE owner_email`).
		WithArgs("jane@x.com").
		WillReturnRows(pgxmock.NewRows(ticketColumns).
			AddRow(int64(3), "jane@x.com", "Monitor flicker", "Left screen", domain.TicketStatusOpen, now, now).
			AddRow(int64(1), "jane@x.com", "Printer jam", "Tray 2 stuck", domain.TicketStatusClosed, now, now))

	repo := NewTicketRepository(mock)
	tickets, err := repo.ListByOwner(context.Background(), "jane@x.com")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(tickets) != 2 || tickets[0].ID != 3 {
		t.Fatalf("unexpected tickets: %+v", tickets)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTicketRepositoryUpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	created := time.Now().Add(-time.Hour)
	updated := time.Now()
	mock.ExpectQuery(`UPDATE tickets SET status`).
		WithArgs(domain.TicketStatusClosed, int64(1)).
		WillReturnRows(pgxmock.NewRows(ticketColumns).
			AddRow(int64(1), "jane@x.com", "Printer jam", "Tray 2 stuck", domain.TicketStatusClosed, created, updated))

	repo := NewTicketRepository(mock)
	ticket, err := repo.UpdateStatus(context.Background(), 1, domain.TicketStatusClosed)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if ticket.Status != domain.TicketStatusClosed {
		t.Fatalf("expected Closed, got %s", ticket.Status)
	}
	if !ticket.UpdatedAt.After(ticket.CreatedAt) {
		t.Fatal("updated_at should move past created_at")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTicketRepositoryUpdateStatusNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`UPDATE tickets SET status`).
		WithArgs(domain.TicketStatusClosed, int64(404)).
		WillReturnError(pgx.ErrNoRows)

	repo := NewTicketRepository(mock)
	if _, err := repo.UpdateStatus(context.Background(), 404, domain.TicketStatusClosed); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTicketRepositoryCountByStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT status, COUNT`).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow(domain.TicketStatusOpen, int64(4)).
			AddRow(domain.TicketStatusClosed, int64(2)))

	repo := NewTicketRepository(mock)
	counts, err := repo.CountByStatus(context.Background())
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[domain.TicketStatusOpen] != 4 || counts[domain.TicketStatusClosed] != 2 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	if counts[domain.TicketStatusInProgress] != 0 {
		t.Fatalf("missing statuses should count zero, got %+v", counts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
