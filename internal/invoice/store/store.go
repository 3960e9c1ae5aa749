package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/jmeindl/umlage/internal/category"
	"github.com/jmeindl/umlage/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectInvoiceColumns = `
	i.id, i.building_id, i.unit_id, i.cost_type, i.purpose, i.for_all_tenants,
	i.total_amount, i.period_start, i.period_end, i.created_at, i.updated_at, i.deleted_at
`

func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var costType string

	if err := s.Scan(
		&inv.ID, &inv.BuildingID, &inv.UnitID, &costType, &inv.Purpose, &inv.ForAllTenants,
		&inv.TotalAmount, &inv.PeriodStart, &inv.PeriodEnd,
		&inv.CreatedAt, &inv.UpdatedAt, &inv.DeletedAt,
	); err != nil {
		return nil, err
	}

	inv.CostType = category.Type(costType)

	return &inv, nil
}

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO invoices (building_id, unit_id, cost_type, purpose, for_all_tenants, total_amount, period_start, period_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		inv.BuildingID, inv.UnitID, inv.CostType, inv.Purpose, inv.ForAllTenants,
		inv.TotalAmount, inv.PeriodStart, inv.PeriodEnd,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}

	for i := range inv.Files {
		if err := insertFile(ctx, dbTx, inv.ID, &inv.Files[i]); err != nil {
			return err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing invoice: %w", err)
	}

	return nil
}

type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertFile(ctx context.Context, db execer, invoiceID uuid.UUID, f *invoice.FileRef) error {
	query := `
		INSERT INTO invoice_files (invoice_id, url, name)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	if err := db.QueryRowContext(ctx, query, invoiceID, f.URL, f.Name).Scan(&f.ID); err != nil {
		return fmt.Errorf("creating invoice file: %w", err)
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices i
		WHERE i.id = $1 AND i.deleted_at IS NULL`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	if err := s.attachFiles(ctx, map[uuid.UUID]*invoice.Invoice{inv.ID: inv}); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices i
		WHERE i.deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.BuildingID != nil {
		query += fmt.Sprintf(" AND i.building_id = $%d", argIdx)

		args = append(args, *filter.BuildingID)
		argIdx++
	}

	if filter.UnitID != nil {
		query += fmt.Sprintf(" AND i.unit_id = $%d", argIdx)

		args = append(args, *filter.UnitID)
		argIdx++
	}

	if filter.CostType != nil {
		query += fmt.Sprintf(" AND i.cost_type = $%d", argIdx)

		args = append(args, *filter.CostType)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND (i.period_end IS NULL OR i.period_end >= $%d)", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND (i.period_start IS NULL OR i.period_start <= $%d)", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY i.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice

	byID := make(map[uuid.UUID]*invoice.Invoice)

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
		byID[inv.ID] = inv
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice rows: %w", err)
	}

	if len(invoices) == 0 {
		return nil, nil
	}

	if err := s.attachFiles(ctx, byID); err != nil {
		return nil, err
	}

	return invoices, nil
}

func (s *Store) attachFiles(ctx context.Context, byID map[uuid.UUID]*invoice.Invoice) error {
	ids := make([]uuid.UUID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query := `
		SELECT id, invoice_id, url, name
		FROM invoice_files
		WHERE invoice_id = ANY($1)
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("listing invoice files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f invoice.FileRef

		var invoiceID uuid.UUID

		if err := rows.Scan(&f.ID, &invoiceID, &f.URL, &f.Name); err != nil {
			return fmt.Errorf("scanning invoice file: %w", err)
		}

		if inv, ok := byID[invoiceID]; ok {
			inv.Files = append(inv.Files, f)
		}
	}

	return rows.Err()
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices
		SET unit_id = $1, cost_type = $2, purpose = $3, for_all_tenants = $4,
		    total_amount = $5, period_start = $6, period_end = $7, updated_at = NOW()
		WHERE id = $8 AND deleted_at IS NULL
	`

	_, err := s.db.ExecContext(ctx, query,
		inv.UnitID, inv.CostType, inv.Purpose, inv.ForAllTenants,
		inv.TotalAmount, inv.PeriodStart, inv.PeriodEnd, inv.ID,
	)
	if err != nil {
		return fmt.Errorf("updating invoice: %w", err)
	}

	return nil
}

func (s *Store) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE invoices
		SET deleted_at = NOW()
		WHERE id = $1
	`

	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	return nil
}

func (s *Store) AttachFile(ctx context.Context, invoiceID uuid.UUID, file invoice.FileRef) error {
	if err := insertFile(ctx, s.db, invoiceID, &file); err != nil {
		return err
	}

	return nil
}
