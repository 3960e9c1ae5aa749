package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/jmeindl/umlage/internal/property"
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

func scanBuilding(s scanner) (*property.Building, error) {
	var b property.Building

	if err := s.Scan(
		&b.ID, &b.LandlordID, &b.Name, &b.Street, &b.ZIP, &b.City,
		&b.CreatedAt, &b.UpdatedAt, &b.DeletedAt,
	); err != nil {
		return nil, err
	}

	return &b, nil
}

const selectBuildingColumns = `
	id, landlord_id, name, street, zip, city, created_at, updated_at, deleted_at
`

func (s *Store) CreateBuilding(ctx context.Context, b *property.Building) error {
	query := `
		INSERT INTO buildings (landlord_id, name, street, zip, city, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		b.LandlordID, b.Name, b.Street, b.ZIP, b.City,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating building: %w", err)
	}

	return nil
}

func (s *Store) GetBuilding(ctx context.Context, id uuid.UUID) (*property.Building, error) {
	query := `SELECT ` + selectBuildingColumns + `
		FROM buildings
		WHERE id = $1 AND deleted_at IS NULL`

	b, err := scanBuilding(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, property.ErrNotFound
		}

		return nil, fmt.Errorf("getting building: %w", err)
	}

	return b, nil
}

func (s *Store) ListBuildings(ctx context.Context, landlordID uuid.UUID) ([]*property.Building, error) {
	query := `SELECT ` + selectBuildingColumns + `
		FROM buildings
		WHERE landlord_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, landlordID)
	if err != nil {
		return nil, fmt.Errorf("listing buildings: %w", err)
	}
	defer rows.Close()

	var buildings []*property.Building

	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning building: %w", err)
		}

		buildings = append(buildings, b)
	}

	return buildings, rows.Err()
}

func (s *Store) DeleteBuilding(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE buildings
		SET deleted_at = NOW()
		WHERE id = $1
	`

	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting building: %w", err)
	}

	return nil
}

func (s *Store) CreateUnit(ctx context.Context, u *property.Unit) error {
	query := `
		INSERT INTO units (building_id, usage, label, living_space_m2, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		u.BuildingID, u.Usage, u.Label, u.LivingSpaceM2,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating unit: %w", err)
	}

	return nil
}

func (s *Store) ListUnits(ctx context.Context, buildingID uuid.UUID) ([]*property.Unit, error) {
	query := `
		SELECT id, building_id, usage, label, living_space_m2, created_at, deleted_at
		FROM units
		WHERE building_id = $1 AND deleted_at IS NULL
		ORDER BY label ASC
	`

	rows, err := s.db.QueryContext(ctx, query, buildingID)
	if err != nil {
		return nil, fmt.Errorf("listing units: %w", err)
	}
	defer rows.Close()

	var units []*property.Unit

	for rows.Next() {
		var u property.Unit

		var usage string

		if err := rows.Scan(
			&u.ID, &u.BuildingID, &usage, &u.Label, &u.LivingSpaceM2,
			&u.CreatedAt, &u.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning unit: %w", err)
		}

		u.Usage = property.UsageType(usage)
		units = append(units, &u)
	}

	return units, rows.Err()
}

func (s *Store) CreateContract(ctx context.Context, c *property.Contract) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO contracts (unit_id, rental_start, rental_end, cold_rent, additional_costs, is_current, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		c.UnitID, c.RentalStart, c.RentalEnd, c.ColdRent, c.AdditionalCosts, c.IsCurrent,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating contract: %w", err)
	}

	contractorQuery := `
		INSERT INTO contractors (contract_id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	for i := range c.Contractors {
		c.Contractors[i].ContractID = c.ID

		err := dbTx.QueryRowContext(ctx, contractorQuery,
			c.ID, c.Contractors[i].Name, c.Contractors[i].Email, c.Contractors[i].Phone,
		).Scan(&c.Contractors[i].ID)
		if err != nil {
			return fmt.Errorf("creating contractor: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing contract: %w", err)
	}

	return nil
}

const selectContractColumns = `
	c.id, c.unit_id, c.rental_start, c.rental_end, c.cold_rent, c.additional_costs,
	c.is_current, c.created_at, c.deleted_at
`

func scanContract(s scanner) (*property.Contract, error) {
	var c property.Contract

	if err := s.Scan(
		&c.ID, &c.UnitID, &c.RentalStart, &c.RentalEnd, &c.ColdRent, &c.AdditionalCosts,
		&c.IsCurrent, &c.CreatedAt, &c.DeletedAt,
	); err != nil {
		return nil, err
	}

	return &c, nil
}

func (s *Store) ListContractsByUnit(ctx context.Context, unitID uuid.UUID) ([]*property.Contract, error) {
	query := `SELECT ` + selectContractColumns + `
		FROM contracts c
		WHERE c.unit_id = $1 AND c.deleted_at IS NULL
		ORDER BY c.rental_start ASC`

	return s.listContracts(ctx, query, unitID)
}

func (s *Store) ListContractsByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*property.Contract, error) {
	query := `SELECT ` + selectContractColumns + `
		FROM contracts c
		JOIN units u ON c.unit_id = u.id
		WHERE u.building_id = $1 AND c.deleted_at IS NULL
		ORDER BY c.rental_start ASC`

	return s.listContracts(ctx, query, buildingID)
}

func (s *Store) listContracts(ctx context.Context, query string, arg any) ([]*property.Contract, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing contracts: %w", err)
	}
	defer rows.Close()

	var contracts []*property.Contract

	byID := make(map[uuid.UUID]*property.Contract)

	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contract: %w", err)
		}

		contracts = append(contracts, c)
		byID[c.ID] = c
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contract rows: %w", err)
	}

	if len(contracts) == 0 {
		return nil, nil
	}

	if err := s.attachContractors(ctx, byID); err != nil {
		return nil, err
	}

	return contracts, nil
}

func (s *Store) attachContractors(ctx context.Context, byID map[uuid.UUID]*property.Contract) error {
	ids := make([]uuid.UUID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query := `
		SELECT id, contract_id, name, email, phone
		FROM contractors
		WHERE contract_id = ANY($1)
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("listing contractors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p property.Contractor

		if err := rows.Scan(&p.ID, &p.ContractID, &p.Name, &p.Email, &p.Phone); err != nil {
			return fmt.Errorf("scanning contractor: %w", err)
		}

		if c, ok := byID[p.ContractID]; ok {
			c.Contractors = append(c.Contractors, p)
		}
	}

	return rows.Err()
}

// SetCurrentContract marks one contract current and demotes every other
// contract on the unit, keeping at most one current contract per unit.
// Both updates run in one database transaction.
func (s *Store) SetCurrentContract(ctx context.Context, unitID, contractID uuid.UUID) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	demote := `
		UPDATE contracts
		SET is_current = FALSE
		WHERE unit_id = $1 AND id <> $2 AND deleted_at IS NULL
	`
	if _, err := dbTx.ExecContext(ctx, demote, unitID, contractID); err != nil {
		return fmt.Errorf("demoting contracts: %w", err)
	}

	promote := `
		UPDATE contracts
		SET is_current = TRUE
		WHERE id = $1 AND unit_id = $2 AND deleted_at IS NULL
	`
	if _, err := dbTx.ExecContext(ctx, promote, contractID, unitID); err != nil {
		return fmt.Errorf("promoting contract: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing current contract: %w", err)
	}

	return nil
}
