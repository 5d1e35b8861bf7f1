package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// HotelRepo provides methods to create and retrieve hotels.  Each hotel
// belongs to exactly one operator; ownership is the basis for every
// operator-side permission check in this service.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo constructs a HotelRepo with the given DB handle.
func NewHotelRepo(db *sql.DB) *HotelRepo {
	return &HotelRepo{db: db}
}

// Create inserts a new hotel and populates the generated ID along with
// the DB-default timestamp fields on the provided struct.
func (r *HotelRepo) Create(ctx context.Context, h *model.Hotel) error {
	const qInsert = `INSERT INTO hotels (operator_id, name, city, address) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, h.OperatorID, h.Name, h.City, h.Address)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)

	const qSelect = `SELECT id, operator_id, name, city, address, created_at, updated_at FROM hotels WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, h.ID).
		Scan(&h.ID, &h.OperatorID, &h.Name, &h.City, &h.Address, &h.CreatedAt, &h.UpdatedAt)
}

// GetByID retrieves a hotel by its ID regardless of operator.  It
// returns ErrHotelNotFound when no row is found.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	const q = `SELECT id, operator_id, name, city, address, created_at, updated_at FROM hotels WHERE id = ?`
	var h model.Hotel
	err := r.db.QueryRowContext(ctx, q, id).Scan(&h.ID, &h.OperatorID, &h.Name, &h.City, &h.Address, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	return &h, nil
}

// GetByIDAndOperator retrieves a hotel but only if it is managed by the
// given operator.  This helper is used to enforce resource ownership.
// If no matching hotel is found, ErrHotelNotFound is returned.
func (r *HotelRepo) GetByIDAndOperator(ctx context.Context, id, operatorID uint64) (*model.Hotel, error) {
	const q = `SELECT id, operator_id, name, city, address, created_at, updated_at FROM hotels WHERE id = ? AND operator_id = ?`
	var h model.Hotel
	err := r.db.QueryRowContext(ctx, q, id, operatorID).Scan(&h.ID, &h.OperatorID, &h.Name, &h.City, &h.Address, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	return &h, nil
}

// ListByOperator returns all hotels managed by the operator, ordered by id.
func (r *HotelRepo) ListByOperator(ctx context.Context, operatorID uint64) ([]*model.Hotel, error) {
	const q = `SELECT id, operator_id, name, city, address, created_at, updated_at
               FROM hotels
               WHERE operator_id = ?
               ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, operatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Hotel
	for rows.Next() {
		h := new(model.Hotel)
		if err := rows.Scan(&h.ID, &h.OperatorID, &h.Name, &h.City, &h.Address, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ListAll returns every hotel for public browsing, ordered by id.
func (r *HotelRepo) ListAll(ctx context.Context) ([]*model.Hotel, error) {
	const q = `SELECT id, operator_id, name, city, address, created_at, updated_at FROM hotels ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Hotel
	for rows.Next() {
		h := new(model.Hotel)
		if err := rows.Scan(&h.ID, &h.OperatorID, &h.Name, &h.City, &h.Address, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Update modifies name, city and address of a hotel owned by the
// operator.  It returns ErrHotelNotFound when the hotel does not exist
// or belongs to someone else.
func (r *HotelRepo) Update(ctx context.Context, h *model.Hotel) error {
	const q = `UPDATE hotels SET name = ?, city = ?, address = ? WHERE id = ? AND operator_id = ?`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.City, h.Address, h.ID, h.OperatorID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either missing or foreign; distinguish so handlers can return 403 vs 404.
		var owner uint64
		err := r.db.QueryRowContext(ctx, `SELECT operator_id FROM hotels WHERE id = ?`, h.ID).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrHotelNotFound
		}
		if err != nil {
			return err
		}
		if owner != h.OperatorID {
			return ErrForbidden
		}
	}
	const sel = `SELECT id, operator_id, name, city, address, created_at, updated_at FROM hotels WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, h.ID).
		Scan(&h.ID, &h.OperatorID, &h.Name, &h.City, &h.Address, &h.CreatedAt, &h.UpdatedAt)
}
