package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/models"
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
	"github.com/finbooks/finbooks_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const voucherColumns = `voucher_id, voucher_number, voucher_type, company_id, location_id, voucher_date, currency_code, exchange_rate, status, total_amount, notes, reversal_of_id, reversed_by_id, version, created_at, created_by, last_updated_at, last_updated_by`

const voucherLineColumns = `line_id, voucher_id, account_id, cost_center_id, department_id, partner_id, bank_account_id, debit, credit, notes, created_at, created_by, last_updated_at, last_updated_by`

type PgxVoucherRepository struct {
	BaseRepository
	voucherTxWriter
}

// newPgxVoucherRepository creates a new repository for voucher and line data.
func newPgxVoucherRepository(pool *pgxpool.Pool) portsrepo.VoucherRepository {
	return &PgxVoucherRepository{
		BaseRepository:  BaseRepository{Pool: pool},
		voucherTxWriter: voucherTxWriter{db: pool},
	}
}

// Ensure PgxVoucherRepository implements portsrepo.VoucherRepository
var _ portsrepo.VoucherRepository = (*PgxVoucherRepository)(nil)

// voucherTxWriter implements the write half against either the pool or an
// open transaction.
type voucherTxWriter struct {
	db querier
}

var _ portsrepo.VoucherWriter = (*voucherTxWriter)(nil)

// WithTx runs fn inside one database transaction. Every write fn performs
// through the provided writer commits or rolls back as a unit.
func (r *PgxVoucherRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.VoucherWriter) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := fn(ctx, &voucherTxWriter{db: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveVoucher persists a new voucher header and its lines atomically. When
// called outside WithTx it opens its own transaction.
func (r *PgxVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher, lines []domain.VoucherLine) error {
	return r.WithTx(ctx, func(ctx context.Context, tx portsrepo.VoucherWriter) error {
		return tx.SaveVoucher(ctx, voucher, lines)
	})
}

// ReplaceVoucherLines swaps the full line set of a DRAFT voucher atomically.
// When called outside WithTx it opens its own transaction.
func (r *PgxVoucherRepository) ReplaceVoucherLines(ctx context.Context, voucherID string, expectedVersion int64, lines []domain.VoucherLine, totalAmount decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	return r.WithTx(ctx, func(ctx context.Context, tx portsrepo.VoucherWriter) error {
		return tx.ReplaceVoucherLines(ctx, voucherID, expectedVersion, lines, totalAmount, updatedBy, updatedAt)
	})
}

func (w *voucherTxWriter) SaveVoucher(ctx context.Context, voucher domain.Voucher, lines []domain.VoucherLine) error {
	modelVoucher := mapping.ToModelVoucher(voucher)

	// Drafts carry no number yet; store NULL so the partial unique index on
	// voucher_number only covers posted vouchers.
	var voucherNumber sql.NullString
	if modelVoucher.VoucherNumber != "" {
		voucherNumber = sql.NullString{String: modelVoucher.VoucherNumber, Valid: true}
	}

	headerQuery := `
		INSERT INTO vouchers (` + voucherColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := w.db.Exec(ctx, headerQuery,
		modelVoucher.VoucherID,
		voucherNumber,
		modelVoucher.VoucherType,
		modelVoucher.CompanyID,
		modelVoucher.LocationID,
		modelVoucher.VoucherDate,
		modelVoucher.CurrencyCode,
		modelVoucher.ExchangeRate,
		modelVoucher.Status,
		modelVoucher.TotalAmount,
		modelVoucher.Notes,
		modelVoucher.ReversalOfID,
		modelVoucher.ReversedByID,
		modelVoucher.Version,
		modelVoucher.CreatedAt,
		modelVoucher.CreatedBy,
		modelVoucher.LastUpdatedAt,
		modelVoucher.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: voucher %s already exists", apperrors.ErrDuplicate, modelVoucher.VoucherID)
		}
		return fmt.Errorf("failed to insert voucher %s: %w", modelVoucher.VoucherID, err)
	}

	return w.insertLines(ctx, lines)
}

func (w *voucherTxWriter) insertLines(ctx context.Context, lines []domain.VoucherLine) error {
	lineQuery := `
		INSERT INTO voucher_lines (` + voucherLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelVoucherLine(line)
		batch.Queue(lineQuery,
			m.LineID,
			m.VoucherID,
			m.AccountID,
			m.CostCenterID,
			m.DepartmentID,
			m.PartnerID,
			m.BankAccountID,
			m.Debit,
			m.Credit,
			m.Notes,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()
	for range lines {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert voucher line: %w", err)
		}
	}
	return nil
}

func (w *voucherTxWriter) ReplaceVoucherLines(ctx context.Context, voucherID string, expectedVersion int64, lines []domain.VoucherLine, totalAmount decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	// The version and status guards live in the WHERE clause; a zero-row
	// update means another writer won the race or the voucher left DRAFT.
	headerQuery := `
		UPDATE vouchers
		SET total_amount = $1, version = version + 1, last_updated_at = $2, last_updated_by = $3
		WHERE voucher_id = $4 AND status = 'DRAFT' AND version = $5;
	`
	tag, err := w.db.Exec(ctx, headerQuery, totalAmount, updatedAt, updatedBy, voucherID, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update voucher %s for line replacement: %w", voucherID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: voucher %s changed concurrently or is no longer a draft", apperrors.ErrConflict, voucherID)
	}

	if _, err := w.db.Exec(ctx, `DELETE FROM voucher_lines WHERE voucher_id = $1;`, voucherID); err != nil {
		return fmt.Errorf("failed to delete lines of voucher %s: %w", voucherID, err)
	}

	return w.insertLines(ctx, lines)
}

func (w *voucherTxWriter) MarkVoucherPosted(ctx context.Context, voucherID string, expectedVersion int64, voucherNumber string, postedBy string, postedAt time.Time) error {
	query := `
		UPDATE vouchers
		SET status = 'POSTED', voucher_number = $1, version = version + 1, last_updated_at = $2, last_updated_by = $3
		WHERE voucher_id = $4 AND status = 'DRAFT' AND version = $5;
	`
	tag, err := w.db.Exec(ctx, query, voucherNumber, postedAt, postedBy, voucherID, expectedVersion)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation on voucher_number
			return fmt.Errorf("%w: voucher number %s already taken", apperrors.ErrDuplicate, voucherNumber)
		}
		return fmt.Errorf("failed to mark voucher %s posted: %w", voucherID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: voucher %s changed concurrently or is no longer a draft", apperrors.ErrConflict, voucherID)
	}
	return nil
}

func (w *voucherTxWriter) MarkVoucherReversed(ctx context.Context, voucherID string, reversedByID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE vouchers
		SET status = 'REVERSED', reversed_by_id = $1, version = version + 1, last_updated_at = $2, last_updated_by = $3
		WHERE voucher_id = $4 AND status = 'POSTED' AND reversed_by_id IS NULL;
	`
	tag, err := w.db.Exec(ctx, query, reversedByID, updatedAt, updatedBy, voucherID)
	if err != nil {
		return fmt.Errorf("failed to mark voucher %s reversed: %w", voucherID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: voucher %s is not POSTED or already has a reversal", apperrors.ErrConflict, voucherID)
	}
	return nil
}

func (w *voucherTxWriter) UpdateVoucherNotes(ctx context.Context, voucherID string, notes string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE vouchers
		SET notes = $1, last_updated_at = $2, last_updated_by = $3
		WHERE voucher_id = $4;
	`
	tag, err := w.db.Exec(ctx, query, notes, updatedAt, updatedBy, voucherID)
	if err != nil {
		return fmt.Errorf("failed to update notes of voucher %s: %w", voucherID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: voucher %s", apperrors.ErrNotFound, voucherID)
	}
	return nil
}

// FindVoucherByID retrieves a voucher header by its ID. Lines are loaded
// separately via FindLinesByVoucherID.
func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE voucher_id = $1;`

	modelVoucher, err := scanVoucher(r.Pool.QueryRow(ctx, query, voucherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find voucher by ID %s: %w", voucherID, err)
	}

	domainVoucher := mapping.ToDomainVoucher(modelVoucher)
	return &domainVoucher, nil
}

// FindLinesByVoucherID retrieves all lines of a voucher in insertion order.
func (r *PgxVoucherRepository) FindLinesByVoucherID(ctx context.Context, voucherID string) ([]domain.VoucherLine, error) {
	query := `SELECT ` + voucherLineColumns + ` FROM voucher_lines WHERE voucher_id = $1 ORDER BY created_at, line_id;`

	rows, err := r.Pool.Query(ctx, query, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of voucher %s: %w", voucherID, err)
	}
	defer rows.Close()

	var modelLines []models.VoucherLine
	for rows.Next() {
		var m models.VoucherLine
		if err := rows.Scan(
			&m.LineID,
			&m.VoucherID,
			&m.AccountID,
			&m.CostCenterID,
			&m.DepartmentID,
			&m.PartnerID,
			&m.BankAccountID,
			&m.Debit,
			&m.Credit,
			&m.Notes,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan voucher line row: %w", err)
		}
		modelLines = append(modelLines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voucher line rows: %w", err)
	}

	return mapping.ToDomainVoucherLineSlice(modelLines), nil
}

// ListVouchers retrieves a filtered page of voucher headers ordered by voucher
// date then creation time, newest first, with keyset pagination.
func (r *PgxVoucherRepository) ListVouchers(ctx context.Context, filter portsrepo.ListVouchersFilter, limit int, nextToken *string) ([]domain.Voucher, *string, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE company_id = $1`
	args := []any{filter.CompanyID}

	if filter.LocationID != "" {
		args = append(args, filter.LocationID)
		query += ` AND location_id = $` + strconv.Itoa(len(args))
	}
	if filter.VoucherType != "" {
		args = append(args, string(filter.VoucherType))
		query += ` AND voucher_type = $` + strconv.Itoa(len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		query += ` AND voucher_date >= $` + strconv.Itoa(len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		query += ` AND voucher_date <= $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		tokenDate, tokenCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, tokenDate, tokenCreatedAt)
		query += fmt.Sprintf(" AND (voucher_date, created_at) < ($%d, $%d)", len(args)-1, len(args))
	}

	// Fetch one extra row to detect whether another page exists.
	args = append(args, limit+1)
	query += ` ORDER BY voucher_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []domain.Voucher
	for rows.Next() {
		m, err := scanVoucher(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan voucher row: %w", err)
		}
		vouchers = append(vouchers, mapping.ToDomainVoucher(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating voucher rows: %w", err)
	}

	var token *string
	if len(vouchers) > limit {
		vouchers = vouchers[:limit]
		last := vouchers[len(vouchers)-1]
		t := pagination.EncodeToken(last.VoucherDate, last.CreatedAt)
		token = &t
	}

	return vouchers, token, nil
}

// scanVoucher reads one header row into a model, handling the nullable number.
func scanVoucher(row pgx.Row) (models.Voucher, error) {
	var m models.Voucher
	var voucherNumber sql.NullString

	err := row.Scan(
		&m.VoucherID,
		&voucherNumber,
		&m.VoucherType,
		&m.CompanyID,
		&m.LocationID,
		&m.VoucherDate,
		&m.CurrencyCode,
		&m.ExchangeRate,
		&m.Status,
		&m.TotalAmount,
		&m.Notes,
		&m.ReversalOfID,
		&m.ReversedByID,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Voucher{}, err
	}

	if voucherNumber.Valid {
		m.VoucherNumber = voucherNumber.String
	}
	return m, nil
}
