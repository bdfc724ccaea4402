package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"vendorstock/internal/model"
)

// CreatePromoBatch generates count promo codes with the same discount,
// usage cap, and expiry. Codes are random and inserted in one transaction;
// either the whole batch exists or none of it does.
func CreatePromoBatch(ctx context.Context, db *sql.DB, count, discountPercent, maxUses int, expiresAt *time.Time) ([]model.PromoCode, error) {
	if count <= 0 || count > 1000 {
		return nil, fmt.Errorf("count must be between 1 and 1000")
	}
	if discountPercent < 1 || discountPercent > 100 {
		return nil, fmt.Errorf("discount_percent must be between 1 and 100")
	}
	if maxUses < 0 {
		return nil, fmt.Errorf("max_uses must not be negative")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO promo_codes (code, discount_percent, max_uses, expires_at) VALUES (?, ?, ?, ?)`,
			newPromoCode(), discountPercent, maxUses, expiresAt,
		)
		if err != nil {
			return nil, fmt.Errorf("creating promo code: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("getting promo code id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing promo batch: %w", err)
	}

	codes := make([]model.PromoCode, 0, count)
	for _, id := range ids {
		p, err := getPromoWhere(ctx, db, "id = ?", id)
		if err != nil {
			return nil, err
		}
		codes = append(codes, *p)
	}
	return codes, nil
}

// newPromoCode derives a short human-enterable code from a UUID.
func newPromoCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "PR-" + strings.ToUpper(raw[:10])
}

// GetPromoCode returns a promo code by its code string.
func GetPromoCode(ctx context.Context, db *sql.DB, code string) (*model.PromoCode, error) {
	return getPromoWhere(ctx, db, "code = ?", code)
}

func getPromoWhere(ctx context.Context, db *sql.DB, cond string, arg any) (*model.PromoCode, error) {
	p := &model.PromoCode{}
	var expiresAt sql.NullTime
	err := db.QueryRowContext(ctx,
		`SELECT id, code, discount_percent, max_uses, used_count, expires_at, active, created_at
		 FROM promo_codes WHERE `+cond, arg,
	).Scan(&p.ID, &p.Code, &p.DiscountPercent, &p.MaxUses, &p.UsedCount, &expiresAt, &p.Active, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting promo code: %w", err)
	}
	if expiresAt.Valid {
		p.ExpiresAt = &expiresAt.Time
	}
	return p, nil
}

// ListPromoCodes returns a page of promo codes, newest first, and the
// total count.
func ListPromoCodes(ctx context.Context, db *sql.DB, page, limit int) ([]model.PromoCode, int, error) {
	var total int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM promo_codes`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting promo codes: %w", err)
	}

	sqlLimit, offset := normalizePage(page, limit)
	rows, err := db.QueryContext(ctx,
		`SELECT id, code, discount_percent, max_uses, used_count, expires_at, active, created_at
		 FROM promo_codes ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		sqlLimit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing promo codes: %w", err)
	}
	defer rows.Close()

	var codes []model.PromoCode
	for rows.Next() {
		var p model.PromoCode
		var expiresAt sql.NullTime
		if err := rows.Scan(&p.ID, &p.Code, &p.DiscountPercent, &p.MaxUses, &p.UsedCount, &expiresAt, &p.Active, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning promo code: %w", err)
		}
		if expiresAt.Valid {
			p.ExpiresAt = &expiresAt.Time
		}
		codes = append(codes, p)
	}
	return codes, total, rows.Err()
}

// DeactivatePromoCode turns a code off without deleting its usage history.
func DeactivatePromoCode(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE promo_codes SET active = 0 WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("deactivating promo code: %w", err)
	}
	return nil
}

// RedeemPromoCode consumes one use of a code. The usability checks live in
// the UPDATE's WHERE clause so concurrent redemptions cannot overshoot
// the usage cap.
func RedeemPromoCode(ctx context.Context, db *sql.DB, code string) (*model.PromoCode, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE promo_codes SET used_count = used_count + 1
		 WHERE code = ? AND active = 1
		   AND (max_uses = 0 OR used_count < max_uses)
		   AND (expires_at IS NULL OR expires_at > CURRENT_TIMESTAMP)`,
		code,
	)
	if err != nil {
		return nil, fmt.Errorf("redeeming promo code: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("redeeming promo code: %w", err)
	}
	if n == 0 {
		return nil, ErrPromoNotUsable
	}

	return GetPromoCode(ctx, db, code)
}
