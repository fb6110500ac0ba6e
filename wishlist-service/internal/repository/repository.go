package repository

import (
	"context"
	"database/sql"
	"errors"
	"wishlist-microservices/wishlist-service/internal/entity"
)

var ErrNotFound = errors.New("record not found")

type WishlistRepository struct {
	db *sql.DB
}

func NewWishlistRepository(db *sql.DB) *WishlistRepository {
	return &WishlistRepository{db}
}

func (r *WishlistRepository) CreateWishlist(ctx context.Context, wishlist *entity.Wishlist) (*entity.Wishlist, error) {
	query := `INSERT INTO wishlists (user_id) VALUES (?)`
	res, err := r.db.ExecContext(ctx, query, wishlist.UserID)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	wishlist.ID = int(id)
	return wishlist, nil
}

func (r *WishlistRepository) GetWishlistByID(ctx context.Context, id int) (*entity.Wishlist, error) {
	wishlist := &entity.Wishlist{}
	query := `SELECT id, user_id FROM wishlists WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&wishlist.ID, &wishlist.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return wishlist, nil
}

func (r *WishlistRepository) CreateGift(ctx context.Context, gift *entity.Gift) (*entity.Gift, error) {
	query := `INSERT INTO gifts (wishlist_id, name) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, gift.WishlistID, gift.Name)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	gift.ID = int(id)
	return gift, nil
}

// DeleteGift removes the gift if present and reports whether a row was deleted.
func (r *WishlistRepository) DeleteGift(ctx context.Context, id int) (bool, error) {
	query := `DELETE FROM gifts WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *WishlistRepository) ListGifts(ctx context.Context, wishlistID int) ([]entity.Gift, error) {
	query := `SELECT id, wishlist_id, name FROM gifts WHERE wishlist_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, wishlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gifts := []entity.Gift{}
	for rows.Next() {
		gift := entity.Gift{}
		if err := rows.Scan(&gift.ID, &gift.WishlistID, &gift.Name); err != nil {
			return nil, err
		}
		gifts = append(gifts, gift)
	}

	return gifts, rows.Err()
}
