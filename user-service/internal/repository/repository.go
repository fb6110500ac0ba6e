package repository

import (
	"context"
	"database/sql"
	"errors"
	"wishlist-microservices/user-service/internal/entity"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user := &entity.User{}
	query := `SELECT id, username, password FROM users WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Username, &user.Password)
	if err != nil {
		return nil, notFound(err)
	}

	return user, nil
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	user := &entity.User{}
	query := `SELECT id, username, password FROM users WHERE username = ?`
	err := r.db.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &user.Password)
	if err != nil {
		return nil, notFound(err)
	}

	return user, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `INSERT INTO users (username, password) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, user.Username, user.Password)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	user.ID = int(id)
	return user, nil
}

func (r *UserRepository) AddFriend(ctx context.Context, friend *entity.Friend) (*entity.Friend, error) {
	query := `INSERT INTO friends (user_id, friend_id) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, friend.UserID, friend.FriendID)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	friend.ID = int(id)
	return friend, nil
}

// RemoveFriend deletes every matching edge and returns how many were removed.
func (r *UserRepository) RemoveFriend(ctx context.Context, userID, friendID int) (int64, error) {
	query := `DELETE FROM friends WHERE user_id = ? AND friend_id = ?`
	res, err := r.db.ExecContext(ctx, query, userID, friendID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *UserRepository) AddInterest(ctx context.Context, interest *entity.Interest) (*entity.Interest, error) {
	query := `INSERT INTO interests (user_id, interest) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, interest.UserID, interest.Interest)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	interest.ID = int(id)
	return interest, nil
}

func (r *UserRepository) GetInterestByID(ctx context.Context, id int) (*entity.Interest, error) {
	interest := &entity.Interest{}
	query := `SELECT id, user_id, interest FROM interests WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&interest.ID, &interest.UserID, &interest.Interest)
	if err != nil {
		return nil, notFound(err)
	}

	return interest, nil
}

func (r *UserRepository) UpdateInterest(ctx context.Context, id int, text string) error {
	query := `UPDATE interests SET interest = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, text, id)
	return err
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
