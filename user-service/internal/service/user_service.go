package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"os"
	"wishlist-microservices/internal/database"
	"wishlist-microservices/internal/events"
	"wishlist-microservices/user-service/internal/entity"
	"wishlist-microservices/user-service/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

var (
	ErrDuplicateUsername  = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooLong    = errors.New("password too long")
	ErrUserNotFound       = errors.New("user not found")
	ErrInterestNotFound   = errors.New("interest not found")
)

// Repository is the storage the service needs; *repository.UserRepository implements it.
type Repository interface {
	GetUserByID(ctx context.Context, id int) (*entity.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	AddFriend(ctx context.Context, friend *entity.Friend) (*entity.Friend, error)
	RemoveFriend(ctx context.Context, userID, friendID int) (int64, error)
	AddInterest(ctx context.Context, interest *entity.Interest) (*entity.Interest, error)
	GetInterestByID(ctx context.Context, id int) (*entity.Interest, error)
	UpdateInterest(ctx context.Context, id int, text string) error
}

type UserService struct {
	repo      Repository
	publisher events.Publisher
	hashCost  int
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo Repository, publisher events.Publisher) *UserService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &UserService{repo: repo, publisher: publisher, hashCost: bcrypt.DefaultCost}
}

// Register creates a user after checking the username is free. Two
// concurrent registrations can both pass the check; the unique index then
// rejects the loser, which is reported the same way.
func (s *UserService) Register(ctx context.Context, username, password string) (*entity.User, error) {
	_, err := s.repo.GetUserByUsername(ctx, username)
	if err == nil {
		return nil, ErrDuplicateUsername
	}
	if !errors.Is(err, repository.ErrNotFound) {
		logger.Error().Err(err).Msgf("Error checking username %q", username)
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, &entity.User{Username: username, Password: string(hash)})
	if err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrDuplicateUsername
		}
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}

	s.publish(ctx, events.New("user-registered", user.ID, map[string]any{"username": user.Username}))
	return user, nil
}

// Login returns the user whose username and password both match.
func (s *UserService) Login(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		logger.Error().Err(err).Msgf("Error getting user %q", username)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID retrieves a user by ID.
func (s *UserService) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error().Err(err).Msgf("Error getting user by ID %d", id)
		return nil, err
	}

	return user, nil
}

// AddFriend records a one-way edge. Neither id is checked.
func (s *UserService) AddFriend(ctx context.Context, userID, friendID int) error {
	friend, err := s.repo.AddFriend(ctx, &entity.Friend{UserID: userID, FriendID: friendID})
	if err != nil {
		logger.Error().Err(err).Msgf("Error adding friend %d for user %d", friendID, userID)
		return err
	}

	s.publish(ctx, events.New("friend-added", friend.ID, friend))
	return nil
}

// RemoveFriend deletes every matching edge; removing nothing is not an error.
func (s *UserService) RemoveFriend(ctx context.Context, userID, friendID int) error {
	removed, err := s.repo.RemoveFriend(ctx, userID, friendID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error removing friend %d for user %d", friendID, userID)
		return err
	}

	if removed > 0 {
		s.publish(ctx, events.New("friend-removed", userID, map[string]any{"friend_id": friendID, "removed": removed}))
	}
	return nil
}

func (s *UserService) AddInterest(ctx context.Context, userID int, text string) (*entity.Interest, error) {
	interest, err := s.repo.AddInterest(ctx, &entity.Interest{UserID: userID, Interest: text})
	if err != nil {
		logger.Error().Err(err).Msgf("Error adding interest for user %d", userID)
		return nil, err
	}

	s.publish(ctx, events.New("interest-added", interest.ID, interest))
	return interest, nil
}

func (s *UserService) EditInterest(ctx context.Context, id int, text string) (*entity.Interest, error) {
	interest, err := s.repo.GetInterestByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInterestNotFound
		}
		logger.Error().Err(err).Msgf("Error getting interest %d", id)
		return nil, err
	}

	if err := s.repo.UpdateInterest(ctx, id, text); err != nil {
		logger.Error().Err(err).Msgf("Error updating interest %d", id)
		return nil, err
	}
	interest.Interest = text

	s.publish(ctx, events.New("interest-updated", interest.ID, interest))
	return interest, nil
}

// publish is best-effort: the row is already committed.
func (s *UserService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn().Err(err).Str("key", event.Key()).Msg("Error publishing event")
	}
}
