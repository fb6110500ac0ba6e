package service

import (
	"context"
	"errors"
	"github.com/rs/zerolog"
	"os"
	"wishlist-microservices/internal/events"
	"wishlist-microservices/wishlist-service/internal/client"
	"wishlist-microservices/wishlist-service/internal/entity"
	"wishlist-microservices/wishlist-service/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

var (
	ErrUserNotFound           = errors.New("user does not exist")
	ErrUserServiceUnavailable = errors.New("user service unavailable")
	ErrWishlistNotFound       = errors.New("wishlist not found")
)

type Repository interface {
	CreateWishlist(ctx context.Context, wishlist *entity.Wishlist) (*entity.Wishlist, error)
	GetWishlistByID(ctx context.Context, id int) (*entity.Wishlist, error)
	CreateGift(ctx context.Context, gift *entity.Gift) (*entity.Gift, error)
	DeleteGift(ctx context.Context, id int) (bool, error)
	ListGifts(ctx context.Context, wishlistID int) ([]entity.Gift, error)
}

// UserLookup resolves user ids against the user service. Implementations
// return client.ErrNotFound or client.ErrUnavailable.
type UserLookup interface {
	GetUser(ctx context.Context, id int) (*entity.User, error)
}

// WishlistService is a service that provides wishlist and gift operations
type WishlistService struct {
	repo      Repository
	users     UserLookup
	publisher events.Publisher
}

// NewWishlistService creates a new instance of WishlistService
func NewWishlistService(repo Repository, users UserLookup, publisher events.Publisher) *WishlistService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &WishlistService{repo: repo, users: users, publisher: publisher}
}

// CreateWishlist validates the owner against the user service, then stores
// the wishlist. The check is not repeated later.
func (s *WishlistService) CreateWishlist(ctx context.Context, userID int) (*entity.Wishlist, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error().Err(err).Msgf("Error checking user %d", userID)
		return nil, ErrUserServiceUnavailable
	}

	wishlist, err := s.repo.CreateWishlist(ctx, &entity.Wishlist{UserID: userID})
	if err != nil {
		logger.Error().Err(err).Msg("Error creating wishlist")
		return nil, err
	}

	s.publish(ctx, events.New("wishlist-created", wishlist.ID, wishlist))
	return wishlist, nil
}

func (s *WishlistService) GetWishlist(ctx context.Context, id int) (*entity.WishlistDetail, error) {
	wishlist, err := s.getWishlist(ctx, id)
	if err != nil {
		return nil, err
	}

	gifts, err := s.repo.ListGifts(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error listing gifts for wishlist %d", id)
		return nil, err
	}

	return &entity.WishlistDetail{Wishlist: *wishlist, Gifts: gifts}, nil
}

// SetVisibility only confirms the wishlist exists; visibility is not stored.
func (s *WishlistService) SetVisibility(ctx context.Context, id int, public bool) error {
	if _, err := s.getWishlist(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.New("wishlist-visibility", id, map[string]bool{"is_public": public}))
	return nil
}

func (s *WishlistService) AddGift(ctx context.Context, wishlistID int, name string) (*entity.Gift, error) {
	if _, err := s.getWishlist(ctx, wishlistID); err != nil {
		return nil, err
	}

	gift, err := s.repo.CreateGift(ctx, &entity.Gift{WishlistID: wishlistID, Name: name})
	if err != nil {
		logger.Error().Err(err).Msgf("Error adding gift to wishlist %d", wishlistID)
		return nil, err
	}

	s.publish(ctx, events.New("gift-added", gift.ID, gift))
	return gift, nil
}

// RemoveGift succeeds whether or not the gift exists.
func (s *WishlistService) RemoveGift(ctx context.Context, id int) error {
	deleted, err := s.repo.DeleteGift(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error removing gift %d", id)
		return err
	}

	if deleted {
		s.publish(ctx, events.New("gift-removed", id, nil))
	}
	return nil
}

func (s *WishlistService) getWishlist(ctx context.Context, id int) (*entity.Wishlist, error) {
	wishlist, err := s.repo.GetWishlistByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWishlistNotFound
		}
		logger.Error().Err(err).Msgf("Error getting wishlist by ID %d", id)
		return nil, err
	}
	return wishlist, nil
}

func (s *WishlistService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn().Err(err).Str("key", event.Key()).Msg("Error publishing event")
	}
}
