package api

import (
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"wishlist-microservices/wishlist-service/internal/idempotency"
	"wishlist-microservices/wishlist-service/internal/service"
)

const headerIdempotentKey = "Idempotent-Key"

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

type WishlistHandler struct {
	wishlistService *service.WishlistService
	guard           idempotency.Guard
}

func NewWishlistHandler(wishlistService *service.WishlistService, guard idempotency.Guard) *WishlistHandler {
	if guard == nil {
		guard = idempotency.NopGuard{}
	}
	return &WishlistHandler{wishlistService: wishlistService, guard: guard}
}

// RegisterRoutes mounts the wishlist-service endpoints on e.
func RegisterRoutes(e *echo.Echo, h *WishlistHandler) {
	e.POST("/wishlists", h.CreateWishlist)
	e.GET("/wishlists/:wishlist_id", h.GetWishlist)
	e.PUT("/wishlists/:wishlist_id/visibility", h.SetVisibility)
	e.POST("/gifts", h.AddGift)
	e.DELETE("/gifts/:gift_id", h.RemoveGift)
}

// CreateWishlist --> POST /wishlists/
func (h *WishlistHandler) CreateWishlist(c echo.Context) error {
	req := struct {
		UserID *int `json:"user_id"`
	}{}
	if err := c.Bind(&req); err != nil || req.UserID == nil {
		return detail(c, http.StatusBadRequest, "Invalid request payload")
	}
	key := c.Request().Header.Get(headerIdempotentKey)
	if err := h.claim(c, "wishlists", key); err != nil {
		return err
	}

	wishlist, err := h.wishlistService.CreateWishlist(c.Request().Context(), *req.UserID)
	if err != nil {
		h.release(c, "wishlists", key)
	}
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return detail(c, http.StatusBadRequest, "User does not exist")
	case errors.Is(err, service.ErrUserServiceUnavailable):
		return detail(c, http.StatusServiceUnavailable, "User service unavailable")
	case err != nil:
		return err
	}

	return c.JSON(http.StatusOK, wishlist)
}

// GetWishlist --> GET /wishlists/:wishlist_id
func (h *WishlistHandler) GetWishlist(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("wishlist_id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid wishlist ID")
	}

	wishlist, err := h.wishlistService.GetWishlist(c.Request().Context(), id)
	if errors.Is(err, service.ErrWishlistNotFound) {
		return detail(c, http.StatusNotFound, "Wishlist not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, wishlist)
}

// SetVisibility --> PUT /wishlists/:wishlist_id/visibility?is_public=
func (h *WishlistHandler) SetVisibility(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("wishlist_id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid wishlist ID")
	}
	public, err := parseBool(c.QueryParam("is_public"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid is_public")
	}

	err = h.wishlistService.SetVisibility(c.Request().Context(), id, public)
	if errors.Is(err, service.ErrWishlistNotFound) {
		return detail(c, http.StatusNotFound, "Wishlist not found")
	}
	if err != nil {
		return err
	}

	visibility := "private"
	if public {
		visibility = "public"
	}
	return message(c, fmt.Sprintf("Wishlist %d visibility set to %s", id, visibility))
}

// AddGift --> POST /gifts/
func (h *WishlistHandler) AddGift(c echo.Context) error {
	req := struct {
		WishlistID *int    `json:"wishlist_id"`
		Name       *string `json:"name"`
	}{}
	if err := c.Bind(&req); err != nil || req.WishlistID == nil || req.Name == nil {
		return detail(c, http.StatusBadRequest, "Invalid request payload")
	}
	key := c.Request().Header.Get(headerIdempotentKey)
	if err := h.claim(c, "gifts", key); err != nil {
		return err
	}

	gift, err := h.wishlistService.AddGift(c.Request().Context(), *req.WishlistID, *req.Name)
	if err != nil {
		h.release(c, "gifts", key)
	}
	if errors.Is(err, service.ErrWishlistNotFound) {
		return detail(c, http.StatusBadRequest, "Wishlist not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, gift)
}

// RemoveGift --> DELETE /gifts/:gift_id
func (h *WishlistHandler) RemoveGift(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("gift_id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid gift ID")
	}

	if err := h.wishlistService.RemoveGift(c.Request().Context(), id); err != nil {
		return err
	}

	return message(c, fmt.Sprintf("Gift %d removed from wishlist", id))
}

// claim rejects a repeated Idempotent-Key with 409.
func (h *WishlistHandler) claim(c echo.Context, scope, key string) error {
	err := h.guard.Claim(c.Request().Context(), scope, key)
	if errors.Is(err, idempotency.ErrDuplicateRequest) {
		return echo.NewHTTPError(http.StatusConflict, "Duplicate request")
	}
	return err
}

// release gives the key back after a failed request so a retry is not
// mistaken for a replay.
func (h *WishlistHandler) release(c echo.Context, scope, key string) {
	if err := h.guard.Release(c.Request().Context(), scope, key); err != nil {
		logger.Error().Err(err).Str("scope", scope).Msg("Failed to release idempotent key")
	}
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return strconv.ParseBool(strings.ToLower(s))
}

func detail(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"detail": msg})
}

func message(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, map[string]string{"message": msg})
}
