package api

import (
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"net/http"
	"strconv"
	"wishlist-microservices/user-service/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new instance of UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes mounts the user-service endpoints on e.
func RegisterRoutes(e *echo.Echo, h *UserHandler) {
	e.POST("/register", h.Register)
	e.POST("/login", h.Login)
	e.POST("/friends/add/:friend_id", h.AddFriend)
	e.DELETE("/friends/remove/:friend_id", h.RemoveFriend)
	e.POST("/interests", h.AddInterest)
	e.PUT("/interests/:interest_id", h.EditInterest)
	e.POST("/share_wishlist/:wishlist_id", h.ShareWishlist)
	e.GET("/users/:user_id", h.GetUserByID)
}

// Pointer fields tell an absent key apart from an empty value.
type credentials struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

func (r credentials) complete() bool {
	return r.Username != nil && r.Password != nil
}

// Register creates a user --> POST /register
func (h *UserHandler) Register(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil || !req.complete() {
		return detail(c, http.StatusBadRequest, "Invalid request payload")
	}

	user, err := h.userService.Register(c.Request().Context(), *req.Username, *req.Password)
	switch {
	case errors.Is(err, service.ErrDuplicateUsername):
		return detail(c, http.StatusBadRequest, "Username already registered")
	case errors.Is(err, service.ErrPasswordTooLong):
		return detail(c, http.StatusBadRequest, "Password too long")
	case err != nil:
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// Login checks a username/password pair --> POST /login
func (h *UserHandler) Login(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil || !req.complete() {
		return detail(c, http.StatusBadRequest, "Invalid request payload")
	}

	user, err := h.userService.Login(c.Request().Context(), *req.Username, *req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return detail(c, http.StatusBadRequest, "Invalid credentials")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"message": "Login successful", "user_id": user.ID})
}

// AddFriend --> POST /friends/add/:friend_id?user_id=
func (h *UserHandler) AddFriend(c echo.Context) error {
	friendID, err := strconv.Atoi(c.Param("friend_id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid friend ID")
	}
	userID, err := strconv.Atoi(c.QueryParam("user_id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.userService.AddFriend(c.Request().Context(), userID, friendID); err != nil {
		return err
	}

	return message(c, fmt.Sprintf("User %d added as a friend", friendID))
}

// RemoveFriend --> DELETE /friends/remove/:friend_id?user_id=
func (h *UserHandler) RemoveFriend(c echo.Context) error {
	friendID, err := strconv.Atoi(c.Param("friend_id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid friend ID")
	}
	userID, err := strconv.Atoi(c.QueryParam("user_id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.userService.RemoveFriend(c.Request().Context(), userID, friendID); err != nil {
		return err
	}

	return message(c, fmt.Sprintf("User %d removed as a friend", friendID))
}

// AddInterest --> POST /interests/
func (h *UserHandler) AddInterest(c echo.Context) error {
	req := struct {
		UserID   *int    `json:"user_id"`
		Interest *string `json:"interest"`
	}{}
	if err := c.Bind(&req); err != nil || req.UserID == nil || req.Interest == nil {
		return detail(c, http.StatusBadRequest, "Invalid request payload")
	}

	interest, err := h.userService.AddInterest(c.Request().Context(), *req.UserID, *req.Interest)
	if err != nil {
		return err
	}

	return message(c, fmt.Sprintf("Interest '%s' added for user %d", interest.Interest, interest.UserID))
}

// EditInterest --> PUT /interests/:interest_id?new_interest=
func (h *UserHandler) EditInterest(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("interest_id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid interest ID")
	}
	if !c.QueryParams().Has("new_interest") {
		return detail(c, http.StatusBadRequest, "Missing new_interest")
	}
	text := c.QueryParam("new_interest")

	_, err = h.userService.EditInterest(c.Request().Context(), id, text)
	if errors.Is(err, service.ErrInterestNotFound) {
		return detail(c, http.StatusNotFound, "Interest not found")
	}
	if err != nil {
		return err
	}

	return message(c, fmt.Sprintf("Interest %d updated to '%s'", id, text))
}

// ShareWishlist only acknowledges; nothing is stored and the wishlist
// service is not contacted. --> POST /share_wishlist/:wishlist_id?user_id=
func (h *UserHandler) ShareWishlist(c echo.Context) error {
	wishlistID, err := strconv.Atoi(c.Param("wishlist_id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid wishlist ID")
	}
	userID, err := strconv.Atoi(c.QueryParam("user_id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid user ID")
	}

	return message(c, fmt.Sprintf("Wishlist %d shared by user %d", wishlistID, userID))
}

// GetUserByID --> GET /users/:user_id
func (h *UserHandler) GetUserByID(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userService.GetUserByID(c.Request().Context(), id)
	if errors.Is(err, service.ErrUserNotFound) {
		return detail(c, http.StatusNotFound, "User not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func detail(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"detail": msg})
}

func message(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, map[string]string{"message": msg})
}
