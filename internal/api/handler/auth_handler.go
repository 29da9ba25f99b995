package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/afiya/health-system/internal/api/metrics"
	"github.com/afiya/health-system/internal/core/domain"
	"github.com/afiya/health-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type registerRequest struct {
	Username  string `json:"username" validate:"required,max=150"`
	Password  string `json:"password" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type profileResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Login authenticates a user and returns a session token with the
// identity's profile fields. Missing fields are each named; a credential
// mismatch is one generic error regardless of which credential was wrong.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	ve := &domain.ValidationError{}
	if req.Username == "" {
		ve.Add("username", "This field is required.")
	}
	if req.Password == "" {
		ve.Add("password", "This field is required.")
	}
	if !ve.Empty() {
		return ve
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

// Register creates a doctor identity. Open to unauthenticated callers.
//
// @Summary      Register a doctor
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Identity fields"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /doctors/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	_, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{
		Message: "Registration successful. You can now login.",
	})
}

// Profile returns the authenticated user's identity fields.
//
// @Summary      Get the current user's profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Router       /user/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	})
}
