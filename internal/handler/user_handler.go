package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sopra/user-service/shared/apperrors"
	"github.com/sopra/user-service/shared/cqrs"
	"github.com/sopra/user-service/shared/middleware"
	"github.com/sopra/user-service/shared/models"
	"go.uber.org/zap"
)

// UserCommander defines the write-side operations used by UserHandler.
type UserCommander interface {
	RegisterUser(context.Context, cqrs.RegisterUserCommand) (*models.User, error)
	LoginUser(context.Context, cqrs.LoginCommand) (*models.User, error)
	LogoutUser(context.Context, cqrs.LogoutCommand) (*models.User, error)
	UpdateUser(context.Context, cqrs.UpdateUserCommand) error
}

// UserQuerier defines the read-side operations used by UserHandler.
type UserQuerier interface {
	ListUsers(context.Context, cqrs.ListUsersQuery) ([]*models.UserView, error)
	GetUser(context.Context, cqrs.GetUserQuery) (*models.UserView, error)
}

// UserHandler routes requests to the command or query service as appropriate.
type UserHandler struct {
	commands UserCommander
	queries  UserQuerier
	log      *zap.Logger
}

type CreateUserRequest struct {
	Name      string `json:"name" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required,max=72"`
	BirthDate string `json:"birthDate"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LogoutRequest struct {
	Token string `json:"token"`
}

// UpdateUserRequest fields are optional; absent or empty values are left unchanged.
type UpdateUserRequest struct {
	Username  *string `json:"username"`
	BirthDate *string `json:"birthDate"`
}

func NewUserHandler(commands UserCommander, queries UserQuerier, log *zap.Logger) *UserHandler {
	return &UserHandler{commands: commands, queries: queries, log: log}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	views, err := h.queries.ListUsers(c.Request.Context(), cqrs.ListUsersQuery{})
	if err != nil {
		h.respondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	view, err := h.queries.GetUser(c.Request.Context(), cqrs.GetUserQuery{UserID: userID})
	if err != nil {
		h.respondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	user, err := h.commands.RegisterUser(c.Request.Context(), cqrs.RegisterUserCommand{
		Name:      req.Name,
		Username:  req.Username,
		Password:  req.Password,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		h.respondWithAppError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/users/%d", user.ID))
	c.JSON(http.StatusCreated, models.NewUserSessionView(user))
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	user, err := h.commands.LoginUser(c.Request.Context(), cqrs.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.respondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewUserView(user))
}

// Logout takes the session token from the JSON body, or from an
// Authorization: Bearer header when the body carries none.
func (h *UserHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.Token == "" {
		req.Token, _ = middleware.BearerToken(c)
	}
	if req.Token == "" {
		middleware.RespondWithError(c, http.StatusBadRequest, "A session token is required")
		return
	}

	user, err := h.commands.LogoutUser(c.Request.Context(), cqrs.LogoutCommand{Token: req.Token})
	if err != nil {
		h.respondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewUserView(user))
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.commands.UpdateUser(c.Request.Context(), cqrs.UpdateUserCommand{
		UserID:    userID,
		Username:  req.Username,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		h.respondWithAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseUserID(c *gin.Context) (int64, bool) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid user id")
		return 0, false
	}
	return userID, true
}

func (h *UserHandler) respondWithAppError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, apperrors.Message(err))
	case errors.Is(err, apperrors.ErrConflict):
		middleware.RespondWithError(c, http.StatusConflict, apperrors.Message(err))
	case errors.Is(err, apperrors.ErrUnauthorized):
		middleware.RespondWithError(c, http.StatusUnauthorized, apperrors.Message(err))
	case errors.Is(err, apperrors.ErrInvalidInput):
		middleware.RespondWithError(c, http.StatusBadRequest, apperrors.Message(err))
	default:
		h.log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("requestId", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		_ = c.Error(err)
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
