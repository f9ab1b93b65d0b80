package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"librismundis/internal/session"
)

type AuthController struct {
	accounts *session.Manager
	sessions *SessionManager
}

func NewAuthController(accounts *session.Manager, sessions *SessionManager) *AuthController {
	return &AuthController{accounts: accounts, sessions: sessions}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (controller *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name, email and password are required")
		return
	}

	account, err := controller.accounts.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
			return
		}
		respondInternalError(c, err, "register")
		return
	}

	if controller.sessions != nil {
		if err := controller.sessions.CreateSession(c.Request, account.ID); err != nil {
			respondInternalError(c, err, "create session")
			return
		}
	}

	c.JSON(http.StatusCreated, account)
}

func (controller *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email and password are required")
		return
	}

	account, err := controller.accounts.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		return
	}

	if controller.sessions != nil {
		if err := controller.sessions.CreateSession(c.Request, account.ID); err != nil {
			respondInternalError(c, err, "create session")
			return
		}
	}

	c.JSON(http.StatusOK, account)
}

func (controller *AuthController) Logout(c *gin.Context) {
	controller.accounts.Logout()

	if controller.sessions != nil {
		if err := controller.sessions.DestroySession(c.Request); err != nil {
			respondInternalError(c, err, "destroy session")
			return
		}
	}

	respondSuccess(c, "logged out")
}

// Me reports the logged-in account, or 204 for guests.
func (controller *AuthController) Me(c *gin.Context) {
	account, ok := controller.accounts.Current()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, account)
}
