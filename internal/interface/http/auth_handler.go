package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clinic-suite/clinic-backend/internal/application"
	"github.com/clinic-suite/clinic-backend/internal/interface/middleware"
	"github.com/clinic-suite/clinic-backend/pkg/helpers"
	"github.com/clinic-suite/clinic-backend/pkg/response"
	"github.com/clinic-suite/clinic-backend/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.DoctorService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.DoctorService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Login POST /api/doctors/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch application.KindOf(err) {
		case application.KindNotFound, application.KindUnauthorized:
			response.Error[any](c, http.StatusUnauthorized, err.Error(), nil)
		default:
			helpers.LogError(h.Logger, "login failed", err, nil)
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		}
		return
	}
	h.Cookies.SetSession(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, res, "Successfully Logged in")
}

// Logout POST /api/logout (auth required)
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), c.GetString(middleware.CtxDoctorIDKey)); err != nil {
		helpers.LogWarn(h.Logger, "logout: session drop failed", err, nil)
		response.Error[any](c, http.StatusInternalServerError, "failed to end session", nil)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "Successfully Logged out")
}
