package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiservice/pkg/forms"
	"taxiservice/pkg/logger"
	"taxiservice/service"
)

const (
	msgInvalidLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."
	msgInactive     = "This account is inactive."
)

func (h *Handler) LoginPage(c *gin.Context) {
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, safeNext(c.Query("next")))
		return
	}
	h.render(c, http.StatusOK, "registration/login.html", gin.H{"next": c.Query("next")})
}

func (h *Handler) Login(c *gin.Context) {
	var form forms.LoginForm
	next := c.PostForm("next")

	if errs := bindForm(c, &form); errs != nil {
		h.loginError(c, form, next, errs)
		return
	}

	driver, err := h.svc.Auth().Authenticate(c.Request.Context(), form.Username, form.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		h.loginError(c, form, next, forms.FieldErrors{"__all__": msgInvalidLogin})
		return
	case errors.Is(err, service.ErrUserInactive):
		h.loginError(c, form, next, forms.FieldErrors{"__all__": msgInactive})
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	sess := currentSession(c)
	sess.DriverID = driver.ID
	if err := h.writeSession(c, sess); err != nil {
		h.fail(c, err)
		return
	}

	h.log.Info("driver logged in", logger.Int64("driver_id", driver.ID))
	c.Redirect(http.StatusFound, safeNext(next))
}

func (h *Handler) loginError(c *gin.Context, form forms.LoginForm, next string, errs forms.FieldErrors) {
	h.render(c, http.StatusBadRequest, "registration/login.html", gin.H{
		"next":     next,
		"username": form.Username,
		"errors":   errs,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	h.clearSession(c)
	c.Redirect(http.StatusFound, "/accounts/login/")
}
