package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiservice/pkg/forms"
	"taxiservice/pkg/models"
	"taxiservice/service"
)

const msgUsernameTaken = "A user with that username already exists."

func (h *Handler) DriverList(c *gin.Context) {
	username := c.Query("username")
	list, err := h.svc.Driver().List(c.Request.Context(), username)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "taxi/driver_list.html", gin.H{
		"driver_list": list,
		"search":      username,
	})
}

func (h *Handler) loadDriver(c *gin.Context) (*models.Driver, bool) {
	id, ok := paramID(c)
	if !ok {
		h.notFound(c)
		return nil, false
	}
	d, err := h.svc.Driver().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return d, true
}

func (h *Handler) DriverDetail(c *gin.Context) {
	d, ok := h.loadDriver(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "taxi/driver_detail.html", gin.H{"driver": d})
}

func (h *Handler) driverForm(c *gin.Context, status int, action string, form forms.DriverCreationForm, errs forms.FieldErrors) {
	// Passwords are never echoed back.
	form.Password1, form.Password2 = "", ""
	h.render(c, status, "taxi/driver_form.html", gin.H{
		"action": action,
		"form":   form,
		"errors": errs,
	})
}

// createDriver handles a DriverCreationForm post and returns the new driver,
// or nil when the form was re-rendered with errors.
func (h *Handler) createDriver(c *gin.Context, action string) *models.Driver {
	var form forms.DriverCreationForm
	if errs := bindForm(c, &form); errs != nil {
		h.driverForm(c, http.StatusBadRequest, action, form, errs)
		return nil
	}

	d, err := h.svc.Driver().Create(c.Request.Context(), form)
	if errors.Is(err, service.ErrUsernameTaken) {
		h.driverForm(c, http.StatusBadRequest, action, form, forms.FieldErrors{"username": msgUsernameTaken})
		return nil
	}
	if err != nil {
		h.fail(c, err)
		return nil
	}
	return d
}

func (h *Handler) DriverCreatePage(c *gin.Context) {
	h.driverForm(c, http.StatusOK, "/drivers/create/", forms.DriverCreationForm{}, nil)
}

func (h *Handler) DriverCreate(c *gin.Context) {
	if d := h.createDriver(c, "/drivers/create/"); d != nil {
		c.Redirect(http.StatusFound, fmt.Sprintf("/drivers/%d/", d.ID))
	}
}

func (h *Handler) DriverLicenseUpdatePage(c *gin.Context) {
	d, ok := h.loadDriver(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "taxi/driver_license_update.html", gin.H{
		"object": d,
		"form":   forms.DriverLicenseUpdateForm{LicenseNumber: d.LicenseNumber},
	})
}

func (h *Handler) DriverLicenseUpdate(c *gin.Context) {
	d, ok := h.loadDriver(c)
	if !ok {
		return
	}

	var form forms.DriverLicenseUpdateForm
	if errs := bindForm(c, &form); errs != nil {
		h.render(c, http.StatusBadRequest, "taxi/driver_license_update.html", gin.H{
			"object": d,
			"form":   form,
			"errors": errs,
		})
		return
	}

	if err := h.svc.Driver().UpdateLicense(c.Request.Context(), d.ID, form); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/drivers/%d/", d.ID))
}

func (h *Handler) DriverDeletePage(c *gin.Context) {
	d, ok := h.loadDriver(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "taxi/driver_confirm_delete.html", gin.H{
		"kind":   "driver",
		"object": d,
		"action": fmt.Sprintf("/drivers/%d/delete/", d.ID),
		"cancel": fmt.Sprintf("/drivers/%d/", d.ID),
	})
}

func (h *Handler) DriverDelete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.notFound(c)
		return
	}
	if err := h.svc.Driver().Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/drivers/")
}
