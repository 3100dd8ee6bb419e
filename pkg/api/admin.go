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

// adminRow is one changelist line; the first cell links to URL.
type adminRow struct {
	URL   string
	Cells []string
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (h *Handler) changeList(c *gin.Context, title string, columns []string, rows []adminRow) {
	h.render(c, http.StatusOK, "admin/change_list.html", gin.H{
		"title":   title,
		"columns": columns,
		"rows":    rows,
		"search":  c.Query("q"),
	})
}

func (h *Handler) AdminIndex(c *gin.Context) {
	data, err := h.counts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	data["title"] = "Site administration"
	h.render(c, http.StatusOK, "admin/index.html", data)
}

func (h *Handler) AdminManufacturerList(c *gin.Context) {
	list, err := h.svc.Manufacturer().List(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.fail(c, err)
		return
	}
	rows := make([]adminRow, 0, len(list))
	for _, m := range list {
		rows = append(rows, adminRow{
			URL:   fmt.Sprintf("/admin/taxi/manufacturer/%d/change/", m.ID),
			Cells: []string{m.Name, m.Country},
		})
	}
	h.changeList(c, "manufacturers", []string{"Name", "Country"}, rows)
}

func (h *Handler) AdminManufacturerChangePage(c *gin.Context) {
	h.showManufacturerUpdate(c, "/admin/taxi/manufacturer/%d/change/")
}

func (h *Handler) AdminManufacturerChange(c *gin.Context) {
	h.updateManufacturer(c, "/admin/taxi/manufacturer/%d/change/", "/admin/taxi/manufacturer/")
}

func (h *Handler) AdminCarList(c *gin.Context) {
	list, err := h.svc.Car().List(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.fail(c, err)
		return
	}
	rows := make([]adminRow, 0, len(list))
	for _, car := range list {
		manufacturer := ""
		if car.Manufacturer != nil {
			manufacturer = car.Manufacturer.String()
		}
		rows = append(rows, adminRow{
			URL:   fmt.Sprintf("/admin/taxi/car/%d/change/", car.ID),
			Cells: []string{car.Model, manufacturer},
		})
	}
	h.changeList(c, "cars", []string{"Model", "Manufacturer"}, rows)
}

func (h *Handler) AdminCarChangePage(c *gin.Context) {
	h.showCarUpdate(c, "/admin/taxi/car/%d/change/")
}

func (h *Handler) AdminCarChange(c *gin.Context) {
	h.updateCar(c, "/admin/taxi/car/%d/change/", "/admin/taxi/car/")
}

func (h *Handler) AdminDriverList(c *gin.Context) {
	list, err := h.svc.Driver().List(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.fail(c, err)
		return
	}
	rows := make([]adminRow, 0, len(list))
	for _, d := range list {
		rows = append(rows, adminRow{
			URL:   fmt.Sprintf("/admin/taxi/driver/%d/change/", d.ID),
			Cells: []string{d.Username, d.Email, d.FirstName, d.LastName, yesNo(d.IsStaff), d.LicenseNumber},
		})
	}
	h.changeList(c, "drivers",
		[]string{"Username", "Email address", "First name", "Last name", "Staff status", "License number"},
		rows)
}

func driverAdminFormFrom(d *models.Driver) forms.DriverAdminForm {
	return forms.DriverAdminForm{
		Username:      d.Username,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Email:         d.Email,
		LicenseNumber: d.LicenseNumber,
		IsActive:      d.IsActive,
		IsStaff:       d.IsStaff,
		IsSuperuser:   d.IsSuperuser,
	}
}

func (h *Handler) driverChangeForm(c *gin.Context, status int, d *models.Driver, form forms.DriverAdminForm, errs forms.FieldErrors) {
	h.render(c, status, "admin/driver_change_form.html", gin.H{
		"object": d,
		"form":   form,
		"errors": errs,
	})
}

func (h *Handler) AdminDriverChangePage(c *gin.Context) {
	d, ok := h.loadDriver(c)
	if !ok {
		return
	}
	h.driverChangeForm(c, http.StatusOK, d, driverAdminFormFrom(d), nil)
}

func (h *Handler) AdminDriverChange(c *gin.Context) {
	d, ok := h.loadDriver(c)
	if !ok {
		return
	}

	var form forms.DriverAdminForm
	if errs := bindForm(c, &form); errs != nil {
		h.driverChangeForm(c, http.StatusBadRequest, d, form, errs)
		return
	}

	_, err := h.svc.Driver().AdminUpdate(c.Request.Context(), d.ID, form)
	if errors.Is(err, service.ErrUsernameTaken) {
		h.driverChangeForm(c, http.StatusBadRequest, d, form, forms.FieldErrors{"username": msgUsernameTaken})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/admin/taxi/driver/")
}

func (h *Handler) AdminDriverAddPage(c *gin.Context) {
	h.driverForm(c, http.StatusOK, "/admin/taxi/driver/add/", forms.DriverCreationForm{}, nil)
}

func (h *Handler) AdminDriverAdd(c *gin.Context) {
	if d := h.createDriver(c, "/admin/taxi/driver/add/"); d != nil {
		c.Redirect(http.StatusFound, fmt.Sprintf("/admin/taxi/driver/%d/change/", d.ID))
	}
}
