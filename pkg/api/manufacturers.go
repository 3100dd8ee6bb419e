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

const msgManufacturerExists = "Manufacturer with this Name already exists."

func (h *Handler) ManufacturerList(c *gin.Context) {
	name := c.Query("name")
	list, err := h.svc.Manufacturer().List(c.Request.Context(), name)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "taxi/manufacturer_list.html", gin.H{
		"manufacturer_list": list,
		"search":            name,
	})
}

func (h *Handler) manufacturerForm(c *gin.Context, status int, action string, object *models.Manufacturer, form forms.ManufacturerForm, errs forms.FieldErrors) {
	data := gin.H{"action": action, "form": form, "errors": errs}
	if object != nil {
		data["object"] = object
	}
	h.render(c, status, "taxi/manufacturer_form.html", data)
}

func (h *Handler) ManufacturerCreatePage(c *gin.Context) {
	h.manufacturerForm(c, http.StatusOK, "/manufacturers/create/", nil, forms.ManufacturerForm{}, nil)
}

func (h *Handler) ManufacturerCreate(c *gin.Context) {
	const action = "/manufacturers/create/"

	var form forms.ManufacturerForm
	if errs := bindForm(c, &form); errs != nil {
		h.manufacturerForm(c, http.StatusBadRequest, action, nil, form, errs)
		return
	}

	_, err := h.svc.Manufacturer().Create(c.Request.Context(), form)
	if errors.Is(err, service.ErrManufacturerExists) {
		h.manufacturerForm(c, http.StatusBadRequest, action, nil, form, forms.FieldErrors{"name": msgManufacturerExists})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/manufacturers/")
}

func (h *Handler) loadManufacturer(c *gin.Context) (*models.Manufacturer, bool) {
	id, ok := paramID(c)
	if !ok {
		h.notFound(c)
		return nil, false
	}
	m, err := h.svc.Manufacturer().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return m, true
}

func (h *Handler) showManufacturerUpdate(c *gin.Context, action string) {
	m, ok := h.loadManufacturer(c)
	if !ok {
		return
	}
	form := forms.ManufacturerForm{Name: m.Name, Country: m.Country}
	h.manufacturerForm(c, http.StatusOK, fmt.Sprintf(action, m.ID), m, form, nil)
}

func (h *Handler) updateManufacturer(c *gin.Context, action, success string) {
	m, ok := h.loadManufacturer(c)
	if !ok {
		return
	}
	action = fmt.Sprintf(action, m.ID)

	var form forms.ManufacturerForm
	if errs := bindForm(c, &form); errs != nil {
		h.manufacturerForm(c, http.StatusBadRequest, action, m, form, errs)
		return
	}

	_, err := h.svc.Manufacturer().Update(c.Request.Context(), m.ID, form)
	if errors.Is(err, service.ErrManufacturerExists) {
		h.manufacturerForm(c, http.StatusBadRequest, action, m, form, forms.FieldErrors{"name": msgManufacturerExists})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, success)
}

func (h *Handler) ManufacturerUpdatePage(c *gin.Context) {
	h.showManufacturerUpdate(c, "/manufacturers/%d/update/")
}

func (h *Handler) ManufacturerUpdate(c *gin.Context) {
	h.updateManufacturer(c, "/manufacturers/%d/update/", "/manufacturers/")
}

func (h *Handler) ManufacturerDeletePage(c *gin.Context) {
	m, ok := h.loadManufacturer(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "taxi/manufacturer_confirm_delete.html", gin.H{
		"kind":   "manufacturer",
		"object": m,
		"action": fmt.Sprintf("/manufacturers/%d/delete/", m.ID),
		"cancel": "/manufacturers/",
	})
}

func (h *Handler) ManufacturerDelete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.notFound(c)
		return
	}
	if err := h.svc.Manufacturer().Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/manufacturers/")
}
