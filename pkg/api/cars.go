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

const msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."

func (h *Handler) CarList(c *gin.Context) {
	model := c.Query("model")
	list, err := h.svc.Car().List(c.Request.Context(), model)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "taxi/car_list.html", gin.H{
		"car_list": list,
		"search":   model,
	})
}

// carForm renders the car form with every manufacturer and driver as choices.
func (h *Handler) carForm(c *gin.Context, status int, action string, object *models.Car, form forms.CarForm, errs forms.FieldErrors) {
	ctx := c.Request.Context()
	manufacturers, err := h.svc.Manufacturer().List(ctx, "")
	if err != nil {
		h.fail(c, err)
		return
	}
	drivers, err := h.svc.Driver().List(ctx, "")
	if err != nil {
		h.fail(c, err)
		return
	}

	selected := make(map[int64]bool, len(form.DriverIDs))
	for _, id := range form.DriverIDs {
		selected[id] = true
	}

	data := gin.H{
		"action":        action,
		"form":          form,
		"errors":        errs,
		"manufacturers": manufacturers,
		"drivers":       drivers,
		"selected":      selected,
	}
	if object != nil {
		data["object"] = object
	}
	h.render(c, status, "taxi/car_form.html", data)
}

func carFormFrom(car *models.Car) forms.CarForm {
	form := forms.CarForm{Model: car.Model, ManufacturerID: car.ManufacturerID}
	for _, d := range car.Drivers {
		form.DriverIDs = append(form.DriverIDs, d.ID)
	}
	return form
}

func (h *Handler) CarCreatePage(c *gin.Context) {
	h.carForm(c, http.StatusOK, "/cars/create/", nil, forms.CarForm{}, nil)
}

func (h *Handler) CarCreate(c *gin.Context) {
	const action = "/cars/create/"

	var form forms.CarForm
	if errs := bindForm(c, &form); errs != nil {
		h.carForm(c, http.StatusBadRequest, action, nil, form, errs)
		return
	}

	_, err := h.svc.Car().Create(c.Request.Context(), form)
	if errors.Is(err, service.ErrNotFound) {
		h.carForm(c, http.StatusBadRequest, action, nil, form, forms.FieldErrors{"__all__": msgInvalidChoice})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/cars/")
}

func (h *Handler) loadCar(c *gin.Context) (*models.Car, bool) {
	id, ok := paramID(c)
	if !ok {
		h.notFound(c)
		return nil, false
	}
	car, err := h.svc.Car().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return car, true
}

func (h *Handler) CarDetail(c *gin.Context) {
	car, ok := h.loadCar(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "taxi/car_detail.html", gin.H{
		"car":      car,
		"assigned": car.HasDriver(currentUser(c).ID),
	})
}

func (h *Handler) showCarUpdate(c *gin.Context, action string) {
	car, ok := h.loadCar(c)
	if !ok {
		return
	}
	h.carForm(c, http.StatusOK, fmt.Sprintf(action, car.ID), car, carFormFrom(car), nil)
}

func (h *Handler) updateCar(c *gin.Context, action, success string) {
	car, ok := h.loadCar(c)
	if !ok {
		return
	}
	action = fmt.Sprintf(action, car.ID)

	var form forms.CarForm
	if errs := bindForm(c, &form); errs != nil {
		h.carForm(c, http.StatusBadRequest, action, car, form, errs)
		return
	}

	_, err := h.svc.Car().Update(c.Request.Context(), car.ID, form)
	if errors.Is(err, service.ErrNotFound) {
		h.carForm(c, http.StatusBadRequest, action, car, form, forms.FieldErrors{"__all__": msgInvalidChoice})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, success)
}

func (h *Handler) CarUpdatePage(c *gin.Context) {
	h.showCarUpdate(c, "/cars/%d/update/")
}

func (h *Handler) CarUpdate(c *gin.Context) {
	h.updateCar(c, "/cars/%d/update/", "/cars/")
}

func (h *Handler) CarDeletePage(c *gin.Context) {
	car, ok := h.loadCar(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "taxi/car_confirm_delete.html", gin.H{
		"kind":   "car",
		"object": car,
		"action": fmt.Sprintf("/cars/%d/delete/", car.ID),
		"cancel": fmt.Sprintf("/cars/%d/", car.ID),
	})
}

func (h *Handler) CarDelete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.notFound(c)
		return
	}
	if err := h.svc.Car().Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/cars/")
}

// CarToggleAssign adds the logged-in driver to the car or removes them from it.
func (h *Handler) CarToggleAssign(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.notFound(c)
		return
	}
	if _, err := h.svc.Car().ToggleAssign(c.Request.Context(), id, currentUser(c).ID); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/cars/%d/", id))
}
