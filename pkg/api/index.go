package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) counts(ctx context.Context) (gin.H, error) {
	drivers, err := h.svc.Driver().Count(ctx)
	if err != nil {
		return nil, err
	}
	cars, err := h.svc.Car().Count(ctx)
	if err != nil {
		return nil, err
	}
	manufacturers, err := h.svc.Manufacturer().Count(ctx)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"num_drivers":       drivers,
		"num_cars":          cars,
		"num_manufacturers": manufacturers,
	}, nil
}

func (h *Handler) Index(c *gin.Context) {
	data, err := h.counts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	sess := currentSession(c)
	sess.Visits++
	if err := h.writeSession(c, sess); err != nil {
		h.fail(c, err)
		return
	}

	data["num_visits"] = sess.Visits
	h.render(c, http.StatusOK, "taxi/index.html", data)
}
