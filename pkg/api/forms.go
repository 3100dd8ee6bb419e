package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"taxiservice/pkg/forms"
)

type validatable interface {
	Validate() forms.FieldErrors
}

// bindForm decodes the posted form into dst and validates it.
func bindForm(c *gin.Context, dst validatable) forms.FieldErrors {
	if err := c.ShouldBind(dst); err != nil {
		return forms.FieldErrors{"__all__": "The submitted data is malformed."}
	}
	return dst.Validate()
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}
