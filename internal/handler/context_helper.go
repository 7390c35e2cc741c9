package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-seat-api/internal/models"
	appErrors "github.com/noah-isme/study-seat-api/pkg/errors"
	"github.com/noah-isme/study-seat-api/pkg/response"
)

// pathID reads a numeric path parameter. Anything that is not a positive integer cannot name a
// stored record, so it is answered with notFound.
func pathID(c *gin.Context, name string, notFound *appErrors.Error) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, notFound)
		return 0, false
	}
	return id, true
}

// pathDate assembles the :yyyy/:mm/:dd path segments into a YYYY-MM-DD date.
func pathDate(c *gin.Context) (string, bool) {
	raw := fmt.Sprintf("%s-%s-%s", c.Param("yyyy"), c.Param("mm"), c.Param("dd"))
	day, err := time.Parse("2006-1-2", raw)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date"))
		return "", false
	}
	return day.Format(models.DateLayout), true
}

func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message))
		return false
	}
	return true
}

// bindOptionalJSON binds dest when the request carries a body and leaves it zero-valued when the
// body is absent or empty, whatever the declared Content-Length.
func bindOptionalJSON(c *gin.Context, dest interface{}, message string) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return true
	}
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message))
		return false
	}
	return true
}
