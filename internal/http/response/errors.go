package response

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/memoquiz-backend/internal/platform/apierr"
)

// RespondDomainError renders err with the status and code apierr assigns it.
func RespondDomainError(c *gin.Context, err error) {
	apiErr := apierr.From(err)
	RespondError(c, apiErr.Status, apiErr.Code, apiErr.Err)
}
