package utils

import (
	"fmt"
	"net/http"
	"os"

	"rcm/src/apperr"
	"rcm/src/services"
	"rcm/src/types"

	"github.com/gin-gonic/gin"
)

// CurrentActor reads the authenticated caller the auth middleware stashed on
// the request context.
func CurrentActor(ctx *gin.Context) services.Actor {
	return services.Actor{
		ID:      ctx.GetUint("id"),
		Role:    types.Role(ctx.GetString("role")),
		IsAdmin: ctx.GetBool("isAdmin"),
	}
}

func RespondData(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, types.APIResponse{
		Status:  true,
		Code:    "OK",
		Message: "success",
		Data:    data,
	})
}

func RespondCreated(ctx *gin.Context, data any) {
	RespondData(ctx, http.StatusCreated, data)
}

func RespondPage(ctx *gin.Context, data any, pagination *types.Pagination) {
	ctx.JSON(http.StatusOK, types.APIResponse{
		Status:     true,
		Code:       "OK",
		Message:    "success",
		Data:       data,
		Pagination: pagination,
	})
}

// RespondError maps any error onto the envelope. Anything that is not an
// AppError answers as the generic unknown error so internals never leak.
func RespondError(ctx *gin.Context, err error) {
	appErr := apperr.From(err)
	ctx.JSON(appErr.HTTPStatus, types.APIResponse{
		Status:  false,
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}

func RespondValidationError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, types.APIResponse{
		Status:  false,
		Code:    apperr.CodeValidation,
		Message: err.Error(),
	})
}

// WithSuffix appends the environment name to a queue or topic so staging and
// production traffic stay separate.
func WithSuffix(name string) string {
	env := os.Getenv("API_ENV")
	if env == "" {
		return name
	}
	return fmt.Sprintf("%s-%s", name, env)
}
