package middlewares

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"rcm/src/apperr"
	"rcm/src/db"
	"rcm/src/models"
	"rcm/src/stor"
	"rcm/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func abortUnauthorized(ctx *gin.Context) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, types.APIResponse{
		Status:  false,
		Code:    apperr.CodeUnauthorized,
		Message: "unauthorized",
	})
}

// AuthMiddleware validates the bearer token, resolves the user row behind
// its subject and stashes identity on the request context. Tokens minted by
// the identity service carry the numeric user id as subject; older tokens
// carry the email, so both lookups are supported.
func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		abortUnauthorized(ctx)
		return
	}
	reqToken := strings.Split(bearerToken, " ")[1]
	if reqToken == "" {
		abortUnauthorized(ctx)
		return
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		abortUnauthorized(ctx)
		return
	}
	if !tkn.Valid {
		abortUnauthorized(ctx)
		return
	}

	users := stor.NewGormUserStor(db.GetDb())
	var user *models.User
	if uid, convErr := strconv.Atoi(claims.Subject); convErr == nil {
		user, err = users.GetByID(uint(uid))
	} else {
		user, err = users.GetByEmail(claims.Subject)
	}
	if err != nil || user.ID < 1 {
		abortUnauthorized(ctx)
		return
	}
	ctx.Set("email", user.Email)
	ctx.Set("id", user.ID)
	ctx.Set("uid", user.UID)
	ctx.Set("role", string(user.Role))
	ctx.Set("isAdmin", user.IsAdmin)
}

// AdminMiddleware runs after AuthMiddleware and keeps residents off the
// admin surface.
func AdminMiddleware(ctx *gin.Context) {
	role := types.Role(ctx.GetString("role"))
	switch role {
	case types.ROLE_COMMUNITY_ADMIN, types.ROLE_SECURITY, types.ROLE_SUPER_ADMIN:
		return
	}
	if ctx.GetBool("isAdmin") {
		return
	}
	ctx.AbortWithStatusJSON(http.StatusForbidden, types.APIResponse{
		Status:  false,
		Code:    apperr.CodeForbidden,
		Message: "forbidden",
	})
}
