package utils

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"

	"github.com/tntanvir/eastmondvillas/models"
)

var staffRoles = []string{models.RoleAgent, models.RoleManager, models.RoleAdmin}
var managerRoles = []string{models.RoleManager, models.RoleAdmin}

// OptionalAccessMiddleware verifies the bearer token when the request
// carries one and lets anonymous requests through untouched. Handlers
// that scope by role treat a missing token as a customer.
func OptionalAccessMiddleware(verifier *jwt.Verifier) iris.Handler {
	verify := verifier.Verify(func() interface{} { return new(AccessToken) })
	return func(ctx iris.Context) {
		if ctx.GetHeader("Authorization") == "" {
			ctx.Next()
			return
		}
		verify(ctx)
	}
}

// StaffOnlyMiddleware admits agents, managers and admins.
func StaffOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if !slices.Contains(staffRoles, claims.Role) {
		ctx.StopWithJSON(iris.StatusForbidden, iris.Map{"error": "forbidden", "message": "staff access required"})
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("role", claims.Role)
	ctx.Next()
}

// ManagerOnlyMiddleware admits managers and admins.
func ManagerOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if !slices.Contains(managerRoles, claims.Role) {
		ctx.StopWithJSON(iris.StatusForbidden, iris.Map{"error": "forbidden", "message": "manager access required"})
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("role", claims.Role)
	ctx.Next()
}
