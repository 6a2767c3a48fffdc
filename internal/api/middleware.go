package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tutorhub/tutorhub/internal/model"
)

// Identity is the authenticated caller as asserted by the upstream auth
// gateway. This service trusts the headers; authentication itself is an
// external collaborator.
type Identity struct {
	UserID int64
	Role   model.Role
}

const identityKey = "identity"

// WithIdentity parses X-User-Id and X-User-Role into an Identity and
// rejects requests lacking either.
func WithIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := strconv.ParseInt(c.Request().Header.Get("X-User-Id"), 10, 64)
		if err != nil || userID <= 0 {
			return c.JSON(http.StatusUnauthorized, envelope{
				Success: false,
				Message: "missing or invalid identity",
				Code:    "unauthenticated",
			})
		}

		role := model.Role(c.Request().Header.Get("X-User-Role"))
		if role != model.RoleTutor && role != model.RoleStudent {
			return c.JSON(http.StatusUnauthorized, envelope{
				Success: false,
				Message: "missing or invalid role",
				Code:    "unauthenticated",
			})
		}

		c.Set(identityKey, Identity{UserID: userID, Role: role})
		return next(c)
	}
}

func identity(c echo.Context) Identity {
	id, _ := c.Get(identityKey).(Identity)
	return id
}

// requireRole short-circuits with a forbidden envelope when the caller's
// role does not match.
func requireRole(c echo.Context, role model.Role) (Identity, bool) {
	id := identity(c)
	if id.Role != role {
		return id, false
	}
	return id, true
}

func forbiddenRole(c echo.Context, want model.Role) error {
	return c.JSON(http.StatusForbidden, envelope{
		Success: false,
		Message: "this operation requires the " + string(want) + " role",
		Code:    "authorization",
	})
}
