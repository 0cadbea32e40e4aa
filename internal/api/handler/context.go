package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUserID extracts the identity injected by the Auth middleware and
// fast-fails before any service call. A missing user_id on a protected route
// means the middleware did not run or the token carried no subject; either
// way the request cannot be attributed to an account.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}

// ctxViewerID is the optional-auth variant: an empty string marks an
// anonymous browser, which the services treat as "public fields only".
func ctxViewerID(c echo.Context) string {
	viewerID, _ := c.Get("user_id").(string)
	return viewerID
}
