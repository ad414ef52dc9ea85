package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/pkg/errors"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"go.uber.org/zap"
)

// Identity is what the guard needs from the session store
type Identity interface {
	Ready() <-chan struct{}
	Current() (models.User, bool)
}

// Decision is the outcome of guarding one navigation
type Decision struct {
	Allow      bool   `json:"allow"`
	RedirectTo string `json:"redirectTo,omitempty"`
	Route      Route  `json:"route"`
}

// Guard gates protected views behind an authenticated identity
type Guard struct {
	table    *Table
	identity Identity
}

func NewGuard(table *Table, identity Identity) *Guard {
	return &Guard{table: table, identity: identity}
}

// Evaluate blocks until session restoration has finished, then decides
// whether path may render. Unknown paths return errors.ErrNotFound.
func (g *Guard) Evaluate(ctx context.Context, path string) (Decision, error) {
	route, ok := g.table.Match(path)
	if !ok {
		return Decision{}, errors.NotFoundError("route " + path)
	}

	select {
	case <-g.identity.Ready():
	case <-ctx.Done():
		return Decision{}, ctx.Err()
	}

	if !route.Protected {
		return Decision{Allow: true, Route: route}, nil
	}
	if _, ok := g.identity.Current(); !ok {
		return Decision{Allow: false, RedirectTo: LoginPath, Route: route}, nil
	}
	return Decision{Allow: true, Route: route}, nil
}

// Middleware guards gin routes registered under the table's paths.
// Browsers get a 302 to the login view; JSON clients get 401 with the
// redirect target.
func (g *Guard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := g.Evaluate(c.Request.Context(), c.Request.URL.Path)
		if errors.Is(err, errors.ErrNotFound) {
			c.Next()
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Session is not ready"})
			return
		}

		if !decision.Allow {
			logger.Debug("Redirecting to login",
				zap.String("path", c.Request.URL.Path),
				zap.String("view", decision.Route.View))

			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":    "Please log in to continue",
					"redirect": decision.RedirectTo,
				})
				return
			}
			c.Redirect(http.StatusFound, decision.RedirectTo)
			c.Abort()
			return
		}

		c.Set("route", decision.Route)
		c.Next()
	}
}

func wantsJSON(c *gin.Context) bool {
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
