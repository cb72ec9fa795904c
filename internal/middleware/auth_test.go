package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/orgportal/internal/models"
	"github.com/localnerve/orgportal/internal/services"
	"github.com/localnerve/orgportal/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer   abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		token, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestRequireOfficer(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if ce, ok := types.AsCustomError(err); ok {
				return c.SendStatus(ce.Code)
			}
			return c.SendStatus(http.StatusInternalServerError)
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		if role := c.Get("X-Role"); role != "" {
			c.Locals(ActorKey, services.Actor{ID: 1, Role: models.Role(role)})
		}
		return c.Next()
	})
	app.Get("/", RequireOfficer(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	for role, want := range map[string]int{
		"":        http.StatusUnauthorized,
		"member":  http.StatusForbidden,
		"alumnus": http.StatusForbidden,
		"officer": http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if role != "" {
			req.Header.Set("X-Role", role)
		}
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, role)
	}
}

func TestVersionMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(VersionMiddleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NoError(t, err)
	assert.Equal(t, APIVersion, resp.Header.Get("X-Api-Version"))
}
