package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("purchasing", "/purchase-orders")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Register(group)
	r.Setup()

	req := httptest.NewRequest("GET", "/api/v1/purchase-orders/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterUseAppliesMiddlewareToAPIGroup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.Use(func(c *gin.Context) {
		c.Header("X-API-Middleware", "applied")
		c.Next()
	})

	group := NewDomainGroup("purchasing", "/purchase-orders")
	group.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.Register(group).Setup()

	req := httptest.NewRequest("GET", "/api/v1/purchase-orders", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "applied", w.Header().Get("X-API-Middleware"))
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("partner", "/suppliers")
		assert.Equal(t, "partner", g.Name())
		assert.Equal(t, "/suppliers", g.Prefix())
	})

	t.Run("registers routes for each method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("purchasing", "/purchase-orders")
		g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
			POST("", func(c *gin.Context) { c.String(http.StatusCreated, "created") }).
			PUT("/:id", func(c *gin.Context) { c.String(http.StatusOK, "updated") }).
			PATCH("/:id", func(c *gin.Context) { c.String(http.StatusOK, "patched") }).
			DELETE("/:id", func(c *gin.Context) { c.String(http.StatusNoContent, "") })

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		tests := []struct {
			method string
			path   string
			status int
		}{
			{"GET", "/api/v1/purchase-orders", http.StatusOK},
			{"POST", "/api/v1/purchase-orders", http.StatusCreated},
			{"PUT", "/api/v1/purchase-orders/123", http.StatusOK},
			{"PATCH", "/api/v1/purchase-orders/123", http.StatusOK},
			{"DELETE", "/api/v1/purchase-orders/123", http.StatusNoContent},
		}

		for _, tt := range tests {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code, "%s %s", tt.method, tt.path)
		}
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("purchasing", "/purchase-orders")

		g.Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})

		g.GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("GET", "/api/v1/purchase-orders", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})

	t.Run("creates subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("partner", "/partner")

		suppliers := g.Group("suppliers", "/suppliers")
		suppliers.GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "suppliers list")
		})

		stores := g.Group("stores", "/stores")
		stores.GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "stores list")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req1 := httptest.NewRequest("GET", "/api/v1/partner/suppliers", nil)
		w1 := httptest.NewRecorder()
		engine.ServeHTTP(w1, req1)
		assert.Equal(t, http.StatusOK, w1.Code)
		assert.Equal(t, "suppliers list", w1.Body.String())

		req2 := httptest.NewRequest("GET", "/api/v1/partner/stores", nil)
		w2 := httptest.NewRecorder()
		engine.ServeHTTP(w2, req2)
		assert.Equal(t, http.StatusOK, w2.Code)
		assert.Equal(t, "stores list", w2.Body.String())
	})
}

func TestMultipleDomainGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	purchasing := NewDomainGroup("purchasing", "/purchase-orders")
	purchasing.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "orders")
	})

	partner := NewDomainGroup("partner", "/suppliers")
	partner.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "suppliers")
	})

	r.Register(purchasing).Register(partner)
	r.Setup()

	req1 := httptest.NewRequest("GET", "/api/v1/purchase-orders", nil)
	w1 := httptest.NewRecorder()
	engine.ServeHTTP(w1, req1)
	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, "orders", w1.Body.String())

	req2 := httptest.NewRequest("GET", "/api/v1/suppliers", nil)
	w2 := httptest.NewRecorder()
	engine.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "suppliers", w2.Body.String())
}
