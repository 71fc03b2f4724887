package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw)
	router.GET("/declarations", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.POST("/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func doLimitedRequest(router *gin.Engine, method, path, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiterAllow(t *testing.T) {
	t.Run("serves the full quota then blocks", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("officer-1"), "request %d should pass", i+1)
		}
		assert.False(t, limiter.Allow("officer-1"))
	})

	t.Run("quotas are tracked per key", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)

		limiter.Allow("officer-1")
		limiter.Allow("officer-1")
		assert.False(t, limiter.Allow("officer-1"))

		assert.True(t, limiter.Allow("officer-2"))
	})

	t.Run("quota refills after the window", func(t *testing.T) {
		limiter := NewRateLimiter(1, 50*time.Millisecond)

		assert.True(t, limiter.Allow("officer-1"))
		assert.False(t, limiter.Allow("officer-1"))

		time.Sleep(60 * time.Millisecond)

		assert.True(t, limiter.Allow("officer-1"))
	})

	t.Run("Remaining tracks consumed tokens", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		assert.Equal(t, 5, limiter.Remaining("officer-1"))

		limiter.Allow("officer-1")
		limiter.Allow("officer-1")

		assert.Equal(t, 3, limiter.Remaining("officer-1"))
	})

	t.Run("concurrent callers never exceed the quota", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)

		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0

		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("shared-terminal") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("passes traffic within the quota", func(t *testing.T) {
		router := limitedRouter(RateLimit(NewRateLimiter(3, time.Minute)))

		for i := 0; i < 3; i++ {
			w := doLimitedRequest(router, "GET", "/declarations", "")
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("answers 429 once the quota is spent", func(t *testing.T) {
		router := limitedRouter(RateLimit(NewRateLimiter(2, time.Minute)))

		doLimitedRequest(router, "GET", "/declarations", "")
		doLimitedRequest(router, "GET", "/declarations", "")
		w := doLimitedRequest(router, "GET", "/declarations", "")

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	})

	t.Run("authenticated officers get separate quotas", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		asOfficer := func(userID string) gin.HandlerFunc {
			return func(c *gin.Context) {
				c.Set(JWTUserIDKey, userID)
				c.Next()
			}
		}

		router := gin.New()
		handler := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
		router.GET("/first", asOfficer("officer-1"), RateLimit(limiter), handler)
		router.GET("/second", asOfficer("officer-2"), RateLimit(limiter), handler)

		assert.Equal(t, http.StatusOK, doLimitedRequest(router, "GET", "/first", "").Code)
		assert.Equal(t, http.StatusTooManyRequests, doLimitedRequest(router, "GET", "/first", "").Code)

		// officer-2 shares the client IP but has their own quota
		assert.Equal(t, http.StatusOK, doLimitedRequest(router, "GET", "/second", "").Code)
	})
}

func TestRateLimitByKey(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	byServiceNumber := func(c *gin.Context) string {
		return c.GetHeader("X-Service-Number")
	}

	router := gin.New()
	router.Use(RateLimitByKey(limiter, byServiceNumber))
	router.GET("/declarations", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	send := func(serviceNumber string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/declarations", nil)
		req.Header.Set("X-Service-Number", serviceNumber)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("NCS00042").Code)
	assert.Equal(t, http.StatusTooManyRequests, send("NCS00042").Code)
	assert.Equal(t, http.StatusOK, send("NCS00043").Code)
}

func TestAuthRateLimit(t *testing.T) {
	const officeIP = "10.20.1.5:40312"

	t.Run("passes login attempts within the quota", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(5, time.Minute)))

		for i := 0; i < 5; i++ {
			w := doLimitedRequest(router, "POST", "/auth/login", officeIP)
			assert.Equal(t, http.StatusOK, w.Code, "attempt %d should pass", i+1)
		}
	})

	t.Run("blocked attempts carry the auth error code", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(2, time.Minute)))

		doLimitedRequest(router, "POST", "/auth/login", officeIP)
		doLimitedRequest(router, "POST", "/auth/login", officeIP)
		w := doLimitedRequest(router, "POST", "/auth/login", officeIP)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_RATE_LIMIT_EXCEEDED")
		assert.Contains(t, w.Body.String(), "Too many authentication attempts")
	})

	t.Run("quota headers are set on allowed attempts", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(5, time.Minute)))

		w := doLimitedRequest(router, "POST", "/auth/login", officeIP)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("blocked attempts carry Retry-After in seconds", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(1, time.Minute)))

		doLimitedRequest(router, "POST", "/auth/login", officeIP)
		w := doLimitedRequest(router, "POST", "/auth/login", officeIP)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
	})

	t.Run("each office IP has its own quota", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(1, time.Minute)))

		assert.Equal(t, http.StatusOK,
			doLimitedRequest(router, "POST", "/auth/login", "10.20.1.5:40312").Code)
		assert.Equal(t, http.StatusTooManyRequests,
			doLimitedRequest(router, "POST", "/auth/login", "10.20.1.5:40312").Code)
		assert.Equal(t, http.StatusOK,
			doLimitedRequest(router, "POST", "/auth/login", "10.20.9.7:40313").Code)
	})

	t.Run("login attempts are counted apart from API traffic", func(t *testing.T) {
		// One limiter store, two middlewares; the auth: key prefix keeps
		// the counts separate.
		limiter := NewRateLimiter(2, time.Minute)

		router := gin.New()
		auth := router.Group("/auth")
		auth.Use(AuthRateLimit(limiter))
		auth.POST("/login", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
		api := router.Group("/api")
		api.Use(RateLimit(limiter))
		api.GET("/declarations", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		doLimitedRequest(router, "POST", "/auth/login", officeIP)
		doLimitedRequest(router, "POST", "/auth/login", officeIP)

		assert.Equal(t, http.StatusTooManyRequests,
			doLimitedRequest(router, "POST", "/auth/login", officeIP).Code)
		assert.Equal(t, http.StatusOK,
			doLimitedRequest(router, "GET", "/api/declarations", officeIP).Code)
	})
}
