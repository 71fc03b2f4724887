package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/customs/backend/internal/domain/identity"
	"github.com/customs/backend/internal/domain/shared"
	"github.com/customs/backend/internal/infrastructure/auth"
	"github.com/customs/backend/internal/interfaces/http/dto"
	"github.com/customs/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/declarations", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	t.Run("from context", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set(RequestIDKey, "ctx-id")
		assert.Equal(t, "ctx-id", getRequestID(c))
	})

	t.Run("falls back to the header", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Request.Header.Set(RequestIDKey, "header-id")
		assert.Equal(t, "header-id", getRequestID(c))
	})

	t.Run("context wins over header", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set(RequestIDKey, "ctx-id")
		c.Request.Header.Set(RequestIDKey, "header-id")
		assert.Equal(t, "ctx-id", getRequestID(c))
	})

	t.Run("empty when unset", func(t *testing.T) {
		c, _ := newTestContext(t)
		assert.Empty(t, getRequestID(c))
	})
}

func TestBaseHandler_Success(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.Success(c, map[string]string{"customsReference": "P12026"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "P12026", resp.Data.(map[string]interface{})["customsReference"])
	assert.Nil(t, resp.Error)
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.SuccessWithMeta(c, []string{"P12026", "P22026"}, 42, 2, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(42), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandler_Created(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.Created(c, map[string]string{"id": uuid.NewString()})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandler_NoContent(t *testing.T) {
	// c.Status alone is only flushed by the engine, so the handler has to be
	// served through a real router for the recorder to see the 204
	h := &BaseHandler{}
	r := gin.New()
	r.DELETE("/declarations/:id", func(c *gin.Context) { h.NoContent(c) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/declarations/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestBaseHandler_ErrorHelpers(t *testing.T) {
	tests := []struct {
		name       string
		call       func(h *BaseHandler, c *gin.Context)
		wantStatus int
		wantCode   string
	}{
		{"BadRequest", func(h *BaseHandler, c *gin.Context) { h.BadRequest(c, "malformed payload") },
			http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"NotFound", func(h *BaseHandler, c *gin.Context) { h.NotFound(c, "declaration not found") },
			http.StatusNotFound, dto.ErrCodeNotFound},
		{"Unauthorized", func(h *BaseHandler, c *gin.Context) { h.Unauthorized(c, "authentication required") },
			http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"Forbidden", func(h *BaseHandler, c *gin.Context) { h.Forbidden(c, "cancellation officers only") },
			http.StatusForbidden, dto.ErrCodeForbidden},
		{"InternalError", func(h *BaseHandler, c *gin.Context) { h.InternalError(c, "server error") },
			http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext(t)

			tt.call(h, c)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestBaseHandler_ErrorIncludesRequestID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)
	c.Set(RequestIDKey, "req-8400")

	h.NotFound(c, "declaration not found")

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-8400", resp.Error.RequestID)
}

func TestBaseHandler_HandleError(t *testing.T) {
	t.Run("nil error writes nothing", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newTestContext(t)

		h.HandleError(c, nil)

		assert.Empty(t, w.Body.String())
	})

	t.Run("reference conflict maps to 409", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newTestContext(t)

		h.HandleError(c, shared.NewDomainError("REFERENCE_CONFLICT", "customs reference already assigned"))

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeConflict, resp.Error.Code)
		assert.Equal(t, "customs reference already assigned", resp.Error.Message)
	})

	t.Run("lifecycle violation maps to 422", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newTestContext(t)

		h.HandleError(c, shared.NewDomainError("INVALID_STATE", "declaration is not in STORED status"))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("wrapped domain error is unwrapped", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newTestContext(t)

		inner := shared.NewDomainError("NOT_FOUND", "declaration not found")
		h.HandleError(c, fmt.Errorf("load declaration: %w", inner))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("plain error becomes an internal error without the message", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newTestContext(t)

		h.HandleError(c, fmt.Errorf("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.NotContains(t, resp.Error.Message, "pq:")
	})
}

func TestBaseHandler_getActor(t *testing.T) {
	t.Run("missing claims writes 401", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newTestContext(t)

		_, ok := h.getActor(c)

		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("verified claims produce the acting officer", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newTestContext(t)

		userID := uuid.New()
		c.Set(middleware.JWTClaimsKey, &auth.Claims{
			UserID:        userID.String(),
			ServiceNumber: "NCS00042",
			Role:          string(identity.RoleOperationalOfficer),
		})

		actor, ok := h.getActor(c)

		require.True(t, ok)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID, actor.ID)
		assert.Equal(t, "NCS00042", actor.ServiceNumber)
		assert.Equal(t, identity.RoleOperationalOfficer, actor.Role)
	})
}

func TestGetUserID(t *testing.T) {
	t.Run("missing claim", func(t *testing.T) {
		c, _ := newTestContext(t)

		_, err := getUserID(c)
		assert.Error(t, err)
	})

	t.Run("valid claim", func(t *testing.T) {
		c, _ := newTestContext(t)
		want := uuid.New()
		c.Set(middleware.JWTUserIDKey, want.String())

		got, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("malformed claim", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set(middleware.JWTUserIDKey, "not-a-uuid")

		_, err := getUserID(c)
		assert.Error(t, err)
	})
}
