package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/coursescope/internal/app/models/dto"
	"github.com/yigit/coursescope/internal/pkg/apperrors"
	"github.com/yigit/coursescope/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorDetail {
	t.Helper()
	var body struct {
		Error dto.ErrorDetail `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Error
}

func TestHandleAPIErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
		field  string
	}{
		{"not found", apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, ""},
		{"wrapped not found", fmt.Errorf("loading: %w", apperrors.ErrResourceNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound, ""},
		{"expired", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, ""},
		{"validation", apperrors.NewValidationError("email", "Enter a valid email address."), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "email"},
		{"conflict", &apperrors.CustomError{Err: apperrors.ErrEmailAlreadyExists, Field: "email", Message: "taken"}, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "email"},
		{"index down", apperrors.ErrSearchIndexUnavailable, http.StatusServiceUnavailable, dto.ErrorCodeExternalServiceError, ""},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			detail := decodeError(t, rec)
			assert.Equal(t, tt.code, detail.Code)
			assert.Equal(t, tt.field, detail.Field)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestHandleAPIErrorKeepsCustomMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	HandleAPIError(c, apperrors.NewValidationError("email", "Enter a valid email address."))

	assert.Equal(t, "Enter a valid email address.", decodeError(t, rec).Message)
}

func authRouter(jwtService *auth.JWTService) *gin.Engine {
	router := gin.New()
	router.Use(NewAuthMiddleware(jwtService).JWTAuth())
	router.GET("/me", func(c *gin.Context) {
		userID, ok := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"userId": userID, "ok": ok, "username": c.GetString(UsernameKey)})
	})
	return router
}

func TestJWTAuth(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "coursescope"})
	expired := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: -time.Minute, TokenIssuer: "coursescope"})
	otherKey := auth.NewJWTService(auth.JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "coursescope"})

	valid, err := jwtService.GenerateAccessToken(42, "demo")
	require.NoError(t, err)
	stale, err := expired.GenerateAccessToken(42, "demo")
	require.NoError(t, err)
	forged, err := otherKey.GenerateAccessToken(42, "demo")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		code   dto.ErrorCode
	}{
		{"missing header", "", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"bad format", "Basic abc", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"expired", "Bearer " + stale, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"wrong key", "Bearer " + forged, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"valid", "Bearer " + valid, http.StatusOK, ""},
	}

	router := authRouter(jwtService)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				assert.Equal(t, tt.code, decodeError(t, rec).Code)
				return
			}
			assert.JSONEq(t, `{"userId": 42, "ok": true, "username": "demo"}`, rec.Body.String())
		})
	}
}

type queryRequest struct {
	Course   string `form:"course" binding:"required,max=8"`
	Semester string `form:"semester" binding:"omitempty,len=6,numeric"`
}

type bodyRequest struct {
	SendReviewEmail *bool `json:"sendReviewEmail"`
}

func TestBindQueryReportsFieldErrors(t *testing.T) {
	router := gin.New()
	router.GET("/q", func(c *gin.Context) {
		var req queryRequest
		if !BindQuery(c, &req) {
			return
		}
		c.String(http.StatusOK, req.Course+"|"+req.Semester)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/q?semester=abcdef", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, dto.ErrorCodeValidationFailed, detail.Code)
	raw, err := json.Marshal(detail.Details)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"field":"course"`)
	assert.Contains(t, string(raw), "course is required")
	assert.Contains(t, string(raw), "semester must contain only digits")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/q?course=CMSC131&semester=202008", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CMSC131|202008", rec.Body.String())
}

func TestBindJSONRejectsMalformedBody(t *testing.T) {
	router := gin.New()
	router.PUT("/b", func(c *gin.Context) {
		var req bodyRequest
		if !BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPut, "/b", strings.NewReader(`{"sendReviewEmail": "yes please"`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrorCodeInvalidRequest, decodeError(t, rec).Code)
}

func TestRequestLoggerAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestLogger(zerolog.New(&buf)))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	requestID := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(requestID)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, requestID, entry["requestId"])
	assert.Equal(t, "/ping", entry["path"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
}

func TestRequestLoggerKeepsIncomingRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestLogger(zerolog.Nop()))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, incoming, rec.Body.String())
}
