package rbac_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-onboard/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeRBACService struct {
	EnforceFn func(req rbac.EnforceRequest) (bool, error)
}

func (f *fakeRBACService) Enforce(req rbac.EnforceRequest) (bool, error) {
	return f.EnforceFn(req)
}

func TestRBACHandler_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("allowed decision", func(t *testing.T) {
		svc := &fakeRBACService{
			EnforceFn: func(req rbac.EnforceRequest) (bool, error) {
				assert.Equal(t, "hr", req.Role)
				assert.Equal(t, "reviews", req.Resource)
				assert.Equal(t, "decide", req.Action)
				return true, nil
			},
		}

		h := rbac.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"role":" hr ","resource":"reviews","action":"decide"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/rbac/enforce", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Enforce(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var envelope map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		data := envelope["data"].(map[string]any)
		assert.Equal(t, true, data["allowed"])
	})

	t.Run("blank fields rejected", func(t *testing.T) {
		h := rbac.NewHandler(&fakeRBACService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"role":"  ","resource":"reviews","action":"decide"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/rbac/enforce", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Enforce(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("enforcer failure", func(t *testing.T) {
		svc := &fakeRBACService{
			EnforceFn: func(req rbac.EnforceRequest) (bool, error) {
				return false, errors.New("model not loaded")
			},
		}

		h := rbac.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"role":"hr","resource":"reviews","action":"decide"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/rbac/enforce", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Enforce(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
