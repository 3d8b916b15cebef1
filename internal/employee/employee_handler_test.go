package employee_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-onboard/internal/employee"
	employeeerrors "go-onboard/internal/employee/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeEmployeeService struct {
	CreateFn     func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	GetAllFn     func(ctx context.Context) ([]employee.EmployeeResponse, error)
	GetOptionsFn func(ctx context.Context) ([]employee.EmployeeResponse, error)
	GetByIDFn    func(ctx context.Context, id string) (employee.EmployeeResponse, error)
}

func (f *fakeEmployeeService) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeEmployeeService) GetAll(ctx context.Context) ([]employee.EmployeeResponse, error) {
	return f.GetAllFn(ctx)
}
func (f *fakeEmployeeService) GetOptions(ctx context.Context) ([]employee.EmployeeResponse, error) {
	return f.GetOptionsFn(ctx)
}
func (f *fakeEmployeeService) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	return f.GetByIDFn(ctx, id)
}

func TestEmployeeHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, "Grace Hopper", req.FullName)
				return employee.EmployeeResponse{
					ID:             uuid.NewString(),
					EmployeeNumber: "EMP-000001",
					FullName:       req.FullName,
				}, nil
			},
		}

		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"full_name":"Grace Hopper","email":"grace.hopper@example.com","position":"RN","hire_date":"2025-07-14"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var envelope map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		data := envelope["data"].(map[string]any)
		assert.Equal(t, "EMP-000001", data["employee_number"])
	})

	t.Run("validation error", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"full_name":"Grace Hopper"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeAlreadyExists
			},
		}

		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"full_name":"Grace Hopper","email":"grace.hopper@example.com","position":"RN","hire_date":"2025-07-14"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestEmployeeHandler_GetByID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		employeeID := uuid.NewString()
		svc := &fakeEmployeeService{
			GetByIDFn: func(ctx context.Context, id string) (employee.EmployeeResponse, error) {
				assert.Equal(t, employeeID, id)
				return employee.EmployeeResponse{ID: id, FullName: "Grace Hopper"}, nil
			},
		}

		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodGet, "/employees/"+employeeID, nil)
		c.Params = gin.Params{{Key: "id", Value: employeeID}}

		h.GetByID(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetByIDFn: func(ctx context.Context, id string) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
			},
		}

		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodGet, "/employees/"+uuid.NewString(), nil)

		h.GetByID(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEmployeeHandler_GetOptions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetOptionsFn: func(ctx context.Context) ([]employee.EmployeeResponse, error) {
				return []employee.EmployeeResponse{
					{ID: uuid.NewString(), FullName: "Ada Lovelace"},
					{ID: uuid.NewString(), FullName: "Grace Hopper"},
				}, nil
			},
		}

		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodGet, "/employees/options", nil)

		h.GetOptions(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var envelope map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		data := envelope["data"].([]any)
		assert.Len(t, data, 2)
	})
}
