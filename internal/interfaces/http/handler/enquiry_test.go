package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	enquiryapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/enquiry"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/interfaces/http/dto"
	"github.com/manutdmohit/proficientlegal-sub000/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEnquiryService struct {
	mock.Mock
}

func (m *MockEnquiryService) Submit(ctx context.Context, req enquiryapp.SubmitRequest, meta enquiryapp.SubmitMeta) (*enquiryapp.SubmitResult, error) {
	args := m.Called(ctx, req, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enquiryapp.SubmitResult), args.Error(1)
}

func (m *MockEnquiryService) List(ctx context.Context, filter enquiryapp.ListFilter) ([]enquiryapp.Response, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]enquiryapp.Response), args.Get(1).(int64), args.Error(2)
}

func (m *MockEnquiryService) Get(ctx context.Context, id uuid.UUID) (*enquiryapp.Response, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enquiryapp.Response), args.Error(1)
}

func (m *MockEnquiryService) UpdateStatus(ctx context.Context, id uuid.UUID, req enquiryapp.UpdateStatusRequest) (*enquiryapp.Response, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enquiryapp.Response), args.Error(1)
}

func (m *MockEnquiryService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func newEnquiryRouter(svc EnquiryService) *gin.Engine {
	middleware.SetupValidator()
	h := NewEnquiryHandler(svc)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.POST("/api/v1/enquiries", h.Submit)
	admin := router.Group("/api/v1/admin/enquiries")
	admin.GET("", h.List)
	admin.GET("/:id", h.Get)
	admin.PATCH("/:id/status", h.UpdateStatus)
	admin.DELETE("/:id", h.Delete)
	return router
}

func sendJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "handler-test")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const validEnquiryBody = `{"name":"Sam Lee","email":"sam@example.com","subject":"Lease review","message":"Please review my commercial lease."}`

func TestEnquiryHandler_Submit(t *testing.T) {
	t.Run("stored enquiry is created", func(t *testing.T) {
		svc := new(MockEnquiryService)
		id := uuid.New()
		svc.On("Submit", mock.Anything, mock.MatchedBy(func(r enquiryapp.SubmitRequest) bool {
			return r.Email == "sam@example.com" && r.Subject == "Lease review"
		}), mock.MatchedBy(func(m enquiryapp.SubmitMeta) bool {
			return m.UserAgent == "handler-test" && m.IP != ""
		})).Return(&enquiryapp.SubmitResult{ID: &id, Stored: true, Notified: true}, nil)

		w := sendJSON(newEnquiryRouter(svc), http.MethodPost, "/api/v1/enquiries", validEnquiryBody)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), id.String())
		svc.AssertExpectations(t)
	})

	t.Run("notify-only submission is accepted", func(t *testing.T) {
		svc := new(MockEnquiryService)
		svc.On("Submit", mock.Anything, mock.Anything, mock.Anything).
			Return(&enquiryapp.SubmitResult{Stored: false, Notified: true}, nil)

		w := sendJSON(newEnquiryRouter(svc), http.MethodPost, "/api/v1/enquiries", validEnquiryBody)
		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("undeliverable enquiry is a bad gateway", func(t *testing.T) {
		svc := new(MockEnquiryService)
		svc.On("Submit", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("ENQUIRY_NOT_DELIVERED", "We could not receive your enquiry"))

		w := sendJSON(newEnquiryRouter(svc), http.MethodPost, "/api/v1/enquiries", validEnquiryBody)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "ENQUIRY_NOT_DELIVERED", decodeResponse(t, w).Error.Code)
	})

	t.Run("missing fields are a validation error", func(t *testing.T) {
		svc := new(MockEnquiryService)
		w := sendJSON(newEnquiryRouter(svc), http.MethodPost, "/api/v1/enquiries", `{"name":"Sam"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		fields := make([]string, 0, len(resp.Error.Details))
		for _, d := range resp.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"email", "subject", "message"}, fields)
		svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestEnquiryHandler_List(t *testing.T) {
	svc := new(MockEnquiryService)
	svc.On("List", mock.Anything, enquiryapp.ListFilter{Status: "new", Page: 2, PageSize: 10}).
		Return([]enquiryapp.Response{{ID: uuid.New(), Status: "new"}}, int64(11), nil)

	w := getJSON(newEnquiryRouter(svc), "/api/v1/admin/enquiries?status=new&page=2&page_size=10")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(11), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)
	svc.AssertExpectations(t)
}

func TestEnquiryHandler_ListRejectsUnknownStatus(t *testing.T) {
	svc := new(MockEnquiryService)
	w := getJSON(newEnquiryRouter(svc), "/api/v1/admin/enquiries?status=spam")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnquiryHandler_GetAndDelete(t *testing.T) {
	id := uuid.New()
	svc := new(MockEnquiryService)
	svc.On("Get", mock.Anything, id).Return(nil, shared.ErrNotFound)
	svc.On("Delete", mock.Anything, id).Return(nil)
	router := newEnquiryRouter(svc)

	assert.Equal(t, http.StatusNotFound, getJSON(router, "/api/v1/admin/enquiries/"+id.String()).Code)
	assert.Equal(t, http.StatusBadRequest, getJSON(router, "/api/v1/admin/enquiries/not-a-uuid").Code)

	w := sendJSON(router, http.MethodDelete, "/api/v1/admin/enquiries/"+id.String(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestEnquiryHandler_UpdateStatus(t *testing.T) {
	id := uuid.New()
	svc := new(MockEnquiryService)
	svc.On("UpdateStatus", mock.Anything, id, enquiryapp.UpdateStatusRequest{Status: "replied"}).
		Return(&enquiryapp.Response{ID: id, Status: "replied"}, nil)
	svc.On("UpdateStatus", mock.Anything, id, enquiryapp.UpdateStatusRequest{Status: "read"}).
		Return(nil, shared.ErrInvalidState)
	router := newEnquiryRouter(svc)

	w := sendJSON(router, http.MethodPatch, "/api/v1/admin/enquiries/"+id.String()+"/status", `{"status":"replied"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = sendJSON(router, http.MethodPatch, "/api/v1/admin/enquiries/"+id.String()+"/status", `{"status":"read"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = sendJSON(router, http.MethodPatch, "/api/v1/admin/enquiries/"+id.String()+"/status", `{"status":"spam"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
