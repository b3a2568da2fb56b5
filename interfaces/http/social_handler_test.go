package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cjodon01/autoauthadmin/domain/dto"
	"github.com/cjodon01/autoauthadmin/domain/model"
	httpHandler "github.com/cjodon01/autoauthadmin/interfaces/http"
	"github.com/cjodon01/autoauthadmin/interfaces/middleware"
)

type MockDispatchUsecase struct{ mock.Mock }

func (m *MockDispatchUsecase) Dispatch(ctx context.Context, p model.Principal, req dto.DispatchRequest) (*dto.DispatchResponse, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DispatchResponse), args.Error(1)
}

type MockSinglePostUsecase struct{ mock.Mock }

func (m *MockSinglePostUsecase) Publish(ctx context.Context, p model.Principal, req dto.SinglePostRequest) (*dto.SinglePostResponse, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SinglePostResponse), args.Error(1)
}

type MockCallRecordUsecase struct{ mock.Mock }

func (m *MockCallRecordUsecase) List(ctx context.Context, p model.Principal, f model.CallRecordFilter) ([]model.CallRecord, int64, model.CallRecordFilter, error) {
	args := m.Called(ctx, p, f)
	var rows []model.CallRecord
	if args.Get(0) != nil {
		rows = args.Get(0).([]model.CallRecord)
	}
	return rows, args.Get(1).(int64), args.Get(2).(model.CallRecordFilter), args.Error(3)
}

var admin = model.Principal{UserID: "user-1", UserName: "admin"}

type handlerFixture struct {
	dispatch    *MockDispatchUsecase
	singlePost  *MockSinglePostUsecase
	callRecords *MockCallRecordUsecase
	router      *gin.Engine
}

func newHandlerFixture() *handlerFixture {
	gin.SetMode(gin.TestMode)
	f := &handlerFixture{
		dispatch:    new(MockDispatchUsecase),
		singlePost:  new(MockSinglePostUsecase),
		callRecords: new(MockCallRecordUsecase),
	}
	h := httpHandler.NewSocialHandler(f.dispatch, f.singlePost, f.callRecords)

	f.router = gin.New()
	api := f.router.Group("/api", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, admin.UserID)
		c.Set(middleware.ContextUserName, admin.UserName)
	})
	api.POST("/social/dispatch", h.Dispatch)
	api.POST("/social/single-post", h.SinglePost)
	api.GET("/social/features", h.Features)
	api.GET("/social/call-records", h.CallRecords)
	return f
}

func (f *handlerFixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var res dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestDispatchHandler_Success(t *testing.T) {
	f := newHandlerFixture()
	req := dto.DispatchRequest{Platform: "facebook", Feature: "list_pages", ConnectionID: "conn-1"}
	f.dispatch.On("Dispatch", mock.Anything, admin, req).Return(&dto.DispatchResponse{
		Success: true, Endpoint: "https://graph.facebook.com/v18.0/me/accounts", Method: "GET",
		Summary: "Found 2 pages", StatusCode: 200, Response: json.RawMessage(`{"data":[]}`),
	}, nil)

	w := f.do(http.MethodPost, "/api/social/dispatch", req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"endpoint":"https://graph.facebook.com/v18.0/me/accounts","method":"GET","summary":"Found 2 pages","statusCode":200,"response":{"data":[]}}`, w.Body.String())
}

func TestDispatchHandler_UpstreamRejection(t *testing.T) {
	f := newHandlerFixture()
	f.dispatch.On("Dispatch", mock.Anything, admin, mock.Anything).Return(&dto.DispatchResponse{
		Success: false, StatusCode: 403, Summary: "Post failed", Error: "(#200) Permissions error", Response: json.RawMessage(`{}`),
	}, nil)

	w := f.do(http.MethodPost, "/api/social/dispatch", dto.DispatchRequest{Platform: "facebook", Feature: "post_to_feed", ConnectionID: "c", Content: "x"})

	require.Equal(t, http.StatusBadGateway, w.Code)
	var res dto.DispatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Equal(t, 403, res.StatusCode)
	assert.Equal(t, "(#200) Permissions error", res.Error)
}

func TestDispatchHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		errorType string
		message   string
	}{
		{"validation", model.NewValidationError("postId is required for get_engagements"), http.StatusBadRequest, "validation", "postId is required for get_engagements"},
		{"precondition", model.NewPreconditionError("page token missing"), http.StatusBadRequest, "precondition", "page token missing"},
		{"credential", model.NewCredentialError("page bad-id not found", nil), http.StatusUnprocessableEntity, "credential", "page bad-id not found"},
		{"upstream", model.NewUpstreamError("platform request failed", errors.New("i/o timeout")), http.StatusBadGateway, "upstream", "platform request failed"},
		{"audit", model.NewAuditError("call record not durable", errors.New("db down")), http.StatusInternalServerError, "audit", "internal error"},
		{"untyped", errors.New("pq: connection reset"), http.StatusInternalServerError, "", "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture()
			f.dispatch.On("Dispatch", mock.Anything, admin, mock.Anything).Return(nil, tt.err)

			w := f.do(http.MethodPost, "/api/social/dispatch", dto.DispatchRequest{Platform: "facebook"})

			assert.Equal(t, tt.status, w.Code)
			res := decodeError(t, w)
			assert.False(t, res.Success)
			assert.Equal(t, tt.errorType, res.ErrorType)
			assert.Equal(t, tt.message, res.Error)
		})
	}
}

func TestDispatchHandler_MalformedBody(t *testing.T) {
	f := newHandlerFixture()
	req := httptest.NewRequest(http.MethodPost, "/api/social/dispatch", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation", decodeError(t, w).ErrorType)
	f.dispatch.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestSinglePostHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newHandlerFixture()
		req := dto.SinglePostRequest{PageID: "p1", Content: "Hello"}
		f.singlePost.On("Publish", mock.Anything, admin, req).
			Return(&dto.SinglePostResponse{Success: true, PostID: "p1_9", Message: "Post published successfully"}, nil)

		w := f.do(http.MethodPost, "/api/social/single-post", req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"postId":"p1_9","message":"Post published successfully"}`, w.Body.String())
	})

	t.Run("missing content", func(t *testing.T) {
		f := newHandlerFixture()
		w := f.do(http.MethodPost, "/api/social/single-post", map[string]string{"pageId": "p1"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.singlePost.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejected", func(t *testing.T) {
		f := newHandlerFixture()
		f.singlePost.On("Publish", mock.Anything, admin, mock.Anything).
			Return(nil, model.NewRejectedError(http.StatusBadRequest, "Invalid OAuth access token"))

		w := f.do(http.MethodPost, "/api/social/single-post", dto.SinglePostRequest{PageID: "p1", Content: "Hello"})

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, dto.ErrorResponse{Error: "Invalid OAuth access token", ErrorType: "rejected", StatusCode: 400}, decodeError(t, w))
	})
}

func TestFeaturesHandler(t *testing.T) {
	f := newHandlerFixture()

	w := f.do(http.MethodGet, "/api/social/features", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []dto.PlatformFeatures
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 5)

	w = f.do(http.MethodGet, "/api/social/features?platform=LinkedIn", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var one []dto.PlatformFeatures
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &one))
	require.Len(t, one, 1)
	assert.Equal(t, "linkedin", string(one[0].Platform))
	assert.NotEmpty(t, one[0].Features)

	w = f.do(http.MethodGet, "/api/social/features?platform=myspace", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCallRecordsHandler(t *testing.T) {
	f := newHandlerFixture()
	f.callRecords.On("List", mock.Anything, admin, model.CallRecordFilter{ActionType: "post_creation", Limit: 20, Offset: 40}).
		Return([]model.CallRecord{{ID: "r1", ActionType: "post_creation", ResponseCode: 200}}, int64(41), model.CallRecordFilter{UserID: "user-1", ActionType: "post_creation", Limit: 20, Offset: 40}, nil)

	w := f.do(http.MethodGet, "/api/social/call-records?action_type=post_creation&limit=20&offset=40", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var res dto.CallRecordList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, int64(41), res.Total)
	assert.Equal(t, 20, res.Limit)
	require.Len(t, res.Data, 1)

	w = f.do(http.MethodGet, "/api/social/call-records?limit=ten", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
