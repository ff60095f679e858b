package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPinger mocks the storage Pinger
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestHandleHealthz(t *testing.T) {
	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	handler := HandleHealthz()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"status":"ok"}`+"\n", w.Body.String())
}

func TestHandleReadyz(t *testing.T) {
	t.Run("Storage Reachable - Success", func(t *testing.T) {
		mockStore := &MockPinger{}
		mockStore.On("Ping", mock.Anything).Return(nil)

		req := httptest.NewRequest("GET", "/readyz", nil)
		w := httptest.NewRecorder()

		handler := HandleReadyz(mockStore)
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
		mockStore.AssertExpectations(t)
	})

	t.Run("Storage Unreachable", func(t *testing.T) {
		mockStore := &MockPinger{}
		mockStore.On("Ping", mock.Anything).Return(assert.AnError)

		req := httptest.NewRequest("GET", "/readyz", nil)
		w := httptest.NewRecorder()

		handler := HandleReadyz(mockStore)
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"unavailable"`)
		assert.Contains(t, w.Body.String(), `"message":"`+ErrMsgStorageUnavailable+`"`)
		mockStore.AssertExpectations(t)
	})

	t.Run("Storage Timeout", func(t *testing.T) {
		mockStore := &MockPinger{}
		mockStore.On("Ping", mock.Anything).Return(context.DeadlineExceeded)

		req := httptest.NewRequest("GET", "/readyz", nil)
		w := httptest.NewRecorder()

		handler := HandleReadyz(mockStore)
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"unavailable"`)
		mockStore.AssertExpectations(t)
	})

	t.Run("Storage Connection Refused", func(t *testing.T) {
		mockStore := &MockPinger{}
		mockStore.On("Ping", mock.Anything).Return(errors.New("connection refused"))

		req := httptest.NewRequest("GET", "/readyz", nil)
		w := httptest.NewRecorder()

		handler := HandleReadyz(mockStore)
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		mockStore.AssertExpectations(t)
	})
}
