package items

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestRegisterRoutes(t *testing.T) {
	repo := &fakeRepo{
		findItem:  Item{ID: 10, DateEvent: time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)},
		findFound: true,
	}
	router := chi.NewRouter()
	RegisterRoutes(router, NewHandler(NewService(repo)))

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "post items",
			method:     http.MethodPost,
			path:       "/items",
			body:       `{"shortDescription":"Coffee","category":1,"value":450,"incoming":false,"dateEvent":"2024-03-05T08:00:00.000Z"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "post items with trailing slash",
			method:     http.MethodPost,
			path:       "/items/",
			body:       `{"shortDescription":"Coffee","category":1,"value":450,"incoming":false,"dateEvent":"2024-03-05T08:00:00.000Z"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "get item by id",
			method:     http.MethodGet,
			path:       "/items/10",
			wantStatus: http.StatusOK,
		},
		{
			name:       "get by category is not taken as an id",
			method:     http.MethodGet,
			path:       "/items/category/1",
			wantStatus: http.StatusOK,
		},
		{
			name:       "get by month",
			method:     http.MethodGet,
			path:       "/items/month/2024/3",
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid month",
			method:     http.MethodGet,
			path:       "/items/month/2024/13",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "patch item",
			method:     http.MethodPatch,
			path:       "/items/10",
			body:       `{"value":500}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "delete item",
			method:     http.MethodDelete,
			path:       "/items/10",
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "put is not routed",
			method:     http.MethodPut,
			path:       "/items/10",
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			recorder := httptest.NewRecorder()

			router.ServeHTTP(recorder, req)

			require.Equal(t, tt.wantStatus, recorder.Code)
		})
	}

	require.True(t, repo.createCalled)
	require.True(t, repo.updateCalled)
	require.Equal(t, int64(10), repo.deleteID)
	require.Equal(t, int64(1), repo.category)
	require.Equal(t, 2024, repo.year)
	require.Equal(t, 3, repo.month)
}
