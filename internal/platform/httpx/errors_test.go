package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medbill/medbill/internal/shared"
)

func TestRespondErrorMapsTaxonomy(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{shared.NewError(shared.ErrNotFound, "Invoice not found!"), http.StatusNotFound, "Invoice not found!"},
		{shared.NewError(shared.ErrForbidden, "Access denied!"), http.StatusForbidden, "Access denied!"},
		{fmt.Errorf("create bill: %w", shared.NewError(shared.ErrInsufficientStock, "Insufficient stock available!")), http.StatusBadRequest, "Insufficient stock available!"},
		{shared.ErrDiscountExceedsTotal, http.StatusBadRequest, "Invalid request!"},
		{shared.ErrProductNotFound, http.StatusNotFound, "Resource not found!"},
		{shared.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized!"},
		{shared.NewError(shared.ErrDuplicate, "Company already exists!"), http.StatusBadRequest, "Company already exists!"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, tc.err)
		require.Equal(t, tc.status, rec.Code)

		var env Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		require.Equal(t, tc.status, env.Status)
		require.Equal(t, tc.message, env.Message)
		require.Nil(t, env.Error)
	}
}

func TestRespondErrorInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, errors.New("connection reset"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var env struct {
		Message string            `json:"message"`
		Error   map[string]string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, InternalErrorMessage, env.Message)
	require.Equal(t, "connection reset", env.Error["message"])
}

func TestListFiltersDefaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/bills?page=abc&limit=-3&search=%20x%20", nil)
	f := ListFilters(req)
	require.Equal(t, 1, f.Page)
	require.Equal(t, 10, f.Limit)
	require.Equal(t, "x", f.Search)

	_, err := PathID("0")
	require.ErrorIs(t, err, shared.ErrValidation)
	id, err := PathID("42")
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
}
