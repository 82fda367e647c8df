// Package httpx provides HTTP response utilities around the API envelope.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/medbill/medbill/internal/shared"
)

// Envelope is the uniform body of every API response.
type Envelope struct {
	Status     int                `json:"status"`
	Message    string             `json:"message"`
	Data       any                `json:"data"`
	Pagination *shared.Pagination `json:"pagination,omitempty"`
	Error      any                `json:"error"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Success writes a successful envelope.
func Success(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Status: status, Message: message, Data: data})
}

// Paginated writes a list envelope with pagination metadata.
func Paginated(w http.ResponseWriter, message string, data any, page shared.Pagination) {
	JSON(w, http.StatusOK, Envelope{Status: http.StatusOK, Message: message, Data: data, Pagination: &page})
}

// Failure writes an error envelope.
func Failure(w http.ResponseWriter, status int, message string, detail any) {
	JSON(w, status, Envelope{Status: status, Message: message, Error: detail})
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return shared.NewError(shared.ErrValidation, "Request body is required!")
		}
		return shared.NewError(shared.ErrValidation, "Invalid request payload!")
	}
	return nil
}

// PathID parses a positive integer URL parameter value.
func PathID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, shared.NewError(shared.ErrValidation, "Invalid id %q!", raw)
	}
	return id, nil
}

// ListFilters reads page, limit and search from the query string.
func ListFilters(r *http.Request) shared.ListFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return shared.ListFilters{Page: page, Limit: limit, Search: q.Get("search")}.Normalize()
}
