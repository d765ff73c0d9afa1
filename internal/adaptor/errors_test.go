package adaptor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"cinema-tickets/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleServiceErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", entity.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("movie x: %w", entity.ErrNotFound), http.StatusNotFound},
		{"invalid selection", entity.ErrInvalidSelection, http.StatusBadRequest},
		{"unauthenticated", entity.ErrUnauthenticated, http.StatusUnauthorized},
		{"overlapping showtime", entity.ErrOverlappingShowtime, http.StatusConflict},
		{"unknown", fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zap.NewNop(), tc.err, "test operation")
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestHandleServiceErrorSeatConflictBody(t *testing.T) {
	rec := httptest.NewRecorder()
	conflictErr := &entity.SeatConflictError{
		Reason: entity.ConflictSold,
		Seats:  []string{"A2", "B1"},
	}

	handleServiceError(rec, zap.NewNop(), conflictErr, "finalize booking")

	assert.Equal(t, http.StatusConflict, rec.Code)

	var envelope struct {
		Status bool `json:"status"`
		Errors struct {
			Reason string   `json:"reason"`
			Seats  []string `json:"seats"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Status)
	assert.Equal(t, "sold", envelope.Errors.Reason)
	assert.Equal(t, []string{"A2", "B1"}, envelope.Errors.Seats)
}
