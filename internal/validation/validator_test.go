package validation_test

import (
	"errors"
	"net/http"
	"testing"

	domainerrors "github.com/listenupapp/bookstore-server/internal/errors"
	"github.com/listenupapp/bookstore-server/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Price     string `json:"price" validate:"required,price"`
	AutorName string `json:"autor_name" validate:"required,max=255"`
	Rate      *int   `json:"rate" validate:"omitempty,min=1,max=5"`
	Username  string `json:"username" validate:"omitempty,username"`
}

func details(t *testing.T, err error) map[string]string {
	t.Helper()
	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %T", err)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
	d, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	return d
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()
	five := 5

	err := v.Validate(bookRequest{
		Name:      "Test book 1",
		Price:     "1515.00",
		AutorName: "Yeldana Kenges",
		Rate:      &five,
		Username:  "yeldana.k",
	})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()
	six := 6
	zero := 0

	tests := []struct {
		name      string
		req       bookRequest
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing name",
			req:       bookRequest{Price: "1", AutorName: "a"},
			wantField: "name",
			wantMsg:   "is required",
		},
		{
			name:      "malformed price",
			req:       bookRequest{Name: "n", Price: "12.345", AutorName: "a"},
			wantField: "price",
		},
		{
			name:      "rate above range",
			req:       bookRequest{Name: "n", Price: "1", AutorName: "a", Rate: &six},
			wantField: "rate",
			wantMsg:   "must be at most 5",
		},
		{
			name:      "rate below range",
			req:       bookRequest{Name: "n", Price: "1", AutorName: "a", Rate: &zero},
			wantField: "rate",
			wantMsg:   "must be at least 1",
		},
		{
			name:      "bad username",
			req:       bookRequest{Name: "n", Price: "1", AutorName: "a", Username: "white space"},
			wantField: "username",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			d := details(t, err)
			require.Contains(t, d, tt.wantField)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, d[tt.wantField])
			}
		})
	}
}

func TestValidator_NilRateIsAllowed(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Validate(bookRequest{Name: "n", Price: "1", AutorName: "a"}))
}
