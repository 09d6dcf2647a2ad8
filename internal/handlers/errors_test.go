package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gigline/gigline/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: title is required", services.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: gig g1", services.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: not the owner", services.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("%w: gig is no longer open", services.ErrInvalidState), http.StatusConflict},
		{services.ErrDuplicate, http.StatusConflict},
		{errors.New("driver: bad connection"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFromError(tc.err), tc.err.Error())
	}
}
