package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfUnwrapsChains(t *testing.T) {
	notFound := New(KindNotFound, "comment_not_found", "comment not found")
	wrapped := fmt.Errorf("cast vote: %w", notFound)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, IsNotFound(wrapped))
	assert.True(t, errors.Is(wrapped, notFound))
	assert.False(t, IsValidation(wrapped))
}

func TestUnknownErrorsAreStorage(t *testing.T) {
	raw := errors.New("connection reset")
	e := As(raw)

	assert.Equal(t, KindStorage, e.Kind)
	assert.Equal(t, "internal server error", e.Message)
	assert.ErrorIs(t, e, raw)
	assert.Equal(t, http.StatusInternalServerError, e.Kind.Status())
}

func TestStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:       http.StatusBadRequest,
		KindNotFound:         http.StatusNotFound,
		KindUnauthenticated:  http.StatusUnauthorized,
		KindAuthorization:    http.StatusForbidden,
		KindMethodNotAllowed: http.StatusMethodNotAllowed,
		KindStorage:          http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.Status())
	}
}
