package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("submit: %w", New(CodeEmptyCart, http.StatusBadRequest, "custom"))

	assert.True(t, errors.Is(err, ErrEmptyCart))
	assert.False(t, errors.Is(err, ErrMissingFields))
	assert.Equal(t, CodeEmptyCart, CodeOf(err))
	assert.Equal(t, "custom", MessageOf(err))
}

func TestAppError_UnwrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Network(cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.Contains(t, err.Error(), "NETWORK_ERROR")
	assert.Contains(t, err.Error(), "refused")
}

func TestOrderFailed(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{"ServerMessage", "coupon expired", "coupon expired"},
		{"Generic", "", OrderFailedMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := OrderFailed(http.StatusUnprocessableEntity, tt.message, nil)
			assert.Equal(t, CodeOrderFailed, err.Code)
			assert.Equal(t, tt.expected, err.Message)
			assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(nil))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.Equal(t, SystemErrorMessage, MessageOf(errors.New("boom")))
}

func TestWrapRedis(t *testing.T) {
	assert.NoError(t, WrapRedis(nil))

	var appErr *AppError
	err := WrapRedis(redis.Nil)
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.True(t, errors.Is(err, redis.Nil))

	err = WrapRedis(errors.New("connection reset"))
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
	assert.Equal(t, CodeRedis, appErr.Code)
}
