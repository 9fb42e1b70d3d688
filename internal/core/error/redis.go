package errx

import (
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// WrapRedis maps Redis errors to an AppError with an appropriate status.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, redis.Nil) {
		return Wrap(err, CodeRedis, http.StatusNotFound, RedisNotFoundMessage)
	}

	return Wrap(err, CodeRedis, http.StatusBadGateway, RedisErrorMessage)
}
