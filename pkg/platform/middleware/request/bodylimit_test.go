package request

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	const limit int64 = 100

	read := func(body string) error {
		var readErr error
		handler := BodyLimit(limit)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			_, readErr = io.ReadAll(r.Body)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		return readErr
	}

	assert.NoError(t, read(strings.Repeat("x", 10)))
	assert.NoError(t, read(strings.Repeat("x", int(limit))))

	err := read(strings.Repeat("x", int(limit)+1))
	var tooLarge *http.MaxBytesError
	assert.True(t, errors.As(err, &tooLarge))
}

func TestBodyLimit_NilBody(t *testing.T) {
	called := false
	handler := BodyLimit(1)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Body = nil
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, called)
}
