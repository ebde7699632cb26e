package errcodes

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestOperationFailed(t *testing.T) {
	t.Parallel()

	assert.NoError(t, OperationFailed("Failed to add book", nil))

	conflict := Conflict("taken")
	assert.Equal(t, conflict, OperationFailed("Failed to add book", conflict))

	validation := errors.WithStack(ValidationError("bad"))
	assert.Equal(t, validation, OperationFailed("Failed to add book", validation))

	var e *Error
	err := OperationFailed("Failed to update book location", NotFound("Book"))
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, http.StatusInternalServerError, e.HTTPCode)
	assert.Equal(t, "Failed to update book location", e.Message)
	assert.Equal(t, "Book not found.", e.Details)

	err = OperationFailed("Failed to fetch books", errors.New("disk I/O error"))
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, "operation_failed", e.Code)
	assert.Equal(t, "disk I/O error", e.Details)
}

func TestHandler_GeneratePayload(t *testing.T) {
	t.Parallel()

	h := NewHandler()

	code, payload := h.generatePayload(errors.WithStack(Conflict(`"Dana" is already registered`)))
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, map[string]interface{}{"error": `"Dana" is already registered`, "code": "conflict"}, payload)

	code, payload = h.generatePayload(OperationFailed("Failed to fetch members", errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "boom", payload["details"])

	code, payload = h.generatePayload(errors.New("unexpected"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal_server_error", payload["code"])
}

func TestIsCode(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCode(errors.WithStack(Configuration("missing")), "configuration_error"))
	assert.False(t, IsCode(errors.New("plain"), "configuration_error"))
}
