package members

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/littleshelf/littleshelf/pkg/binder"
	"github.com/littleshelf/littleshelf/pkg/errcodes"
	"github.com/littleshelf/littleshelf/pkg/journals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	db := setupTestDB(t)
	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	RegisterRoutesWithGroup(e.Group("/api"), db, journals.NewService(db))
	return e
}

func post(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	return rr
}

func TestHandlerAddLocation(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)

	rr := post(e, "/api/addLocation", `{"firstName":" Dana ","lastName":"Smith","city":"Oakland"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{
		"success": true,
		"member": {
			"libraryCardNumber": 1,
			"firstName": "Dana",
			"lastName": "Smith",
			"lastNameInitial": "S.",
			"city": "Oakland",
			"neighborhood": ""
		},
		"message": "Welcome Dana! Your library card number is #1."
	}`, rr.Body.String())

	rr = post(e, "/api/addLocation", `{"firstName":"dana","lastName":"Jones"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), `is already registered`)

	req := httptest.NewRequest(http.MethodGet, "/api/getMembers", nil)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"firstName":"Dana"`)
	assert.NotContains(t, res.Body.String(), "Jones")
}

func TestHandlerAddLocation_MissingFields(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)

	rr := post(e, "/api/addLocation", `{"firstName":"  ","lastName":"Smith"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `\"firstName\" is required`)

	rr = post(e, "/api/addLocation", `{"firstName":"Dana"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `\"lastName\" is required`)
}

func TestHandlerGetMembers_Empty(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/getMembers", nil)
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}
