package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/fsnd-projects/fsnd/apps/api/echo"
	"github.com/fsnd-projects/fsnd/core/booking"
	"github.com/fsnd-projects/fsnd/core/coffee"
	"github.com/fsnd-projects/fsnd/core/trivia"
	"github.com/fsnd-projects/fsnd/storage/database/sqlxrepos"
	"github.com/fsnd-projects/fsnd/tests"
)

var (
	errNotFound      = httpErr{Error: http.StatusNotFound, Message: "resource not found"}
	errUnauthorized  = httpErr{Error: http.StatusUnauthorized, Message: "unauthorized"}
	errBadRequest    = httpErr{Error: http.StatusBadRequest, Message: "bad request"}
	errUnprocessable = httpErr{Error: http.StatusUnprocessableEntity, Message: "unprocessable"}
)

type fixture struct {
	app         echoapi.Server
	registry    *prometheus.Registry
	triviaRepo  trivia.Repository
	coffeeRepo  coffee.Repository
	bookingRepo booking.Repository
}

func setup(t *testing.T, tv echoapi.TokenValidator) fixture {
	t.Helper()
	conf := testutil.NewConfig()

	// set up DB & repos
	db := testutil.PrepareDB(t)
	f := fixture{
		triviaRepo:  sqlxrepos.NewTriviaRepository(db),
		coffeeRepo:  sqlxrepos.NewCoffeeRepository(db),
		bookingRepo: sqlxrepos.NewBookingRepository(db),
		registry:    prometheus.NewRegistry(),
	}

	// set up server
	validate, translator := testutil.NewValidator()
	app, err := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Logger:         testutil.NewLogger(),
		Validate:       validate,
		Translator:     translator,
		TokenValidator: tv,
		Registry:       f.registry,
		BookingSvc:     booking.NewService(db, f.bookingRepo),
		TriviaSvc:      trivia.NewService(db, f.triviaRepo, conf),
		CoffeeSvc:      coffee.NewService(db, f.coffeeRepo),
	})
	require.NoError(t, err)
	f.app = app
	return f
}

type httpErr struct {
	Success bool              `json:"success"`
	Error   int               `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func newFormRequest(method, path string, form url.Values) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

// checkCodeAndData checks the response code, and the body when tt.wantData is set.
func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app http.Handler, tests []httpTest) {
	for _, tt := range tests {
		if tt.method == "" {
			tt.method = http.MethodGet
		}
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestServer_cors(t *testing.T) {
	f := setup(t, nil)

	t.Run("preflight", func(t *testing.T) {
		req, rec := newRequest(http.MethodOptions, "/questions")
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		f.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})

	t.Run("simple request", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/drinks")
		req.Header.Set("Origin", "http://localhost:3000")
		f.app.ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestServer_errors(t *testing.T) {
	f := setup(t, nil)

	runHTTPTests(t, f.app, []httpTest{
		{name: "unknown path", path: "/lol", wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
		{
			name: "method not allowed", method: http.MethodPut, path: "/categories",
			wantCode: http.StatusMethodNotAllowed,
			wantData: marchallObj(t, httpErr{Error: http.StatusMethodNotAllowed, Message: "method not allowed"}),
		},
		{name: "trailing slash", path: "/drinks/", wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
	})

	t.Run("unknown page", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/lol")
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		f.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "the page you were looking for was not found")
	})

	t.Run("request id", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/drinks")
		f.app.ServeHTTP(rec, req)

		assert.Len(t, rec.Header().Get("X-Request-Id"), 36)
	})
}
