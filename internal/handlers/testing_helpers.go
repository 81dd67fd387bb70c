package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"
	"github.com/thisishowislab/slabcity-studio/internal/contentful"
	"github.com/thisishowislab/slabcity-studio/storage"
	"github.com/thisishowislab/slabcity-studio/storage/db"
)

// NewTestContext creates an Echo context for testing. A string body is sent
// as-is; anything else is JSON encoded.
func NewTestContext(method, path string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()

	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case string:
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(b)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	default:
		jsonBody, _ := json.Marshal(b)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)

	return c, rec
}

// NewTestDB creates a test database with migrations applied
func NewTestDB() (*sql.DB, *db.Queries, func()) {
	database, queries, cleanup, err := storage.NewTestDB()
	if err != nil {
		panic("failed to create test database: " + err.Error())
	}
	return database, queries, cleanup
}

// AssertJSONResponse checks if the response is valid JSON and returns the parsed body
func AssertJSONResponse(rec *httptest.ResponseRecorder) (map[string]interface{}, error) {
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

// StaticSnapshot serves a fixed snapshot, or Err when set.
type StaticSnapshot struct {
	Snapshot *contentful.Snapshot
	Err      error
	Calls    int
}

func (s *StaticSnapshot) FetchSnapshot(ctx context.Context) (*contentful.Snapshot, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Snapshot, nil
}
