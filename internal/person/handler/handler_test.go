package handler

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks Service

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"pidstore/internal/person/handler/mocks"
	"pidstore/internal/person/service"
	"pidstore/internal/person/store"
	dErrors "pidstore/pkg/domain-errors"
	"pidstore/pkg/platform/httputil"
	"pidstore/pkg/testutil"
)

const johnDoe = `{
	"external_id": "123e4567-e89b-12d3-a456-426614174000",
	"name": "John Doe",
	"email": "john.doe@example.com",
	"date_of_birth": "1990-01-01T00:00:00"
}`

type HandlerSuite struct {
	suite.Suite
	router http.Handler
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := service.New(store.NewInMemory(), service.WithLogger(logger))

	r := chi.NewRouter()
	New(svc, logger).Register(r)
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decodeSave(rec *httptest.ResponseRecorder) SaveResponse {
	var resp SaveResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func (s *HandlerSuite) decodeError(rec *httptest.ResponseRecorder) httputil.ErrorResponse {
	var resp httputil.ErrorResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

// TestJohnDoeScenario walks save, repeat save and fetch for the canonical record.
func (s *HandlerSuite) TestJohnDoeScenario() {
	rec := s.do(http.MethodPost, "/save", johnDoe)
	s.Require().Equal(http.StatusOK, rec.Code)
	first := s.decodeSave(rec)
	s.Equal("123e4567-e89b-12d3-a456-426614174000", first.ExternalID)
	s.Contains(first.Message, "saved")

	rec = s.do(http.MethodPost, "/save", johnDoe)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(s.decodeSave(rec).Message, "already exists")

	rec = s.do(http.MethodGet, "/123e4567-e89b-12d3-a456-426614174000", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{
		"external_id": "123e4567-e89b-12d3-a456-426614174000",
		"name": "John Doe",
		"email": "john.doe@example.com",
		"date_of_birth": "1990-01-01T00:00:00Z"
	}`, rec.Body.String())
}

func (s *HandlerSuite) TestSaveNormalizesIdentifierCase() {
	body := strings.Replace(johnDoe, "123e4567-e89b-12d3-a456-426614174000", "123E4567-E89B-12D3-A456-426614174000", 1)
	rec := s.do(http.MethodPost, "/save", body)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("123e4567-e89b-12d3-a456-426614174000", s.decodeSave(rec).ExternalID)
}

func (s *HandlerSuite) TestSaveValidationErrors() {
	tests := []struct {
		name   string
		body   string
		status int
		code   dErrors.Code
	}{
		{"malformed id", `{"external_id":"not-a-uuid","name":"a","email":"a@b.co","date_of_birth":"1990-01-01"}`, http.StatusBadRequest, dErrors.CodeMalformedIdentifier},
		{"bad email", `{"external_id":"123e4567-e89b-12d3-a456-426614174000","name":"a","email":"not-an-email","date_of_birth":"1990-01-01"}`, http.StatusUnprocessableEntity, dErrors.CodeInvalidEmail},
		{"bad timestamp", `{"external_id":"123e4567-e89b-12d3-a456-426614174000","name":"a","email":"a@b.co","date_of_birth":"01/01/1990"}`, http.StatusUnprocessableEntity, dErrors.CodeInvalidTimestamp},
		{"missing name", `{"external_id":"123e4567-e89b-12d3-a456-426614174000","email":"a@b.co","date_of_birth":"1990-01-01"}`, http.StatusUnprocessableEntity, dErrors.CodeMissingField},
		{"null email", `{"external_id":"123e4567-e89b-12d3-a456-426614174000","name":"a","email":null,"date_of_birth":"1990-01-01"}`, http.StatusUnprocessableEntity, dErrors.CodeMissingField},
		{"numeric id", `{"external_id":123,"name":"a","email":"a@b.co","date_of_birth":"1990-01-01"}`, http.StatusBadRequest, dErrors.CodeMalformedIdentifier},
		{"numeric email", `{"external_id":"123e4567-e89b-12d3-a456-426614174000","name":"a","email":5,"date_of_birth":"1990-01-01"}`, http.StatusUnprocessableEntity, dErrors.CodeInvalidEmail},
		{"epoch timestamp", `{"external_id":"123e4567-e89b-12d3-a456-426614174000","name":"a","email":"a@b.co","date_of_birth":631152000}`, http.StatusUnprocessableEntity, dErrors.CodeInvalidTimestamp},
		{"numeric name", `{"external_id":"123e4567-e89b-12d3-a456-426614174000","name":7,"email":"a@b.co","date_of_birth":"1990-01-01"}`, http.StatusUnprocessableEntity, dErrors.CodeValidation},
		{"not json", `{"external_id":`, http.StatusBadRequest, dErrors.CodeBadRequest},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.do(http.MethodPost, "/save", tt.body)
			s.Equal(tt.status, rec.Code)
			s.Equal(string(tt.code), s.decodeError(rec).Error)
		})
	}

	// nothing reached storage
	rec := s.do(http.MethodGet, "/123e4567-e89b-12d3-a456-426614174000", "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestSaveAcceptsEmptyName() {
	body := strings.Replace(johnDoe, `"John Doe"`, `""`, 1)
	rec := s.do(http.MethodPost, "/save", body)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerSuite) TestGetMalformedID() {
	rec := s.do(http.MethodGet, "/not-a-uuid", "")
	s.Equal(http.StatusBadRequest, rec.Code)
	resp := s.decodeError(rec)
	s.Equal(string(dErrors.CodeMalformedIdentifier), resp.Error)
	s.Equal("Invalid UUID format: not-a-uuid", resp.ErrorDescription)
}

func (s *HandlerSuite) TestGetUnknownID() {
	rec := s.do(http.MethodGet, "/"+testutil.TestIDs.Unknown.String(), "")
	s.Equal(http.StatusNotFound, rec.Code)
	resp := s.decodeError(rec)
	s.Equal(string(dErrors.CodeNotFound), resp.Error)
	s.Contains(resp.ErrorDescription, "not found in database")
}

func TestServiceFailuresAreOpaque(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	logger := slog.New(slog.DiscardHandler)

	r := chi.NewRouter()
	New(svc, logger).Register(r)

	t.Run("save", func(t *testing.T) {
		svc.EXPECT().Save(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Wrap(assert.AnError, dErrors.CodeInternal, "failed to save person"))

		req := httptest.NewRequest(http.MethodPost, "/save", strings.NewReader(johnDoe))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"internal_error"}`, rec.Body.String())
	})

	t.Run("get", func(t *testing.T) {
		svc.EXPECT().Get(gomock.Any(), testutil.TestIDs.Person1).Return(nil, assert.AnError)

		req := httptest.NewRequest(http.MethodGet, "/"+testutil.TestIDs.Person1.String(), nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	})

	t.Run("timeout", func(t *testing.T) {
		svc.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeTimeout, "request timed out"))

		req := httptest.NewRequest(http.MethodGet, "/"+testutil.TestIDs.Person1.String(), nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	})
}
