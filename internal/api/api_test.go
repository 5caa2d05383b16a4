package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/leettrack/internal/extension"
	"github.com/vytor/leettrack/internal/models"
	"github.com/vytor/leettrack/internal/services"
	"github.com/vytor/leettrack/internal/store"
)

var fixedNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.Local)

type APISuite struct {
	suite.Suite
	handler http.Handler
	store   *store.Store
	server  *Server
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	s.store = store.New(store.Options{Now: func() time.Time { return fixedNow }})
	session := extension.NewSession()
	s.server = &Server{
		ProblemService:   services.NewProblemService(s.store, time.Local),
		ExtensionService: services.NewExtensionService(s.store, session, nil, 10*time.Millisecond),
		Location:         time.Local,
	}
	s.handler = s.server.Routes()
}

func (s *APISuite) do(method, path string, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (s *APISuite) create(body string) models.Problem {
	rec := s.do(http.MethodPost, "/api/problems", body)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var p models.Problem
	s.decode(rec, &p)
	return p
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *APISuite) TestHealth() {
	rec := s.do(http.MethodGet, "/healthz", "")
	s.Assert().Equal(http.StatusOK, rec.Code)
	s.Assert().Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))

	_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
	s.Assert().NoError(err)
}

func (s *APISuite) TestRequestIDIsEchoed() {
	id := uuid.NewString()
	rec := s.do(http.MethodGet, "/healthz", "", "X-Request-ID", id)
	s.Assert().Equal(id, rec.Header().Get("X-Request-ID"))

	rec = s.do(http.MethodGet, "/healthz", "", "X-Request-ID", "not-a-uuid")
	s.Assert().NotEqual("not-a-uuid", rec.Header().Get("X-Request-ID"))
}

func (s *APISuite) TestReady() {
	rec := s.do(http.MethodGet, "/readyz", "")
	s.Assert().Equal(http.StatusOK, rec.Code)

	s.server.ReadyChecks = map[string]HealthCheck{
		"storage": func(context.Context) error { return stderrors.New("down") },
	}
	rec = s.do(http.MethodGet, "/readyz", "")
	s.Assert().Equal(http.StatusServiceUnavailable, rec.Code)
	var body struct {
		Ready  bool              `json:"ready"`
		Checks map[string]string `json:"checks"`
	}
	s.decode(rec, &body)
	s.Assert().False(body.Ready)
	s.Assert().Equal("down", body.Checks["storage"])
}

func (s *APISuite) TestCreateAndGet() {
	p := s.create(`{"date":"3/4/2024","duration":30,"difficulty":"Medium","problemTitle":"1. Two Sum","redo":"Hard"}`)

	s.Assert().NotEmpty(p.ID)
	s.Assert().True(time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local).Equal(p.SolvedDate), p.SolvedDate)
	s.Assert().Equal(models.Hard, p.RedoDifficulty)

	rec := s.do(http.MethodGet, "/api/problems/"+p.ID, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var got models.Problem
	s.decode(rec, &got)
	s.Assert().Equal(p.ID, got.ID)
	s.Assert().Equal("1. Two Sum", got.Title)
}

func (s *APISuite) TestCreateValidation() {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad date", `{"date":"2/30/2024","problemTitle":"1. A"}`, http.StatusBadRequest},
		{"bad difficulty", `{"difficulty":"Insane","problemTitle":"1. A"}`, http.StatusBadRequest},
		{"negative duration", `{"duration":-1,"problemTitle":"1. A"}`, http.StatusBadRequest},
		{"empty title", `{"problemTitle":"  "}`, http.StatusBadRequest},
		{"broken json", `{"problemTitle":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.do(http.MethodPost, "/api/problems", tt.body)
			s.Assert().Equal(tt.code, rec.Code)
			var body errorResponse
			s.decode(rec, &body)
			s.Assert().NotEmpty(body.Error.Code)
			s.Assert().NotEmpty(body.Error.Message)
		})
	}
	s.Assert().Equal(0, s.store.Len())
}

func (s *APISuite) TestGetMissing() {
	rec := s.do(http.MethodGet, "/api/problems/nope", "")
	s.Assert().Equal(http.StatusNotFound, rec.Code)
	var body errorResponse
	s.decode(rec, &body)
	s.Assert().Equal("NOT_FOUND", body.Error.Code)
}

func (s *APISuite) TestListSearchAndSort() {
	s.create(`{"date":"1/1/2024","problemTitle":"2. Add Two Numbers","duration":10}`)
	s.create(`{"date":"1/2/2024","problemTitle":"1. Two Sum","duration":50}`)
	s.create(`{"date":"1/3/2024","problemTitle":"3. Longest Substring","duration":30}`)

	rec := s.do(http.MethodGet, "/api/problems?q=two&sort=duration&dir=desc", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var got []models.Problem
	s.decode(rec, &got)
	s.Require().Len(got, 2)
	s.Assert().Equal("1. Two Sum", got[0].Title)
	s.Assert().Equal("2. Add Two Numbers", got[1].Title)

	rec = s.do(http.MethodGet, "/api/problems?sort=bogus", "")
	s.Assert().Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestPatch() {
	p := s.create(`{"date":"1/1/2024","problemTitle":"1. Two Sum","notes":"keep"}`)

	rec := s.do(http.MethodPatch, "/api/problems/"+p.ID, `{"duration":42,"date":"2024-02-01"}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var got models.Problem
	s.decode(rec, &got)
	s.Assert().Equal(42, got.DurationMinutes)
	s.Assert().Equal("keep", got.Notes)
	s.Assert().True(time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local).Equal(got.SolvedDate), got.SolvedDate)

	rec = s.do(http.MethodPatch, "/api/problems/"+p.ID, `{}`)
	s.Assert().Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPatch, "/api/problems/"+p.ID, `{"date":"soon"}`)
	s.Assert().Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPatch, "/api/problems/missing", `{"duration":1}`)
	s.Assert().Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestDelete() {
	p := s.create(`{"problemTitle":"1. Two Sum"}`)

	rec := s.do(http.MethodDelete, "/api/problems/"+p.ID, "")
	s.Assert().Equal(http.StatusNoContent, rec.Code)
	s.Assert().Equal(0, s.store.Len())

	rec = s.do(http.MethodDelete, "/api/problems/"+p.ID, "")
	s.Assert().Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestRemindersAndRedo() {
	hard := s.create(`{"date":"6/1/2024","problemTitle":"1. Two Sum","redo":"Hard"}`)
	s.create(`{"date":"6/1/2024","problemTitle":"2. Add Two Numbers","redo":"Easy"}`)

	rec := s.do(http.MethodGet, "/api/reminders", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var due []models.Reminder
	s.decode(rec, &due)
	s.Require().Len(due, 1)
	s.Assert().Equal(hard.ID, due[0].ID)
	s.Assert().Equal(14, due[0].DaysSinceSolved)

	rec = s.do(http.MethodPost, "/api/problems/"+hard.ID+"/redone", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/reminders", "")
	due = nil
	s.decode(rec, &due)
	s.Assert().Empty(due)
}

func (s *APISuite) TestSkip() {
	p := s.create(`{"date":"6/1/2024","problemTitle":"1. Two Sum","redo":"Hard"}`)

	rec := s.do(http.MethodPost, "/api/problems/"+p.ID+"/skip", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var got models.Problem
	s.decode(rec, &got)
	s.Assert().Equal(models.Easy, got.RedoDifficulty)
}

const csvBody = "Date,Duration,Difficulty,Problem,Redo,Approach,Notes,Time Complexity,Space Complexity\n" +
	"1/5/2024,20,Easy,1. Two Sum,Hard,hash,,O(n),O(n)\n" +
	"nope,15,Medium,2. Add Two Numbers,Medium,,,,\n"

func (s *APISuite) TestImportRawBody() {
	rec := s.do(http.MethodPost, "/api/import", csvBody, "Content-Type", "text/csv")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var res services.ImportResult
	s.decode(rec, &res)
	s.Assert().Equal(2, res.Inserted)
	s.Assert().Len(res.Warnings, 1)
	s.Assert().Equal(2, s.store.Len())
}

func (s *APISuite) TestImportMultipart() {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "problems.csv")
	s.Require().NoError(err)
	_, err = fw.Write([]byte(csvBody))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	rec := s.do(http.MethodPost, "/api/import", buf.String(), "Content-Type", mw.FormDataContentType())
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Assert().Equal(2, s.store.Len())

	rec = s.do(http.MethodPost, "/api/import", buf.String(), "Content-Type", mw.FormDataContentType())
	var res services.ImportResult
	s.decode(rec, &res)
	s.Assert().Equal(0, res.Inserted)
	s.Assert().Equal(2, res.Updated)
	s.Assert().Equal(2, s.store.Len())
}

func (s *APISuite) TestImportUndecodable() {
	rec := s.do(http.MethodPost, "/api/import", string([]byte{'D', 0xff, 0xfe}), "Content-Type", "text/csv")
	s.Assert().Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *APISuite) TestExport() {
	s.create(`{"date":"3/5/2024","duration":25,"difficulty":"Medium","problemTitle":"15. 3Sum","redo":"Hard"}`)

	rec := s.do(http.MethodGet, "/api/export", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Assert().Contains(rec.Header().Get("Content-Disposition"), `filename="leetcode-tracking-`)
	s.Assert().Equal("text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	s.Assert().Contains(rec.Body.String(), "3/5/2024,25,Medium,15. 3Sum,Hard,,,,")
}

func (s *APISuite) TestExtensionMessages() {
	rec := s.do(http.MethodPost, "/api/extension/messages", `{"type":"PING"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	var resp extension.Response
	s.decode(rec, &resp)
	s.Assert().True(resp.Success)
	s.Assert().Equal("pong", resp.Data)

	rec = s.do(http.MethodPost, "/api/extension/messages",
		`{"type":"PROBLEM_DETECTED","tabId":3,"data":{"problemTitle":"1. Two Sum","difficulty":"Easy","problemUrl":"https://leetcode.com/problems/two-sum/"}}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/extension/current", "")
	var current struct {
		Success bool                   `json:"success"`
		Data    models.DetectedProblem `json:"data"`
	}
	s.decode(rec, &current)
	s.Assert().True(current.Success)
	s.Assert().Equal("1. Two Sum", current.Data.Title)

	rec = s.do(http.MethodPost, "/api/extension/messages",
		`{"type":"ADD_PROBLEM_TO_TRACKER","data":{"problemTitle":"1. Two Sum","difficulty":"Easy","problemUrl":"https://leetcode.com/problems/two-sum/"}}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Assert().Equal(1, s.store.Len())
}

func (s *APISuite) TestExtensionRejectsBadMessages() {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"type":`},
		{"unknown type", `{"type":"EXPLODE"}`},
		{"missing payload", `{"type":"ADD_PROBLEM_TO_TRACKER"}`},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.do(http.MethodPost, "/api/extension/messages", tt.body)
			s.Assert().Equal(http.StatusBadRequest, rec.Code)
			var resp extension.Response
			s.decode(rec, &resp)
			s.Assert().False(resp.Success)
			s.Assert().NotEmpty(resp.Error)
		})
	}
}

func (s *APISuite) TestRecoveryMiddleware() {
	h := recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	s.Assert().Equal(http.StatusInternalServerError, rec.Code)
	var body errorResponse
	s.decode(rec, &body)
	s.Assert().Equal("INTERNAL_ERROR", body.Error.Code)
}
