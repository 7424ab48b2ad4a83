package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarcheck/internal/feedback"
	"scholarcheck/internal/pipeline"
	"scholarcheck/internal/plagiarism"
	"scholarcheck/internal/workspace"
)

type recordingSink struct {
	mu  sync.Mutex
	got []feedback.Feedback
}

func (s *recordingSink) Submit(f feedback.Feedback) error {
	if err := f.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.got = append(s.got, f)
	s.mu.Unlock()
	return nil
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Status     string          `json:"status"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*Server, *recordingSink) {
	t.Helper()
	root, err := workspace.EnsureAt(filepath.Join(t.TempDir(), workspace.BaseDirName))
	require.NoError(t, err)
	analyzer := pipeline.NewAnalyzer(nil, plagiarism.DirCorpus{Dir: workspace.CorpusDir(root)}, pipeline.DefaultOptions(), zerolog.Nop())
	sink := &recordingSink{}
	s := New(Options{Workspace: root, DBPath: workspace.DBPath(root)}, analyzer, nil, sink, zerolog.Nop())
	return s, sink
}

func do(t *testing.T, h http.Handler, req *http.Request) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	assert.Equal(t, rec.Code, env.StatusCode)
	return rec.Code, env
}

func upload(t *testing.T, name, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

const paper = "Abstract: Field notes on river sediment. Introduction " +
	"Sediment moved faster after the spring floods than in any earlier survey (Jones, 2020). " +
	"We sampled nine sites. Most sites showed coarse gravel near the banks and fine silt in the channel."

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	code, env := do(t, s.Handler(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}

func TestAnalyzeAndFetchReport(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	code, env := do(t, h, upload(t, "paper.txt", paper))
	require.Equal(t, http.StatusOK, code, env.Error)

	var rep struct {
		ID      string `json:"id"`
		File    string `json:"file"`
		Summary string `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rep))
	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, "paper.txt", rep.File)
	assert.True(t, strings.HasPrefix(rep.Summary, "AI score"))

	code, env = do(t, h, httptest.NewRequest(http.MethodGet, "/reports/"+rep.ID, nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), rep.ID)

	// A fresh server reads the report back from the database.
	fresh := New(s.opts, s.analyzer, nil, nil, zerolog.Nop())
	code, _ = do(t, fresh.Handler(), httptest.NewRequest(http.MethodGet, "/reports/"+rep.ID, nil))
	assert.Equal(t, http.StatusOK, code)
}

func TestReportCacheIsBounded(t *testing.T) {
	s, _ := newTestServer(t)
	s.reports = newReportCache(1)
	h := s.Handler()

	var ids []string
	for _, name := range []string{"first.txt", "second.txt"} {
		code, env := do(t, h, upload(t, name, paper))
		require.Equal(t, http.StatusOK, code, env.Error)
		var rep struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &rep))
		ids = append(ids, rep.ID)
	}
	assert.Equal(t, 1, s.reports.len())
	_, cached := s.reports.get(ids[0])
	assert.False(t, cached)

	// The evicted report is still served from the database.
	code, env := do(t, h, httptest.NewRequest(http.MethodGet, "/reports/"+ids[0], nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), ids[0])
	assert.Equal(t, 1, s.reports.len())
}

func TestAnalyzeErrors(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("nothing"))
	req.Header.Set("Content-Type", "text/plain")
	code, env := do(t, h, req)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "file")

	code, env = do(t, h, upload(t, "scan.png", "\x89PNG"))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.True(t, strings.HasPrefix(env.Error, "Error"))

	code, _ = do(t, h, httptest.NewRequest(http.MethodGet, "/reports/nope", nil))
	assert.Equal(t, http.StatusNotFound, code)
}

func TestChat(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	code, env := do(t, h, httptest.NewRequest(http.MethodGet, "/chat/greeting", nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "Hello!")

	_, env = do(t, h, upload(t, "paper.txt", paper))
	var rep struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rep))

	body := `{"message":"explain my score","report_id":"` + rep.ID + `"}`
	code, env = do(t, h, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, code, env.Error)
	var out struct {
		SessionID string `json:"session_id"`
		Response  struct {
			Type string `json:"type"`
		} `json:"response"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.NotEmpty(t, out.SessionID)
	assert.Equal(t, "score_explanation", out.Response.Type)

	// The session keeps the attached report.
	body = `{"session_id":"` + out.SessionID + `","message":"explain my score"}`
	_, env = do(t, h, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body)))
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "score_explanation", out.Response.Type)

	code, _ = do(t, h, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":""}`)))
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, h, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hi","report_id":"missing"}`)))
	assert.Equal(t, http.StatusNotFound, code)
}

func TestFeedback(t *testing.T) {
	s, sink := newTestServer(t)
	h := s.Handler()

	code, env := do(t, h, httptest.NewRequest(http.MethodPost, "/feedback",
		strings.NewReader(`{"filename":"paper.pdf","is_accurate":false,"comments":"I wrote this"}`)))
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"received","message":"`+feedback.Received+`"}`, string(env.Data))
	require.Len(t, sink.got, 1)
	assert.Equal(t, "I wrote this", sink.got[0].Comments)

	code, _ = do(t, h, httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(`{"is_accurate":true}`)))
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, h, httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(`{"filename":"x","extra":1}`)))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t)
	code, _ := do(t, s.Handler(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, code)
}
