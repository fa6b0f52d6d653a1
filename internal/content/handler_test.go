package content

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func postQuiz(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/subjects/math/quizzes", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"subjectId": "math"})
	rec := httptest.NewRecorder()
	h.CreateQuiz(rec, req)
	return rec
}

func TestCreateQuizHandlerInvalidIsBadRequest(t *testing.T) {
	svc, _ := newFallbackService(t)
	h := NewHandler(svc)

	rec := postQuiz(t, h, `{"title":"Empty","questions":[]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "quiz needs at least one question")
}

func TestCreateQuizHandlerStoreFailureIsServerError(t *testing.T) {
	// both stores down; the OS-level detail must not leak to the client
	down := &stubStore{err: errors.New("open /data/quizzes.json: permission denied")}
	svc := NewService(down, down, nil, zap.NewNop())
	h := NewHandler(svc)

	rec := postQuiz(t, h, `{"title":"Algebra","questions":[{"question":"2+2?","options":["3","4"],"correctAnswer":1}]}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "permission denied")
}

func TestUpdateQuizHandlerUnknownIDIsNotFound(t *testing.T) {
	svc, _ := newFallbackService(t)
	h := NewHandler(svc)

	body := `{"title":"Algebra","questions":[{"question":"2+2?","options":["3","4"],"correctAnswer":1}]}`
	req := httptest.NewRequest(http.MethodPut, "/api/quizzes/ghost", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"quizId": "ghost"})
	rec := httptest.NewRecorder()
	h.UpdateQuiz(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
