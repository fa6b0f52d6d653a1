package content

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"edulearn-server/internal/models"
	"edulearn-server/pkg/localstore"
)

// stubStore fails every operation with a fixed error, standing in for an
// unreachable or empty remote.
type stubStore struct{ err error }

func (s *stubStore) ListSubjects() ([]models.Subject, error)          { return nil, s.err }
func (s *stubStore) GetSubject(string) (*models.Subject, error)       { return nil, s.err }
func (s *stubStore) CreateSubject(*models.Subject) error              { return s.err }
func (s *stubStore) UpdateSubject(*models.Subject) error              { return s.err }
func (s *stubStore) DeleteSubject(string) error                       { return s.err }
func (s *stubStore) ListVideosBySubject(string) ([]models.Video, error) { return nil, s.err }
func (s *stubStore) GetVideo(string) (*models.Video, error)           { return nil, s.err }
func (s *stubStore) CreateVideo(*models.Video) error                  { return s.err }
func (s *stubStore) UpdateVideo(*models.Video) error                  { return s.err }
func (s *stubStore) DeleteVideo(string) error                         { return s.err }
func (s *stubStore) DeleteVideosBySubject(string) error               { return s.err }
func (s *stubStore) ListQuizzesBySubject(string) ([]models.Quiz, error) { return nil, s.err }
func (s *stubStore) GetQuiz(string) (*models.Quiz, error)             { return nil, s.err }
func (s *stubStore) CreateQuiz(*models.Quiz) error                    { return s.err }
func (s *stubStore) UpdateQuiz(*models.Quiz) error                    { return s.err }
func (s *stubStore) DeleteQuiz(string) error                          { return s.err }
func (s *stubStore) DeleteQuizzesBySubject(string) error              { return s.err }
func (s *stubStore) SaveResult(*models.QuizResult) error              { return s.err }
func (s *stubStore) ListResultsByUser(string) ([]models.QuizResult, error) { return nil, s.err }

func newFallbackService(t *testing.T) (*Service, *LocalStore) {
	t.Helper()
	files, err := localstore.New(t.TempDir(), 0)
	require.NoError(t, err)
	local := NewLocalStore(files)
	remoteDown := &stubStore{err: fmt.Errorf("%w: connection refused", models.ErrRemoteUnavailable)}
	return NewService(remoteDown, local, nil, zap.NewNop()), local
}

func TestFallbackCreateThenRead(t *testing.T) {
	svc, _ := newFallbackService(t)

	created, err := svc.CreateSubject(&models.Subject{Name: "Mathematics", Color: "#4CAF50", Enabled: true})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	subjects, err := svc.ListSubjects(false)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "Mathematics", subjects[0].Name)

	got, err := svc.GetSubject(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestListSubjectsFiltersDisabled(t *testing.T) {
	svc, _ := newFallbackService(t)

	_, err := svc.CreateSubject(&models.Subject{Name: "Physics", Enabled: true})
	require.NoError(t, err)
	_, err = svc.CreateSubject(&models.Subject{Name: "Latin", Enabled: false})
	require.NoError(t, err)

	visible, err := svc.ListSubjects(false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Physics", visible[0].Name)

	all, err := svc.ListSubjects(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetSubjectNotFound(t *testing.T) {
	svc, _ := newFallbackService(t)

	_, err := svc.GetSubject("nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// A subject created while the remote was down exists only in the local
// store; once the remote is back (and misses), the lookup must still find
// the local copy. Not-found means both stores missed.
func TestRemoteMissConsultsLocal(t *testing.T) {
	files, err := localstore.New(t.TempDir(), 0)
	require.NoError(t, err)
	local := NewLocalStore(files)
	require.NoError(t, local.CreateSubject(&models.Subject{ID: "outage-born", Name: "Outage Born"}))

	svc := NewService(&stubStore{err: models.ErrNotFound}, local, nil, zap.NewNop())

	got, err := svc.GetSubject("outage-born")
	require.NoError(t, err)
	assert.Equal(t, "Outage Born", got.Name)

	require.NoError(t, local.CreateQuiz(&models.Quiz{ID: "q1", SubjectID: "outage-born", Title: "Offline Quiz"}))
	quiz, err := svc.GetQuiz("q1")
	require.NoError(t, err)
	assert.Equal(t, "Offline Quiz", quiz.Title)

	_, err = svc.GetSubject("never-existed")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSubjectDeleteCascades(t *testing.T) {
	svc, _ := newFallbackService(t)

	subj, err := svc.CreateSubject(&models.Subject{Name: "Chemistry", Enabled: true})
	require.NoError(t, err)
	other, err := svc.CreateSubject(&models.Subject{Name: "Biology", Enabled: true})
	require.NoError(t, err)

	_, err = svc.CreateVideo(&models.Video{SubjectID: subj.ID, Title: "Organic Basics", URL: "https://youtu.be/x"})
	require.NoError(t, err)
	_, err = svc.CreateVideo(&models.Video{SubjectID: other.ID, Title: "Cells", URL: "https://youtu.be/y"})
	require.NoError(t, err)

	_, err = svc.CreateQuiz(models.QuizDTO{
		SubjectID: subj.ID,
		Title:     "Organic Quiz",
		Questions: []models.QuestionDTO{
			{Text: "Formula of water?", Options: []string{"H2O", "CO2"}, CorrectAnswer: 0},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSubject(subj.ID))

	_, err = svc.GetSubject(subj.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	videos, err := svc.ListVideosBySubject(subj.ID)
	require.NoError(t, err)
	assert.Empty(t, videos)

	quizzes, err := svc.ListQuizzesBySubject(subj.ID)
	require.NoError(t, err)
	assert.Empty(t, quizzes)

	// unrelated subject untouched
	videos, err = svc.ListVideosBySubject(other.ID)
	require.NoError(t, err)
	assert.Len(t, videos, 1)
}

func TestVideosOrderedByDisplayOrder(t *testing.T) {
	svc, _ := newFallbackService(t)

	subj, err := svc.CreateSubject(&models.Subject{Name: "Math", Enabled: true})
	require.NoError(t, err)

	for _, v := range []models.Video{
		{SubjectID: subj.ID, Title: "Third", URL: "https://youtu.be/3", Order: 3},
		{SubjectID: subj.ID, Title: "First", URL: "https://youtu.be/1", Order: 1},
		{SubjectID: subj.ID, Title: "Second", URL: "https://youtu.be/2", Order: 2},
	} {
		video := v
		_, err := svc.CreateVideo(&video)
		require.NoError(t, err)
	}

	videos, err := svc.ListVideosBySubject(subj.ID)
	require.NoError(t, err)
	require.Len(t, videos, 3)
	assert.Equal(t, []string{"First", "Second", "Third"},
		[]string{videos[0].Title, videos[1].Title, videos[2].Title})
}

func TestQuizFieldMappingRoundTrip(t *testing.T) {
	svc, _ := newFallbackService(t)

	in := models.QuizDTO{
		SubjectID:    "math",
		Title:        "Final Exam",
		Description:  "Covers everything",
		Type:         models.QuizTypeFinalExam,
		TimeLimit:    1200,
		PassingScore: 60,
		Questions: []models.QuestionDTO{
			{Text: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: 1, Points: 2},
			{Text: "5*2?", Options: []string{"10", "12"}, CorrectAnswer: 0, Points: 1},
		},
	}

	created, err := svc.CreateQuiz(in)
	require.NoError(t, err)

	fetched, err := svc.GetQuiz(created.ID)
	require.NoError(t, err)

	out := fetched.ToDTO()
	assert.Equal(t, in.TimeLimit, out.TimeLimit)
	assert.Equal(t, in.PassingScore, out.PassingScore)
	assert.Equal(t, in.Type, out.Type)
	require.Len(t, out.Questions, 2)
	assert.Equal(t, 1, out.Questions[0].CorrectAnswer)
	assert.Equal(t, 2, out.Questions[0].Points)
	assert.Equal(t, in.Questions[1].Options, out.Questions[1].Options)
}

func TestCreateQuizRejectsInvalid(t *testing.T) {
	svc, _ := newFallbackService(t)

	_, err := svc.CreateQuiz(models.QuizDTO{SubjectID: "math", Title: "Empty"})
	assert.EqualError(t, err, "quiz needs at least one question")
}

func TestSaveResultNeverFails(t *testing.T) {
	svc, local := newFallbackService(t)

	result := &models.QuizResult{QuizID: "quiz-1", UserID: "user-1", Score: 3, Passed: true}
	svc.SaveResult(result)

	saved, err := local.ListResultsByUser("user-1")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "quiz-1", saved[0].QuizID)
	assert.NotEmpty(t, saved[0].ID)
}
