package attempt

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"edulearn-server/internal/models"
)

type recordingSink struct {
	mu      sync.Mutex
	results []*models.QuizResult
}

func (r *recordingSink) SaveResult(result *models.QuizResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

func twoQuestionQuiz() *models.Quiz {
	return &models.Quiz{
		ID:           "quiz-1",
		SubjectID:    "math",
		Title:        "Weighted Quiz",
		TimeLimit:    600,
		PassingScore: 70,
		Questions: []models.Question{
			{ID: "q1", Text: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: 1, Points: 1},
			{ID: "q2", Text: "2x=10, x?", Options: []string{"4", "5"}, CorrectAnswer: 1, Points: 2},
		},
	}
}

func TestScoreWeightedQuestions(t *testing.T) {
	quiz := twoQuestionQuiz()
	result := Score(quiz, map[string]int{"q1": 1, "q2": 1})

	assert.Equal(t, 3, result.Score)
	assert.Equal(t, 2, result.CorrectAnswers)
	assert.Equal(t, 2, result.TotalQuestions)
	// historical grading rule: denominator is the question count
	assert.Equal(t, 150, result.Percentage)
	assert.True(t, result.Passed)
}

func TestScoreNoAnswers(t *testing.T) {
	quiz := twoQuestionQuiz()
	result := Score(quiz, nil)

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0, result.Percentage)
	assert.False(t, result.Passed)
}

func TestScoreZeroPassingScorePasses(t *testing.T) {
	quiz := twoQuestionQuiz()
	quiz.PassingScore = 0
	result := Score(quiz, nil)
	assert.True(t, result.Passed)
}

func TestStartRejectsEmptyQuiz(t *testing.T) {
	engine := NewEngine(&recordingSink{}, zap.NewNop())
	_, err := engine.Start(&models.Quiz{ID: "empty"}, "user-1")
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestLastWriteWinsAnswers(t *testing.T) {
	sink := &recordingSink{}
	engine := NewEngine(sink, zap.NewNop())

	a, err := engine.Start(twoQuestionQuiz(), "user-1")
	require.NoError(t, err)

	require.NoError(t, engine.SelectAnswer(a.ID, "q1", 0))
	require.NoError(t, engine.SelectAnswer(a.ID, "q1", 1)) // overwrites

	result, err := engine.Submit(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, map[string]int{"q1": 1}, result.Answers.Data())
}

func TestSelectAnswerUnknownQuestion(t *testing.T) {
	engine := NewEngine(&recordingSink{}, zap.NewNop())
	a, err := engine.Start(twoQuestionQuiz(), "user-1")
	require.NoError(t, err)

	assert.ErrorIs(t, engine.SelectAnswer(a.ID, "q99", 0), models.ErrNotFound)
}

func TestSubmitLatchSingleResult(t *testing.T) {
	sink := &recordingSink{}
	engine := NewEngine(sink, zap.NewNop())

	a, err := engine.Start(twoQuestionQuiz(), "user-1")
	require.NoError(t, err)
	require.NoError(t, engine.SelectAnswer(a.ID, "q2", 1))

	first, err := engine.Submit(a.ID)
	require.NoError(t, err)

	// a second submit (e.g. the timer racing the click) returns the same
	// result and writes nothing new
	second, err := engine.Submit(a.ID)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, sink.count())

	assert.ErrorIs(t, engine.SelectAnswer(a.ID, "q1", 0), ErrAttemptClosed)
}

func TestConcurrentSubmitsProduceOneResult(t *testing.T) {
	sink := &recordingSink{}
	engine := NewEngine(sink, zap.NewNop())

	a, err := engine.Start(twoQuestionQuiz(), "user-1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Submit(a.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, sink.count())
}

func TestTimerExpiryAutoSubmits(t *testing.T) {
	sink := &recordingSink{}
	engine := NewEngine(sink, zap.NewNop())

	quiz := twoQuestionQuiz()
	quiz.TimeLimit = 1 // second
	a, err := engine.Start(quiz, "user-1")
	require.NoError(t, err)
	require.NoError(t, engine.SelectAnswer(a.ID, "q1", 1))

	require.Eventually(t, func() bool {
		state, _, _, err := engine.Get(a.ID)
		return err == nil && state == StateSubmitted
	}, 3*time.Second, 50*time.Millisecond)

	state, remaining, result, err := engine.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, StateSubmitted, state)
	assert.Equal(t, 0, remaining)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Score, "answers recorded before expiry still count")
	assert.Equal(t, 1, sink.count())
}

func TestGetUnknownAttempt(t *testing.T) {
	engine := NewEngine(&recordingSink{}, zap.NewNop())
	_, _, _, err := engine.Get("missing")
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestSubmittedAttemptEvicted(t *testing.T) {
	engine := NewEngine(&recordingSink{}, zap.NewNop())
	engine.retention = 20 * time.Millisecond

	a, err := engine.Start(twoQuestionQuiz(), "user-1")
	require.NoError(t, err)
	_, err = engine.Submit(a.ID)
	require.NoError(t, err)

	// readable right after submit, gone once retention elapses
	state, _, result, err := engine.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, StateSubmitted, state)
	require.NotNil(t, result)

	require.Eventually(t, func() bool {
		_, _, _, err := engine.Get(a.ID)
		return errors.Is(err, ErrAttemptNotFound)
	}, 3*time.Second, 10*time.Millisecond)
}
