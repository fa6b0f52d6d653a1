package attempt

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"edulearn-server/internal/models"
)

const (
	defaultTimeLimit = 600 // seconds

	// resultRetention is how long a submitted attempt stays readable
	// before it is evicted from memory. The result itself is already
	// persisted by then; retention only serves late Get/websocket reads.
	resultRetention = time.Hour
)

var (
	ErrAttemptNotFound = errors.New("attempt not found")
	ErrAttemptClosed   = errors.New("attempt already submitted")
	ErrNoQuestions     = errors.New("quiz has no questions")
)

// State of a single quiz attempt. The Submitting step exists so the
// timer-expiry path and a manual submit click can race without producing
// two results: whoever flips InProgress -> Submitting does the scoring,
// everyone else reads the stored result.
type State string

const (
	StateInProgress State = "in_progress"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
)

// Recorder persists a finished result. content.Service satisfies this; its
// SaveResult never fails (remote with local fallback).
type Recorder interface {
	SaveResult(result *models.QuizResult)
}

type Attempt struct {
	ID        string
	QuizID    string
	UserID    string
	quiz      models.Quiz
	answers   map[string]int
	state     State
	startedAt time.Time
	deadline  time.Time
	timer     *time.Timer
	result    *models.QuizResult
}

// Engine tracks in-flight quiz attempts in memory. One attempt belongs to
// one learner session; there is no cross-attempt state.
type Engine struct {
	mu        sync.Mutex
	attempts  map[string]*Attempt
	recorder  Recorder
	log       *zap.Logger
	now       func() time.Time
	retention time.Duration
	notify    func(attemptID string, result *models.QuizResult)
}

func NewEngine(recorder Recorder, log *zap.Logger) *Engine {
	return &Engine{
		attempts:  make(map[string]*Attempt),
		recorder:  recorder,
		log:       log,
		now:       time.Now,
		retention: resultRetention,
	}
}

// SetNotifier registers a callback fired after an attempt is submitted,
// used by the websocket hub to push the final event.
func (e *Engine) SetNotifier(fn func(attemptID string, result *models.QuizResult)) {
	e.notify = fn
}

// Start opens an attempt against a snapshot of the quiz. The countdown
// runs server-side; when it reaches zero the attempt is submitted with
// whatever answers were recorded.
func (e *Engine) Start(quiz *models.Quiz, userID string) (*Attempt, error) {
	if len(quiz.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	limit := quiz.TimeLimit
	if limit <= 0 {
		limit = defaultTimeLimit
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	a := &Attempt{
		ID:        uuid.NewString(),
		QuizID:    quiz.ID,
		UserID:    userID,
		quiz:      *quiz,
		answers:   make(map[string]int),
		state:     StateInProgress,
		startedAt: now,
		deadline:  now.Add(time.Duration(limit) * time.Second),
	}
	a.timer = time.AfterFunc(time.Duration(limit)*time.Second, func() {
		if _, err := e.Submit(a.ID); err != nil && !errors.Is(err, ErrAttemptClosed) {
			e.log.Warn("auto-submit on expiry failed",
				zap.String("attempt_id", a.ID), zap.Error(err))
		}
	})
	e.attempts[a.ID] = a

	e.log.Info("attempt started",
		zap.String("attempt_id", a.ID),
		zap.String("quiz_id", quiz.ID),
		zap.String("user_id", userID),
		zap.Int("time_limit", limit),
	)
	return a, nil
}

// SelectAnswer records the chosen option for a question. Re-selecting
// overwrites the previous choice (last write wins).
func (e *Engine) SelectAnswer(attemptID, questionID string, option int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.attempts[attemptID]
	if !ok {
		return ErrAttemptNotFound
	}
	if a.state != StateInProgress {
		return ErrAttemptClosed
	}
	for _, q := range a.quiz.Questions {
		if q.ID == questionID {
			a.answers[questionID] = option
			return nil
		}
	}
	return models.ErrNotFound
}

// Submit finalizes the attempt. It is idempotent: once a result exists,
// every caller gets that same result back, so a timer firing mid-submit
// cannot write a duplicate.
func (e *Engine) Submit(attemptID string) (*models.QuizResult, error) {
	e.mu.Lock()
	a, ok := e.attempts[attemptID]
	if !ok {
		e.mu.Unlock()
		return nil, ErrAttemptNotFound
	}
	if a.state != StateInProgress {
		result := a.result
		e.mu.Unlock()
		if result != nil {
			return result, nil
		}
		return nil, ErrAttemptClosed
	}
	a.state = StateSubmitting
	a.timer.Stop()

	now := e.now()
	spent := int(now.Sub(a.startedAt).Seconds())
	limit := int(a.deadline.Sub(a.startedAt).Seconds())
	if spent > limit {
		spent = limit
	}

	result := Score(&a.quiz, a.answers)
	result.UserID = a.UserID
	result.TimeSpent = spent
	a.result = result
	a.state = StateSubmitted
	e.mu.Unlock()

	// the attempt (quiz snapshot included) is only needed for late reads
	// now; evict it so finished attempts don't accumulate forever
	time.AfterFunc(e.retention, func() { e.evict(attemptID) })

	e.recorder.SaveResult(result)

	e.log.Info("attempt submitted",
		zap.String("attempt_id", attemptID),
		zap.Int("percentage", result.Percentage),
		zap.Bool("passed", result.Passed),
	)

	if e.notify != nil {
		e.notify(attemptID, result)
	}
	return result, nil
}

// Get returns the attempt's public view: state, remaining seconds, and
// the result when finished.
func (e *Engine) Get(attemptID string) (State, int, *models.QuizResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.attempts[attemptID]
	if !ok {
		return "", 0, nil, ErrAttemptNotFound
	}
	remaining := int(a.deadline.Sub(e.now()).Seconds())
	if remaining < 0 || a.state != StateInProgress {
		remaining = 0
	}
	return a.state, remaining, a.result, nil
}

func (e *Engine) evict(attemptID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.attempts, attemptID)
}

// Owner reports which user opened the attempt.
func (e *Engine) Owner(attemptID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.attempts[attemptID]
	if !ok {
		return "", ErrAttemptNotFound
	}
	return a.UserID, nil
}

// Score grades answers against the quiz. A question scores its point
// value when the stored answer index equals the correct index; unanswered
// or wrong questions contribute zero. The percentage divides by the
// question count, not the sum of point values, matching the platform's
// historical grading rule (a 1-point and a 2-point question both correct
// grade as 150%).
func Score(quiz *models.Quiz, answers map[string]int) *models.QuizResult {
	score := 0
	correct := 0
	for _, q := range quiz.Questions {
		answer, answered := answers[q.ID]
		if !answered || answer != q.CorrectAnswer {
			continue
		}
		points := q.Points
		if points < 1 {
			points = 1
		}
		score += points
		correct++
	}

	percentage := 0
	if len(quiz.Questions) > 0 {
		percentage = int(math.Round(float64(score) / float64(len(quiz.Questions)) * 100))
	}

	recorded := make(map[string]int, len(answers))
	for k, v := range answers {
		recorded[k] = v
	}

	return &models.QuizResult{
		QuizID:         quiz.ID,
		Score:          score,
		TotalQuestions: len(quiz.Questions),
		CorrectAnswers: correct,
		Percentage:     percentage,
		Passed:         percentage >= quiz.PassingScore,
		Answers:        datatypes.NewJSONType(recorded),
	}
}
