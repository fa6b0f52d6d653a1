package models

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// Sentinel errors shared across services. ErrNotFound means the entity is
// gone from every store; ErrRemoteUnavailable marks a remote failure that
// the caller may absorb by switching to the local store.
var (
	ErrNotFound          = errors.New("not found")
	ErrRemoteUnavailable = errors.New("remote store unavailable")
)

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

const (
	SubscriptionActive    = "active"
	SubscriptionInactive  = "inactive"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

const (
	QuizTypePractice   = "practice"
	QuizTypeChapterEnd = "chapter_end"
	QuizTypeFinalExam  = "final_exam"
)

const (
	PaymentPending   = "pending"
	PaymentSucceeded = "succeeded"
	PaymentFailed    = "failed"
)

type User struct {
	ID           string        `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Name         string        `json:"name"`
	Email        string        `json:"email" gorm:"uniqueIndex;not null"`
	Password     string        `json:"-"`
	Role         string        `json:"role" gorm:"default:student"`
	Subscription *Subscription `json:"subscription,omitempty" gorm:"foreignKey:UserID"`
}

type Subscription struct {
	ID            string     `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	UserID        string     `json:"user_id" gorm:"index"`
	PlanID        string     `json:"plan_id"`
	Status        string     `json:"status" gorm:"default:inactive"`
	StartDate     *time.Time `json:"start_date"`
	Expiry        *time.Time `json:"expiry"`
	PaymentMethod string     `json:"payment_method"`
}

type Subject struct {
	ID          string                      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
	Name        string                      `json:"name" gorm:"not null"`
	Description string                      `json:"description"`
	Color       string                      `json:"color"`
	Enabled     bool                        `json:"enabled" gorm:"default:true"`
	Chapters    datatypes.JSONSlice[string] `json:"chapters"`
}

type Video struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	SubjectID   string    `json:"subject_id" gorm:"index;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	URL         string    `json:"url" gorm:"not null"`
	Topic       string    `json:"topic"`
	Order       int       `json:"order" gorm:"column:display_order"`
	Duration    string    `json:"duration"`
}

type Quiz struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	SubjectID    string     `json:"subject_id" gorm:"index;not null"`
	Title        string     `json:"title" gorm:"not null"`
	Description  string     `json:"description"`
	Type         string     `json:"type" gorm:"default:practice"`
	TimeLimit    int        `json:"time_limit"`
	PassingScore int        `json:"passing_score"`
	Questions    []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

type Question struct {
	ID            string                      `json:"id" gorm:"primaryKey"`
	QuizID        string                      `json:"quiz_id" gorm:"index"`
	Position      int                         `json:"position"`
	Text          string                      `json:"question" gorm:"not null"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswer int                         `json:"correct_answer"`
	Points        int                         `json:"points"`
}

// QuizResult rows are append-only; duplicate protection lives in the
// attempt engine, not here.
type QuizResult struct {
	ID             string                          `json:"id" gorm:"primaryKey"`
	CreatedAt      time.Time                       `json:"created_at"`
	QuizID         string                          `json:"quiz_id" gorm:"index"`
	UserID         string                          `json:"user_id" gorm:"index"`
	Score          int                             `json:"score"`
	TotalQuestions int                             `json:"total_questions"`
	CorrectAnswers int                             `json:"correct_answers"`
	Percentage     int                             `json:"percentage"`
	Passed         bool                            `json:"passed"`
	TimeSpent      int                             `json:"time_spent"`
	Answers        datatypes.JSONType[map[string]int] `json:"answers"`
}

type Progress struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `json:"user_id" gorm:"index:idx_progress_key,unique"`
	SubjectID string    `json:"subject_id" gorm:"index:idx_progress_key,unique"`
	VideoID   string    `json:"video_id" gorm:"index:idx_progress_key,unique"`
	Watched   bool      `json:"watched"`
}

type Payment struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `json:"user_id" gorm:"index"`
	PlanID    string    `json:"plan_id"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Method    string    `json:"payment_method"`
	Status    string    `json:"status"`
	GatewayID string    `json:"payment_id"`
}

// Plan is catalog data, not a table; the plan set ships with the server.
type Plan struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Period   string   `json:"period"`
	Days     int      `json:"days"`
	Features []string `json:"features"`
}
