package content

import "edulearn-server/internal/models"

// Store is the persistence contract for the course catalog. Two
// implementations exist: RemoteStore (Postgres) and LocalStore (the JSON
// fallback store). The Service owns the remote-first, local-on-failure
// policy; stores just do the work.
type Store interface {
	ListSubjects() ([]models.Subject, error)
	GetSubject(id string) (*models.Subject, error)
	CreateSubject(subject *models.Subject) error
	UpdateSubject(subject *models.Subject) error
	DeleteSubject(id string) error

	ListVideosBySubject(subjectID string) ([]models.Video, error)
	GetVideo(id string) (*models.Video, error)
	CreateVideo(video *models.Video) error
	UpdateVideo(video *models.Video) error
	DeleteVideo(id string) error
	DeleteVideosBySubject(subjectID string) error

	ListQuizzesBySubject(subjectID string) ([]models.Quiz, error)
	GetQuiz(id string) (*models.Quiz, error)
	CreateQuiz(quiz *models.Quiz) error
	UpdateQuiz(quiz *models.Quiz) error
	DeleteQuiz(id string) error
	DeleteQuizzesBySubject(subjectID string) error

	SaveResult(result *models.QuizResult) error
	ListResultsByUser(userID string) ([]models.QuizResult, error)
}
