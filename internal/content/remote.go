package content

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"edulearn-server/internal/models"
)

// RemoteStore persists the catalog in Postgres through GORM. Errors other
// than a missing row are wrapped as ErrRemoteUnavailable so the Service
// can tell "fall back" apart from "the thing is gone".
type RemoteStore struct {
	db *gorm.DB
}

func NewRemoteStore(db *gorm.DB) *RemoteStore {
	return &RemoteStore{db: db}
}

func remoteErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return fmt.Errorf("%w: %v", models.ErrRemoteUnavailable, err)
}

func (r *RemoteStore) ListSubjects() ([]models.Subject, error) {
	var subjects []models.Subject
	err := r.db.Order("name asc").Find(&subjects).Error
	return subjects, remoteErr(err)
}

func (r *RemoteStore) GetSubject(id string) (*models.Subject, error) {
	var subject models.Subject
	if err := r.db.First(&subject, "id = ?", id).Error; err != nil {
		return nil, remoteErr(err)
	}
	return &subject, nil
}

func (r *RemoteStore) CreateSubject(subject *models.Subject) error {
	return remoteErr(r.db.Create(subject).Error)
}

func (r *RemoteStore) UpdateSubject(subject *models.Subject) error {
	// map form so zero values (Enabled=false) are written too
	res := r.db.Model(&models.Subject{}).Where("id = ?", subject.ID).Updates(map[string]interface{}{
		"name":        subject.Name,
		"description": subject.Description,
		"color":       subject.Color,
		"enabled":     subject.Enabled,
		"chapters":    subject.Chapters,
	})
	if res.Error != nil {
		return remoteErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *RemoteStore) DeleteSubject(id string) error {
	return remoteErr(r.db.Delete(&models.Subject{}, "id = ?", id).Error)
}

func (r *RemoteStore) ListVideosBySubject(subjectID string) ([]models.Video, error) {
	var videos []models.Video
	err := r.db.Where("subject_id = ?", subjectID).Order("display_order asc").Find(&videos).Error
	return videos, remoteErr(err)
}

func (r *RemoteStore) GetVideo(id string) (*models.Video, error) {
	var video models.Video
	if err := r.db.First(&video, "id = ?", id).Error; err != nil {
		return nil, remoteErr(err)
	}
	return &video, nil
}

func (r *RemoteStore) CreateVideo(video *models.Video) error {
	return remoteErr(r.db.Create(video).Error)
}

func (r *RemoteStore) UpdateVideo(video *models.Video) error {
	res := r.db.Model(&models.Video{}).Where("id = ?", video.ID).Updates(map[string]interface{}{
		"subject_id":    video.SubjectID,
		"title":         video.Title,
		"description":   video.Description,
		"url":           video.URL,
		"topic":         video.Topic,
		"display_order": video.Order,
		"duration":      video.Duration,
	})
	if res.Error != nil {
		return remoteErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *RemoteStore) DeleteVideo(id string) error {
	return remoteErr(r.db.Delete(&models.Video{}, "id = ?", id).Error)
}

func (r *RemoteStore) DeleteVideosBySubject(subjectID string) error {
	return remoteErr(r.db.Delete(&models.Video{}, "subject_id = ?", subjectID).Error)
}

func (r *RemoteStore) ListQuizzesBySubject(subjectID string) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Where("subject_id = ?", subjectID).Find(&quizzes).Error
	return quizzes, remoteErr(err)
}

func (r *RemoteStore) GetQuiz(id string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&quiz, "id = ?", id).Error
	if err != nil {
		return nil, remoteErr(err)
	}
	return &quiz, nil
}

func (r *RemoteStore) CreateQuiz(quiz *models.Quiz) error {
	return remoteErr(r.db.Create(quiz).Error)
}

// UpdateQuiz replaces the question set wholesale; the admin form always
// submits the full quiz.
func (r *RemoteStore) UpdateQuiz(quiz *models.Quiz) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Quiz{}).Where("id = ?", quiz.ID).Updates(map[string]interface{}{
			"subject_id":    quiz.SubjectID,
			"title":         quiz.Title,
			"description":   quiz.Description,
			"type":          quiz.Type,
			"time_limit":    quiz.TimeLimit,
			"passing_score": quiz.PassingScore,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Delete(&models.Question{}, "quiz_id = ?", quiz.ID).Error; err != nil {
			return err
		}
		if len(quiz.Questions) == 0 {
			return nil
		}
		return tx.Create(&quiz.Questions).Error
	})
	return remoteErr(err)
}

func (r *RemoteStore) DeleteQuiz(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Question{}, "quiz_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Quiz{}, "id = ?", id).Error
	})
	return remoteErr(err)
}

func (r *RemoteStore) DeleteQuizzesBySubject(subjectID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&models.Quiz{}).Where("subject_id = ?", subjectID).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Delete(&models.Question{}, "quiz_id IN ?", ids).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Quiz{}, "id IN ?", ids).Error
	})
	return remoteErr(err)
}

func (r *RemoteStore) SaveResult(result *models.QuizResult) error {
	return remoteErr(r.db.Create(result).Error)
}

func (r *RemoteStore) ListResultsByUser(userID string) ([]models.QuizResult, error) {
	var results []models.QuizResult
	err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&results).Error
	return results, remoteErr(err)
}
