package content

import (
	"errors"

	"edulearn-server/internal/models"
	"edulearn-server/pkg/localstore"
)

// Local store keys, one JSON array per entity type.
const (
	keySubjects = "subjects"
	keyVideos   = "videos"
	keyQuizzes  = "quizzes"
	keyResults  = "quizResults"
)

// LocalStore keeps the catalog in the flat JSON fallback store. It is the
// substitute path when the remote store is unreachable.
type LocalStore struct {
	store *localstore.Store
}

func NewLocalStore(store *localstore.Store) *LocalStore {
	return &LocalStore{store: store}
}

func readAll[T any](store *localstore.Store, key string) ([]T, error) {
	var items []T
	if err := store.Read(key, &items); err != nil {
		if errors.Is(err, localstore.ErrNoKey) {
			return nil, nil
		}
		return nil, err
	}
	return items, nil
}

func (l *LocalStore) ListSubjects() ([]models.Subject, error) {
	return readAll[models.Subject](l.store, keySubjects)
}

func (l *LocalStore) GetSubject(id string) (*models.Subject, error) {
	subjects, err := l.ListSubjects()
	if err != nil {
		return nil, err
	}
	for i := range subjects {
		if subjects[i].ID == id {
			return &subjects[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (l *LocalStore) CreateSubject(subject *models.Subject) error {
	subjects, err := l.ListSubjects()
	if err != nil {
		return err
	}
	subjects = append(subjects, *subject)
	return l.store.Write(keySubjects, subjects)
}

func (l *LocalStore) UpdateSubject(subject *models.Subject) error {
	subjects, err := l.ListSubjects()
	if err != nil {
		return err
	}
	for i := range subjects {
		if subjects[i].ID == subject.ID {
			subjects[i] = *subject
			return l.store.Write(keySubjects, subjects)
		}
	}
	return models.ErrNotFound
}

func (l *LocalStore) DeleteSubject(id string) error {
	subjects, err := l.ListSubjects()
	if err != nil {
		return err
	}
	kept := subjects[:0]
	for _, s := range subjects {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	return l.store.Write(keySubjects, kept)
}

func (l *LocalStore) ListVideosBySubject(subjectID string) ([]models.Video, error) {
	videos, err := readAll[models.Video](l.store, keyVideos)
	if err != nil {
		return nil, err
	}
	var matched []models.Video
	for _, v := range videos {
		if v.SubjectID == subjectID {
			matched = append(matched, v)
		}
	}
	// insertion sort by display order; lists are small
	for i := 1; i < len(matched); i++ {
		for j := i; j > 0 && matched[j].Order < matched[j-1].Order; j-- {
			matched[j], matched[j-1] = matched[j-1], matched[j]
		}
	}
	return matched, nil
}

func (l *LocalStore) GetVideo(id string) (*models.Video, error) {
	videos, err := readAll[models.Video](l.store, keyVideos)
	if err != nil {
		return nil, err
	}
	for i := range videos {
		if videos[i].ID == id {
			return &videos[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (l *LocalStore) CreateVideo(video *models.Video) error {
	videos, err := readAll[models.Video](l.store, keyVideos)
	if err != nil {
		return err
	}
	videos = append(videos, *video)
	return l.store.Write(keyVideos, videos)
}

func (l *LocalStore) UpdateVideo(video *models.Video) error {
	videos, err := readAll[models.Video](l.store, keyVideos)
	if err != nil {
		return err
	}
	for i := range videos {
		if videos[i].ID == video.ID {
			videos[i] = *video
			return l.store.Write(keyVideos, videos)
		}
	}
	return models.ErrNotFound
}

func (l *LocalStore) DeleteVideo(id string) error {
	return l.deleteVideos(func(v models.Video) bool { return v.ID == id })
}

func (l *LocalStore) DeleteVideosBySubject(subjectID string) error {
	return l.deleteVideos(func(v models.Video) bool { return v.SubjectID == subjectID })
}

func (l *LocalStore) deleteVideos(drop func(models.Video) bool) error {
	videos, err := readAll[models.Video](l.store, keyVideos)
	if err != nil {
		return err
	}
	kept := videos[:0]
	for _, v := range videos {
		if !drop(v) {
			kept = append(kept, v)
		}
	}
	return l.store.Write(keyVideos, kept)
}

func (l *LocalStore) ListQuizzesBySubject(subjectID string) ([]models.Quiz, error) {
	quizzes, err := readAll[models.Quiz](l.store, keyQuizzes)
	if err != nil {
		return nil, err
	}
	var matched []models.Quiz
	for _, q := range quizzes {
		if q.SubjectID == subjectID {
			matched = append(matched, q)
		}
	}
	return matched, nil
}

func (l *LocalStore) GetQuiz(id string) (*models.Quiz, error) {
	quizzes, err := readAll[models.Quiz](l.store, keyQuizzes)
	if err != nil {
		return nil, err
	}
	for i := range quizzes {
		if quizzes[i].ID == id {
			return &quizzes[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (l *LocalStore) CreateQuiz(quiz *models.Quiz) error {
	quizzes, err := readAll[models.Quiz](l.store, keyQuizzes)
	if err != nil {
		return err
	}
	quizzes = append(quizzes, *quiz)
	return l.store.Write(keyQuizzes, quizzes)
}

func (l *LocalStore) UpdateQuiz(quiz *models.Quiz) error {
	quizzes, err := readAll[models.Quiz](l.store, keyQuizzes)
	if err != nil {
		return err
	}
	for i := range quizzes {
		if quizzes[i].ID == quiz.ID {
			quizzes[i] = *quiz
			return l.store.Write(keyQuizzes, quizzes)
		}
	}
	return models.ErrNotFound
}

func (l *LocalStore) DeleteQuiz(id string) error {
	return l.deleteQuizzes(func(q models.Quiz) bool { return q.ID == id })
}

func (l *LocalStore) DeleteQuizzesBySubject(subjectID string) error {
	return l.deleteQuizzes(func(q models.Quiz) bool { return q.SubjectID == subjectID })
}

func (l *LocalStore) deleteQuizzes(drop func(models.Quiz) bool) error {
	quizzes, err := readAll[models.Quiz](l.store, keyQuizzes)
	if err != nil {
		return err
	}
	kept := quizzes[:0]
	for _, q := range quizzes {
		if !drop(q) {
			kept = append(kept, q)
		}
	}
	return l.store.Write(keyQuizzes, kept)
}

func (l *LocalStore) SaveResult(result *models.QuizResult) error {
	results, err := readAll[models.QuizResult](l.store, keyResults)
	if err != nil {
		return err
	}
	results = append(results, *result)
	return l.store.Write(keyResults, results)
}

func (l *LocalStore) ListResultsByUser(userID string) ([]models.QuizResult, error) {
	results, err := readAll[models.QuizResult](l.store, keyResults)
	if err != nil {
		return nil, err
	}
	var matched []models.QuizResult
	for _, r := range results {
		if r.UserID == userID {
			matched = append(matched, r)
		}
	}
	return matched, nil
}
