package content

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"edulearn-server/internal/models"
	"edulearn-server/pkg/cache"
)

// Service is the CRUD proxy in front of the two stores. Every operation
// runs against the remote store first; any failure that is not a plain
// miss gets logged as a warning and re-executed against the local store.
// Lookups by id additionally retry the local store on a remote miss,
// since an entity created during an outage exists only there; ErrNotFound
// from a getter means both stores missed.
type Service struct {
	remote Store
	local  Store
	cache  *cache.RedisCache // optional
	log    *zap.Logger
}

func NewService(remote, local Store, redis *cache.RedisCache, log *zap.Logger) *Service {
	return &Service{
		remote: remote,
		local:  local,
		cache:  redis,
		log:    log,
	}
}

// shouldFallBack decides whether a remote failure gets absorbed by the
// local store.
func shouldFallBack(err error) bool {
	return err != nil && !errors.Is(err, models.ErrNotFound)
}

func (s *Service) warnFallback(op string, err error) {
	s.log.Warn("remote store unavailable, using local fallback",
		zap.String("op", op),
		zap.Error(err),
	)
}

// Subjects

func (s *Service) ListSubjects(includeDisabled bool) ([]models.Subject, error) {
	subjects, err := s.remote.ListSubjects()
	if shouldFallBack(err) {
		s.warnFallback("ListSubjects", err)
		subjects, err = s.local.ListSubjects()
	}
	if err != nil {
		return nil, err
	}
	if includeDisabled {
		return subjects, nil
	}
	enabled := make([]models.Subject, 0, len(subjects))
	for _, subject := range subjects {
		if subject.Enabled {
			enabled = append(enabled, subject)
		}
	}
	return enabled, nil
}

func (s *Service) GetSubject(id string) (*models.Subject, error) {
	if s.cache != nil {
		if subject, err := s.cache.GetSubject(id); err == nil {
			return subject, nil
		}
	}
	subject, err := s.remote.GetSubject(id)
	if err != nil {
		if shouldFallBack(err) {
			s.warnFallback("GetSubject", err)
		}
		subject, err = s.local.GetSubject(id)
	}
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetSubject(subject); err != nil {
			s.log.Warn("subject cache write failed", zap.Error(err))
		}
	}
	return subject, nil
}

func (s *Service) CreateSubject(subject *models.Subject) (*models.Subject, error) {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	err := s.remote.CreateSubject(subject)
	if shouldFallBack(err) {
		s.warnFallback("CreateSubject", err)
		err = s.local.CreateSubject(subject)
	}
	if err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *Service) UpdateSubject(subject *models.Subject) (*models.Subject, error) {
	err := s.remote.UpdateSubject(subject)
	if shouldFallBack(err) {
		s.warnFallback("UpdateSubject", err)
		err = s.local.UpdateSubject(subject)
	}
	if err != nil {
		return nil, err
	}
	s.invalidateSubject(subject.ID)
	return subject, nil
}

// DeleteSubject removes the subject and everything hanging off it. The
// cascade is enforced here, at the service boundary, so both backends
// behave identically.
func (s *Service) DeleteSubject(id string) error {
	err := s.cascadeDelete(s.remote, id)
	if shouldFallBack(err) {
		s.warnFallback("DeleteSubject", err)
		err = s.cascadeDelete(s.local, id)
	}
	if err != nil {
		return err
	}
	s.invalidateSubject(id)
	return nil
}

func (s *Service) cascadeDelete(store Store, subjectID string) error {
	if err := store.DeleteVideosBySubject(subjectID); err != nil {
		return err
	}
	if err := store.DeleteQuizzesBySubject(subjectID); err != nil {
		return err
	}
	return store.DeleteSubject(subjectID)
}

func (s *Service) invalidateSubject(id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSubject(id); err != nil {
		s.log.Warn("subject cache invalidation failed", zap.Error(err))
	}
}

// Videos

func (s *Service) ListVideosBySubject(subjectID string) ([]models.Video, error) {
	videos, err := s.remote.ListVideosBySubject(subjectID)
	if shouldFallBack(err) {
		s.warnFallback("ListVideosBySubject", err)
		videos, err = s.local.ListVideosBySubject(subjectID)
	}
	return videos, err
}

func (s *Service) GetVideo(id string) (*models.Video, error) {
	video, err := s.remote.GetVideo(id)
	if err != nil {
		if shouldFallBack(err) {
			s.warnFallback("GetVideo", err)
		}
		video, err = s.local.GetVideo(id)
	}
	return video, err
}

func (s *Service) CreateVideo(video *models.Video) (*models.Video, error) {
	if video.ID == "" {
		video.ID = uuid.NewString()
	}
	err := s.remote.CreateVideo(video)
	if shouldFallBack(err) {
		s.warnFallback("CreateVideo", err)
		err = s.local.CreateVideo(video)
	}
	if err != nil {
		return nil, err
	}
	return video, nil
}

func (s *Service) UpdateVideo(video *models.Video) (*models.Video, error) {
	err := s.remote.UpdateVideo(video)
	if shouldFallBack(err) {
		s.warnFallback("UpdateVideo", err)
		err = s.local.UpdateVideo(video)
	}
	if err != nil {
		return nil, err
	}
	return video, nil
}

func (s *Service) DeleteVideo(id string) error {
	err := s.remote.DeleteVideo(id)
	if shouldFallBack(err) {
		s.warnFallback("DeleteVideo", err)
		err = s.local.DeleteVideo(id)
	}
	return err
}

// Quizzes

func (s *Service) ListQuizzesBySubject(subjectID string) ([]models.Quiz, error) {
	quizzes, err := s.remote.ListQuizzesBySubject(subjectID)
	if shouldFallBack(err) {
		s.warnFallback("ListQuizzesBySubject", err)
		quizzes, err = s.local.ListQuizzesBySubject(subjectID)
	}
	return quizzes, err
}

func (s *Service) GetQuiz(id string) (*models.Quiz, error) {
	if s.cache != nil {
		if quiz, err := s.cache.GetQuiz(id); err == nil {
			return quiz, nil
		}
	}
	quiz, err := s.remote.GetQuiz(id)
	if err != nil {
		if shouldFallBack(err) {
			s.warnFallback("GetQuiz", err)
		}
		quiz, err = s.local.GetQuiz(id)
	}
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetQuiz(quiz); err != nil {
			s.log.Warn("quiz cache write failed", zap.Error(err))
		}
	}
	return quiz, nil
}

func (s *Service) CreateQuiz(dto models.QuizDTO) (*models.Quiz, error) {
	if err := ValidateQuiz(dto); err != nil {
		return nil, err
	}
	if dto.ID == "" {
		dto.ID = uuid.NewString()
	}
	quiz := dto.ToModel()
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == "" {
			quiz.Questions[i].ID = uuid.NewString()
		}
	}
	err := s.remote.CreateQuiz(&quiz)
	if shouldFallBack(err) {
		s.warnFallback("CreateQuiz", err)
		err = s.local.CreateQuiz(&quiz)
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *Service) UpdateQuiz(id string, dto models.QuizDTO) (*models.Quiz, error) {
	if err := ValidateQuiz(dto); err != nil {
		return nil, err
	}
	dto.ID = id
	quiz := dto.ToModel()
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == "" {
			quiz.Questions[i].ID = uuid.NewString()
		}
	}
	err := s.remote.UpdateQuiz(&quiz)
	if shouldFallBack(err) {
		s.warnFallback("UpdateQuiz", err)
		err = s.local.UpdateQuiz(&quiz)
	}
	if err != nil {
		return nil, err
	}
	s.invalidateQuiz(id)
	return &quiz, nil
}

func (s *Service) DeleteQuiz(id string) error {
	err := s.remote.DeleteQuiz(id)
	if shouldFallBack(err) {
		s.warnFallback("DeleteQuiz", err)
		err = s.local.DeleteQuiz(id)
	}
	if err != nil {
		return err
	}
	s.invalidateQuiz(id)
	return nil
}

func (s *Service) invalidateQuiz(id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateQuiz(id); err != nil {
		s.log.Warn("quiz cache invalidation failed", zap.Error(err))
	}
}

// Results

// SaveResult never fails from the caller's point of view: if the remote
// write fails the result is appended to the local log, and if even that
// fails the loss is logged and swallowed. A submitted quiz must not error
// out because persistence hiccuped.
func (s *Service) SaveResult(result *models.QuizResult) {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	err := s.remote.SaveResult(result)
	if err == nil {
		return
	}
	s.warnFallback("SaveResult", err)
	if err := s.local.SaveResult(result); err != nil {
		s.log.Error("quiz result lost: both stores failed",
			zap.String("quiz_id", result.QuizID),
			zap.String("user_id", result.UserID),
			zap.Error(err),
		)
	}
}

func (s *Service) ListResultsByUser(userID string) ([]models.QuizResult, error) {
	results, err := s.remote.ListResultsByUser(userID)
	if shouldFallBack(err) {
		s.warnFallback("ListResultsByUser", err)
		results, err = s.local.ListResultsByUser(userID)
	}
	return results, err
}
