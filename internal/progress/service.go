package progress

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"edulearn-server/internal/models"
)

type Service struct {
	remote Repository
	local  Repository
	log    *zap.Logger
}

func NewService(remote, local Repository, log *zap.Logger) *Service {
	return &Service{remote: remote, local: local, log: log}
}

func (s *Service) fallback(op string, err error) bool {
	if err == nil || errors.Is(err, models.ErrNotFound) {
		return false
	}
	s.log.Warn("remote store unavailable, using local fallback",
		zap.String("op", op), zap.Error(err))
	return true
}

// MarkWatched records that the user watched a video. Marking an already
// watched video is a no-op on the stored state.
func (s *Service) MarkWatched(userID, subjectID, videoID string, watched bool) (*models.Progress, error) {
	p := &models.Progress{
		ID:        uuid.NewString(),
		UserID:    userID,
		SubjectID: subjectID,
		VideoID:   videoID,
		Watched:   watched,
	}
	err := s.remote.Upsert(p)
	if s.fallback("UpsertProgress", err) {
		err = s.local.Upsert(p)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListByUser(userID string) ([]models.Progress, error) {
	rows, err := s.remote.ListByUser(userID)
	if s.fallback("ListProgress", err) {
		rows, err = s.local.ListByUser(userID)
	}
	return rows, err
}

func (s *Service) ListBySubject(userID, subjectID string) ([]models.Progress, error) {
	rows, err := s.remote.ListBySubject(userID, subjectID)
	if s.fallback("ListProgress", err) {
		rows, err = s.local.ListBySubject(userID, subjectID)
	}
	return rows, err
}

// SubjectCompletion reports how many of a subject's videos the user has
// watched, as a 0-100 percentage. totalVideos of zero yields zero.
func SubjectCompletion(rows []models.Progress, totalVideos int) int {
	if totalVideos <= 0 {
		return 0
	}
	watched := 0
	for _, row := range rows {
		if row.Watched {
			watched++
		}
	}
	if watched > totalVideos {
		watched = totalVideos
	}
	return watched * 100 / totalVideos
}
