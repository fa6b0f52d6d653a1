package progress

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"edulearn-server/internal/models"
	"edulearn-server/pkg/localstore"
)

// Repository persists per-user video progress. Each (user, subject,
// video) triple holds at most one row.
type Repository interface {
	Upsert(p *models.Progress) error
	ListByUser(userID string) ([]models.Progress, error)
	ListBySubject(userID, subjectID string) ([]models.Progress, error)
}

type RemoteRepository struct {
	db *gorm.DB
}

func NewRemoteRepository(db *gorm.DB) *RemoteRepository {
	return &RemoteRepository{db: db}
}

func remoteErr(err error) error {
	return fmt.Errorf("%w: %v", models.ErrRemoteUnavailable, err)
}

func (r *RemoteRepository) Upsert(p *models.Progress) error {
	var existing models.Progress
	err := r.db.Where("user_id = ? AND subject_id = ? AND video_id = ?",
		p.UserID, p.SubjectID, p.VideoID).First(&existing).Error
	switch {
	case err == nil:
		p.ID = existing.ID
		err = r.db.Model(&models.Progress{}).Where("id = ?", p.ID).
			Update("watched", p.Watched).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = r.db.Create(p).Error
	}
	if err != nil {
		return remoteErr(err)
	}
	return nil
}

func (r *RemoteRepository) ListByUser(userID string) ([]models.Progress, error) {
	var rows []models.Progress
	if err := r.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, remoteErr(err)
	}
	return rows, nil
}

func (r *RemoteRepository) ListBySubject(userID, subjectID string) ([]models.Progress, error) {
	var rows []models.Progress
	err := r.db.Where("user_id = ? AND subject_id = ?", userID, subjectID).Find(&rows).Error
	if err != nil {
		return nil, remoteErr(err)
	}
	return rows, nil
}

// LocalRepository keeps one file per user, key "progress_<userId>".
type LocalRepository struct {
	store *localstore.Store
}

func NewLocalRepository(store *localstore.Store) *LocalRepository {
	return &LocalRepository{store: store}
}

func localKey(userID string) string {
	return "progress_" + userID
}

func (l *LocalRepository) read(userID string) ([]models.Progress, error) {
	var rows []models.Progress
	if err := l.store.Read(localKey(userID), &rows); err != nil {
		if errors.Is(err, localstore.ErrNoKey) {
			return nil, nil
		}
		return nil, err
	}
	return rows, nil
}

func (l *LocalRepository) Upsert(p *models.Progress) error {
	rows, err := l.read(p.UserID)
	if err != nil {
		return err
	}
	for i := range rows {
		if rows[i].SubjectID == p.SubjectID && rows[i].VideoID == p.VideoID {
			p.ID = rows[i].ID
			rows[i] = *p
			return l.store.Write(localKey(p.UserID), rows)
		}
	}
	rows = append(rows, *p)
	return l.store.Write(localKey(p.UserID), rows)
}

func (l *LocalRepository) ListByUser(userID string) ([]models.Progress, error) {
	return l.read(userID)
}

func (l *LocalRepository) ListBySubject(userID, subjectID string) ([]models.Progress, error) {
	rows, err := l.read(userID)
	if err != nil {
		return nil, err
	}
	out := rows[:0:0]
	for _, row := range rows {
		if row.SubjectID == subjectID {
			out = append(out, row)
		}
	}
	return out, nil
}
