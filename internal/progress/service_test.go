package progress

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"edulearn-server/internal/models"
	"edulearn-server/pkg/localstore"
)

type failingRepo struct{}

func (failingRepo) Upsert(*models.Progress) error { return errors.New("connection refused") }
func (failingRepo) ListByUser(string) ([]models.Progress, error) {
	return nil, errors.New("connection refused")
}
func (failingRepo) ListBySubject(string, string) ([]models.Progress, error) {
	return nil, errors.New("connection refused")
}

func newLocalService(t *testing.T) *Service {
	t.Helper()
	files, err := localstore.New(t.TempDir(), 0)
	require.NoError(t, err)
	return NewService(failingRepo{}, NewLocalRepository(files), zap.NewNop())
}

func TestMarkWatchedFallsBackToLocal(t *testing.T) {
	svc := newLocalService(t)

	_, err := svc.MarkWatched("user-1", "subj-1", "vid-1", true)
	require.NoError(t, err)
	_, err = svc.MarkWatched("user-1", "subj-1", "vid-2", true)
	require.NoError(t, err)

	rows, err := svc.ListBySubject("user-1", "subj-1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestMarkWatchedIsIdempotentPerVideo(t *testing.T) {
	svc := newLocalService(t)

	_, err := svc.MarkWatched("user-1", "subj-1", "vid-1", true)
	require.NoError(t, err)
	_, err = svc.MarkWatched("user-1", "subj-1", "vid-1", true)
	require.NoError(t, err)

	rows, err := svc.ListByUser("user-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Watched)
}

func TestMarkUnwatchedOverwrites(t *testing.T) {
	svc := newLocalService(t)

	_, err := svc.MarkWatched("user-1", "subj-1", "vid-1", true)
	require.NoError(t, err)
	_, err = svc.MarkWatched("user-1", "subj-1", "vid-1", false)
	require.NoError(t, err)

	rows, err := svc.ListByUser("user-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Watched)
}

func TestSubjectCompletion(t *testing.T) {
	rows := []models.Progress{
		{VideoID: "a", Watched: true},
		{VideoID: "b", Watched: true},
		{VideoID: "c", Watched: false},
	}

	assert.Equal(t, 50, SubjectCompletion(rows, 4))
	assert.Equal(t, 100, SubjectCompletion(rows[:2], 2))
	assert.Equal(t, 0, SubjectCompletion(nil, 4))
	assert.Equal(t, 0, SubjectCompletion(rows, 0))
	// stale rows for deleted videos never push completion past 100
	assert.Equal(t, 100, SubjectCompletion(rows, 1))
}
