package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"edulearn-server/internal/models"
	"edulearn-server/pkg/localstore"
)

const localUsersKey = "users"

// UserRepository is the persistence contract for accounts. Remote is
// Postgres; local is the `users` key of the JSON fallback store.
type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Create(user *models.User) error
}

type RemoteRepository struct {
	db *gorm.DB
}

func NewRemoteRepository(db *gorm.DB) *RemoteRepository {
	return &RemoteRepository{db: db}
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

func (r *RemoteRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, remoteErr(err)
	}
	return &user, nil
}

func (r *RemoteRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, remoteErr(err)
	}
	return &user, nil
}

func (r *RemoteRepository) Create(user *models.User) error {
	return remoteErr(r.db.Create(user).Error)
}

type LocalRepository struct {
	store *localstore.Store
}

func NewLocalRepository(store *localstore.Store) *LocalRepository {
	return &LocalRepository{store: store}
}

// storedUser exists because models.User hides the password hash from JSON
// (`json:"-"`); the local file still has to carry it.
type storedUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func toStored(u *models.User) storedUser {
	return storedUser{ID: u.ID, Name: u.Name, Email: u.Email, Password: u.Password, Role: u.Role}
}

func (s storedUser) toModel() *models.User {
	return &models.User{ID: s.ID, Name: s.Name, Email: s.Email, Password: s.Password, Role: s.Role}
}

func (l *LocalRepository) read() ([]storedUser, error) {
	var users []storedUser
	if err := l.store.Read(localUsersKey, &users); err != nil {
		if errors.Is(err, localstore.ErrNoKey) {
			return nil, nil
		}
		return nil, err
	}
	return users, nil
}

func (l *LocalRepository) GetByEmail(email string) (*models.User, error) {
	users, err := l.read()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email {
			return u.toModel(), nil
		}
	}
	return nil, models.ErrNotFound
}

func (l *LocalRepository) GetByID(id string) (*models.User, error) {
	users, err := l.read()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			return u.toModel(), nil
		}
	}
	return nil, models.ErrNotFound
}

func (l *LocalRepository) Create(user *models.User) error {
	users, err := l.read()
	if err != nil {
		return err
	}
	users = append(users, toStored(user))
	return l.store.Write(localUsersKey, users)
}
