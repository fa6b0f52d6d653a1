package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"edulearn-server/internal/models"
)

const ttl = 24 * time.Hour

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func (c *RedisCache) SetSubject(subject *models.Subject) error {
	data, err := json.Marshal(subject)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, "subject:"+subject.ID, data, ttl).Err()
}

func (c *RedisCache) GetSubject(id string) (*models.Subject, error) {
	data, err := c.client.Get(c.ctx, "subject:"+id).Bytes()
	if err != nil {
		return nil, err
	}
	var subject models.Subject
	err = json.Unmarshal(data, &subject)
	return &subject, err
}

func (c *RedisCache) InvalidateSubject(id string) error {
	return c.client.Del(c.ctx, "subject:"+id).Err()
}

func (c *RedisCache) SetQuiz(quiz *models.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, "quiz:"+quiz.ID, data, ttl).Err()
}

func (c *RedisCache) GetQuiz(id string) (*models.Quiz, error) {
	data, err := c.client.Get(c.ctx, "quiz:"+id).Bytes()
	if err != nil {
		return nil, err
	}
	var quiz models.Quiz
	err = json.Unmarshal(data, &quiz)
	return &quiz, err
}

func (c *RedisCache) InvalidateQuiz(id string) error {
	return c.client.Del(c.ctx, "quiz:"+id).Err()
}
