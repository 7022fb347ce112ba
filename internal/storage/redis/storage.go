package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Registration operations

func (s *Storage) SaveRegistration(ctx context.Context, reg *model.PlayerRegistration) error {
	data, err := json.Marshal(reg)
	if err != nil {
		return err
	}

	member := redis.Z{
		Score:  float64(reg.CreatedAt.UnixMilli()),
		Member: string(reg.ID),
	}

	// SETNX keeps stored registrations append-only; ZADD NX leaves an existing entry's score alone
	var created *redis.BoolCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		created = pipe.SetNX(ctx, registrationKey(reg.ID), data, 0)
		pipe.ZAddNX(ctx, registrationsIndexKey(), member)
		pipe.ZAddNX(ctx, leagueIndexKey(reg.League), member)
		return nil
	})
	if err != nil {
		// MULTI does not roll back, so undo a record this call created
		if created.Err() == nil && created.Val() {
			s.removeRegistration(reg)
		}
		return err
	}
	if !created.Val() {
		return model.ErrRegistrationExists
	}
	return nil
}

// removeRegistration deletes a registration and its index entries
func (s *Storage) removeRegistration(reg *model.PlayerRegistration) {
	// The caller's context may already be done
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, registrationKey(reg.ID))
	pipe.ZRem(ctx, registrationsIndexKey(), string(reg.ID))
	pipe.ZRem(ctx, leagueIndexKey(reg.League), string(reg.ID))
	_, _ = pipe.Exec(ctx)
}

func (s *Storage) GetRegistration(ctx context.Context, id model.RegistrationID) (*model.PlayerRegistration, error) {
	data, err := s.client.Get(ctx, registrationKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRegistrationNotFound
		}
		return nil, err
	}

	var reg model.PlayerRegistration
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (s *Storage) ListRegistrations(ctx context.Context, league model.League) ([]*model.PlayerRegistration, error) {
	indexKey := registrationsIndexKey()
	if league != "" {
		indexKey = leagueIndexKey(league)
	}

	// Highest score first gives newest first
	ids, err := s.client.ZRevRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.PlayerRegistration{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = registrationKey(model.RegistrationID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	regs := make([]*model.PlayerRegistration, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		str, ok := val.(string)
		if !ok {
			continue
		}
		var reg model.PlayerRegistration
		if err := json.Unmarshal([]byte(str), &reg); err != nil {
			return nil, err
		}
		regs = append(regs, &reg)
	}

	return regs, nil
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	existing, err := s.client.Get(ctx, usernameIndexKey(user.Username)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if err == nil && existing != string(user.ID) {
		return model.ErrUserExists
	}

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.Set(ctx, usernameIndexKey(user.Username), string(user.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	// Look up user ID from username index
	userID, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetUser(ctx, model.UserID(userID))
}

// Admin allow-list operations

func (s *Storage) AddAdmin(ctx context.Context, id model.UserID) error {
	return s.client.SAdd(ctx, adminsKey(), string(id)).Err()
}

func (s *Storage) RemoveAdmin(ctx context.Context, id model.UserID) error {
	return s.client.SRem(ctx, adminsKey(), string(id)).Err()
}

func (s *Storage) IsAdmin(ctx context.Context, id model.UserID) (bool, error) {
	return s.client.SIsMember(ctx, adminsKey(), string(id)).Result()
}
