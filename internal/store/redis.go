package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultChatCap   = 1000
	defaultResumeCap = 200
)

// RedisConfig describes the connection to the Redis server.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Redis keeps each user in a hash, a unique email index and capped lists of
// chat turns and resume analyses.
type Redis struct {
	client    *redis.Client
	now       func() time.Time
	chatCap   int64
	resumeCap int64
}

type Option func(*Redis)

// WithHistoryCaps bounds the stored chat turns and analyses per user.
func WithHistoryCaps(chat, resume int64) Option {
	return func(r *Redis) {
		if chat > 0 {
			r.chatCap = chat
		}
		if resume > 0 {
			r.resumeCap = resume
		}
	}
}

// WithClock overrides the time source used for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(r *Redis) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRedis(client *redis.Client, opts ...Option) *Redis {
	r := &Redis{
		client:    client,
		now:       time.Now,
		chatCap:   defaultChatCap,
		resumeCap: defaultResumeCap,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, cfg RedisConfig, opts ...Option) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	r := NewRedis(client, opts...)
	if err := r.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return r, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

var _ Store = (*Redis)(nil)

func userKey(id string) string       { return "user:" + id }
func emailKey(email string) string   { return "user:email:" + email }
func chatKey(userID string) string   { return "chat:" + userID }
func resumeKey(userID string) string { return "resume:" + userID }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *Redis) CreateUser(ctx context.Context, user *User) error {
	user.Email = normalizeEmail(user.Email)
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Plan == "" {
		user.Plan = PlanFree
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.now().UTC()
	}

	ok, err := r.client.SetNX(ctx, emailKey(user.Email), user.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("reserve email: %w", err)
	}
	if !ok {
		return ErrEmailTaken
	}

	if err := r.client.HSet(ctx, userKey(user.ID), userFields(user)).Err(); err != nil {
		r.client.Del(ctx, emailKey(user.Email))
		return fmt.Errorf("save user %s: %w", user.ID, err)
	}

	return nil
}

func (r *Redis) GetUser(ctx context.Context, id string) (*User, error) {
	fields, err := r.client.HGetAll(ctx, userKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	return parseUser(id, fields)
}

func (r *Redis) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	id, err := r.client.Get(ctx, emailKey(normalizeEmail(email))).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	return r.GetUser(ctx, id)
}

func (r *Redis) SetPlan(ctx context.Context, id string, plan Plan) error {
	return r.update(ctx, id, map[string]any{"plan": string(plan)})
}

func (r *Redis) SaveOnboarding(ctx context.Context, id string, profile Profile) error {
	return r.update(ctx, id, map[string]any{
		"interest":  profile.Interest,
		"hobby":     profile.Hobby,
		"education": profile.Education,
		"onboarded": "1",
	})
}

func (r *Redis) IncrementChatCount(ctx context.Context, id string) (int, error) {
	return r.increment(ctx, id, "chat_count", 1)
}

func (r *Redis) IncrementResumeScans(ctx context.Context, id string) (int, error) {
	return r.increment(ctx, id, "resume_scan_count", 1)
}

// DecrementChatCount gives back a chat message claimed by IncrementChatCount.
func (r *Redis) DecrementChatCount(ctx context.Context, id string) (int, error) {
	return r.increment(ctx, id, "chat_count", -1)
}

func (r *Redis) DecrementResumeScans(ctx context.Context, id string) (int, error) {
	return r.increment(ctx, id, "resume_scan_count", -1)
}

func (r *Redis) update(ctx context.Context, id string, fields map[string]any) error {
	if err := r.requireUser(ctx, id); err != nil {
		return err
	}
	if err := r.client.HSet(ctx, userKey(id), fields).Err(); err != nil {
		return fmt.Errorf("update user %s: %w", id, err)
	}
	return nil
}

func (r *Redis) increment(ctx context.Context, id, field string, by int64) (int, error) {
	if err := r.requireUser(ctx, id); err != nil {
		return 0, err
	}
	n, err := r.client.HIncrBy(ctx, userKey(id), field, by).Result()
	if err != nil {
		return 0, fmt.Errorf("update %s for user %s: %w", field, id, err)
	}
	return int(n), nil
}

func (r *Redis) requireUser(ctx context.Context, id string) error {
	n, err := r.client.Exists(ctx, userKey(id)).Result()
	if err != nil {
		return fmt.Errorf("check user %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Redis) AppendChatTurn(ctx context.Context, msg *ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = r.now().UTC()
	}
	return r.push(ctx, chatKey(msg.UserID), r.chatCap, msg)
}

func (r *Redis) RecentChatTurns(ctx context.Context, userID string, limit int) ([]ChatMessage, error) {
	return recent[ChatMessage](ctx, r.client, chatKey(userID), limit)
}

func (r *Redis) AppendAnalysis(ctx context.Context, rec *ResumeRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now().UTC()
	}
	return r.push(ctx, resumeKey(rec.UserID), r.resumeCap, rec)
}

func (r *Redis) RecentAnalyses(ctx context.Context, userID string, limit int) ([]ResumeRecord, error) {
	return recent[ResumeRecord](ctx, r.client, resumeKey(userID), limit)
}

func (r *Redis) push(ctx context.Context, key string, capacity int64, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s entry: %w", key, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, data)
		pipe.LTrim(ctx, key, 0, capacity-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append to %s: %w", key, err)
	}
	return nil
}

func recent[T any](ctx context.Context, client *redis.Client, key string, limit int) ([]T, error) {
	if limit <= 0 {
		return []T{}, nil
	}

	items, err := client.LRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal([]byte(item), &v); err != nil {
			return nil, fmt.Errorf("decode %s entry: %w", key, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func userFields(u *User) map[string]any {
	onboarded := "0"
	if u.Onboarded {
		onboarded = "1"
	}

	return map[string]any{
		"name":              u.Name,
		"email":             u.Email,
		"password_hash":     u.PasswordHash,
		"plan":              string(u.Plan),
		"chat_count":        u.ChatCount,
		"resume_scan_count": u.ResumeScanCount,
		"interest":          u.Interest,
		"hobby":             u.Hobby,
		"education":         u.Education,
		"onboarded":         onboarded,
		"created_at":        u.CreatedAt.UnixMilli(),
	}
}

func parseUser(id string, f map[string]string) (*User, error) {
	chats, err := atoiField(f, "chat_count")
	if err != nil {
		return nil, err
	}
	scans, err := atoiField(f, "resume_scan_count")
	if err != nil {
		return nil, err
	}
	created, err := strconv.ParseInt(f["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("user %s: bad created_at: %w", id, err)
	}

	return &User{
		ID:              id,
		Name:            f["name"],
		Email:           f["email"],
		PasswordHash:    f["password_hash"],
		Plan:            Plan(f["plan"]),
		ChatCount:       chats,
		ResumeScanCount: scans,
		Interest:        f["interest"],
		Hobby:           f["hobby"],
		Education:       f["education"],
		Onboarded:       f["onboarded"] == "1",
		CreatedAt:       time.UnixMilli(created).UTC(),
	}, nil
}

func atoiField(f map[string]string, key string) (int, error) {
	v, ok := f[key]
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("bad %s: %w", key, err)
	}
	return n, nil
}
