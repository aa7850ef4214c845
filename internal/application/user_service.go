package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
	repo "github.com/campnet-io/campnet-backend/internal/domain/repository"
	"github.com/campnet-io/campnet-backend/pkg/helpers"
	"github.com/campnet-io/campnet-backend/pkg/mailer"
	"github.com/campnet-io/campnet-backend/pkg/sms"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountNotVerified = errors.New("account not verified")
	ErrAccountBanned      = errors.New("account banned")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPhoneTaken         = errors.New("phone already registered")
	ErrInvalidPin         = errors.New("invalid verification pin")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrResetTokenInvalid  = errors.New("reset token invalid or expired")
	ErrCannotModifySelf   = errors.New("cannot modify own account")
)

const resetTokenTTL = 15 * time.Minute

type UserService struct {
	Repo         repo.UserRepository
	JWT          *helpers.JWTManager
	GCS          *storage.Client
	GCSBucket    string
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string

	SMS        *sms.Client
	SMSEnabled bool

	Mail        *helpers.RabbitPublisher
	MailEnabled bool
	ResetURL    string
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func NewUserService(repo repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, JWT: jwt, Redis: rdb, Logger: logger}
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Register creates an unverified account and sends a 4-digit pin over SMS.
// The account cannot log in until the pin is confirmed.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if u, err := s.Repo.GetByEmail(ctx, in.Email); err == nil && u != nil {
		return nil, ErrEmailTaken
	}
	if u, err := s.Repo.GetByPhone(ctx, in.Phone); err == nil && u != nil {
		return nil, ErrPhoneTaken
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	pin, err := helpers.GenVerifyPin()
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Password:  hash,
		Name:      in.Name,
		Phone:     in.Phone,
		Role:      entity.RoleUser,
		VerifyPin: pin,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.sendPin(ctx, u, pin)
	_ = s.indexUser(ctx, u)
	return u, nil
}

func (s *UserService) sendPin(ctx context.Context, u *entity.User, pin string) {
	text := fmt.Sprintf("Your Campnet verification pin is %s", pin)
	if !s.SMSEnabled || s.SMS == nil {
		if s.Logger != nil {
			s.Logger.WithField("user_id", u.ID).WithField("pin", pin).Debug("sms disabled, pin not sent")
		}
		return
	}
	if err := s.SMS.Send(ctx, text, u.Phone); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("verification sms failed")
	}
}

// VerifyPin confirms an account by its pin. The pin is single use.
func (s *UserService) VerifyPin(ctx context.Context, pin string) (*entity.User, error) {
	u, err := s.Repo.VerifyByPin(ctx, pin)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidPin
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

// ResendPin rotates the verification pin for an unverified account and sends
// it again.
func (s *UserService) ResendPin(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	if u.IsVerified {
		return ErrAlreadyVerified
	}
	pin, err := helpers.GenVerifyPin()
	if err != nil {
		return err
	}
	if err := s.Repo.SetVerifyPin(ctx, u.ID, pin); err != nil {
		return err
	}
	s.sendPin(ctx, u, pin)
	return nil
}

// Authenticate validates email/password and enforces the verified/banned
// account gates.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsVerified {
		return nil, ErrAccountNotVerified
	}
	if u.IsBanned {
		return nil, ErrAccountBanned
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"role":       u.Role,
			"avatar_url": u.AvatarURL,
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

type LoginResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	resp := &LoginResponse{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
	return resp, pair, nil
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if u.IsBanned {
		return TokenPair{}, "", ErrAccountBanned
	}
	// The token's sid must match the live session.
	if s.Redis != nil {
		key := sessionKey(u.ID)
		data, rErr := s.Redis.HGetAll(ctx, key).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	// Rotate session id and tokens.
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"sid":        sid,
			"updated_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, 24*time.Hour)
		_, _ = pipe.Exec(ctx)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, u.ID, nil
}

// Logout removes the Redis session so stale tokens stop refreshing.
func (s *UserService) Logout(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

type UpdateDetailsInput struct {
	Name  string
	Email string
	Phone string
}

// UpdateDetails changes name/email/phone, refreshes the session hash and
// re-indexes the profile.
func (s *UserService) UpdateDetails(ctx context.Context, userID string, in UpdateDetailsInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	if in.Email != "" && !strings.EqualFold(in.Email, u.Email) {
		if other, err := s.Repo.GetByEmail(ctx, in.Email); err == nil && other != nil {
			return nil, ErrEmailTaken
		}
		u.Email = strings.ToLower(strings.TrimSpace(in.Email))
	}
	if in.Phone != "" && in.Phone != u.Phone {
		if other, err := s.Repo.GetByPhone(ctx, in.Phone); err == nil && other != nil {
			return nil, ErrPhoneTaken
		}
		u.Phone = in.Phone
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"name":       u.Name,
			"email":      u.Email,
			"updated_at": nowRFC3339(),
		})
		if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, pErr := pipe.Exec(ctx); pErr != nil && s.Logger != nil {
			s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	_ = s.indexUser(ctx, u)
	return u, nil
}

// UpdatePassword verifies the current password before setting the new one.
func (s *UserService) UpdatePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	if !helpers.CompareHashAndPassword(u.Password, current) {
		return ErrInvalidCredentials
	}
	hash, err := helpers.HashPassword(next)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, u.ID, hash)
}

// ForgotPassword issues a one-time reset token and queues a reset email.
// If the email cannot be queued the token is revoked so no orphan tokens
// linger in Redis.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	if s.Redis == nil {
		return errors.New("redis not configured")
	}

	tok := uuid.NewString()
	key := helpers.KeyResetToken(tok)
	if err := s.Redis.Set(ctx, key, u.ID, resetTokenTTL).Err(); err != nil {
		return err
	}

	link := s.ResetURL + "?token=" + tok
	job := mailer.EmailJob{
		To:      u.Email,
		Subject: "Reset your Campnet password",
		Text:    fmt.Sprintf("Hi %s,\n\nUse the link below to reset your password. It expires in %d minutes.\n\n%s\n", u.Name, int(resetTokenTTL.Minutes()), link),
	}
	if !s.MailEnabled || s.Mail == nil {
		if s.Logger != nil {
			s.Logger.WithField("user_id", u.ID).WithField("token", tok).Debug("mail disabled, reset link not sent")
		}
		return nil
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		_ = s.Redis.Del(ctx, key).Err()
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("enqueue reset email failed")
		}
		return err
	}
	return nil
}

// ResetPassword consumes a reset token and replaces the password. The live
// session is dropped so the old credentials stop working everywhere.
func (s *UserService) ResetPassword(ctx context.Context, token, next string) error {
	if s.Redis == nil {
		return errors.New("redis not configured")
	}
	key := helpers.KeyResetToken(token)
	userID, err := s.Redis.Get(ctx, key).Result()
	if err != nil || userID == "" {
		return ErrResetTokenInvalid
	}
	hash, err := helpers.HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	_ = s.Redis.Del(ctx, key).Err()
	_ = s.Redis.Del(ctx, sessionKey(userID)).Err()
	return nil
}

// UploadAvatar stores an avatar object in GCS and records its public URL.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return "", ErrUserNotFound
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, id+ext))
	url, err := helpers.UploadImageToGCS(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.AvatarURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", err
	}
	if s.Redis != nil {
		s.Redis.HSet(ctx, sessionKey(u.ID), map[string]any{
			"avatar_url": u.AvatarURL,
			"updated_at": nowRFC3339(),
		})
	}
	_ = s.indexUser(ctx, u)
	return url, nil
}

// Followers lists the denormalized follower set for a user.
func (s *UserService) Followers(ctx context.Context, userID string) ([]entity.UserRef, error) {
	if u, err := s.Repo.GetByID(ctx, userID); err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return s.Repo.Followers(ctx, userID)
}

// ListUsers is the admin directory listing.
func (s *UserService) ListUsers(ctx context.Context, f repo.ListUsersFilter) ([]entity.User, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
	return s.Repo.List(ctx, f)
}

// ToggleBan flips the ban flag. Banning also drops the session so the user
// is cut off immediately.
func (s *UserService) ToggleBan(ctx context.Context, adminID, userID string) (*entity.User, error) {
	if adminID == userID {
		return nil, ErrCannotModifySelf
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	u.IsBanned = !u.IsBanned
	if err := s.Repo.SetBanned(ctx, u.ID, u.IsBanned); err != nil {
		return nil, err
	}
	if u.IsBanned {
		s.Logout(ctx, u.ID)
	}
	return u, nil
}

// ToggleRole switches a user between the member and publisher roles.
// Admin accounts are left alone.
func (s *UserService) ToggleRole(ctx context.Context, adminID, userID string) (*entity.User, error) {
	if adminID == userID {
		return nil, ErrCannotModifySelf
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	switch u.Role {
	case entity.RoleUser:
		u.Role = entity.RolePublisher
	case entity.RolePublisher:
		u.Role = entity.RoleUser
	default:
		return u, nil
	}
	if err := s.Repo.SetRole(ctx, u.ID, u.Role); err != nil {
		return nil, err
	}
	if s.Redis != nil {
		s.Redis.HSet(ctx, sessionKey(u.ID), map[string]any{"role": u.Role, "updated_at": nowRFC3339()})
	}
	return u, nil
}

// DeleteUser removes the account, its session and its search document.
func (s *UserService) DeleteUser(ctx context.Context, adminID, userID string) error {
	if adminID == userID {
		return ErrCannotModifySelf
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	if err := s.Repo.Delete(ctx, u.ID); err != nil {
		return err
	}
	s.Logout(ctx, u.ID)
	s.deleteUserIndex(ctx, u.ID)
	return nil
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":          u.ID,
		"email":       u.Email,
		"name":        u.Name,
		"phone":       u.Phone,
		"role":        u.Role,
		"avatar_url":  u.AvatarURL,
		"is_verified": u.IsVerified,
		"created_at":  u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

func (s *UserService) deleteUserIndex(ctx context.Context, userID string) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESUsersIndex, DocumentID: userID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// SearchUsers performs a multi_match search on name, email and phone.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "email", "phone"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
