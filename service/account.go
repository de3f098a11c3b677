// Package service implements the account operations: registration,
// password login, password reset, token authentication and per-user
// settings.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"caption-service/auth"
	"caption-service/database"
	"caption-service/models"
	"caption-service/store"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	settingsCachePrefix = "settings:"
	settingsCacheTTL    = 10 * time.Minute
)

// Cache holds settings payloads between reads. Values may come back decoded
// from JSON rather than as the type that was stored.
type Cache interface {
	Get(key string) (interface{}, error)
	Set(key string, value interface{}, ttl time.Duration)
	Delete(key string)
}

// Options tunes password hashing and token lifetime.
type Options struct {
	BcryptCost int
	TokenTTL   time.Duration // zero: tokens live until the next login
}

// AccountService orchestrates the user and settings stores.
type AccountService struct {
	db        *sqlx.DB
	cache     Cache // optional
	log       *zap.Logger
	validate  *validator.Validate
	opts      Options
	dummyHash string
	now       func() time.Time
}

// NewAccountService builds the service around a shared connection pool.
// c may be nil to disable settings caching.
func NewAccountService(db *sqlx.DB, c Cache, log *zap.Logger, opts Options) (*AccountService, error) {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = auth.DefaultCost
	}
	// Compared against on unknown emails so both login failures cost one bcrypt check.
	dummyHash, err := auth.HashPassword("caption-service-dummy", opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hashing: %w", err)
	}
	return &AccountService{
		db:        db,
		cache:     c,
		log:       log,
		validate:  validator.New(),
		opts:      opts,
		dummyHash: dummyHash,
		now:       time.Now,
	}, nil
}

// Register creates an account and returns its id.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (int, error) {
	if err := s.validate.Struct(req); err != nil {
		return 0, &ValidationError{Message: "All fields are required."}
	}
	if req.PreferredLanguage == "" {
		req.PreferredLanguage = models.DefaultLanguage
	}

	hashed, err := s.hashPassword(req.Password)
	if err != nil {
		return 0, err
	}

	id, err := store.NewUserStore(s.db).Create(ctx, &models.User{
		Username:          req.Username,
		Email:             req.Email,
		Password:          hashed,
		PreferredLanguage: req.PreferredLanguage,
	})
	if errors.Is(err, store.ErrDuplicateEmail) {
		return 0, ErrDuplicateEmail
	}
	if err != nil {
		return 0, err
	}

	s.log.Info("user registered", zap.Int("user_id", id))
	return id, nil
}

// Login verifies the password and issues a new session token, replacing
// the previous one. Unknown email and wrong password fail identically.
func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	if err := s.validate.Struct(req); err != nil {
		return "", &ValidationError{Message: "All fields are required."}
	}

	users := store.NewUserStore(s.db)
	user, err := users.FindByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		auth.CheckPassword(s.dummyHash, req.Password)
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		s.log.Info("login rejected", zap.Int("user_id", user.ID))
		return "", ErrInvalidCredentials
	}

	token, err := auth.IssueToken()
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	if err := users.SetToken(ctx, user.ID, token, s.now().UTC()); err != nil {
		return "", err
	}

	s.log.Info("user logged in", zap.Int("user_id", user.ID))
	return token, nil
}

// ForgotPassword sets a new password for the account registered under email.
func (s *AccountService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return &ValidationError{Message: "Email and new password are required."}
	}

	hashed, err := s.hashPassword(req.Password)
	if err != nil {
		return err
	}

	err = store.NewUserStore(s.db).SetPassword(ctx, req.Email, hashed)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	s.log.Info("password reset")
	return nil
}

// Authenticate resolves a session token to its user.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	user, err := store.NewUserStore(s.db).FindByToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if auth.Expired(user.TokenIssuedAt, s.opts.TokenTTL, s.now()) {
		s.log.Info("token expired", zap.Int("user_id", user.ID))
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// SaveSettings writes a complete settings row for user, filling defaults
// for absent fields.
func (s *AccountService) SaveSettings(ctx context.Context, user *models.User, req models.SaveSettingsRequest) error {
	settings := req.ToSettings(user.ID)
	key := settingsCacheKey(user.ID)

	// Dropped before and after the write; a read racing the transaction can
	// only refill the old value in between.
	s.dropCached(key)
	err := database.WithTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		return store.NewSettingsStore(tx).Upsert(ctx, &settings)
	})
	if err != nil {
		return err
	}

	s.dropCached(key)

	s.log.Info("settings saved", zap.Int("user_id", user.ID))
	return nil
}

// GetSettings returns the stored settings of user, or a
// *SettingsNotFoundError carrying the username if none were saved yet.
func (s *AccountService) GetSettings(ctx context.Context, user *models.User) (*models.SettingsResponse, error) {
	key := settingsCacheKey(user.ID)
	if s.cache != nil {
		if cached, err := s.cache.Get(key); err == nil {
			if resp, ok := decodeCachedSettings(cached); ok {
				return resp, nil
			}
		}
	}

	settings, err := store.NewSettingsStore(s.db).Get(ctx, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &SettingsNotFoundError{Username: user.Username}
	}
	if err != nil {
		return nil, err
	}

	resp := models.NewSettingsResponse(user.Username, settings)
	if s.cache != nil {
		s.cache.Set(key, resp, settingsCacheTTL)
	}
	return &resp, nil
}

func (s *AccountService) dropCached(key string) {
	if s.cache != nil {
		s.cache.Delete(key)
	}
}

// hashPassword reports passwords bcrypt cannot take as a validation error.
func (s *AccountService) hashPassword(password string) (string, error) {
	hashed, err := auth.HashPassword(password, s.opts.BcryptCost)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", &ValidationError{Message: fmt.Sprintf("Password must be at most %d bytes.", auth.MaxPasswordBytes)}
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hashed, nil
}

func settingsCacheKey(userID int) string {
	return settingsCachePrefix + strconv.Itoa(userID)
}

// decodeCachedSettings accepts the stored struct or its JSON form. The
// Redis backend hands back whatever json.Unmarshal into interface{} makes of
// the payload, usually a map.
func decodeCachedSettings(cached interface{}) (*models.SettingsResponse, bool) {
	switch v := cached.(type) {
	case nil:
		return nil, false
	case models.SettingsResponse:
		return &v, true
	case *models.SettingsResponse:
		return v, v != nil
	case []byte:
		var resp models.SettingsResponse
		if err := json.Unmarshal(v, &resp); err != nil {
			return nil, false
		}
		return &resp, true
	}

	raw, err := json.Marshal(cached)
	if err != nil {
		return nil, false
	}
	var resp models.SettingsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}
