package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"devmart/internal/domain/models"
	"devmart/internal/lib/jwt"
	"devmart/internal/lib/logger/sl"
	"devmart/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserExist          = errors.New("user already exist")
)

type Config struct {
	Secret     string        `yaml:"secret" env:"AUTH_SECRET" env-required:"true"`
	AccessTTL  time.Duration `yaml:"access_ttl" env-default:"15m"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env-default:"168h"`
}

type Auth struct {
	log        *slog.Logger
	users      repository.UserRepository
	tokens     repository.TokenRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func New(log *slog.Logger, users repository.UserRepository, tokens repository.TokenRepository, cfg Config) *Auth {
	return &Auth{
		log:        log,
		users:      users,
		tokens:     tokens,
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
}

func (a *Auth) Secret() []byte {
	return a.secret
}

func (a *Auth) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	const op = "auth.Login"

	log := a.log.With(
		slog.String("op", op),
		slog.String("username", email),
	)

	log.Info("attempting to login user")

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		log.Error("failed to get user", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user == nil {
		log.Warn("user not found")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := a.issue(ctx, *user)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully")

	return pair, nil
}

// Refresh rotates a refresh token. The old token is revoked before a new
// pair is issued.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	const op = "auth.Refresh"

	claims, err := jwt.Parse(refreshToken, jwt.TypeRefresh, a.secret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	userID := claims.Subject

	exists, err := a.tokens.GetRefreshToken(ctx, userID, refreshToken)
	if err != nil {
		a.log.Error("failed to look up refresh token", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if err := a.tokens.DeleteRefreshToken(ctx, userID, refreshToken); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	pair, err := a.issue(ctx, *user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, nil
}

// Logout revokes every refresh token of the user.
func (a *Auth) Logout(ctx context.Context, userID string) error {
	const op = "auth.Logout"

	if err := a.tokens.DeleteAllUserTokens(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	a.log.Info("user logged out", slog.String("op", op), slog.String("user_id", userID))

	return nil
}

// EnsureAdmin creates the admin account when no user has the email yet.
func (a *Auth) EnsureAdmin(ctx context.Context, email, name, password string) (*models.User, error) {
	const op = "auth.EnsureAdmin"

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	existing, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existing != nil {
		return existing, nil
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := a.users.Create(ctx, models.User{
		Email:        strings.TrimSpace(email),
		Name:         name,
		PasswordHash: passHash,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		if repository.KindOf(err) == repository.KindConflict {
			log.Warn("user already exist", sl.Err(err))

			return nil, fmt.Errorf("%s: %w", op, ErrUserExist)
		}

		log.Error("failed to save user", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("admin registered")

	return user, nil
}

func (a *Auth) issue(ctx context.Context, user models.User) (*models.TokenPair, error) {
	now := a.now()

	accessToken, err := jwt.NewToken(user, jwt.TypeAccess, a.accessTTL, a.secret, now)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.NewToken(user, jwt.TypeRefresh, a.refreshTTL, a.secret, now)
	if err != nil {
		return nil, err
	}

	if err := a.tokens.SaveRefreshToken(ctx, user.ID, refreshToken, a.refreshTTL); err != nil {
		return nil, err
	}

	return &models.TokenPair{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
