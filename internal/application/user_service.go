package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-task-dashboard/internal/domain/repository"
	"github.com/oksasatya/go-ddd-task-dashboard/pkg/apperror"
	"github.com/oksasatya/go-ddd-task-dashboard/pkg/helpers"
	"github.com/oksasatya/go-ddd-task-dashboard/pkg/validation"
)

const MinPasswordLen = 6

var (
	ErrInvalidCredentials = apperror.Auth("Invalid credentials")
	ErrUserNotFound       = apperror.NotFound("User not found")
	ErrEmailExists        = apperror.Validation("Email already exists", map[string]string{"email": "is already registered"})
)

type UserService struct {
	Repo     repo.UserRepository
	JWT      *helpers.JWTManager
	Logger   *logrus.Logger
	Cache    ProfileCache
	Notifier Notifier
	Avatars  AvatarStore

	now   func() time.Time
	newID func() string
}

func NewUserService(repo repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *UserService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &UserService{
		Repo:   repo,
		JWT:    jwt,
		Logger: logger,
		now:    func() time.Time { return time.Now().UTC().Truncate(entity.TimePrecision) },
		newID:  uuid.NewString,
	}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by signup and login: a fresh bearer token and the
// account it is bound to.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// Signup registers a new account and signs it in.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := entity.NormalizeEmail(in.Email)

	if missing := missingFields(map[string]string{"name": name, "email": email, "password": in.Password}); len(missing) > 0 {
		return nil, apperror.Validation("Please provide all fields", missing)
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLen {
		return nil, apperror.Validation("Password too short", map[string]string{"password": "must be at least 6 characters long"})
	}
	if len(in.Password) > helpers.MaxPasswordBytes {
		return nil, apperror.Validation("Password too long", map[string]string{"password": "must be at most 72 bytes long"})
	}
	if err := validation.Var(email, "email"); err != nil {
		return nil, apperror.Validation("Invalid email", map[string]string{"email": "must be a valid email"})
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.Unexpected(err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	now := s.now()
	u := &entity.User{
		ID:        s.newID(),
		Name:      name,
		Email:     email,
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		// Lost a race with a concurrent signup for the same address.
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, ErrEmailExists
		}
		return nil, apperror.Unexpected(err)
	}

	res, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	metricSignups.Add(1)
	s.Logger.WithField("user_id", u.ID).Info("user signed up")

	if s.Notifier != nil {
		if err := s.Notifier.Welcome(ctx, u); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue welcome email failed")
		}
	}
	return res, nil
}

// Login checks email/password and issues a token. Unknown emails and
// wrong passwords produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = entity.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.Validation("Provide email and password", missingFields(map[string]string{"email": email, "password": password}))
	}

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			helpers.BurnPasswordCheck(password)
			metricLoginsFailed.Add(1)
			return nil, ErrInvalidCredentials
		}
		return nil, apperror.Unexpected(err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		metricLoginsFailed.Add(1)
		return nil, ErrInvalidCredentials
	}

	res, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	metricLogins.Add(1)
	return res, nil
}

func (s *UserService) issue(u *entity.User) (*AuthResult, error) {
	token, exp, err := s.JWT.Issue(u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		return nil, apperror.Unexpected(err)
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// GetProfile returns the caller's own record.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	if s.Cache != nil {
		if u, ok := s.Cache.Get(ctx, userID); ok {
			return u, nil
		}
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperror.Unexpected(err)
	}
	if s.Cache != nil {
		s.Cache.Set(ctx, u)
	}
	return u, nil
}

// UpdateProfile applies patch to the caller's own record.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch entity.ProfilePatch) (*entity.User, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperror.Validation("Name cannot be empty", map[string]string{"name": "is required"})
	}

	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperror.Unexpected(err)
	}

	changed := patch.Apply(u)
	if len(changed) == 0 {
		return u, nil
	}
	if err := s.saveProfile(ctx, u); err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		if err := s.Notifier.ProfileUpdated(ctx, u, changed); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue profile email failed")
		}
	}
	return u, nil
}

// UploadAvatar stores an image and points the caller's avatar at it.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.Avatars == nil {
		return nil, apperror.Unexpected(errors.New("avatar storage not configured"))
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperror.Validation("Avatar must be an image", map[string]string{"avatar": "must be an image"})
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperror.Unexpected(err)
	}
	url, err := s.Avatars.Upload(ctx, userID, r, filename, contentType)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	u.AvatarURL = url
	if err := s.saveProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) saveProfile(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = s.now()
	if err := s.Repo.UpdateProfile(ctx, u); err != nil {
		// The stored row is unknown after a failed write.
		if s.Cache != nil {
			s.Cache.Delete(ctx, u.ID)
		}
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return apperror.Unexpected(err)
	}
	if s.Cache != nil {
		s.Cache.Set(ctx, u)
	}
	return nil
}

// missingFields returns a details map naming every empty value.
func missingFields(fields map[string]string) map[string]string {
	var out map[string]string
	for name, v := range fields {
		if v == "" {
			if out == nil {
				out = map[string]string{}
			}
			out[name] = "is required"
		}
	}
	return out
}
