package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-dashboard/pkg/apperror"
	"github.com/oksasatya/go-ddd-task-dashboard/pkg/helpers"
)

func newUserService() (*UserService, *memUsers) {
	users := newMemUsers()
	svc := NewUserService(users, helpers.NewJWTManager("test-secret", time.Hour), nil)
	return svc, users
}

func ptr[T any](v T) *T { return &v }

func wantAppError(t *testing.T, err error, kind apperror.Kind, message string) {
	t.Helper()
	var ae *apperror.Error
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want *apperror.Error", err)
	}
	if ae.Kind != kind || ae.Message != message {
		t.Fatalf("err = (%v, %q), want (%v, %q)", ae.Kind, ae.Message, kind, message)
	}
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	tests := []struct {
		name    string
		in      SignupInput
		message string
	}{
		{"missing name", SignupInput{Email: "a@x.io", Password: "secret1"}, "Please provide all fields"},
		{"blank name", SignupInput{Name: "   ", Email: "a@x.io", Password: "secret1"}, "Please provide all fields"},
		{"missing password", SignupInput{Name: "A", Email: "a@x.io"}, "Please provide all fields"},
		{"short password", SignupInput{Name: "A", Email: "a@x.io", Password: "12345"}, "Password too short"},
		{"long password", SignupInput{Name: "A", Email: "a@x.io", Password: strings.Repeat("p", 73)}, "Password too long"},
		{"bad email", SignupInput{Name: "A", Email: "not-an-email", Password: "secret1"}, "Invalid email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.in)
			wantAppError(t, err, apperror.KindValidation, tt.message)
		})
	}
}

func TestSignupCreatesUserAndToken(t *testing.T) {
	svc, users := newUserService()
	notifier := &recordingNotifier{err: errors.New("queue down")}
	svc.Notifier = notifier

	res, err := svc.Signup(context.Background(), SignupInput{Name: " Ana ", Email: " Ana@Example.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if res.User.Name != "Ana" || res.User.Email != "ana@example.com" {
		t.Errorf("user = %+v", res.User)
	}
	if res.User.Password == "secret1" || !helpers.CompareHashAndPassword(res.User.Password, "secret1") {
		t.Error("password not stored as bcrypt hash")
	}
	if uid, ok := svc.JWT.Verify(res.Token); !ok || uid != res.User.ID {
		t.Errorf("token resolves to (%q, %v), want %q", uid, ok, res.User.ID)
	}
	if _, err := users.GetByEmail(context.Background(), "ana@example.com"); err != nil {
		t.Errorf("user not persisted: %v", err)
	}
	if len(notifier.welcomed) != 1 {
		t.Errorf("welcome emails = %v, want one despite notifier error", notifier.welcomed)
	}
}

func TestSignupTimestampsUseStoredPrecision(t *testing.T) {
	svc, _ := newUserService()
	res, err := svc.Signup(context.Background(), SignupInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if c := res.User.CreatedAt; !c.Equal(c.Truncate(time.Microsecond)) {
		t.Errorf("createdAt = %v, want microsecond precision", c)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()
	if _, err := svc.Signup(ctx, SignupInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, err := svc.Signup(ctx, SignupInput{Name: "Other", Email: "ANA@example.com", Password: "secret2"})
	wantAppError(t, err, apperror.KindValidation, "Email already exists")
}

func TestLogin(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()
	signup, err := svc.Signup(ctx, SignupInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	res, err := svc.Login(ctx, "ANA@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User.ID != signup.User.ID {
		t.Errorf("login user = %q, want %q", res.User.ID, signup.User.ID)
	}

	_, wrongPass := svc.Login(ctx, "ana@example.com", "wrong-pass")
	_, unknown := svc.Login(ctx, "nobody@example.com", "secret1")
	wantAppError(t, wrongPass, apperror.KindAuth, "Invalid credentials")
	wantAppError(t, unknown, apperror.KindAuth, "Invalid credentials")

	_, missing := svc.Login(ctx, "", "secret1")
	wantAppError(t, missing, apperror.KindValidation, "Provide email and password")
}

func TestStoreFailureIsUnexpected(t *testing.T) {
	svc, users := newUserService()
	users.err = errors.New("connection refused")
	_, err := svc.Login(context.Background(), "ana@example.com", "secret1")
	if apperror.KindOf(err) != apperror.KindUnexpected {
		t.Errorf("kind = %v, want unexpected", apperror.KindOf(err))
	}
}

func TestGetProfileReadsThroughCache(t *testing.T) {
	svc, _ := newUserService()
	cache := newMemCache()
	svc.Cache = cache
	ctx := context.Background()
	res, _ := svc.Signup(ctx, SignupInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})

	for i := 0; i < 2; i++ {
		u, err := svc.GetProfile(ctx, res.User.ID)
		if err != nil {
			t.Fatalf("GetProfile: %v", err)
		}
		if u.Email != "ana@example.com" {
			t.Errorf("email = %q", u.Email)
		}
	}
	if cache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", cache.hits)
	}

	_, err := svc.GetProfile(ctx, "missing")
	wantAppError(t, err, apperror.KindNotFound, "User not found")
}

func TestFailedProfileWriteEvictsCache(t *testing.T) {
	svc, users := newUserService()
	cache := newMemCache()
	svc.Cache = cache
	ctx := context.Background()
	res, _ := svc.Signup(ctx, SignupInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	if _, err := svc.GetProfile(ctx, res.User.ID); err != nil {
		t.Fatalf("GetProfile: %v", err)
	}

	users.updateErr = errors.New("disk full")
	_, err := svc.UpdateProfile(ctx, res.User.ID, entity.ProfilePatch{Bio: ptr("Gardener")})
	if apperror.KindOf(err) != apperror.KindUnexpected {
		t.Fatalf("kind = %v, want unexpected", apperror.KindOf(err))
	}
	if _, ok := cache.users[res.User.ID]; ok {
		t.Error("cache still holds the profile after a failed write")
	}

	users.updateErr = nil
	u, err := svc.GetProfile(ctx, res.User.ID)
	if err != nil || u.Bio != "" {
		t.Errorf("profile = %+v, %v", u, err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, users := newUserService()
	svc.now = tickingClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	notifier := &recordingNotifier{}
	svc.Notifier = notifier
	ctx := context.Background()
	res, _ := svc.Signup(ctx, SignupInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	id := res.User.ID

	u, err := svc.UpdateProfile(ctx, id, entity.ProfilePatch{Bio: ptr("Gardener"), AvatarURL: ptr("https://img.example/a.png")})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if u.Name != "Ana" || u.Bio != "Gardener" || u.AvatarURL != "https://img.example/a.png" {
		t.Errorf("after patch = %+v", u)
	}
	if !u.UpdatedAt.After(res.User.UpdatedAt) {
		t.Error("updatedAt not advanced")
	}
	if got := notifier.updated[id]; len(got) != 2 {
		t.Errorf("changed fields = %v", got)
	}

	u, err = svc.UpdateProfile(ctx, id, entity.ProfilePatch{Name: ptr("  Ana Maria "), Bio: ptr("")})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if u.Name != "Ana Maria" || u.Bio != "" || u.AvatarURL == "" {
		t.Errorf("after second patch = %+v", u)
	}
	stored, _ := users.GetByID(ctx, id)
	if stored.Name != "Ana Maria" || stored.Email != "ana@example.com" {
		t.Errorf("stored = %+v", stored)
	}

	_, err = svc.UpdateProfile(ctx, id, entity.ProfilePatch{Name: ptr("  ")})
	wantAppError(t, err, apperror.KindValidation, "Name cannot be empty")
}

func TestUploadAvatar(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()
	res, _ := svc.Signup(ctx, SignupInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})

	if _, err := svc.UploadAvatar(ctx, res.User.ID, strings.NewReader("x"), "a.png", "image/png"); apperror.KindOf(err) != apperror.KindUnexpected {
		t.Errorf("without store: kind = %v, want unexpected", apperror.KindOf(err))
	}

	store := &memAvatars{}
	svc.Avatars = store
	_, err := svc.UploadAvatar(ctx, res.User.ID, strings.NewReader("x"), "a.txt", "text/plain")
	wantAppError(t, err, apperror.KindValidation, "Avatar must be an image")

	u, err := svc.UploadAvatar(ctx, res.User.ID, strings.NewReader("png-bytes"), "a.png", "image/png")
	if err != nil {
		t.Fatalf("UploadAvatar: %v", err)
	}
	if string(store.got) != "png-bytes" {
		t.Errorf("uploaded %q", store.got)
	}
	if !strings.HasSuffix(u.AvatarURL, "/"+res.User.ID+"/a.png") {
		t.Errorf("avatar = %q", u.AvatarURL)
	}
}
