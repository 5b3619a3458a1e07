package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/common"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/logging"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/auth"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/media"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/models"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/repositories/repomanager"
	subsrepo "github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/repositories/subscriptions"
	usersrepo "github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/repositories/users"
	videosrepo "github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/repositories/videos"
)

// --- fakes ---

// fakeUsersRepo is an in-memory credential store holding a single slice of
// users keyed by nothing fancy; good enough to drive the lifecycle flows.
type fakeUsersRepo struct {
	users  map[string]*models.User // by id
	nextID int

	failSetRefresh error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	for _, existing := range f.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, common.ErrorConflict
		}
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	clone := *u
	f.users[u.ID] = &clone
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUsersRepo) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == login || u.Email == login {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdateAccountDetails(ctx context.Context, id, fullname, email string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	for _, other := range f.users {
		if other.ID != id && other.Email == email {
			return nil, common.ErrorConflict
		}
	}
	u.Fullname, u.Email = fullname, email
	clone := *u
	return &clone, nil
}

func (f *fakeUsersRepo) UpdateAvatar(ctx context.Context, id, url string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.AvatarURL = url
	clone := *u
	return &clone, nil
}

func (f *fakeUsersRepo) UpdateCoverImage(ctx context.Context, id, url string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.CoverImageURL = url
	clone := *u
	return &clone, nil
}

func (f *fakeUsersRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsersRepo) SetRefreshToken(ctx context.Context, id, token string) error {
	if f.failSetRefresh != nil {
		return f.failSetRefresh
	}
	u, ok := f.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.RefreshToken = token
	return nil
}

func (f *fakeUsersRepo) RotateRefreshToken(ctx context.Context, id, presented, next string) error {
	u, ok := f.users[id]
	if !ok || u.RefreshToken != presented {
		return common.ErrTokenReuse
	}
	u.RefreshToken = next
	return nil
}

func (f *fakeUsersRepo) ClearRefreshToken(ctx context.Context, id string) error {
	if u, ok := f.users[id]; ok {
		u.RefreshToken = ""
	}
	return nil
}

type fakeSubsRepo struct {
	stats models.ChannelStats
	err   error
}

func (f *fakeSubsRepo) ChannelStats(ctx context.Context, channelID, viewerID string) (*models.ChannelStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	clone := f.stats
	return &clone, nil
}

type fakeVideosRepo struct {
	entries []models.WatchEntry
	watched []string
}

func (f *fakeVideosRepo) WatchHistory(ctx context.Context, userID string) ([]models.WatchEntry, error) {
	return f.entries, nil
}

func (f *fakeVideosRepo) RecordWatch(ctx context.Context, userID, videoID string) error {
	f.watched = append(f.watched, videoID)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	s *fakeSubsRepo
	v *fakeVideosRepo
}

func (m *fakeRepoManager) Conn() *sql.DB                       { return nil }
func (m *fakeRepoManager) RunMigrations(context.Context) error { return nil }
func (m *fakeRepoManager) Users() usersrepo.Repository         { return m.u }
func (m *fakeRepoManager) Subscriptions() subsrepo.Repository  { return m.s }
func (m *fakeRepoManager) Videos() videosrepo.Repository       { return m.v }

func (m *fakeRepoManager) WithTx(ctx context.Context, fn func(ctx context.Context, tm repomanager.RepositoryManager) error) error {
	return fn(ctx, m)
}

type fakeMediaStore struct {
	uploads  int
	failKeys string // substring; matching keys fail
}

func (f *fakeMediaStore) Upload(ctx context.Context, obj media.Object) (string, error) {
	if f.failKeys != "" && strings.Contains(obj.Key, f.failKeys) {
		return "", errors.New("upstream unavailable")
	}
	f.uploads++
	return "https://cdn.example.com/" + obj.Key, nil
}

// --- helpers ---

func newTestService(t *testing.T) (*UserService, *fakeRepoManager, *fakeMediaStore) {
	t.Helper()
	rm := &fakeRepoManager{u: newFakeUsersRepo(), s: &fakeSubsRepo{}, v: &fakeVideosRepo{}}
	store := &fakeMediaStore{}
	issuer := auth.NewIssuer(auth.Config{
		AccessSecret:                 []byte("a"),
		RefreshSecret:                []byte("r"),
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	})
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewUserService(rm, store, issuer, logger), rm, store
}

func registerAlice(t *testing.T, s *UserService) *models.Profile {
	t.Helper()
	profile, err := s.Register(context.Background(), RegisterParams{
		Fullname: "Alice Doe",
		Username: "alice01",
		Email:    "a@x.com",
		Password: "Secret123",
		Avatar:   &FileUpload{Filename: "a.png", ContentType: "image/png", Content: strings.NewReader("png")},
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	return profile
}

// --- tests ---

func TestRegister_HashesPasswordAndStripsSecrets(t *testing.T) {
	s, rm, _ := newTestService(t)

	profile := registerAlice(t, s)

	stored := rm.u.users[profile.ID]
	if stored.PasswordHash == "Secret123" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Secret123")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
	if profile.AvatarURL == "" {
		t.Fatal("avatar URL missing from projection")
	}
}

func TestRegister_BlankFieldFails(t *testing.T) {
	s, _, _ := newTestService(t)

	_, err := s.Register(context.Background(), RegisterParams{
		Fullname: "   ",
		Username: "alice01",
		Email:    "a@x.com",
		Password: "Secret123",
		Avatar:   &FileUpload{Filename: "a.png", Content: strings.NewReader("png")},
	})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegister_DuplicateHandleOrEmailConflicts(t *testing.T) {
	s, _, _ := newTestService(t)
	registerAlice(t, s)

	cases := []struct{ username, email string }{
		{"alice01", "other@x.com"}, // same handle
		{"bob02", "a@x.com"},       // same contact
	}
	for _, tc := range cases {
		_, err := s.Register(context.Background(), RegisterParams{
			Fullname: "Somebody",
			Username: tc.username,
			Email:    tc.email,
			Password: "Secret123",
			Avatar:   &FileUpload{Filename: "b.png", Content: strings.NewReader("png")},
		})
		if !errors.Is(err, common.ErrorConflict) {
			t.Fatalf("username=%s email=%s: expected conflict, got %v", tc.username, tc.email, err)
		}
	}
}

func TestRegister_AvatarUploadFailureIsDependencyError(t *testing.T) {
	s, _, store := newTestService(t)
	store.failKeys = "avatars/"

	_, err := s.Register(context.Background(), RegisterParams{
		Fullname: "Alice Doe",
		Username: "alice01",
		Email:    "a@x.com",
		Password: "Secret123",
		Avatar:   &FileUpload{Filename: "a.png", Content: strings.NewReader("png")},
	})
	if !errors.Is(err, common.ErrorDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestRegister_CoverUploadFailureIsTolerated(t *testing.T) {
	s, rm, store := newTestService(t)
	store.failKeys = "covers/"

	profile, err := s.Register(context.Background(), RegisterParams{
		Fullname:   "Alice Doe",
		Username:   "alice01",
		Email:      "a@x.com",
		Password:   "Secret123",
		Avatar:     &FileUpload{Filename: "a.png", Content: strings.NewReader("png")},
		CoverImage: &FileUpload{Filename: "c.png", Content: strings.NewReader("png")},
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if rm.u.users[profile.ID].CoverImageURL != "" {
		t.Fatal("expected empty cover image URL after failed upload")
	}
}

func TestLogin_PersistsReturnedRefreshToken(t *testing.T) {
	s, rm, _ := newTestService(t)
	registerAlice(t, s)

	profile, pair, err := s.Login(context.Background(), "alice01", "Secret123")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if rm.u.users[profile.ID].RefreshToken != pair.RefreshToken {
		t.Fatal("stored refresh token differs from returned one")
	}
}

func TestLogin_ByEmail(t *testing.T) {
	s, _, _ := newTestService(t)
	registerAlice(t, s)

	if _, _, err := s.Login(context.Background(), "a@x.com", "Secret123"); err != nil {
		t.Fatalf("Login by email error: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	s, _, _ := newTestService(t)
	registerAlice(t, s)

	_, _, err := s.Login(context.Background(), "alice01", "wrong")
	if !errors.Is(err, common.ErrorInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	s, _, _ := newTestService(t)

	_, _, err := s.Login(context.Background(), "nobody", "x")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	s, rm, _ := newTestService(t)
	profile := registerAlice(t, s)
	_, pair, err := s.Login(context.Background(), "alice01", "Secret123")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	next, err := s.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}
	if rm.u.users[profile.ID].RefreshToken != next.RefreshToken {
		t.Fatal("store was not advanced to the new refresh token")
	}
}

func TestRefresh_StaleTokenIsReuse(t *testing.T) {
	s, _, _ := newTestService(t)
	registerAlice(t, s)
	_, pair, err := s.Login(context.Background(), "alice01", "Secret123")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if _, err := s.Refresh(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("first Refresh error: %v", err)
	}

	// Presenting the already-rotated token again must be rejected.
	_, err = s.Refresh(context.Background(), pair.RefreshToken)
	if !errors.Is(err, common.ErrTokenReuse) {
		t.Fatalf("expected token reuse, got %v", err)
	}
}

func TestRefresh_MalformedTokenFailsBeforeLookup(t *testing.T) {
	s, rm, _ := newTestService(t)

	// empty store: any lookup would fail with NotFound, so Unauthorized
	// here proves verification came first
	_, err := s.Refresh(context.Background(), "not.a.jwt")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if len(rm.u.users) != 0 {
		t.Fatal("unexpected store mutation")
	}
}

func TestRefresh_MissingTokenIsValidationError(t *testing.T) {
	s, _, _ := newTestService(t)

	_, err := s.Refresh(context.Background(), "")
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRefresh_AfterLogoutFails(t *testing.T) {
	s, _, _ := newTestService(t)
	profile := registerAlice(t, s)
	_, pair, err := s.Login(context.Background(), "alice01", "Secret123")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if err := s.Logout(context.Background(), profile.ID); err != nil {
		t.Fatalf("Logout error: %v", err)
	}

	_, err = s.Refresh(context.Background(), pair.RefreshToken)
	if !errors.Is(err, common.ErrTokenReuse) {
		t.Fatalf("expected token reuse after logout, got %v", err)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	s, _, _ := newTestService(t)
	profile := registerAlice(t, s)

	if err := s.Logout(context.Background(), profile.ID); err != nil {
		t.Fatalf("first Logout error: %v", err)
	}
	if err := s.Logout(context.Background(), profile.ID); err != nil {
		t.Fatalf("second Logout error: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	s, _, _ := newTestService(t)
	profile := registerAlice(t, s)

	if err := s.ChangePassword(context.Background(), profile.ID, "Secret123", "NewSecret1", "NewSecret1"); err != nil {
		t.Fatalf("ChangePassword error: %v", err)
	}
	if _, _, err := s.Login(context.Background(), "alice01", "NewSecret1"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	err := s.ChangePassword(context.Background(), profile.ID, "wrong", "x1", "x1")
	if !errors.Is(err, common.ErrorInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	err = s.ChangePassword(context.Background(), profile.ID, "NewSecret1", "a", "b")
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected validation error on mismatch, got %v", err)
	}
}

func TestChangePassword_KeepsRefreshToken(t *testing.T) {
	s, rm, _ := newTestService(t)
	profile := registerAlice(t, s)
	_, pair, err := s.Login(context.Background(), "alice01", "Secret123")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if err := s.ChangePassword(context.Background(), profile.ID, "Secret123", "NewSecret1", "NewSecret1"); err != nil {
		t.Fatalf("ChangePassword error: %v", err)
	}
	if rm.u.users[profile.ID].RefreshToken != pair.RefreshToken {
		t.Fatal("refresh token changed on password change")
	}
}

func TestChannelProfile(t *testing.T) {
	s, rm, _ := newTestService(t)
	profile := registerAlice(t, s)
	rm.s.stats = models.ChannelStats{Subscribers: 7, SubscribedTo: 3, IsSubscribed: true}

	got, err := s.ChannelProfile(context.Background(), "Alice01", "viewer-1")
	if err != nil {
		t.Fatalf("ChannelProfile error: %v", err)
	}
	if got.Username != profile.Username || got.Subscribers != 7 || got.SubscribedTo != 3 || !got.IsSubscribed {
		t.Fatalf("unexpected channel profile: %+v", got)
	}
}

func TestChannelProfile_UnknownUsername(t *testing.T) {
	s, _, _ := newTestService(t)

	_, err := s.ChannelProfile(context.Background(), "ghost", "viewer-1")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestScenario_RegisterLoginRefreshReuse(t *testing.T) {
	s, _, _ := newTestService(t)

	registerAlice(t, s)

	_, pair1, err := s.Login(context.Background(), "alice01", "Secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	pair2, err := s.Refresh(context.Background(), pair1.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if pair2.RefreshToken == pair1.RefreshToken {
		t.Fatal("expected a different refresh token")
	}

	_, err = s.Refresh(context.Background(), pair1.RefreshToken)
	if !errors.Is(err, common.ErrTokenReuse) {
		t.Fatalf("expected token reuse on replay, got %v", err)
	}
}
