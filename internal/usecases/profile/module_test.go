package profile

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
	"github.com/ErdunE/mira-astrology-companion/internal/services/identity"
	"github.com/ErdunE/mira-astrology-companion/internal/services/validation"
	"github.com/ErdunE/mira-astrology-companion/internal/services/zodiac"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeRepo struct {
	saved []*domain.UserProfile
	err   error
}

func (f *fakeRepo) Put(ctx context.Context, profile *domain.UserProfile) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, profile)
	return nil
}

func (f *fakeRepo) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return nil, domain.ErrProfileNotFound
}

func (f *fakeRepo) MarkChartGenerated(ctx context.Context, userID string, at int64) error { return nil }

func (f *fakeRepo) Ping(ctx context.Context) error { return nil }

type fakeZodiac struct {
	sign string
	err  error
}

func (f fakeZodiac) SignFor(birthDate string) (string, error) { return f.sign, f.err }

type fakeValidator struct{ err error }

func (f fakeValidator) ValidateProfile(body map[string]any) (domain.BirthData, error) {
	return domain.BirthData{}, f.err
}

type fakeEvents struct {
	events []domain.ProfileEvent
	err    error
}

func (f *fakeEvents) PublishProfileCreated(ctx context.Context, event domain.ProfileEvent) error {
	f.events = append(f.events, event)
	return f.err
}

func (f *fakeEvents) Close() error { return nil }

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(repo *fakeRepo) *Service {
	log := discardLog()
	s := New(identity.New(log), validation.New(func() time.Time { return fixedNow }), zodiac.New(), repo, nil, log)
	s.now = func() time.Time { return fixedNow }
	s.newID = func() string { return "event-1" }
	return s
}

func authorizedEvent(sub, email string) map[string]any {
	claims := map[string]any{"sub": sub}
	if email != "" {
		claims["email"] = email
	}
	return map[string]any{
		"requestContext": map[string]any{
			"authorizer": map[string]any{
				"jwt": map[string]any{"claims": claims},
			},
		},
	}
}

func request(event map[string]any, body string) *domain.Request {
	return &domain.Request{Path: "/profile", Method: http.MethodPost, Body: []byte(body), Event: event}
}

func bodyOf(t *testing.T, resp *domain.Response) map[string]any {
	t.Helper()
	raw, err := json.Marshal(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func errorOf(t *testing.T, resp *domain.Response) map[string]any {
	t.Helper()
	e, ok := bodyOf(t, resp)["error"].(map[string]any)
	require.True(t, ok)
	return e
}

const validBody = `{"birth_date":"1990-03-25","birth_time":"14:30","birth_location":"  Paris ","birth_country":"France"}`

func TestCreateProfile_Success(t *testing.T) {
	repo := &fakeRepo{}

	resp := newService(repo).CreateProfile(context.Background(), request(authorizedEvent("user-1", "a@b.c"), validBody))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	body := bodyOf(t, resp)
	assert.Equal(t, msgCreated, body["message"])
	profile := body["profile"].(map[string]any)
	assert.Equal(t, "user-1", profile["user_id"])
	assert.Equal(t, "Aries", profile["zodiac_sign"])
	assert.Equal(t, "Paris", profile["birth_location"])
	assert.Equal(t, "a@b.c", profile["email"])
	assert.Equal(t, float64(fixedNow.Unix()), profile["created_at"])

	require.Len(t, repo.saved, 1)
	saved := repo.saved[0]
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)
	assert.False(t, saved.ChartGenerated)
	assert.Nil(t, saved.Timezone)
	assert.Nil(t, saved.LastChartGeneratedAt)
	require.NotNil(t, saved.Email)
	assert.Equal(t, "a@b.c", *saved.Email)
}

func TestCreateProfile_NoEmailOmitted(t *testing.T) {
	repo := &fakeRepo{}

	resp := newService(repo).CreateProfile(context.Background(), request(authorizedEvent("user-1", ""), validBody))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, hasEmail := bodyOf(t, resp)["profile"].(map[string]any)["email"]
	assert.False(t, hasEmail)
	assert.Nil(t, repo.saved[0].Email)
}

func TestCreateProfile_Unauthorized(t *testing.T) {
	repo := &fakeRepo{}

	resp := newService(repo).CreateProfile(context.Background(), request(map[string]any{}, validBody))

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	e := errorOf(t, resp)
	assert.Equal(t, domain.CodeUnauthorized, e["code"])
	assert.Equal(t, "Unable to extract user identity from request", e["message"])
	assert.Empty(t, repo.saved)
}

func TestCreateProfile_InvalidJSON(t *testing.T) {
	for _, body := range []string{`{not json`, `[1,2]`, `"text"`, `null`} {
		t.Run(body, func(t *testing.T) {
			resp := newService(&fakeRepo{}).CreateProfile(context.Background(), request(authorizedEvent("user-1", ""), body))

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, domain.CodeInvalidJSON, errorOf(t, resp)["code"])
		})
	}
}

func TestCreateProfile_EmptyBodyIsValidationError(t *testing.T) {
	resp := newService(&fakeRepo{}).CreateProfile(context.Background(), request(authorizedEvent("user-1", ""), ""))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := errorOf(t, resp)
	assert.Equal(t, domain.CodeValidationError, e["code"])
	assert.Equal(t, "Invalid input data", e["message"])
	assert.Equal(t, "birth_date", e["details"].(map[string]any)["field"])
}

func TestCreateProfile_ValidationFailureNotPersisted(t *testing.T) {
	repo := &fakeRepo{}
	body := `{"birth_date":"1990-03-25","birth_time":"25:99","birth_location":"Paris","birth_country":"France"}`

	resp := newService(repo).CreateProfile(context.Background(), request(authorizedEvent("user-1", ""), body))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "birth_time", errorOf(t, resp)["details"].(map[string]any)["field"])
	assert.Empty(t, repo.saved)
}

func TestCreateProfile_UnstructuredValidatorError(t *testing.T) {
	s := newService(&fakeRepo{})
	s.Validator = fakeValidator{err: errors.New("ruleset exploded")}

	resp := s.CreateProfile(context.Background(), request(authorizedEvent("user-1", ""), validBody))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	details := errorOf(t, resp)["details"].(map[string]any)
	assert.Equal(t, "unknown", details["field"])
	assert.Equal(t, "ruleset exploded", details["reason"])
}

func TestCreateProfile_ZodiacFailureDegrades(t *testing.T) {
	repo := &fakeRepo{}
	s := newService(repo)
	s.Zodiac = fakeZodiac{err: errors.New("boom")}

	resp := s.CreateProfile(context.Background(), request(authorizedEvent("user-1", ""), validBody))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.ZodiacUnknown, bodyOf(t, resp)["profile"].(map[string]any)["zodiac_sign"])
	require.Len(t, repo.saved, 1)
	assert.Equal(t, domain.ZodiacUnknown, repo.saved[0].ZodiacSign)
}

func TestCreateProfile_StoreError(t *testing.T) {
	repo := &fakeRepo{err: &domain.StoreError{Code: "ResourceNotFoundException", Message: "Requested resource not found"}}

	resp := newService(repo).CreateProfile(context.Background(), request(authorizedEvent("user-1", ""), validBody))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	e := errorOf(t, resp)
	assert.Equal(t, domain.CodeDatabaseError, e["code"])
	assert.Equal(t, "Failed to save profile", e["message"])
	assert.Equal(t, "Requested resource not found", e["details"].(map[string]any)["reason"])
}

func TestCreateProfile_UnexpectedStoreFailure(t *testing.T) {
	repo := &fakeRepo{err: errors.New("kaboom")}

	resp := newService(repo).CreateProfile(context.Background(), request(authorizedEvent("user-1", ""), validBody))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	e := errorOf(t, resp)
	assert.Equal(t, domain.CodeInternalError, e["code"])
	assert.Equal(t, "An unexpected error occurred", e["message"])
	assert.Nil(t, e["details"])
}

func TestCreateProfile_PublishesEvent(t *testing.T) {
	events := &fakeEvents{}
	s := newService(&fakeRepo{})
	s.Events = events

	resp := s.CreateProfile(context.Background(), request(authorizedEvent("user-1", ""), validBody))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, events.events, 1)
	assert.Equal(t, "event-1", events.events[0].EventID)
	assert.Equal(t, domain.EventProfileCreated, events.events[0].Type)
	assert.Equal(t, "user-1", events.events[0].UserID)
}

func TestCreateProfile_PublishFailureNotSurfaced(t *testing.T) {
	s := newService(&fakeRepo{})
	s.Events = &fakeEvents{err: errors.New("broker down")}

	resp := s.CreateProfile(context.Background(), request(authorizedEvent("user-1", ""), validBody))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateProfile_RepeatedWritesOverwrite(t *testing.T) {
	repo := &fakeRepo{}
	s := newService(repo)

	s.CreateProfile(context.Background(), request(authorizedEvent("user-1", ""), validBody))
	s.now = func() time.Time { return fixedNow.Add(time.Hour) }
	s.CreateProfile(context.Background(), request(authorizedEvent("user-1", ""), validBody))

	require.Len(t, repo.saved, 2)
	second := repo.saved[1]
	assert.Equal(t, fixedNow.Add(time.Hour).Unix(), second.CreatedAt)
	assert.Equal(t, second.CreatedAt, second.UpdatedAt)
}
