package identity

import (
	"io"
	"log"
	"os"
	"testing"
	"time"

	"github.com/rparit-stacks/pixel-pandit-esco-sub001/models"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

var userColumns = []string{
	"id", "email", "password", "name", "role", "status",
	"session_subject", "stripe_customer_id", "created_at", "updated_at",
}

var profileColumns = []string{
	"id", "user_id", "display_name", "bio", "city", "hourly_rate",
	"is_online", "calls_enabled", "is_verified", "created_at", "updated_at",
}

func TestResolve_BySubject(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WithArgs("sub-123", 1).
		WillReturnRows(mock.NewRows(userColumns).
			AddRow("user-1", "alice@example.com", "hash", "Alice", models.ClientRole,
				models.UserActive, "sub-123", "", now, now))

	user, err := Resolve(Session{Subject: "sub-123", Email: "alice@example.com"})

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "user-1", user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_ByEmailRelinksSubject(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WithArgs("sub-new", 1).
		WillReturnRows(mock.NewRows(userColumns))

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WithArgs("alice@example.com", 1).
		WillReturnRows(mock.NewRows(userColumns).
			AddRow("user-1", "alice@example.com", "hash", "Alice", models.ClientRole,
				models.UserActive, "sub-old", "", now, now))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user, err := Resolve(Session{Subject: "sub-new", Email: "alice@example.com"})

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.NotNil(t, user.SessionSubject)
	assert.Equal(t, "sub-new", *user.SessionSubject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_UnknownUserIsNotAnError(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(mock.NewRows(userColumns))
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(mock.NewRows(userColumns))

	user, err := Resolve(Session{Subject: "sub-unknown", Email: "ghost@example.com"})

	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestResolve_EmptySession(t *testing.T) {
	_, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	user, err := Resolve(Session{})

	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Nil(t, user)
}

func TestResolveOrCreate_ProvisionsUser(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(mock.NewRows(userColumns))
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(mock.NewRows(userColumns))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("user-new"))
	mock.ExpectCommit()

	user, err := ResolveOrCreate(Session{Subject: "sub-1", Email: "bob@example.com", Name: "Bob"}, models.ClientRole)

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "user-new", user.ID)
	assert.Equal(t, models.ClientRole, user.Role)
	assert.Equal(t, models.UserActive, user.Status)
	assert.NotEmpty(t, user.Password)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveOrCreate_ExistingUserKeepsRole(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(mock.NewRows(userColumns).
			AddRow("user-1", "alice@example.com", "hash", "Alice", models.ProviderRole,
				models.UserActive, "sub-1", "", now, now))

	user, err := ResolveOrCreate(Session{Subject: "sub-1", Email: "alice@example.com"}, models.ClientRole)

	assert.NoError(t, err)
	assert.Equal(t, models.ProviderRole, user.Role)
}

func TestResolveProviderWithProfile_RejectsClient(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(mock.NewRows(userColumns).
			AddRow("user-1", "alice@example.com", "hash", "Alice", models.ClientRole,
				models.UserActive, "sub-1", "", now, now))

	user, profile, err := ResolveProviderWithProfile(Session{Subject: "sub-1", Email: "alice@example.com"})

	assert.ErrorIs(t, err, ErrNotProvider)
	assert.Nil(t, user)
	assert.Nil(t, profile)
}

func TestResolveProviderWithProfile_CreatesDefaultProfile(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(mock.NewRows(userColumns).
			AddRow("user-1", "mia@example.com", "hash", "Mia", models.ProviderRole,
				models.UserActive, "sub-1", "", now, now))

	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(mock.NewRows(profileColumns))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "profiles"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("profile-new"))
	mock.ExpectCommit()

	user, profile, err := ResolveProviderWithProfile(Session{Subject: "sub-1", Email: "mia@example.com"})

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.NotNil(t, profile)
	assert.Equal(t, "profile-new", profile.ID)
	assert.Equal(t, "Mia", profile.DisplayName)
	assert.False(t, profile.IsOnline)
	assert.True(t, profile.CallsEnabled)
	assert.False(t, profile.IsVerified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveProviderWithProfile_ExistingProfile(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(mock.NewRows(userColumns).
			AddRow("user-1", "mia@example.com", "hash", "Mia", models.ProviderRole,
				models.UserActive, "sub-1", "", now, now))
	mock.ExpectQuery(`SELECT (.+) FROM "profiles"`).
		WillReturnRows(mock.NewRows(profileColumns).
			AddRow("profile-1", "user-1", "Mia", "", "Paris", 120, true, true, true, now, now))

	user, profile, err := ResolveProviderWithProfile(Session{Subject: "sub-1", Email: "mia@example.com"})

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "profile-1", profile.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
