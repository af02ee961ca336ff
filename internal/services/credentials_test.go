package services

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/kickoff/backend/internal/logger"
	"github.com/anonto42/kickoff/backend/internal/mocks"
	"github.com/anonto42/kickoff/backend/internal/models"
	"github.com/anonto42/kickoff/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newCredentials() (*Credentials, *repositories.MemoryUserRepository) {
	repo := repositories.NewMemoryUserRepository()
	return NewCredentials(repo, logger.Discard()), repo
}

func TestCredentials_SignupThenLogin(t *testing.T) {
	ctx := context.Background()
	creds, _ := newCredentials()

	user, err := creds.CreateUser(ctx, "Ada", "ada@gmail.com", "p@ss")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@gmail.com", user.Email)

	loggedIn, err := creds.Authenticate(ctx, "ada@gmail.com", "p@ss")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestCredentials_PasswordIsHashed(t *testing.T) {
	ctx := context.Background()
	creds, repo := newCredentials()

	user, err := creds.CreateUser(ctx, "Ada", "ada@gmail.com", "p@ss")
	require.NoError(t, err)

	stored, err := repo.GetUserByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.NotEqual(t, "p@ss", stored.Password)

	cost, err := bcrypt.Cost([]byte(stored.Password))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)
}

func TestCredentials_EmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	creds, _ := newCredentials()

	_, err := creds.CreateUser(ctx, "Ada", "  Ada@GMAIL.com ", "p@ss")
	require.NoError(t, err)

	_, err = creds.Authenticate(ctx, "ADA@gmail.com", "p@ss")
	require.NoError(t, err)

	_, err = creds.CreateUser(ctx, "Ada2", "ada@gmail.com", "x")
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
}

func TestCredentials_RejectsOtherDomains(t *testing.T) {
	ctx := context.Background()
	creds, _ := newCredentials()

	for _, email := range []string{"ada@yahoo.com", "ada@gmail.com.evil", "ada@notgmail.org", "@gmail.com", "gmail.com"} {
		_, err := creds.CreateUser(ctx, "Ada", email, "p@ss")
		require.ErrorIs(t, err, models.ErrInvalidEmailDomain, email)

		_, err = creds.FindByEmail(ctx, email)
		assert.ErrorIs(t, err, models.ErrUserNotFound, "no record for %s", email)
	}
}

func TestCredentials_RequiresNameAndPassword(t *testing.T) {
	ctx := context.Background()
	creds, _ := newCredentials()

	_, err := creds.CreateUser(ctx, "   ", "ada@gmail.com", "p@ss")
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	_, err = creds.CreateUser(ctx, "Ada", "ada@gmail.com", "")
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}

func TestCredentials_AuthenticateIsUninformative(t *testing.T) {
	ctx := context.Background()
	creds, _ := newCredentials()
	_, err := creds.CreateUser(ctx, "Ada", "ada@gmail.com", "p@ss")
	require.NoError(t, err)

	_, errUnknown := creds.Authenticate(ctx, "bob@gmail.com", "p@ss")
	_, errWrong := creds.Authenticate(ctx, "ada@gmail.com", "wrong")

	assert.ErrorIs(t, errUnknown, models.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, models.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestCredentials_StoreFailureIsInternal(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.UserRepository{}
	repo.On("GetUserByEmail", mock.Anything, "ada@gmail.com").Return(nil, errors.New("connection refused"))
	repo.On("CreateUser", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	creds := NewCredentials(repo, logger.Discard())

	_, err := creds.Authenticate(ctx, "ada@gmail.com", "p@ss")
	require.Error(t, err)
	assert.Equal(t, models.KindInternal, models.KindOf(err))

	_, err = creds.CreateUser(ctx, "Ada", "ada@gmail.com", "p@ss")
	require.Error(t, err)
	assert.Equal(t, models.KindInternal, models.KindOf(err))

	repo.AssertExpectations(t)
}
