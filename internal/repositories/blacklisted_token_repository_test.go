package repositories

import (
	"testing"
	"time"

	"expense-tracker/internal/database"
	"expense-tracker/internal/models"

	"github.com/stretchr/testify/suite"
)

func TestBlacklistedTokenRepository(t *testing.T) {
	suite.Run(t, new(BlacklistedTokenRepositorySuite))
}

type BlacklistedTokenRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo BlacklistedTokenRepositoryInterface
	user *models.User
}

func (s *BlacklistedTokenRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewBlacklistedTokenRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "blacklist@example.com")
}

func (s *BlacklistedTokenRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *BlacklistedTokenRepositorySuite) TestBlacklistedTokenRepository_CreateAndGet() {
	token := &models.BlacklistedToken{
		JTI:       "some-jti",
		UserID:    s.user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}

	s.NoError(s.repo.Create(token))
	s.False(token.BlacklistedAt.IsZero(), "blacklisted timestamp is stamped on insert")

	found, err := s.repo.GetByJTI("some-jti")
	s.NoError(err)
	s.Equal(token.ID, found.ID)

	_, err = s.repo.GetByJTI("unknown-jti")
	s.Equal(ErrBlacklistedTokenNotFound, err)
}

func (s *BlacklistedTokenRepositorySuite) TestBlacklistedTokenRepository_DeleteExpired() {
	expired := &models.BlacklistedToken{
		JTI:       "expired-jti",
		UserID:    s.user.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	active := &models.BlacklistedToken{
		JTI:       "active-jti",
		UserID:    s.user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	s.Require().NoError(s.repo.Create(expired))
	s.Require().NoError(s.repo.Create(active))

	deleted, err := s.repo.DeleteExpired()

	s.NoError(err)
	s.Equal(int64(1), deleted)

	_, err = s.repo.GetByJTI("expired-jti")
	s.Equal(ErrBlacklistedTokenNotFound, err)

	_, err = s.repo.GetByJTI("active-jti")
	s.NoError(err)
}
