package repositories

import (
	"testing"
	"time"

	"expense-tracker/internal/database"
	"expense-tracker/internal/models"

	"github.com/stretchr/testify/suite"
)

func TestRefreshTokenRepository(t *testing.T) {
	suite.Run(t, new(RefreshTokenRepositorySuite))
}

type RefreshTokenRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo RefreshTokenRepositoryInterface
	user *models.User
}

func (s *RefreshTokenRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewRefreshTokenRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "tokens@example.com")
}

func (s *RefreshTokenRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *RefreshTokenRepositorySuite) createToken(hash string, expiresAt time.Time) *models.RefreshToken {
	s.T().Helper()

	token := &models.RefreshToken{
		UserID:    s.user.ID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
	}
	s.Require().NoError(s.repo.Create(token))
	return token
}

func (s *RefreshTokenRepositorySuite) TestRefreshTokenRepository_GetByTokenHash() {
	created := s.createToken("hash-1", time.Now().Add(time.Hour))

	found, err := s.repo.GetByTokenHash("hash-1")
	s.NoError(err)
	s.Equal(created.ID, found.ID)

	_, err = s.repo.GetByTokenHash("missing")
	s.Equal(ErrRefreshTokenNotFound, err)
}

func (s *RefreshTokenRepositorySuite) TestRefreshTokenRepository_Revoke() {
	created := s.createToken("hash-1", time.Now().Add(time.Hour))

	s.NoError(s.repo.Revoke(created.ID))

	revoked, err := s.repo.GetByID(created.ID)
	s.NoError(err)
	s.True(revoked.IsRevoked())

	// A second revoke finds no active row
	s.Equal(ErrRefreshTokenNotFound, s.repo.Revoke(created.ID))
}

func (s *RefreshTokenRepositorySuite) TestRefreshTokenRepository_RevokeAllForUser() {
	s.createToken("hash-1", time.Now().Add(time.Hour))
	s.createToken("hash-2", time.Now().Add(time.Hour))

	s.NoError(s.repo.RevokeAllForUser(s.user.ID))

	active, err := s.repo.GetActiveByUserID(s.user.ID)
	s.NoError(err)
	s.Empty(active)
}

func (s *RefreshTokenRepositorySuite) TestRefreshTokenRepository_GetActiveExcludesExpiredAndRevoked() {
	s.createToken("active", time.Now().Add(time.Hour))
	s.createToken("expired", time.Now().Add(-time.Hour))
	revoked := s.createToken("revoked", time.Now().Add(time.Hour))
	s.Require().NoError(s.repo.Revoke(revoked.ID))

	active, err := s.repo.GetActiveByUserID(s.user.ID)

	s.NoError(err)
	s.Require().Len(active, 1)
	s.Equal("active", active[0].TokenHash)
}

func (s *RefreshTokenRepositorySuite) TestRefreshTokenRepository_DeleteExpired() {
	s.createToken("active", time.Now().Add(time.Hour))
	s.createToken("expired", time.Now().Add(-time.Hour))

	deleted, err := s.repo.DeleteExpired()

	s.NoError(err)
	s.Equal(int64(1), deleted)

	_, err = s.repo.GetByTokenHash("expired")
	s.Equal(ErrRefreshTokenNotFound, err)
}
