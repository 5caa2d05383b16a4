package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/leettrack/internal/repository"
	"github.com/vytor/leettrack/internal/repository/sqlite"
	"github.com/vytor/leettrack/internal/testutil"
)

type KVRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.KVStore
}

func (s *KVRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewKVRepository(s.db)
}

func (s *KVRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *KVRepositorySuite) TestGet_Missing() {
	v, found, err := s.repo.Get(context.Background(), "problems")
	s.Require().NoError(err)
	s.Assert().False(found)
	s.Assert().Nil(v)
}

func (s *KVRepositorySuite) TestSetAndGet() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Set(ctx, "problems", []byte(`[{"id":"a"}]`)))

	v, found, err := s.repo.Get(ctx, "problems")
	s.Require().NoError(err)
	s.Assert().True(found)
	s.Assert().JSONEq(`[{"id":"a"}]`, string(v))
}

func (s *KVRepositorySuite) TestSet_OverwritesAndBumpsRevision() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Set(ctx, "k", []byte("one")))
	s.Require().NoError(s.repo.Set(ctx, "k", []byte("two")))

	v, _, err := s.repo.Get(ctx, "k")
	s.Require().NoError(err)
	s.Assert().Equal("two", string(v))

	rev, err := sqlite.Revision(ctx, s.db, "k")
	s.Require().NoError(err)
	s.Assert().Equal(int64(2), rev)
}

func (s *KVRepositorySuite) TestKeysAreIndependent() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Set(ctx, "problems", []byte("a")))
	s.Require().NoError(s.repo.Set(ctx, "leetcode-tracking-data", []byte("b")))

	v, _, err := s.repo.Get(ctx, "problems")
	s.Require().NoError(err)
	s.Assert().Equal("a", string(v))
}

func (s *KVRepositorySuite) TestDelete() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Set(ctx, "k", []byte("v")))
	s.Require().NoError(s.repo.Delete(ctx, "k"))
	s.Require().NoError(s.repo.Delete(ctx, "k"), "deleting a missing key is not an error")

	_, found, err := s.repo.Get(ctx, "k")
	s.Require().NoError(err)
	s.Assert().False(found)

	rev, err := sqlite.Revision(ctx, s.db, "k")
	s.Require().NoError(err)
	s.Assert().Zero(rev)
}

func TestKVRepositorySuite(t *testing.T) {
	suite.Run(t, new(KVRepositorySuite))
}
