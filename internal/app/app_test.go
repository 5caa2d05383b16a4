package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/leettrack/internal/app"
	"github.com/vytor/leettrack/internal/config"
	"github.com/vytor/leettrack/internal/extension"
	"github.com/vytor/leettrack/internal/leetcode"
	"github.com/vytor/leettrack/internal/models"
	"github.com/vytor/leettrack/internal/testutil/mocks"
)

type AppSuite struct {
	suite.Suite
	ctx context.Context
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppSuite))
}

func (s *AppSuite) SetupTest() {
	s.ctx = context.Background()
}

func baseConfig(backend string) config.Config {
	return config.Config{
		Addr:                   ":0",
		LogLevel:               "ERROR",
		StorageBackend:         backend,
		StorageKey:             "problems",
		LeetCodeGraphQLURL:     "http://127.0.0.1:0/graphql",
		LeetCodeTimeoutSeconds: 1,
		EnrichWorkerCount:      1,
		EnrichQueueSize:        4,
		PersistQueueSize:       4,
		ReadyTimeoutMS:         10,
	}
}

func (s *AppSuite) open(cfg config.Config, opts app.Options) *app.App {
	a, err := app.New(s.ctx, cfg, opts)
	s.Require().NoError(err)
	return a
}

func (s *AppSuite) TestFileBackendSurvivesRestart() {
	cfg := baseConfig(config.BackendFile)
	cfg.DataDir = s.T().TempDir()

	a := s.open(cfg, app.Options{})
	_, err := a.Problems.Create(s.ctx, models.Problem{Title: "1. Two Sum", RedoDifficulty: models.Hard})
	s.Require().NoError(err)
	s.Require().NoError(a.Close(s.ctx))

	b := s.open(cfg, app.Options{})
	defer b.Close(s.ctx)
	s.Assert().Equal(1, b.Store.Len())
	s.Assert().Contains(b.ReadyChecks, "data_dir")
}

func (s *AppSuite) TestSQLiteBackendSurvivesRestart() {
	cfg := baseConfig(config.BackendSQLite)
	cfg.DBPath = "file:" + filepath.Join(s.T().TempDir(), "leettrack.db")

	a := s.open(cfg, app.Options{})
	_, err := a.Problems.Create(s.ctx, models.Problem{Title: "2. Add Two Numbers"})
	s.Require().NoError(err)
	s.Require().NoError(a.ReadyChecks["database"](s.ctx))
	s.Require().NoError(a.Close(s.ctx))

	b := s.open(cfg, app.Options{})
	defer b.Close(s.ctx)
	all := b.Store.All()
	s.Require().Len(all, 1)
	s.Assert().Equal("2. Add Two Numbers", all[0].Title)
}

func (s *AppSuite) TestSeedsEmptyCollection() {
	seed := filepath.Join(s.T().TempDir(), "seed.csv")
	s.Require().NoError(os.WriteFile(seed, []byte(
		"Date,Duration,Difficulty,Problem,Redo,Approach,Notes,Time Complexity,Space Complexity\n"+
			"1/5/2024,20,Easy,1. Two Sum,Hard,,,,\n"), 0o644))

	cfg := baseConfig(config.BackendMemory)
	cfg.SeedCSVPath = seed

	a := s.open(cfg, app.Options{})
	defer a.Close(s.ctx)
	s.Assert().Equal(1, a.Store.Len())
}

func (s *AppSuite) TestUnknownBackend() {
	_, err := app.New(s.ctx, baseConfig("etcd"), app.Options{})
	s.Assert().Error(err)
}

func (s *AppSuite) TestPartialDetectionIsEnriched() {
	client := new(mocks.MockLeetCodeClient)
	client.On("FetchQuestion", mock.Anything, "two-sum").Return(&leetcode.Question{
		QuestionID: "1",
		Title:      "Two Sum",
		Difficulty: "Easy",
		Content:    "<p>Given an array</p>",
	}, nil)

	a := s.open(baseConfig(config.BackendMemory), app.Options{Enrich: true, Client: client})
	defer a.Close(s.ctx)

	_, err := a.Extension.Handle(s.ctx, extension.ProblemDetected{
		TabID:   1,
		Problem: models.DetectedProblem{URL: "https://leetcode.com/problems/two-sum/"},
	})
	s.Require().NoError(err)

	s.Require().Eventually(func() bool {
		p, ok := a.Extension.Current()
		return ok && p.Title == "1. Two Sum" && p.Difficulty == "Easy"
	}, time.Second, 5*time.Millisecond)

	p, _ := a.Extension.Current()
	s.Assert().Equal("Given an array", p.Description)
	client.AssertExpectations(s.T())
}
