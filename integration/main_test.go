package integration

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jwebster45206/deficit-slayer/integration/runner"
	"github.com/jwebster45206/deficit-slayer/internal/game"
	"github.com/jwebster45206/deficit-slayer/internal/handlers"
	"github.com/jwebster45206/deficit-slayer/internal/middleware"
	"github.com/jwebster45206/deficit-slayer/internal/services/events"
	"github.com/jwebster45206/deficit-slayer/internal/storage"
	"github.com/jwebster45206/deficit-slayer/pkg/roster"
)

var caseFlag = flag.String("case", "", "Name of test case to run (from integration/cases/)")
var errFlag = flag.String("err", "continue", "Error handling mode: 'continue' (run all steps) or 'exit' (stop on first failure)")

// startServer boots the full API over miniredis with seed as the saved game.
func startServer(t *testing.T, seed string) string {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mr := miniredis.RunT(t)

	store, err := storage.NewRedisStorage(mr.Addr(), logger)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if seed != "" {
		if err := store.SaveState(context.Background(), storage.StateKey, []byte(seed)); err != nil {
			t.Fatalf("Failed to seed game state: %v", err)
		}
	}

	ctrl, err := game.Load(context.Background(), roster.Default(), store, logger,
		game.WithPublisher(events.NewBroadcaster(store.Client(), logger)))
	if err != nil {
		t.Fatalf("Failed to load game: %v", err)
	}

	mux := handlers.NewRouter(handlers.RouterConfig{
		Logger:  logger,
		Game:    ctrl,
		Storage: store,
		Events:  store.Client(),
	})
	srv := httptest.NewServer(middleware.LoggerWith(logger, mux))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestIntegrationSuites(t *testing.T) {
	testFiles, err := runner.DiscoverTestFiles("cases")
	if err != nil {
		t.Fatalf("Failed to discover test files: %v", err)
	}
	if len(testFiles) == 0 {
		t.Fatal("No test files found in cases directory")
	}

	ran := 0
	for _, file := range testFiles {
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		if *caseFlag != "" && *caseFlag != name {
			continue
		}

		suite, err := runner.LoadTestSuite(file)
		if err != nil {
			t.Errorf("Failed to load test suite %s: %v", file, err)
			continue
		}
		ran++

		t.Run(name, func(t *testing.T) {
			baseURL := startServer(t, suite.Seed)

			testRunner := runner.NewRunner(baseURL)
			testRunner.ErrorHandlingMode = runner.ErrorHandlingMode(*errFlag)
			testRunner.Logger = func(format string, args ...interface{}) {
				t.Logf(format, args...)
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			result := testRunner.RunSuite(ctx, suite)
			for _, res := range result.Results {
				if !res.Success {
					t.Errorf("%s: %v", res.StepName, res.Error)
				}
			}
			if result.Failed() == 0 {
				t.Logf("%s: %d steps passed in %s", suite.Name, len(result.Results), result.Duration.Round(time.Millisecond))
			}
		})
	}

	if ran == 0 {
		t.Fatalf("No test case matched -case=%q", *caseFlag)
	}
}

func TestMain(m *testing.M) {
	flag.Parse()
	fmt.Printf("Running Deficit Slayer Integration Tests\n")
	os.Exit(m.Run())
}
