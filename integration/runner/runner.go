package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jwebster45206/deficit-slayer/pkg/view"
	"gopkg.in/yaml.v3"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes battle suites against a running deficit-slayer API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 30 * time.Second},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a YAML file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := yaml.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse YAML in %s: %w", filename, err)
	}
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	return suite, nil
}

// DiscoverTestFiles lists the YAML suites in dir in name order.
func DiscoverTestFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// RunSuite executes every step of suite in order. The server must already
// hold the suite's seed.
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) TestRunResult {
	start := time.Now()
	result := TestRunResult{
		Name:    suite.Name,
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	for i, step := range suite.Steps {
		stepName := step.Name
		if stepName == "" {
			stepName = fmt.Sprintf("step %d (%s)", i+1, step.Action)
		}

		stepStart := time.Now()
		err := r.runStep(ctx, step)
		res := TestResult{
			TestName: suite.Name,
			StepName: stepName,
			Success:  err == nil,
			Error:    err,
			Duration: time.Since(stepStart),
		}
		result.Results = append(result.Results, res)
		r.logf("  %s %s (%s)", passMark(res.Success), stepName, res.Duration.Round(time.Millisecond))
		if err != nil {
			r.logf("     %v", err)
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
		}
	}

	result.Duration = time.Since(start)
	return result
}

// observed is everything a step can be checked against.
type observed struct {
	status    int
	gameState *view.GameState
	log       *view.LogResponse
}

func (r *Runner) runStep(ctx context.Context, step TestStep) error {
	var (
		obs observed
		err error
	)

	switch step.Action {
	case ActionLog:
		if step.Calories == nil {
			return fmt.Errorf("log step needs calories")
		}
		body := fmt.Sprintf(`{"calories": %d}`, *step.Calories)
		obs, err = r.do(ctx, http.MethodPost, "/v1/battle/log", body)
	case ActionAdvance:
		obs, err = r.do(ctx, http.MethodPost, "/v1/battle/advance", "")
	case ActionGet:
		obs, err = r.do(ctx, http.MethodGet, "/v1/gamestate", "")
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
	if err != nil {
		return err
	}

	return check(step.Expectations, obs)
}

func (r *Runner) do(ctx context.Context, method, path, body string) (observed, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+path, reader)
	if err != nil {
		return observed{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return observed{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return observed{}, fmt.Errorf("failed to read response: %w", err)
	}

	obs := observed{status: resp.StatusCode}
	if resp.StatusCode >= http.StatusBadRequest {
		return obs, nil
	}

	if path == "/v1/battle/log" {
		var logResp view.LogResponse
		if err := json.Unmarshal(data, &logResp); err != nil {
			return obs, fmt.Errorf("failed to parse log response: %w", err)
		}
		obs.log = &logResp
		obs.gameState = &logResp.GameState
		return obs, nil
	}

	var gs view.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return obs, fmt.Errorf("failed to parse game state: %w", err)
	}
	obs.gameState = &gs
	return obs, nil
}

func check(want Expectations, got observed) error {
	var failures []string
	expectInt := func(name string, want *int, got int) {
		if want != nil && *want != got {
			failures = append(failures, fmt.Sprintf("%s: expected %d, got %d", name, *want, got))
		}
	}
	expectBool := func(name string, want *bool, got bool) {
		if want != nil && *want != got {
			failures = append(failures, fmt.Sprintf("%s: expected %t, got %t", name, *want, got))
		}
	}

	wantStatus := http.StatusOK
	if want.Status != nil {
		wantStatus = *want.Status
	} else if got.log != nil {
		wantStatus = http.StatusCreated
	}
	if got.status != wantStatus {
		return fmt.Errorf("status: expected %d, got %d", wantStatus, got.status)
	}

	if got.log != nil {
		if want.Effect != nil && *want.Effect != string(got.log.Effect) {
			failures = append(failures, fmt.Sprintf("effect: expected %s, got %s", *want.Effect, got.log.Effect))
		}
		expectInt("deficit", want.Deficit, got.log.Deficit)
	}

	if gs := got.gameState; gs != nil {
		expectInt("monster_index", want.MonsterIndex, gs.CurrentMonsterIndex)
		expectInt("monster_hp", want.MonsterHP, gs.CurrentMonsterHP)
		expectInt("display_hp", want.DisplayHP, gs.DisplayHP)
		expectInt("total_deficit", want.TotalDeficit, gs.TotalDeficit)
		expectInt("log_count", want.LogCount, gs.LogCount)
		expectBool("defeated", want.Defeated, gs.Defeated)
		expectBool("completed", want.Completed, gs.Completed)
		expectBool("can_advance", want.CanAdvance, gs.CanAdvance)
		expectBool("can_attack", want.CanAttack, gs.CanAttack)
	}

	if len(failures) > 0 {
		return fmt.Errorf("%s", strings.Join(failures, "; "))
	}
	return nil
}

func (r *Runner) logf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger(format, args...)
	}
}

func passMark(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}
