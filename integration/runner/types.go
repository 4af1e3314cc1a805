package runner

import "time"

// Step actions
const (
	ActionLog     = "log"
	ActionAdvance = "advance"
	ActionGet     = "get"
)

// TestSuite defines one battle scenario played from a seeded save.
type TestSuite struct {
	Name string `yaml:"name"`
	// Seed is the raw saved record the server starts from. Empty starts a
	// new game.
	Seed  string     `yaml:"seed,omitempty"`
	Steps []TestStep `yaml:"steps"`
}

// TestStep defines a single request and its expected outcome
type TestStep struct {
	Name         string       `yaml:"name,omitempty"`
	Action       string       `yaml:"action"`
	Calories     *int         `yaml:"calories,omitempty"`
	Expectations Expectations `yaml:"expect"`
}

// Expectations defines what to check after a step. Nil fields are not
// checked.
type Expectations struct {
	Status *int `yaml:"status,omitempty"`

	Effect  *string `yaml:"effect,omitempty"`
	Deficit *int    `yaml:"deficit,omitempty"`

	MonsterIndex *int  `yaml:"monster_index,omitempty"`
	MonsterHP    *int  `yaml:"monster_hp,omitempty"`
	DisplayHP    *int  `yaml:"display_hp,omitempty"`
	TotalDeficit *int  `yaml:"total_deficit,omitempty"`
	LogCount     *int  `yaml:"log_count,omitempty"`
	Defeated     *bool `yaml:"defeated,omitempty"`
	Completed    *bool `yaml:"completed,omitempty"`
	CanAdvance   *bool `yaml:"can_advance,omitempty"`
	CanAttack    *bool `yaml:"can_attack,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName string
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Name     string
	Results  []TestResult
	Duration time.Duration
}

// Failed counts the failed steps.
func (r TestRunResult) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Success {
			n++
		}
	}
	return n
}
