package engine

import (
	"os"
	"strconv"
	"time"
)

// Limits are the loop-prevention ceilings for one session. MaxSteps bounds
// the total step log (actions, reflections and the finish step together);
// MaxReflections bounds reflection steps separately; OracleTimeout caps
// each individual oracle call.
type Limits struct {
	MaxSteps       int
	MaxReflections int
	OracleTimeout  time.Duration
}

// DefaultLimits returns the stock ceilings.
func DefaultLimits() Limits {
	return Limits{
		MaxSteps:       15,
		MaxReflections: 3,
		OracleTimeout:  30 * time.Second,
	}
}

// LimitsFromEnv reads overrides from MAX_AGENT_STEPS, MAX_REFLECTIONS and
// LLM_TIMEOUT (seconds), falling back to the defaults for anything unset
// or unparseable.
func LimitsFromEnv() Limits {
	l := DefaultLimits()
	if v := os.Getenv("MAX_AGENT_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			l.MaxSteps = n
		}
	}
	if v := os.Getenv("MAX_REFLECTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			l.MaxReflections = n
		}
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			l.OracleTimeout = time.Duration(n) * time.Second
		}
	}
	return l
}
