// Package engine: error classification for the oracle boundary.
//
// Tool failures never surface as Go errors (they become failure
// observations routed through reflection), so the taxonomy here only covers
// the oracle call: any error from it is fatal to the session and converted
// into a degraded terminal plan. Classification exists to word that plan
// and to inform hooks, never to retry.

package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// OracleErrorKind labels why an oracle call failed.
type OracleErrorKind string

const (
	OracleTimeout   OracleErrorKind = "timeout"
	OracleQuota     OracleErrorKind = "quota"
	OracleAuth      OracleErrorKind = "auth"
	OracleTransport OracleErrorKind = "transport"
	OracleParse     OracleErrorKind = "parse"
)

// OracleError wraps a failed oracle call with its classification.
type OracleError struct {
	Err  error
	Kind OracleErrorKind
}

func (e *OracleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("oracle %s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("oracle %s error", e.Kind)
}

func (e *OracleError) Unwrap() error { return e.Err }

// DecisionParseError indicates the oracle's reply could not be parsed into
// a valid decision. Raw holds a bounded prefix of the reply for hooks.
type DecisionParseError struct {
	Raw string
}

func (e *DecisionParseError) Error() string {
	preview := e.Raw
	if len(preview) > 120 {
		preview = preview[:120] + "..."
	}
	return fmt.Sprintf("unparseable oracle reply: %q", preview)
}

// ClassifyOracleError maps an arbitrary error from the oracle boundary to a
// kind, by error type first and by provider error text otherwise.
func ClassifyOracleError(err error) OracleErrorKind {
	if err == nil {
		return OracleTransport
	}

	var oracleErr *OracleError
	if errors.As(err, &oracleErr) {
		return oracleErr.Kind
	}
	var parseErr *DecisionParseError
	if errors.As(err, &parseErr) {
		return OracleParse
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return OracleTimeout
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return OracleTimeout
	}

	if strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "resource exhausted") ||
		strings.Contains(errStr, "too many requests") {
		return OracleQuota
	}

	if strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "forbidden") ||
		strings.Contains(errStr, "invalid api key") ||
		strings.Contains(errStr, "authentication") {
		return OracleAuth
	}

	return OracleTransport
}

// WrapOracleError classifies and wraps an oracle boundary error. Returns
// nil for nil.
func WrapOracleError(err error) error {
	if err == nil {
		return nil
	}
	var oracleErr *OracleError
	if errors.As(err, &oracleErr) {
		return err
	}
	return &OracleError{Err: err, Kind: ClassifyOracleError(err)}
}

// ToolValidationError indicates tool parameters failed JSON schema
// validation. The executor converts it to a failure observation.
type ToolValidationError struct {
	ToolName string
	Errors   []string
}

func (e *ToolValidationError) Error() string {
	return fmt.Sprintf("tool %s validation failed: %s", e.ToolName, strings.Join(e.Errors, "; "))
}
