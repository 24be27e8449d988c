package core

import (
	"fmt"
	"strings"
)

// ConfigurationError reports an invalid or unrecognized scenario
// parameter. It always names the offending field, the rejected value,
// and the accepted set; nothing is ever silently defaulted.
//
// A ConfigurationError signals a caller mistake, not a transient
// condition, so the campaign orchestrator aborts the whole sweep when
// it sees one.
type ConfigurationError struct {
	Field    string
	Value    string
	Accepted []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %q: choose among %s",
		e.Field, e.Value, strings.Join(e.Accepted, ", "))
}
