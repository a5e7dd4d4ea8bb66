package cli

import "fmt"

// ConfigError reports a configuration problem, attributed to the offending
// field when one is known.
type ConfigError struct {
	Field   string
	Message string
}

// ConfigErrorf builds a ConfigError with a formatted message. An empty field
// produces an unattributed error.
func ConfigErrorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config error: " + e.Message
	}
	return "config error in " + e.Field + ": " + e.Message
}

// CommandError attributes a failure to the subcommand that produced it, so
// Execute can report which command failed while callers still reach the
// underlying error through Unwrap.
type CommandError struct {
	Command string
	Err     error
}

// WrapCommand wraps err with the failing subcommand's name.
func WrapCommand(command string, err error) *CommandError {
	return &CommandError{Command: command, Err: err}
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }
