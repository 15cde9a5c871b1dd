package mcp

import (
	"fmt"
	"strings"
)

// ErrorWithSuggestions represents an error with tool suggestions
type ErrorWithSuggestions struct {
	Message     string
	Suggestions []string
}

// Error returns the error message with suggestions
func (e *ErrorWithSuggestions) Error() string {
	if len(e.Suggestions) == 0 {
		return e.Message
	}

	var sb strings.Builder
	sb.WriteString(e.Message)
	sb.WriteString("\n\nTry one of these tools:\n")
	for _, suggestion := range e.Suggestions {
		sb.WriteString("  - ")
		sb.WriteString(suggestion)
		sb.WriteString("\n")
	}
	return sb.String()
}

// NewErrorWithSuggestions creates a new error with tool suggestions
func NewErrorWithSuggestions(message string, suggestions ...string) error {
	return &ErrorWithSuggestions{
		Message:     message,
		Suggestions: suggestions,
	}
}

// NotARepositoryError is returned when a path is not a git working tree
func NotARepositoryError(path string) error {
	return NewErrorWithSuggestions(
		fmt.Sprintf("not a git repository: %s", path),
		"repo_list - List tracked repositories",
		"repo_remove - Stop tracking a path that is no longer a repository",
	)
}

// RepositoryNotTrackedError is returned when removing a path that is not tracked
func RepositoryNotTrackedError(path string) error {
	return NewErrorWithSuggestions(
		fmt.Sprintf("repository not tracked: %s", path),
		"repo_list - List tracked repositories",
	)
}

// NoRepositoriesError describes an empty repository list
func NoRepositoriesError() error {
	return NewErrorWithSuggestions(
		"no repositories tracked",
		"repo_rescan - Scan a directory for repositories",
		"repo_add - Track a repository by path",
	)
}

// NoBaseDirectoryError is returned when a rescan has nowhere to look
func NoBaseDirectoryError() error {
	return NewErrorWithSuggestions(
		"no base directory configured; pass base_dir",
		"repo_add - Track a repository by path",
	)
}

// InvalidParameterError returns an error for invalid parameters
func InvalidParameterError(param string, expected string) error {
	return fmt.Errorf("invalid parameter '%s': expected %s", param, expected)
}
