package model

import "errors"

// Common errors for model queries and mutations.
var (
	// Activity errors
	ErrActivityNotFound = errors.New("activity not found")

	// Team errors
	ErrTeamNotFound  = errors.New("team not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrDuplicateName = errors.New("name already exists")
	ErrEmptyName     = errors.New("name must not be empty")

	// Progress errors
	ErrUnknownProgressTitle = errors.New("unknown progress title")
	ErrProgressNotReady     = errors.New("progress states are not initialized")

	// Meta errors
	ErrMissingActivityFiles    = errors.New("the meta.yaml has no 'activityFiles' to be loaded")
	ErrMissingTeamProgressFile = errors.New("the meta.yaml has no 'teamProgressFile' to be loaded")
)
