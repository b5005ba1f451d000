package constants

import "errors"

// Static errors shared by commands and clients.
var (
	ErrEndpointRequired      = errors.New("API endpoint is required")
	ErrWorkspaceRequired     = errors.New("workspace is required")
	ErrRepositoryRequired    = errors.New("repository is required")
	ErrPullRequestIDRequired = errors.New("pull request id is required")
	ErrServiceDeskIDRequired = errors.New("service desk id is required")
	ErrCredentialsRequired   = errors.New("username and token (or access token) are required")
	ErrConfigFileNotWritable = errors.New("config file is not writable")
	ErrMissingCommentMessage = errors.New("comment message is required")
)
