package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ExtendedHTTPTimeout is used for longer operations such as uploads.
	ExtendedHTTPTimeout = 45 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Pagination defaults.
const (
	// DefaultServiceDeskLimit is the default limit for Service Desk list calls.
	DefaultServiceDeskLimit = 50
)

// HTTP status codes commonly checked by the clients.
const (
	HTTPStatusOK                  = 200
	HTTPStatusCreated             = 201
	HTTPStatusNoContent           = 204
	HTTPStatusBadRequest          = 400
	HTTPStatusUnauthorized        = 401
	HTTPStatusForbidden           = 403
	HTTPStatusNotFound            = 404
	HTTPStatusConflict            = 409
	HTTPStatusTooManyRequests     = 429
	HTTPStatusInternalServerError = 500
)

// API path prefixes.
const (
	// BitbucketAPIPrefix is the Bitbucket Cloud v2 API prefix.
	BitbucketAPIPrefix = "/2.0"

	// ServiceDeskAPIPrefix is the Jira Service Desk API prefix.
	ServiceDeskAPIPrefix = "/rest/servicedeskapi"
)

// Headers.
const (
	// ExperimentalAPIHeader opts in to experimental Service Desk endpoints.
	ExperimentalAPIHeader = "X-ExperimentalApi"

	// ExperimentalAPIValue is the value sent with ExperimentalAPIHeader.
	ExperimentalAPIValue = "opt-in"

	// NoCheckTokenHeader disables XSRF checking on multipart uploads.
	NoCheckTokenHeader = "X-Atlassian-Token"

	// NoCheckTokenValue is the value sent with NoCheckTokenHeader.
	NoCheckTokenValue = "no-check"
)

// Output formatting.
const (
	// JSONIndentSize is the indent width for JSON and YAML encoders.
	JSONIndentSize = 2
)
