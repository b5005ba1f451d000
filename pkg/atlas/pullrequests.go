package atlas

import (
	"context"
	"time"
)

// Pull request lifecycle states as reported by the server. The state field
// is drawn from this closed set; predicates on unrecognized values answer
// false rather than failing (see PullRequest.IsOpen).
const (
	PullRequestStateOpen       = "OPEN"
	PullRequestStateMerged     = "MERGED"
	PullRequestStateDeclined   = "DECLINED"
	PullRequestStateSuperseded = "SUPERSEDED"
)

// Merge strategies accepted by the merge endpoint.
const (
	MergeStrategyMergeCommit = "merge_commit"
	MergeStrategySquash      = "squash"
	MergeStrategyFastForward = "fast_forward"
)

// MergeStrategies lists every valid merge strategy.
var MergeStrategies = []string{
	MergeStrategyMergeCommit,
	MergeStrategySquash,
	MergeStrategyFastForward,
}

// Participant roles and review states.
const (
	ParticipantRoleReviewer    = "REVIEWER"
	ParticipantRoleParticipant = "PARTICIPANT"

	ParticipantStateApproved         = "approved"
	ParticipantStateChangesRequested = "changes_requested"
)

// MergeOptions configures the merge action.
type MergeOptions struct {
	// Strategy is one of MergeStrategies. Empty defaults to
	// MergeStrategyMergeCommit.
	Strategy string

	// CloseSourceBranch controls whether the source branch is deleted after
	// the merge. Nil defaults to the pull request's own cached
	// close-source-branch flag.
	CloseSourceBranch *bool
}

// PullRequestsClient is the collection handle over the pull requests of one
// repository. It holds no cached state: every lookup and enumeration issues
// a fresh request.
type PullRequestsClient interface {
	// Get fetches one pull request by id. A server-reported absent id
	// surfaces as an *APIError satisfying IsNotFound.
	Get(ctx context.Context, id int) (PullRequest, error)

	// List fetches a single page.
	List(ctx context.Context, params *QueryParams) (*Page[PullRequest], error)

	// Each returns a lazy iterator over all pages. Query and sort parameters
	// are sent on the first request only; continuation URLs are followed
	// verbatim. Records carrying an inline error marker are skipped.
	Each(ctx context.Context, params *QueryParams) *PageIterator[PullRequest]
}

// PullRequest wraps one fetched pull request document together with its own
// endpoint. Accessors are pure reads of the document snapshot and never
// perform network I/O; the action methods do. The snapshot is immutable
// after construction, so a stale object must be re-fetched through the
// collection to observe server-side changes.
type PullRequest interface {
	ID() int
	Title() string
	Description() string

	// State returns the raw state field.
	State() string

	// IsOpen, IsMerged, IsDeclined and IsSuperseded are mutually exclusive
	// case-insensitive checks against the state field. All four answer
	// false for an unrecognized value.
	IsOpen() bool
	IsMerged() bool
	IsDeclined() bool
	IsSuperseded() bool

	CreatedOn() (time.Time, error)
	UpdatedOn() (time.Time, error)

	CloseSourceBranch() bool
	SourceBranch() string
	DestinationBranch() string
	CommentCount() int
	TaskCount() int

	// DeclinedReason returns the reason the pull request was declined, if
	// any.
	DeclinedReason() string

	// Author returns the embedded author document.
	Author() User

	// Reviewers returns the embedded reviewer documents. Only populated on
	// documents fetched via Get; list items omit the field.
	Reviewers() []User

	// Participants returns the embedded participant documents. Only
	// populated on documents fetched via Get.
	Participants() []Participant

	// Comment posts a raw-format comment. An empty message fails with
	// ErrEmptyComment before any request is issued.
	Comment(ctx context.Context, rawMessage string) error

	// Approve approves the pull request. Fails with ErrNotOpen, without
	// issuing a request, when the cached state is not open.
	Approve(ctx context.Context) error

	// Unapprove withdraws an approval. Same precondition as Approve.
	Unapprove(ctx context.Context) error

	// Decline declines the pull request. Same precondition as Approve.
	Decline(ctx context.Context) error

	// Merge merges the pull request. An unknown strategy fails with
	// ErrInvalidMergeStrategy whatever the state; otherwise the same
	// precondition as Approve applies.
	Merge(ctx context.Context, opts *MergeOptions) error
}

// User wraps an embedded user document (author, reviewer, participant user).
type User interface {
	UUID() string
	DisplayName() string
	Nickname() string
	AccountID() string
}

// Participant wraps an embedded participant document of a pull request.
type Participant interface {
	User() User
	Role() string
	IsReviewer() bool
	IsParticipant() bool

	// HasApproved and HasChangesRequested check the participant's review
	// state.
	HasApproved() bool
	HasChangesRequested() bool

	// Approved returns the raw approved flag.
	Approved() bool

	ParticipatedOn() (time.Time, error)
}
