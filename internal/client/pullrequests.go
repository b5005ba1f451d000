package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/forgeworks-io/atlas/internal/constants"
	"github.com/forgeworks-io/atlas/internal/http"
	"github.com/forgeworks-io/atlas/pkg/atlas"
)

// Expected type tags carried by Bitbucket Cloud documents.
const (
	typePullRequest = "pullrequest"
	typeParticipant = "participant"
	typeUser        = "user"
)

// PullRequestsClient implements atlas.PullRequestsClient for one repository.
// It holds only the collection endpoint; every lookup and enumeration issues
// a fresh request.
type PullRequestsClient struct {
	httpClient *http.Client
	path       string
}

// NewPullRequestsClient creates a pull request collection client for the
// given repository.
func NewPullRequestsClient(httpClient *http.Client, workspace, repoSlug string) *PullRequestsClient {
	return &PullRequestsClient{
		httpClient: httpClient,
		path: fmt.Sprintf("%s/repositories/%s/%s/pullrequests",
			constants.BitbucketAPIPrefix, workspace, repoSlug),
	}
}

// Get implements atlas.PullRequestsClient.Get.
func (c *PullRequestsClient) Get(ctx context.Context, id int) (atlas.PullRequest, error) {
	path := fmt.Sprintf("%s/%d", c.path, id)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting pull request %d: %w", id, err)
	}

	pullRequest, err := newPullRequest(c.httpClient, path, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wrapping pull request %d: %w", id, err)
	}

	return pullRequest, nil
}

// List implements atlas.PullRequestsClient.List.
func (c *PullRequestsClient) List(ctx context.Context, params *atlas.QueryParams) (*atlas.Page[atlas.PullRequest], error) {
	return c.ListPage(ctx, c.path, params)
}

// Each implements atlas.PullRequestsClient.Each.
func (c *PullRequestsClient) Each(ctx context.Context, params *atlas.QueryParams) *atlas.PageIterator[atlas.PullRequest] {
	return atlas.NewPageIterator[atlas.PullRequest](ctx, c, c.path, params)
}

// ListPage implements atlas.PageClient. Each raw record is wrapped into a
// pull request bound to its own endpoint; records carrying an inline error
// marker are partial-failure entries the paginated endpoint may emit and are
// skipped rather than wrapped.
func (c *PullRequestsClient) ListPage(ctx context.Context, path string, params *atlas.QueryParams) (*atlas.Page[atlas.PullRequest], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("listing pull requests: %w", err)
	}

	var rawPage atlas.Page[json.RawMessage]

	err = json.Unmarshal(resp.Body, &rawPage)
	if err != nil {
		return nil, fmt.Errorf("parsing pull request page: %w", err)
	}

	page := &atlas.Page[atlas.PullRequest]{
		Size:     rawPage.Size,
		Page:     rawPage.Page,
		PageLen:  rawPage.PageLen,
		Next:     rawPage.Next,
		Previous: rawPage.Previous,
	}

	for _, record := range rawPage.Values {
		if gjson.GetBytes(record, "errors").Exists() {
			continue
		}

		id := gjson.GetBytes(record, "id").Int()

		pullRequest, err := newPullRequest(c.httpClient, fmt.Sprintf("%s/%d", c.path, id), record)
		if err != nil {
			return nil, fmt.Errorf("wrapping pull request %d: %w", id, err)
		}

		page.Values = append(page.Values, pullRequest)
	}

	return page, nil
}

// branchRef is the source/destination document slice of a pull request.
type branchRef struct {
	Branch struct {
		Name string `json:"name"`
	} `json:"branch"`
}

type userDocument struct {
	Type        string `json:"type,omitempty"`
	UUID        string `json:"uuid"`
	DisplayName string `json:"display_name"`
	Nickname    string `json:"nickname"`
	AccountID   string `json:"account_id"`
}

type participantDocument struct {
	Type           string       `json:"type,omitempty"`
	User           userDocument `json:"user"`
	Role           string       `json:"role"`
	State          string       `json:"state"`
	Approved       bool         `json:"approved"`
	ParticipatedOn string       `json:"participated_on"`
}

type pullRequestDocument struct {
	Type              string                `json:"type,omitempty"`
	ID                int                   `json:"id"`
	Title             string                `json:"title"`
	Description       string                `json:"description"`
	State             string                `json:"state"`
	CreatedOn         string                `json:"created_on"`
	UpdatedOn         string                `json:"updated_on"`
	CloseSourceBranch bool                  `json:"close_source_branch"`
	Reason            string                `json:"reason"`
	CommentCount      int                   `json:"comment_count"`
	TaskCount         int                   `json:"task_count"`
	Source            branchRef             `json:"source"`
	Destination       branchRef             `json:"destination"`
	Author            *userDocument         `json:"author"`
	Reviewers         []userDocument        `json:"reviewers"`
	Participants      []participantDocument `json:"participants"`
}

// checkDocumentType validates an expected type tag against the document's
// tag. Documents without a tag are accepted; lightweight embedded
// sub-documents omit it.
func checkDocumentType(expected, actual string) error {
	if actual != "" && !strings.EqualFold(actual, expected) {
		return &atlas.SchemaMismatchError{Expected: expected, Actual: actual}
	}

	return nil
}

// pullRequest implements atlas.PullRequest. The document snapshot is
// immutable after construction; action methods issue requests against the
// object's own endpoint but never update the snapshot.
type pullRequest struct {
	httpClient *http.Client
	path       string
	doc        pullRequestDocument
}

func newPullRequest(httpClient *http.Client, path string, raw []byte) (*pullRequest, error) {
	var doc pullRequestDocument

	err := json.Unmarshal(raw, &doc)
	if err != nil {
		return nil, fmt.Errorf("parsing pull request document: %w", err)
	}

	err = checkDocumentType(typePullRequest, doc.Type)
	if err != nil {
		return nil, err
	}

	if doc.Author != nil {
		err = checkDocumentType(typeUser, doc.Author.Type)
		if err != nil {
			return nil, err
		}
	}

	for _, reviewer := range doc.Reviewers {
		err = checkDocumentType(typeUser, reviewer.Type)
		if err != nil {
			return nil, err
		}
	}

	for _, p := range doc.Participants {
		err = checkDocumentType(typeParticipant, p.Type)
		if err != nil {
			return nil, err
		}
	}

	return &pullRequest{
		httpClient: httpClient,
		path:       path,
		doc:        doc,
	}, nil
}

// ID implements atlas.PullRequest.ID.
func (pr *pullRequest) ID() int {
	return pr.doc.ID
}

// Title implements atlas.PullRequest.Title.
func (pr *pullRequest) Title() string {
	return pr.doc.Title
}

// Description implements atlas.PullRequest.Description.
func (pr *pullRequest) Description() string {
	return pr.doc.Description
}

// State implements atlas.PullRequest.State.
func (pr *pullRequest) State() string {
	return pr.doc.State
}

// IsOpen implements atlas.PullRequest.IsOpen.
func (pr *pullRequest) IsOpen() bool {
	return strings.EqualFold(pr.doc.State, atlas.PullRequestStateOpen)
}

// IsMerged implements atlas.PullRequest.IsMerged.
func (pr *pullRequest) IsMerged() bool {
	return strings.EqualFold(pr.doc.State, atlas.PullRequestStateMerged)
}

// IsDeclined implements atlas.PullRequest.IsDeclined.
func (pr *pullRequest) IsDeclined() bool {
	return strings.EqualFold(pr.doc.State, atlas.PullRequestStateDeclined)
}

// IsSuperseded implements atlas.PullRequest.IsSuperseded.
func (pr *pullRequest) IsSuperseded() bool {
	return strings.EqualFold(pr.doc.State, atlas.PullRequestStateSuperseded)
}

// CreatedOn implements atlas.PullRequest.CreatedOn.
func (pr *pullRequest) CreatedOn() (time.Time, error) {
	return atlas.ParseTime(pr.doc.CreatedOn)
}

// UpdatedOn implements atlas.PullRequest.UpdatedOn.
func (pr *pullRequest) UpdatedOn() (time.Time, error) {
	return atlas.ParseTime(pr.doc.UpdatedOn)
}

// CloseSourceBranch implements atlas.PullRequest.CloseSourceBranch.
func (pr *pullRequest) CloseSourceBranch() bool {
	return pr.doc.CloseSourceBranch
}

// SourceBranch implements atlas.PullRequest.SourceBranch.
func (pr *pullRequest) SourceBranch() string {
	return pr.doc.Source.Branch.Name
}

// DestinationBranch implements atlas.PullRequest.DestinationBranch.
func (pr *pullRequest) DestinationBranch() string {
	return pr.doc.Destination.Branch.Name
}

// CommentCount implements atlas.PullRequest.CommentCount.
func (pr *pullRequest) CommentCount() int {
	return pr.doc.CommentCount
}

// TaskCount implements atlas.PullRequest.TaskCount.
func (pr *pullRequest) TaskCount() int {
	return pr.doc.TaskCount
}

// DeclinedReason implements atlas.PullRequest.DeclinedReason.
func (pr *pullRequest) DeclinedReason() string {
	return pr.doc.Reason
}

// Author implements atlas.PullRequest.Author.
func (pr *pullRequest) Author() atlas.User {
	if pr.doc.Author == nil {
		return nil
	}

	return &user{doc: *pr.doc.Author}
}

// Reviewers implements atlas.PullRequest.Reviewers.
func (pr *pullRequest) Reviewers() []atlas.User {
	reviewers := make([]atlas.User, 0, len(pr.doc.Reviewers))
	for _, doc := range pr.doc.Reviewers {
		reviewers = append(reviewers, &user{doc: doc})
	}

	return reviewers
}

// Participants implements atlas.PullRequest.Participants.
func (pr *pullRequest) Participants() []atlas.Participant {
	participants := make([]atlas.Participant, 0, len(pr.doc.Participants))
	for _, doc := range pr.doc.Participants {
		participants = append(participants, &participant{doc: doc})
	}

	return participants
}

// checkOpen is the local precondition shared by the state-changing actions.
// It reads the cached document only; a concurrent server-side state change
// is not detected until the object is re-fetched.
func (pr *pullRequest) checkOpen() error {
	if !pr.IsOpen() {
		return atlas.ErrNotOpen
	}

	return nil
}

// Comment implements atlas.PullRequest.Comment.
func (pr *pullRequest) Comment(ctx context.Context, rawMessage string) error {
	if rawMessage == "" {
		return atlas.ErrEmptyComment
	}

	body := map[string]interface{}{
		"content": map[string]interface{}{
			"raw": rawMessage,
		},
	}

	_, err := pr.httpClient.Post(ctx, pr.path+"/comments", body)
	if err != nil {
		return fmt.Errorf("commenting pull request %d: %w", pr.doc.ID, err)
	}

	return nil
}

// Approve implements atlas.PullRequest.Approve.
func (pr *pullRequest) Approve(ctx context.Context) error {
	err := pr.checkOpen()
	if err != nil {
		return err
	}

	body := map[string]interface{}{"approved": true}

	_, err = pr.httpClient.Post(ctx, pr.path+"/approve", body)
	if err != nil {
		return fmt.Errorf("approving pull request %d: %w", pr.doc.ID, err)
	}

	return nil
}

// Unapprove implements atlas.PullRequest.Unapprove.
func (pr *pullRequest) Unapprove(ctx context.Context) error {
	err := pr.checkOpen()
	if err != nil {
		return err
	}

	_, err = pr.httpClient.Delete(ctx, pr.path+"/approve")
	if err != nil {
		return fmt.Errorf("unapproving pull request %d: %w", pr.doc.ID, err)
	}

	return nil
}

// Decline implements atlas.PullRequest.Decline.
func (pr *pullRequest) Decline(ctx context.Context) error {
	err := pr.checkOpen()
	if err != nil {
		return err
	}

	_, err = pr.httpClient.Post(ctx, pr.path+"/decline", nil)
	if err != nil {
		return fmt.Errorf("declining pull request %d: %w", pr.doc.ID, err)
	}

	return nil
}

// Merge implements atlas.PullRequest.Merge.
func (pr *pullRequest) Merge(ctx context.Context, opts *atlas.MergeOptions) error {
	strategy := atlas.MergeStrategyMergeCommit
	closeSourceBranch := pr.doc.CloseSourceBranch

	if opts != nil {
		if opts.Strategy != "" {
			strategy = opts.Strategy
		}

		if opts.CloseSourceBranch != nil {
			closeSourceBranch = *opts.CloseSourceBranch
		}
	}

	// Strategy validation comes first so a bad strategy is reported the
	// same way whatever state the pull request is in.
	if !validMergeStrategy(strategy) {
		return fmt.Errorf("%w: %q", atlas.ErrInvalidMergeStrategy, strategy)
	}

	err := pr.checkOpen()
	if err != nil {
		return err
	}

	body := map[string]interface{}{
		"merge_strategy":      strategy,
		"close_source_branch": closeSourceBranch,
	}

	_, err = pr.httpClient.Post(ctx, pr.path+"/merge", body)
	if err != nil {
		return fmt.Errorf("merging pull request %d: %w", pr.doc.ID, err)
	}

	return nil
}

func validMergeStrategy(strategy string) bool {
	for _, valid := range atlas.MergeStrategies {
		if strategy == valid {
			return true
		}
	}

	return false
}

// user implements atlas.User over an embedded user document.
type user struct {
	doc userDocument
}

// UUID implements atlas.User.UUID.
func (u *user) UUID() string {
	return u.doc.UUID
}

// DisplayName implements atlas.User.DisplayName.
func (u *user) DisplayName() string {
	return u.doc.DisplayName
}

// Nickname implements atlas.User.Nickname.
func (u *user) Nickname() string {
	return u.doc.Nickname
}

// AccountID implements atlas.User.AccountID.
func (u *user) AccountID() string {
	return u.doc.AccountID
}

// participant implements atlas.Participant over an embedded participant
// document.
type participant struct {
	doc participantDocument
}

// User implements atlas.Participant.User.
func (p *participant) User() atlas.User {
	return &user{doc: p.doc.User}
}

// Role implements atlas.Participant.Role.
func (p *participant) Role() string {
	return p.doc.Role
}

// IsReviewer implements atlas.Participant.IsReviewer.
func (p *participant) IsReviewer() bool {
	return strings.EqualFold(p.doc.Role, atlas.ParticipantRoleReviewer)
}

// IsParticipant implements atlas.Participant.IsParticipant.
func (p *participant) IsParticipant() bool {
	return strings.EqualFold(p.doc.Role, atlas.ParticipantRoleParticipant)
}

// HasApproved implements atlas.Participant.HasApproved.
func (p *participant) HasApproved() bool {
	return strings.EqualFold(p.doc.State, atlas.ParticipantStateApproved)
}

// HasChangesRequested implements atlas.Participant.HasChangesRequested.
func (p *participant) HasChangesRequested() bool {
	return strings.EqualFold(p.doc.State, atlas.ParticipantStateChangesRequested)
}

// Approved implements atlas.Participant.Approved.
func (p *participant) Approved() bool {
	return p.doc.Approved
}

// ParticipatedOn implements atlas.Participant.ParticipatedOn.
func (p *participant) ParticipatedOn() (time.Time, error) {
	return atlas.ParseTime(p.doc.ParticipatedOn)
}
