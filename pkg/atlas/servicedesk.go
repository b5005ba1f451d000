package atlas

import (
	"context"
)

// Approval decisions accepted by AnswerApproval.
const (
	ApprovalDecisionApprove = "approve"
	ApprovalDecisionDecline = "decline"
)

// ServiceDeskClient is the flat Jira Service Desk client: every call is a
// one-shot request/response method and list endpoints are paged explicitly
// via start/limit parameters.
type ServiceDeskClient interface {
	// GetInfo returns runtime information about the Service Desk
	// application.
	GetInfo(ctx context.Context) (*ServiceDeskInfo, error)

	// ListServiceDesks returns the service desks visible to the caller.
	ListServiceDesks(ctx context.Context, start, limit int) (*PagedList[ServiceDesk], error)
	// GetServiceDesk returns the service desk with the given id.
	GetServiceDesk(ctx context.Context, serviceDeskID string) (*ServiceDesk, error)

	// CreateCustomer creates a customer account.
	CreateCustomer(ctx context.Context, fullName, email string) (*Customer, error)
	// ListCustomers returns the customers of a service desk, optionally
	// narrowed by a query string.
	ListCustomers(ctx context.Context, serviceDeskID, query string, start, limit int) (*PagedList[Customer], error)
	// AddCustomers adds existing customers to a service desk by username or
	// account id.
	AddCustomers(ctx context.Context, serviceDeskID string, usernames, accountIDs []string) error
	// RemoveCustomers removes customers from a service desk.
	RemoveCustomers(ctx context.Context, serviceDeskID string, usernames, accountIDs []string) error

	// CreateRequest creates a customer request.
	CreateRequest(ctx context.Context, input *RequestInput) (*CustomerRequest, error)
	// GetRequest returns a single customer request.
	GetRequest(ctx context.Context, issueIDOrKey string) (*CustomerRequest, error)
	// ListMyRequests returns the requests where the caller participates.
	ListMyRequests(ctx context.Context, start, limit int) (*PagedList[CustomerRequest], error)
	// GetRequestStatus returns the current status of a request.
	GetRequestStatus(ctx context.Context, issueIDOrKey string) (*RequestStatus, error)
	// ListTransitions returns the transitions available on a request.
	ListTransitions(ctx context.Context, issueIDOrKey string) (*PagedList[Transition], error)
	// PerformTransition transitions a request, with an optional comment.
	PerformTransition(ctx context.Context, issueIDOrKey, transitionID, comment string) error

	// ListRequestParticipants returns the participants of a request.
	ListRequestParticipants(ctx context.Context, issueIDOrKey string, start, limit int) (*PagedList[Customer], error)
	// AddRequestParticipants adds participants to a request by account id.
	AddRequestParticipants(ctx context.Context, issueIDOrKey string, accountIDs []string) (*PagedList[Customer], error)
	// RemoveRequestParticipants removes participants from a request.
	RemoveRequestParticipants(ctx context.Context, issueIDOrKey string, accountIDs []string) (*PagedList[Customer], error)

	// CreateRequestComment adds a comment to a request.
	CreateRequestComment(ctx context.Context, issueIDOrKey, body string, public bool) (*RequestComment, error)
	// ListRequestComments returns the comments of a request.
	ListRequestComments(ctx context.Context, issueIDOrKey string, start, limit int) (*PagedList[RequestComment], error)
	// GetRequestComment returns a single comment of a request.
	GetRequestComment(ctx context.Context, issueIDOrKey string, commentID string) (*RequestComment, error)

	// ListOrganizations returns organizations, scoped to a service desk when
	// serviceDeskID is non-empty.
	ListOrganizations(ctx context.Context, serviceDeskID string, start, limit int) (*PagedList[Organization], error)
	// GetOrganization returns a single organization.
	GetOrganization(ctx context.Context, organizationID string) (*Organization, error)
	// ListUsersInOrganization returns the customers of an organization.
	ListUsersInOrganization(ctx context.Context, organizationID string, start, limit int) (*PagedList[Customer], error)
	// CreateOrganization creates an organization.
	CreateOrganization(ctx context.Context, name string) (*Organization, error)
	// DeleteOrganization deletes an organization.
	DeleteOrganization(ctx context.Context, organizationID string) error
	// AddOrganization associates an organization with a service desk.
	AddOrganization(ctx context.Context, serviceDeskID, organizationID string) error
	// RemoveOrganization removes an organization from a service desk.
	RemoveOrganization(ctx context.Context, serviceDeskID, organizationID string) error
	// AddUsersToOrganization adds customers to an organization.
	AddUsersToOrganization(ctx context.Context, organizationID string, usernames, accountIDs []string) error
	// RemoveUsersFromOrganization removes customers from an organization.
	RemoveUsersFromOrganization(ctx context.Context, organizationID string, usernames, accountIDs []string) error

	// AttachTemporaryFile uploads files to a service desk, returning
	// temporary attachment ids to be committed with AddAttachments.
	AttachTemporaryFile(ctx context.Context, serviceDeskID string, filenames []string) (*TemporaryAttachments, error)
	// AddAttachments converts temporary attachments to request attachments,
	// with an optional comment.
	AddAttachments(ctx context.Context, issueIDOrKey string, tempAttachmentIDs []string, public bool, comment string) (*AttachmentResult, error)

	// ListSLA returns the SLA records of a request.
	ListSLA(ctx context.Context, issueIDOrKey string, start, limit int) (*PagedList[SLAInformation], error)
	// GetSLA returns one SLA record of a request.
	GetSLA(ctx context.Context, issueIDOrKey string, slaID string) (*SLAInformation, error)

	// ListApprovals returns the approvals of a request.
	ListApprovals(ctx context.Context, issueIDOrKey string, start, limit int) (*PagedList[Approval], error)
	// GetApproval returns one approval of a request.
	GetApproval(ctx context.Context, issueIDOrKey string, approvalID string) (*Approval, error)
	// AnswerApproval answers a pending approval with
	// ApprovalDecisionApprove or ApprovalDecisionDecline.
	AnswerApproval(ctx context.Context, issueIDOrKey string, approvalID, decision string) (*Approval, error)

	// ListQueues returns the queues of a service desk.
	ListQueues(ctx context.Context, serviceDeskID string, includeCount bool, start, limit int) (*PagedList[Queue], error)
	// ListQueueIssues returns the issues in a queue.
	ListQueueIssues(ctx context.Context, serviceDeskID, queueID string, start, limit int) (*PagedList[QueueIssue], error)

	// ListRequestTypes returns the request types of a service desk.
	ListRequestTypes(ctx context.Context, serviceDeskID string, start, limit int) (*PagedList[RequestType], error)
	// CreateRequestType creates a request type on a service desk.
	CreateRequestType(ctx context.Context, serviceDeskID string, input *RequestTypeInput) (*RequestType, error)
}

// ServiceDeskInfo represents the Service Desk application info.
type ServiceDeskInfo struct {
	Version          string `json:"version"          yaml:"version"`
	PlatformVersion  string `json:"platformVersion"  yaml:"platformVersion"`
	BuildDate        Date   `json:"buildDate"        yaml:"buildDate"`
	BuildChangeSet   string `json:"buildChangeSet"   yaml:"buildChangeSet"`
	IsLicensedForUse bool   `json:"isLicensedForUse" yaml:"isLicensedForUse"`
}

// ServiceDesk represents a service desk, a Jira project with a customer
// portal.
type ServiceDesk struct {
	ID          string `json:"id"          yaml:"id"`
	ProjectID   string `json:"projectId"   yaml:"projectId"`
	ProjectName string `json:"projectName" yaml:"projectName"`
	ProjectKey  string `json:"projectKey"  yaml:"projectKey"`
}

// Customer represents a customer account.
type Customer struct {
	AccountID    string `json:"accountId"    yaml:"accountId"`
	Name         string `json:"name"         yaml:"name"`
	Key          string `json:"key"          yaml:"key"`
	EmailAddress string `json:"emailAddress" yaml:"emailAddress"`
	DisplayName  string `json:"displayName"  yaml:"displayName"`
	Active       bool   `json:"active"       yaml:"active"`
	TimeZone     string `json:"timeZone"     yaml:"timeZone"`
}

// RequestInput describes a customer request to create.
type RequestInput struct {
	// ServiceDeskID identifies the service desk the request is raised on.
	ServiceDeskID string
	// RequestTypeID identifies the request type.
	RequestTypeID string
	// FieldValues maps request field ids to their values.
	FieldValues map[string]interface{}
	// RaiseOnBehalfOf optionally raises the request for another customer.
	RaiseOnBehalfOf string
	// Participants optionally adds participants by account id.
	Participants []string
}

// RequestFieldValue is one populated field of a customer request.
type RequestFieldValue struct {
	FieldID string      `json:"fieldId" yaml:"fieldId"`
	Label   string      `json:"label"   yaml:"label"`
	Value   interface{} `json:"value"   yaml:"value"`
}

// RequestStatus is the current status of a customer request.
type RequestStatus struct {
	Status         string `json:"status"         yaml:"status"`
	StatusCategory string `json:"statusCategory" yaml:"statusCategory"`
	StatusDate     Date   `json:"statusDate"     yaml:"statusDate"`
}

// CustomerRequest represents a customer request (a Jira issue).
type CustomerRequest struct {
	IssueID            string              `json:"issueId"            yaml:"issueId"`
	IssueKey           string              `json:"issueKey"           yaml:"issueKey"`
	RequestTypeID      string              `json:"requestTypeId"      yaml:"requestTypeId"`
	ServiceDeskID      string              `json:"serviceDeskId"      yaml:"serviceDeskId"`
	CreatedDate        Date                `json:"createdDate"        yaml:"createdDate"`
	Reporter           Customer            `json:"reporter"           yaml:"reporter"`
	RequestFieldValues []RequestFieldValue `json:"requestFieldValues" yaml:"requestFieldValues"`
	CurrentStatus      RequestStatus       `json:"currentStatus"      yaml:"currentStatus"`
}

// Transition is a workflow transition available on a request.
type Transition struct {
	ID   string `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// RequestComment is a comment on a customer request.
type RequestComment struct {
	ID      string   `json:"id"      yaml:"id"`
	Body    string   `json:"body"    yaml:"body"`
	Public  bool     `json:"public"  yaml:"public"`
	Author  Customer `json:"author"  yaml:"author"`
	Created Date     `json:"created" yaml:"created"`
}

// Organization groups customers of a service desk.
type Organization struct {
	ID   string `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// TemporaryAttachment is an uploaded file pending attachment to a request.
type TemporaryAttachment struct {
	TemporaryAttachmentID string `json:"temporaryAttachmentId" yaml:"temporaryAttachmentId"`
	FileName              string `json:"fileName"              yaml:"fileName"`
}

// TemporaryAttachments is the response of a temporary file upload.
type TemporaryAttachments struct {
	TemporaryAttachments []TemporaryAttachment `json:"temporaryAttachments" yaml:"temporaryAttachments"`
}

// Attachment is a file attached to a customer request.
type Attachment struct {
	Filename string   `json:"filename" yaml:"filename"`
	Author   Customer `json:"author"   yaml:"author"`
	Created  Date     `json:"created"  yaml:"created"`
	Size     int64    `json:"size"     yaml:"size"`
	MimeType string   `json:"mimeType" yaml:"mimeType"`
}

// AttachmentResult is the response of committing temporary attachments to a
// request.
type AttachmentResult struct {
	Comment     RequestComment        `json:"comment"     yaml:"comment"`
	Attachments PagedList[Attachment] `json:"attachments" yaml:"attachments"`
}

// SLACycle is one measurement cycle of an SLA.
type SLACycle struct {
	StartTime           Date `json:"startTime"           yaml:"startTime"`
	StopTime            Date `json:"stopTime"            yaml:"stopTime"`
	Breached            bool `json:"breached"            yaml:"breached"`
	BreachTime          Date `json:"breachTime"          yaml:"breachTime"`
	WithinCalendarHours bool `json:"withinCalendarHours" yaml:"withinCalendarHours"`
}

// SLAInformation represents one SLA record of a request.
type SLAInformation struct {
	ID              string     `json:"id"                     yaml:"id"`
	Name            string     `json:"name"                   yaml:"name"`
	OngoingCycle    *SLACycle  `json:"ongoingCycle,omitempty" yaml:"ongoingCycle,omitempty"`
	CompletedCycles []SLACycle `json:"completedCycles"        yaml:"completedCycles"`
}

// Approver is one approver of an approval.
type Approver struct {
	Approver         Customer `json:"approver"         yaml:"approver"`
	ApproverDecision string   `json:"approverDecision" yaml:"approverDecision"`
}

// Approval represents an approval on a customer request.
type Approval struct {
	ID                string     `json:"id"                yaml:"id"`
	Name              string     `json:"name"              yaml:"name"`
	FinalDecision     string     `json:"finalDecision"     yaml:"finalDecision"`
	CanAnswerApproval bool       `json:"canAnswerApproval" yaml:"canAnswerApproval"`
	Approvers         []Approver `json:"approvers"         yaml:"approvers"`
	CreatedDate       Date       `json:"createdDate"       yaml:"createdDate"`
	CompletedDate     Date       `json:"completedDate"     yaml:"completedDate"`
}

// Queue is an agent queue of a service desk.
type Queue struct {
	ID         string   `json:"id"         yaml:"id"`
	Name       string   `json:"name"       yaml:"name"`
	JQL        string   `json:"jql"        yaml:"jql"`
	Fields     []string `json:"fields"     yaml:"fields"`
	IssueCount int64    `json:"issueCount" yaml:"issueCount"`
}

// QueueIssue is a Jira issue as returned by the queue issues endpoint. The
// fields payload is kept semi-structured; callers read the handful of fields
// they need.
type QueueIssue struct {
	ID     string                 `json:"id"     yaml:"id"`
	Key    string                 `json:"key"    yaml:"key"`
	Fields map[string]interface{} `json:"fields" yaml:"fields"`
}

// RequestTypeInput describes a request type to create.
type RequestTypeInput struct {
	IssueTypeID string `json:"issueTypeId" yaml:"issueTypeId"`
	Name        string `json:"name"        yaml:"name"`
	Description string `json:"description" yaml:"description"`
	HelpText    string `json:"helpText"    yaml:"helpText"`
}

// RequestType is a type of customer request offered by a service desk.
type RequestType struct {
	ID            string   `json:"id"            yaml:"id"`
	Name          string   `json:"name"          yaml:"name"`
	Description   string   `json:"description"   yaml:"description"`
	HelpText      string   `json:"helpText"      yaml:"helpText"`
	ServiceDeskID string   `json:"serviceDeskId" yaml:"serviceDeskId"`
	GroupIDs      []string `json:"groupIds"      yaml:"groupIds"`
}
