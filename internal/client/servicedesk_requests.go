package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/forgeworks-io/atlas/pkg/atlas"
)

// CreateRequest implements atlas.ServiceDeskClient.CreateRequest.
func (c *ServiceDeskClient) CreateRequest(ctx context.Context, input *atlas.RequestInput) (*atlas.CustomerRequest, error) {
	body := map[string]interface{}{
		"serviceDeskId":      input.ServiceDeskID,
		"requestTypeId":      input.RequestTypeID,
		"requestFieldValues": input.FieldValues,
	}

	if input.RaiseOnBehalfOf != "" {
		body["raiseOnBehalfOf"] = input.RaiseOnBehalfOf
	}

	if len(input.Participants) > 0 {
		body["requestParticipants"] = input.Participants
	}

	resp, err := c.httpClient.Post(ctx, serviceDeskPath("request"), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var request atlas.CustomerRequest

	err = json.Unmarshal(resp.Body, &request)
	if err != nil {
		return nil, fmt.Errorf("parsing request: %w", err)
	}

	return &request, nil
}

// GetRequest implements atlas.ServiceDeskClient.GetRequest.
func (c *ServiceDeskClient) GetRequest(ctx context.Context, issueIDOrKey string) (*atlas.CustomerRequest, error) {
	resp, err := c.httpClient.Get(ctx, serviceDeskPath("request", issueIDOrKey), nil)
	if err != nil {
		return nil, fmt.Errorf("getting request %s: %w", issueIDOrKey, err)
	}

	var request atlas.CustomerRequest

	err = json.Unmarshal(resp.Body, &request)
	if err != nil {
		return nil, fmt.Errorf("parsing request: %w", err)
	}

	return &request, nil
}

// ListMyRequests implements atlas.ServiceDeskClient.ListMyRequests.
func (c *ServiceDeskClient) ListMyRequests(ctx context.Context, start, limit int) (*atlas.PagedList[atlas.CustomerRequest], error) {
	resp, err := c.httpClient.Get(ctx, serviceDeskPath("request"), pagedQuery(start, limit))
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}

	var list atlas.PagedList[atlas.CustomerRequest]

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing request list: %w", err)
	}

	return &list, nil
}

// GetRequestStatus implements atlas.ServiceDeskClient.GetRequestStatus. The
// status endpoint returns the status history newest first; the current
// status is the first record.
func (c *ServiceDeskClient) GetRequestStatus(ctx context.Context, issueIDOrKey string) (*atlas.RequestStatus, error) {
	resp, err := c.httpClient.Get(ctx, serviceDeskPath("request", issueIDOrKey, "status"), nil)
	if err != nil {
		return nil, fmt.Errorf("getting request status: %w", err)
	}

	var history atlas.PagedList[atlas.RequestStatus]

	err = json.Unmarshal(resp.Body, &history)
	if err != nil {
		return nil, fmt.Errorf("parsing request status: %w", err)
	}

	if len(history.Values) == 0 {
		return &atlas.RequestStatus{}, nil
	}

	return &history.Values[0], nil
}

// ListTransitions implements atlas.ServiceDeskClient.ListTransitions.
func (c *ServiceDeskClient) ListTransitions(ctx context.Context, issueIDOrKey string) (*atlas.PagedList[atlas.Transition], error) {
	resp, err := c.httpClient.Get(ctx, serviceDeskPath("request", issueIDOrKey, "transition"), nil)
	if err != nil {
		return nil, fmt.Errorf("listing transitions: %w", err)
	}

	var list atlas.PagedList[atlas.Transition]

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing transition list: %w", err)
	}

	return &list, nil
}

// PerformTransition implements atlas.ServiceDeskClient.PerformTransition.
func (c *ServiceDeskClient) PerformTransition(ctx context.Context, issueIDOrKey, transitionID, comment string) error {
	body := map[string]interface{}{"id": transitionID}

	if comment != "" {
		body["additionalComment"] = map[string]interface{}{"body": comment}
	}

	_, err := c.httpClient.Post(ctx, serviceDeskPath("request", issueIDOrKey, "transition"), body)
	if err != nil {
		return fmt.Errorf("performing transition: %w", err)
	}

	return nil
}

// ListRequestParticipants implements
// atlas.ServiceDeskClient.ListRequestParticipants.
func (c *ServiceDeskClient) ListRequestParticipants(ctx context.Context, issueIDOrKey string, start, limit int) (*atlas.PagedList[atlas.Customer], error) {
	resp, err := c.httpClient.Get(ctx, serviceDeskPath("request", issueIDOrKey, "participant"), pagedQuery(start, limit))
	if err != nil {
		return nil, fmt.Errorf("listing request participants: %w", err)
	}

	var list atlas.PagedList[atlas.Customer]

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing request participant list: %w", err)
	}

	return &list, nil
}

// AddRequestParticipants implements
// atlas.ServiceDeskClient.AddRequestParticipants.
func (c *ServiceDeskClient) AddRequestParticipants(ctx context.Context, issueIDOrKey string, accountIDs []string) (*atlas.PagedList[atlas.Customer], error) {
	body := map[string]interface{}{"accountIds": accountIDs}

	resp, err := c.httpClient.Post(ctx, serviceDeskPath("request", issueIDOrKey, "participant"), body)
	if err != nil {
		return nil, fmt.Errorf("adding request participants: %w", err)
	}

	var list atlas.PagedList[atlas.Customer]

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing request participant list: %w", err)
	}

	return &list, nil
}

// RemoveRequestParticipants implements
// atlas.ServiceDeskClient.RemoveRequestParticipants.
func (c *ServiceDeskClient) RemoveRequestParticipants(ctx context.Context, issueIDOrKey string, accountIDs []string) (*atlas.PagedList[atlas.Customer], error) {
	body := map[string]interface{}{"accountIds": accountIDs}

	resp, err := c.httpClient.DeleteWithBody(ctx, serviceDeskPath("request", issueIDOrKey, "participant"), body)
	if err != nil {
		return nil, fmt.Errorf("removing request participants: %w", err)
	}

	var list atlas.PagedList[atlas.Customer]

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing request participant list: %w", err)
	}

	return &list, nil
}

// CreateRequestComment implements
// atlas.ServiceDeskClient.CreateRequestComment.
func (c *ServiceDeskClient) CreateRequestComment(ctx context.Context, issueIDOrKey, body string, public bool) (*atlas.RequestComment, error) {
	payload := map[string]interface{}{
		"body":   body,
		"public": public,
	}

	resp, err := c.httpClient.Post(ctx, serviceDeskPath("request", issueIDOrKey, "comment"), payload)
	if err != nil {
		return nil, fmt.Errorf("creating request comment: %w", err)
	}

	var comment atlas.RequestComment

	err = json.Unmarshal(resp.Body, &comment)
	if err != nil {
		return nil, fmt.Errorf("parsing request comment: %w", err)
	}

	return &comment, nil
}

// ListRequestComments implements
// atlas.ServiceDeskClient.ListRequestComments.
func (c *ServiceDeskClient) ListRequestComments(ctx context.Context, issueIDOrKey string, start, limit int) (*atlas.PagedList[atlas.RequestComment], error) {
	resp, err := c.httpClient.Get(ctx, serviceDeskPath("request", issueIDOrKey, "comment"), pagedQuery(start, limit))
	if err != nil {
		return nil, fmt.Errorf("listing request comments: %w", err)
	}

	var list atlas.PagedList[atlas.RequestComment]

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing request comment list: %w", err)
	}

	return &list, nil
}

// GetRequestComment implements atlas.ServiceDeskClient.GetRequestComment.
func (c *ServiceDeskClient) GetRequestComment(ctx context.Context, issueIDOrKey string, commentID string) (*atlas.RequestComment, error) {
	resp, err := c.httpClient.Get(ctx, serviceDeskPath("request", issueIDOrKey, "comment", commentID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting request comment %s: %w", commentID, err)
	}

	var comment atlas.RequestComment

	err = json.Unmarshal(resp.Body, &comment)
	if err != nil {
		return nil, fmt.Errorf("parsing request comment: %w", err)
	}

	return &comment, nil
}

// AttachTemporaryFile implements
// atlas.ServiceDeskClient.AttachTemporaryFile.
func (c *ServiceDeskClient) AttachTemporaryFile(ctx context.Context, serviceDeskID string, filenames []string) (*atlas.TemporaryAttachments, error) {
	resp, err := c.httpClient.PostMultipart(ctx, serviceDeskPath("servicedesk", serviceDeskID, "attachTemporaryFile"), filenames)
	if err != nil {
		return nil, fmt.Errorf("uploading temporary files: %w", err)
	}

	var attachments atlas.TemporaryAttachments

	err = json.Unmarshal(resp.Body, &attachments)
	if err != nil {
		return nil, fmt.Errorf("parsing temporary attachments: %w", err)
	}

	return &attachments, nil
}

// AddAttachments implements atlas.ServiceDeskClient.AddAttachments.
func (c *ServiceDeskClient) AddAttachments(ctx context.Context, issueIDOrKey string, tempAttachmentIDs []string, public bool, comment string) (*atlas.AttachmentResult, error) {
	body := map[string]interface{}{
		"temporaryAttachmentIds": tempAttachmentIDs,
		"public":                 public,
	}

	if comment != "" {
		body["additionalComment"] = map[string]interface{}{"body": comment}
	}

	resp, err := c.httpClient.Post(ctx, serviceDeskPath("request", issueIDOrKey, "attachment"), body)
	if err != nil {
		return nil, fmt.Errorf("adding attachments: %w", err)
	}

	var result atlas.AttachmentResult

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing attachment result: %w", err)
	}

	return &result, nil
}

// ListSLA implements atlas.ServiceDeskClient.ListSLA.
func (c *ServiceDeskClient) ListSLA(ctx context.Context, issueIDOrKey string, start, limit int) (*atlas.PagedList[atlas.SLAInformation], error) {
	resp, err := c.httpClient.Get(ctx, serviceDeskPath("request", issueIDOrKey, "sla"), pagedQuery(start, limit))
	if err != nil {
		return nil, fmt.Errorf("listing SLA records: %w", err)
	}

	var list atlas.PagedList[atlas.SLAInformation]

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing SLA list: %w", err)
	}

	return &list, nil
}

// GetSLA implements atlas.ServiceDeskClient.GetSLA.
func (c *ServiceDeskClient) GetSLA(ctx context.Context, issueIDOrKey string, slaID string) (*atlas.SLAInformation, error) {
	resp, err := c.httpClient.Get(ctx, serviceDeskPath("request", issueIDOrKey, "sla", slaID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting SLA %s: %w", slaID, err)
	}

	var sla atlas.SLAInformation

	err = json.Unmarshal(resp.Body, &sla)
	if err != nil {
		return nil, fmt.Errorf("parsing SLA record: %w", err)
	}

	return &sla, nil
}

// ListApprovals implements atlas.ServiceDeskClient.ListApprovals.
func (c *ServiceDeskClient) ListApprovals(ctx context.Context, issueIDOrKey string, start, limit int) (*atlas.PagedList[atlas.Approval], error) {
	resp, err := c.httpClient.Get(ctx, serviceDeskPath("request", issueIDOrKey, "approval"), pagedQuery(start, limit))
	if err != nil {
		return nil, fmt.Errorf("listing approvals: %w", err)
	}

	var list atlas.PagedList[atlas.Approval]

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing approval list: %w", err)
	}

	return &list, nil
}

// GetApproval implements atlas.ServiceDeskClient.GetApproval.
func (c *ServiceDeskClient) GetApproval(ctx context.Context, issueIDOrKey string, approvalID string) (*atlas.Approval, error) {
	resp, err := c.httpClient.Get(ctx, serviceDeskPath("request", issueIDOrKey, "approval", approvalID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting approval %s: %w", approvalID, err)
	}

	var approval atlas.Approval

	err = json.Unmarshal(resp.Body, &approval)
	if err != nil {
		return nil, fmt.Errorf("parsing approval: %w", err)
	}

	return &approval, nil
}

// AnswerApproval implements atlas.ServiceDeskClient.AnswerApproval.
func (c *ServiceDeskClient) AnswerApproval(ctx context.Context, issueIDOrKey string, approvalID, decision string) (*atlas.Approval, error) {
	if decision != atlas.ApprovalDecisionApprove && decision != atlas.ApprovalDecisionDecline {
		return nil, fmt.Errorf("%w: %q", atlas.ErrInvalidApprovalDecision, decision)
	}

	body := map[string]interface{}{"decision": decision}

	resp, err := c.httpClient.Post(ctx, serviceDeskPath("request", issueIDOrKey, "approval", approvalID), body)
	if err != nil {
		return nil, fmt.Errorf("answering approval: %w", err)
	}

	var approval atlas.Approval

	err = json.Unmarshal(resp.Body, &approval)
	if err != nil {
		return nil, fmt.Errorf("parsing approval: %w", err)
	}

	return &approval, nil
}
