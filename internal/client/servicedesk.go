package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/forgeworks-io/atlas/internal/constants"
	"github.com/forgeworks-io/atlas/internal/http"
	"github.com/forgeworks-io/atlas/pkg/atlas"
)

// ServiceDeskClient implements atlas.ServiceDeskClient. Unlike the pull
// request collection it is flat: every method is a one-shot call and returns
// plain data, and list endpoints are paged explicitly via start/limit.
type ServiceDeskClient struct {
	httpClient *http.Client
}

// NewServiceDeskClient creates a Service Desk client on the given transport.
// The transport must carry the experimental API opt-in header; most Service
// Desk endpoints reject requests without it.
func NewServiceDeskClient(httpClient *http.Client) *ServiceDeskClient {
	return &ServiceDeskClient{httpClient: httpClient}
}

// pagedQuery builds the start/limit query the Service Desk list endpoints
// expect. A non-positive limit falls back to the server default page size.
func pagedQuery(start, limit int) url.Values {
	if limit <= 0 {
		limit = constants.DefaultServiceDeskLimit
	}

	query := url.Values{}
	query.Set("start", strconv.Itoa(start))
	query.Set("limit", strconv.Itoa(limit))

	return query
}

func serviceDeskPath(segments ...string) string {
	path := constants.ServiceDeskAPIPrefix
	for _, segment := range segments {
		path += "/" + segment
	}

	return path
}

// memberChanges is the body shape shared by the customer and organization
// membership endpoints.
func memberChanges(usernames, accountIDs []string) map[string]interface{} {
	body := map[string]interface{}{}

	if len(usernames) > 0 {
		body["usernames"] = usernames
	}

	if len(accountIDs) > 0 {
		body["accountIds"] = accountIDs
	}

	return body
}

// GetInfo implements atlas.ServiceDeskClient.GetInfo.
func (c *ServiceDeskClient) GetInfo(ctx context.Context) (*atlas.ServiceDeskInfo, error) {
	resp, err := c.httpClient.Get(ctx, serviceDeskPath("info"), nil)
	if err != nil {
		return nil, fmt.Errorf("getting service desk info: %w", err)
	}

	var info atlas.ServiceDeskInfo

	err = json.Unmarshal(resp.Body, &info)
	if err != nil {
		return nil, fmt.Errorf("parsing service desk info: %w", err)
	}

	return &info, nil
}

// ListServiceDesks implements atlas.ServiceDeskClient.ListServiceDesks.
func (c *ServiceDeskClient) ListServiceDesks(ctx context.Context, start, limit int) (*atlas.PagedList[atlas.ServiceDesk], error) {
	resp, err := c.httpClient.Get(ctx, serviceDeskPath("servicedesk"), pagedQuery(start, limit))
	if err != nil {
		return nil, fmt.Errorf("listing service desks: %w", err)
	}

	var list atlas.PagedList[atlas.ServiceDesk]

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing service desk list: %w", err)
	}

	return &list, nil
}

// GetServiceDesk implements atlas.ServiceDeskClient.GetServiceDesk.
func (c *ServiceDeskClient) GetServiceDesk(ctx context.Context, serviceDeskID string) (*atlas.ServiceDesk, error) {
	resp, err := c.httpClient.Get(ctx, serviceDeskPath("servicedesk", serviceDeskID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting service desk %s: %w", serviceDeskID, err)
	}

	var desk atlas.ServiceDesk

	err = json.Unmarshal(resp.Body, &desk)
	if err != nil {
		return nil, fmt.Errorf("parsing service desk: %w", err)
	}

	return &desk, nil
}

// CreateCustomer implements atlas.ServiceDeskClient.CreateCustomer.
func (c *ServiceDeskClient) CreateCustomer(ctx context.Context, fullName, email string) (*atlas.Customer, error) {
	body := map[string]interface{}{
		"fullName": fullName,
		"email":    email,
	}

	resp, err := c.httpClient.Post(ctx, serviceDeskPath("customer"), body)
	if err != nil {
		return nil, fmt.Errorf("creating customer: %w", err)
	}

	var customer atlas.Customer

	err = json.Unmarshal(resp.Body, &customer)
	if err != nil {
		return nil, fmt.Errorf("parsing customer: %w", err)
	}

	return &customer, nil
}

// ListCustomers implements atlas.ServiceDeskClient.ListCustomers.
func (c *ServiceDeskClient) ListCustomers(ctx context.Context, serviceDeskID, query string, start, limit int) (*atlas.PagedList[atlas.Customer], error) {
	params := pagedQuery(start, limit)
	if query != "" {
		params.Set("query", query)
	}

	resp, err := c.httpClient.Get(ctx, serviceDeskPath("servicedesk", serviceDeskID, "customer"), params)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}

	var list atlas.PagedList[atlas.Customer]

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing customer list: %w", err)
	}

	return &list, nil
}

// AddCustomers implements atlas.ServiceDeskClient.AddCustomers.
func (c *ServiceDeskClient) AddCustomers(ctx context.Context, serviceDeskID string, usernames, accountIDs []string) error {
	_, err := c.httpClient.Post(ctx, serviceDeskPath("servicedesk", serviceDeskID, "customer"), memberChanges(usernames, accountIDs))
	if err != nil {
		return fmt.Errorf("adding customers: %w", err)
	}

	return nil
}

// RemoveCustomers implements atlas.ServiceDeskClient.RemoveCustomers.
func (c *ServiceDeskClient) RemoveCustomers(ctx context.Context, serviceDeskID string, usernames, accountIDs []string) error {
	_, err := c.httpClient.DeleteWithBody(ctx, serviceDeskPath("servicedesk", serviceDeskID, "customer"), memberChanges(usernames, accountIDs))
	if err != nil {
		return fmt.Errorf("removing customers: %w", err)
	}

	return nil
}

// ListOrganizations implements atlas.ServiceDeskClient.ListOrganizations.
// When serviceDeskID is non-empty the listing is scoped to that desk.
func (c *ServiceDeskClient) ListOrganizations(ctx context.Context, serviceDeskID string, start, limit int) (*atlas.PagedList[atlas.Organization], error) {
	path := serviceDeskPath("organization")
	if serviceDeskID != "" {
		path = serviceDeskPath("servicedesk", serviceDeskID, "organization")
	}

	resp, err := c.httpClient.Get(ctx, path, pagedQuery(start, limit))
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}

	var list atlas.PagedList[atlas.Organization]

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing organization list: %w", err)
	}

	return &list, nil
}

// GetOrganization implements atlas.ServiceDeskClient.GetOrganization.
func (c *ServiceDeskClient) GetOrganization(ctx context.Context, organizationID string) (*atlas.Organization, error) {
	resp, err := c.httpClient.Get(ctx, serviceDeskPath("organization", organizationID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting organization %s: %w", organizationID, err)
	}

	var organization atlas.Organization

	err = json.Unmarshal(resp.Body, &organization)
	if err != nil {
		return nil, fmt.Errorf("parsing organization: %w", err)
	}

	return &organization, nil
}

// ListUsersInOrganization implements
// atlas.ServiceDeskClient.ListUsersInOrganization.
func (c *ServiceDeskClient) ListUsersInOrganization(ctx context.Context, organizationID string, start, limit int) (*atlas.PagedList[atlas.Customer], error) {
	resp, err := c.httpClient.Get(ctx, serviceDeskPath("organization", organizationID, "user"), pagedQuery(start, limit))
	if err != nil {
		return nil, fmt.Errorf("listing organization users: %w", err)
	}

	var list atlas.PagedList[atlas.Customer]

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing organization user list: %w", err)
	}

	return &list, nil
}

// CreateOrganization implements atlas.ServiceDeskClient.CreateOrganization.
func (c *ServiceDeskClient) CreateOrganization(ctx context.Context, name string) (*atlas.Organization, error) {
	body := map[string]interface{}{"name": name}

	resp, err := c.httpClient.Post(ctx, serviceDeskPath("organization"), body)
	if err != nil {
		return nil, fmt.Errorf("creating organization: %w", err)
	}

	var organization atlas.Organization

	err = json.Unmarshal(resp.Body, &organization)
	if err != nil {
		return nil, fmt.Errorf("parsing organization: %w", err)
	}

	return &organization, nil
}

// DeleteOrganization implements atlas.ServiceDeskClient.DeleteOrganization.
func (c *ServiceDeskClient) DeleteOrganization(ctx context.Context, organizationID string) error {
	_, err := c.httpClient.Delete(ctx, serviceDeskPath("organization", organizationID))
	if err != nil {
		return fmt.Errorf("deleting organization %s: %w", organizationID, err)
	}

	return nil
}

// AddOrganization implements atlas.ServiceDeskClient.AddOrganization.
func (c *ServiceDeskClient) AddOrganization(ctx context.Context, serviceDeskID, organizationID string) error {
	body := map[string]interface{}{"organizationId": organizationID}

	_, err := c.httpClient.Post(ctx, serviceDeskPath("servicedesk", serviceDeskID, "organization"), body)
	if err != nil {
		return fmt.Errorf("adding organization to service desk: %w", err)
	}

	return nil
}

// RemoveOrganization implements atlas.ServiceDeskClient.RemoveOrganization.
func (c *ServiceDeskClient) RemoveOrganization(ctx context.Context, serviceDeskID, organizationID string) error {
	body := map[string]interface{}{"organizationId": organizationID}

	_, err := c.httpClient.DeleteWithBody(ctx, serviceDeskPath("servicedesk", serviceDeskID, "organization"), body)
	if err != nil {
		return fmt.Errorf("removing organization from service desk: %w", err)
	}

	return nil
}

// AddUsersToOrganization implements
// atlas.ServiceDeskClient.AddUsersToOrganization.
func (c *ServiceDeskClient) AddUsersToOrganization(ctx context.Context, organizationID string, usernames, accountIDs []string) error {
	_, err := c.httpClient.Post(ctx, serviceDeskPath("organization", organizationID, "user"), memberChanges(usernames, accountIDs))
	if err != nil {
		return fmt.Errorf("adding organization users: %w", err)
	}

	return nil
}

// RemoveUsersFromOrganization implements
// atlas.ServiceDeskClient.RemoveUsersFromOrganization.
func (c *ServiceDeskClient) RemoveUsersFromOrganization(ctx context.Context, organizationID string, usernames, accountIDs []string) error {
	_, err := c.httpClient.DeleteWithBody(ctx, serviceDeskPath("organization", organizationID, "user"), memberChanges(usernames, accountIDs))
	if err != nil {
		return fmt.Errorf("removing organization users: %w", err)
	}

	return nil
}

// ListQueues implements atlas.ServiceDeskClient.ListQueues.
func (c *ServiceDeskClient) ListQueues(ctx context.Context, serviceDeskID string, includeCount bool, start, limit int) (*atlas.PagedList[atlas.Queue], error) {
	params := pagedQuery(start, limit)
	params.Set("includeCount", strconv.FormatBool(includeCount))

	resp, err := c.httpClient.Get(ctx, serviceDeskPath("servicedesk", serviceDeskID, "queue"), params)
	if err != nil {
		return nil, fmt.Errorf("listing queues: %w", err)
	}

	var list atlas.PagedList[atlas.Queue]

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing queue list: %w", err)
	}

	return &list, nil
}

// ListQueueIssues implements atlas.ServiceDeskClient.ListQueueIssues.
func (c *ServiceDeskClient) ListQueueIssues(ctx context.Context, serviceDeskID, queueID string, start, limit int) (*atlas.PagedList[atlas.QueueIssue], error) {
	resp, err := c.httpClient.Get(ctx, serviceDeskPath("servicedesk", serviceDeskID, "queue", queueID, "issue"), pagedQuery(start, limit))
	if err != nil {
		return nil, fmt.Errorf("listing queue issues: %w", err)
	}

	var list atlas.PagedList[atlas.QueueIssue]

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing queue issue list: %w", err)
	}

	return &list, nil
}

// ListRequestTypes implements atlas.ServiceDeskClient.ListRequestTypes.
func (c *ServiceDeskClient) ListRequestTypes(ctx context.Context, serviceDeskID string, start, limit int) (*atlas.PagedList[atlas.RequestType], error) {
	resp, err := c.httpClient.Get(ctx, serviceDeskPath("servicedesk", serviceDeskID, "requesttype"), pagedQuery(start, limit))
	if err != nil {
		return nil, fmt.Errorf("listing request types: %w", err)
	}

	var list atlas.PagedList[atlas.RequestType]

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing request type list: %w", err)
	}

	return &list, nil
}

// CreateRequestType implements atlas.ServiceDeskClient.CreateRequestType.
func (c *ServiceDeskClient) CreateRequestType(ctx context.Context, serviceDeskID string, input *atlas.RequestTypeInput) (*atlas.RequestType, error) {
	resp, err := c.httpClient.Post(ctx, serviceDeskPath("servicedesk", serviceDeskID, "requesttype"), input)
	if err != nil {
		return nil, fmt.Errorf("creating request type: %w", err)
	}

	var requestType atlas.RequestType

	err = json.Unmarshal(resp.Body, &requestType)
	if err != nil {
		return nil, fmt.Errorf("parsing request type: %w", err)
	}

	return &requestType, nil
}
