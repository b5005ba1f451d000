package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeworks-io/atlas/internal/constants"
	internalhttp "github.com/forgeworks-io/atlas/internal/http"
	"github.com/forgeworks-io/atlas/pkg/atlas"
)

func newTestServiceDesk(t *testing.T, handler http.HandlerFunc) *ServiceDeskClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	transport := internalhttp.NewClient(server.URL, nil,
		internalhttp.WithDefaultHeaders(map[string]string{
			constants.ExperimentalAPIHeader: constants.ExperimentalAPIValue,
		}))

	return NewServiceDeskClient(transport)
}

func TestServiceDeskClient_GetInfo(t *testing.T) {
	sd := newTestServiceDesk(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/servicedeskapi/info", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, constants.ExperimentalAPIValue, r.Header.Get(constants.ExperimentalAPIHeader))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"version":          "5.12.0",
			"platformVersion":  "9.4.0",
			"isLicensedForUse": true,
			"buildDate": map[string]interface{}{
				"iso8601":     "2024-01-15T00:00:00+0000",
				"epochMillis": 1705276800000,
			},
		})
	})

	info, err := sd.GetInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "5.12.0", info.Version)
	assert.True(t, info.IsLicensedForUse)
	assert.Equal(t, 2024, info.BuildDate.Time().UTC().Year())
}

func TestServiceDeskClient_ListServiceDesks(t *testing.T) {
	sd := newTestServiceDesk(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/servicedeskapi/servicedesk", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("start"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"size":       1,
			"start":      10,
			"limit":      5,
			"isLastPage": true,
			"values": []interface{}{
				map[string]interface{}{
					"id":          "1",
					"projectId":   "10001",
					"projectName": "IT Help",
					"projectKey":  "ITH",
				},
			},
		})
	})

	list, err := sd.ListServiceDesks(context.Background(), 10, 5)
	require.NoError(t, err)

	assert.True(t, list.IsLastPage)
	require.Len(t, list.Values, 1)
	assert.Equal(t, "IT Help", list.Values[0].ProjectName)
}

func TestServiceDeskClient_ListServiceDesks_DefaultLimit(t *testing.T) {
	sd := newTestServiceDesk(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"isLastPage": true})
	})

	_, err := sd.ListServiceDesks(context.Background(), 0, 0)
	require.NoError(t, err)
}

func TestServiceDeskClient_CreateCustomer(t *testing.T) {
	sd := newTestServiceDesk(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/servicedeskapi/customer", r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		var body map[string]interface{}

		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "Jamie Doe", body["fullName"])
		assert.Equal(t, "jamie@example.com", body["email"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"accountId":    "acc-9",
			"displayName":  "Jamie Doe",
			"emailAddress": "jamie@example.com",
			"active":       true,
		})
	})

	customer, err := sd.CreateCustomer(context.Background(), "Jamie Doe", "jamie@example.com")
	require.NoError(t, err)

	assert.Equal(t, "acc-9", customer.AccountID)
	assert.True(t, customer.Active)
}

func TestServiceDeskClient_CreateRequest(t *testing.T) {
	sd := newTestServiceDesk(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/servicedeskapi/request", r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		var body map[string]interface{}

		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "10", body["serviceDeskId"])
		assert.Equal(t, "25", body["requestTypeId"])

		fields, ok := body["requestFieldValues"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Laptop broken", fields["summary"])

		// Optional fields left empty must not be sent.
		assert.NotContains(t, body, "raiseOnBehalfOf")
		assert.NotContains(t, body, "requestParticipants")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"issueId":  "10100",
			"issueKey": "ITH-42",
			"currentStatus": map[string]interface{}{
				"status": "Waiting for support",
			},
		})
	})

	request, err := sd.CreateRequest(context.Background(), &atlas.RequestInput{
		ServiceDeskID: "10",
		RequestTypeID: "25",
		FieldValues:   map[string]interface{}{"summary": "Laptop broken"},
	})
	require.NoError(t, err)

	assert.Equal(t, "ITH-42", request.IssueKey)
	assert.Equal(t, "Waiting for support", request.CurrentStatus.Status)
}

func TestServiceDeskClient_GetRequestStatus(t *testing.T) {
	sd := newTestServiceDesk(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/servicedeskapi/request/ITH-42/status", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"size":       2,
			"isLastPage": true,
			"values": []interface{}{
				map[string]interface{}{"status": "Resolved", "statusCategory": "DONE"},
				map[string]interface{}{"status": "Open", "statusCategory": "NEW"},
			},
		})
	})

	status, err := sd.GetRequestStatus(context.Background(), "ITH-42")
	require.NoError(t, err)

	assert.Equal(t, "Resolved", status.Status)
	assert.Equal(t, "DONE", status.StatusCategory)
}

func TestServiceDeskClient_PerformTransition(t *testing.T) {
	sd := newTestServiceDesk(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/servicedeskapi/request/ITH-42/transition", r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		var body map[string]interface{}

		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "721", body["id"])

		comment, ok := body["additionalComment"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "escalating", comment["body"])

		w.WriteHeader(http.StatusNoContent)
	})

	err := sd.PerformTransition(context.Background(), "ITH-42", "721", "escalating")
	require.NoError(t, err)
}

func TestServiceDeskClient_CreateRequestComment(t *testing.T) {
	sd := newTestServiceDesk(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/servicedeskapi/request/ITH-42/comment", r.URL.Path)

		var body map[string]interface{}

		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "working on it", body["body"])
		assert.Equal(t, false, body["public"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "1000",
			"body":   "working on it",
			"public": false,
		})
	})

	comment, err := sd.CreateRequestComment(context.Background(), "ITH-42", "working on it", false)
	require.NoError(t, err)

	assert.Equal(t, "1000", comment.ID)
	assert.False(t, comment.Public)
}

func TestServiceDeskClient_Organizations(t *testing.T) {
	sd := newTestServiceDesk(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "POST" && r.URL.Path == "/rest/servicedeskapi/organization":
			var body map[string]interface{}

			raw, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, "Charlie Corp", body["name"])

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "3", "name": "Charlie Corp"})
		case r.Method == "GET" && r.URL.Path == "/rest/servicedeskapi/servicedesk/10/organization":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"isLastPage": true,
				"values":     []interface{}{map[string]interface{}{"id": "3", "name": "Charlie Corp"}},
			})
		case r.Method == "DELETE" && r.URL.Path == "/rest/servicedeskapi/organization/3/user":
			var body map[string]interface{}

			raw, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, []interface{}{"acc-1"}, body["accountIds"])
			assert.NotContains(t, body, "usernames")

			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()

	organization, err := sd.CreateOrganization(ctx, "Charlie Corp")
	require.NoError(t, err)
	assert.Equal(t, "3", organization.ID)

	scoped, err := sd.ListOrganizations(ctx, "10", 0, 50)
	require.NoError(t, err)
	require.Len(t, scoped.Values, 1)
	assert.Equal(t, "Charlie Corp", scoped.Values[0].Name)

	err = sd.RemoveUsersFromOrganization(ctx, "3", nil, []string{"acc-1"})
	require.NoError(t, err)
}

func TestServiceDeskClient_AttachTemporaryFile(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(filename, []byte("contents"), 0o600))

	sd := newTestServiceDesk(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/servicedeskapi/servicedesk/10/attachTemporaryFile", r.URL.Path)
		assert.Equal(t, "no-check", r.Header.Get("X-Atlassian-Token"))

		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)

		defer func() {
			_ = file.Close()
		}()

		assert.Equal(t, "report.txt", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"temporaryAttachments": []interface{}{
				map[string]interface{}{
					"temporaryAttachmentId": "temp-1",
					"fileName":              "report.txt",
				},
			},
		})
	})

	attachments, err := sd.AttachTemporaryFile(context.Background(), "10", []string{filename})
	require.NoError(t, err)

	require.Len(t, attachments.TemporaryAttachments, 1)
	assert.Equal(t, "temp-1", attachments.TemporaryAttachments[0].TemporaryAttachmentID)
}

func TestServiceDeskClient_AddAttachments(t *testing.T) {
	sd := newTestServiceDesk(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/servicedeskapi/request/ITH-42/attachment", r.URL.Path)

		var body map[string]interface{}

		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, []interface{}{"temp-1"}, body["temporaryAttachmentIds"])
		assert.Equal(t, true, body["public"])
		assert.NotContains(t, body, "additionalComment")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"comment": map[string]interface{}{"id": "1001"},
			"attachments": map[string]interface{}{
				"values": []interface{}{
					map[string]interface{}{"filename": "report.txt"},
				},
			},
		})
	})

	result, err := sd.AddAttachments(context.Background(), "ITH-42", []string{"temp-1"}, true, "")
	require.NoError(t, err)

	require.Len(t, result.Attachments.Values, 1)
	assert.Equal(t, "report.txt", result.Attachments.Values[0].Filename)
}

func TestServiceDeskClient_SLA(t *testing.T) {
	sd := newTestServiceDesk(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/servicedeskapi/request/ITH-42/sla":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"isLastPage": true,
				"values": []interface{}{
					map[string]interface{}{"id": "30", "name": "Time to resolution"},
				},
			})
		case "/rest/servicedeskapi/request/ITH-42/sla/30":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"id":   "30",
				"name": "Time to resolution",
				"ongoingCycle": map[string]interface{}{
					"breached": true,
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()

	list, err := sd.ListSLA(ctx, "ITH-42", 0, 50)
	require.NoError(t, err)
	require.Len(t, list.Values, 1)

	sla, err := sd.GetSLA(ctx, "ITH-42", "30")
	require.NoError(t, err)
	require.NotNil(t, sla.OngoingCycle)
	assert.True(t, sla.OngoingCycle.Breached)
}

func TestServiceDeskClient_AnswerApproval(t *testing.T) {
	var requests int

	sd := newTestServiceDesk(t, func(w http.ResponseWriter, r *http.Request) {
		requests++

		assert.Equal(t, "/rest/servicedeskapi/request/ITH-42/approval/5", r.URL.Path)

		var body map[string]interface{}

		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "approve", body["decision"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            "5",
			"finalDecision": "approved",
		})
	})

	approval, err := sd.AnswerApproval(context.Background(), "ITH-42", "5", atlas.ApprovalDecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, "approved", approval.FinalDecision)

	// An unknown decision is rejected before any request is issued.
	_, err = sd.AnswerApproval(context.Background(), "ITH-42", "5", "maybe")
	assert.ErrorIs(t, err, atlas.ErrInvalidApprovalDecision)
	assert.Equal(t, 1, requests)
}

func TestServiceDeskClient_Queues(t *testing.T) {
	sd := newTestServiceDesk(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/servicedeskapi/servicedesk/10/queue":
			assert.Equal(t, "true", r.URL.Query().Get("includeCount"))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"isLastPage": true,
				"values": []interface{}{
					map[string]interface{}{
						"id":         "20",
						"name":       "Unassigned",
						"jql":        "assignee is EMPTY",
						"issueCount": 7,
					},
				},
			})
		case "/rest/servicedeskapi/servicedesk/10/queue/20/issue":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"isLastPage": true,
				"values": []interface{}{
					map[string]interface{}{
						"id":  "10100",
						"key": "ITH-42",
						"fields": map[string]interface{}{
							"summary": "Laptop broken",
						},
					},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()

	queues, err := sd.ListQueues(ctx, "10", true, 0, 50)
	require.NoError(t, err)
	require.Len(t, queues.Values, 1)
	assert.Equal(t, int64(7), queues.Values[0].IssueCount)

	issues, err := sd.ListQueueIssues(ctx, "10", "20", 0, 50)
	require.NoError(t, err)
	require.Len(t, issues.Values, 1)
	assert.Equal(t, "ITH-42", issues.Values[0].Key)
	assert.Equal(t, "Laptop broken", issues.Values[0].Fields["summary"])
}

func TestServiceDeskClient_ErrorShape(t *testing.T) {
	sd := newTestServiceDesk(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"errorMessage": "Operation not permitted",
		})
	})

	_, err := sd.GetServiceDesk(context.Background(), "10")
	require.Error(t, err)
	assert.True(t, atlas.IsForbidden(err))
	assert.Contains(t, err.Error(), "Operation not permitted")
}
