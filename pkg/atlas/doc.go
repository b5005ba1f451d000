// Package atlas provides a Go client library for Atlassian Cloud REST APIs.
//
// Two API surfaces are covered, each with its own access pattern:
//
//   - Bitbucket Cloud pull requests use the resource model: a collection
//     handle bound to a repository endpoint hands out PullRequest objects
//     that wrap one fetched JSON document and expose typed accessors plus
//     state-changing actions (Comment, Approve, Unapprove, Decline, Merge).
//     Enumeration follows the server's pagination cursor transparently.
//
//   - Jira Service Desk uses a flat client: every call is a one-shot
//     request/response method, and list endpoints are paged explicitly by
//     the caller via start/limit parameters.
//
// Create clients with the cloudclient package:
//
//	client, err := cloudclient.New(&atlas.Config{
//		BitbucketEndpoint:   "https://api.bitbucket.org",
//		ServiceDeskEndpoint: "https://example.atlassian.net",
//		Username:            "user@example.com",
//		Token:               "api-token",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	prs := client.PullRequests("my-workspace", "my-repo")
//	pr, err := prs.Get(ctx, 42)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if pr.IsOpen() {
//		err = pr.Approve(ctx)
//	}
//
// Enumerating a collection fetches pages lazily; constructing a new iterator
// restarts the enumeration with a fresh request:
//
//	it := prs.Each(ctx, atlas.NewQueryParams().WithQuery(`state="OPEN"`))
//	for it.HasNext() {
//		pr, err := it.Next()
//		...
//	}
//
// All errors surface directly to the caller. Transport failures carry the
// server-supplied message as *atlas.APIError; local validation failures are
// static sentinel errors, classified by IsInvalidState, IsInvalidArgument,
// IsSchemaMismatch and IsNotFound.
package atlas
