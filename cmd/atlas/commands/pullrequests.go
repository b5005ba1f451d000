package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/forgeworks-io/atlas/internal/constants"
	"github.com/forgeworks-io/atlas/pkg/atlas"
)

// NewPullRequestsCommand creates the pr command group.
func NewPullRequestsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pr",
		Aliases: []string{"pullrequest", "pullrequests"},
		Short:   "Manage Bitbucket pull requests",
		Long:    "List, inspect and act on Bitbucket Cloud pull requests",
	}

	cmd.PersistentFlags().StringP("workspace", "w", "", "Bitbucket workspace")
	cmd.PersistentFlags().StringP("repo", "r", "", "repository slug")

	cmd.AddCommand(newPRListCommand())
	cmd.AddCommand(newPRGetCommand())
	cmd.AddCommand(newPRApproveCommand())
	cmd.AddCommand(newPRUnapproveCommand())
	cmd.AddCommand(newPRDeclineCommand())
	cmd.AddCommand(newPRMergeCommand())
	cmd.AddCommand(newPRCommentCommand())

	return cmd
}

func pullRequestsFromFlags(cmd *cobra.Command) (atlas.PullRequestsClient, error) {
	workspace, _ := cmd.Flags().GetString("workspace")
	if workspace == "" {
		return nil, constants.ErrWorkspaceRequired
	}

	repo, _ := cmd.Flags().GetString("repo")
	if repo == "" {
		return nil, constants.ErrRepositoryRequired
	}

	client, err := CreateClient()
	if err != nil {
		return nil, err
	}

	return client.PullRequests(workspace, repo), nil
}

func pullRequestIDArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, constants.ErrPullRequestIDRequired
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", constants.ErrPullRequestIDRequired, args[0])
	}

	return id, nil
}

// pullRequestRow is the serializable projection used for json/yaml output.
type pullRequestRow struct {
	ID          int    `json:"id"                    yaml:"id"`
	Title       string `json:"title"                 yaml:"title"`
	State       string `json:"state"                 yaml:"state"`
	Author      string `json:"author"                yaml:"author"`
	Source      string `json:"source"                yaml:"source"`
	Destination string `json:"destination"           yaml:"destination"`
	Comments    int    `json:"comment_count"         yaml:"comment_count"`
	Tasks       int    `json:"task_count"            yaml:"task_count"`
	CreatedOn   string `json:"created_on"            yaml:"created_on"`
	UpdatedOn   string `json:"updated_on"            yaml:"updated_on"`
	Reason      string `json:"reason,omitempty"      yaml:"reason,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func newPullRequestRow(pr atlas.PullRequest) pullRequestRow {
	author := NotAvailable
	if user := pr.Author(); user != nil {
		author = user.DisplayName()
	}

	created, createdErr := pr.CreatedOn()
	updated, updatedErr := pr.UpdatedOn()

	return pullRequestRow{
		ID:          pr.ID(),
		Title:       pr.Title(),
		State:       pr.State(),
		Author:      author,
		Source:      pr.SourceBranch(),
		Destination: pr.DestinationBranch(),
		Comments:    pr.CommentCount(),
		Tasks:       pr.TaskCount(),
		CreatedOn:   formatTime(created, createdErr),
		UpdatedOn:   formatTime(updated, updatedErr),
		Reason:      pr.DeclinedReason(),
		Description: pr.Description(),
	}
}

func newPRListCommand() *cobra.Command {
	var (
		state   string
		query   string
		sort    string
		pageLen int
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pull requests",
		Long:  "List the pull requests of a repository, newest first by default",
		RunE: func(cmd *cobra.Command, args []string) error {
			prs, err := pullRequestsFromFlags(cmd)
			if err != nil {
				return err
			}

			params := atlas.NewQueryParams()
			if query != "" {
				params.WithQuery(query)
			} else if state != "" {
				params.WithQuery(fmt.Sprintf("state=%q", state))
			}

			if sort != "" {
				params.WithSort(sort)
			}

			if pageLen > 0 {
				params.WithPageLen(pageLen)
			}

			ctx := context.Background()

			var pullRequests []atlas.PullRequest

			if all {
				pullRequests, err = prs.Each(ctx, params).All()
				if err != nil {
					return err
				}
			} else {
				page, err := prs.List(ctx, params)
				if err != nil {
					return err
				}

				pullRequests = page.Values
			}

			return outputPullRequests(pullRequests)
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "filter by state (OPEN, MERGED, DECLINED, SUPERSEDED)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "raw filter query, overrides --state")
	cmd.Flags().StringVar(&sort, "sort", "", "sort property, prefix with - for descending")
	cmd.Flags().IntVar(&pageLen, "pagelen", 0, "page size")
	cmd.Flags().BoolVar(&all, "all", false, "fetch all pages")

	return cmd
}

func outputPullRequests(pullRequests []atlas.PullRequest) error {
	rows := make([]pullRequestRow, 0, len(pullRequests))
	for _, pr := range pullRequests {
		rows = append(rows, newPullRequestRow(pr))
	}

	switch viper.GetString("output") {
	case OutputFormatJSON:
		return printJSON(rows)
	case OutputFormatYAML:
		return printYAML(rows)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("ID", "Title", "State", "Author", "Source", "Destination", "Updated")

		for _, row := range rows {
			_ = table.Append(strconv.Itoa(row.ID), row.Title, row.State,
				row.Author, row.Source, row.Destination, row.UpdatedOn)
		}

		if err := table.Render(); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	}
}

func newPRGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PR_ID",
		Short: "Show one pull request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := pullRequestIDArg(args)
			if err != nil {
				return err
			}

			prs, err := pullRequestsFromFlags(cmd)
			if err != nil {
				return err
			}

			pr, err := prs.Get(context.Background(), id)
			if err != nil {
				return err
			}

			row := newPullRequestRow(pr)

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return printJSON(row)
			case OutputFormatYAML:
				return printYAML(row)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("ID", strconv.Itoa(row.ID))
				_ = table.Append("Title", row.Title)
				_ = table.Append("State", row.State)
				_ = table.Append("Author", row.Author)
				_ = table.Append("Source", row.Source)
				_ = table.Append("Destination", row.Destination)
				_ = table.Append("Comments", strconv.Itoa(row.Comments))
				_ = table.Append("Tasks", strconv.Itoa(row.Tasks))
				_ = table.Append("Created", row.CreatedOn)
				_ = table.Append("Updated", row.UpdatedOn)

				if row.Reason != "" {
					_ = table.Append("Declined reason", row.Reason)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			}
		},
	}
}

// prAction runs a state-changing action against one pull request.
func prAction(cmd *cobra.Command, args []string, verb string,
	action func(ctx context.Context, pr atlas.PullRequest) error,
) error {
	id, err := pullRequestIDArg(args)
	if err != nil {
		return err
	}

	prs, err := pullRequestsFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()

	pr, err := prs.Get(ctx, id)
	if err != nil {
		return err
	}

	err = action(ctx, pr)
	if err != nil {
		return err
	}

	fmt.Printf("Pull request #%d %s\n", id, verb)

	return nil
}

func newPRApproveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "approve PR_ID",
		Short: "Approve a pull request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return prAction(cmd, args, "approved", func(ctx context.Context, pr atlas.PullRequest) error {
				return pr.Approve(ctx)
			})
		},
	}
}

func newPRUnapproveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unapprove PR_ID",
		Short: "Withdraw approval from a pull request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return prAction(cmd, args, "unapproved", func(ctx context.Context, pr atlas.PullRequest) error {
				return pr.Unapprove(ctx)
			})
		},
	}
}

func newPRDeclineCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decline PR_ID",
		Short: "Decline a pull request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return prAction(cmd, args, "declined", func(ctx context.Context, pr atlas.PullRequest) error {
				return pr.Decline(ctx)
			})
		},
	}
}

func newPRMergeCommand() *cobra.Command {
	var (
		strategy    string
		closeSource bool
	)

	cmd := &cobra.Command{
		Use:   "merge PR_ID",
		Short: "Merge a pull request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return prAction(cmd, args, "merged", func(ctx context.Context, pr atlas.PullRequest) error {
				opts := &atlas.MergeOptions{Strategy: strategy}
				if cmd.Flags().Changed("close-source-branch") {
					opts.CloseSourceBranch = &closeSource
				}

				return pr.Merge(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "",
		"merge strategy (merge_commit, squash, fast_forward)")
	cmd.Flags().BoolVar(&closeSource, "close-source-branch", false,
		"close the source branch after merging")

	return cmd
}

func newPRCommentCommand() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "comment PR_ID",
		Short: "Comment on a pull request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return constants.ErrMissingCommentMessage
			}

			return prAction(cmd, args, "commented", func(ctx context.Context, pr atlas.PullRequest) error {
				return pr.Comment(ctx, message)
			})
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "comment text")

	return cmd
}
