package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/forgeworks-io/atlas/internal/constants"
	"github.com/forgeworks-io/atlas/pkg/atlas"
)

// NewServiceDeskCommand creates the sd command group.
func NewServiceDeskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sd",
		Aliases: []string{"servicedesk"},
		Short:   "Manage Jira Service Desk",
		Long:    "Inspect service desks, customer requests and agent queues",
	}

	cmd.AddCommand(newSDInfoCommand())
	cmd.AddCommand(newSDDesksCommand())
	cmd.AddCommand(newSDRequestsCommand())
	cmd.AddCommand(newSDQueuesCommand())
	cmd.AddCommand(newSDRequestTypesCommand())

	return cmd
}

func serviceDeskClient() (atlas.ServiceDeskClient, error) {
	client, err := CreateClient()
	if err != nil {
		return nil, err
	}

	return client.ServiceDesk(), nil
}

func newSDInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show Service Desk application info",
		RunE: func(cmd *cobra.Command, args []string) error {
			sd, err := serviceDeskClient()
			if err != nil {
				return err
			}

			info, err := sd.GetInfo(context.Background())
			if err != nil {
				return err
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return printJSON(info)
			case OutputFormatYAML:
				return printYAML(info)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("Version", info.Version)
				_ = table.Append("Platform version", info.PlatformVersion)
				_ = table.Append("Licensed", fmt.Sprintf("%t", info.IsLicensedForUse))
				_ = table.Append("Build date", info.BuildDate.Time().Local().Format(displayTimeFormat))

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			}
		},
	}
}

func newSDDesksCommand() *cobra.Command {
	var (
		start int
		limit int
	)

	cmd := &cobra.Command{
		Use:   "desks",
		Short: "List service desks",
		RunE: func(cmd *cobra.Command, args []string) error {
			sd, err := serviceDeskClient()
			if err != nil {
				return err
			}

			desks, err := sd.ListServiceDesks(context.Background(), start, limit)
			if err != nil {
				return err
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return printJSON(desks.Values)
			case OutputFormatYAML:
				return printYAML(desks.Values)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Project key", "Project name")

				for _, desk := range desks.Values {
					_ = table.Append(desk.ID, desk.ProjectKey, desk.ProjectName)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			}
		},
	}

	cmd.Flags().IntVar(&start, "start", 0, "index of the first result")
	cmd.Flags().IntVar(&limit, "limit", constants.DefaultServiceDeskLimit, "page size")

	return cmd
}

func newSDRequestsCommand() *cobra.Command {
	var (
		start int
		limit int
	)

	cmd := &cobra.Command{
		Use:   "requests",
		Short: "List your customer requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			sd, err := serviceDeskClient()
			if err != nil {
				return err
			}

			requests, err := sd.ListMyRequests(context.Background(), start, limit)
			if err != nil {
				return err
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return printJSON(requests.Values)
			case OutputFormatYAML:
				return printYAML(requests.Values)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Key", "Status", "Reporter", "Created")

				for _, request := range requests.Values {
					_ = table.Append(request.IssueKey,
						request.CurrentStatus.Status,
						request.Reporter.DisplayName,
						request.CreatedDate.Time().Local().Format(displayTimeFormat))
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			}
		},
	}

	cmd.Flags().IntVar(&start, "start", 0, "index of the first result")
	cmd.Flags().IntVar(&limit, "limit", constants.DefaultServiceDeskLimit, "page size")

	return cmd
}

func newSDQueuesCommand() *cobra.Command {
	var (
		deskID       string
		includeCount bool
		start        int
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "queues",
		Short: "List the agent queues of a service desk",
		RunE: func(cmd *cobra.Command, args []string) error {
			if deskID == "" {
				return constants.ErrServiceDeskIDRequired
			}

			sd, err := serviceDeskClient()
			if err != nil {
				return err
			}

			queues, err := sd.ListQueues(context.Background(), deskID, includeCount, start, limit)
			if err != nil {
				return err
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return printJSON(queues.Values)
			case OutputFormatYAML:
				return printYAML(queues.Values)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Issues", "JQL")

				for _, queue := range queues.Values {
					count := NotAvailable
					if includeCount {
						count = fmt.Sprintf("%d", queue.IssueCount)
					}

					_ = table.Append(queue.ID, queue.Name, count, queue.JQL)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&deskID, "desk", "d", "", "service desk id")
	cmd.Flags().BoolVar(&includeCount, "count", false, "include per-queue issue counts")
	cmd.Flags().IntVar(&start, "start", 0, "index of the first result")
	cmd.Flags().IntVar(&limit, "limit", constants.DefaultServiceDeskLimit, "page size")

	return cmd
}

func newSDRequestTypesCommand() *cobra.Command {
	var (
		deskID string
		start  int
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "request-types",
		Short: "List the request types of a service desk",
		RunE: func(cmd *cobra.Command, args []string) error {
			if deskID == "" {
				return constants.ErrServiceDeskIDRequired
			}

			sd, err := serviceDeskClient()
			if err != nil {
				return err
			}

			types, err := sd.ListRequestTypes(context.Background(), deskID, start, limit)
			if err != nil {
				return err
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return printJSON(types.Values)
			case OutputFormatYAML:
				return printYAML(types.Values)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Description")

				for _, requestType := range types.Values {
					_ = table.Append(requestType.ID, requestType.Name, requestType.Description)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&deskID, "desk", "d", "", "service desk id")
	cmd.Flags().IntVar(&start, "start", 0, "index of the first result")
	cmd.Flags().IntVar(&limit, "limit", constants.DefaultServiceDeskLimit, "page size")

	return cmd
}
