package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/forgeworks-io/atlas/internal/constants"
	"github.com/forgeworks-io/atlas/pkg/atlas"
	"github.com/forgeworks-io/atlas/pkg/cloudclient"
)

// cliConfig is the persisted shape of ~/.atlas/config.yml.
type cliConfig struct {
	BitbucketAPI string `yaml:"bitbucket-api,omitempty"`
	JiraAPI      string `yaml:"jira-api,omitempty"`
	Username     string `yaml:"username,omitempty"`
	Token        string `yaml:"token,omitempty"`
	AccessToken  string `yaml:"access-token,omitempty"`
}

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		bitbucketAPI string
		jiraAPI      string
		username     string
		token        string
		accessToken  string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store Atlassian credentials",
		Long:  "Verify credentials against the configured endpoints and save them to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if bitbucketAPI == "" {
				bitbucketAPI = viper.GetString("bitbucket-api")
			}

			if jiraAPI == "" {
				jiraAPI = viper.GetString("jira-api")
			}

			if bitbucketAPI == "" && jiraAPI == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Jira site URL: ")

				jiraAPI, _ = reader.ReadString('\n')
				jiraAPI = strings.TrimSpace(jiraAPI)
			}

			if bitbucketAPI == "" && jiraAPI == "" {
				return constants.ErrEndpointRequired
			}

			if accessToken == "" {
				if username == "" {
					reader := bufio.NewReader(os.Stdin)
					fmt.Print("Email: ")

					username, _ = reader.ReadString('\n')
					username = strings.TrimSpace(username)
				}

				if token == "" {
					fmt.Print("API token: ")

					byteToken, err := term.ReadPassword(int(syscall.Stdin))
					if err != nil {
						return fmt.Errorf("failed to read token: %w", err)
					}

					token = string(byteToken)

					fmt.Println()
				}

				if username == "" || token == "" {
					return constants.ErrCredentialsRequired
				}
			}

			config := &atlas.Config{
				BitbucketEndpoint:   bitbucketAPI,
				ServiceDeskEndpoint: jiraAPI,
				Username:            username,
				Token:               token,
				AccessToken:         accessToken,
			}

			client, err := cloudclient.New(config)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			// Verify the credentials with a cheap read before persisting.
			ctx := context.Background()

			if jiraAPI != "" {
				_, err = client.ServiceDesk().GetInfo(ctx)
				if err != nil {
					return fmt.Errorf("failed to connect to %s: %w", jiraAPI, err)
				}
			}

			err = saveConfig(&cliConfig{
				BitbucketAPI: bitbucketAPI,
				JiraAPI:      jiraAPI,
				Username:     username,
				Token:        token,
				AccessToken:  accessToken,
			})
			if err != nil {
				return err
			}

			fmt.Println("Credentials saved.")

			return nil
		},
	}

	cmd.Flags().StringVar(&bitbucketAPI, "bitbucket-api", "", "Bitbucket Cloud API endpoint URL")
	cmd.Flags().StringVar(&jiraAPI, "jira-api", "", "Jira site URL")
	cmd.Flags().StringVarP(&username, "username", "u", "", "account email")
	cmd.Flags().StringVarP(&token, "token", "t", "", "API token or app password")
	cmd.Flags().StringVar(&accessToken, "access-token", "", "OAuth bearer token")

	return cmd
}

func saveConfig(config *cliConfig) error {
	home, err := homedir.Dir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}

	configDir := filepath.Join(home, ".atlas")

	err = os.MkdirAll(configDir, constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("%w: %s", constants.ErrConfigFileNotWritable, configDir)
	}

	encoded, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	configFile := filepath.Join(configDir, "config.yml")

	err = os.WriteFile(configFile, encoded, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("%w: %s", constants.ErrConfigFileNotWritable, configFile)
	}

	return nil
}
