package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/output"
	"github.com/marmos91/dsomm/pkg/apiclient"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Long: `Display the status of the dsomm server.

This command checks the liveness and readiness probes and, when the data
is loaded, summarizes the maturity model the server tracks.

Examples:
  # Check status of the current server
  dsommctl status

  # Output as JSON
  dsommctl status -o json`,
	RunE: runStatus,
}

// ServerStatus represents the server status for display.
type ServerStatus struct {
	Server       string `json:"server"`
	Status       string `json:"status"`
	Healthy      bool   `json:"healthy"`
	Ready        bool   `json:"ready"`
	DsommVersion string `json:"dsommVersion,omitempty"`
	Activities   int    `json:"activities,omitempty"`
	Dimensions   int    `json:"dimensions,omitempty"`
	MaxLevel     int    `json:"maxLevel,omitempty"`
	Teams        int    `json:"teams,omitempty"`
	Error        string `json:"error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	status := ServerStatus{
		Server: client.BaseURL(),
		Status: "unreachable",
	}

	if health, err := client.Health(); err != nil {
		status.Error = err.Error()
	} else {
		status.Status = health.Status
		status.Healthy = health.Status == "healthy"
	}

	if status.Healthy {
		if _, err := client.Ready(); err != nil {
			status.Status = "not ready"
			var apiErr *apiclient.APIError
			if errors.As(err, &apiErr) && apiErr.Detail != "" {
				status.Error = apiErr.Detail
			} else {
				status.Error = err.Error()
			}
		} else {
			status.Ready = true
			if meta, err := client.Meta(); err == nil {
				status.Activities = meta.Activities
				status.Dimensions = len(meta.Dimensions)
				status.MaxLevel = meta.MaxLevel
				status.Teams = len(meta.Teams)
				if meta.ActivityMeta != nil {
					status.DsommVersion = meta.ActivityMeta.DsommVersion
				}
			}
		}
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return output.Render(os.Stdout, format, status, nil)
	}
	printStatusTable(status)
	return nil
}

func printStatusTable(status ServerStatus) {
	fmt.Println()
	fmt.Println("dsomm Server Status")
	fmt.Println("===================")
	fmt.Println()
	fmt.Printf("  Server:     %s\n", status.Server)

	switch {
	case status.Ready:
		fmt.Printf("  Status:     \033[32m● %s\033[0m\n", status.Status)
	case status.Status == "unreachable":
		fmt.Printf("  Status:     \033[31m○ %s\033[0m\n", status.Status)
	default:
		fmt.Printf("  Status:     \033[33m● %s\033[0m\n", status.Status)
	}

	if status.Ready {
		fmt.Printf("  DSOMM:      %s\n", cmdutil.EmptyOr(status.DsommVersion, "-"))
		fmt.Printf("  Activities: %d\n", status.Activities)
		fmt.Printf("  Dimensions: %d\n", status.Dimensions)
		fmt.Printf("  Max level:  %s\n", strconv.Itoa(status.MaxLevel))
		fmt.Printf("  Teams:      %d\n", status.Teams)
	}
	if status.Error != "" {
		fmt.Printf("  Error:      %s\n", status.Error)
	}
	fmt.Println()
}
