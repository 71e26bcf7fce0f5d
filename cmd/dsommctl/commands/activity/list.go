package activity

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/pkg/apiclient"
	"github.com/marmos91/dsomm/pkg/model"
)

var (
	listDimension string
	listLevel     int
	listMaxLevel  int
	listTag       string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List activities",
	Long: `List the activities of the loaded maturity model.

Examples:
  dsommctl activity list
  dsommctl activity list --dimension "Test and Verification" --level 1
  dsommctl activity list --tag ci -o json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listDimension, "dimension", "d", "", "Only activities of this sub-dimension")
	listCmd.Flags().IntVarP(&listLevel, "level", "l", 0, "Only activities of this level")
	listCmd.Flags().IntVar(&listMaxLevel, "max-level", 0, "Hide activities above this level")
	listCmd.Flags().StringVarP(&listTag, "tag", "t", "", "Only activities carrying this tag")
}

// ActivityList is a list of activities for table rendering.
type ActivityList []model.Activity

// Headers implements TableRenderer.
func (al ActivityList) Headers() []string {
	return []string{"UUID", "DIMENSION", "LEVEL", "NAME", "TAGS"}
}

// Rows implements TableRenderer.
func (al ActivityList) Rows() [][]string {
	rows := make([][]string, 0, len(al))
	for _, a := range al {
		rows = append(rows, []string{
			a.UUID,
			a.Dimension,
			strconv.Itoa(a.Level),
			cmdutil.Truncate(a.Name, 50),
			cmdutil.EmptyOr(strings.Join(a.Tags, ", "), "-"),
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	activities, err := client.ListActivities(apiclient.ActivityQuery{
		Dimension: listDimension,
		Level:     listLevel,
		MaxLevel:  listMaxLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to list activities: %w", err)
	}

	if listTag != "" {
		activities = filterByTag(activities, listTag)
	}

	return cmdutil.PrintOutput(os.Stdout, activities, len(activities) == 0, "No activities found.", ActivityList(activities))
}

func filterByTag(activities []model.Activity, tag string) []model.Activity {
	out := activities[:0]
	for _, a := range activities {
		for _, t := range a.Tags {
			if strings.EqualFold(t, tag) {
				out = append(out, a)
				break
			}
		}
	}
	return out
}
