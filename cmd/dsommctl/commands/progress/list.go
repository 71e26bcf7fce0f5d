package progress

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/timeutil"
	"github.com/marmos91/dsomm/pkg/apiclient"
	"github.com/marmos91/dsomm/pkg/model"
)

var (
	listTeam     string
	listActivity string
	listAll      bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recorded progress",
	Long: `List the current progress state of teams on activities.

By default only the default team of the current context is listed; use
--team to pick another team or --all for every team.

Examples:
  dsommctl progress list
  dsommctl progress list --team "Team B"
  dsommctl progress list --all --activity 11111111-0000-0000-0000-000000000001
  dsommctl progress list --all -o yaml`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listTeam, "team", "t", "", "Team to list (default from context)")
	listCmd.Flags().StringVarP(&listActivity, "activity", "a", "", "Only this activity uuid")
	listCmd.Flags().BoolVar(&listAll, "all", false, "List every team")
}

// Entry is the current state of one team on one activity.
type Entry struct {
	ActivityUUID string    `json:"activityUuid"`
	Activity     string    `json:"activity"`
	Team         string    `json:"team"`
	State        string    `json:"state"`
	Date         time.Time `json:"date"`
}

// EntryList is a list of progress entries for table rendering.
type EntryList struct {
	Entries []Entry
	Layout  string
}

// Headers implements TableRenderer.
func (el EntryList) Headers() []string {
	return []string{"ACTIVITY", "TEAM", "STATE", "SINCE"}
}

// Rows implements TableRenderer.
func (el EntryList) Rows() [][]string {
	rows := make([][]string, 0, len(el.Entries))
	for _, e := range el.Entries {
		rows = append(rows, []string{
			cmdutil.Truncate(cmdutil.EmptyOr(e.Activity, e.ActivityUUID), 50),
			e.Team,
			e.State,
			timeutil.FormatDate(&e.Date, el.Layout),
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	team := ""
	if !listAll {
		var err error
		if team, err = cmdutil.ResolveTeam(listTeam); err != nil {
			return err
		}
	}

	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	meta, err := client.Meta()
	if err != nil {
		return fmt.Errorf("failed to get meta: %w", err)
	}
	progress, err := client.ListProgress()
	if err != nil {
		return fmt.Errorf("failed to list progress: %w", err)
	}
	names, err := activityNames(client)
	if err != nil {
		return err
	}

	entries := buildEntries(progress, meta.ProgressTitles, names, team, listActivity)

	layout := timeutil.DateLayout
	if prefs, err := client.Preferences(); err == nil && prefs.DateFormat != "" {
		layout = prefs.DateFormat
	}

	return cmdutil.PrintOutput(os.Stdout, entries, len(entries) == 0, "No progress recorded.",
		EntryList{Entries: entries, Layout: layout})
}

func activityNames(client *apiclient.Client) (map[string]string, error) {
	activities, err := client.ListActivities(apiclient.ActivityQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	names := make(map[string]string, len(activities))
	for _, a := range activities {
		names[a.UUID] = a.Name
	}
	return names, nil
}

// buildEntries reduces the progress to the latest reached state per team
// and activity. Empty team or activity select all.
func buildEntries(progress model.Progress, titles []string, names map[string]string, team, activity string) []Entry {
	entries := []Entry{}
	for uuid, teams := range progress {
		if activity != "" && uuid != activity {
			continue
		}
		for t, tp := range teams {
			if team != "" && t != team {
				continue
			}
			state, date, ok := currentState(tp, titles)
			if !ok {
				continue
			}
			entries = append(entries, Entry{
				ActivityUUID: uuid,
				Activity:     names[uuid],
				Team:         t,
				State:        state,
				Date:         date,
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Activity != entries[j].Activity {
			return entries[i].Activity < entries[j].Activity
		}
		return entries[i].Team < entries[j].Team
	})
	return entries
}

// currentState returns the last title, in definition order, the team reached.
func currentState(tp model.TeamProgress, titles []string) (string, time.Time, bool) {
	for i := len(titles) - 1; i >= 0; i-- {
		if d, ok := tp[titles[i]]; ok {
			return titles[i], d, true
		}
	}
	return "", time.Time{}, false
}
