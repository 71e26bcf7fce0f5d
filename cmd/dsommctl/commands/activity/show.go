package activity

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/dsomm/cmd/dsommctl/cmdutil"
	"github.com/marmos91/dsomm/internal/cli/output"
	"github.com/marmos91/dsomm/pkg/model"
)

var showHTML bool

var showCmd = &cobra.Command{
	Use:   "show <uuid>",
	Short: "Show activity details",
	Long: `Show the details of one activity.

Markdown texts are printed as written in the data files. With --html the
server renders them and JSON or YAML output carries the HTML as well.

Examples:
  dsommctl activity show 11111111-0000-0000-0000-000000000001
  dsommctl activity show 11111111-0000-0000-0000-000000000001 --html -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showHTML, "html", false, "Include the texts rendered as HTML")
}

func runShow(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	a, err := client.GetActivity(args[0], showHTML)
	if err != nil {
		return fmt.Errorf("failed to get activity: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return output.Render(os.Stdout, format, a, nil)
	}

	d := a.DifficultyOfImplementation
	if err := output.SimpleTable(os.Stdout, [][2]string{
		{"UUID", a.UUID},
		{"Name", a.Name},
		{"Dimension", a.Category + " / " + a.Dimension},
		{"Level", strconv.Itoa(a.Level)},
		{"Tags", cmdutil.EmptyOr(strings.Join(a.Tags, ", "), "-")},
		{"Depends on", cmdutil.EmptyOr(strings.Join(a.DependsOn, ", "), "-")},
		{"Difficulty", fmt.Sprintf("knowledge %d, time %d, resources %d", d.Knowledge, d.Time, d.Resources)},
		{"SAMM", cmdutil.EmptyOr(strings.Join(a.References.SAMM2, ", "), "-")},
		{"ISO 27001:2017", cmdutil.EmptyOr(strings.Join(a.References.ISO27001v17, ", "), "-")},
		{"ISO 27001:2022", cmdutil.EmptyOr(strings.Join(a.References.ISO27001v22, ", "), "-")},
	}); err != nil {
		return err
	}

	for _, section := range []struct {
		title string
		text  model.MarkdownText
	}{
		{"Description", a.Description},
		{"Risk", a.Risk},
		{"Measure", a.Measure},
		{"Implementation guide", a.ImplementationGuide},
		{"Assessment", a.Assessment},
	} {
		if strings.TrimSpace(string(section.text)) == "" {
			continue
		}
		fmt.Printf("\n%s:\n%s\n", section.title, strings.TrimSpace(string(section.text)))
	}
	return nil
}
