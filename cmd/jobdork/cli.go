package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/jobdork/internal/app"
	"github.com/hpungsan/jobdork/internal/board"
	"github.com/hpungsan/jobdork/internal/errors"
	"github.com/hpungsan/jobdork/internal/logging"
	"github.com/hpungsan/jobdork/internal/mcp"
	"github.com/hpungsan/jobdork/internal/metrics"
	"github.com/hpungsan/jobdork/internal/ops"
	"github.com/hpungsan/jobdork/internal/web"
)

// maxNotesBytes caps notes piped via stdin.
const maxNotesBytes = 64 * 1024

const timeLayout = "2006-01-02 15:04"

// newCLIApp creates the CLI application with all commands.
func newCLIApp(sess *app.Session, log logging.Logger) *cli.App {
	cliApp := &cli.App{
		Name:    "jobdork",
		Usage:   "Job search dorks and an application board",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "Output format: json|table"},
		},
		Before: func(c *cli.Context) error {
			if f := c.String("format"); f != "json" && f != "table" {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("unknown format %q (want json or table)", f)))
			}
			return nil
		},
		Commands: []*cli.Command{
			dorkCmd(sess),
			searchCmd(sess),
			historyCmd(sess),
			presetCmd(sess),
			jobCmd(sess),
			boardCmd(sess),
			blocklistCmd(sess),
			themeCmd(sess),
			statsCmd(sess),
			uiCmd(sess, log),
			mcpCmd(sess, log),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	cliApp.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return cliApp
}

// searchFlags are shared by dork, search and preset save.
func searchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "role", Aliases: []string{"r"}, Usage: "Job title or keywords"},
		&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "Location"},
		&cli.StringSliceFlag{Name: "site", Aliases: []string{"s"}, Usage: "Catalog site id (repeatable, or comma-separated)"},
		&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Recency: day|week|month|year"},
	}
}

func searchInput(c *cli.Context) ops.BuildDorkInput {
	return ops.BuildDorkInput{
		Role:       c.String("role"),
		Location:   c.String("location"),
		Sites:      c.StringSlice("site"),
		DateFilter: c.String("date"),
	}
}

// dorkCmd creates the dork command.
func dorkCmd(sess *app.Session) *cli.Command {
	return &cli.Command{
		Name:  "dork",
		Usage: "Build a search query and URL without recording it",
		Flags: searchFlags(),
		Action: func(c *cli.Context) error {
			output, err := ops.BuildDork(c.Context, sess, searchInput(c))
			if err != nil {
				return outputError(err)
			}
			return emit(c, output, func(t table.Writer) {
				t.AppendRows([]table.Row{{"Query", output.Query}, {"URL", output.URL}})
			})
		},
	}
}

// searchCmd creates the search command.
func searchCmd(sess *app.Session) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Run a search and record it in history",
		Flags: searchFlags(),
		Action: func(c *cli.Context) error {
			output, err := ops.PerformSearch(c.Context, sess, ops.PerformSearchInput(searchInput(c)))
			if err != nil {
				return outputError(err)
			}
			return emit(c, output, func(t table.Writer) {
				t.AppendRows([]table.Row{{"ID", output.HistoryID}, {"Query", output.Query}, {"URL", output.URL}})
			})
		},
	}
}

// historyCmd creates the history command group.
func historyCmd(sess *app.Session) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect and reuse past searches",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List searches, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum items to return"},
					&cli.IntFlag{Name: "offset", Value: 0, Usage: "Items to skip"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ListHistory(c.Context, sess, ops.ListHistoryInput{
						Limit:  c.Int("limit"),
						Offset: c.Int("offset"),
					})
					if err != nil {
						return outputError(err)
					}
					return emit(c, output, func(t table.Writer) {
						t.AppendHeader(table.Row{"ID", "Role", "Location", "Sites", "Date", "When"})
						for _, e := range output.Items {
							t.AppendRow(table.Row{e.ID, e.Role, e.Location, strings.Join(e.Sites, ","), e.DateFilter.Label(), e.CreatedAt.Local().Format(timeLayout)})
						}
					})
				},
			},
			{
				Name:  "clear",
				Usage: "Delete all history",
				Action: func(c *cli.Context) error {
					output, err := ops.ClearHistory(c.Context, sess)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c.App.Writer, output)
				},
			},
			{
				Name:      "apply",
				Usage:     "Print the query and URL of a past search",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := requireArg(c, "id")
					if err != nil {
						return err
					}
					output, err := ops.ApplyHistory(c.Context, sess, id)
					if err != nil {
						return outputError(err)
					}
					if !output.Applied {
						return outputError(errors.NewNotFound("history", id))
					}
					return outputJSON(c.App.Writer, output)
				},
			},
		},
	}
}

// presetCmd creates the preset command group.
func presetCmd(sess *app.Session) *cli.Command {
	return &cli.Command{
		Name:  "preset",
		Usage: "Manage named search presets",
		Subcommands: []*cli.Command{
			{
				Name:  "save",
				Usage: "Save a preset from the given search, or from the newest history entry",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true, Usage: "Preset name"},
				}, searchFlags()...),
				Action: func(c *cli.Context) error {
					input := ops.SavePresetInput{Name: c.String("name"), FromLatest: true}
					if c.String("role") != "" {
						s := searchInput(c)
						input.Search = &s
					}
					output, err := ops.SavePreset(c.Context, sess, input)
					if err != nil {
						return outputError(err)
					}
					if !output.Saved {
						return outputError(errors.NewInvalidRequest("nothing to save: pass --role or run a search first"))
					}
					return outputJSON(c.App.Writer, output)
				},
			},
			{
				Name:  "list",
				Usage: "List presets",
				Action: func(c *cli.Context) error {
					output, err := ops.ListPresets(c.Context, sess)
					if err != nil {
						return outputError(err)
					}
					return emit(c, output, func(t table.Writer) {
						t.AppendHeader(table.Row{"ID", "Name", "Role", "Sites", "Date"})
						for _, p := range output.Items {
							t.AppendRow(table.Row{p.ID, p.Name, p.Role, strings.Join(p.Sites, ","), p.DateFilter.Label()})
						}
					})
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a preset",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := requireArg(c, "id")
					if err != nil {
						return err
					}
					output, err := ops.DeletePreset(c.Context, sess, id)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c.App.Writer, output)
				},
			},
			{
				Name:      "apply",
				Usage:     "Print the query and URL of a preset",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := requireArg(c, "id")
					if err != nil {
						return err
					}
					output, err := ops.ApplyPreset(c.Context, sess, id)
					if err != nil {
						return outputError(err)
					}
					if !output.Applied {
						return outputError(errors.NewNotFound("preset", id))
					}
					return outputJSON(c.App.Writer, output)
				},
			},
		},
	}
}

// jobCmd creates the job command group.
func jobCmd(sess *app.Session) *cli.Command {
	return &cli.Command{
		Name:  "job",
		Usage: "Track job applications",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add an application",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "role", Aliases: []string{"r"}, Required: true, Usage: "Job title"},
					&cli.StringFlag{Name: "company", Aliases: []string{"c"}, Required: true, Usage: "Company"},
					&cli.StringFlag{Name: "status", Usage: "saved|applied|interview|offer|rejected (default saved)"},
					&cli.StringFlag{Name: "link", Usage: "Posting URL"},
					&cli.StringFlag{Name: "salary", Usage: "Salary"},
					&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "Location"},
					&cli.StringFlag{Name: "notes", Usage: "Notes (markdown)"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.AddJob(c.Context, sess, ops.AddJobInput{
						Role:     c.String("role"),
						Company:  c.String("company"),
						Status:   c.String("status"),
						Link:     c.String("link"),
						Salary:   c.String("salary"),
						Location: c.String("location"),
						Notes:    c.String("notes"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c.App.Writer, output)
				},
			},
			{
				Name:  "list",
				Usage: "List applications, most recently updated first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Usage: "Only this column"},
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum items to return"},
					&cli.IntFlag{Name: "offset", Value: 0, Usage: "Items to skip"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ListJobs(c.Context, sess, ops.ListJobsInput{
						Status: c.String("status"),
						Limit:  c.Int("limit"),
						Offset: c.Int("offset"),
					})
					if err != nil {
						return outputError(err)
					}
					return emit(c, output, func(t table.Writer) {
						t.AppendHeader(table.Row{"ID", "Role", "Company", "Status", "Updated"})
						for _, a := range output.Items {
							t.AppendRow(table.Row{a.ID, a.Role, a.Company, a.Status.Title(), a.DateUpdated.Local().Format(timeLayout)})
						}
					})
				},
			},
			{
				Name:      "get",
				Usage:     "Show one application",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := requireArg(c, "id")
					if err != nil {
						return err
					}
					output, err := ops.GetJob(c.Context, sess, id)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c.App.Writer, output)
				},
			},
			{
				Name:      "notes",
				Usage:     "Replace an application's notes (from --notes or stdin)",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "notes", Usage: "New notes; empty clears them"},
				},
				Action: func(c *cli.Context) error {
					id, err := requireArg(c, "id")
					if err != nil {
						return err
					}
					input := ops.EditNotesInput{ID: id}
					switch {
					case c.IsSet("notes"):
						notes := c.String("notes")
						input.Notes = &notes
					case stdinHasData():
						notes, err := readStdin(maxNotesBytes)
						if err != nil {
							return outputError(errors.NewInvalidRequest(err.Error()))
						}
						input.Notes = &notes
					default:
						return outputError(errors.NewInvalidRequest("notes must be passed with --notes or piped via stdin"))
					}

					output, err := ops.EditNotes(c.Context, sess, input)
					if err != nil {
						return outputError(err)
					}
					if output.Job == nil {
						return outputError(errors.NewNotFound("job", id))
					}
					return outputJSON(c.App.Writer, output)
				},
			},
			{
				Name:      "move",
				Usage:     "Move an application to another column",
				ArgsUsage: "<id> <status>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return outputError(errors.NewInvalidRequest("usage: jobdork job move <id> <status>"))
					}
					output, err := ops.MoveJob(c.Context, sess, ops.MoveJobInput{
						ID:     c.Args().Get(0),
						Status: c.Args().Get(1),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c.App.Writer, output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete an application",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id, err := requireArg(c, "id")
					if err != nil {
						return err
					}
					output, err := ops.DeleteJob(c.Context, sess, id)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c.App.Writer, output)
				},
			},
		},
	}
}

// boardCmd creates the board command.
func boardCmd(sess *app.Session) *cli.Command {
	return &cli.Command{
		Name:  "board",
		Usage: "Show the kanban board",
		Action: func(c *cli.Context) error {
			output, err := ops.Board(c.Context, sess)
			if err != nil {
				return outputError(err)
			}
			return emit(c, output, func(t table.Writer) { boardTable(t, output.Columns) })
		},
	}
}

// boardTable lays the columns side by side, one card per cell.
func boardTable(t table.Writer, cols []board.Column) {
	header := make(table.Row, len(cols))
	depth := 0
	for i, col := range cols {
		header[i] = fmt.Sprintf("%s (%d)", col.Title, len(col.Applications))
		depth = max(depth, len(col.Applications))
	}
	t.AppendHeader(header)
	for r := 0; r < depth; r++ {
		row := make(table.Row, len(cols))
		for i, col := range cols {
			if r < len(col.Applications) {
				a := col.Applications[r]
				row[i] = a.Role + "\n" + a.Company
			}
		}
		t.AppendRow(row)
	}
}

// blocklistCmd creates the blocklist command group.
func blocklistCmd(sess *app.Session) *cli.Command {
	return &cli.Command{
		Name:  "blocklist",
		Usage: "Companies excluded from every query",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Block a company",
				ArgsUsage: "<company>",
				Action: func(c *cli.Context) error {
					company := strings.Join(c.Args().Slice(), " ")
					output, err := ops.AddBlocked(c.Context, sess, company)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c.App.Writer, output)
				},
			},
			{
				Name:      "remove",
				Usage:     "Unblock a company",
				ArgsUsage: "<company>",
				Action: func(c *cli.Context) error {
					if _, err := requireArg(c, "company"); err != nil {
						return err
					}
					output, err := ops.RemoveBlocked(c.Context, sess, strings.Join(c.Args().Slice(), " "))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c.App.Writer, output)
				},
			},
			{
				Name:  "list",
				Usage: "List blocked companies",
				Action: func(c *cli.Context) error {
					output, err := ops.ListBlocked(c.Context, sess)
					if err != nil {
						return outputError(err)
					}
					return emit(c, output, func(t table.Writer) {
						t.AppendHeader(table.Row{"#", "Company"})
						for i, company := range output.Companies {
							t.AppendRow(table.Row{i + 1, company})
						}
					})
				},
			},
			{
				Name:  "import",
				Usage: "Merge companies from a .csv/.txt file, one per line (\"-\" reads stdin)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
				},
				Action: func(c *cli.Context) error {
					var (
						output *ops.ImportBlocklistOutput
						err    error
					)
					if path := c.String("path"); path == "-" {
						output, err = ops.ImportBlocklistFrom(c.Context, sess, os.Stdin)
					} else {
						output, err = ops.ImportBlocklist(c.Context, sess, path)
					}
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c.App.Writer, output)
				},
			},
			{
				Name:  "export",
				Usage: "Write the blocklist, one company per line (\"-\" writes stdout)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.jobdork/exports/jobtracker_blocklist.csv)"},
				},
				Action: func(c *cli.Context) error {
					if c.String("path") == "-" {
						if _, err := ops.ExportBlocklistTo(c.Context, sess, c.App.Writer); err != nil {
							return outputError(err)
						}
						fmt.Fprintln(c.App.Writer)
						return nil
					}
					output, err := ops.ExportBlocklist(c.Context, sess, c.String("path"))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c.App.Writer, output)
				},
			},
		},
	}
}

// themeCmd creates the theme command group.
func themeCmd(sess *app.Session) *cli.Command {
	return &cli.Command{
		Name:  "theme",
		Usage: "Show or change the web UI theme",
		Action: func(c *cli.Context) error {
			output, err := ops.GetTheme(c.Context, sess)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
		Subcommands: []*cli.Command{
			{
				Name:  "toggle",
				Usage: "Switch between dark and light",
				Action: func(c *cli.Context) error {
					output, err := ops.ToggleTheme(c.Context, sess)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c.App.Writer, output)
				},
			},
			{
				Name:      "set",
				Usage:     "Set the theme",
				ArgsUsage: "<dark|light>",
				Action: func(c *cli.Context) error {
					theme, err := requireArg(c, "theme")
					if err != nil {
						return err
					}
					output, err := ops.SetTheme(c.Context, sess, theme)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c.App.Writer, output)
				},
			},
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(sess *app.Session) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Search analytics and application counts",
		Action: func(c *cli.Context) error {
			output, err := ops.Stats(c.Context, sess)
			if err != nil {
				return outputError(err)
			}
			return emit(c, output, func(t table.Writer) {
				t.AppendRow(table.Row{"Searches", output.Search.TotalSearches})
				t.AppendRow(table.Row{"Distinct sites", output.Search.UniqueSites})
				if top := output.Search.TopRole(); top != "" {
					t.AppendRow(table.Row{"Top role", top})
				}
				t.AppendSeparator()
				for _, s := range board.Statuses {
					t.AppendRow(table.Row{s.Title(), output.Jobs[s]})
				}
				t.AppendFooter(table.Row{"Applications", output.Total})
			})
		},
	}
}

// uiCmd creates the ui command.
func uiCmd(sess *app.Session, log logging.Logger) *cli.Command {
	return &cli.Command{
		Name:  "ui",
		Usage: "Serve the web UI",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: web.DefaultPort, Usage: "Listen port"},
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Listen address"},
		},
		Action: func(c *cli.Context) error {
			srv, err := web.NewServer(sess, web.Options{
				Version: Version,
				Bind:    c.String("bind"),
				Port:    c.Int("port"),
				Logger:  log,
				Metrics: metrics.New(),
			})
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			if err := web.Run(srv, log); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

// mcpCmd creates the mcp command. Piping into jobdork with no arguments does the same.
func mcpCmd(sess *app.Session, log logging.Logger) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve MCP over stdio",
		Action: func(c *cli.Context) error {
			if err := mcp.Run(sess, Version, log); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

// Helper functions

// emit writes v as JSON, or as a table when --format=table and fill is set.
func emit(c *cli.Context, v any, fill func(table.Writer)) error {
	if c.String("format") != "table" || fill == nil {
		return outputJSON(c.App.Writer, v)
	}
	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.SetStyle(table.StyleLight)
	fill(t)
	t.Render()
	return nil
}

// outputJSON marshals result to w as JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if jErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", jErr.Code, jErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// requireArg returns the first positional argument.
func requireArg(c *cli.Context, name string) (string, error) {
	if c.NArg() == 0 || strings.TrimSpace(c.Args().First()) == "" {
		return "", outputError(errors.NewInvalidRequest(name + " is required"))
	}
	return c.Args().First(), nil
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads at most maxBytes from stdin.
func readStdin(maxBytes int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, maxBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("stdin exceeds %d bytes", maxBytes)
	}
	return strings.TrimSpace(string(data)), nil
}
