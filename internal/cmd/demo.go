package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/romdo/go-pace/internal/config"
	"github.com/romdo/go-pace/internal/demo"
	"github.com/romdo/go-pace/internal/notes"
	"github.com/romdo/go-pace/internal/panel"
)

// Output formats of the demo command.
const (
	outputTable = "table"
	outputYAML  = "yaml"
)

var (
	demoOutput  string
	demoQuery   string
	demoCountry string
	demoColors  bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted scenario and print the panels",
	Long: `Run a scripted scenario against the demo in real time: type a search
query one letter at a time, click the throttled button, walk through the
currying examples and add and delete notes. The panels are printed at the
end.

--colors adds the color changer and --country a university search, which
needs network access.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if demoOutput != outputTable && demoOutput != outputYAML {
			return fmt.Errorf("unknown output format %q", demoOutput)
		}

		app := demo.New(cfg, logger)
		defer func() {
			if err := app.Close(); err != nil {
				logger.Warn("Failed to close app", zap.Error(err))
			}
		}()

		s := &scenario{
			app:     app,
			cfg:     cfg,
			sleep:   sleepContext,
			query:   demoQuery,
			country: demoCountry,
			colors:  demoColors,
		}
		if err := s.run(cmd.Context()); err != nil {
			return err
		}

		return renderPanels(cmd.OutOrStdout(), app.Panels, demoOutput)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().StringVarP(&demoOutput, "output", "o", outputTable,
		"output format: table or yaml")
	demoCmd.Flags().StringVar(&demoQuery, "query", "Nepal",
		"search query typed into the debounced search box")
	demoCmd.Flags().StringVar(&demoCountry, "country", "",
		"country to search universities for (skipped when empty)")
	demoCmd.Flags().BoolVar(&demoColors, "colors", false,
		"run the color changer")
}

// scenario drives an App the way a user of the page would.
type scenario struct {
	app     *demo.App
	cfg     *config.Config
	sleep   func(context.Context, time.Duration) error
	query   string
	country string
	colors  bool
}

func (s *scenario) run(ctx context.Context) error {
	steps := []func(context.Context) error{
		s.typeQuery,
		s.clickButton,
		func(context.Context) error { return s.app.RunIdioms() },
		s.editNotes,
	}
	if s.colors {
		steps = append(steps, s.changeColors)
	}
	if s.country != "" {
		steps = append(steps, s.fetch)
	}

	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}

	return nil
}

// typeQuery types the query one letter at a time, each letter well within
// the search wait of the previous one, then waits for the search to fire.
func (s *scenario) typeQuery(ctx context.Context) error {
	wait := s.cfg.Search.Wait
	runes := []rune(s.query)

	for i := range runes {
		if i > 0 {
			if err := s.sleep(ctx, wait*3/10); err != nil {
				return err
			}
		}
		s.app.Search(string(runes[:i+1]))
	}

	return s.sleep(ctx, wait+wait/2)
}

// clickButton clicks at the start of the window, inside it, and just after
// it, which is two accepted clicks.
func (s *scenario) clickButton(ctx context.Context) error {
	wait := s.cfg.Click.Wait

	s.app.Click()
	if err := s.sleep(ctx, wait/4); err != nil {
		return err
	}
	s.app.Click()
	if err := s.sleep(ctx, wait*21/20-wait/4); err != nil {
		return err
	}
	s.app.Click()

	return nil
}

func (s *scenario) editNotes(context.Context) error {
	first, err := s.app.Delegated.Add("Buy milk")
	if err != nil {
		return err
	}
	if _, err := s.app.Delegated.Add("Walk the dog"); err != nil {
		return err
	}
	err = s.app.Delegated.Dispatch(notes.Event{
		Target: first.ID,
		Action: notes.ActionDelete,
	})
	if err != nil {
		return err
	}

	h, err := s.app.Traversal.Add("Water plants")
	if err != nil {
		return err
	}
	if _, err := s.app.Traversal.Add("Call home"); err != nil {
		return err
	}
	if err := h.Delete(); err != nil {
		return err
	}
	s.app.Traversal.LogContents()

	return nil
}

func (s *scenario) changeColors(ctx context.Context) error {
	// A failed step is logged to the async panel and ends the run, which is
	// part of the demo rather than an error of the scenario.
	_ = s.app.ChangeColors(ctx)

	return ctx.Err()
}

func (s *scenario) fetch(ctx context.Context) error {
	// Errors are logged to the fetch panel.
	_, _ = s.app.FetchUniversities(ctx, s.country)

	return ctx.Err()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type panelDump struct {
	Name  string     `yaml:"name"`
	Lines []lineDump `yaml:"lines"`
}

type lineDump struct {
	At   string `yaml:"at"`
	Text string `yaml:"text"`
}

func dumpPanels(set *panel.Set) []panelDump {
	var dumps []panelDump
	for _, name := range set.Names() {
		p := set.MustGet(name)
		d := panelDump{Name: name, Lines: []lineDump{}}
		for _, l := range p.Lines() {
			d.Lines = append(d.Lines, lineDump{
				At:   l.At.Format(time.RFC3339Nano),
				Text: l.Text,
			})
		}
		dumps = append(dumps, d)
	}

	return dumps
}

// renderPanels writes every panel to w as a table or yaml.
func renderPanels(w io.Writer, set *panel.Set, format string) error {
	dumps := dumpPanels(set)

	if format == outputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(dumps); err != nil {
			return fmt.Errorf("failed to encode panels: %w", err)
		}

		return enc.Close()
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Panel", "Time", "Message"})

	for _, d := range dumps {
		for _, l := range d.Lines {
			at := l.At
			if i := strings.IndexByte(at, 'T'); i >= 0 {
				at = at[i+1:]
			}
			t.AppendRow(table.Row{d.Name, at, l.Text})
		}
		t.AppendSeparator()
	}

	t.Render()

	return nil
}
