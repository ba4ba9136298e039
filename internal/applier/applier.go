// Package applier projects a content document onto a parsed page.
//
// Each section (identity, theme, hero, services, contact) is applied on its own.
// Targets are found through declared slots (data-content="<field path>") first and
// through the legacy selectors and text heuristics of the original markup second.
// A field whose target cannot be found is skipped; nothing here returns an error.
package applier

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/salonsite/internal/content"
	"git.home.luguber.info/inful/salonsite/internal/dom"
	"git.home.luguber.info/inful/salonsite/internal/logfields"
	"git.home.luguber.info/inful/salonsite/internal/metrics"
)

// SlotAttr is the attribute that declares which content field an element displays.
const SlotAttr = "data-content"

// Applier applies content documents to pages.
type Applier struct {
	logger  *slog.Logger
	metrics metrics.Recorder
}

// Option configures an Applier.
type Option func(*Applier)

func WithLogger(l *slog.Logger) Option {
	return func(a *Applier) { a.logger = l }
}

func WithRecorder(r metrics.Recorder) Option {
	return func(a *Applier) { a.metrics = metrics.OrNoop(r) }
}

// New creates an Applier.
func New(opts ...Option) *Applier {
	a := &Applier{logger: slog.Default(), metrics: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Failure records a section step that could not run, such as a selector that did not compile.
type Failure struct {
	Section  string
	Selector string
	Err      error
}

// Report describes what an Apply call touched.
type Report struct {
	Applied  []string
	Skipped  []string
	Failures []Failure
	// Dropped counts services items that had no slot on the page.
	Dropped int
}

type section struct {
	name  string
	apply func(*run, content.Document)
}

var sections = []section{
	{"site", func(r *run, d content.Document) { applyIdentity(r, d.Site) }},
	{"theme", func(r *run, d content.Document) { applyTheme(r, d.Theme) }},
	{"hero", func(r *run, d content.Document) { applyHero(r, d.Hero) }},
	{"services", func(r *run, d content.Document) { applyServices(r, d.Services) }},
	{"contact", func(r *run, d content.Document) { applyContact(r, d.Contact) }},
}

// Apply writes every present field of doc into page. Absent sections and fields leave
// the page untouched. Applying the same document twice yields the same page.
func (a *Applier) Apply(doc content.Document, page *dom.Document) Report {
	start := time.Now()
	r := &run{page: page}
	for _, s := range sections {
		a.applySection(r, s, doc)
	}
	a.metrics.ObserveApplyDuration(time.Since(start))

	for _, f := range r.report.Failures {
		a.logger.Debug("Apply step failed",
			logfields.Section(f.Section), logfields.Selector(f.Selector), logfields.Error(f.Err))
	}
	if len(r.report.Skipped) > 0 {
		a.logger.Debug("Content fields without a page target", slog.Any("fields", r.report.Skipped))
	}
	return r.report
}

func (a *Applier) applySection(r *run, s section, doc content.Document) {
	defer func() {
		if rec := recover(); rec != nil {
			r.fail(s.name, "", fmt.Errorf("panic: %v", rec))
		}
	}()
	before := len(r.report.Skipped)
	s.apply(r, doc)
	for range r.report.Skipped[before:] {
		a.metrics.IncApplySkipped(s.name)
	}
}

// run carries the page and the report through one Apply call.
type run struct {
	page   *dom.Document
	report Report
}

func (r *run) fail(section, selector string, err error) {
	r.report.Failures = append(r.report.Failures, Failure{Section: section, Selector: selector, Err: err})
}

func (r *run) applied(path string) { r.report.Applied = append(r.report.Applied, path) }
func (r *run) skipped(path string) { r.report.Skipped = append(r.report.Skipped, path) }

// query runs selector, recording a failure instead of returning an error.
func (r *run) query(section, selector string) []*html.Node {
	nodes, err := r.page.Query(selector)
	if err != nil {
		r.fail(section, selector, err)
		return nil
	}
	return nodes
}

// slot returns the elements declared for path, or the matches of the first legacy
// selector that finds anything.
func (r *run) slot(section, path string, legacy ...string) []*html.Node {
	if nodes := r.query(section, slotSelector(path)); len(nodes) > 0 {
		return nodes
	}
	for _, sel := range legacy {
		if nodes := r.query(section, sel); len(nodes) > 0 {
			return nodes
		}
	}
	return nil
}

// slotFirst is slot limited to the first element.
func (r *run) slotFirst(section, path string, legacy ...string) []*html.Node {
	nodes := r.slot(section, path, legacy...)
	if len(nodes) > 1 {
		return nodes[:1]
	}
	return nodes
}

// setText writes value into every node, or records path as skipped when there are none.
func (r *run) setText(nodes []*html.Node, path, value string) {
	if len(nodes) == 0 {
		r.skipped(path)
		return
	}
	for _, n := range nodes {
		dom.SetText(n, value)
	}
	r.applied(path)
}

func slotSelector(path string) string {
	return fmt.Sprintf(`[%s=%q]`, SlotAttr, path)
}

// setLabel replaces the text of n while keeping its <i> icon children in place.
func setLabel(n *html.Node, label string) {
	var icons []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "i" {
			icons = append(icons, c)
		}
	}
	dom.RemoveChildren(n)
	for _, icon := range icons {
		n.AppendChild(icon)
	}
	if len(icons) > 0 {
		label = " " + label
	}
	n.AppendChild(dom.NewText(label))
}
