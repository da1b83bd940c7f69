// Package diag provides categorized diagnostics for the migration pipeline.
//
// Parsers do not abort on the first malformed value. Recoverable problems are
// recorded on a Collector and the parse continues with a safe default; only
// critical problems surface as errors to the caller.
package diag

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Category classifies where a diagnostic originated.
type Category string

// Diagnostic categories.
const (
	CategoryIO            Category = "IO"
	CategoryParsing       Category = "PARSING"
	CategoryValidation    Category = "VALIDATION"
	CategoryConfiguration Category = "CONFIGURATION"
	CategoryInternal      Category = "INTERNAL"
)

// Severity ranks a diagnostic.
type Severity string

// Diagnostic severities. Warnings are always recovered, errors are recovered
// locally, criticals abort the current file.
const (
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// Diagnostic is one recorded problem.
type Diagnostic struct {
	Message  string   `json:"message"`
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	Recovery string   `json:"recovery,omitempty"`
	Source   string   `json:"source,omitempty"`
	Offset   int64    `json:"offset,omitempty"`
}

// Error implements the error interface so a Diagnostic can propagate as one.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("[%s/%s] %s", d.Category, d.Severity, d.Message)
}

// Collector accumulates diagnostics for a single parse.
type Collector struct {
	Source      string
	diagnostics []Diagnostic
}

// NewCollector creates a collector bound to a source file name.
func NewCollector(source string) *Collector {
	return &Collector{Source: source}
}

// Record adds a diagnostic and returns it.
func (c *Collector) Record(cat Category, sev Severity, msg, recovery string) *Diagnostic {
	d := Diagnostic{
		Message:  msg,
		Category: cat,
		Severity: sev,
		Recovery: recovery,
		Source:   c.Source,
	}
	c.diagnostics = append(c.diagnostics, d)
	return &c.diagnostics[len(c.diagnostics)-1]
}

// RecordAt adds a diagnostic carrying a byte offset into the source.
func (c *Collector) RecordAt(cat Category, sev Severity, offset int64, msg, recovery string) *Diagnostic {
	d := c.Record(cat, sev, msg, recovery)
	d.Offset = offset
	return d
}

// Warnf records a formatted warning.
func (c *Collector) Warnf(cat Category, format string, args ...any) {
	c.Record(cat, SeverityWarning, fmt.Sprintf(format, args...), "used default value")
}

// Errorf records a formatted recoverable error.
func (c *Collector) Errorf(cat Category, format string, args ...any) {
	c.Record(cat, SeverityError, fmt.Sprintf(format, args...), "skipped entry")
}

// Criticalf records and returns a critical diagnostic as an error.
func (c *Collector) Criticalf(cat Category, format string, args ...any) error {
	return c.Record(cat, SeverityCritical, fmt.Sprintf(format, args...), "aborted file")
}

// All returns every recorded diagnostic.
func (c *Collector) All() []Diagnostic {
	return c.diagnostics
}

// Messages returns the textual form of every diagnostic, for attaching to a
// parse result.
func (c *Collector) Messages() []string {
	out := make([]string, len(c.diagnostics))
	for i := range c.diagnostics {
		out[i] = c.diagnostics[i].Error()
	}
	return out
}

// Count returns the number of diagnostics at the given severity.
func (c *Collector) Count(sev Severity) int {
	n := 0
	for i := range c.diagnostics {
		if c.diagnostics[i].Severity == sev {
			n++
		}
	}
	return n
}

// HasErrors reports whether any ERROR or CRITICAL diagnostic was recorded.
func (c *Collector) HasErrors() bool {
	return c.Count(SeverityError) > 0 || c.Count(SeverityCritical) > 0
}

// Handler tracks diagnostic counts per (category, severity) across a whole
// pipeline run. Safe for concurrent use.
type Handler struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewHandler creates an empty handler.
func NewHandler() *Handler {
	return &Handler{counts: make(map[string]int)}
}

// Absorb merges a collector's diagnostics into the run-wide counts.
func (h *Handler) Absorb(c *Collector) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range c.diagnostics {
		d := &c.diagnostics[i]
		h.counts[string(d.Category)+"/"+string(d.Severity)]++
	}
}

// AbsorbAll merges detached diagnostics into the run-wide counts.
func (h *Handler) AbsorbAll(diags []Diagnostic) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range diags {
		h.counts[string(diags[i].Category)+"/"+string(diags[i].Severity)]++
	}
}

// Count returns the tracked count for a (category, severity) pair.
func (h *Handler) Count(cat Category, sev Severity) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counts[string(cat)+"/"+string(sev)]
}

// Total returns the count of diagnostics at the given severity across all
// categories.
func (h *Handler) Total(sev Severity) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for key, count := range h.counts {
		if strings.HasSuffix(key, "/"+string(sev)) {
			n += count
		}
	}
	return n
}

// Summary returns a stable one-line-per-pair report.
func (h *Handler) Summary() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	keys := make([]string, 0, len(h.counts))
	for key := range h.counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, fmt.Sprintf("%s: %d", key, h.counts[key]))
	}
	return out
}
