package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/99minutos/event-console/internal/core/domain"
)

// Presenter renders command results.
type Presenter interface {
	Prompt(prompt string)
	Message(format string, args ...any)
	Error(msg string)
	Events(heading string, events []domain.Event)
	Names(heading string, names []string)
}

// TextPresenter writes plain text lines.
type TextPresenter struct {
	w io.Writer
}

func NewTextPresenter(w io.Writer) *TextPresenter {
	return &TextPresenter{w: w}
}

func (p *TextPresenter) Prompt(prompt string) {
	if prompt != "" {
		fmt.Fprint(p.w, prompt)
	}
}

func (p *TextPresenter) Message(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *TextPresenter) Error(msg string) {
	fmt.Fprintf(p.w, "error: %s\n", msg)
}

func (p *TextPresenter) Events(heading string, events []domain.Event) {
	fmt.Fprintf(p.w, "%s (%d):\n", heading, len(events))
	if len(events) == 0 {
		fmt.Fprintln(p.w, "  (none)")
		return
	}
	for _, e := range events {
		fmt.Fprintf(p.w, "  %s  %q  host=%s  seats=%s%s\n", e.ID, e.Title, e.Owner, seats(e), eventFlags(e))
	}
}

func (p *TextPresenter) Names(heading string, names []string) {
	fmt.Fprintf(p.w, "%s (%d):\n", heading, len(names))
	if len(names) == 0 {
		fmt.Fprintln(p.w, "  (none)")
		return
	}
	for _, n := range names {
		fmt.Fprintf(p.w, "  %s\n", n)
	}
}

func seats(e domain.Event) string {
	if e.Capacity == 0 {
		return fmt.Sprintf("%d/unlimited", e.Reserved)
	}
	return fmt.Sprintf("%d/%d", e.Reserved, e.Capacity)
}

func eventFlags(e domain.Event) string {
	var flags []string
	if e.StartsAt != nil {
		flags = append(flags, "starts="+e.StartsAt.Format(startsAtLayout))
	}
	if !e.Published {
		flags = append(flags, "draft")
	}
	if len(flags) == 0 {
		return ""
	}
	return "  " + strings.Join(flags, "  ")
}
