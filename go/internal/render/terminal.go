package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mcdev12/hackclock/go/internal/alert"
	"github.com/mcdev12/hackclock/go/internal/countdown"
	"github.com/mcdev12/hackclock/go/internal/hackathon"
)

// Palette shared by every surface.
var (
	ColorPrimary = lipgloss.Color("39")
	ColorSuccess = lipgloss.Color("42")
	ColorWarning = lipgloss.Color("214")
	ColorError   = lipgloss.Color("203")
	ColorMuted   = lipgloss.Color("244")
)

// Terminal renders countdown state to a writer. With color on the countdown
// rewrites a single status line in place; otherwise every update is its own line.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	color   bool
	midLine bool

	renderer *lipgloss.Renderer
}

func NewTerminal(out io.Writer, color bool) *Terminal {
	return &Terminal{
		out:      out,
		color:    color,
		renderer: lipgloss.NewRenderer(out),
	}
}

func (t *Terminal) paint(fg lipgloss.Color, bold bool, s string) string {
	if !t.color {
		return s
	}
	return t.renderer.NewStyle().Foreground(fg).Bold(bold).Render(s)
}

// line writes a full line, finishing the live status line first.
func (t *Terminal) line(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.midLine {
		fmt.Fprintln(t.out)
		t.midLine = false
	}
	fmt.Fprintln(t.out, s)
}

// CountdownSink shows the countdown text, colored by phase.
func (t *Terminal) CountdownSink() countdown.Sink {
	return countdown.TextSink(func(text string, update countdown.Update) {
		styled := t.paint(countdownColor(update.Phase), update.Phase.Ended(), text)
		if !t.color {
			t.line(text)
			return
		}
		t.mu.Lock()
		fmt.Fprintf(t.out, "\r%s\x1b[K", styled)
		t.midLine = true
		t.mu.Unlock()
	})
}

func countdownColor(p countdown.Phase) lipgloss.Color {
	switch {
	case p.Kind == countdown.KindOpen && p.EndingSoon:
		return ColorWarning
	case p.Kind == countdown.KindOpen:
		return ColorPrimary
	case p.Kind == countdown.KindEnded, p.Kind == countdown.KindLoadError, p.Kind == countdown.KindInvalid:
		return ColorError
	default:
		return ColorMuted
	}
}

// SubmitSink prints a line whenever the submit controls flip between enabled and disabled.
func (t *Terminal) SubmitSink() countdown.Sink {
	return countdown.Toggle(countdown.SubmitDisabled, func(disabled bool, _ countdown.Update) {
		if disabled {
			t.line(t.paint(ColorMuted, false, "Submit: disabled"))
			return
		}
		t.line(t.paint(ColorSuccess, false, "Submit: enabled"))
	})
}

// MenuSink prints a line whenever the submission menu item is shown or hidden.
func (t *Terminal) MenuSink() countdown.Sink {
	return countdown.Toggle(countdown.MenuVisible, func(visible bool, _ countdown.Update) {
		if visible {
			t.line(t.paint(ColorMuted, false, "Menu: Submit Project"))
			return
		}
		t.line(t.paint(ColorMuted, false, "Menu: Submit Project hidden"))
	})
}

// BannerSink prints the closed banner once per transition into the ended phase.
func (t *Terminal) BannerSink() countdown.Sink {
	return countdown.Toggle(countdown.BannerVisible, func(visible bool, update countdown.Update) {
		if !visible {
			return
		}
		t.line(t.paint(ColorError, true, BannerText(update.FormattedDeadline)))
	})
}

// BannerText is the message shown once submissions are closed.
func BannerText(formattedDeadline string) string {
	return fmt.Sprintf("Submissions are closed. The deadline was %s.", formattedDeadline)
}

// DetailsSink prints the hackathon copy with its derived deadlines.
func (t *Terminal) DetailsSink() hackathon.DetailsSink {
	return hackathon.DetailsSinkFunc(func(d hackathon.Details) {
		t.line(t.FormatDetails(d))
	})
}

func (t *Terminal) FormatDetails(d hackathon.Details) string {
	var b strings.Builder
	if d.Title != "" {
		b.WriteString(t.paint(ColorPrimary, true, d.Title))
		b.WriteString("\n")
	}
	if d.Description != "" {
		b.WriteString(d.Description)
		b.WriteString("\n")
	}
	if d.DeadlineText != "" {
		b.WriteString(d.DeadlineText)
		b.WriteString("\n")
	}
	if d.RegistrationText != "" {
		b.WriteString(d.RegistrationText)
		b.WriteString("\n")
	}
	if len(d.Rules) > 0 {
		b.WriteString(t.paint(ColorMuted, true, "Rules"))
		b.WriteString("\n")
		for _, rule := range d.Rules {
			b.WriteString("  - ")
			b.WriteString(rule)
			b.WriteString("\n")
		}
	}
	prizes := []struct{ place, prize string }{
		{"1st", d.Prizes.First},
		{"2nd", d.Prizes.Second},
		{"3rd", d.Prizes.Third},
	}
	for _, p := range prizes {
		if p.prize == "" {
			continue
		}
		fmt.Fprintf(&b, "  %s: %s\n", p.place, p.prize)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Alert implements alert.Alerter.
func (t *Terminal) Alert(level alert.Level, message string) {
	t.line(t.paint(alertColor(level), false, fmt.Sprintf("[%s] %s", level, message)))
}

func alertColor(level alert.Level) lipgloss.Color {
	switch level {
	case alert.LevelSuccess:
		return ColorSuccess
	case alert.LevelWarning:
		return ColorWarning
	case alert.LevelDanger:
		return ColorError
	default:
		return ColorPrimary
	}
}
