package render

import (
	"fmt"
	"strings"

	"github.com/mcdev12/hackclock/go/clients/hackathon_client"
)

const (
	NoSubmissionsText = "No submissions yet."
	NoWinnersText     = "Winners have not been announced yet."
)

// Ordinal renders n with its English suffix: 1st, 2nd, 3rd, 4th, 11th, 21st.
func Ordinal(n int) string {
	suffixes := [...]string{"th", "st", "nd", "rd"}
	v := n % 100
	if v < 0 {
		v = -v
	}
	suffix := "th"
	switch {
	case v >= 20 && (v-20)%10 < len(suffixes):
		suffix = suffixes[(v-20)%10]
	case v < len(suffixes):
		suffix = suffixes[v]
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// FormatSubmissions lists submissions in the order given.
func (t *Terminal) FormatSubmissions(submissions []hackathon_client.Submission) string {
	if len(submissions) == 0 {
		return t.paint(ColorMuted, false, NoSubmissionsText)
	}
	var b strings.Builder
	for i, s := range submissions {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s: %s\n", t.paint(ColorPrimary, true, s.TeamName), s.ProjectName)
		fields := []struct{ label, value string }{
			{"Email", s.Email},
			{"GitHub", s.GitHubRepo},
			{"Demo video", s.DemoVideo},
			{"Live demo", s.LiveDemoURL},
			{"Submitted", s.SubmittedAt},
		}
		for _, f := range fields {
			if f.value == "" {
				continue
			}
			fmt.Fprintf(&b, "  %s: %s\n", f.label, f.value)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatWinners lists winners with their ordinal place.
func (t *Terminal) FormatWinners(winners []hackathon_client.Winner) string {
	if len(winners) == 0 {
		return t.paint(ColorMuted, false, NoWinnersText)
	}
	var b strings.Builder
	for i, w := range winners {
		place := t.paint(ColorSuccess, true, Ordinal(i+1)+" Place")
		fmt.Fprintf(&b, "%s: %s, %s\n", place, w.TeamName, w.ProjectName)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Print writes a block of text as whole lines.
func (t *Terminal) Print(s string) {
	t.line(s)
}
