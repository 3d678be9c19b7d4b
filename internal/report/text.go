package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// WriteText renders a human-readable summary of p. Colors are used only when
// w is a terminal.
func WriteText(w io.Writer, p *Plan) error {
	r := lipgloss.NewRenderer(w)

	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	heading := r.NewStyle().Bold(true)
	dim := r.NewStyle().Foreground(lipgloss.Color("#888888"))
	wait := r.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	box := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1)

	summary := fmt.Sprintf("%s\n%d passes · %d levels · %d queues · %d edges · %d waits",
		title.Render("Render graph plan"),
		p.Stats.Passes, p.Stats.Levels, p.Stats.Queues, p.Stats.Edges, p.Stats.Waits)

	var b strings.Builder
	b.WriteString(box.Render(summary))
	b.WriteString("\n")

	queueWidth := 0
	for _, q := range p.Queues {
		queueWidth = max(queueWidth, len(q.Name))
	}
	queueCol := r.NewStyle().Width(queueWidth + 2)

	for _, l := range p.Levels {
		b.WriteString("\n")
		b.WriteString(heading.Render(fmt.Sprintf("Level %d", l.Index)))
		b.WriteString("\n")

		for _, name := range l.Passes {
			pass, _ := p.Pass(name)
			line := "  " + queueCol.Render(pass.QueueName) + pass.Name
			if len(pass.Flags) > 0 {
				line += dim.Render(" [" + strings.Join(pass.Flags, ",") + "]")
			}
			if len(pass.Waits) > 0 {
				line += wait.Render(" waits on " + strings.Join(pass.Waits, ", "))
			}
			if pass.SignalRequired {
				line += dim.Render(" (signals)")
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		if len(l.ReadByMultipleQueues) > 0 {
			b.WriteString(dim.Render("  read by several queues: " + strings.Join(l.ReadByMultipleQueues, ", ")))
			b.WriteString("\n")
		}
	}

	if len(p.Resources) > 0 {
		b.WriteString("\n")
		b.WriteString(heading.Render("Resources"))
		b.WriteString("\n")
		nameWidth := 0
		for _, res := range p.Resources {
			nameWidth = max(nameWidth, len(res.Name))
		}
		nameCol := r.NewStyle().Width(nameWidth + 2)
		for _, res := range p.Resources {
			fmt.Fprintf(&b, "  %s%s\n", nameCol.Render(res.Name), dim.Render(fmt.Sprintf("[%d..%d]", res.First, res.Last)))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
