package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/greendilt/digicarbon/internal/footprint"
	"github.com/greendilt/digicarbon/internal/greenops"
	"github.com/greendilt/digicarbon/internal/insight"
)

// Column widths for the breakdown table.
const (
	categoryColumnWidth = 22
	valueColumnWidth    = 20
	shareColumnWidth    = 8
	percentMultiplier   = 100
	borderPadding       = 2
)

// RenderRoleSelect renders the first screen.
func RenderRoleSelect(cursor int) string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Digital carbon footprint"))
	sb.WriteString("\n")
	sb.WriteString(LabelStyle.Render("Who are you?"))
	sb.WriteString("\n\n")

	for i, r := range footprint.Roles() {
		if i == cursor {
			sb.WriteString(SelectedStyle.Render(cursorMarker + r.Label()))
		} else {
			sb.WriteString(noCursor + r.Label())
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(SubtleStyle.Render("↑/↓ choose • enter continue • q quit"))
	return sb.String()
}

func (m *Model) renderForm() string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Your digital habits – " + m.ctrl.Role().Label()))
	sb.WriteString("\n")

	section := "\x00"
	for i, f := range m.fields {
		if f.section != section {
			section = f.section
			if section != "" {
				sb.WriteString(SectionStyle.Render(section))
			}
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderField(i, f))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(SubtleStyle.Render(
		"↑/↓ move • ←/→ change • enter edit/confirm • x remove device • ctrl+s calculate • q quit"))
	return sb.String()
}

func (m *Model) renderField(i int, f field) string {
	selected := i == m.cursor
	marker := noCursor
	if selected {
		marker = cursorMarker
	}

	value := f.value
	switch {
	case selected && m.editing:
		value = m.textInput.View()
	case f.kind == fieldChoice || (f.kind == fieldAction && f.cycle != nil):
		value = "‹ " + value + " ›"
	}

	if f.kind == fieldAction && f.cycle == nil {
		label := "[ " + f.label + " ]"
		if selected {
			return SelectedStyle.Render(marker + label)
		}
		return marker + label
	}

	label := fmt.Sprintf("%-44s", f.label)
	if selected {
		return SelectedStyle.Render(marker+label) + " " + ValueStyle.Render(value)
	}
	return marker + LabelStyle.Render(label) + " " + value
}

// NewBreakdownTable builds the category table of the results screen.
func NewBreakdownTable(b footprint.Breakdown, opts Options) table.Model {
	columns := []table.Column{
		{Title: "Category", Width: categoryColumnWidth},
		{Title: "Emissions / year", Width: valueColumnWidth},
		{Title: "Share", Width: shareColumnWidth},
	}

	total := b.Total()
	rows := make([]table.Row, 0, len(footprint.Categories())+1)
	for _, c := range footprint.Categories() {
		v := b.Value(c)
		share := "–"
		if total != 0 {
			share = greenops.FormatFloat(v/total*percentMultiplier, 1) + "%"
		}
		rows = append(rows, table.Row{c.Label(), greenops.FormatMass(v, opts.Unit, opts.Precision), share})
	}
	rows = append(rows, table.Row{"Total", greenops.FormatMass(total, opts.Unit, opts.Precision), ""})

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1),
	)
	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = s.Cell
	t.SetStyles(s)
	return t
}

// RenderResults renders the results screen.
func RenderResults(p insight.Payload, shares []footprint.DeviceShare, opts Options, width int) string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Your annual digital footprint"))
	sb.WriteString("\n")
	sb.WriteString(ValueStyle.Render(greenops.FormatMass(p.Total, opts.Unit, opts.Precision)))
	sb.WriteString("\n")
	sb.WriteString(SubtleStyle.Render(p.EquivalentText))
	sb.WriteString("\n\n")

	sb.WriteString(NewBreakdownTable(p.Breakdown, opts).View())
	sb.WriteString("\n")

	if len(shares) > 0 {
		sb.WriteString(SectionStyle.Render("Devices"))
		sb.WriteString("\n")
		for _, s := range shares {
			sb.WriteString(fmt.Sprintf("  %-24s production %s • end of life %s\n",
				s.Entry.Type.Label(),
				greenops.FormatMass(s.Production, opts.Unit, opts.Precision),
				renderEndOfLife(s.EndOfLife, opts)))
		}
	}

	var tips strings.Builder
	tips.WriteString(WarnStyle.Render("Biggest source: " + p.DominantLabel))
	tips.WriteString("\n")
	for _, tip := range p.Tips {
		tips.WriteString(renderTip(tip))
	}
	tips.WriteString("\n")
	tips.WriteString(SectionStyle.Render("More ideas"))
	tips.WriteString("\n")
	for _, bt := range p.BonusTips {
		tips.WriteString(LabelStyle.Render(bt.Category.Label() + ": "))
		tips.WriteString(renderTip(bt.Tip))
	}
	sb.WriteString("\n")
	sb.WriteString(BoxStyle.Width(max(width-borderPadding, 1)).Render(strings.TrimRight(tips.String(), "\n")))
	sb.WriteString("\n\n")
	sb.WriteString(SubtleStyle.Render("b edit answers • t new tips • r start over • q quit"))
	return sb.String()
}

// renderEndOfLife colors recycling credits green.
func renderEndOfLife(kg float64, opts Options) string {
	text := greenops.FormatMass(kg, opts.Unit, opts.Precision)
	if kg < 0 {
		return GoodStyle.Render(text)
	}
	return text
}

func renderTip(tip string) string {
	headline, detail := insight.SplitTip(tip)
	if detail == "" {
		return "• " + headline + "\n"
	}
	return "• " + ValueStyle.Render(headline) + " " + detail + "\n"
}
