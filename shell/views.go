package shell

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"bookhub/library"
)

var (
	styleTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	styleHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	styleBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleInfo   = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	styleStatus = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
)

// View is one entity tab: fixed headers and the rows of the last refresh.
type View struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Replace swaps in a full row set.
func (v *View) Replace(rows []library.Row) {
	v.Rows = make([][]string, len(rows))
	for i, r := range rows {
		v.Rows[i] = r.Strings()
	}
}

// Render draws the view as a table.
func (v View) Render(w io.Writer) {
	io.WriteString(w, styleTitle.Render(v.Title)+"\n")
	if len(v.Rows) == 0 {
		io.WriteString(w, styleInfo.Render("No "+strings.ToLower(v.Title)+" yet.")+"\n")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleBorder).
		Headers(v.Headers...).
		Rows(v.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		})
	io.WriteString(w, t.String()+"\n")
}

// Views holds one region per entity tab.
type Views struct {
	Books      View
	Clients    View
	Users      View
	Operations View
}

func newViews() Views {
	return Views{
		Books:      View{Title: "Books", Headers: []string{"Code", "Name", "Description", "Category", "Author"}},
		Clients:    View{Title: "Clients", Headers: []string{"ID", "Name", "Email"}},
		Users:      View{Title: "Users", Headers: []string{"ID", "Username", "Email"}},
		Operations: View{Title: "Day Operations", Headers: []string{"Book", "Client", "Type", "From", "To"}},
	}
}
