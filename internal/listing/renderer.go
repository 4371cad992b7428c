package listing

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/temirov/repokeeper/internal/shared"
)

const (
	repositoryColumnHeaderConstant = "REPOSITORY"
	visibilityColumnHeaderConstant = "VISIBILITY"
	roleColumnHeaderConstant       = "ROLE"
	starsColumnHeaderConstant      = "STARS"
	columnSeparatorConstant        = "  "
	emptyListingMessageConstant    = "No repositories found."
	headerColorConstant            = "12"
	collaboratorColorConstant      = "11"
)

// TableRenderer renders repository listings as aligned text tables. Styles
// are applied only when the output is an interactive terminal.
type TableRenderer struct {
	colorEnabled      bool
	headerStyle       lipgloss.Style
	collaboratorStyle lipgloss.Style
}

// NewTableRenderer builds a renderer, styling output when colorEnabled.
func NewTableRenderer(colorEnabled bool) *TableRenderer {
	return &TableRenderer{
		colorEnabled:      colorEnabled,
		headerStyle:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(headerColorConstant)),
		collaboratorStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(collaboratorColorConstant)),
	}
}

// IsInteractiveTerminal reports whether the file is attached to a terminal
// that can render styled output.
func IsInteractiveTerminal(outputFile *os.File) bool {
	if outputFile == nil {
		return false
	}
	return isatty.IsTerminal(outputFile.Fd()) || isatty.IsCygwinTerminal(outputFile.Fd())
}

// Render produces the listing table.
func (renderer *TableRenderer) Render(repositories []shared.RepositoryRef) string {
	if len(repositories) == 0 {
		return emptyListingMessageConstant
	}

	headerCells := []string{repositoryColumnHeaderConstant, visibilityColumnHeaderConstant, roleColumnHeaderConstant, starsColumnHeaderConstant}
	tableRows := make([][]string, 0, len(repositories))
	for _, repository := range repositories {
		tableRows = append(tableRows, []string{
			repository.FullName(),
			string(repository.Visibility),
			string(repository.Role),
			strconv.Itoa(repository.Stargazers),
		})
	}

	columnWidths := make([]int, len(headerCells))
	for columnIndex, headerCell := range headerCells {
		columnWidths[columnIndex] = len(headerCell)
	}
	for _, tableRow := range tableRows {
		for columnIndex, cellValue := range tableRow {
			if len(cellValue) > columnWidths[columnIndex] {
				columnWidths[columnIndex] = len(cellValue)
			}
		}
	}

	renderedLines := make([]string, 0, len(tableRows)+1)
	renderedLines = append(renderedLines, renderer.renderHeader(headerCells, columnWidths))
	for rowIndex, tableRow := range tableRows {
		renderedLines = append(renderedLines, renderer.renderRow(tableRow, columnWidths, repositories[rowIndex].Role))
	}
	return strings.Join(renderedLines, "\n")
}

func (renderer *TableRenderer) renderHeader(headerCells []string, columnWidths []int) string {
	headerLine := joinPadded(headerCells, columnWidths)
	if renderer.colorEnabled {
		return renderer.headerStyle.Render(headerLine)
	}
	return headerLine
}

func (renderer *TableRenderer) renderRow(rowCells []string, columnWidths []int, role shared.RepositoryRole) string {
	rowLine := joinPadded(rowCells, columnWidths)
	if renderer.colorEnabled && role == shared.RoleCollaborator {
		return renderer.collaboratorStyle.Render(rowLine)
	}
	return rowLine
}

func joinPadded(cells []string, columnWidths []int) string {
	paddedCells := make([]string, 0, len(cells))
	for columnIndex, cellValue := range cells {
		paddedCells = append(paddedCells, fmt.Sprintf("%-*s", columnWidths[columnIndex], cellValue))
	}
	return strings.TrimRight(strings.Join(paddedCells, columnSeparatorConstant), " ")
}
