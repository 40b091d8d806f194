package viewer

import (
	"fmt"
	"strings"
)

// HelpCategory groups key bindings for the help box.
type HelpCategory struct {
	Name     string
	Commands []HelpCommand
}

type HelpCommand struct {
	Key         string
	Description string
}

var helpCategories = []HelpCategory{
	{
		Name: "Tokens",
		Commands: []HelpCommand{
			{"Tab / →", "Focus next token"},
			{"S-Tab / ←", "Focus previous token"},
			{"Enter", "Pin or unpin focused token"},
			{"Esc", "Clear focus"},
			{"mouse", "Hover to preview, click to pin"},
		},
	},
	{
		Name: "View",
		Commands: []HelpCommand{
			{"1 2 3", "Lexical / grammatical / features"},
			{"l", "Cycle layer"},
			{"n / p", "Next / previous sentence"},
			{"e", "Export current view as SVG"},
			{"?", "Toggle this help"},
		},
	},
	{
		Name: "System",
		Commands: []HelpCommand{
			{"q", "Quit"},
			{"Ctrl+C", "Force quit"},
		},
	},
}

const helpInner = 50

// HelpLines returns the boxed help text, one entry per screen row.
func HelpLines() []string {
	bar := strings.Repeat("═", helpInner+2)
	lines := []string{
		"╔" + bar + "╗",
		fmt.Sprintf("║ %-*s ║", helpInner, "RIBBONS HELP"),
		"╠" + bar + "╣",
	}
	for i, cat := range helpCategories {
		lines = append(lines, fmt.Sprintf("║ %-*s ║", helpInner, cat.Name+":"))
		for _, cmd := range cat.Commands {
			lines = append(lines, fmt.Sprintf("║   %-*s %-*s ║", 10, cmd.Key, helpInner-13, cmd.Description))
		}
		if i < len(helpCategories)-1 {
			lines = append(lines, "║ "+strings.Repeat(" ", helpInner)+" ║")
		}
	}
	return append(lines, "╚"+bar+"╝")
}

// CompactHelp returns a single-line help hint
func CompactHelp() string {
	return "tab:focus ⏎:pin 1-3/l:layer n/p:sentence e:export ?:help q:quit"
}
