package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/revset/checkout/pkg/checkout"
	checkouterrors "github.com/revset/checkout/pkg/errors"
)

var (
	summaryLabelStyle = lipgloss.NewStyle().Bold(true)
	summaryValueStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"})
)

// isTerminal reports whether stdout is a TTY; progress rendering is
// suppressed when it is not.
func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// formatError renders an error with its code when it carries one.
func formatError(err error) string {
	var checkoutErr *checkouterrors.CheckoutError
	if errors.As(err, &checkoutErr) {
		return fmt.Sprintf("%s %s %s",
			pterm.Error.Prefix.Text,
			pterm.Error.MessageStyle.Sprint(string(checkoutErr.Code)),
			checkoutErr.Message,
		)
	}
	return fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error()))
}

// formatStats renders the post-apply summary.
func formatStats(stats checkout.Stats) string {
	line := func(label string, value int64) string {
		return fmt.Sprintf("%s %s",
			summaryLabelStyle.Render(label+":"),
			summaryValueStyle.Render(fmt.Sprintf("%d", value)),
		)
	}
	return fmt.Sprintf("%s  %s  %s  %s",
		line("removed", stats.Removed),
		line("updated", stats.Updated),
		line("meta", stats.MetaUpdated),
		line("bytes", stats.WrittenBytes),
	)
}
