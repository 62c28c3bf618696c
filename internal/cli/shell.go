package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hession/npmate/internal/logger"
)

const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorRed   = "\033[31m"
)

// commands that make no sense inside a shell session
var shellExcluded = map[string]bool{"shell": true, "serve": true}

func newShellCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive prompt with completion; the NPM login is shared by all lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.Config(); err != nil {
				return err
			}
			app.runShell(cmd.Context())
			return nil
		},
	}
}

func (a *App) runShell(ctx context.Context) {
	fmt.Fprintf(a.out, "\n%snpmate v%s%s - Nginx Proxy Manager shell\n", colorCyan, Version, colorReset)
	fmt.Fprintf(a.out, "%sType help for commands, exit to quit. Tab completes.%s\n\n", colorGray, colorReset)

	tree := NewRootCommand(a)
	p := prompt.New(
		func(line string) { a.execLine(ctx, line) },
		func(d prompt.Document) []prompt.Suggest {
			return suggest(tree, d.TextBeforeCursor())
		},
		prompt.OptionPrefix("npm> "),
		prompt.OptionPrefixTextColor(prompt.Cyan),
		prompt.OptionTitle("npmate"),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			return breakline && isExit(in)
		}),
	)
	logger.Debug("shell session started")
	p.Run()
	logger.Debug("shell session ended")
}

func isExit(line string) bool {
	switch strings.TrimSpace(line) {
	case "exit", "quit", "/exit", "/quit":
		return true
	}
	return false
}

// execLine runs one shell line on a fresh command tree and the shared client
func (a *App) execLine(ctx context.Context, line string) {
	args, err := shellwords.Parse(line)
	if err != nil {
		fmt.Fprintf(a.errOut, "%sError: %v%s\n", colorRed, err, colorReset)
		return
	}
	if len(args) == 0 || isExit(line) {
		return
	}
	if args[0] == "help" && len(args) == 1 {
		writeUsage(a.out, NewRootCommand(a))
		return
	}
	if shellExcluded[args[0]] {
		fmt.Fprintf(a.errOut, "%sError: %s is not available inside the shell%s\n", colorRed, args[0], colorReset)
		return
	}

	if err := Execute(ctx, a, args); err != nil {
		logger.Warn("shell command %q failed: %v", args[0], err)
		fmt.Fprintf(a.errOut, "%sError: %v%s\n", colorRed, err, colorReset)
	}
}

// suggest completes commands, subcommands and flags for the text typed so far
func suggest(root *cobra.Command, text string) []prompt.Suggest {
	words := strings.Fields(text)
	current := ""
	if len(words) > 0 && !strings.HasSuffix(text, " ") {
		current = words[len(words)-1]
		words = words[:len(words)-1]
	}

	cmd := root
	for _, word := range words {
		next := findSubcommand(cmd, word)
		if next == nil {
			break
		}
		cmd = next
	}

	var suggestions []prompt.Suggest
	if strings.HasPrefix(current, "-") {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			suggestions = append(suggestions, prompt.Suggest{Text: "--" + f.Name, Description: f.Usage})
		})
	} else {
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() && !(cmd == root && shellExcluded[sub.Name()]) {
				suggestions = append(suggestions, prompt.Suggest{Text: sub.Name(), Description: sub.Short})
			}
		}
		if cmd == root {
			suggestions = append(suggestions, prompt.Suggest{Text: "exit", Description: "Leave the shell"})
		}
	}

	sort.Slice(suggestions, func(i, j int) bool { return suggestions[i].Text < suggestions[j].Text })
	return prompt.FilterHasPrefix(suggestions, current, true)
}

func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, sub := range cmd.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	return nil
}
