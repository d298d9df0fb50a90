// Package chat implements `relabel chat`, the free-text command client.
package chat

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/relabel/internal/cli"
	"github.com/thenoetrevino/relabel/internal/cli/styles"
	"github.com/thenoetrevino/relabel/internal/client"
)

const renderWidth = 80

// ChatCmd returns the chat subcommand
func ChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [command...]",
		Short: "Send free-text label commands",
		Long: `Send a free-text command such as "Change About to Contact Us".

With arguments, the command is sent once. Without arguments, an interactive
prompt reads one command per line until "exit" or end of input.

Examples:
  relabel chat change about to Our Story
  relabel chat "show all labels"
  relabel chat
`,
		RunE: runChat,
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	c := cli.NewCLI(cmd)

	if len(args) > 0 {
		resp, err := c.Client.SendCommand(c.Context(), strings.Join(args, " "))
		if err != nil {
			return c.Fail(err)
		}
		return printResponse(c, resp)
	}

	return repl(c, cmd.InOrStdin(), cmd.OutOrStdout())
}

func repl(c *cli.CLI, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	interactive := !c.Formatter.JSON && !c.Formatter.Quiet

	for {
		if interactive {
			fmt.Fprint(out, styles.TitleStyle.Render("relabel> "))
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		resp, err := c.Client.SendCommand(c.Context(), line)
		if err != nil {
			// Keep the session alive on per-command failures
			_ = c.Fail(err)
			continue
		}
		if err := printResponse(c, resp); err != nil {
			return err
		}
	}
}

func printResponse(c *cli.CLI, resp *client.CommandResponse) error {
	f := c.Formatter
	if f.JSON {
		return f.Success(resp)
	}
	if f.Quiet {
		return nil
	}

	switch resp.Type {
	case "success":
		return f.Success(styles.SuccessStyle.Render(resp.Response))
	case "error":
		msg := styles.RenderMarkdown(resp.Response, renderWidth)
		if len(resp.Suggestions) > 0 {
			msg += "\n\n" + styles.SubtitleStyle.Render("Available labels: "+strings.Join(resp.Suggestions, ", "))
		}
		return f.Success(msg)
	default:
		return f.Success(styles.RenderMarkdown(resp.Response, renderWidth))
	}

}
