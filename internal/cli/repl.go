package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/helios/internal/chat"
	"github.com/rcliao/helios/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session",
		Long:  "Ask questions interactively. Questions that name no project follow up on the last answer. Commands: /history, /reset, /quit.",
		Args:  cobra.NoArgs,
		Run:   runChat,
	}

	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) {
	a, err := newApp(cmd.Context())
	if err != nil {
		exitErr("configure", err)
	}

	limit := a.cfg.HistoryLimit
	newSession := func() *chat.Session {
		return chat.NewSession(store.NewMemoryLog(limit))
	}
	fmt.Println("Helios - ask about a project, e.g. \"What is the status of Project ABC?\" (/quit to exit)")
	if err := repl(cmd.Context(), a.engine, newSession, os.Stdin, os.Stdout, formatFlag == "text"); err != nil {
		exitErr("chat", err)
	}
}

// repl reads questions from in until EOF or /quit. Markdown answers are
// rendered when pretty is set.
func repl(ctx context.Context, engine *chat.Engine, newSession func() *chat.Session, in io.Reader, out io.Writer, pretty bool) error {
	sess := newSession()
	defer func() { sess.Close() }()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		fmt.Fprint(out, "helios> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			sess.Close()
			sess = newSession()
			fmt.Fprintln(out, "Session reset.")
			continue
		case "/history":
			turns, err := sess.History(ctx)
			if err != nil {
				return err
			}
			if len(turns) == 0 {
				fmt.Fprintln(out, "No history yet.")
			}
			for i, t := range turns {
				key := t.ProjectKey
				if key == "" {
					key = "-"
				}
				fmt.Fprintf(out, "%d. [%s] %s\n", i+1, key, t.Query)
			}
			continue
		}

		answer, _, _ := engine.Ask(ctx, sess, line)
		if pretty {
			answer = renderMarkdown(answer)
		}
		fmt.Fprintln(out, answer)
	}
}
