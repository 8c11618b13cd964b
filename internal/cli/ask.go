package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/helios/internal/chat"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question about a project",
		Long:  "Extract the project from the question (or use --project), fetch its issues and meeting notes, and print the answer.",
		Args:  cobra.ArbitraryArgs,
		Run:   runAsk,
	}

	cmd.Flags().StringP("project", "p", "", "Project key (skips extraction)")
	cmd.Flags().Bool("charts", false, "Include charts in text output")

	RootCmd.AddCommand(cmd)
}

func runAsk(cmd *cobra.Command, args []string) {
	projectKey, _ := cmd.Flags().GetString("project")
	charts, _ := cmd.Flags().GetBool("charts")
	query := strings.Join(args, " ")
	if query == "" && projectKey == "" {
		exitErr("ask", errors.New("a question or --project is required"))
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		exitErr("configure", err)
	}

	res, err := a.engine.ProcessQuery(cmd.Context(), nil, query, projectKey)
	if err != nil {
		printQueryError(err)
		os.Exit(1)
	}

	if formatFlag == "text" {
		fmt.Println(renderMarkdown(res.Response))
		if charts {
			fmt.Println(renderCharts(res.ChartsData))
		}
		return
	}
	printJSON(res)
}

func printQueryError(err error) {
	var qe *chat.QueryError
	if !errors.As(err, &qe) {
		exitErr("query", err)
	}
	if formatFlag == "text" {
		fmt.Fprintln(os.Stderr, qe.Response)
		return
	}
	printJSON(map[string]string{"error": qe.Detail, "response": qe.Response})
}
