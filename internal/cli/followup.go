package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/helios/internal/chat"
)

func init() {
	cmd := &cobra.Command{
		Use:   "followup [question]",
		Short: "Ask a follow-up question about a previous answer",
		Long:  "Answer a question using the context of a result previously printed by `helios ask`.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runFollowup,
	}

	cmd.Flags().String("previous", "", "Path to a JSON result from `helios ask` (\"-\" for stdin)")
	cmd.MarkFlagRequired("previous")

	RootCmd.AddCommand(cmd)
}

func runFollowup(cmd *cobra.Command, args []string) {
	previous, _ := cmd.Flags().GetString("previous")
	query := strings.Join(args, " ")

	prev, err := readResult(previous)
	if err != nil {
		exitErr("read previous result", err)
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		exitErr("configure", err)
	}

	answer := a.engine.AnswerFollowup(cmd.Context(), query, prev)
	if formatFlag == "text" {
		fmt.Println(renderMarkdown(answer))
		return
	}
	printJSON(map[string]string{"project_key": prev.ProjectKey, "response": answer})
}

func readResult(path string) (*chat.Result, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	var res chat.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parse result: %w", err)
	}
	if res.ProjectKey == "" {
		return nil, errors.New("result has no project_key")
	}
	return &res, nil
}
