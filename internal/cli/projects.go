package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List Jira projects visible to the configured account",
		Run:   runProjects,
	}

	RootCmd.AddCommand(cmd)
}

func runProjects(cmd *cobra.Command, args []string) {
	a, err := newApp(cmd.Context())
	if err != nil {
		exitErr("configure", err)
	}

	projects, err := a.jira.Projects(cmd.Context())
	if err != nil {
		exitErr("list projects", err)
	}

	if formatFlag == "text" {
		for _, p := range projects {
			fmt.Printf("%-10s %s\n", p.Key, p.Name)
		}
		return
	}
	if len(projects) == 0 {
		fmt.Println("[]")
		return
	}
	printJSON(projects)
}
