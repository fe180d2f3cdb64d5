package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

// NewTaskCommand returns the task subcommand.
func NewTaskCommand() *cli.Command {
	return &cli.Command{
		Name:      "task",
		Usage:     "Create a task for an agent and execute it",
		ArgsUsage: "<agent_id> <input...>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-exec",
				Usage: "Only create the task",
			},
		},
		Action: runTask,
	}
}

func runTask(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 2 {
		return fmt.Errorf("usage: athena task <agent_id> <input...>")
	}
	agentID := cmd.Args().First()
	input := strings.Join(cmd.Args().Tail(), " ")

	client := apiClient(cmd)
	created, err := client.CreateTask(ctx, agentID, input)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	if cmd.Bool("no-exec") {
		if ok, err := printStructured(cmd, created); ok {
			return err
		}
		fmt.Fprintf(stdout(cmd), "Task %s created for %s (%s)\n", created.TaskID, created.AgentID, created.Status)
		return nil
	}

	result, err := client.ExecuteTask(ctx, created.TaskID)
	if err != nil {
		return fmt.Errorf("execute task %s: %w", created.TaskID, err)
	}
	if ok, err := printStructured(cmd, result); ok {
		return err
	}

	w := stdout(cmd)
	fmt.Fprintf(w, "Task %s: %s\n", result.TaskID, result.Status)
	if result.Output != nil {
		fmt.Fprintf(w, "Output: %s\n", *result.Output)
	}
	if result.Error != nil {
		fmt.Fprintf(w, "Error: %s\n", *result.Error)
	}
	return nil
}
