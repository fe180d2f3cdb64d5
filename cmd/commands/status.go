package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/athena-agent/athena/clients/api"
	"github.com/athena-agent/athena/internal/config"
	"github.com/athena-agent/athena/internal/heartbeat"
)

// NewStatusCommand returns the status subcommand.
func NewStatusCommand() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Show gateway liveness and agent status",
		ArgsUsage: "[agent_id]",
		Action:    runStatus,
	}
}

func runStatus(ctx context.Context, cmd *cli.Command) error {
	client := apiClient(cmd)

	if id := cmd.Args().First(); id != "" {
		agent, err := client.Agent(ctx, id)
		if errors.Is(err, api.ErrNotFound) {
			return fmt.Errorf("agent %q not found", id)
		}
		if err != nil {
			return fmt.Errorf("get agent: %w", err)
		}
		if ok, err := printStructured(cmd, agent); ok {
			return err
		}
		w := stdout(cmd)
		fmt.Fprintf(w, "%s (%s)\n", agent.Name, agent.ID)
		fmt.Fprintf(w, "  type:   %s\n", agent.Type)
		fmt.Fprintf(w, "  status: %s\n", agent.Status)
		fmt.Fprintf(w, "  tasks:  %d\n", agent.TaskCount)
		fmt.Fprintf(w, "  skills: %v\n", agent.Config.Skills)
		return nil
	}

	status, hb, err := heartbeat.Check(config.HeartbeatPath(), 2*time.Minute)
	if err != nil {
		return fmt.Errorf("check heartbeat: %w", err)
	}

	stats, statsErr := client.AgentStats(ctx)

	if outputFormat(cmd) != formatText {
		view := map[string]any{"gateway": status, "heartbeat": hb}
		if statsErr == nil {
			view["agents"] = stats
		}
		_, err := printStructured(cmd, view)
		return err
	}

	w := stdout(cmd)
	switch status {
	case heartbeat.StatusAlive:
		fmt.Fprintf(w, "Gateway: ALIVE (PID %d, uptime %s)\n", hb.PID, hb.Uptime)
	case heartbeat.StatusStale:
		fmt.Fprintf(w, "Gateway: STALE (PID %d, last heartbeat %s ago)\n",
			hb.PID, time.Since(hb.Timestamp).Truncate(time.Second))
	case heartbeat.StatusDead:
		fmt.Fprintln(w, "Gateway: NOT RUNNING")
	}

	if statsErr != nil {
		fmt.Fprintf(w, "API: unreachable (%v)\n", statsErr)
		return nil
	}
	fmt.Fprintf(w, "Agents: %d total, %d active, %d tasks\n",
		stats.TotalAgents, stats.ActiveAgents, stats.TotalTasks)
	return nil
}
