package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/urfave/cli/v3"

	wsclient "github.com/athena-agent/athena/clients/ws"
	wsprotocol "github.com/athena-agent/athena/internal/gateway/ws"
)

// NewWatchCommand returns the watch subcommand.
func NewWatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Stream gateway events over WebSocket",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "event",
				Aliases: []string{"e"},
				Usage:   "Only print these event types (repeatable)",
			},
		},
		Action: runWatch,
	}
}

// wsURL turns an API base URL into the WebSocket endpoint under it.
func wsURL(apiURL string) (string, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return "", fmt.Errorf("parse api url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported api url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String(), nil
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	target, err := wsURL(cmd.String("api-url"))
	if err != nil {
		return err
	}

	client, err := wsclient.Dial(ctx, target)
	if err != nil {
		return err
	}
	defer client.Close()

	go func() {
		<-ctx.Done()
		client.Close()
	}()

	filter := make(map[string]bool)
	for _, e := range cmd.StringSlice("event") {
		filter[e] = true
	}

	w := stdout(cmd)
	for {
		frame, err := client.ReadFrame()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}
		if frame.Type != wsprotocol.FrameTypeEvent {
			continue
		}
		if len(filter) > 0 && !filter[frame.Event] {
			continue
		}
		if outputFormat(cmd) == formatText {
			fmt.Fprintf(w, "%s %s\n", frame.Event, frame.Payload)
			continue
		}
		if _, err := printStructured(cmd, frame); err != nil {
			return err
		}
	}
}
