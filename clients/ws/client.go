// Package ws provides a WebSocket client for the Athena gateway.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	wsprotocol "github.com/athena-agent/athena/internal/gateway/ws"
)

// Client is a WebSocket client for the Athena gateway. It is not safe for
// concurrent readers.
type Client struct {
	conn   *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
}

// Dial connects to the gateway WebSocket endpoint.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ws dial: %w", err)
	}

	clientCtx, cancel := context.WithCancel(context.Background())

	return &Client{
		conn:   conn,
		ctx:    clientCtx,
		cancel: cancel,
	}, nil
}

// Send writes a request frame and returns its id.
func (c *Client) Send(method wsprotocol.Method, params any) (string, error) {
	id := uuid.New().String()
	frame, err := wsprotocol.NewRequestFrame(id, method, params)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	data, err := wsprotocol.MarshalFrame(frame)
	if err != nil {
		return "", err
	}
	if err := c.conn.Write(c.ctx, websocket.MessageText, data); err != nil {
		return "", fmt.Errorf("ws write: %w", err)
	}
	return id, nil
}

// Call sends a request and waits for its response, decoding the payload
// into out when out is non-nil. Event frames received meanwhile are passed
// to onEvent, which may be nil.
func (c *Client) Call(ctx context.Context, method wsprotocol.Method, params, out any, onEvent func(wsprotocol.Frame)) error {
	id, err := c.Send(method, params)
	if err != nil {
		return err
	}

	for {
		frame, err := c.read(ctx)
		if err != nil {
			return err
		}
		if frame.Type == wsprotocol.FrameTypeEvent {
			if onEvent != nil {
				onEvent(frame)
			}
			continue
		}
		if frame.Type != wsprotocol.FrameTypeResponse || frame.ID != id {
			continue
		}

		if frame.OK == nil || !*frame.OK {
			return errors.New(frame.Error)
		}
		if out != nil && frame.Payload != nil {
			if err := json.Unmarshal(frame.Payload, out); err != nil {
				return fmt.Errorf("decode %s response: %w", method, err)
			}
		}
		return nil
	}
}

// ReadFrame reads the next frame from the connection.
func (c *Client) ReadFrame() (wsprotocol.Frame, error) {
	return c.read(c.ctx)
}

func (c *Client) read(ctx context.Context) (wsprotocol.Frame, error) {
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		return wsprotocol.Frame{}, err
	}
	return wsprotocol.UnmarshalFrame(data)
}

// Close gracefully closes the connection.
func (c *Client) Close() error {
	c.cancel()
	return c.conn.Close(websocket.StatusNormalClosure, "bye")
}
