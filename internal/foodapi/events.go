package foodapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Lixing-Zhang/food-dashboard/internal/models"
	"github.com/gorilla/websocket"
)

const eventsPath = foodsPath + "/events"

// Subscribe opens the collection's change feed. The returned channel is
// closed when ctx is done or the connection drops.
func (c *Client) Subscribe(ctx context.Context) (<-chan models.Event, error) {
	u := *c.baseURL
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += eventsPath

	header := http.Header{}
	if c.apiKey != "" {
		header.Set(apiKeyHeader, c.apiKey)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, &APIError{Method: http.MethodGet, Path: eventsPath, StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("GET %s: %w", eventsPath, err)
	}

	events := make(chan models.Event, 16)
	readerDone := make(chan struct{})

	// Closing the connection is what unblocks the reader below
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-readerDone:
		}
	}()

	go func() {
		defer close(events)
		defer close(readerDone)
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					c.logger.Warn("foods event stream closed", "error", err)
				}
				return
			}

			// One frame may carry several newline separated events
			dec := json.NewDecoder(bytes.NewReader(msg))
			for {
				var ev models.Event
				if err := dec.Decode(&ev); err != nil {
					if !errors.Is(err, io.EOF) {
						c.logger.Warn("malformed foods event", "error", err)
					}
					break
				}

				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}
