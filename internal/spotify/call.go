package spotify

import (
	"context"
	"fmt"
)

// Call invokes a catalog endpoint by name.
//
// Argument errors are returned before any request is made; so is [ErrNoAccessToken].
func (c *Client) Call(ctx context.Context, name string, args Args) (any, error) {
	if !c.HasAccessToken() {
		c.logger.Warn("request skipped", "endpoint", name, "error", ErrNoAccessToken)
		return nil, ErrNoAccessToken
	}

	e, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEndpoint, name)
	}

	req, err := e.Request(args)
	if err != nil {
		return nil, err
	}

	return c.Do(ctx, req)
}

// Go runs [Client.Call] in a goroutine. The returned channel receives exactly one [Result] and is then closed.
func (c *Client) Go(ctx context.Context, name string, args Args) <-chan Result {
	return c.async(func() (any, error) { return c.Call(ctx, name, args) })
}
