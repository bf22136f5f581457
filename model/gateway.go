package model

import (
	"context"
	"errors"
)

// GatewayRequest is what the store sends for one submitted turn.
// History is a copy of the trailing window, never a live view of the log.
type GatewayRequest struct {
	NewMessage string
	History    []Turn
}

// GatewayReply is the successful answer to a GatewayRequest.
type GatewayReply struct {
	Reply string
	Usage *Usage
}

// Gateway is the store's view of the completion gateway.
type Gateway interface {
	Complete(ctx context.Context, req GatewayRequest) (GatewayReply, error)
	Ping(ctx context.Context) error
}

// ErrGatewayUnreachable marks failures where no response came back from the gateway.
// Implementations wrap it so the store can tell "down" apart from "answered with an error".
var ErrGatewayUnreachable = errors.New("gateway unreachable")
