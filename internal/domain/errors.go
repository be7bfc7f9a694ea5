package domain

import "errors"

var (
	ErrConfiguration       = errors.New("configuration error")
	ErrNegotiation         = errors.New("negotiation error")
	ErrTransport           = errors.New("transport error")
	ErrSignalingDisconnect = errors.New("signaling disconnected")
	ErrClosed              = errors.New("closed")
)
