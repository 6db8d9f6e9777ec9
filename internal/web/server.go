// Package web serves the status and control API and the browser UI.
package web

import "context"

type Server interface {
	Start(ctx context.Context) error
	Stop() error
}

var _ Server = (*HTTPServer)(nil)
