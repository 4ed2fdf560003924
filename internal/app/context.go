package app

import (
	"context"
	"errors"
)

type serviceKey struct{}

// ErrNoService is returned by FromContext when no service was attached.
var ErrNoService = errors.New("no service in context")

// NewContext returns a copy of ctx carrying svc.
func NewContext(ctx context.Context, svc *Service) context.Context {
	return context.WithValue(ctx, serviceKey{}, svc)
}

// FromContext returns the service attached by NewContext.
func FromContext(ctx context.Context) (*Service, error) {
	if ctx == nil {
		return nil, ErrNoService
	}
	svc, ok := ctx.Value(serviceKey{}).(*Service)
	if !ok || svc == nil {
		return nil, ErrNoService
	}
	return svc, nil
}
