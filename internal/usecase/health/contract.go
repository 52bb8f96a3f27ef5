package health

import "context"

// ClusterPinger checks search cluster connectivity.
type ClusterPinger interface {
	Ping(ctx context.Context) error
}

// CachePinger checks classification cache connectivity.
type CachePinger interface {
	Ping(ctx context.Context) error
}
