package vigil

import "github.com/coregx/vigil/detect"

// configBuilder accumulates Option values before Compile runs.
type configBuilder struct {
	threadCount int
	generics map[string]detect.GenericFunc
	suspendCooldown int64
}

// Option configures Configure.
type Option func(*configBuilder)

// ThreadCount sets the number of worker threads the compiled Config is
// sized for. The default is 1.
func ThreadCount(n int) Option {
	return func(b *configBuilder) {
		if n > 0 {
			b.threadCount = n
		}
	}
}

// SuspendCooldown sets how long (in Packet.Timestamp units) a tree node
// that blew a packet's latency deadline sits out subsequent packets.
// Zero, the default, disables suspension.
func SuspendCooldown(n int64) Option {
	return func(b *configBuilder) {
		if n > 0 {
			b.suspendCooldown = n
		}
	}
}

// WithGeneric registers fn under key so a rules.GenericSpec carrying that
// key resolves to fn at compile time. Calling
// WithGeneric again with the same key overwrites the earlier registration.
func WithGeneric(key string, fn detect.GenericFunc) Option {
	return func(b *configBuilder) {
		if b.generics == nil {
			b.generics = make(map[string]detect.GenericFunc)
		}
		b.generics[key] = fn
	}
}
