package bridge

import "time"

type NatsBridgeOpt func(*NatsBridge)

// WithURL connects to an existing nats server instead of embedding one.
func WithURL(url string) NatsBridgeOpt {
	return func(b *NatsBridge) {
		b.url = url
	}
}

// WithSubjectPrefix sets the prefix of every subject the bridge uses
func WithSubjectPrefix(prefix string) NatsBridgeOpt {
	return func(b *NatsBridge) {
		if prefix != "" {
			b.prefix = prefix
		}
	}
}

// WithStartTimeout sets the startup timeout for the embedded server
func WithStartTimeout(d time.Duration) NatsBridgeOpt {
	return func(b *NatsBridge) {
		b.startupTimeout = d
	}
}

// WithNatsCallTimeout bounds how long a Call waits for the host
func WithNatsCallTimeout(d time.Duration) NatsBridgeOpt {
	return func(b *NatsBridge) {
		if d > 0 {
			b.callTimeout = d
		}
	}
}

// WithHost sets the host for the embedded server
func WithHost(host string) NatsBridgeOpt {
	return func(b *NatsBridge) {
		b.host = host
	}
}

// WithPort sets the port for the embedded server. -1 picks a random port.
func WithPort(port int) NatsBridgeOpt {
	return func(b *NatsBridge) {
		b.port = port
	}
}
