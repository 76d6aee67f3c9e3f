package bridge

import "time"

type WebsocketBridgeOpt func(*WebsocketBridge)

func WithAddr(addr string) WebsocketBridgeOpt {
	return func(b *WebsocketBridge) {
		if addr != "" {
			b.addr = addr
		}
	}
}

func WithPath(path string) WebsocketBridgeOpt {
	return func(b *WebsocketBridge) {
		if path != "" {
			b.path = path
		}
	}
}

func WithCallTimeout(d time.Duration) WebsocketBridgeOpt {
	return func(b *WebsocketBridge) {
		if d > 0 {
			b.callTimeout = d
		}
	}
}
