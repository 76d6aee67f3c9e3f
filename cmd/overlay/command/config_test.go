package command

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixil98/go-inventory/internal/bridge"
	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-testutil"
)

func TestConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		cfg    Config
		expErr string
	}{
		"defaults": {
			cfg: Config{},
		},
		"bad tick interval": {
			cfg:    Config{TickInterval: "soon"},
			expErr: "tick_interval",
		},
		"negative nearby interval": {
			cfg:    Config{NearbyInterval: "-2s"},
			expErr: "nearby_interval: must be positive",
		},
		"negative player type": {
			cfg:    Config{PlayerType: -1},
			expErr: "player_type must not be negative",
		},
		"bad call timeout": {
			cfg:    Config{Bridge: BridgeConfig{CallTimeout: "0s"}},
			expErr: "bridge: call_timeout: must be positive",
		},
		"nats port out of range": {
			cfg:    Config{Bridge: BridgeConfig{Nats: NatsConfig{Port: 70000}}},
			expErr: "port 70000 out of range",
		},
		"websocket path": {
			cfg:    Config{Bridge: BridgeConfig{Type: BridgeTypeWebsocket, Websocket: WebsocketConfig{Path: "ws"}}},
			expErr: "path must start with /",
		},
		"listener without addr": {
			cfg:    Config{Listeners: []ListenerConfig{{Protocol: ListenerTypeTelnet}}},
			expErr: "listener 0: addr is required",
		},
		"listener bad addr": {
			cfg:    Config{Listeners: []ListenerConfig{{Protocol: ListenerTypeSSH, Addr: "4022"}}},
			expErr: "listener 0: parsing addr",
		},
		"telnet host key": {
			cfg:    Config{Listeners: []ListenerConfig{{Protocol: ListenerTypeTelnet, Addr: ":4000", HostKeyPath: "key"}}},
			expErr: "host_key_path only applies to ssh listeners",
		},
		"missing fixtures dir": {
			cfg:    Config{Fixtures: FixturesConfig{Path: "does/not/exist", Player: "pockets"}},
			expErr: "fixtures: invalid path",
		},
		"bench without player": {
			cfg:    Config{Fixtures: FixturesConfig{Path: "../../../assets/fixtures", Bench: "kitchen"}},
			expErr: "player is required",
		},
		"negative alert limit": {
			cfg:    Config{Alerts: AlertsConfig{Limit: -1}},
			expErr: "alerts: limit must not be negative",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.expErr == "" {
				testutil.AssertEqual(t, "error", err, nil)
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestConfig_SampleFile(t *testing.T) {
	raw, err := os.ReadFile("../../../assets/config.json")
	testutil.AssertEqual(t, "read error", err, nil)

	var cfg Config
	err = json.Unmarshal(raw, &cfg)
	testutil.AssertEqual(t, "decode error", err, nil)

	testutil.AssertEqual(t, "bridge type", cfg.Bridge.Type, BridgeTypeNats)
	testutil.AssertEqual(t, "listeners", len(cfg.Listeners), 2)
	testutil.AssertEqual(t, "ssh", cfg.Listeners[1].Protocol, ListenerTypeSSH)
	testutil.AssertEqual(t, "player type", cfg.playerType(), inventory.TypePlayer)
	testutil.AssertEqual(t, "seed bench", cfg.Fixtures.seed().Bench, "kitchen")
}

func TestUnmarshalText_Unknown(t *testing.T) {
	var bt BridgeType
	testutil.AssertErrorContains(t, bt.UnmarshalText([]byte("carrier-pigeon")), "unknown bridge type")

	var lt ListenerType
	testutil.AssertErrorContains(t, lt.UnmarshalText([]byte("gopher")), "unknown listener type")
}

func TestParseInterval(t *testing.T) {
	tests := map[string]struct {
		in     string
		exp    time.Duration
		expErr string
	}{
		"empty uses default": {in: "", exp: bridge.DefaultCallTimeout},
		"explicit":           {in: "750ms", exp: 750 * time.Millisecond},
		"zero":               {in: "0s", expErr: "must be positive"},
		"garbage":            {in: "later", expErr: "invalid duration"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parseInterval(tt.in, bridge.DefaultCallTimeout)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			testutil.AssertEqual(t, "error", err, nil)
			testutil.AssertEqual(t, "duration", got, tt.exp)
		})
	}
}

func TestBridgeConfig_BuildBridge(t *testing.T) {
	cfg := BridgeConfig{Type: BridgeTypeWebsocket, Websocket: WebsocketConfig{Addr: "127.0.0.1:0"}}
	b, err := cfg.buildBridge()
	testutil.AssertEqual(t, "error", err, nil)

	_, ok := b.(*bridge.WebsocketBridge)
	testutil.AssertEqual(t, "websocket", ok, true)

	cfg = BridgeConfig{Type: BridgeTypeNats, Nats: NatsConfig{URL: "nats://127.0.0.1:4222"}}
	b, err = cfg.buildBridge()
	testutil.AssertEqual(t, "error", err, nil)

	_, ok = b.(*bridge.NatsBridge)
	testutil.AssertEqual(t, "nats", ok, true)
}

func TestListenerConfig_HostKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host_key")
	cfg := ListenerConfig{Protocol: ListenerTypeSSH, Addr: "127.0.0.1:0", HostKeyPath: path}

	first, err := cfg.hostKey()
	testutil.AssertEqual(t, "generate error", err, nil)

	info, err := os.Stat(path)
	testutil.AssertEqual(t, "stat error", err, nil)
	testutil.AssertEqual(t, "mode", info.Mode().Perm(), os.FileMode(0o600))

	second, err := cfg.hostKey()
	testutil.AssertEqual(t, "reload error", err, nil)
	testutil.AssertEqual(t, "same key", string(second.PublicKey().Marshal()), string(first.PublicKey().Marshal()))

	err = os.WriteFile(path, []byte("not a key"), 0o600)
	testutil.AssertEqual(t, "write error", err, nil)
	_, err = cfg.hostKey()
	testutil.AssertErrorContains(t, err, "parsing host key")
}
