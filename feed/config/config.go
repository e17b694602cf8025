package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptocodec "github.com/cosmos/cosmos-sdk/crypto/codec"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/pelletier/go-toml/v2"

	feedlog "github.com/foresta-global/pricefeed/feed/log"
)

var (
	globalConfig configData
	home         string
	mu           sync.Mutex
)

type configData struct {
	Chain  chainConfig  `toml:"chain"`
	Source sourceConfig `toml:"source"`
	Worker workerConfig `toml:"worker"`
	Key    keyConfig    `toml:"key"`
}

type chainConfig struct {
	ID          string `toml:"id"`
	WSEndpoint  string `toml:"ws_endpoint"`
	APIEndpoint string `toml:"api_endpoint"`
}

type sourceConfig struct {
	URL           string `toml:"url"`
	FieldPath     string `toml:"field_path"`
	ScaleDecimals uint32 `toml:"scale_decimals"`
}

type workerConfig struct {
	FetchTimeoutSeconds int64 `toml:"fetch_timeout_seconds"`
	LockExpirySeconds   int64 `toml:"lock_expiry_seconds"`
}

type keyConfig struct {
	Name           string `toml:"name"`
	KeyringDir     string `toml:"keyring_dir"`
	KeyringBackend string `toml:"keyring_backend"`
}

// Load reads the daemon config from <home>/config.toml, creating a default
// file on first run.
func Load(homeDir string) {
	if homeDir == "" {
		homeDir = defaultHome()
	}
	home = homeDir
	path := filepath.Join(home, "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefaultConfig(path); err != nil {
			feedlog.Fatalf("Failed to create default config: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		feedlog.Fatalf("Failed to read config file: %v", err)
	}

	if err := toml.Unmarshal(data, &globalConfig); err != nil {
		feedlog.Fatalf("Failed to parse TOML: %v", err)
	}

	if err := validateConfig(); err != nil {
		feedlog.Fatalf("Invalid config: %v", err)
	}

	feedlog.Infof("Loaded config from %s", path)
}

func defaultHome() string {
	osHome, err := os.UserHomeDir()
	if err != nil {
		feedlog.Fatalf("Failed to get user home directory: %v", err)
	}

	return filepath.Join(osHome, ".pricefeedd")
}

func createDefaultConfig(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	globalConfig = configData{
		Chain: chainConfig{
			ID:          "foresta_9000-1",
			WSEndpoint:  "ws://localhost:26657/websocket",
			APIEndpoint: "http://localhost:1317",
		},
		Source: sourceConfig{
			URL:           "https://min-api.cryptocompare.com/data/price?fsym=BTC&tsyms=USD",
			FieldPath:     "USD",
			ScaleDecimals: 2,
		},
		Worker: workerConfig{
			FetchTimeoutSeconds: 10,
			LockExpirySeconds:   30,
		},
		Key: keyConfig{
			Name:           "node1",
			KeyringDir:     home,
			KeyringBackend: "test",
		},
	}

	data, err := toml.Marshal(globalConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal TOML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func validateConfig() error {
	if globalConfig.Chain.ID == "" {
		return fmt.Errorf("chain ID is required")
	}

	if globalConfig.Chain.WSEndpoint == "" {
		return fmt.Errorf("chain websocket endpoint is required")
	}

	if globalConfig.Chain.APIEndpoint == "" {
		return fmt.Errorf("chain API endpoint is required")
	}

	if globalConfig.Source.URL == "" {
		return fmt.Errorf("source URL is required")
	}

	if globalConfig.Source.FieldPath == "" {
		return fmt.Errorf("source field path is required")
	}

	if globalConfig.Worker.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch timeout is required")
	}

	if globalConfig.Worker.LockExpirySeconds <= 0 {
		return fmt.Errorf("lock expiry is required")
	}

	if globalConfig.Key.Name == "" {
		return fmt.Errorf("key name is required")
	}

	if globalConfig.Key.KeyringDir == "" {
		return fmt.Errorf("keyring directory is required")
	}

	if globalConfig.Key.KeyringBackend == "" {
		return fmt.Errorf("keyring backend is required")
	}

	return nil
}

func Print() {
	feedlog.Infof("%-15s: %s", "Home", Home())
	feedlog.Infof("%-15s: %s", "Chain ID", ChainID())
	feedlog.Infof("%-15s: %s", "WS Endpoint", WSEndpoint())
	feedlog.Infof("%-15s: %s", "API Endpoint", APIEndpoint())
	feedlog.Infof("%-15s: %s", "Source URL", SourceURL())
	feedlog.Infof("%-15s: %s", "Field Path", FieldPath())
	feedlog.Infof("%-15s: %d", "Scale Decimals", ScaleDecimals())
	feedlog.Infof("%-15s: %s", "Fetch Timeout", FetchTimeout())
	feedlog.Infof("%-15s: %s", "Lock Expiry", LockExpiry())
	feedlog.Infof("%-15s: %s", "Key Name", KeyName())
}

func Home() string {
	if home == "" {
		return defaultHome()
	}
	return home
}

func ChainID() string {
	return globalConfig.Chain.ID
}

func WSEndpoint() string {
	return globalConfig.Chain.WSEndpoint
}

func APIEndpoint() string {
	return globalConfig.Chain.APIEndpoint
}

func SourceURL() string {
	mu.Lock()
	defer mu.Unlock()

	return globalConfig.Source.URL
}

func FieldPath() string {
	mu.Lock()
	defer mu.Unlock()

	return globalConfig.Source.FieldPath
}

func ScaleDecimals() uint32 {
	return globalConfig.Source.ScaleDecimals
}

func FetchTimeout() time.Duration {
	return time.Duration(globalConfig.Worker.FetchTimeoutSeconds) * time.Second
}

func LockExpiry() time.Duration {
	return time.Duration(globalConfig.Worker.LockExpirySeconds) * time.Second
}

func KeyName() string {
	return globalConfig.Key.Name
}

func KeyringDir() string {
	return globalConfig.Key.KeyringDir
}

func KeyringBackend() string {
	return globalConfig.Key.KeyringBackend
}

// Keyring opens the node-local key store the submitter signs with.
func Keyring() (keyring.Keyring, error) {
	registry := codectypes.NewInterfaceRegistry()
	cryptocodec.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)

	var backend string
	switch KeyringBackend() {
	case "test":
		backend = keyring.BackendTest
	case "file":
		backend = keyring.BackendFile
	case "os":
		backend = keyring.BackendOS
	default:
		return nil, fmt.Errorf("invalid keyring backend: %s", KeyringBackend())
	}

	kr, err := keyring.New("pricefeed", backend, KeyringDir(), nil, cdc)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}

	return kr, nil
}

func ChannelSize() int {
	return 1 << 10
}

func SetForTesting(id, wsEndpoint, apiEndpoint, sourceURL, fieldPath, keyName, keyringDir, keyringBackend string, scaleDecimals uint32, fetchTimeout, lockExpiry time.Duration) {
	globalConfig = configData{
		Chain: chainConfig{
			ID:          id,
			WSEndpoint:  wsEndpoint,
			APIEndpoint: apiEndpoint,
		},
		Source: sourceConfig{
			URL:           sourceURL,
			FieldPath:     fieldPath,
			ScaleDecimals: scaleDecimals,
		},
		Worker: workerConfig{
			FetchTimeoutSeconds: int64(fetchTimeout / time.Second),
			LockExpirySeconds:   int64(lockExpiry / time.Second),
		},
		Key: keyConfig{
			Name:           keyName,
			KeyringDir:     keyringDir,
			KeyringBackend: keyringBackend,
		},
	}
}
