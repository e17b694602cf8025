package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/require"

	feedlog "github.com/foresta-global/pricefeed/feed/log"
)

func TestLoadCreatesDefaultConfig(t *testing.T) {
	feedlog.InitLogger()
	home := t.TempDir()

	Load(home)

	path := filepath.Join(home, "config.toml")
	require.FileExists(t, path)

	require.Equal(t, home, Home())
	require.Equal(t, "foresta_9000-1", ChainID())
	require.Equal(t, "ws://localhost:26657/websocket", WSEndpoint())
	require.Equal(t, "http://localhost:1317", APIEndpoint())
	require.NotEmpty(t, SourceURL())
	require.NotEmpty(t, FieldPath())
	require.Equal(t, 10*time.Second, FetchTimeout())
	require.Equal(t, 30*time.Second, LockExpiry())
	require.Equal(t, "test", KeyringBackend())
}

func TestLoadExistingConfig(t *testing.T) {
	feedlog.InitLogger()
	home := t.TempDir()

	custom := configData{
		Chain: chainConfig{
			ID:          "custom-1",
			WSEndpoint:  "ws://10.0.0.1:26657/websocket",
			APIEndpoint: "http://10.0.0.1:1317",
		},
		Source: sourceConfig{
			URL:           "https://example.com/price",
			FieldPath:     "data.last",
			ScaleDecimals: 6,
		},
		Worker: workerConfig{
			FetchTimeoutSeconds: 3,
			LockExpirySeconds:   7,
		},
		Key: keyConfig{
			Name:           "validator",
			KeyringDir:     home,
			KeyringBackend: "test",
		},
	}

	data, err := toml.Marshal(custom)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.toml"), data, 0644))

	Load(home)

	require.Equal(t, "custom-1", ChainID())
	require.Equal(t, "http://10.0.0.1:1317", APIEndpoint())
	require.Equal(t, "https://example.com/price", SourceURL())
	require.Equal(t, "data.last", FieldPath())
	require.Equal(t, uint32(6), ScaleDecimals())
	require.Equal(t, 3*time.Second, FetchTimeout())
	require.Equal(t, 7*time.Second, LockExpiry())
	require.Equal(t, "validator", KeyName())
}

func TestKeyring(t *testing.T) {
	feedlog.InitLogger()
	SetForTesting("test-chain", "", "http://localhost:1317", "https://example.com", "price",
		"key", t.TempDir(), "test", 0, time.Second, time.Second)

	kr, err := Keyring()
	require.NoError(t, err)
	require.NotNil(t, kr)
}

func TestKeyringInvalidBackend(t *testing.T) {
	feedlog.InitLogger()
	SetForTesting("test-chain", "", "http://localhost:1317", "https://example.com", "price",
		"key", t.TempDir(), "bogus", 0, time.Second, time.Second)

	_, err := Keyring()
	require.Error(t, err)
}
