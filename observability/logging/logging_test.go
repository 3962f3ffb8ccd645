package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupEmitsRenamedKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := Setup("launchpad", "test", WithOutput(&buf))
	defer closer.Close()

	logger.Info("campaign created", "op", "create")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "campaign created", line["message"])
	require.Equal(t, "INFO", line["severity"])
	require.Equal(t, "launchpad", line["service"])
	require.Equal(t, "test", line["env"])
	require.Contains(t, line, "timestamp")
}

func TestSetupMasksUnlistedStrings(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := Setup("launchpad", "test", WithOutput(&buf))
	defer closer.Close()

	logger.Info("token issued",
		"campaign", "0xabc",
		"secret", "hunter2",
		"amount", 42,
		"note", "")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "token issued", line["message"])
	require.Equal(t, "0xabc", line["campaign"])
	require.Equal(t, RedactedValue, line["secret"])
	require.Equal(t, float64(42), line["amount"])
	require.Equal(t, "", line["note"])
	require.Equal(t, "launchpad", line["service"])
}

func TestSetupHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := Setup("launchpad", "", WithOutput(&buf), WithLevel(ParseLevel("warn")))
	defer closer.Close()

	logger.Info("dropped")
	require.Zero(t, buf.Len())
	logger.Warn("kept")
	require.NotZero(t, buf.Len())
}

func TestWithFileMirrorsOutput(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "launchpad.log")
	logger, closer := Setup("launchpad", "", WithOutput(&buf), WithFile(path, 1, 1))
	logger.Info("mirrored")
	require.NoError(t, closer.Close())
	require.FileExists(t, path)
}

func TestMaskField(t *testing.T) {
	masked := MaskField("token", "secret")
	require.Equal(t, "token", masked.Key)
	require.Equal(t, RedactedValue, masked.Value.String())
	require.Equal(t, "0xabc", MaskField("campaign", "0xabc").Value.String())
	require.Equal(t, " ", MaskField("token", " ").Value.String())
	require.Contains(t, RedactionAllowlist(), "request_id")
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelInfo, ParseLevel("nope"))
}
