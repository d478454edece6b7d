package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	t.Run(`json format renames time and message`, func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger, err := New("debug", FormatJSON, buf)
		require.NoError(t, err)

		logger.WithField("session_id", "s-1").Info("сессия начата")

		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "сессия начата", entry["message"])
		require.Equal(t, "s-1", entry["session_id"])
		require.Contains(t, entry, "@timestamp")
	})

	t.Run(`unknown values are rejected`, func(t *testing.T) {
		_, err := New("loud", FormatText, &bytes.Buffer{})
		require.Error(t, err)
		_, err = NewFormatter("xml")
		require.Error(t, err)
	})

	t.Run(`init writes to file`, func(t *testing.T) {
		defer func() {
			log.SetOutput(os.Stderr)
			log.SetLevel(log.InfoLevel)
			log.SetFormatter(&log.TextFormatter{})
		}()

		path := filepath.Join(t.TempDir(), "room.log")
		closeLog, err := Init("warn", FormatJSON, path)
		require.NoError(t, err)
		log.Info("не попадет в файл")
		log.Warn("попадет в файл")
		closeLog()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NotContains(t, string(data), "не попадет")
		require.Contains(t, string(data), "попадет в файл")
		require.Equal(t, log.WarnLevel, log.GetLevel())
	})
}
