package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewFollowsGlobalLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	New("casework").Infow("report sent", "reportId", "r1")

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "casework", entries[0].LoggerName)
	assert.Equal(t, "r1", entries[0].ContextMap()["reportId"])
}
