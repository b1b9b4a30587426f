package frontend

import (
	"bytes"
	"context"
	"testing"

	"github.com/mikey/deepguard/internal/classifier"
	"github.com/mikey/deepguard/internal/core"
	"github.com/mikey/deepguard/internal/history"
	"github.com/mikey/deepguard/internal/lexicon"
	"github.com/mikey/deepguard/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestCli(t *testing.T, verbose bool) (*CliFrontend, *bytes.Buffer) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	ledger := history.NewLedger(0, 0, utils.NewTextProcessor(logger))
	service := core.NewScanService(classifier.NewKeywordClassifier(lexicon.Default()), ledger, nil, nil, logger)

	f, err := NewCliFrontend(service, logger, verbose)
	require.NoError(t, err)
	var out bytes.Buffer
	f.SetOutput(&out)
	return f, &out
}

func TestCliFrontendPrintsResults(t *testing.T) {
	f, out := newTestCli(t, false)

	result, err := f.ProcessMessage(context.Background(), &core.Message{Text: "You stupid idiot", Sender: "bob"})
	require.NoError(t, err)
	assert.True(t, result.Verdict.IsHarassment)

	s := out.String()
	assert.Contains(t, s, "=== Message Summary ===")
	assert.Contains(t, s, "Sender: bob")
	assert.Contains(t, s, "=== Results ===")
	assert.Contains(t, s, "Is harassment: true")
	assert.Contains(t, s, "Toxic score: 0.65")
	assert.Contains(t, s, "Risk score: 65")
	assert.Contains(t, s, "Threat level: MEDIUM")
	assert.Contains(t, s, "Keywords: stupid, idiot")
	assert.NotContains(t, s, "Text:")
}

func TestCliFrontendSafeMessage(t *testing.T) {
	f, out := newTestCli(t, true)

	_, err := f.ProcessMessage(context.Background(), &core.Message{Text: "Have a nice day"})
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Text:\nHave a nice day")
	assert.Contains(t, s, "Is harassment: false")
	assert.Contains(t, s, "Keywords: (none)")
	assert.NotContains(t, s, "Sender:")
	assert.NoError(t, f.Start())
	assert.NoError(t, f.Stop())
}
