package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/recon-agent/internal/config"
)

// resetConfig gives each test fresh defaults with the ledger pointed at a temp database.
func resetConfig(t *testing.T) string {
	t.Helper()

	viper.Reset()
	config.SetDefaults(viper.GetViper())
	dbPath := filepath.Join(t.TempDir(), "recon.db")
	viper.Set("database.path", dbPath)
	t.Cleanup(func() {
		viper.Reset()
		config.SetDefaults(viper.GetViper())
	})
	return dbPath
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// keywordClassifier answers from the comment text so tests need no model.
type keywordClassifier struct {
	failSummaries bool
	mu            sync.Mutex
	calls         int
}

func (k *keywordClassifier) count() {
	k.mu.Lock()
	k.calls++
	k.mu.Unlock()
}

func (k *keywordClassifier) ClassifyStatus(_ context.Context, comments string) (string, error) {
	k.count()
	if strings.Contains(comments, "pending") {
		return "Unresolved", nil
	}
	return "Resolved", nil
}

func (k *keywordClassifier) Summarize(_ context.Context, comments string) (string, error) {
	k.count()
	if k.failSummaries {
		return "", errors.New("model unavailable")
	}
	return "Summary: " + comments, nil
}

func (k *keywordClassifier) SuggestNextSteps(_ context.Context, _ string) (string, error) {
	k.count()
	return "Contact the bank", nil
}

func (k *keywordClassifier) IdentifyPattern(_ context.Context, comments string) (string, error) {
	k.count()
	if strings.Contains(comments, "refund") {
		return "Refund Delay", nil
	}
	return "Duplicate Charge", nil
}
