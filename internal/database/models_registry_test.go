package database

import (
	"testing"

	modelspkg "meriter/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesQuotaUsage(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*modelspkg.QuotaUsage); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include QuotaUsage")
}

func TestPersistentModels_IncludesTappalkaProgress(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*modelspkg.TappalkaProgress); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include TappalkaProgress")
}
