package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryContextsRespectBoundaries(t *testing.T) {
	violations, err := collectViolations(filepath.Join("..", "contexts"))
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func writeGoFile(t *testing.T, root, rel, body string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestCollectViolationsFlagsLayerAndContextLeaks(t *testing.T) {
	root := t.TempDir()
	writeGoFile(t, root, "billing/pay-service/domain/entities/x.go", `package entities

import (
	"time"

	"creatorhub/internal/platform/auth"
)

var _ = time.Now
var _ = auth.Claims{}
`)
	writeGoFile(t, root, "billing/pay-service/application/service.go", `package application

import (
	"creatorhub/contexts/billing/pay-service/adapters/memory"
	"creatorhub/contexts/other/thing-service/ports"
	"creatorhub/contracts/gen/events/v1"
	"github.com/google/uuid"
)
`)
	writeGoFile(t, root, "billing/pay-service/application/service_test.go", `package application

import "creatorhub/contexts/other/thing-service/ports"
`)
	writeGoFile(t, root, "billing/pay-service/adapters/memory/store.go", `package memory

import "github.com/google/uuid"
`)

	violations, err := collectViolations(root)
	require.NoError(t, err)

	rules := map[string][]string{}
	for _, v := range violations {
		rules[v.File] = append(rules[v.File], v.Rule)
	}
	assert.ElementsMatch(t, []string{
		"domain must not import runtime infrastructure",
		"domain import is outside explicit allowlist",
	}, rules["contexts/billing/pay-service/domain/entities/x.go"])
	assert.ElementsMatch(t, []string{
		"application must not import adapters",
		"application import is outside explicit allowlist",
		"cross-context imports are forbidden",
		"application import is outside explicit allowlist",
		"application import is outside explicit allowlist",
	}, rules["contexts/billing/pay-service/application/service.go"])
	assert.NotContains(t, rules, "contexts/billing/pay-service/application/service_test.go")
	assert.NotContains(t, rules, "contexts/billing/pay-service/adapters/memory/store.go")
}

func TestIsStdlib(t *testing.T) {
	assert.True(t, isStdlib("net/http"))
	assert.True(t, isStdlib("context"))
	assert.False(t, isStdlib("github.com/google/uuid"))
	assert.False(t, isStdlib("creatorhub/contracts/gen/events/v1"))
}
