package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/infrastructure/directory/memory"
	"hermes/pkg/logger"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	dir := memory.New()

	res := seed(ctx, dir.Organizations(), dir.Employees(), []string{"Acme", "Globex"}, 7, logger.Nop())

	assert.Equal(t, seedResult{organizations: 2, employees: 14}, res)
	n, err := dir.Organizations().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSeed_RerunOnlyNotifies(t *testing.T) {
	ctx := context.Background()
	dir := memory.New()
	seed(ctx, dir.Organizations(), dir.Employees(), []string{"Acme"}, 2, logger.Nop())

	res := seed(ctx, dir.Organizations(), dir.Employees(), []string{"Acme"}, 2, logger.Nop())

	assert.Equal(t, seedResult{notifications: 1}, res)
}
