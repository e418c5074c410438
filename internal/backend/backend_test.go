package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasksync/internal/backend/rest"
	"tasksync/internal/config"
	"tasksync/internal/service"
)

func TestNew(t *testing.T) {
	ctx := context.Background()
	cfg := config.New(t.TempDir())

	svc, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &rest.Client{}, svc)

	cfg.Backend = config.BackendGoogleTasks
	_, err = New(ctx, cfg, nil)
	assert.ErrorIs(t, err, service.ErrCredentials)

	cfg.Backend = "smoke-signals"
	_, err = New(ctx, cfg, nil)
	assert.EqualError(t, err, `unknown backend "smoke-signals"`)
}
