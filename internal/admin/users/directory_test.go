package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-crm/meridian/internal/authz"
)

func TestDirectoryResolvesActiveAccount(t *testing.T) {
	_, repo := newTestService()
	dir := NewDirectory(repo)

	p, err := dir.FindByEmail(context.Background(), "  Ana@Example.com ")
	require.NoError(t, err)
	require.Equal(t, int64(1), p.ID)
	require.Equal(t, authz.RoleAgent, p.Role)
}

func TestDirectoryRejectsInactiveAccount(t *testing.T) {
	_, repo := newTestService()
	dir := NewDirectory(repo)

	_, err := dir.FindByEmail(context.Background(), "rui@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDirectoryUnknownEmailReportsNotFound(t *testing.T) {
	_, repo := newTestService()
	dir := NewDirectory(repo)

	_, err := dir.FindByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}
