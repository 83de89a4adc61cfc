package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	for _, valid := range []string{"low", "medium", "high", "critical"} {
		p, err := ParsePriority(valid)
		require.NoError(t, err)
		require.Equal(t, Priority(valid), p)
	}

	_, err := ParsePriority("urgent")
	require.Error(t, err)
	_, err = ParsePriority("")
	require.Error(t, err)
}

func TestParseWorkState(t *testing.T) {
	_, err := ParseWorkState("created")
	require.NoError(t, err)
	_, err = ParseWorkState("done")
	require.Error(t, err)
}

func TestWorkStateIsTerminal(t *testing.T) {
	require.True(t, WorkStateCompleted.IsTerminal())
	require.True(t, WorkStateCanceled.IsTerminal())
	require.False(t, WorkStateCreated.IsTerminal())
	require.False(t, WorkStatePending.IsTerminal())
	require.False(t, WorkStateInProgress.IsTerminal())
	require.False(t, WorkStatePostponed.IsTerminal())
}

func TestRoleRank(t *testing.T) {
	require.Greater(t, RoleAdmin.Rank(), RoleContributor.Rank())
	require.Greater(t, RoleContributor.Rank(), RoleUser.Rank())
	require.Zero(t, Role("nobody").Rank())
}

func TestFarmWorkCreatedFrom(t *testing.T) {
	work := FarmWork{}
	require.Empty(t, work.CreatedFrom())

	work.Metadata = NewMetadata(map[string]any{
		MetadataKeyCreatedFrom: ProvenanceHarvestNotification,
	})
	require.Equal(t, ProvenanceHarvestNotification, work.CreatedFrom())

	work.Metadata = []byte("{broken")
	require.Empty(t, work.CreatedFrom())
}
