package ingest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"dbfleet/internal/dto"
	"dbfleet/internal/model"
)

func snapshotWithExtra(t *testing.T, hostname, hostType, databases string, info *dto.HostInfoDoc, extra *dto.ExtraInfoDoc) *dto.HostSnapshot {
	t.Helper()

	extraRaw, err := json.Marshal(extra)
	require.NoError(t, err)
	infoRaw := json.RawMessage(nil)
	if info != nil {
		infoRaw, err = json.Marshal(info)
		require.NoError(t, err)
	}
	return &dto.HostSnapshot{
		Hostname:     hostname,
		HostType:     hostType,
		AgentVersion: "1.6.1",
		Databases:    databases,
		Info:         infoRaw,
		Extra:        extraRaw,
	}
}

func currentHostWithExtra(t *testing.T, hostname, hostType, databases string, info *dto.HostInfoDoc, extra *dto.ExtraInfoDoc) *model.CurrentHost {
	t.Helper()

	extraRaw, err := json.Marshal(extra)
	require.NoError(t, err)
	host := &model.CurrentHost{
		Hostname:  hostname,
		HostType:  hostType,
		Databases: databases,
		ExtraInfo: datatypes.JSON(extraRaw),
		UpdatedAt: time.Now(),
	}
	if info != nil {
		infoRaw, err := json.Marshal(info)
		require.NoError(t, err)
		host.HostInfo = datatypes.JSON(infoRaw)
	}
	return host
}

func TestAnalyzeFirstSnapshot(t *testing.T) {
	next := snapshotWithExtra(t, "h1", "oracledb", "DB1", nil, &dto.ExtraInfoDoc{
		Databases: []dto.DatabaseDoc{
			{Name: "DB1", Features: []dto.FeatureDoc{{Name: "Partitioning", Status: true}}},
		},
	})

	intents, err := Analyze(nil, next)
	require.NoError(t, err)
	require.Len(t, intents, 3)

	assert.Equal(t, model.AlertCodeNewServer, intents[0].Code)
	assert.Equal(t, model.SeverityNotice, intents[0].Severity)

	assert.Equal(t, model.AlertCodeNewDatabase, intents[1].Code)
	assert.Contains(t, intents[1].Description, "DB1")

	assert.Equal(t, model.AlertCodeNewOption, intents[2].Code)
	assert.Equal(t, model.SeverityCritical, intents[2].Severity)
	assert.Contains(t, intents[2].Description, "Partitioning")
}

func TestAnalyzeDuplicatedOptionOnNewDatabase(t *testing.T) {
	prev := currentHostWithExtra(t, "h1", "oracledb", "DB1", nil, &dto.ExtraInfoDoc{
		Databases: []dto.DatabaseDoc{
			{Name: "DB1", Features: []dto.FeatureDoc{{Name: "Partitioning", Status: true}}},
		},
	})
	next := snapshotWithExtra(t, "h1", "oracledb", "DB1 DB2", nil, &dto.ExtraInfoDoc{
		Databases: []dto.DatabaseDoc{
			{Name: "DB1", Features: []dto.FeatureDoc{{Name: "Partitioning", Status: true}}},
			{Name: "DB2", Features: []dto.FeatureDoc{{Name: "Partitioning", Status: true}}},
		},
	})

	intents, err := Analyze(prev, next)
	require.NoError(t, err)
	require.Len(t, intents, 2)

	assert.Equal(t, model.AlertCodeNewDatabase, intents[0].Code)
	assert.Contains(t, intents[0].Description, "DB2")

	// DB2上的Partitioning在DB1上已启用, 按重复启用处理
	assert.Equal(t, model.AlertCodeNewOption, intents[1].Code)
	assert.Equal(t, model.SeverityNotice, intents[1].Severity)
	assert.Contains(t, intents[1].Description, "DB2")
}

func TestAnalyzeOptionActivation(t *testing.T) {
	prev := currentHostWithExtra(t, "h1", "oracledb", "DB1", nil, &dto.ExtraInfoDoc{
		Databases: []dto.DatabaseDoc{
			{Name: "DB1", Features: []dto.FeatureDoc{{Name: "Spatial", Status: false}}},
		},
	})
	next := snapshotWithExtra(t, "h1", "oracledb", "DB1", nil, &dto.ExtraInfoDoc{
		Databases: []dto.DatabaseDoc{
			{Name: "DB1", Features: []dto.FeatureDoc{{Name: "Spatial", Status: true}}},
		},
	})

	intents, err := Analyze(prev, next)
	require.NoError(t, err)
	require.Len(t, intents, 1)
	assert.Equal(t, model.AlertCodeNewOption, intents[0].Code)
	assert.Equal(t, model.SeverityCritical, intents[0].Severity)
	assert.Contains(t, intents[0].Description, "Spatial")
}

func TestAnalyzeUnchangedSnapshotEmitsNothing(t *testing.T) {
	extra := &dto.ExtraInfoDoc{
		Databases: []dto.DatabaseDoc{
			{Name: "DB1", Features: []dto.FeatureDoc{
				{Name: "Partitioning", Status: true},
				{Name: "Spatial", Status: false},
			}},
		},
	}
	prev := currentHostWithExtra(t, "h1", "oracledb", "DB1", nil, extra)
	next := snapshotWithExtra(t, "h1", "oracledb", "DB1", nil, extra)

	intents, err := Analyze(prev, next)
	require.NoError(t, err)
	assert.Empty(t, intents)
}

func TestAnalyzeEnterpriseLicense(t *testing.T) {
	prev := currentHostWithExtra(t, "h1", "oracledb", "DB1", nil, &dto.ExtraInfoDoc{
		Databases: []dto.DatabaseDoc{
			{Name: "DB1", Licenses: []dto.LicenseDoc{{Name: "Oracle STD", Count: 2}}},
		},
	})
	next := snapshotWithExtra(t, "h1", "oracledb", "DB1", nil, &dto.ExtraInfoDoc{
		Databases: []dto.DatabaseDoc{
			{Name: "DB1", Licenses: []dto.LicenseDoc{{Name: "Oracle ENT", Count: 1}}},
		},
	})

	intents, err := Analyze(prev, next)
	require.NoError(t, err)
	require.Len(t, intents, 1)
	assert.Equal(t, model.AlertCodeNewLicense, intents[0].Code)
	assert.Equal(t, model.SeverityCritical, intents[0].Severity)
}

func TestAnalyzeEnterpriseLicenseNeedsPositiveCount(t *testing.T) {
	prev := currentHostWithExtra(t, "h1", "oracledb", "DB1", nil, &dto.ExtraInfoDoc{})
	next := snapshotWithExtra(t, "h1", "oracledb", "DB1", nil, &dto.ExtraInfoDoc{
		Databases: []dto.DatabaseDoc{
			{Name: "DB1", Licenses: []dto.LicenseDoc{{Name: "Oracle EXT", Count: 0}}},
		},
	})

	intents, err := Analyze(prev, next)
	require.NoError(t, err)
	assert.Empty(t, intents)
}

func TestAnalyzeCPUCoreGrowth(t *testing.T) {
	prev := currentHostWithExtra(t, "h1", "oracledb", "DB1", &dto.HostInfoDoc{CPUCores: 4}, &dto.ExtraInfoDoc{})
	next := snapshotWithExtra(t, "h1", "oracledb", "DB1", &dto.HostInfoDoc{CPUCores: 8}, &dto.ExtraInfoDoc{})

	intents, err := Analyze(prev, next)
	require.NoError(t, err)
	require.Len(t, intents, 1)
	assert.Equal(t, model.AlertCodeNewLicense, intents[0].Code)
	assert.Equal(t, model.SeverityCritical, intents[0].Severity)
	assert.Contains(t, intents[0].Description, "4")
	assert.Contains(t, intents[0].Description, "8")
}

func TestAnalyzeLicenseIgnoredForVirtualization(t *testing.T) {
	prev := currentHostWithExtra(t, "hv1", "virtualization", "", &dto.HostInfoDoc{CPUCores: 4}, &dto.ExtraInfoDoc{})
	next := snapshotWithExtra(t, "hv1", "virtualization", "", &dto.HostInfoDoc{CPUCores: 16}, &dto.ExtraInfoDoc{})

	intents, err := Analyze(prev, next)
	require.NoError(t, err)
	assert.Empty(t, intents)
}

func TestAnalyzeFeatureSchemaMismatch(t *testing.T) {
	prev := currentHostWithExtra(t, "h1", "oracledb", "DB1", nil, &dto.ExtraInfoDoc{
		Databases: []dto.DatabaseDoc{
			{Name: "DB1", Features: []dto.FeatureDoc{{Name: "Spatial", Status: false}}},
		},
	})
	next := snapshotWithExtra(t, "h1", "oracledb", "DB1", nil, &dto.ExtraInfoDoc{
		Databases: []dto.DatabaseDoc{
			{Name: "DB1", Features: []dto.FeatureDoc{{Name: "Partitioning", Status: true}}},
		},
	})

	_, err := Analyze(prev, next)
	require.Error(t, err)

	mismatch, ok := err.(*MismatchError)
	require.True(t, ok)
	assert.Equal(t, "Spatial", mismatch.Feature)
}

func TestDiffDatabases(t *testing.T) {
	assert.Equal(t, []string{"DB2"}, diffDatabases("DB1", "DB1 DB2"))
	assert.Equal(t, []string{"DB1", "DB2"}, diffDatabases("", "DB1  DB2"))
	assert.Nil(t, diffDatabases("DB1 DB2", "DB2"))
	assert.Nil(t, diffDatabases("DB1", "DB1 DB1"))
}
