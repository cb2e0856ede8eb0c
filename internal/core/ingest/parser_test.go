package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbfleet/pkg/responses"
)

func TestParseSnapshot(t *testing.T) {
	body := []byte(`{
		"Hostname": "db01.example.com",
		"Environment": "PRD",
		"Location": "Milan",
		"Version": "1.6.1",
		"Databases": "ORCL XE",
		"Schemas": "HR SCOTT",
		"Info": {"CPUCores": 4},
		"Extra": {"Databases": []}
	}`)

	snapshot, err := ParseSnapshot(body, "")
	require.NoError(t, err)

	assert.Equal(t, "db01.example.com", snapshot.Hostname)
	assert.Equal(t, "PRD", snapshot.Environment)
	assert.Equal(t, "Milan", snapshot.Location)
	assert.Equal(t, "1.6.1", snapshot.AgentVersion)
	assert.Equal(t, "ORCL XE", snapshot.Databases)
	assert.Equal(t, "oracledb", snapshot.HostType)
	assert.NotEmpty(t, snapshot.Info)
	assert.NotEmpty(t, snapshot.Extra)
}

func TestParseSnapshotDefaults(t *testing.T) {
	snapshot, err := ParseSnapshot([]byte(`{"Hostname": "h1"}`), "")
	require.NoError(t, err)

	assert.Equal(t, "oracledb", snapshot.HostType)
	assert.Equal(t, "unknown", snapshot.AgentVersion)
}

func TestParseSnapshotHostTypeFromParam(t *testing.T) {
	snapshot, err := ParseSnapshot([]byte(`{"Hostname": "hv01"}`), "virtualization")
	require.NoError(t, err)
	assert.Equal(t, "virtualization", snapshot.HostType)

	// 请求体内的HostType优先于查询参数
	snapshot, err = ParseSnapshot([]byte(`{"Hostname": "hv01", "HostType": "exadata"}`), "virtualization")
	require.NoError(t, err)
	assert.Equal(t, "exadata", snapshot.HostType)
}

func TestParseSnapshotRejectsBadInput(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		hostType  string
	}{
		{name: "empty body", body: ""},
		{name: "not json", body: "hostname=h1"},
		{name: "missing hostname", body: `{"Environment": "TST"}`},
		{name: "blank hostname", body: `{"Hostname": "   "}`},
		{name: "unknown host type", body: `{"Hostname": "h1"}`, hostType: "mainframe"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSnapshot([]byte(tc.body), tc.hostType)
			require.Error(t, err)

			var appErr *responses.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, responses.CodeBadRequest, appErr.Code)
		})
	}
}
