package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/agentperf-cli/internal/duration"
)

func TestBuiltin(t *testing.T) {
	r := Builtin()

	assert.Len(t, r.IDs(), 7)

	vs, ok := r.Lookup("voicespin")
	require.True(t, ok)
	assert.Equal(t, "AGENT", vs.AgentField)
	assert.False(t, vs.AgentList)
	assert.Equal(t, "BILLSEC", vs.DurationField)
	assert.Equal(t, duration.TrailingZero, vs.DurationConvention)
	assert.Equal(t, "CALL STATUS", vs.StatusField)
	assert.Equal(t, "ANSWERED", vs.StatusAccept)
	assert.Equal(t, UniqueDistinct, vs.UniqueMode)

	voiso, ok := r.Lookup("voiso-24x")
	require.True(t, ok)
	assert.True(t, voiso.AgentList)
	assert.Empty(t, voiso.StatusField)
	assert.Empty(t, voiso.AttemptsField)

	cop, ok := r.Lookup("coperato-signix")
	require.True(t, ok)
	assert.Equal(t, "Call Attempts", cop.AttemptsField)
	assert.Equal(t, UniqueReported, cop.UniqueMode)

	_, ok = r.Lookup("unknown")
	assert.False(t, ok)
}

func TestNewRegistry_Errors(t *testing.T) {
	base := Schema{SourceID: "a", AgentField: "Agent", DurationField: "Duration"}

	_, err := NewRegistry([]Schema{base, base})
	assert.Error(t, err, "duplicate source id")

	_, err = NewRegistry([]Schema{{SourceID: "a", AgentField: "Agent"}})
	assert.Error(t, err, "missing duration field")

	bad := base
	bad.StatusField = "Status"
	_, err = NewRegistry([]Schema{bad})
	assert.Error(t, err, "status filter without accepted value")

	bad = base
	bad.UniqueMode = UniqueDistinct
	_, err = NewRegistry([]Schema{bad})
	assert.Error(t, err, "unique mode without field")
}

func TestValidate(t *testing.T) {
	s, ok := Builtin().Lookup("coperato-24x")
	require.True(t, ok)

	headers := []string{"Name", "Duration", "Call Attempts", "Unique", "Disposition", "Extra"}
	assert.NoError(t, s.Validate(headers))

	assert.Error(t, s.Validate([]string{"Name", "Duration"}))
}

func TestLoadFile(t *testing.T) {
	content := `sources:
  - source_id: acme-pbx
    agent_field: Operator
    agent_list: true
    duration_field: Talk
    duration_convention: trailing-zero
    unique_field: Callee
    unique_mode: distinct
    status_field: Result
    status_accept: OK
  - source_id: acme-crm
    agent_field: Rep
    duration_field: Length
    attempts_field: Calls
    unique_field: Contacts
    unique_mode: reported
`
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme-crm", "acme-pbx"}, r.IDs())

	pbx, ok := r.Lookup("acme-pbx")
	require.True(t, ok)
	assert.True(t, pbx.AgentList)
	assert.Equal(t, duration.TrailingZero, pbx.DurationConvention)
	assert.Equal(t, UniqueDistinct, pbx.UniqueMode)

	crm, ok := r.Lookup("acme-crm")
	require.True(t, ok)
	assert.Equal(t, "Calls", crm.AttemptsField)
	assert.Equal(t, UniqueReported, crm.UniqueMode)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("sources: []\n"), 0o644))
	_, err = LoadFile(empty)
	assert.Error(t, err)

	badConv := filepath.Join(dir, "badconv.yaml")
	require.NoError(t, os.WriteFile(badConv, []byte(`sources:
  - source_id: x
    agent_field: A
    duration_field: D
    duration_convention: sideways
`), 0o644))
	_, err = LoadFile(badConv)
	assert.Error(t, err)
}
