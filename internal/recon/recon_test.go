package recon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/agentperf-cli/internal/duration"
	"github.com/sells-group/agentperf-cli/internal/extract"
	"github.com/sells-group/agentperf-cli/internal/roster"
	"github.com/sells-group/agentperf-cli/internal/schema"
	"github.com/sells-group/agentperf-cli/internal/target"
)

func testTargets() target.Targets {
	return target.Targets{
		Conversion: target.DepartmentTargets{DurationSeconds: 9000, Attempts: 500, Unique: 300},
		Retention:  target.DepartmentTargets{DurationSeconds: 14400, Attempts: 200, Unique: 20},
	}
}

func testRoster(t *testing.T) *roster.Roster {
	t.Helper()
	r, err := roster.New([]roster.Entry{
		{Key: "jane doe", Desk: "Team A", Department: roster.Conversion},
		{Key: "bob", Desk: "Japan Team", Department: roster.Retention},
	})
	require.NoError(t, err)
	return r
}

func TestRun_EndToEnd(t *testing.T) {
	// One source row crediting "jane doe - 9" with 45:00 and 3 attempts.
	sc := schema.Schema{
		SourceID:      "crm",
		AgentField:    "Agent",
		DurationField: "Talk",
		AttemptsField: "Attempts",
	}
	st := SourceTable{
		Schema: sc,
		Table: extract.Table{
			Headers: []string{"Agent", "Talk", "Attempts"},
			Rows: []extract.RawRecord{
				{"Agent": "jane doe - 9", "Talk": "45:00", "Attempts": "3"},
			},
		},
	}

	res, err := Run(context.Background(), []SourceTable{st}, testRoster(t), testTargets(), 1)
	require.NoError(t, err)

	require.Len(t, res.Conversion, 1)
	jane := res.Conversion[0]
	assert.Equal(t, "jane doe", jane.Key)
	assert.Equal(t, "Team A", jane.Desk)
	assert.Equal(t, 2700, jane.TotalSeconds)
	assert.Equal(t, 3, jane.TotalAttempts)

	// Zero-activity roster agents still appear.
	require.Len(t, res.Retention, 1)
	assert.Equal(t, "bob", res.Retention[0].Key)
	assert.Equal(t, 0, res.Retention[0].TotalSeconds)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, []string{"crm"}, res.Sources)
	assert.Empty(t, res.Issues)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, 0, res.Unmatched.Total())

	tr, err := res.AgentTargets(jane)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, tr[0].Percentage, 0.001) // 2700/9000
}

func multiSourceTables() []SourceTable {
	voiso := SourceTable{
		Schema: schema.Schema{
			SourceID:      "voiso-test",
			AgentField:    "Agent(s)",
			AgentList:     true,
			DurationField: "Talk time",
			UniqueField:   "DNIS/To",
			UniqueMode:    schema.UniqueDistinct,
		},
		Table: extract.Table{
			Headers: []string{"Agent(s)", "Talk time", "DNIS/To"},
			Rows: []extract.RawRecord{
				{"Agent(s)": "Jane Doe; Bob", "Talk time": "5:00", "DNIS/To": "100"},
				{"Agent(s)": "Ghost", "Talk time": "1:00", "DNIS/To": "200"},
			},
		},
	}
	voicespin := SourceTable{
		Schema: schema.Schema{
			SourceID:           "voicespin",
			AgentField:         "AGENT",
			DurationField:      "BILLSEC",
			DurationConvention: duration.TrailingZero,
			StatusField:        "CALL STATUS",
			StatusAccept:       "ANSWERED",
		},
		Table: extract.Table{
			Headers: []string{"AGENT", "BILLSEC", "CALL STATUS"},
			Rows: []extract.RawRecord{
				{"AGENT": "Jane Doe - 104", "BILLSEC": "1:30:00", "CALL STATUS": "ANSWERED"},
				{"AGENT": "Ghost - 7", "BILLSEC": "2:00", "CALL STATUS": "NO ANSWER"},
			},
		},
	}
	return []SourceTable{voiso, voicespin}
}

func TestRun_MultiSourceAndUnmatched(t *testing.T) {
	res, err := Run(context.Background(), multiSourceTables(), testRoster(t), testTargets(), 2)
	require.NoError(t, err)

	jane := res.Conversion[0]
	assert.Equal(t, 390, jane.TotalSeconds) // 300 + 90
	assert.Equal(t, 2, jane.TotalAttempts)
	assert.Equal(t, 1, jane.TotalUnique())

	// Ghost only contributed in voiso-test; the filtered voicespin row
	// never reaches unmatched detection.
	assert.Equal(t, []string{"voiso-test"}, res.Unmatched.Sources())
	assert.Equal(t, []string{"ghost"}, res.Unmatched.Keys("voiso-test"))
}

func TestRun_OrderIndependent(t *testing.T) {
	tables := multiSourceTables()
	reversed := []SourceTable{tables[1], tables[0]}

	a, err := Run(context.Background(), tables, testRoster(t), testTargets(), 1)
	require.NoError(t, err)
	b, err := Run(context.Background(), reversed, testRoster(t), testTargets(), 2)
	require.NoError(t, err)

	require.Equal(t, len(a.Conversion), len(b.Conversion))
	for i := range a.Conversion {
		assert.Equal(t, a.Conversion[i].Key, b.Conversion[i].Key)
		assert.Equal(t, a.Conversion[i].TotalSeconds, b.Conversion[i].TotalSeconds)
		assert.Equal(t, a.Conversion[i].TotalAttempts, b.Conversion[i].TotalAttempts)
		assert.Equal(t, a.Conversion[i].PerSource, b.Conversion[i].PerSource)
	}
	assert.Equal(t, a.Unmatched, b.Unmatched)
}

func TestRun_SchemaMismatchSkipsSource(t *testing.T) {
	good := SourceTable{
		Schema: schema.Schema{SourceID: "good", AgentField: "Agent", DurationField: "Talk"},
		Table: extract.Table{
			Headers: []string{"Agent", "Talk"},
			Rows:    []extract.RawRecord{{"Agent": "jane doe", "Talk": "1:00"}},
		},
	}
	bad := SourceTable{
		Schema: schema.Schema{SourceID: "bad", AgentField: "Agent", DurationField: "Talk"},
		Table:  extract.Table{Headers: []string{"Wrong", "Columns"}},
	}

	res, err := Run(context.Background(), []SourceTable{good, bad}, testRoster(t), testTargets(), 2)
	require.NoError(t, err)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "bad", res.Skipped[0].SourceID)
	assert.Equal(t, []string{"good"}, res.Sources)
	assert.Equal(t, 60, res.Conversion[0].TotalSeconds)
}

func TestRun_ConfigurationErrors(t *testing.T) {
	st := SourceTable{
		Schema: schema.Schema{SourceID: "dup", AgentField: "A", DurationField: "D"},
		Table:  extract.Table{Headers: []string{"A", "D"}},
	}

	_, err := Run(context.Background(), []SourceTable{st, st}, testRoster(t), testTargets(), 1)
	assert.Error(t, err, "duplicate source id")

	badTargets := testTargets()
	badTargets.Conversion.Unique = 0
	_, err = Run(context.Background(), []SourceTable{st}, testRoster(t), badTargets, 1)
	assert.Error(t, err, "zero target")
}

func TestAgentTargets_NoDepartment(t *testing.T) {
	res := &Result{Targets: testTargets()}
	_, err := res.AgentTargets(roster.MatchedAgent{})
	assert.Error(t, err)
}
