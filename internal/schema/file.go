package schema

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/agentperf-cli/internal/duration"
)

// fileEntry is the YAML shape of one registry entry.
type fileEntry struct {
	SourceID           string `yaml:"source_id"`
	AgentField         string `yaml:"agent_field"`
	AgentList          bool   `yaml:"agent_list"`
	DurationField      string `yaml:"duration_field"`
	DurationConvention string `yaml:"duration_convention"`
	AttemptsField      string `yaml:"attempts_field"`
	UniqueField        string `yaml:"unique_field"`
	UniqueMode         string `yaml:"unique_mode"`
	StatusField        string `yaml:"status_field"`
	StatusAccept       string `yaml:"status_accept"`
}

type registryFile struct {
	Sources []fileEntry `yaml:"sources"`
}

// LoadFile reads a registry override file. The file replaces the
// built-in registry wholesale, so operators can pin exactly the sources
// a run should know about.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "schema: read registry file")
	}

	var rf registryFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, eris.Wrap(err, "schema: parse registry file")
	}
	if len(rf.Sources) == 0 {
		return nil, eris.Errorf("schema: registry file %s declares no sources", path)
	}

	schemas := make([]Schema, 0, len(rf.Sources))
	for _, e := range rf.Sources {
		conv, err := duration.ParseConvention(e.DurationConvention)
		if err != nil {
			return nil, eris.Wrapf(err, "schema: source %s", e.SourceID)
		}
		mode, err := parseUniqueMode(e.UniqueMode)
		if err != nil {
			return nil, eris.Wrapf(err, "schema: source %s", e.SourceID)
		}
		schemas = append(schemas, Schema{
			SourceID:           e.SourceID,
			AgentField:         e.AgentField,
			AgentList:          e.AgentList,
			DurationField:      e.DurationField,
			DurationConvention: conv,
			AttemptsField:      e.AttemptsField,
			UniqueField:        e.UniqueField,
			UniqueMode:         mode,
			StatusField:        e.StatusField,
			StatusAccept:       e.StatusAccept,
		})
	}

	return NewRegistry(schemas)
}

func parseUniqueMode(s string) (UniqueMode, error) {
	switch s {
	case "", "none":
		return UniqueNone, nil
	case "distinct":
		return UniqueDistinct, nil
	case "reported":
		return UniqueReported, nil
	default:
		return UniqueNone, eris.Errorf("unknown unique mode %q", s)
	}
}
