package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// playbookSchema is the CUE schema every playbook must satisfy before
// any statement executes. Definitions are closed, so a step carrying
// both exec and restore, or unknown fields, is rejected up front.
const playbookSchema = `
#Exec: {
	tag?:      string & !=""
	statement: string & !=""
	args?: [...]
}

#Restore: {
	tags?: [...string & !=""]
	all?: bool
}

#ExecStep: {exec: #Exec}
#RestoreStep: {restore: #Restore}

database?: string & !=""
steps: [...(#ExecStep | #RestoreStep)]
`

// Playbook is a sequence of tagged write statements and restores,
// executed in order against one database within one process.
type Playbook struct {
	Database string         `yaml:"database"`
	Steps    []PlaybookStep `yaml:"steps"`
}

// PlaybookStep is either an exec or a restore directive.
type PlaybookStep struct {
	Exec    *ExecStep    `yaml:"exec"`
	Restore *RestoreStep `yaml:"restore"`
}

// ExecStep runs one tagged write statement. An empty tag gets a
// generated unique tag so the step is still individually restorable.
type ExecStep struct {
	Tag       string `yaml:"tag"`
	Statement string `yaml:"statement"`
	Args      []any  `yaml:"args"`
}

// RestoreStep restores the named tags, or every recorded tag.
type RestoreStep struct {
	Tags []string `yaml:"tags"`
	All  bool     `yaml:"all"`
}

// LoadPlaybook reads, schema-validates and decodes a YAML playbook.
func LoadPlaybook(path string) (*Playbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playbook: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse playbook YAML: %w", err)
	}

	if err := validatePlaybook(raw); err != nil {
		return nil, err
	}

	var pb Playbook
	if err := yaml.Unmarshal(data, &pb); err != nil {
		return nil, fmt.Errorf("decode playbook: %w", err)
	}

	return &pb, nil
}

// validatePlaybook unifies the decoded playbook with the CUE schema.
func validatePlaybook(raw any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(playbookSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile playbook schema: %w", err)
	}

	value := ctx.Encode(raw)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode playbook: %w", err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("playbook does not match schema: %w", err)
	}

	return nil
}
