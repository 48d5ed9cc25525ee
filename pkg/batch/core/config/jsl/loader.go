package jsl

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/tigerroll/riptide/pkg/batch/support/util/exception"
	logger "github.com/tigerroll/riptide/pkg/batch/support/util/logger"
)

const moduleName = "jsl_loader"

// LoadJobDefinitionFromBytes parses a single JSL job definition from a YAML
// byte slice and validates its structure.
func LoadJobDefinitionFromBytes(data []byte) (Job, error) {
	logger.Debugf("Starting JSL definition loading.")

	var jobDef Job
	if err := yaml.Unmarshal(data, &jobDef); err != nil {
		return Job{}, exception.NewBatchError(moduleName, "failed to parse JSL file", err)
	}

	if err := validateJobDefinition(jobDef); err != nil {
		return Job{}, err
	}

	logger.Infof("Loaded JSL job '%s' with %d step(s).", jobDef.ID, len(jobDef.Steps))
	return jobDef, nil
}

// validateJobDefinition checks the structural invariants of a parsed JSL job.
func validateJobDefinition(jobDef Job) error {
	if jobDef.ID == "" {
		return exception.NewBatchErrorf(moduleName, "'id' is not defined in JSL file")
	}
	if jobDef.Name == "" {
		return exception.NewBatchErrorf(moduleName, "JSL job '%s' does not have 'name' defined", jobDef.ID)
	}
	if len(jobDef.Steps) == 0 {
		return exception.NewBatchErrorf(moduleName, "JSL job '%s' does not have 'steps' defined", jobDef.ID)
	}

	seen := make(map[string]struct{}, len(jobDef.Steps))
	for i, step := range jobDef.Steps {
		if step.ID == "" {
			return exception.NewBatchErrorf(moduleName, "JSL job '%s': step at index %d has no 'id'", jobDef.ID, i)
		}
		if _, dup := seen[step.ID]; dup {
			return exception.NewBatchErrorf(moduleName, "JSL job '%s': duplicate step id '%s'", jobDef.ID, step.ID)
		}
		seen[step.ID] = struct{}{}

		if step.IsTasklet() && step.IsChunk() {
			return exception.NewBatchError(moduleName,
				fmt.Sprintf("JSL job '%s': step '%s' defines both tasklet and chunk components", jobDef.ID, step.ID), nil)
		}
		if !step.IsTasklet() {
			if step.Reader.Ref == "" {
				return exception.NewBatchErrorf(moduleName, "JSL job '%s': chunk step '%s' has no 'reader'", jobDef.ID, step.ID)
			}
			if step.Writer.Ref == "" {
				return exception.NewBatchErrorf(moduleName, "JSL job '%s': chunk step '%s' has no 'writer'", jobDef.ID, step.ID)
			}
		}
	}
	return nil
}
