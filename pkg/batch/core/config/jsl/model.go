// Package jsl defines the models for the Job Specification Language (JSL) of
// the Riptide batch engine. It is used to declaratively describe a job and
// its ordered steps in YAML format.
package jsl

// JSLDefinitionBytes holds the content of a JSL file as a byte slice.
// This is used when loading JSL definitions into memory.
type JSLDefinitionBytes []byte

// Job represents the top-level structure of a JSL file, containing the entire
// batch job definition. Steps run strictly in the order they are declared.
type Job struct {
	// ID is the unique identifier for the job.
	ID string `yaml:"id"`
	// Name is the logical name of the job.
	Name string `yaml:"name"`
	// Description is an optional description for the job.
	Description string `yaml:"description,omitempty"`
	// Steps is the ordered list of steps that make up the job.
	Steps []Step `yaml:"steps"`
	// Listeners is an optional list of JobExecutionListener references applied to this job.
	Listeners []ComponentRef `yaml:"listeners,omitempty"`
}

// Step represents a single processing unit within a job. A step is either
// chunk-oriented (reader/processor/writer) or tasklet-oriented, never both.
type Step struct {
	// ID is the unique identifier for the step.
	ID string `yaml:"id"`
	// Description is an optional description for the step.
	Description string `yaml:"description,omitempty"`
	// Reader is a reference to an ItemReader component, used only for chunk-oriented steps.
	Reader ComponentRef `yaml:"reader,omitempty"`
	// Processor is an optional reference to an ItemProcessor component.
	// When absent, items pass through unchanged.
	Processor ComponentRef `yaml:"processor,omitempty"`
	// Writer is a reference to an ItemWriter component, used only for chunk-oriented steps.
	Writer ComponentRef `yaml:"writer,omitempty"`
	// Chunk defines the properties for chunk-oriented processing.
	Chunk *Chunk `yaml:"chunk,omitempty"`
	// Tasklet is a reference to a Tasklet component, used only for tasklet-oriented steps.
	Tasklet ComponentRef `yaml:"tasklet,omitempty"`
	// Listeners is an optional list of StepExecutionListener references applied to this step.
	Listeners []ComponentRef `yaml:"listeners,omitempty"`
	// SkipListeners is an optional list of SkipListener references applied to this step.
	SkipListeners []ComponentRef `yaml:"skip-listeners,omitempty"`
}

// IsTasklet reports whether the step is tasklet-oriented.
func (s Step) IsTasklet() bool {
	return s.Tasklet.Ref != ""
}

// IsChunk reports whether the step is chunk-oriented.
func (s Step) IsChunk() bool {
	return s.Reader.Ref != "" || s.Writer.Ref != ""
}

// ComponentRef refers to a registered component (e.g. reader, processor,
// writer, tasklet) by its stable handle.
type ComponentRef struct {
	// Ref is the reference name of the component.
	Ref string `yaml:"ref"`
	// Properties is an optional map of properties injected from JSL.
	Properties map[string]string `yaml:"properties,omitempty"`
}

// Chunk defines the chunk-oriented processing properties for a step.
// Zero values fall back to the application-wide defaults from the Config.
type Chunk struct {
	// ItemCount specifies the number of items buffered per chunk.
	ItemCount int `yaml:"item-count"`
	// SkipLimit specifies the number of item-level errors tolerated before the
	// step trips.
	SkipLimit int `yaml:"skip-limit"`
}
