package bootstrap

// State is a step of a bootstrap run.
type State string

const (
	StateStart           State = "start"
	StateTargetChecked   State = "target-checked"
	StateTemplateLoaded  State = "template-loaded"
	StateMaterialized    State = "materialized"
	StateRepoInitialized State = "repo-initialized"
	StateEnvSeeded       State = "env-seeded"
	StateDone            State = "done"
	StateAborted         State = "aborted"
)

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted
}
