// Package bootstrap creates a new project: it checks the target, loads the
// template, materializes it, renders the result and then runs the optional
// repository and .env post-steps.
//
// A run moves through the states
//
//	Start → TargetChecked → TemplateLoaded → Materialized → (RepoInitialized) → (EnvSeeded) → Done
//
// and ends in Aborted on the first fatal error. Tree rendering, repository
// initialization and .env seeding never abort a run; their failures are kept
// on the Report.
package bootstrap
