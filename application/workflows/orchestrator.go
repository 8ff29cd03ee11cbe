package workflows

// Orchestrator bundles the three asset workflows of one workspace. Each
// workflow is independently single-flight; different workflows may run
// concurrently.
type Orchestrator struct {
	Generate *GenerateWorkflow
	Edit     *EditWorkflow
	Upscale  *UpscaleWorkflow
}

func NewOrchestrator(generate *GenerateWorkflow, edit *EditWorkflow, upscale *UpscaleWorkflow) *Orchestrator {
	return &Orchestrator{Generate: generate, Edit: edit, Upscale: upscale}
}
