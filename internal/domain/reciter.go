package domain

import "time"

// Reciter is one entry in the upstream catalogue. The ID is the stable key
// used to build download URLs; Name is what users type and what the output
// folder is derived from.
type Reciter struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

// FetchResult is the outcome of fetching a single surah. Exactly one is
// produced per requested surah per run.
type FetchResult struct {
	Surah    int    `json:"surah"`
	Success  bool   `json:"success"`
	Path     string `json:"path,omitempty"`
	Error    string `json:"error,omitempty"`
	Attempts int    `json:"attempts"`
}

// DownloadSummary aggregates the outcome of one orchestrator run.
// Succeeded + Failed always equals Requested once the run completes.
type DownloadSummary struct {
	RunID     string        `json:"run_id"`
	Reciter   string        `json:"reciter"`
	Requested int           `json:"requested"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Elapsed   time.Duration `json:"elapsed"`
	Errors    []string      `json:"errors,omitempty"`
	OutputDir string        `json:"output_dir"`
}

// Preset is a saved download recipe: everything needed to repeat a run
// without retyping flags.
type Preset struct {
	Name      string `json:"name"`
	Reciter   string `json:"reciter"`
	Surahs    string `json:"surahs"`
	OutputDir string `json:"output_dir"`
}
