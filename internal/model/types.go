package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord describes one simulation run.
type RunRecord struct {
	VersionedRecord
	ID               string   `json:"id"`
	CreatedAtUTC     string   `json:"created_at_utc"`
	Seed             int64    `json:"seed"`
	Steps            int      `json:"steps"`
	NumWorkers       uint32   `json:"num_workers"`
	Concurrency      int      `json:"concurrency"`
	Supercells       [3]int   `json:"supercells"`
	SupercellSize    [3]int   `json:"supercell_size"`
	ParticlesPerCell int      `json:"particles_per_cell"`
	Pipelines        []string `json:"pipelines"`
	FinalCharge      float64  `json:"final_charge"`
	Completed        bool     `json:"completed"`
}

// StepReport summarizes one pipeline over one simulation step.
type StepReport struct {
	Step     uint32 `json:"step"`
	Pipeline string `json:"pipeline"`
	// Filtered is the name of the filter/functor pair at this step.
	Filtered string  `json:"filtered"`
	Regions  int     `json:"regions"`
	Calls    int64   `json:"calls"`
	Applied  int64   `json:"applied"`
	Charge   float64 `json:"charge"`
}
