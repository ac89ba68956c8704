package config

const (
	DefaultMaxRecords = 65535
	DefaultMinWeight  = 48
)

// SearchCfg configures the parameter search of one generator width.
type SearchCfg struct {
	// MaxRecords bounds the positional enumeration, the default record included.
	// Positions at or beyond it are exhausted.
	MaxRecords int `yaml:"max_records"`

	// MinWeight is the lowest accepted Hamming weight of a characteristic polynomial.
	MinWeight int `yaml:"min_weight"`

	// Workers bounds the goroutines computing a batch of records.
	// Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// MaxCandidates bounds the mat2 candidates tried per record. Zero means all 2^32.
	MaxCandidates uint64 `yaml:"max_candidates"`

	// TablePath points to a precomputed parameter table. Row i serves position i+1;
	// position 0 is always the default record.
	TablePath string `yaml:"table_path"`

	// VerifyTable recomputes the characteristic of every loaded row and
	// rejects the table on the first mismatch.
	VerifyTable bool `yaml:"verify_table"`
}

func (cfg *SearchCfg) Enabled() bool {
	return cfg != nil
}
