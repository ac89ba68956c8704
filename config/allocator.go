package config

// AllocatorCfg configures the per-goroutine generator allocators.
type AllocatorCfg struct {
	// Seed seeds every allocated generator. If nil, each one takes a time-derived seed.
	Seed *uint64 `yaml:"seed"`

	// Prefetch warms thread-local records ahead of demand.
	// If nil, records are searched on first acquisition.
	Prefetch *PrefetchCfg `yaml:"prefetch"`
}

func (cfg *AllocatorCfg) Enabled() bool {
	return cfg != nil
}

type PrefetchCfg struct {
	// Ahead is how many keys past the allocator counter are kept warm.
	Ahead int `yaml:"ahead"`

	// Rate limits prefetched records per second.
	Rate int `yaml:"rate"`
}

func (cfg *PrefetchCfg) Enabled() bool {
	return cfg != nil
}
