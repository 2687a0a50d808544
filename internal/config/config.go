package config

type Config struct {
	Benchmark   BenchmarkConfig   `yaml:"benchmark"`
	Players     PlayersConfig     `yaml:"players"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Storage     StorageConfig     `yaml:"storage"`
	Server      ServerConfig      `yaml:"server"`
}

type BenchmarkConfig struct {
	Games          int   `yaml:"games"`
	Workers        int   `yaml:"workers"`
	Seed           int64 `yaml:"seed"`
	PollIntervalMs int   `yaml:"poll_interval_ms"`
}

type PlayersConfig struct {
	Player   string `yaml:"player"`
	Opponent string `yaml:"opponent"`
}

type DiagnosticsConfig struct {
	MaxEntries int  `yaml:"max_entries"`
	GuardTail  int  `yaml:"guard_tail"`
	Debug      bool `yaml:"debug"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}
