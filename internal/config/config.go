package config

type Config interface {
	EnvConfig
	BackendConfig
	UIConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Backend
	UI
}

func New() Config {
	return mainConfig{}
}
