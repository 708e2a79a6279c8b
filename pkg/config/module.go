package config

import "go.uber.org/fx"

// Module derives the smaller consumer-facing configs from the full
// ServerConfig, which the application supplies after loading it.
var Module = fx.Module("config",
	fx.Provide(func(cfg *ServerConfig) TransportConfig { return cfg.Transport }),
	fx.Provide(func(cfg *ServerConfig) ProgramConfig { return cfg.Program }),
	fx.Provide(func(cfg *ServerConfig) ConversationConfig { return cfg.Conversation }),
)
