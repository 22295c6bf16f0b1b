package config

type Config interface {
	HTTPPort() string

	BufferSize() int

	ServerName() string

	LogLevel() string
	LogFormat() string

	PprofEnabled() bool
	PprofPort() string
}

func MustLoad() (Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	cfg, err := parse()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *config) HTTPPort() string   { return c.httpPort }
func (c *config) BufferSize() int    { return c.bufferSize }
func (c *config) ServerName() string { return c.serverName }
func (c *config) LogLevel() string   { return c.logLevel }
func (c *config) LogFormat() string  { return c.logFormat }
func (c *config) PprofEnabled() bool { return c.pprofEnabled }
func (c *config) PprofPort() string  { return c.pprofPort }
