package storage

// Config describes the bucket that installs are read from and runs are published to.
type Config struct {
	// Endpoint is host:port, or a URL whose scheme selects TLS.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the static access key ID.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey pairs with AccessKey.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// SessionToken is set for temporary credentials only.
	SessionToken string `mapstructure:"session_token" default:""`
	// Secure forces TLS for a bare host:port endpoint.
	Secure bool `mapstructure:"secure" default:"false"`
	// Region is passed to bucket creation.
	Region string `mapstructure:"region" default:""`
	// Bucket receives published output.
	Bucket string `mapstructure:"bucket" default:"clothing-mods"`
	// TimeoutSeconds bounds dialing, the TLS handshake and the first response byte.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
