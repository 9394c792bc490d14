package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Blob storage
	S3BucketName string `envconfig:"S3_BUCKET_NAME" default:"boohk-artifacts"`

	// Quotation list pagination
	PageSize int `envconfig:"PAGE_SIZE" default:"10"`

	// Session verification
	AuthIssuerURL string `envconfig:"AUTH_ISSUER_URL"`
	CookieName    string `envconfig:"SESSION_COOKIE_NAME" default:"session_id"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes
}
