package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"60"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`

	// Generated documents are uploaded here, one folder per claim label
	DocumentsBucket string `envconfig:"DOCUMENTS_BUCKET"`

	// Default lawyer signature, fetched once per process
	SignatureBucket string `envconfig:"SIGNATURE_BUCKET"`
	SignatureKey    string `envconfig:"SIGNATURE_KEY" default:"signatures/lawyer.png"`
	LawyerName      string `envconfig:"LAWYER_NAME"`
	LawyerLicense   string `envconfig:"LAWYER_LICENSE"`

	// Templates
	TemplateDir     string `envconfig:"TEMPLATE_DIR"`      // overrides the embedded templates when set
	FormTemplateDir string `envconfig:"FORM_TEMPLATE_DIR"` // rasterized government form pages
	FontPath        string `envconfig:"FONT_PATH"`         // Hebrew-capable TTF/OTF for overlays
	AttachForm4     bool   `envconfig:"ATTACH_FORM4"`      // append filled Form 4 pages to every document

	// Table of contents page estimation
	PageCharsPerLine int `envconfig:"PAGE_CHARS_PER_LINE" default:"70"`
	PageLinesPerPage int `envconfig:"PAGE_LINES_PER_PAGE" default:"38"`

	// Bearer auth is enabled when set
	JWKSURL string `envconfig:"JWKS_URL"`

	// Download link encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	DownloadHashKey  string `envconfig:"DOWNLOAD_HASH_KEY"`  // 32 or 64 bytes
	DownloadBlockKey string `envconfig:"DOWNLOAD_BLOCK_KEY"` // 16, 24, or 32 bytes
	DownloadTTLSec   int    `envconfig:"DOWNLOAD_TTL_SEC" default:"86400"`
}
