package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Grammar   GrammarConfig   `mapstructure:"grammar"   validate:"required"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Languages LanguagesConfig `mapstructure:"languages" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication settings. Token issuance happens
// in a separate identity service; this API only verifies bearer tokens
// signed with the shared secret.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// GrammarConfig contains settings for the external grammar checker.
// GeminiAPIKey is optional; when empty no checker is wired and answers
// carry no grammar signal.
type GrammarConfig struct {
	GeminiAPIKey   string `mapstructure:"gemini_api_key"`
	ModelName      string `mapstructure:"model_name"     validate:"required"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// SpeechConfig contains settings for the pronunciation assessor.
// CredentialsFile is optional; when empty the Google client falls back
// to application default credentials.
type SpeechConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
}

// LanguagesConfig names the course's language pair as BCP 47 codes.
// UserCode is the learner's own language, LearningCode the language
// being studied.
type LanguagesConfig struct {
	UserCode     string `mapstructure:"user_code"     validate:"required"`
	LearningCode string `mapstructure:"learning_code" validate:"required"`
}
