package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/vidpress/internal/flagx"
	"github.com/dmitrijs2005/vidpress/internal/timex"
)

// JsonConfig is the intermediate DTO used only for reading JSON configuration
// files. Interval fields use timex.Duration so both "15m" strings and integer
// nanoseconds parse. After unmarshalling, non-zero fields are copied into the
// runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP   string         `json:"endpoint_addr_http"`
	DatabaseDSN        string         `json:"database_dsn"`
	SecretKey          string         `json:"secret_key"`
	UploadSessionTTL   timex.Duration `json:"upload_session_ttl"`
	SweepInterval      timex.Duration `json:"sweep_interval"`
	S3AccessKey        string         `json:"s3_access_key"`
	S3SecretKey        string         `json:"s3_secret_key"`
	S3Bucket           string         `json:"s3_bucket"`
	S3Region           string         `json:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
	IndexBaseEndpoint  string         `json:"index_base_endpoint"`
	IndexName          string         `json:"index_name"`
	IndexQueueSize     int            `json:"index_queue_size"`
	IndexMaxRetries    int            `json:"index_max_retries"`
	IndexRetryBackoff  timex.Duration `json:"index_retry_backoff"`
	StagingSecretsFile string         `json:"staging_secrets_file"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. A file that cannot be
// read or parsed is a startup error and panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.IndexBaseEndpoint, c.IndexBaseEndpoint)
	setString(&config.IndexName, c.IndexName)
	setString(&config.StagingSecretsFile, c.StagingSecretsFile)

	if c.UploadSessionTTL.Duration != 0 {
		config.UploadSessionTTL = time.Duration(c.UploadSessionTTL.Duration)
	}
	if c.SweepInterval.Duration != 0 {
		config.SweepInterval = time.Duration(c.SweepInterval.Duration)
	}
	if c.IndexRetryBackoff.Duration != 0 {
		config.IndexRetryBackoff = time.Duration(c.IndexRetryBackoff.Duration)
	}
	if c.IndexQueueSize != 0 {
		config.IndexQueueSize = c.IndexQueueSize
	}
	if c.IndexMaxRetries != 0 {
		config.IndexMaxRetries = c.IndexMaxRetries
	}
}
