package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port           int           `yaml:"port" default:"8080"`
		Host           string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout    time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout   time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout    time.Duration `yaml:"idle_timeout" default:"60s"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"server"`

	Firebase struct {
		ProjectID       string `yaml:"project_id"`
		CredentialsJSON string `yaml:"credentials_json"`
		CredentialsFile string `yaml:"credentials_file"`
		StorageBucket   string `yaml:"storage_bucket"`
	} `yaml:"firebase"`

	Pinecone struct {
		APIKey     string        `yaml:"api_key"`
		IndexName  string        `yaml:"index_name" default:"cv-index"`
		ControlURL string        `yaml:"control_url" default:"https://api.pinecone.io"`
		Timeout    time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"pinecone"`

	Embeddings struct {
		Provider  string `yaml:"provider" default:"azure"` // "azure" or "google"
		RateLimit int    `yaml:"rate_limit" default:"60"`  // requests per minute
		Azure     struct {
			APIKey       string `yaml:"api_key"`
			InstanceName string `yaml:"instance_name"`
			Deployment   string `yaml:"deployment"`
			APIVersion   string `yaml:"api_version" default:"2023-05-15"`
		} `yaml:"azure"`
		Google struct {
			APIKey string `yaml:"api_key"`
			Model  string `yaml:"model" default:"text-embedding-004"`
		} `yaml:"google"`
	} `yaml:"embeddings"`

	Email struct {
		SMTPHost    string `yaml:"smtp_host" default:"smtp.gmail.com"`
		SMTPPort    int    `yaml:"smtp_port" default:"587"`
		Username    string `yaml:"username"`
		Password    string `yaml:"password"`
		From        string `yaml:"from"`
		QueueKey    string `yaml:"queue_key" default:"email:queue"`
		MaxAttempts int    `yaml:"max_attempts" default:"3"`
	} `yaml:"email"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`

	Recruitment struct {
		BatchSize           int           `yaml:"batch_size" default:"10"`
		DelayBetweenBatches time.Duration `yaml:"delay_between_batches" default:"1s"`
		MaxApplications     int           `yaml:"max_applications" default:"200"`
		ExtractTimeout      time.Duration `yaml:"extract_timeout" default:"30s"`
	} `yaml:"recruitment"`

	BackgroundTasks struct {
		MaxConcurrentTasks int           `yaml:"max_concurrent_tasks" default:"10"`
		TaskTimeout        time.Duration `yaml:"task_timeout" default:"600s"`
		CleanupInterval    time.Duration `yaml:"cleanup_interval" default:"1h"`
		MaxTaskAge         time.Duration `yaml:"max_task_age" default:"24h"`
	} `yaml:"background_tasks"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second
	config.Server.AllowedOrigins = []string{"*"}

	config.Pinecone.IndexName = "cv-index"
	config.Pinecone.ControlURL = "https://api.pinecone.io"
	config.Pinecone.Timeout = 30 * time.Second

	config.Embeddings.Provider = "azure"
	config.Embeddings.RateLimit = 60
	config.Embeddings.Azure.APIVersion = "2023-05-15"
	config.Embeddings.Google.Model = "text-embedding-004"

	config.Email.SMTPHost = "smtp.gmail.com"
	config.Email.SMTPPort = 587
	config.Email.QueueKey = "email:queue"
	config.Email.MaxAttempts = 3

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.Timeout = 5 * time.Second

	config.Recruitment.BatchSize = 10
	config.Recruitment.DelayBetweenBatches = time.Second
	config.Recruitment.MaxApplications = 200
	config.Recruitment.ExtractTimeout = 30 * time.Second

	config.BackgroundTasks.MaxConcurrentTasks = 10
	config.BackgroundTasks.TaskTimeout = 600 * time.Second
	config.BackgroundTasks.CleanupInterval = time.Hour
	config.BackgroundTasks.MaxTaskAge = 24 * time.Hour

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			// Expand environment variables in the YAML content
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if projectID := os.Getenv("FIREBASE_PROJECT_ID"); projectID != "" {
		c.Firebase.ProjectID = projectID
	}

	if creds := os.Getenv("FIREBASE_CONFIG"); creds != "" {
		c.Firebase.CredentialsJSON = creds
	}

	if credsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE"); credsFile != "" {
		c.Firebase.CredentialsFile = credsFile
	}

	if bucket := os.Getenv("FIREBASE_STORAGE_BUCKET"); bucket != "" {
		c.Firebase.StorageBucket = bucket
	}

	if apiKey := os.Getenv("PINECONE_API_KEY"); apiKey != "" {
		c.Pinecone.APIKey = apiKey
	}

	if index := os.Getenv("PINECONE_INDEX"); index != "" {
		c.Pinecone.IndexName = index
	}

	if provider := os.Getenv("EMBEDDINGS_PROVIDER"); provider != "" {
		c.Embeddings.Provider = provider
	}

	if apiKey := os.Getenv("AZURE_OPENAI_API_KEY"); apiKey != "" {
		c.Embeddings.Azure.APIKey = apiKey
	}

	if instance := os.Getenv("AZURE_OPENAI_API_INSTANCE_NAME"); instance != "" {
		c.Embeddings.Azure.InstanceName = instance
	}

	if deployment := os.Getenv("AZURE_OPENAI_API_EMBEDDINGS_DEPLOYMENT_NAME"); deployment != "" {
		c.Embeddings.Azure.Deployment = deployment
	}

	if version := os.Getenv("AZURE_OPENAI_API_VERSION"); version != "" {
		c.Embeddings.Azure.APIVersion = version
	}

	if apiKey := os.Getenv("GOOGLE_EMBEDDINGS_API_KEY"); apiKey != "" {
		c.Embeddings.Google.APIKey = apiKey
	}

	if user := os.Getenv("EMAIL_USER"); user != "" {
		c.Email.Username = user
		if c.Email.From == "" {
			c.Email.From = user
		}
	}

	if pass := os.Getenv("EMAIL_PASS"); pass != "" {
		c.Email.Password = pass
	}

	if from := os.Getenv("EMAIL_FROM"); from != "" {
		c.Email.From = from
	}

	if smtpHost := os.Getenv("EMAIL_SMTP_HOST"); smtpHost != "" {
		c.Email.SMTPHost = smtpHost
	}

	if smtpPort := os.Getenv("EMAIL_SMTP_PORT"); smtpPort != "" {
		if p, err := strconv.Atoi(smtpPort); err == nil {
			c.Email.SMTPPort = p
		}
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if batchSize := os.Getenv("PRESELECTION_BATCH_SIZE"); batchSize != "" {
		if n, err := strconv.Atoi(batchSize); err == nil {
			c.Recruitment.BatchSize = n
		}
	}

	if delay := os.Getenv("PRESELECTION_BATCH_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			c.Recruitment.DelayBetweenBatches = d
		}
	}

	if maxApps := os.Getenv("PRESELECTION_MAX_APPLICATIONS"); maxApps != "" {
		if n, err := strconv.Atoi(maxApps); err == nil {
			c.Recruitment.MaxApplications = n
		}
	}

	if timeout := os.Getenv("EXTRACT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Recruitment.ExtractTimeout = d
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}
}
