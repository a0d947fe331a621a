package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/subosito/gotenv"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	// RequestTimeout bounds one HTTP request end to end (all pages plus analysis).
	RequestTimeout time.Duration

	ItunesBase      string
	ItunesCountry   string
	FeedPages       int
	SampleLimit     int
	FetchRPS        int
	PageTimeout     time.Duration
	PageConcurrency int

	KeywordsTopN     int
	TopicModel       string // density|off
	TopicEmbedder    string // tfidf|openai
	ClusterEps       float64
	ClusterMinPoints int
	OpenAIKey        string
	OpenAIBaseURL    string
	OpenAIModel      string

	ArtifactStore string // file|redis
	ArtifactDir   string
	ArtifactTTL   time.Duration
	RedisAddr     string
	RedisPass     string
	RedisDB       int

	MySQLDSN string

	AppIDs         []string
	CollectWorkers int
}

// Load reads the environment, preloading .env when present.
func Load() Config {
	if err := gotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer config value")
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric config value")
		}
		return def
	}

	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8000"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),

		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,

		ItunesBase:      env("ITUNES_BASE_URL", "https://itunes.apple.com"),
		ItunesCountry:   env("ITUNES_COUNTRY", "gb"),
		FeedPages:       atoi("FEED_PAGES", 10),
		SampleLimit:     atoi("SAMPLE_LIMIT", 100),
		FetchRPS:        atoi("FETCH_RPS", 5),
		PageTimeout:     time.Duration(atoi("PAGE_TIMEOUT_SECONDS", 10)) * time.Second,
		PageConcurrency: atoi("PAGE_CONCURRENCY", 4),

		KeywordsTopN:     atoi("KEYWORDS_TOP_N", 10),
		TopicModel:       strings.ToLower(env("TOPIC_MODEL", "density")),
		TopicEmbedder:    strings.ToLower(env("TOPIC_EMBEDDER", "tfidf")),
		ClusterEps:       atof("CLUSTER_EPS", 0.7),
		ClusterMinPoints: atoi("CLUSTER_MIN_POINTS", 2),
		OpenAIKey:        env("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    env("OPENAI_BASE_URL", ""),
		OpenAIModel:      env("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),

		ArtifactStore: strings.ToLower(env("ARTIFACT_STORE", "file")),
		ArtifactDir:   env("ARTIFACT_DIR", "."),
		ArtifactTTL:   time.Duration(atoi("ARTIFACT_TTL_SECONDS", 86400)) * time.Second,
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),

		MySQLDSN: env("MYSQL_DSN", ""),

		AppIDs:         splitList(env("APP_IDS", "")),
		CollectWorkers: atoi("COLLECT_WORKERS", 4),
	}
	if c.TopicEmbedder == "openai" && c.OpenAIKey == "" {
		log.Warn().Msg("TOPIC_EMBEDDER=openai but OPENAI_API_KEY is empty; falling back to tfidf")
		c.TopicEmbedder = "tfidf"
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
