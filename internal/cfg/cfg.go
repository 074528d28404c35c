package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
)

// Поддерживаемые хранилища снимков
const (
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	App     *AppCfg
	Http    *HTTPConfig
	Storage *StorageCfg
	Db      *PGDBCfg  // nil, если хранилище не postgres
	Redis   *RedisCfg // nil, если хранилище не redis
	Minio   *MinIOCfg // nil, если архив отчётов не настроен
	Kafka   *KafkaCfg // nil, если публикация событий не настроена
}

type AppCfg struct {
	Location        *time.Location // часовой пояс дневных границ статистики
	ShutdownTimeout time.Duration
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type StorageCfg struct {
	Backend   string
	Namespace string // ключ документа, по умолчанию appData
	DataDir   string // каталог файлового хранилища
}

type PGDBCfg struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MaxConns      int    // размер пула pgxpool
	MigrationsDir string // каталог SQL-миграций golang-migrate
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Бакет для выгруженных отчётов
	MinioRootUser     string // Имя пользователя для доступа к Minio
	MinioRootPassword string // Пароль для доступа к Minio
	MinioUseSSL       bool
	ArchiveSchedule   string // cron-выражение с секундами для ежедневного архива, пусто — выключено
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
	BatchSize         int // размер пачки outbox-событий за один проход воркера
}

// LoadEnv подгружает переменные из .env, если файл есть. Уже заданные переменные не перезаписываются.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	return godotenv.Load(path)
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	app, err := loadAppCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	storage, err := loadStorageCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	config := &Config{
		App:     app,
		Http:    http,
		Storage: storage,
	}

	switch storage.Backend {
	case StoragePostgres:
		if config.Db, err = loadPGDBCfg(log); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	case StorageRedis:
		if config.Redis, err = loadRedisCfg(log); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	if config.Minio, err = loadMinIOCfg(log); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if config.Kafka, err = loadKafkaCfg(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if config.Kafka != nil && storage.Backend != StoragePostgres {
		log.Warnf("KAFKA_BROKERS is set but events are published only with the postgres storage backend")
	}

	return config, nil
}

func loadAppCfg(log logger.Logger) (*AppCfg, error) {
	const defaultShutdownTimeout = 10 * time.Second

	location := time.Local
	if tz := getEnv("TIME_ZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Errorf(err, "invalid TIME_ZONE")
			return nil, e.Wrap("TIME_ZONE", e.ErrIncorrectEnvVariable)
		}
		location = loc
	}

	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		log.Errorf(err, "invalid SHUTDOWN_TIMEOUT")
		return nil, err
	}

	return &AppCfg{
		Location:        location,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultHost         = "127.0.0.1"
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("HTTP_IDLE_TIMEOUT", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_IDLE_TIMEOUT")
		return nil, err
	}

	return &HTTPConfig{
		Host:         getEnvOrDefault("HTTP_HOST", defaultHost),
		Port:         getEnvOrDefault("HTTP_PORT", defaultPort),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadStorageCfg(log logger.Logger) (*StorageCfg, error) {
	const (
		defaultBackend   = StorageFile
		defaultNamespace = "appData"
		defaultDataDir   = "data"
	)

	backend := strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", defaultBackend))
	switch backend {
	case StorageFile, StorageRedis, StoragePostgres:
	default:
		err := fmt.Errorf("STORAGE_BACKEND must be one of %s, %s, %s: %w",
			StorageFile, StorageRedis, StoragePostgres, e.ErrIncorrectEnvVariable)
		log.Errorf(err, "invalid STORAGE_BACKEND")
		return nil, err
	}

	return &StorageCfg{
		Backend:   backend,
		Namespace: getEnvOrDefault("STORAGE_NAMESPACE", defaultNamespace),
		DataDir:   getEnvOrDefault("DATA_DIR", defaultDataDir),
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost          = "localhost"
		defaultPort          = "5432"
		defaultSSLMode       = "disable"
		defaultMaxConns      = 4
		defaultMigrationsDir = "db/migrations"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	maxConns, err := parseIntEnv("POSTGRES_MAX_CONNS", defaultMaxConns)
	if err != nil || maxConns <= 0 {
		log.Errorf(err, "invalid POSTGRES_MAX_CONNS")
		return nil, e.Wrap("POSTGRES_MAX_CONNS", e.ErrIncorrectEnvVariable)
	}

	return &PGDBCfg{
		Host:          getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:          getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:          user,
		Password:      password,
		DBName:        dbName,
		SSLMode:       getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MaxConns:      maxConns,
		MigrationsDir: getEnvOrDefault("MIGRATIONS_DIR", defaultMigrationsDir),
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("REDIS_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid REDIS_MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("REDIS_DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("REDIS_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("REDIS_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_WRITE_TIMEOUT")
		return nil, err
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     max(readTimeout, writeTimeout),
	}, nil
}

// loadMinIOCfg возвращает nil без MINIO_ENDPOINT: архив отчётов выключен.
func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL = false
		defaultBucket = "reports"
	)

	endpoint := getEnv("MINIO_ENDPOINT")
	if endpoint == "" {
		return nil, nil
	}

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:     endpoint,
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		ArchiveSchedule:   getEnv("REPORT_ARCHIVE_SCHEDULE"),
	}, nil
}

// loadKafkaCfg возвращает nil без KAFKA_BROKERS: публикация событий выключена.
func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultTopic             = "ledger-events"
		defaultPartitions        = 1
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
		defaultBatchSize         = 10
	)

	brokerStr := getEnv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, nil
	}

	brokers := make([]string, 0)
	for _, b := range strings.Split(brokerStr, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, e.Wrap("KAFKA_BROKERS", e.ErrIncorrectEnvVariable)
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("KAFKA_REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("KAFKA_REPLICATION_FACTOR", err)
	}

	batchSize, err := parseIntEnv("OUTBOX_BATCH_SIZE", defaultBatchSize)
	if err != nil {
		return nil, e.Wrap("OUTBOX_BATCH_SIZE", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		BatchSize:         batchSize,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
