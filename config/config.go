package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

type Config struct {
	Addr           string
	TaxRate        float64
	CurrencySymbol string
	CounterName    string
	StorageBackend string // file | postgres | redis
	DataFile       string
	KafkaBroker    string
	KafkaTopic     string
}

func Load() *Config {
	_ = godotenv.Load()

	taxRate, err := strconv.ParseFloat(getEnv("TAX_RATE", "0.05"), 64)
	if err != nil {
		log.Printf("Warning: invalid TAX_RATE, using 0.05: %v", err)
		taxRate = 0.05
	}

	return &Config{
		Addr:           getEnv("ADDR", ":8080"),
		TaxRate:        taxRate,
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "₹"),
		CounterName:    getEnv("COUNTER_NAME", "Restaurant Billing System"),
		StorageBackend: getEnv("STORAGE_BACKEND", "file"),
		DataFile:       getEnv("DATA_FILE", "billing-data.json"),
		KafkaBroker:    os.Getenv("KAFKA_BROKER"),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "transactions"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func MustInitPostgres() *sql.DB {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")

	connStr := "host=" + dbHost + " port=" + dbPort + " user=" + dbUser +
		" password=" + dbPassword + " dbname=" + dbName + " sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_HOST") + ":" + os.Getenv("REDIS_PORT"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(broker),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}
