package main

import (
	"context"
	"log"

	httpapi "billing-counter/billing-svc/internal/api/http"
	"billing-counter/billing-svc/internal/domain"
	"billing-counter/billing-svc/internal/service"
	"billing-counter/billing-svc/internal/storage"
	"billing-counter/config"
)

func main() {
	cfg := config.Load()

	catalog := domain.DefaultCatalog()
	store := initStore(cfg)

	var publisher service.TransactionPublisher
	if cfg.KafkaBroker != "" {
		writer := config.NewKafkaWriter(cfg.KafkaBroker, cfg.KafkaTopic)
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	}

	session := service.NewSession(catalog, cfg.TaxRate, store, publisher)
	session.Restore(context.Background())

	qr := service.DefaultQRGenerator{CounterName: cfg.CounterName}
	handler := httpapi.NewHandler(session, catalog, qr, cfg.CurrencySymbol)

	httpapi.StartServer(cfg.Addr, httpapi.NewRouter(handler))
}

func initStore(cfg *config.Config) service.SessionStore {
	switch cfg.StorageBackend {
	case "postgres":
		store := storage.NewPostgresStore(config.MustInitPostgres())
		if err := store.EnsureSchema(); err != nil {
			log.Fatal("Failed to ensure schema:", err)
		}
		return store
	case "redis":
		return storage.NewRedisStore(config.MustInitRedis())
	case "file":
		return storage.NewFileStore(cfg.DataFile)
	default:
		log.Printf("Warning: unknown STORAGE_BACKEND %q, using file", cfg.StorageBackend)
		return storage.NewFileStore(cfg.DataFile)
	}
}
