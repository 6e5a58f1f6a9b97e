package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/fathima-sithara/chat-data/internal/cache"
	"github.com/fathima-sithara/chat-data/internal/config"
	"github.com/fathima-sithara/chat-data/internal/events"
	"github.com/fathima-sithara/chat-data/internal/logger"
	"github.com/fathima-sithara/chat-data/internal/repository"
	"github.com/fathima-sithara/chat-data/internal/service"
	"github.com/fathima-sithara/chat-data/internal/store/mongostore"
)

// chat-data wires the full data layer against its real backends and verifies
// connectivity. It is the reference for how a consuming service constructs
// the repositories: explicit dependencies, no globals.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Development)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongostore.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		zlog.Fatalw("mongo connect", "err", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		zlog.Fatalw("mongo ping", "uri", cfg.Mongo.URI, "err", err)
	}
	st := mongostore.New(client.Database(cfg.Mongo.DB))

	var pub events.Publisher = events.Nop{}
	if cfg.Kafka.Enabled {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() { _ = kp.Close() }()
		pub = kp
	}

	users := repository.NewUserRepository(st, zlog)
	chats := repository.NewChatRepository(st, zlog)
	messages := repository.NewMessageRepository(st, zlog)
	groups := repository.NewGroupRepository(st, zlog, pub)
	msgSvc := service.NewMessageService(messages, chats, pub, zlog)

	// Smoke reads through each layer; none of them touch data.
	all, err := users.GetAll(ctx)
	if err != nil {
		zlog.Fatalw("user scan", "err", err)
	}
	if _, err := groups.GetForUser(ctx, "connectivity-check"); err != nil {
		zlog.Fatalw("group query", "err", err)
	}
	if _, err := msgSvc.GetByChatID(ctx, "connectivity-check"); err != nil {
		zlog.Fatalw("message scan", "err", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		zlog.Warnw("redis unavailable, user cache disabled", "addr", cfg.Redis.Addr, "err", err)
	} else {
		_ = cache.NewUserCache(users, rdb, cfg.Redis.Prefix, cfg.CacheTTL, zlog)
		zlog.Infow("user cache ready", "prefix", cfg.Redis.Prefix, "ttl", cfg.CacheTTL)
	}

	zlog.Infow("chat data layer ready",
		"mongo_db", cfg.Mongo.DB,
		"users", len(all),
		"kafka", cfg.Kafka.Enabled,
	)
}
