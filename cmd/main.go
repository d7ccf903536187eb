package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sksmith/bunnyq"

	"github.com/BrekotkinaKarina/coffee-track/api"
	"github.com/BrekotkinaKarina/coffee-track/config"
	"github.com/BrekotkinaKarina/coffee-track/core/inventory"
	"github.com/BrekotkinaKarina/coffee-track/core/menu"
	"github.com/BrekotkinaKarina/coffee-track/core/order"
	"github.com/BrekotkinaKarina/coffee-track/db"
	"github.com/BrekotkinaKarina/coffee-track/db/ledgerrepo"
	"github.com/BrekotkinaKarina/coffee-track/db/orderrepo"
	"github.com/BrekotkinaKarina/coffee-track/queue"
)

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg := config.Load()

	configLogging(cfg)
	printLogHeader(cfg)
	cfg.Print()

	client := configStore(ctx, cfg)

	log.Info().Msg("creating inventory service...")
	lr := ledgerrepo.NewRedisRepo(client)
	inventoryService := inventory.NewService(lr, capacities(cfg))

	log.Info().Msg("initializing ingredient ledger...")
	if err := inventoryService.EnsureInitialized(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize ingredient ledger")
	}

	bq := rabbit(cfg)
	q := configOrderQueue(bq, cfg)

	log.Info().Msg("creating order service...")
	or := orderrepo.NewRedisRepo(client, time.Duration(cfg.Order.TtlHours)*time.Hour)
	orderService := order.NewService(or, inventoryService, q, cfg.Order.MaxQuantity)

	log.Info().Msg("creating fulfillment worker...")
	fulfiller := order.NewFulfiller(or, inventoryService, time.Duration(cfg.Order.PrepSeconds)*time.Second)

	if oq, ok := q.(*queue.OrderQueue); ok {
		log.Info().Msg("consuming orders...")
		go oq.ConsumeOrders(context.Background(), fulfiller)
	}

	log.Info().Msg("configuring metrics...")
	api.ConfigureMetrics()

	log.Info().Msg("configuring router...")
	r := api.ConfigureRouter(cfg, orderService, inventoryService)

	log.Info().Str("port", cfg.Port).Msg("listening")
	log.Fatal().Err(http.ListenAndServe(":"+cfg.Port, r)).Send()
}

func capacities(cfg *config.Config) map[menu.Ingredient]int64 {
	capacity := make(map[menu.Ingredient]int64, len(cfg.Inventory.Capacity))
	for name, total := range cfg.Inventory.Capacity {
		ingredient, err := menu.ParseIngredient(name)
		if err != nil {
			log.Fatal().Err(err).Str("ingredient", name).Msg("unknown ingredient in capacity configuration")
		}
		capacity[ingredient] = total
	}
	return capacity
}

func configStore(ctx context.Context, cfg *config.Config) *redis.Client {
	var client *redis.Client
	var err error

	addr := cfg.Redis.Host + ":" + cfg.Redis.Port
	for {
		client, err = db.Connect(ctx, addr, cfg.Redis.Pass, cfg.Redis.Db, db.PoolSize(cfg.Redis.PoolSize))
		if err != nil {
			log.Error().Err(err).Msg("failed to connect to redis... retrying")
			time.Sleep(1 * time.Second)
			continue
		}
		break
	}

	return client
}

func configOrderQueue(bq *bunnyq.BunnyQ, cfg *config.Config) (q order.Queue) {
	if cfg.RabbitMQ.Mock {
		log.Info().Msg("creating mock queue...")
		return queue.NewMockQueue()
	}

	log.Info().Msg("connecting to rabbitmq...")
	return queue.New(bq, cfg.RabbitMQ.Order.Exchange, cfg.RabbitMQ.Order.Queue, cfg.RabbitMQ.Order.Dlt.Exchange)
}

func rabbit(cfg *config.Config) *bunnyq.BunnyQ {
	osChannel := make(chan os.Signal, 1)
	signal.Notify(osChannel, syscall.SIGTERM)

	return bunnyq.New(context.Background(),
		bunnyq.Address{
			User: cfg.RabbitMQ.User,
			Pass: cfg.RabbitMQ.Pass,
			Host: cfg.RabbitMQ.Host,
			Port: cfg.RabbitMQ.Port,
		},
		osChannel,
		bunnyq.LogHandler(logger{}),
	)
}

type logger struct {
}

func (l logger) Log(_ context.Context, level bunnyq.LogLevel, msg string, data map[string]interface{}) {
	var evt *zerolog.Event
	switch level {
	case bunnyq.LogLevelTrace:
		evt = log.Trace()
	case bunnyq.LogLevelDebug:
		evt = log.Debug()
	case bunnyq.LogLevelInfo:
		evt = log.Info()
	case bunnyq.LogLevelWarn:
		evt = log.Warn()
	case bunnyq.LogLevelError:
		evt = log.Error()
	case bunnyq.LogLevelNone:
		evt = log.Info()
	default:
		evt = log.Info()
	}

	for k, v := range data {
		evt.Interface(k, v)
	}

	evt.Msg(msg)
}

func printLogHeader(cfg *config.Config) {
	if cfg.Log.Structured {
		log.Info().Str("application", cfg.AppName).
			Str("revision", cfg.Revision).
			Str("version", cfg.AppVersion).
			Str("sha1ver", cfg.Sha1Version).
			Str("build-time", cfg.BuildTime).
			Str("profile", cfg.Profile).
			Str("config-source", cfg.Config.Source).
			Send()
	} else {
		f := figure.NewFigure(cfg.AppName, "", true)
		f.Print()

		log.Info().Msg("=============================================")
		log.Info().Msg(fmt.Sprintf("      Revision: %s", cfg.Revision))
		log.Info().Msg(fmt.Sprintf("       Profile: %s", cfg.Profile))
		log.Info().Msg(fmt.Sprintf(" Config Source: %s", cfg.Config.Source))
		log.Info().Msg(fmt.Sprintf("   Tag Version: %s", cfg.AppVersion))
		log.Info().Msg(fmt.Sprintf("  Sha1 Version: %s", cfg.Sha1Version))
		log.Info().Msg(fmt.Sprintf("    Build Time: %s", cfg.BuildTime))
		log.Info().Msg("=============================================")
	}
}

func configLogging(cfg *config.Config) {
	log.Info().Msg("configuring logging...")

	if !cfg.Log.Structured {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warn().Str("loglevel", cfg.Log.Level).Err(err).Msg("defaulting to info")
		level = zerolog.InfoLevel
	}
	log.Info().Str("loglevel", level.String()).Msg("setting log level")
	zerolog.SetGlobalLevel(level)
}
