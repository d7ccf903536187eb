package config

import (
	"flag"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	AppName  = "Coffee Track"
	Revision = "1"
)

var (
	// Build time arguments
	AppVersion  string
	Sha1Version string
	BuildTime   string

	// Runtime flags
	profile      *string
	configSource *string
)

type Config struct {
	AppName         string          `json:"appName"         yaml:"appName"`
	AppNameDesc     string          `json:"appNameDesc"     yaml:"appNameDesc"`
	AppVersion      string          `json:"appVersion"      yaml:"appVersion"`
	AppVersionDesc  string          `json:"appVersionDesc"  yaml:"appVersionDesc"`
	Sha1Version     string          `json:"sha1Version"     yaml:"sha1Version"`
	Sha1VersionDesc string          `json:"sha1VersionDesc" yaml:"sha1VersionDesc"`
	BuildTime       string          `json:"buildTime"       yaml:"buildTime"`
	BuildTimeDesc   string          `json:"buildTimeDesc"   yaml:"buildTimeDesc"`
	Profile         string          `json:"profile"         yaml:"profile"`
	ProfileDesc     string          `json:"profileDesc"     yaml:"profileDesc"`
	Revision        string          `json:"revision"        yaml:"revision"`
	RevisionDesc    string          `json:"revisionDesc"    yaml:"revisionDesc"`
	Port            string          `json:"port"            yaml:"port"`
	PortDesc        string          `json:"portDesc"        yaml:"portDesc"`
	Config          ConfigSource    `json:"config"          yaml:"config"`
	ConfigDesc      string          `json:"configDesc"      yaml:"configDesc"`
	Log             LogConfig       `json:"log"             yaml:"log"`
	LogDesc         string          `json:"logDesc"         yaml:"logDesc"`
	Redis           RedisConfig     `json:"redis"           yaml:"redis"`
	RedisDesc       string          `json:"redisDesc"       yaml:"redisDesc"`
	RabbitMQ        QueueConfig     `json:"rabbitmq"        yaml:"rabbitmq"`
	RabbitMQDesc    string          `json:"rabbitmqDesc"    yaml:"rabbitmqDesc"`
	Inventory       InventoryConfig `json:"inventory"       yaml:"inventory"`
	InventoryDesc   string          `json:"inventoryDesc"   yaml:"inventoryDesc"`
	Order           OrderConfig     `json:"order"           yaml:"order"`
	OrderDesc       string          `json:"orderDesc"       yaml:"orderDesc"`
}

type ConfigSource struct {
	Print      bool   `json:"print"      yaml:"print"`
	PrintDesc  string `json:"printDesc"  yaml:"printDesc"`
	Source     string `json:"source"     yaml:"source"`
	SourceDesc string `json:"sourceDesc" yaml:"sourceDesc"`
}

type LogConfig struct {
	Level          string `json:"level"          yaml:"level"`
	LevelDesc      string `json:"levelDesc"      yaml:"levelDesc"`
	Structured     bool   `json:"structured"     yaml:"structured"`
	StructuredDesc string `json:"structuredDesc" yaml:"structuredDesc"`
}

type RedisConfig struct {
	Host         string `json:"host"         yaml:"host"`
	HostDesc     string `json:"hostDesc"     yaml:"hostDesc"`
	Port         string `json:"port"         yaml:"port"`
	PortDesc     string `json:"portDesc"     yaml:"portDesc"`
	Pass         string `json:"pass"         yaml:"pass"`
	PassDesc     string `json:"passDesc"     yaml:"passDesc"`
	Db           int    `json:"db"           yaml:"db"`
	DbDesc       string `json:"dbDesc"       yaml:"dbDesc"`
	PoolSize     int    `json:"poolSize"     yaml:"poolSize"`
	PoolSizeDesc string `json:"poolSizeDesc" yaml:"poolSizeDesc"`
}

type QueueConfig struct {
	Host      string           `json:"host"      yaml:"host"`
	HostDesc  string           `json:"hostDesc"  yaml:"hostDesc"`
	Port      string           `json:"port"      yaml:"port"`
	PortDesc  string           `json:"portDesc"  yaml:"portDesc"`
	User      string           `json:"user"      yaml:"user"`
	UserDesc  string           `json:"userDesc"  yaml:"userDesc"`
	Pass      string           `json:"pass"      yaml:"pass"`
	PassDesc  string           `json:"passDesc"  yaml:"passDesc"`
	Mock      bool             `json:"mock"      yaml:"mock"`
	MockDesc  string           `json:"mockDesc"  yaml:"mockDesc"`
	Order     OrderQueueConfig `json:"order"     yaml:"order"`
	OrderDesc string           `json:"orderDesc" yaml:"orderDesc"`
}

type OrderQueueConfig struct {
	Exchange     string         `json:"exchange"     yaml:"exchange"`
	ExchangeDesc string         `json:"exchangeDesc" yaml:"exchangeDesc"`
	Queue        string         `json:"queue"        yaml:"queue"`
	QueueDesc    string         `json:"queueDesc"    yaml:"queueDesc"`
	Dlt          OrderDltConfig `json:"dlt"          yaml:"dlt"`
	DltDesc      string         `json:"dltDesc"      yaml:"dltDesc"`
}

type OrderDltConfig struct {
	Exchange     string `json:"exchange"     yaml:"exchange"`
	ExchangeDesc string `json:"exchangeDesc" yaml:"exchangeDesc"`
}

type InventoryConfig struct {
	Capacity     map[string]int64 `json:"capacity"     yaml:"capacity"`
	CapacityDesc string           `json:"capacityDesc" yaml:"capacityDesc"`
}

type OrderConfig struct {
	TtlHours        int    `json:"ttlHours"        yaml:"ttlHours"`
	TtlHoursDesc    string `json:"ttlHoursDesc"    yaml:"ttlHoursDesc"`
	PrepSeconds     int    `json:"prepSeconds"     yaml:"prepSeconds"`
	PrepSecondsDesc string `json:"prepSecondsDesc" yaml:"prepSecondsDesc"`
	MaxQuantity     int    `json:"maxQuantity"     yaml:"maxQuantity"`
	MaxQuantityDesc string `json:"maxQuantityDesc" yaml:"maxQuantityDesc"`
}

func (c *Config) Print() {
	if c.Config.Print {
		log.Info().Interface("config", c).Msg("the following configurations have successfully loaded")
	}
}

func init() {
	profile = flag.String("p", "local", "profile for the application config")
	configSource = flag.String("s", "local", "where to get configurations from")

	viper.SetDefault("profile", "local")
	viper.SetDefault("port", "8080")

	viper.SetDefault("config.print", false)

	viper.SetDefault("log.level", "trace")
	viper.SetDefault("log.structured", false)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.pass", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.poolSize", 10)

	viper.SetDefault("rabbitmq.host", "localhost")
	viper.SetDefault("rabbitmq.port", "5672")
	viper.SetDefault("rabbitmq.user", "guest")
	viper.SetDefault("rabbitmq.pass", "guest")
	viper.SetDefault("rabbitmq.mock", false)
	viper.SetDefault("rabbitmq.order.exchange", "coffee_orders")
	viper.SetDefault("rabbitmq.order.queue", "coffee_orders")
	viper.SetDefault("rabbitmq.order.dlt.exchange", "coffee_orders.dlt.exchange")

	viper.SetDefault("inventory.capacity", map[string]int64{
		"milk":         10000,
		"coffee-beans": 5000,
		"water":        20000,
		"syrup":        3000,
		"foam":         5000,
	})

	viper.SetDefault("order.ttlHours", 24)
	viper.SetDefault("order.prepSeconds", 10)
	viper.SetDefault("order.maxQuantity", 10)
}

func Load() *Config {
	config, err := createConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configurations")
	}

	switch *configSource {
	case "local":
		err = loadLocalConfigs(config)
	default:
		log.Warn().
			Str("configSource", *configSource).
			Msg("unrecognized configuration source, using local")

		err = loadLocalConfigs(config)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configurations")
	}

	return config
}

// LoadDefaults builds a configuration from viper defaults alone,
// without consulting a config file. Used by tests.
func LoadDefaults() *Config {
	config, err := createConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configurations")
	}
	if err = viper.Unmarshal(config); err != nil {
		log.Fatal().Err(err).Msg("failed to load configurations")
	}
	return config
}

func createConfig() (config *Config, err error) {
	config = &Config{}
	setDescriptions(config)

	config.Config.Source = *configSource
	config.Profile = *profile

	config.AppName = AppName
	config.Revision = Revision
	config.AppVersion = AppVersion
	config.Sha1Version = Sha1Version
	config.BuildTime = BuildTime

	return config, nil
}

func loadLocalConfigs(config *Config) error {
	log.Info().Msg("loading local configurations...")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		log.Warn().Msg("no local config file found, using defaults")
	}

	return viper.Unmarshal(config)
}

func setDescriptions(config *Config) {
	config.AppNameDesc = "Name of the application in a human readable format. Example: Coffee Track"
	config.AppVersionDesc = "Semantic version of the application. Example: v1.2.3"
	config.Sha1VersionDesc = "Git sha1 hash of the application version."
	config.BuildTimeDesc = "When the running binary was compiled."
	config.ProfileDesc = "Running profile of the application, can assist with sensible defaults or change behavior. Examples: local, dev, prod"
	config.RevisionDesc = "A hard coded revision handy for quickly determining if local changes are running. Examples: 1, Two, 9999"
	config.PortDesc = "Port that the application will bind to on startup. Examples: 8080, 3000"
	config.ConfigDesc = "Settings for where and how the application should get its configurations."
	config.LogDesc = "Settings for application logging."
	config.RedisDesc = "Redis configurations. Redis holds the ingredient ledger and the order store."
	config.RabbitMQDesc = "Rabbit MQ configurations. RabbitMQ carries fulfillment work items."
	config.InventoryDesc = "Ingredient inventory configurations."
	config.OrderDesc = "Order handling configurations."

	config.Config.PrintDesc = "Print configurations on startup."
	config.Config.SourceDesc = "Where the application should go for configurations. Example: local"

	config.Log.LevelDesc = "The lowest level that the application should log at. Examples: info, warn, error."
	config.Log.StructuredDesc = "Whether the application should output structured (json) logging, or human friendly plain text."

	config.Redis.HostDesc = "Host of the Redis server."
	config.Redis.PortDesc = "Port of the Redis server."
	config.Redis.PassDesc = "Password the application will use to connect to Redis."
	config.Redis.DbDesc = "Redis logical database number."
	config.Redis.PoolSizeDesc = "Maximum number of pooled Redis connections."

	config.RabbitMQ.HostDesc = "RabbitMQ's broker host."
	config.RabbitMQ.PortDesc = "RabbitMQ's broker host port."
	config.RabbitMQ.UserDesc = "User the application will use to connect to RabbitMQ."
	config.RabbitMQ.PassDesc = "Password the application will use to connect to RabbitMQ."
	config.RabbitMQ.MockDesc = "Whether or not the application should mock sending messages to RabbitMQ."
	config.RabbitMQ.OrderDesc = "RabbitMQ settings for order fulfillment work items."
	config.RabbitMQ.Order.ExchangeDesc = "RabbitMQ exchange fulfillment work items are published to."
	config.RabbitMQ.Order.QueueDesc = "Durable queue the fulfillment worker consumes from."
	config.RabbitMQ.Order.DltDesc = "Configurations for the dead letter topic, where work items that fail processing are copied."
	config.RabbitMQ.Order.Dlt.ExchangeDesc = "Exchange used for posting messages to the dead letter topic."

	config.Inventory.CapacityDesc = "Total capacity per ingredient, used to lazily initialize the ledger."

	config.Order.TtlHoursDesc = "Hours an order record is retained before it expires from the store."
	config.Order.PrepSecondsDesc = "Seconds the fulfillment worker spends preparing each order."
	config.Order.MaxQuantityDesc = "Maximum quantity per order line item."
}
