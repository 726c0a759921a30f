package main

import (
	"flag"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	rediscli "github.com/go-redis/redis/v7"
	"github.com/gocql/gocql"
	"github.com/oklog/run"
	"github.com/peterbourgon/ff"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/samueltorres/countd/pkg/cassandra"
	"github.com/samueltorres/countd/pkg/configs"
	"github.com/samueltorres/countd/pkg/counter"
	"github.com/samueltorres/countd/pkg/file"
	"github.com/samueltorres/countd/pkg/redis"
	transporthttp "github.com/samueltorres/countd/pkg/transport/http"
)

func main() {
	config := parseConfig()
	logger := createLogger(config)

	// metrics
	metrics := prometheus.NewRegistry()
	metrics.MustRegister(
		version.NewCollector("countd"),
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	counterStorage, err := createCounterStorage(config, logger)
	if err != nil {
		logger.Fatalf("could not create counter storage: %v", err)
	}

	counterService := counter.NewCounterService(counterStorage, logger, metrics)

	var g run.Group
	{
		counterHTTPServer := transporthttp.New(
			counterService,
			logger,
			metrics,
			transporthttp.WithListen(config.HttpAddr))

		g.Add(func() error {
			return counterHTTPServer.Start()
		}, func(err error) {
			counterHTTPServer.Stop(err)
		})
	}
	{
		debugServer := createDebugServer(config, metrics)

		g.Add(func() error {
			return debugServer.ListenAndServe()
		}, func(error) {
			debugServer.Close()
		})
	}
	{
		g.Add(func() error {
			c := make(chan os.Signal, 1)
			signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
			sig := <-c
			return fmt.Errorf("received signal %s", sig)
		}, func(error) {})
	}

	logger.Info("exit", g.Run())
}

func parseConfig() configs.Config {
	fs := flag.NewFlagSet("countd", flag.ExitOnError)
	var (
		httpAddress       = fs.String("http-addr", ":8080", "http address")
		debugAddress      = fs.String("debug-addr", ":8083", "debug address for metrics and pprof")
		datastore         = fs.String("datastore", "file", "datastore type (file/redis/cassandra)")
		counterFile       = fs.String("counter-file", "./data/count", "path of the counter file")
		counterKey        = fs.String("counter-key", "countd:requests", "counter key for remote datastores")
		redisAddress      = fs.String("redis-address", "", "redis address")
		redisDatabase     = fs.Int("redis-database", 0, "redis database")
		redisPassword     = fs.String("redis-password", "", "redis password")
		cassandraHost     = fs.String("cassandra-host", "", "cassandra host")
		cassandraKeyspace = fs.String("cassandra-keyspace", "", "cassandra keyspace")
		logLevel          = fs.String("log-level", "info", "log level (panic, fatal, error, warn, info, debug, trace)")
	)
	ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("COUNTD"))

	var config configs.Config
	{
		config.HttpAddr = *httpAddress
		config.DebugAddr = *debugAddress
		config.Datastore = *datastore
		config.CounterKey = *counterKey
		config.File.Path = *counterFile
		config.Redis.Address = *redisAddress
		config.Redis.Database = *redisDatabase
		config.Redis.Password = *redisPassword
		config.Cassandra.Hosts = *cassandraHost
		config.Cassandra.Keyspace = *cassandraKeyspace
		config.LogLevel = *logLevel
	}

	return config
}

func createLogger(config configs.Config) *logrus.Logger {
	logger := logrus.StandardLogger()
	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		level = logrus.ErrorLevel
	}

	logger.Infof("setting log level to %v", level)
	logger.SetLevel(level)

	return logger
}

func createCounterStorage(config configs.Config, logger *logrus.Logger) (counter.Storage, error) {
	switch config.Datastore {
	case "file":
		return file.NewStorage(afero.NewOsFs(), config.File.Path, logger), nil

	case "redis":
		redisClient := rediscli.NewClient(&rediscli.Options{
			Addr:     config.Redis.Address,
			Password: config.Redis.Password,
			DB:       config.Redis.Database,
		})

		_, err := redisClient.Ping().Result()
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis : %w", err)
		}

		return redis.NewRemoteStorage(redisClient, config.CounterKey, logger), nil

	case "cassandra":
		cluster := gocql.NewCluster(config.Cassandra.Hosts)
		cluster.Keyspace = config.Cassandra.Keyspace
		cluster.Consistency = gocql.LocalQuorum
		session, err := cluster.CreateSession()
		if err != nil {
			return nil, fmt.Errorf("could not create cassandra session : %w", err)
		}

		return cassandra.NewRemoteStorage(logger, session, config.CounterKey), nil

	default:
		return nil, fmt.Errorf("invalid datastore %s", config.Datastore)
	}
}

func createDebugServer(config configs.Config, metrics *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics, promhttp.HandlerOpts{}))
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return &http.Server{
		Addr:    config.DebugAddr,
		Handler: mux,
	}
}
