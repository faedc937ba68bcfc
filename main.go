package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	qhttp "concretepredictor/http"
	"concretepredictor/logging"
	"concretepredictor/ml"
)

type Config struct {
	Http struct {
		Port         int           `yaml:"port"`
		Timeout      time.Duration `yaml:"timeout"`
		MaxBodyBytes int64         `yaml:"max_body_bytes"`
	} `yaml:"http"`
	ML struct {
		ModelType string `yaml:"model_type"`
		ModelPath string `yaml:"model_path"`
		CacheSize int    `yaml:"cache_size"`
	} `yaml:"ml"`
	Log logging.Config `yaml:"log"`
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	// 1. Load config
	config, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Build logger
	logger, err := logging.New(config.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// 3. Load the model; the server never starts without it
	predictor, err := loadPredictor(config)
	if err != nil {
		logger.Fatal("model startup failed", zap.Error(err))
	}
	logger.Info("model loaded",
		zap.String("type", config.ML.ModelType),
		zap.String("path", config.ML.ModelPath),
		zap.Int("cache_size", config.ML.CacheSize),
	)

	// 4. Start HTTP server
	server := qhttp.NewServer(serverConfig(config), predictor, logger)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 5. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("exiting")
}

func defaultConfig() *Config {
	defaults := qhttp.DefaultServerConfig()

	var config Config
	config.Http.Port = defaults.Port
	config.Http.Timeout = defaults.Timeout
	config.Http.MaxBodyBytes = defaults.MaxBodyBytes
	config.ML.ModelType = ml.LinearModelType
	config.ML.ModelPath = "models/concrete_model.json"
	config.ML.CacheSize = 256
	config.Log.Level = "info"
	config.Log.MaxSizeMB = 100
	config.Log.MaxBackups = 3
	config.Log.MaxAgeDays = 28
	return &config
}

func loadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := defaultConfig()
	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, err
	}
	return config, nil
}

func loadPredictor(config *Config) (*ml.CachedPredictor, error) {
	model, err := ml.LoadModel(config.ML.ModelType, config.ML.ModelPath)
	if err != nil {
		return nil, err
	}
	return ml.NewCachedPredictor(model, config.ML.CacheSize)
}

func serverConfig(config *Config) qhttp.ServerConfig {
	return qhttp.ServerConfig{
		Port:         config.Http.Port,
		Timeout:      config.Http.Timeout,
		MaxBodyBytes: config.Http.MaxBodyBytes,
	}
}
