// Copyright 2025 inklet Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Environment variables recognized on top of the configuration file. Values
// that fail to parse numerically abort loading instead of silently falling
// back to defaults mid-computation.
const (
	EnvSimilarityThreshold = "RECOMMENDATION_SIMILARITY_THRESHOLD"
	EnvMinResults          = "RECOMMENDATION_MIN_RESULTS"
)

// Config is the configuration for the recommendation engine.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Server    ServerConfig    `mapstructure:"server"`
}

// DatabaseConfig is the configuration for the data store.
type DatabaseConfig struct {
	// database for posts, tags, users, likes and comments
	DataStore string `mapstructure:"data_store"`
}

// RecommendConfig is the configuration for recommendation scoring.
type RecommendConfig struct {
	// minimal cosine similarity between a user vector and a post vector
	SimilarityThreshold float32 `mapstructure:"similarity_threshold" validate:"gte=0,lte=1"`
	// minimal number of recommended posts returned to a user
	MinResults int `mapstructure:"min_results" validate:"gt=0"`
}

// ServerConfig is the configuration for the REST server.
type ServerConfig struct {
	HttpHost string `mapstructure:"http_host"`
	HttpPort int    `mapstructure:"http_port" validate:"gte=0"`
}

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DataStore: "memory://",
		},
		Recommend: RecommendConfig{
			SimilarityThreshold: 0.33,
			MinResults:          10,
		},
		Server: ServerConfig{
			HttpHost: "127.0.0.1",
			HttpPort: 8087,
		},
	}
}

func setDefault() {
	defaultConfig := GetDefaultConfig()
	viper.SetDefault("database.data_store", defaultConfig.Database.DataStore)
	viper.SetDefault("recommend.similarity_threshold", defaultConfig.Recommend.SimilarityThreshold)
	viper.SetDefault("recommend.min_results", defaultConfig.Recommend.MinResults)
	viper.SetDefault("server.http_host", defaultConfig.Server.HttpHost)
	viper.SetDefault("server.http_port", defaultConfig.Server.HttpPort)
}

// LoadConfig loads the configuration from a TOML file and the environment.
// The path may be empty, in which case only defaults and environment
// variables apply.
func LoadConfig(path string) (*Config, error) {
	setDefault()
	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	conf := new(Config)
	if err := viper.Unmarshal(conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.loadEnvironment(); err != nil {
		return nil, errors.Trace(err)
	}
	if err := validator.New().Struct(conf); err != nil {
		return nil, errors.Trace(err)
	}
	return conf, nil
}

func (config *Config) loadEnvironment() error {
	if value, exist := os.LookupEnv(EnvSimilarityThreshold); exist {
		threshold, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return errors.Annotatef(err, "invalid %s", EnvSimilarityThreshold)
		}
		config.Recommend.SimilarityThreshold = float32(threshold)
	}
	if value, exist := os.LookupEnv(EnvMinResults); exist {
		minResults, err := strconv.Atoi(value)
		if err != nil {
			return errors.Annotatef(err, "invalid %s", EnvMinResults)
		}
		config.Recommend.MinResults = minResults
	}
	return nil
}
