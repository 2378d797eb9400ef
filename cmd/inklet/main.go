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
package main

import (
	_ "net/http/pprof"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inklet-io/inklet/base/log"
	"github.com/inklet-io/inklet/config"
	"github.com/inklet-io/inklet/server"
	"github.com/inklet-io/inklet/storage/data"
)

var command = &cobra.Command{
	Use:   "inklet",
	Short: "The recommendation engine of the inklet blogging platform.",
	Run: func(cmd *cobra.Command, args []string) {
		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)

		// load configuration
		configPath, _ := cmd.PersistentFlags().GetString("config")
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config",
				zap.String("config_path", configPath), zap.Error(err))
		}

		// connect data store
		database, err := data.Open(cfg.Database.DataStore)
		if err != nil {
			log.Logger().Fatal("failed to connect data store",
				zap.String("data_store", log.RedactDBURL(cfg.Database.DataStore)), zap.Error(err))
		}
		if err = database.Init(); err != nil {
			log.Logger().Fatal("failed to init data store", zap.Error(err))
		}
		log.Logger().Info("connect data store",
			zap.String("data_store", log.RedactDBURL(cfg.Database.DataStore)))

		s := server.NewRestServer(cfg, database)
		s.StartHttpServer()
	},
}

func init() {
	command.PersistentFlags().StringP("config", "c", "", "configuration file path")
	command.PersistentFlags().Bool("debug", false, "use debug log mode")
	log.AddFlags(command.PersistentFlags())
}

func main() {
	if err := command.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
