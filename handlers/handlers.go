package handlers

import (
	"fitlink/config"
	"fitlink/database"
	"fitlink/directory"
	"fitlink/generator"
	"fitlink/workouts"
)

var (
	dir          *directory.Directory
	workoutStore *workouts.Store
	genClient    *generator.Client
)

// Init wires the handler package to the shared database and the external
// generator. Must be called after database.Connect.
func Init() error {
	dir = directory.New(database.DB)
	workoutStore = workouts.NewStore(database.DB)

	var err error
	genClient, err = generator.New(generator.Config{
		BaseURL: config.Cfg.GeneratorURL,
		APIKey:  config.Cfg.GeneratorAPIKey,
	})
	return err
}
