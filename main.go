package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/battleship/internal/config"
	"github.com/robalobadob/battleship/internal/database"
	"github.com/robalobadob/battleship/internal/game"
	"github.com/robalobadob/battleship/internal/httpserver"
	"github.com/robalobadob/battleship/internal/layout"
	"github.com/robalobadob/battleship/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(getEnv("BATTLESHIP_CONFIG_DIR", "."))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := layout.Init(cfg.Game.LayoutFile); err != nil {
		log.Fatal().Err(err).Str("file", cfg.Game.LayoutFile).Msg("failed to load ship layout")
	}
	ships, cells := layout.Stats()
	log.Info().Int("ships", ships).Int("cells", cells).Int("fieldSize", cfg.Game.FieldSize).Msg("layout loaded")

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	engine := game.NewEngine(game.NewGenerator(cfg.Game.FieldSize, layout.Ships()))
	srv := httpserver.New(store.NewMemoryStore(), db, engine, cfg)

	log.Info().Str("port", cfg.Port).Msg("starting battleship server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
