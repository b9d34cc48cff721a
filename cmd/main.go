package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/chenBenjamin97/football-coach/pkg/api"
	"github.com/chenBenjamin97/football-coach/pkg/config"
	"github.com/chenBenjamin97/football-coach/pkg/imageio"
	"github.com/chenBenjamin97/football-coach/pkg/messaging"
	"github.com/chenBenjamin97/football-coach/pkg/pipeline"
	"github.com/chenBenjamin97/football-coach/pkg/segment"
	"github.com/chenBenjamin97/football-coach/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configFile := flag.String("config", "", "config file (default ./config.yaml)")
	imagePath := flag.String("image", "", "process a single image and print the result instead of serving http")
	lang := flag.String("lang", "", "feedback language for -image ('en' or 'ar')")
	leftFoot := flag.Bool("left-foot", false, "player prefers the left foot, for -image")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	//create missing directories from config file
	for _, dir := range cfg.Dirs() {
		if err := utils.EnsureDir(dir); err != nil {
			log.Error().Err(err).Str("dir", dir).Msg("Could not create directory")
		}
	}

	if cfg.SegmenterCommand == "" {
		log.Fatal().Msg("Missing critical configuration: segmenter.command")
	}

	proc, publisher, err := buildProcessor(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not build pipeline")
	}

	code := 0
	if *imagePath != "" {
		code = runOnce(proc, *imagePath, pipeline.Options{Locale: *lang, LeftFoot: *leftFoot})
	} else {
		serve(cfg, proc)
	}

	if publisher != nil {
		publisher.Close()
	}
	os.Exit(code)
}

func buildProcessor(cfg *config.Config) (*pipeline.Processor, *messaging.Publisher, error) {
	colors, err := cfg.TeamColors()
	if err != nil {
		return nil, nil, err
	}
	palette, err := cfg.Palette()
	if err != nil {
		return nil, nil, err
	}

	proc, err := pipeline.New(
		pipeline.Config{
			Colors:        colors,
			Palette:       palette,
			Policy:        cfg.PolicyValue(),
			DefaultLocale: cfg.Locale,
		},
		imageio.NewDecoder(cfg.MaxDimension),
		segment.NewProcess(cfg.SegmenterCommand, cfg.SegmenterArgs, cfg.SegmenterTimeout),
		imageio.NewPersister(cfg.ProcessedDir),
	)
	if err != nil {
		return nil, nil, err
	}

	if cfg.NatsURL == "" {
		return proc, nil, nil
	}

	publisher, err := messaging.Connect(cfg.NatsURL, cfg.NatsSubject, cfg.NatsTimeout)
	if err != nil {
		//results are still returned to callers, only the fan out is lost
		log.Warn().Err(err).Str("url", cfg.NatsURL).Msg("Could not connect to NATS, publishing disabled")
		return proc, nil, nil
	}

	proc.WithPublisher(publisher)
	return proc, publisher, nil
}

func runOnce(proc *pipeline.Processor, path string, opts pipeline.Options) int {
	result, err := proc.Process(context.Background(), path, opts)
	if err != nil {
		log.Error().Err(err).Msg("Processing failed")
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Error().Err(err).Msg("Could not print result")
		return 1
	}
	return 0
}

func serve(cfg *config.Config, proc *pipeline.Processor) {
	gin.SetMode(gin.ReleaseMode)
	r := api.SetRouter(&api.Server{
		Processor:    proc,
		UploadsDir:   cfg.UploadsDir,
		ProcessedDir: cfg.ProcessedDir,
	})

	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.Port), Handler: r}

	go func() {
		log.Info().Int("port", cfg.Port).Str("policy", cfg.Policy).Msg("Starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
}
