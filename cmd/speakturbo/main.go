package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/speakturbo/speakturbo/internal/api"
	"github.com/speakturbo/speakturbo/internal/cache"
	"github.com/speakturbo/speakturbo/internal/config"
	"github.com/speakturbo/speakturbo/internal/player"
	"github.com/speakturbo/speakturbo/internal/service"
	"github.com/speakturbo/speakturbo/internal/voice"
)

var (
	voiceFlag      = flag.String("voice", "", "Voice to speak with")
	outputFlag     = flag.String("output", "", "Save audio to a file instead of playing")
	volumeFlag     = flag.Int("volume", -1, "Playback volume (0-100)")
	listVoicesFlag = flag.Bool("list-voices", false, "List available voices")
	quietFlag      = flag.Bool("quiet", false, "Suppress timing output")
	debugFlag      = flag.Bool("debug", false, "Enable debug logging")
	versionFlag    = flag.Bool("version", false, "Show version information")
)

func init() {
	flag.StringVar(voiceFlag, "v", "", "Voice to speak with (shorthand)")
	flag.StringVar(outputFlag, "o", "", "Save audio to a file (shorthand)")
	flag.BoolVar(quietFlag, "q", false, "Suppress timing output (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s v%s - %s\n\n", config.AppName, config.AppVersion, config.AppDescription)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [text]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Text is read from stdin when no argument is given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()

		configPath, err := config.GetConfigPath()
		if err == nil {
			if _, statErr := os.Stat(configPath); statErr == nil {
				fmt.Fprintf(os.Stderr, "\nConfig file: %s\n", configPath)
			}
		}
	}
}

func main() {
	flag.Parse()
	start := time.Now()

	if *versionFlag {
		fmt.Printf("%s v%s\n", config.AppName, config.AppVersion)
		fmt.Println(config.AppDescription)
		os.Exit(0)
	}

	setupLogging()

	// .env in the working directory feeds the same env overrides the
	// config layer reads.
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load config, using defaults")
	}

	apiClient := api.NewClient(cfg.DaemonURL)
	voiceService := service.NewVoiceService(apiClient)
	ctx := context.Background()

	if *listVoicesFlag {
		printVoices(voiceService.GetCatalog(ctx))
		return
	}

	text, err := readText()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "Error: no text")
		os.Exit(1)
	}

	requestedVoice := cfg.Voice
	if *voiceFlag != "" {
		requestedVoice = *voiceFlag
	}
	selectedVoice := voiceService.ResolveVoice(ctx, requestedVoice)
	if selectedVoice != requestedVoice {
		log.Warn().Str("requested", requestedVoice).Str("selected", selectedVoice).
			Msg("Requested voice unavailable")
	}

	stream, err := apiClient.Synthesize(ctx, text, selectedVoice)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer stream.Close()

	if *outputFlag != "" {
		if err := saveToFile(stream, *outputFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !*quietFlag {
			fmt.Fprintf(os.Stderr, "Saved: %s\n", *outputFlag)
		}
		return
	}

	volume := cfg.Volume
	if *volumeFlag >= 0 {
		volume = config.ClampVolume(*volumeFlag)
	}

	p := player.NewPlayer(cfg.MinBufferMs, volume)
	if !*quietFlag {
		p.OnFirstAudio = func() {
			fmt.Fprintf(os.Stderr, "⚡ %dms\n", time.Since(start).Milliseconds())
		}
		p.OnPlaybackStart = func() {
			fmt.Fprintf(os.Stderr, "▶ %dms\n", time.Since(start).Milliseconds())
		}
	}

	if err := p.Speak(stream); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !*quietFlag {
		fmt.Fprintf(os.Stderr, "✓ %dms\n", time.Since(start).Milliseconds())
	}
}

func setupLogging() {
	if *debugFlag {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)

		cacheDir, err := cache.GetCacheDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not get cache dir: %v\n", err)
			cacheDir = os.TempDir()
		}
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create log dir: %v\n", err)
		}
		logPath := filepath.Join(cacheDir, "debug.log")
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create log file: %v\n", err)
			logFile = os.Stderr
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: logFile, TimeFormat: "15:04:05"})
		fmt.Fprintf(os.Stderr, "Debug log: %s\n", logPath)
		log.Info().Msgf("Starting %s v%s (debug mode)", config.AppName, config.AppVersion)
		return
	}

	// Keep stderr clean for the timing lines
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	logFile, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0644)
	if err == nil {
		log.Logger = log.Output(logFile)
	}
}

// readText takes the positional argument when given, otherwise stdin.
func readText() (string, error) {
	if flag.NArg() > 0 {
		return strings.Join(flag.Args(), " "), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read text from stdin: %w", err)
	}
	return string(data), nil
}

func printVoices(catalog *voice.Catalog) {
	for _, v := range catalog.Voices {
		if v == voice.DefaultVoice {
			fmt.Printf("%s (default)\n", v)
		} else {
			fmt.Println(v)
		}
	}
}

// saveToFile copies the raw daemon response, WAV header included, so the
// result is a playable file.
func saveToFile(stream io.Reader, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, stream); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
