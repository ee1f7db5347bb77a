// vocahire: real-time AI interview service.
// Candidates connect over WebSocket, speak their answers, and hear the
// interviewer reply; finished sessions are scored through the summary API.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vocahire/vocahire/internal/config"
	"github.com/vocahire/vocahire/internal/log"
	"github.com/vocahire/vocahire/pkg/eval"
	"github.com/vocahire/vocahire/pkg/llm"
	"github.com/vocahire/vocahire/pkg/server"
	"github.com/vocahire/vocahire/pkg/session"
	"github.com/vocahire/vocahire/pkg/stt"
	"github.com/vocahire/vocahire/pkg/tts"
)

var (
	port     = flag.Int("port", config.DefaultPort, "HTTP server port")
	logLevel = flag.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	voiceID  = flag.String("voice", "", "ElevenLabs voice id (or ELEVENLABS_VOICE_ID)")
	debug    = flag.Bool("debug", false, "enable request logging")
)

func main() {
	flag.Parse()
	log.Init(config.Env("LOG_LEVEL", *logLevel))

	*port = config.EnvInt("PORT", *port)

	transcriber, err := buildTranscriber()
	if err != nil {
		log.Error("transcriber setup failed", "error", err)
		os.Exit(1)
	}
	defer transcriber.Close()

	generator, err := buildGenerator()
	if err != nil {
		log.Error("generator setup failed", "error", err)
		os.Exit(1)
	}
	defer generator.Close()

	speaker, err := buildSpeaker()
	if err != nil {
		log.Error("speaker setup failed", "error", err)
		os.Exit(1)
	}
	defer speaker.Close()

	registry := session.NewRegistry(log.L())
	analyzer := eval.NewHeuristic(eval.WithLogger(log.L()))
	summarizer := session.NewSummarizer(registry, analyzer, log.L())

	srv := server.New(server.Config{
		Port:   *port,
		Debug:  *debug,
		Logger: log.L(),
	}, registry, summarizer, transcriber, generator, speaker)

	go func() {
		if err := srv.Listen(); err != nil {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()
	log.Info("vocahire started",
		"port", *port,
		"ws", fmt.Sprintf("ws://localhost:%d/ws/interview", *port),
	)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Info("shutting down")
	if err := srv.Shutdown(); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}

// buildTranscriber returns Deepgram when a key is present, otherwise an empty
// mock so the service runs end to end without credentials.
func buildTranscriber() (stt.Provider, error) {
	if key := config.DeepgramKey(); key != "" {
		return stt.NewDeepgram(stt.WithAPIKey(key))
	}
	log.Warn("DEEPGRAM_API_KEY not set, transcription disabled")
	return stt.NewMock(), nil
}

// buildGenerator prefers the OpenAI-compatible client, falling back to the
// scripted interviewer.
func buildGenerator() (llm.Generator, error) {
	if key := config.OpenAIKey(); key != "" {
		return llm.NewClient(llm.WithAPIKey(key))
	}
	log.Warn("OPENAI_API_KEY not set, using scripted interviewer")

	script := llm.DefaultScript()
	if path := config.ScriptPath(); path != "" {
		loaded, err := llm.LoadScript(path)
		if err != nil {
			return nil, fmt.Errorf("load interview script: %w", err)
		}
		script = loaded
	}
	return llm.NewScript(script), nil
}

// buildSpeaker returns ElevenLabs when configured, otherwise silent mock audio.
func buildSpeaker() (tts.Provider, error) {
	key := config.ElevenLabsKey()
	voice := config.Env("ELEVENLABS_VOICE_ID", *voiceID)
	if key != "" && voice != "" {
		return tts.NewElevenLabs(tts.WithAPIKey(key), tts.WithVoice(voice))
	}
	log.Warn("ElevenLabs not configured, synthesis produces silence")
	return tts.NewMock(), nil
}
