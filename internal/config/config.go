// Package config provides environment configuration helpers for vocahire commands.
package config

import (
	"os"
	"strconv"
)

// Default server configuration.
const (
	DefaultPort     = 8000
	DefaultLogLevel = "info"
)

// Env returns the value of an environment variable or a default.
func Env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// EnvInt returns an integer environment variable or a default.
// Non-numeric values fall back to the default.
func EnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// OpenAIKey returns the OpenAI API key, empty if unset.
func OpenAIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// ElevenLabsKey returns the ElevenLabs API key, empty if unset.
func ElevenLabsKey() string {
	return os.Getenv("ELEVENLABS_API_KEY")
}

// DeepgramKey returns the Deepgram API key, empty if unset.
func DeepgramKey() string {
	return os.Getenv("DEEPGRAM_API_KEY")
}

// ScriptPath returns the interview script YAML path, empty if unset.
func ScriptPath() string {
	return os.Getenv("INTERVIEW_SCRIPT")
}
