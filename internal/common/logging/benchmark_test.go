package logging

import (
	"io"
	"testing"
)

func BenchmarkZapLogger(b *testing.B) {
	// Discard output so the encoder, not the writer, dominates
	logger, err := NewZapLogger(LogConfig{
		Level:  InfoLevel,
		Output: io.Discard,
	})
	if err != nil {
		b.Fatal(err)
	}

	b.Run("Simple", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			logger.Info("test message")
		}
	})

	b.Run("WithFields", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			logger.Info("test message",
				Field{"user_id", "123"},
				Field{"request_id", "456"},
				Field{"status", "success"},
			)
		}
	})

	b.Run("WithTypedFields", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			logger.Info("test message",
				String("user_id", "123"),
				String("request_id", "456"),
				Int("rules_checked", 12),
			)
		}
	})

	b.Run("WithError", func(b *testing.B) {
		err := io.EOF
		for i := 0; i < b.N; i++ {
			logger.Error("error occurred", err,
				Field{"operation", "evaluate"},
			)
		}
	})

	b.Run("EnrichedLogger", func(b *testing.B) {
		enriched := logger.WithFields(
			Field{"service", "conversation-router"},
			Field{"component", "engine"},
		)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			enriched.Info("test message", Field{"iteration", i})
		}
	})
}
