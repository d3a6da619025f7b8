package common

import (
	"log/slog"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/ianaindex"
)

// DecodeText detects the charset of raw source bytes (journal dumps and
// CSV exports arrive in whatever encoding the till software felt like)
// and decodes them to UTF-8. Detection runs on at most sampleSize bytes.
// Best effort: on any detection or decoding problem the bytes are
// returned as-is, interpreted as the fallback.
func DecodeText(raw []byte, sampleSize int, logger *slog.Logger) string {
	if logger == nil {
		logger = slog.Default()
	}
	if sampleSize <= 0 || sampleSize > len(raw) {
		sampleSize = len(raw)
	}

	result, err := chardet.NewTextDetector().DetectBest(raw[:sampleSize])
	if err != nil {
		logger.Warn("encoding.detect.failed", "error", err)
		return string(raw)
	}
	logger.Debug("encoding.detect.ok", "charset", result.Charset, "confidence", result.Confidence)

	if strings.EqualFold(result.Charset, "UTF-8") {
		return string(raw)
	}
	enc, err := ianaindex.IANA.Encoding(result.Charset)
	if err != nil || enc == nil {
		logger.Warn("encoding.lookup.failed", "charset", result.Charset, "error", err)
		return string(raw)
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		logger.Warn("encoding.decode.failed", "charset", result.Charset, "error", err)
		return string(raw)
	}
	return string(decoded)
}
