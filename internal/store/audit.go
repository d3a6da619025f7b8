package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteUnparsedBlocks writes the raw line sequences of failed journal
// blocks to a plain-text audit file. Nothing is written when there is
// nothing to report.
func WriteUnparsedBlocks(blocks [][]string, path string) error {
	if len(blocks) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var b strings.Builder
	separator := strings.Repeat("=", 60)
	fmt.Fprintf(&b, "Unparsed Transaction Blocks (%d total)\n", len(blocks))
	b.WriteString(separator + "\n\n")
	for i, block := range blocks {
		fmt.Fprintf(&b, "Block %d:\n", i+1)
		b.WriteString(strings.Repeat("-", 20) + "\n")
		for _, line := range block {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n" + separator + "\n\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// WriteUnparsedFiles writes the list of shift-count files that produced
// no usable transcription.
func WriteUnparsedFiles(paths []string, outPath string) error {
	if len(paths) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	var b strings.Builder
	separator := strings.Repeat("=", 60)
	fmt.Fprintf(&b, "Unparsed PDF Files (%d total)\n", len(paths))
	b.WriteString(separator + "\n\n")
	for i, p := range paths {
		fmt.Fprintf(&b, "File %d: %s\n", i+1, p)
		b.WriteString(strings.Repeat("-", 40) + "\n\n")
	}
	return os.WriteFile(outPath, []byte(b.String()), 0o644)
}

// writeJSONFile marshals v with indentation and writes it, creating
// parent directories as needed.
func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
