// Package journal turns the point-of-sale journal text dump into
// Transaction records. The dump is a semi-structured receipt log: blocks
// start at a "Rechnung (#...)" header and end at a "Signatur: " line.
// A malformed block never aborts the scan; it is archived verbatim for
// audit and scanning continues.
package journal

import (
	"bufio"
	"log/slog"
	"os"
	"strings"

	"github.com/bullebakery/sales-unifier/internal/common"
	"github.com/bullebakery/sales-unifier/internal/entity"
)

type scanState int

const (
	stateIdle scanState = iota
	stateInBlock
)

const (
	blockStartPrefix = "Rechnung (#"
	blockEndPrefix   = "Signatur: "
)

// Parser scans journal text line by line and extracts transactions.
// It keeps the raw line sequences of blocks that failed field extraction
// and a counter of item-looking lines that matched no pattern.
type Parser struct {
	logger *slog.Logger

	unparsedBlocks [][]string
	skippedLines   int

	fallbackSampleSize int
}

// NewParser creates a parser. A nil logger falls back to slog.Default.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger, fallbackSampleSize: 10000}
}

// ParseFile reads a journal dump from disk, auto-detecting its encoding,
// and parses it.
func (p *Parser) ParseFile(path string) ([]entity.Transaction, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapError(err, "read journal file")
	}
	p.logger.Info("journal.parse.start", "path", path, "bytes", len(raw))
	text := common.DecodeText(raw, p.fallbackSampleSize, p.logger)
	txns := p.Parse(text)
	p.logger.Info("journal.parse.ok",
		"path", path,
		"transactions", len(txns),
		"unparsed_blocks", len(p.unparsedBlocks),
		"skipped_item_lines", p.skippedLines,
	)
	return txns, nil
}

// Parse scans text and returns the transactions in source order. Blocks
// whose required fields are absent or malformed land in UnparsedBlocks
// instead. Lines outside any block are header/footer noise and ignored.
func (p *Parser) Parse(text string) []entity.Transaction {
	var (
		transactions []entity.Transaction
		block        []string
		state        = stateIdle
		lineNum      int
	)

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, blockStartPrefix) {
			if state == stateInBlock {
				// A header inside an open block means the previous block
				// never reached its signature line. Archive it for audit
				// and start fresh at the new header.
				p.logger.Warn("journal.block.interrupted", "line", lineNum, "block_lines", len(block))
				p.unparsedBlocks = append(p.unparsedBlocks, block)
			}
			state = stateInBlock
			block = []string{line}
			continue
		}

		if state == stateInBlock && strings.HasPrefix(line, blockEndPrefix) {
			block = append(block, line)
			txn, err := p.parseBlock(block)
			if err != nil {
				p.logger.Warn("journal.block.unparsed", "line", lineNum, "error", err)
				p.unparsedBlocks = append(p.unparsedBlocks, block)
			} else {
				transactions = append(transactions, txn)
			}
			block = nil
			state = stateIdle
			continue
		}

		if state == stateInBlock {
			block = append(block, line)
		}
	}

	if state == stateInBlock {
		// EOF with an open block: no signature line ever arrived.
		p.logger.Warn("journal.block.truncated", "block_lines", len(block))
		p.unparsedBlocks = append(p.unparsedBlocks, block)
	}

	return transactions
}

// UnparsedBlocks returns the raw line sequences of all blocks that could
// not be parsed, in the order they were encountered.
func (p *Parser) UnparsedBlocks() [][]string {
	return p.unparsedBlocks
}

// SkippedItemLines returns how many in-block lines were silently not
// matched as items. Malformed item lines vanishing is deliberate policy;
// the counter exists so it is at least visible.
func (p *Parser) SkippedItemLines() int {
	return p.skippedLines
}
