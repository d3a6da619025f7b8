package journal

import (
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bullebakery/sales-unifier/constants"
	"github.com/bullebakery/sales-unifier/internal/entity"
)

var (
	reBillNumber = regexp.MustCompile(`Rechnung \(#(\d+)\)`)
	reTimestamp  = regexp.MustCompile(`(\d{2}\.\d{2}\.\d{4} \d{2}:\d{2}:\d{2})$`)
	// e.g. "0.5x Roggenmischbrot (#71)                             2,45"
	reItem          = regexp.MustCompile(`^(\d+(?:\.\d+)?)x\s+(.+?)\s+\(#(\d+)\)\s+(\d+,\d+)$`)
	reItemCandidate = regexp.MustCompile(`^\d+(?:[.,]\d+)?x\s`)
	reCategory      = regexp.MustCompile(`^\s*Warengruppe:\s+(.+?)\s+\(#(\d+)\)$`)
	// Only positive amounts match; cancellation and void totals leave the
	// block without a total, which fails it as a whole.
	reTotalGross = regexp.MustCompile(`Summe Brutto\s+(\d+,\d+)`)
)

var (
	errNoUUID       = errors.New("uuid not found in transaction block")
	errNoTimestamp  = errors.New("timestamp not found in transaction block")
	errNoBillNumber = errors.New("bill number not found in transaction block")
	errNoTotalGross = errors.New("total gross not found in transaction block")
)

const uuidPrefix = "UUID: "

// parseBlock extracts one Transaction from a complete block. Field
// extraction is order-independent within the block; any missing required
// field fails the whole block.
func (p *Parser) parseBlock(lines []string) (entity.Transaction, error) {
	uuid, err := extractUUID(lines)
	if err != nil {
		return entity.Transaction{}, err
	}
	ts, err := extractTimestamp(lines)
	if err != nil {
		return entity.Transaction{}, err
	}
	billNumber, err := extractBillNumber(lines)
	if err != nil {
		return entity.Transaction{}, err
	}
	items := p.extractItems(lines)
	totalGross, err := extractTotalGross(lines)
	if err != nil {
		return entity.Transaction{}, err
	}

	return entity.Transaction{
		UUID:       uuid,
		Date:       ts,
		BillNumber: billNumber,
		Items:      items,
		TotalGross: totalGross,
	}, nil
}

func extractUUID(lines []string) (string, error) {
	for _, line := range lines {
		if len(line) > len(uuidPrefix) && line[:len(uuidPrefix)] == uuidPrefix {
			return line[len(uuidPrefix):], nil
		}
	}
	return "", errNoUUID
}

func extractTimestamp(lines []string) (time.Time, error) {
	for _, line := range lines {
		if !reBillNumber.MatchString(line) {
			continue
		}
		if m := reTimestamp.FindStringSubmatch(line); m != nil {
			ts, err := time.Parse(constants.JournalTimestampLayout, m[1])
			if err != nil {
				return time.Time{}, errNoTimestamp
			}
			return ts, nil
		}
	}
	return time.Time{}, errNoTimestamp
}

func extractBillNumber(lines []string) (int, error) {
	for _, line := range lines {
		if m := reBillNumber.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return 0, errNoBillNumber
			}
			return n, nil
		}
	}
	return 0, errNoBillNumber
}

// extractItems collects all well-formed item lines. A malformed item
// line is not matched and contributes nothing; it does not fail the
// block. Lines that look like items but fail the full pattern bump the
// skipped counter.
func (p *Parser) extractItems(lines []string) []entity.LineItem {
	var items []entity.LineItem

	for i, line := range lines {
		m := reItem.FindStringSubmatch(line)
		if m == nil {
			if reItemCandidate.MatchString(line) {
				p.skippedLines++
				p.logger.Debug("journal.item.skipped", "line", line)
			}
			continue
		}

		quantity, qErr := ParseCommaDecimal(m[1])
		price, pErr := ParseCommaDecimal(m[4])
		articleNumber, nErr := strconv.Atoi(m[3])
		if qErr != nil || pErr != nil || nErr != nil {
			p.skippedLines++
			continue
		}

		category := constants.UnknownCategory
		categoryNumber := constants.UnknownCategoryNumber
		if i+1 < len(lines) {
			if cm := reCategory.FindStringSubmatch(lines[i+1]); cm != nil {
				category = cm[1]
				if cn, err := strconv.Atoi(cm[2]); err == nil {
					categoryNumber = cn
				}
			}
		}

		items = append(items, entity.LineItem{
			ArticleNumber:  articleNumber,
			ArticleName:    m[2],
			Quantity:       quantity,
			Category:       category,
			CategoryNumber: categoryNumber,
			Price:          price,
		})
	}

	return items
}

func extractTotalGross(lines []string) (decimal.Decimal, error) {
	for _, line := range lines {
		if m := reTotalGross.FindStringSubmatch(line); m != nil {
			total, err := ParseCommaDecimal(m[1])
			if err != nil {
				return decimal.Decimal{}, errNoTotalGross
			}
			return total, nil
		}
	}
	return decimal.Decimal{}, errNoTotalGross
}
