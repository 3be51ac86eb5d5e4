// Package bank turns raw question resources into a domain.Bank.
//
// Delimited records are positional and separated by ';':
//
//	text ; type ; nAnswers ; nCorrect ; answer... ; correct(1-based)... ; [image]
//
// Parsing is best effort: a record that cannot become a playable question is
// dropped and reported in Bank.Rejected, the other records are kept. A bank
// with no playable question left is an EMPTY_BANK error.
package bank

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"quiz-drill/internal/domain"
)

const (
	fieldSeparator = ";"
	utf8BOM        = "\ufeff"
	maxLineLength  = 1 << 20

	typeCodeText  = "1"
	typeCodeImage = "2"

	// offset of the first answer field in a record
	answersOffset = 4
)

// Parse reads already-decoded delimited text.
func Parse(r io.Reader) (*domain.Bank, error) {
	return parseDelimited(r, "delimited input")
}

func parseDelimited(r io.Reader, source string) (*domain.Bank, error) {
	bank := &domain.Bank{Source: source}

	reader := bufio.NewReaderSize(r, 64*1024)
	lineNo := 0
	ordinal := 0
	for {
		line, oversized, err := readLine(reader)
		if err != nil && err != io.EOF {
			return nil, domain.NewLoadError(fmt.Sprintf("failed to read %s", source), err)
		}
		if err == io.EOF && line == "" && !oversized {
			break
		}
		lineNo++
		if lineNo == 1 {
			line = strings.TrimPrefix(line, utf8BOM)
		}

		switch {
		case oversized:
			// ids follow record order, rejected records included, so they stay stable
			ordinal++
			bank.Rejected = append(bank.Rejected, domain.LineError{
				Line:   lineNo,
				Reason: fmt.Sprintf("record exceeds %d bytes", maxLineLength),
			})
		case strings.TrimSpace(line) != "":
			ordinal++
			q, perr := parseRecord(ordinal, line)
			if perr != nil {
				bank.Rejected = append(bank.Rejected, domain.LineError{
					Line:    lineNo,
					Content: line,
					Reason:  perr.Error(),
				})
				break
			}
			bank.Questions = append(bank.Questions, q)
		}

		if err == io.EOF {
			break
		}
	}

	if len(bank.Questions) == 0 {
		var cause error
		if len(bank.Rejected) > 0 {
			cause = domain.NewParseError(source, bank.Rejected)
		}
		return nil, domain.NewEmptyBankError(source, cause)
	}
	return bank, nil
}

// readLine returns the next line without its "\n" or "\r\n" terminator.
// A line longer than maxLineLength is consumed to its end and comes back
// empty with oversized set.
func readLine(br *bufio.Reader) (line string, oversized bool, err error) {
	var buf []byte
	for {
		chunk, isPrefix, rerr := br.ReadLine()
		if rerr != nil {
			return string(buf), oversized, rerr
		}
		if !oversized {
			if len(buf)+len(chunk) > maxLineLength {
				oversized, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return string(buf), oversized, nil
		}
	}
}

func parseRecord(id int, line string) (domain.Question, error) {
	fields := strings.Split(line, fieldSeparator)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	field := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	kind, err := parseTypeCode(field(1))
	if err != nil {
		return domain.Question{}, err
	}

	nAnswers := parseCount(field(2))
	nCorrect := parseCount(field(3))

	if available := len(fields) - answersOffset; nAnswers > available {
		return domain.Question{}, fmt.Errorf("record declares %d answers but has only %d answer fields", nAnswers, max(available, 0))
	}

	choices := make([]string, 0, nAnswers)
	for i := 0; i < nAnswers; i++ {
		choices = append(choices, field(answersOffset+i))
	}

	correct := make([]int, 0, nCorrect)
	for j := 0; j < nCorrect; j++ {
		raw := unquote(field(answersOffset + nAnswers + j))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		correct = append(correct, v-1)
	}

	image := field(answersOffset + nAnswers + nCorrect)

	return domain.NewQuestion(id, field(0), kind, image, choices, correct)
}

func parseTypeCode(raw string) (domain.QuestionKind, error) {
	switch unquote(raw) {
	case "", typeCodeText:
		return domain.KindText, nil
	case typeCodeImage:
		return domain.KindImage, nil
	default:
		return 0, fmt.Errorf("unknown type code %q", raw)
	}
}

// parseCount falls back to 0 for missing, non-numeric or negative counts.
func parseCount(raw string) int {
	n, err := strconv.Atoi(unquote(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func unquote(s string) string {
	return strings.TrimSpace(strings.Trim(s, `"`))
}
