package tptp

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/cognicore/atpproof/pkg/atpproof/parens"
	"github.com/cognicore/atpproof/pkg/atpproof/proof"
)

// SZS marker lines, matched anywhere in a line so both "%" and "#" comment
// leaders work.
const (
	markerStart   = "SZS output start"
	markerEnd     = "SZS output end"
	markerStatus  = "SZS status"
	markerAnswers = "SZS answers"
)

type state int

const (
	scanning state = iota
	inProof
)

// Parse reads a whole prover transcript with a fresh Processor.
func Parse(r io.Reader, opts Options) (*proof.Parsed, error) {
	return NewProcessor(opts).ParseTranscript(r)
}

// ParseString is Parse over an in-memory transcript.
func ParseString(transcript string, opts Options) (*proof.Parsed, error) {
	return Parse(strings.NewReader(transcript), opts)
}

// ParseTranscript drives the processor over a transcript. Only steps between
// "SZS output start" and "SZS output end" are parsed; status and answers
// lines are honoured anywhere. Malformed steps are skipped and recorded as
// diagnostics. The returned error is only ever a read error.
func (p *Processor) ParseTranscript(r io.Reader) (*proof.Parsed, error) {
	out := &proof.Parsed{}
	st := scanning
	br := bufio.NewReader(r)

	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, readErr
		}
		if raw != "" {
			p.line++
			line := strings.TrimRight(raw, "\r\n")

			switch {
			case strings.Contains(line, markerStart):
				st = inProof
			case strings.Contains(line, markerStatus):
				if out.Status == "" {
					out.Status = statusOf(line)
				}
			case strings.Contains(line, markerAnswers):
				out.Answers = append(out.Answers, parseAnswers(line)...)
			case st == inProof:
				if strings.Contains(line, markerEnd) {
					st = scanning
					break
				}
				trimmed := strings.TrimSpace(line)
				if trimmed == "" || trimmed[0] == '%' || trimmed[0] == '#' {
					break
				}
				step, err := p.ParseStep(trimmed)
				if err != nil {
					p.report(trimmed, err)
					break
				}
				out.Steps = append(out.Steps, step)
			}
		}
		if readErr != nil {
			break
		}
	}

	if !p.opts.KeepDuplicates {
		out.Steps = proof.RemoveDuplicates(out.Steps)
	}
	out.Diagnostics = p.diags
	return out, nil
}

func statusOf(line string) string {
	rest := line[strings.Index(line, markerStatus)+len(markerStatus):]
	if fields := strings.Fields(rest); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// parseAnswers reads an answers line such as
// "% SZS answers Tuple [[s__John_1]|_] for prob" into its binding values.
func parseAnswers(line string) []string {
	start := strings.IndexByte(line, '[')
	if start < 0 {
		return nil
	}
	end := parens.Match(line, start)
	if end < 0 {
		return nil
	}

	var out []string
	for _, alternative := range parens.Split(line[start+1:end], '|') {
		for _, tuple := range parens.Split(alternative, ',') {
			tuple = strings.TrimSuffix(strings.TrimPrefix(tuple, "["), "]")
			values := lo.Filter(parens.Split(tuple, ','), func(v string, _ int) bool {
				return v != "" && v != "_"
			})
			out = append(out, lo.Map(values, func(v string, _ int) string { return RemoveEsk(v) })...)
		}
	}
	return out
}

var eskWrapper = regexp.MustCompile(`^e?sk\d+(?:_\d+)?\(`)

// RemoveEsk strips Skolem-function wrappers that have a single argument,
// so esk2_1(s__Arc13_1) becomes s__Arc13_1.
func RemoveEsk(term string) string {
	term = strings.TrimSpace(term)
	for {
		loc := eskWrapper.FindStringIndex(term)
		if loc == nil {
			return term
		}
		open := loc[1] - 1
		if parens.Match(term, open) != len(term)-1 {
			return term
		}
		args := parens.Split(term[open+1:len(term)-1], ',')
		if len(args) != 1 || args[0] == "" {
			return term
		}
		term = args[0]
	}
}
