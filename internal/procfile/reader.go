// Package procfile reads process records and writes simulation results in the
// semicolon-delimited text format:
//
//	# label;burst;arrival;queue;priority
//	P1;5;0;1;0
package procfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"mlfqsim/internal/sched"
)

// inputFields is the number of fields an input line must carry.
const inputFields = 5

// ReadFile opens path and reads every process record from it.
func ReadFile(path string) ([]sched.Process, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening process file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses process records. Blank lines and lines starting with '#' are
// ignored, lines with fewer than five fields are skipped, and fields that are
// not integers read as 0. Fields are split on ';' only; quotes carry no meaning.
func Read(r io.Reader) ([]sched.Process, error) {
	sc := bufio.NewScanner(r)

	var procs []sched.Process
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		rec := strings.Split(text, ";")
		if len(rec) < inputFields {
			logrus.Warnf("line %d: expected %d fields, got %d; skipped", line, inputFields, len(rec))
			continue
		}

		procs = append(procs, sched.NewProcess(
			strings.TrimSpace(rec[0]),
			atoi(line, "burst", rec[1]),
			atoi(line, "arrival", rec[2]),
			atoi(line, "queue", rec[3]),
			atoi(line, "priority", rec[4]),
		))
	}
	if err := sc.Err(); err != nil {
		return procs, fmt.Errorf("reading process records: %w", err)
	}
	return procs, nil
}

func atoi(line int, field, s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		logrus.Warnf("line %d: %s %q is not an integer, using 0", line, field, s)
		return 0
	}
	return n
}
