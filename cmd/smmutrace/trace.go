package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// traceLine is one parsed, comment-stripped, whitespace-trimmed row of a
// trace file: a command name followed by its comma-separated arguments.
type traceLine struct {
	kind string
	args []string
}

// parseTraceFile reads a CSV trace file in the STREAM/MAP/ACCESS format.
// Blank lines and '#' comments (including trailing ones) are skipped.
func parseTraceFile(path string) ([]traceLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []traceLine

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		lines = append(lines, traceLine{kind: fields[0], args: fields[1:]})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// parseHexOrDec parses s as hexadecimal if it carries a 0x/0X prefix,
// decimal otherwise. Trace files write addresses either way.
func parseHexOrDec(s string) (uint64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 64)
	}

	return strconv.ParseUint(s, 10, 64)
}

func requireArgs(t traceLine, n int) error {
	if len(t.args) < n {
		return fmt.Errorf("%s command requires %d argument(s), got %d",
			t.kind, n, len(t.args))
	}

	return nil
}
