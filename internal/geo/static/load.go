package static

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// FromCSVFile builds a provider from a "cidr,country" file, one entry per
// line. Blank lines and '#' comments are skipped.
func FromCSVFile(path string) (*Provider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geo table: %w", err)
	}
	defer f.Close()

	table := make(map[string]string)
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cidr, country, ok := strings.Cut(text, ",")
		if !ok {
			return nil, fmt.Errorf("geo table %s:%d: want \"cidr,country\", got %q", path, line, text)
		}
		table[strings.TrimSpace(cidr)] = strings.ToUpper(strings.TrimSpace(country))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read geo table: %w", err)
	}

	return New(table)
}
