package dataset

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// LoadSalespeopleFile reads the optional salespeople filter list: one name
// per line, blank lines and '#' comments ignored. The sales performance
// analysis is restricted to the returned names when the list is non-empty.
func LoadSalespeopleFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening salespeople file %s", path)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading salespeople file %s", path)
	}

	return names, nil
}
