package unified

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func writeFile(dir, file, data string) error {
	return os.WriteFile(filepath.Join(dir, file), []byte(data), 0o644)
}

func readFile(dir, file string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func readProcs(dir string) ([]int, error) {
	f, err := os.Open(filepath.Join(dir, "cgroup.procs"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var procs []int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		pid, err := strconv.Atoi(line)
		if err != nil {
			return nil, err
		}
		procs = append(procs, pid)
	}
	return procs, sc.Err()
}
