//go:build linux

package process_linux

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"procmem/process"
)

// parseMaps reduces /proc/<pid>/maps to one module per backing file:
// base is the lowest mapped address, size spans to the highest mapped
// end. Anonymous and pseudo mappings ([heap], [stack], ...) are skipped.
// The module backed by exe is moved to the front as the main module.
func parseMaps(r io.Reader, exe string) ([]process.ModuleInfo, error) {
	byPath := make(map[string]int)
	var mods []process.ModuleInfo

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) < 6 {
			continue // no pathname
		}
		path := strings.Join(fields[5:], " ")
		if strings.HasPrefix(path, "[") {
			continue
		}

		start, end, err := parseRange(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", line, err)
		}

		if i, ok := byPath[path]; ok {
			mod := &mods[i]
			if process.MemoryAddress(end) > mod.Base+process.MemoryAddress(mod.Size) {
				mod.Size = process.MemorySize(end - uint64(mod.Base))
			}
			continue
		}

		byPath[path] = len(mods)
		mods = append(mods, process.ModuleInfo{
			Name: filepath.Base(path),
			Base: process.MemoryAddress(start),
			Size: process.MemorySize(end - start),
			Path: path,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if exe != "" {
		for i := range mods {
			if mods[i].Path == exe {
				mods[0], mods[i] = mods[i], mods[0]
				break
			}
		}
	}
	return mods, nil
}

func parseRange(s string) (start, end uint64, err error) {
	dash := strings.IndexByte(s, '-')
	if dash < 0 {
		return 0, 0, fmt.Errorf("malformed address range %q", s)
	}
	start, err = strconv.ParseUint(s[:dash], 16, 64)
	if err != nil {
		return 0, 0, err
	}
	end, err = strconv.ParseUint(s[dash+1:], 16, 64)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
