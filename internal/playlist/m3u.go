package playlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// parseM3U parses the repository's `.m3u` dialect: a `#`-prefixed line
// gives an optional display name for the URI line that follows it; a URI
// line with no preceding name line gets Name == "". Blank lines and a
// trailing newline are not required or expected.
//
// A `#` line with nothing following it (EOF, or another `#` line) is
// malformed and aborts the parse; a malformed file leaves the playlist
// empty rather than partially loaded.
func parseM3U(r *bufio.Scanner) ([]Item, error) {
	var items []Item
	pendingName := ""
	haveName := false

	for r.Scan() {
		line := r.Text()
		if strings.HasPrefix(line, "#") {
			if haveName {
				return nil, fmt.Errorf("malformed playlist: consecutive name lines")
			}
			pendingName = strings.TrimSpace(strings.TrimPrefix(line, "#"))
			haveName = true
			continue
		}
		items = append(items, Item{URI: line, Name: pendingName, ID: -1})
		pendingName = ""
		haveName = false
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if haveName {
		return nil, fmt.Errorf("malformed playlist: trailing name line with no URI")
	}
	return items, nil
}

// writeM3U renders items in the repository's `.m3u` dialect.
func writeM3U(items []Item) []byte {
	var sb strings.Builder
	for _, it := range items {
		if it.Name != "" {
			sb.WriteString("# ")
			sb.WriteString(it.Name)
			sb.WriteString("\n")
		}
		sb.WriteString(it.URI)
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}

// Load replaces the playlist's contents with the `.m3u` file named by
// info. A malformed file leaves the playlist empty rather than partially
// populated.
func (p *Playlist) Load(info Info) error {
	f, err := os.Open(info.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	items, err := parseM3U(bufio.NewScanner(f))
	if err != nil {
		p.loadFrom(nil)
		return err
	}
	p.loadFrom(items)
	return nil
}

// Save atomically writes the playlist to dir/name.m3u (write-temp,
// rename) and clears the dirty flag on success.
func (p *Playlist) Save(dir, name string) error {
	path := m3uPath(dir, name)
	data := writeM3U(p.snapshot())

	tmp, err := os.CreateTemp(dir, ".tmp-"+name+"-*.m3u")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}

	p.mu.Lock()
	p.dirty = false
	p.mu.Unlock()
	return nil
}
