package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LinksFile returns the path links for siteID are saved to.
func LinksFile(dir, siteID string) string {
	return filepath.Join(dir, siteID+"_links.json")
}

// SaveLinks writes links to LinksFile as {"<siteID>_links": [...]} and
// returns the path written.
func SaveLinks(dir, siteID string, links []string) (string, error) {
	if links == nil {
		links = []string{}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(map[string][]string{siteID + "_links": links}, "", "  ")
	if err != nil {
		return "", err
	}
	path := LinksFile(dir, siteID)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// PageName turns a site path into a file stem: slashes become
// underscores and the root page is "index".
func PageName(path string) string {
	name := strings.ReplaceAll(strings.Trim(path, "/"), "/", "_")
	if name == "" {
		return "index"
	}
	return name
}

// ContentFile returns the path the page at sitePath is saved to.
func ContentFile(dir, siteID, sitePath string) string {
	return filepath.Join(dir, siteID, PageName(sitePath)+".md")
}

// SaveContent writes body to ContentFile and returns the path written.
func SaveContent(dir, siteID, sitePath, body string) (string, error) {
	path := ContentFile(dir, siteID, sitePath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
