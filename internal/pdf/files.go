package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Generator writes rendered documents as timestamped files in the
// Download folder of the export directory, mirroring how the desktop
// application dropped its exports next to the user's downloads.
type Generator struct {
	ExportDir string
	now       func() time.Time
}

func NewGenerator(exportDir string) *Generator {
	return &Generator{ExportDir: exportDir, now: time.Now}
}

// Write stores data as <ExportDir>/Download/<prefix>_YYYYMMDD_HHMM.pdf and
// returns the full path.
func (g *Generator) Write(prefix string, data []byte) (string, error) {
	dir := filepath.Join(g.ExportDir, "Download")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("création du dossier d'export: %w", err)
	}
	name := fmt.Sprintf("%s_%s.pdf", prefix, g.now().Format("20060102_1504"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("écriture du fichier %s: %w", name, err)
	}
	return path, nil
}
