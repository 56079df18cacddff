package annotation

import (
	"fmt"
	"log"
	"path"

	"github.com/dustin/go-humanize"
	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/util"
	"github.com/lewtec/segtrack/internal/action"
	"github.com/lewtec/segtrack/internal/segmentation"
	"github.com/lewtec/segtrack/internal/tracking"
)

// Exporter writes the histories and the report of a session to a
// filesystem.
type Exporter struct {
	FS billy.Filesystem
}

func NewExporter(fs billy.Filesystem) *Exporter {
	return &Exporter{FS: fs}
}

// Export writes segmentation.json, tracking.json, report.md and
// report.html under dir and returns their paths.
func (e *Exporter) Export(s *Session, dir string) ([]string, error) {
	if err := e.FS.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("while creating export folder '%s': %w", dir, err)
	}
	segLog, err := action.MarshalLog(s.Segmentation, segmentation.Codec{})
	if err != nil {
		return nil, fmt.Errorf("while encoding segmentation history: %w", err)
	}
	trackLog, err := action.MarshalLog(s.Tracking, tracking.Codec{})
	if err != nil {
		return nil, fmt.Errorf("while encoding tracking history: %w", err)
	}
	files := []struct {
		name string
		data []byte
	}{
		{StoreSegmentation + ".json", segLog},
		{StoreTracking + ".json", trackLog},
		{"report.md", []byte(ReportMarkdown(s))},
		{"report.html", RenderReport(s)},
	}
	written := make([]string, 0, len(files))
	for _, f := range files {
		name := path.Join(dir, f.name)
		if err := util.WriteFile(e.FS, name, f.data, 0644); err != nil {
			return written, fmt.Errorf("while writing '%s': %w", name, err)
		}
		log.Printf("Export: wrote %s (%s)", name, humanize.Bytes(uint64(len(f.data))))
		written = append(written, name)
	}
	return written, nil
}
