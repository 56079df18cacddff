package annotation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/lewtec/segtrack/internal/segmentation"
	"github.com/lewtec/segtrack/internal/tracking"
	"github.com/russross/blackfriday/v2"
	"gonum.org/v1/gonum/stat"
)

func stringOr(str, or string) string {
	if str != "" {
		return str
	}
	return or
}

// ReportMarkdown summarises the annotations of a session.
func ReportMarkdown(s *Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Stack.Name)
	fmt.Fprintf(&b, "Created %s.\n\n", humanize.Time(s.Stack.CreatedAt))
	fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(strings.TrimSpace(stringOr(s.Config.Meta.Description, "(No description provided)")), "\n", "\n> "))

	s.Segmentation.View(func(c *segmentation.Collection) {
		areas := map[int][]float64{}
		fmt.Fprintf(&b, "## Frames\n\n")
		fmt.Fprintf(&b, "| Frame | File | Size | Polygons |\n|---|---|---|---|\n")
		for i, data := range c.Frames {
			file, size := "", ""
			if i < len(s.Frames) {
				file = filepath.Base(s.Frames[i].Path)
				size = fmt.Sprintf("%dx%d", s.Frames[i].Width, s.Frames[i].Height)
			}
			drawn := 0
			for _, e := range data.Entries() {
				if e.Polygon.IsEmpty() {
					continue
				}
				drawn++
				areas[e.LabelID] = append(areas[e.LabelID], e.Polygon.Area())
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %d |\n", i, file, size, drawn)
		}
		fmt.Fprintf(&b, "\n## Labels\n\n")
		fmt.Fprintf(&b, "| Label | Color | Visible | Polygons | Area |\n|---|---|---|---|---|\n")
		for _, l := range c.Labels {
			name := l.Name
			if l.Active {
				name = "**" + name + "**"
			}
			fmt.Fprintf(&b, "| %s | %s | %v | %d | %s |\n", name, l.Color, l.Visible, len(areas[l.ID]), areaSummary(areas[l.ID]))
		}
	})

	s.Tracking.View(func(d *tracking.Data) {
		fmt.Fprintf(&b, "\n## Tracking\n\n")
		fmt.Fprintf(&b, "- Links: %d\n", len(d.Links))
		fmt.Fprintf(&b, "- Tracks: %d\n", countTracks(d.Links))
	})

	fmt.Fprintf(&b, "\n## History\n\n")
	fmt.Fprintf(&b, "- Segmentation: %d of %d actions applied\n", s.Segmentation.CurrentActionPointer(), len(s.Segmentation.Actions()))
	fmt.Fprintf(&b, "- Tracking: %d of %d actions applied\n", s.Tracking.CurrentActionPointer(), len(s.Tracking.Actions()))
	return b.String()
}

// areaSummary is the mean polygon area with its standard deviation.
func areaSummary(areas []float64) string {
	switch len(areas) {
	case 0:
		return "-"
	case 1:
		return fmt.Sprintf("%.1f", areas[0])
	}
	mean, std := stat.MeanStdDev(areas, nil)
	return fmt.Sprintf("%.1f ± %.1f", mean, std)
}

// countTracks counts the chains of links, a chain starting at every source
// no link points to.
func countTracks(links []tracking.Link) int {
	targets := map[string]bool{}
	for _, l := range links {
		targets[l.TargetID] = true
	}
	starts := map[string]bool{}
	for _, l := range links {
		if !targets[l.SourceID] {
			starts[l.SourceID] = true
		}
	}
	return len(starts)
}

// RenderReport renders the session summary as a standalone HTML page.
func RenderReport(s *Session) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", s.Stack.Name)
	b.Write(blackfriday.Run([]byte(ReportMarkdown(s))))
	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}
