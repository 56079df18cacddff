package annotation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lewtec/segtrack/internal/tools"
)

// FileProposalService serves detections saved by an offline run of a
// segmentation model. The file holds a JSON array of detections.
type FileProposalService struct {
	Filename string
}

func (s FileProposalService) Propose(ctx context.Context, _ []byte, svc tools.ServiceDescriptor) ([]tools.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Filename)
	if err != nil {
		return nil, fmt.Errorf("while reading detections of %s: %w", svc.Repo, err)
	}
	var detections []tools.Detection
	if err := json.Unmarshal(data, &detections); err != nil {
		return nil, fmt.Errorf("while decoding detections '%s': %w", s.Filename, err)
	}
	return detections, nil
}
