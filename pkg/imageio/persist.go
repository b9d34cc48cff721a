package imageio

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/chenBenjamin97/football-coach/pkg/utils"
	"github.com/chenBenjamin97/football-coach/pkg/video"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"
)

//Persister writes overlay frames as PNG files into a dedicated directory
type Persister struct {
	Dir string
	now func() time.Time
}

func NewPersister(dir string) *Persister {
	return &Persister{Dir: dir, now: time.Now}
}

//ArtifactName returns "processed_image_<unix millis>_<8 hex>.png". The random suffix keeps names
//distinct when several runs finish within the same millisecond.
func ArtifactName(t time.Time, id uuid.UUID) string {
	return fmt.Sprintf("%s%d_%s%s", utils.ProcessedImagePrefix, t.UnixMilli(), id.String()[:8], utils.ProcessedImageExt)
}

//Persist writes frame as a new RGBA PNG file and returns its path
func (p *Persister) Persist(frame image.Image) (string, error) {
	if err := utils.EnsureDir(p.Dir); err != nil {
		return "", &video.PersistError{Path: p.Dir, Err: err}
	}

	outputPath := filepath.Join(p.Dir, ArtifactName(p.now(), uuid.New()))

	mat, err := gocv.ImageToMatRGBA(frame)
	if err != nil {
		return "", &video.PersistError{Path: outputPath, Err: err}
	}
	defer mat.Close()

	if ok := gocv.IMWrite(outputPath, mat); !ok {
		return "", &video.PersistError{Path: outputPath, Err: errors.New("could not write PNG file")}
	}

	log.Debug().Str("path", outputPath).Msg("Overlay image saved")
	return outputPath, nil
}
