package pipeline

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"github.com/chenBenjamin97/football-coach/pkg/locale"
	"github.com/chenBenjamin97/football-coach/pkg/video"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Decoder interface {
	Decode(path string) (*video.Image, error)
}

type Segmenter interface {
	Segment(ctx context.Context, img *video.Image) ([]video.Subject, error)
}

type Persister interface {
	Persist(frame image.Image) (string, error)
}

//Publisher is notified of every successful result, failures are only logged
type Publisher interface {
	Publish(ctx context.Context, result *video.FeedbackResult) error
}

//Options are the per call inputs of one run
type Options struct {
	Locale   string
	LeftFoot bool
}

type Config struct {
	Colors        video.TeamColors
	Palette       video.Palette
	Policy        video.Policy
	DefaultLocale string
}

//Processor runs decode, segment, classify, free players, direction, localize, render and persist for one frame
type Processor struct {
	decoder    Decoder
	segmenter  Segmenter
	persister  Persister
	publisher  Publisher
	classifier *video.Classifier
	resolver   video.Resolver
	palette    video.Palette
	locale     string

	//at most one segmentation result is consumed at a time
	segmentMu sync.Mutex
}

func New(cfg Config, decoder Decoder, segmenter Segmenter, persister Persister) (*Processor, error) {
	if decoder == nil || segmenter == nil || persister == nil {
		return nil, errors.New("pipeline.New: decoder, segmenter and persister are required")
	}

	classifier, err := video.NewClassifier(cfg.Colors)
	if err != nil {
		return nil, err
	}

	return &Processor{
		decoder:    decoder,
		segmenter:  segmenter,
		persister:  persister,
		classifier: classifier,
		resolver:   video.Resolver{Policy: cfg.Policy},
		palette:    cfg.Palette,
		locale:     cfg.DefaultLocale,
	}, nil
}

//WithPublisher sets an optional result publisher
func (p *Processor) WithPublisher(pub Publisher) *Processor {
	p.publisher = pub
	return p
}

//Process runs the whole pipeline on the image at path. Either a complete result is returned or an error,
//one of *video.DecodeError, *video.SegmentationError or *video.PersistError.
func (p *Processor) Process(ctx context.Context, path string, opts Options) (*video.FeedbackResult, error) {
	runID := uuid.NewString()
	logger := log.With().Str("run_id", runID).Str("path", path).Logger()
	start := time.Now()

	img, err := p.decoder.Decode(path)
	if err != nil {
		logger.Error().Err(err).Msg("Decode failed")
		return nil, toDecodeError(path, err)
	}
	logger.Debug().Int("width", img.Width).Int("height", img.Height).Dur("took", time.Since(start)).Msg("Decoded")

	classified, err := p.segmentAndClassify(ctx, img)
	if err != nil {
		logger.Error().Err(err).Msg("Segmentation failed")
		return nil, err
	}

	attacking, opposing := video.SplitTeams(classified)
	free := video.FreePlayers(classified)
	tokens := p.resolver.Resolve(free, opposing, img.Width, opts.LeftFoot)

	logger.Debug().
		Int("subjects", len(classified)).
		Int("attacking", len(attacking)).
		Int("opposing", len(opposing)).
		Int("free", len(free)).
		Msg("Subjects analyzed")

	code := opts.Locale
	if code == "" {
		code = p.locale
	}
	text, err := locale.Localize(code, tokens...)
	if err != nil {
		logger.Warn().Err(err).Msg("Falling back to default locale")
		code = locale.Normalize("")
	} else {
		code = locale.Normalize(code)
	}

	frame := video.Render(img, classified, p.palette)
	artifactPath, err := p.persister.Persist(frame)
	if err != nil {
		logger.Error().Err(err).Msg("Persist failed")
		return nil, toPersistError(err)
	}

	freeIDs := make([]int, 0, len(free))
	for _, f := range free {
		freeIDs = append(freeIDs, f.ID)
	}

	result := &video.FeedbackResult{
		RunID:         runID,
		Tokens:        tokens,
		LocalizedText: text,
		Locale:        code,
		ArtifactPath:  artifactPath,
		Width:         img.Width,
		Height:        img.Height,
		TeamACount:    len(attacking),
		TeamBCount:    len(opposing),
		FreePlayers:   freeIDs,
	}

	logger.Info().
		Str("feedback", text).
		Str("artifact", artifactPath).
		Dur("took", time.Since(start)).
		Msg("Frame processed")

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, result); err != nil {
			logger.Warn().Err(err).Msg("Could not publish result")
		}
	}

	return result, nil
}

//ProcessAsync runs Process in its own goroutine and hands the outcome to done
func (p *Processor) ProcessAsync(ctx context.Context, path string, opts Options, done func(*video.FeedbackResult, error)) {
	go func() {
		done(p.Process(ctx, path, opts))
	}()
}

func (p *Processor) segmentAndClassify(ctx context.Context, img *video.Image) ([]video.ClassifiedSubject, error) {
	p.segmentMu.Lock()
	defer p.segmentMu.Unlock()

	subjects, err := p.segmenter.Segment(ctx, img)
	if err != nil {
		var segErr *video.SegmentationError
		if errors.As(err, &segErr) {
			return nil, err
		}
		return nil, &video.SegmentationError{Err: err}
	}
	if len(subjects) == 0 {
		return nil, &video.SegmentationError{Err: errors.New("no subjects")}
	}

	for i := range subjects {
		if err := subjects[i].Validate(); err != nil {
			return nil, &video.SegmentationError{Err: err}
		}
	}

	return p.classifier.ClassifyAll(img, subjects), nil
}

func toPersistError(err error) error {
	var persistErr *video.PersistError
	if errors.As(err, &persistErr) {
		return err
	}
	return &video.PersistError{Err: err}
}

func toDecodeError(path string, err error) error {
	var decodeErr *video.DecodeError
	if errors.As(err, &decodeErr) {
		return err
	}
	return &video.DecodeError{Path: path, Err: err}
}
