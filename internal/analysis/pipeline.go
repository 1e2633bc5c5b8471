package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"formcoach-backend/internal/frames"
	"formcoach-backend/internal/llm"
	"formcoach-backend/pkg/api"
)

// Pipeline sequences the four AI-backed stages of a movement analysis:
// identify the movement, synthesize a reference illustration, assess the
// form, and synthesize a comparison illustration. Reference synthesis and
// form analysis have no data dependency on each other and run concurrently.
//
// Every stage masks its own failures with fallback values, so a run always
// produces a usable result; the stages that fell back are listed in
// Result.Degraded in pipeline order.
type Pipeline struct {
	identifier *Identifier
	analyzer   *Analyzer
	synth      *Synthesizer
}

func NewPipeline(chat llm.ChatCompleter, images llm.ImageGenerator, mirror *ImageMirror) *Pipeline {
	return &Pipeline{
		identifier: NewIdentifier(chat),
		analyzer:   NewAnalyzer(chat),
		synth:      NewSynthesizer(images, mirror),
	}
}

// Analyze runs the full pipeline over the extracted frames. The only error
// it returns is context cancellation; all stage failures degrade instead.
func (p *Pipeline) Analyze(ctx context.Context, set frames.Set) (api.AnalysisResult, error) {
	var result api.AnalysisResult
	var degraded []string

	if set.FromDemo {
		degraded = append(degraded, StageFrameExtraction)
	}

	profile, ok := p.identifier.Identify(ctx, set.Representative)
	if !ok {
		degraded = append(degraded, StageIdentify)
	}
	result.MovementProfile = profile

	var (
		referenceURL string
		referenceOK  bool
		assessment   api.FormAssessment
		assessmentOK bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		referenceURL, referenceOK = p.synth.ReferenceImage(gctx, profile.Movement)
		return nil
	})
	g.Go(func() error {
		assessment, assessmentOK = p.analyzer.Assess(gctx, profile.Movement, set.Analysis)
		return nil
	})
	if err := g.Wait(); err != nil {
		return api.AnalysisResult{}, err
	}

	if !referenceOK {
		degraded = append(degraded, StageReference)
	}
	result.ReferenceImageURL = referenceURL

	if !assessmentOK {
		degraded = append(degraded, StageAnalyze)
	}
	result.FormAssessment = assessment

	comparisonURL, comparisonOK := p.synth.ComparisonImage(ctx, profile.Movement)
	if !comparisonOK {
		degraded = append(degraded, StageCompare)
	}
	result.ComparisonImageURL = comparisonURL

	if err := ctx.Err(); err != nil {
		return api.AnalysisResult{}, err
	}

	result.Degraded = orderDegraded(degraded)
	return result, nil
}

// orderDegraded normalizes the degraded stage list to pipeline order so
// results are comparable across runs.
func orderDegraded(stages []string) []string {
	if len(stages) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(stages))
	for _, s := range stages {
		seen[s] = true
	}

	var ordered []string
	for _, s := range []string{StageFrameExtraction, StageIdentify, StageReference, StageAnalyze, StageCompare} {
		if seen[s] {
			ordered = append(ordered, s)
		}
	}
	return ordered
}
