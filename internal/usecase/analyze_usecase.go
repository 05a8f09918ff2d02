package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"skill-atlas/internal/domain/skilltree"
	"skill-atlas/internal/infrastructure/extract"
)

var (
	ErrResumeTooLarge = errors.New("resume file too large")
	ErrResumeNotPDF   = errors.New("resume is not a pdf")
	ErrResumeNoText   = errors.New("resume has no extractable text")
)

const (
	// Above this share of mastered earned skills the proposal is treated
	// as over-claiming and trimmed back.
	masteredShareCap = 0.3
	masteredKeepTop  = 2
)

// ResumeExtractor turns an uploaded document into plain text.
type ResumeExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// GraphProposer produces an untrusted skill graph from resume text.
type GraphProposer interface {
	ProposeGraph(ctx context.Context, resumeText string) (skilltree.SkillGraph, error)
}

type AnalyzeResult struct {
	EarnedSkills    []string
	AvailableSkills []string
	SkillPoints     int

	// Graph is nil when the keyword fallback produced the result.
	Graph  *skilltree.SkillGraph
	Source string
}

const (
	AnalysisSourceProposer = "proposer"
	AnalysisSourceKeyword  = "keyword"
)

type AnalyzeUsecase interface {
	AnalyzeResume(ctx context.Context, data []byte) (AnalyzeResult, error)
}

type Analyze struct {
	extractor ResumeExtractor
	proposer  GraphProposer
	logger    *log.Logger

	maxUploadBytes int64
}

// NewAnalyzeUsecase builds the resume pipeline. proposer may be nil
// when no API key is configured; the keyword fallback then serves every
// request.
func NewAnalyzeUsecase(extractor ResumeExtractor, proposer GraphProposer, maxUploadBytes int64, logger *log.Logger) *Analyze {
	return &Analyze{
		extractor:      extractor,
		proposer:       proposer,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

func (u *Analyze) AnalyzeResume(ctx context.Context, data []byte) (AnalyzeResult, error) {
	if len(data) == 0 {
		return AnalyzeResult{}, ErrInvalidInput
	}
	if u.maxUploadBytes > 0 && int64(len(data)) > u.maxUploadBytes {
		return AnalyzeResult{}, ErrResumeTooLarge
	}

	text, err := u.extractor.ExtractText(ctx, data)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrNotPDF):
			return AnalyzeResult{}, ErrResumeNotPDF
		case errors.Is(err, extract.ErrNoText):
			return AnalyzeResult{}, ErrResumeNoText
		case errors.Is(err, extract.ErrCorrupted):
			return AnalyzeResult{}, ErrResumeNotPDF
		default:
			return AnalyzeResult{}, ErrInternal
		}
	}

	if u.proposer != nil {
		graph, err := u.proposer.ProposeGraph(ctx, text)
		if err == nil {
			return u.resultFromGraph(graph), nil
		}
		if u.logger != nil {
			u.logger.Printf("[Analyze] proposer failed, using keyword fallback | error=%v", err)
		}
	}

	earned, available := keywordAnalysis(text)
	return AnalyzeResult{
		EarnedSkills:    earned,
		AvailableSkills: available,
		SkillPoints:     skillPoints(len(earned), len(available)),
		Source:          AnalysisSourceKeyword,
	}, nil
}

func (u *Analyze) resultFromGraph(raw skilltree.SkillGraph) AnalyzeResult {
	graph, dropped := skilltree.Normalize(raw)
	if !dropped.Clean() && u.logger != nil {
		u.logger.Printf("[Analyze] normalized proposal | dropped_nodes=%d dropped_connections=%d",
			dropped.DroppedNodes, dropped.DroppedConnections)
	}

	capMastered(&graph, u.logger)

	earned, available := partitionSkillIDs(graph)
	return AnalyzeResult{
		EarnedSkills:    earned,
		AvailableSkills: available,
		SkillPoints:     skillPoints(len(earned), len(available)),
		Graph:           &graph,
		Source:          AnalysisSourceProposer,
	}
}

// capMastered trims over-claimed mastery: when more than a fixed share
// of earned skills come back mastered, only the first few nodes keep
// the flag.
func capMastered(graph *skilltree.SkillGraph, logger *log.Logger) {
	earnedCount := 0
	masteredCount := 0
	for _, n := range graph.Nodes {
		if n.Earned {
			earnedCount++
		}
		if n.Mastered {
			masteredCount++
		}
	}
	if float64(masteredCount) <= float64(earnedCount)*masteredShareCap {
		return
	}

	cleared := 0
	for i := range graph.Nodes {
		if i >= masteredKeepTop && graph.Nodes[i].Mastered {
			graph.Nodes[i].Mastered = false
			cleared++
		}
	}
	if cleared > 0 && logger != nil {
		logger.Printf("[Analyze] mastered cap applied | mastered=%d earned=%d cleared=%d", masteredCount, earnedCount, cleared)
	}
}

// keywordMappings pairs a lowercase resume keyword with the canonical
// skill id it evidences.
var keywordMappings = []struct {
	keyword string
	skillID string
}{
	{"javascript", "javascript"},
	{"typescript", "typescript"},
	{"python", "python"},
	{"react", "react"},
	{"nodejs", "nodejs"},
	{"node.js", "nodejs"},
	{"git", "git"},
	{"docker", "docker"},
	{"kubernetes", "kubernetes"},
	{"aws", "aws"},
	{"mongodb", "mongodb"},
	{"postgresql", "postgresql"},
	{"figma", "figma"},
	{"project management", "project-management"},
	{"leadership", "leadership"},
	{"communication", "communication"},
}

var fallbackSuggestions = []string{"typescript", "nextjs", "kubernetes", "machine-learning", "ui-design"}

func keywordAnalysis(resumeText string) (earned []string, available []string) {
	text := strings.ToLower(resumeText)

	earned = make([]string, 0, len(keywordMappings))
	seen := map[string]struct{}{}
	for _, m := range keywordMappings {
		if _, ok := seen[m.skillID]; ok {
			continue
		}
		if strings.Contains(text, m.keyword) {
			seen[m.skillID] = struct{}{}
			earned = append(earned, m.skillID)
		}
	}

	available = make([]string, 0, len(fallbackSuggestions))
	for _, id := range fallbackSuggestions {
		if _, ok := seen[id]; !ok {
			available = append(available, id)
		}
	}
	return earned, available
}
