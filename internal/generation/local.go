package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ziadkadry99/clil-studio/internal/api"
	"github.com/ziadkadry99/clil-studio/internal/lesson"
)

// LessonStore persists lesson documents per owner.
type LessonStore interface {
	Save(ctx context.Context, owner string, doc *lesson.Document) (string, error)
	Get(ctx context.Context, owner, id string) (*lesson.Document, error)
	List(ctx context.Context, owner string) ([]lesson.Summary, error)
}

// Local serves an editor session in-process, without the HTTP round trip.
// It is what the CLI uses when no backend URL is configured.
type Local struct {
	svc     *Service
	lessons LessonStore
	owner   string
}

// ErrNoService is returned by the generation methods of a Local built
// without a Service.
var ErrNoService = errors.New("generation is not configured")

// NewLocal creates a Local backend that stores lessons under owner. svc may
// be nil for library-only use.
func NewLocal(svc *Service, lessons LessonStore, owner string) *Local {
	return &Local{svc: svc, lessons: lessons, owner: owner}
}

func (l *Local) Generate(ctx context.Context, req api.GenerateRequest) (string, error) {
	if l.svc == nil {
		return "", ErrNoService
	}
	return l.svc.Generate(ctx, req)
}

func (l *Local) GenerateHelper(ctx context.Context, prompt string) (string, error) {
	if l.svc == nil {
		return "", ErrNoService
	}
	return l.svc.Helper(ctx, prompt)
}

func (l *Local) GenerateInsight(ctx context.Context, concept string, hc *api.HelperContext) (string, error) {
	if l.svc == nil {
		return "", ErrNoService
	}
	return l.svc.Insight(ctx, concept, hc)
}

func (l *Local) RelatedTags(ctx context.Context, tag string, tc api.TagContext) ([]string, error) {
	if l.svc == nil {
		return nil, ErrNoService
	}
	raw, err := l.svc.RelatedTags(ctx, tag, tc)
	if err != nil {
		return nil, err
	}
	var out api.RelatedTags
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decoding related tags: %w", err)
	}
	return out.RelatedTags, nil
}

// Inline streams through a pipe so the caller reads it like the HTTP
// body of /generate_inline, error chunk included.
func (l *Local) Inline(ctx context.Context, req api.InlineRequest) (io.ReadCloser, error) {
	if l.svc == nil {
		return nil, ErrNoService
	}
	pr, pw := io.Pipe()
	go func() {
		err := l.svc.Inline(ctx, req, func(chunk string) error {
			_, err := io.WriteString(pw, chunk)
			return err
		})
		if err != nil {
			io.WriteString(pw, api.InlineErrorPrefix+err.Error())
		}
		pw.Close()
	}()
	return pr, nil
}

func (l *Local) Chat(ctx context.Context, req api.ChatRequest) (string, error) {
	if l.svc == nil {
		return "", ErrNoService
	}
	return l.svc.Chat(ctx, req)
}

func (l *Local) SaveLesson(ctx context.Context, doc *lesson.Document) (string, error) {
	if l.lessons == nil {
		return "", fmt.Errorf("no lesson store configured")
	}
	return l.lessons.Save(ctx, l.owner, doc)
}

func (l *Local) LoadLesson(ctx context.Context, id string) (*lesson.Document, error) {
	if l.lessons == nil {
		return nil, fmt.Errorf("no lesson store configured")
	}
	return l.lessons.Get(ctx, l.owner, id)
}

func (l *Local) ListLessons(ctx context.Context) ([]lesson.Summary, error) {
	if l.lessons == nil {
		return nil, fmt.Errorf("no lesson store configured")
	}
	return l.lessons.List(ctx, l.owner)
}
