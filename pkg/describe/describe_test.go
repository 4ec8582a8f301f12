package describe

import (
	"context"
	"errors"
	"testing"

	"github.com/timeliness-app/taskboard-backend/pkg/logger"
)

type generatorFunc func(ctx context.Context, title string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, title string) (string, error) {
	return f(ctx, title)
}

type recordingLogger struct {
	logger.Discard
	errors []error
}

func (l *recordingLogger) Error(_ string, err error) {
	l.errors = append(l.errors, err)
}

func TestFallback_Generate(t *testing.T) {
	tests := []struct {
		name       string
		generator  Generator
		want       string
		wantLogged int
	}{
		{name: "no generator", generator: nil, want: DisabledPlaceholder},
		{name: "disabled", generator: Disabled{}, want: DisabledPlaceholder},
		{
			name: "success",
			generator: generatorFunc(func(_ context.Context, title string) (string, error) {
				return "Steps for " + title, nil
			}),
			want: "Steps for release",
		},
		{
			name: "failure",
			generator: generatorFunc(func(context.Context, string) (string, error) {
				return "", errors.New("rate limited")
			}),
			want:       FailedPlaceholder,
			wantLogged: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordingLogger{}
			fallback := Fallback{Generator: tt.generator, Logger: log}

			got, err := fallback.Generate(context.Background(), "release")
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Generate() got = %v, want %v", got, tt.want)
			}
			if len(log.errors) != tt.wantLogged {
				t.Fatalf("Generate() logged %d errors, want %d", len(log.errors), tt.wantLogged)
			}
			if tt.wantLogged > 0 && !errors.Is(log.errors[0], ErrGeneration) {
				t.Errorf("Generate() logged %v, want ErrGeneration", log.errors[0])
			}
		})
	}
}
