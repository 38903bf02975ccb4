package template

import (
	"errors"
	"strings"
	"sync"
	"testing"

	domainBatch "dispatch-ledger-api/src/domain/batch"
	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainTemplate "dispatch-ledger-api/src/domain/template"
	logger "dispatch-ledger-api/src/infrastructure/logger"
)

type mockTemplateRepository struct {
	createFn func(*domainTemplate.Template) (*domainTemplate.Template, error)
}

func (m *mockTemplateRepository) Create(templateDomain *domainTemplate.Template) (*domainTemplate.Template, error) {
	if m.createFn != nil {
		return m.createFn(templateDomain)
	}
	return templateDomain, nil
}
func (m *mockTemplateRepository) GetByID(id uint64) (*domainTemplate.Template, error) {
	return nil, nil
}
func (m *mockTemplateRepository) GetUserTemplateIDs(creator string) ([]uint64, error) {
	return nil, nil
}

type mockCounterRepository struct {
	currentFn     func(string) (uint64, error)
	currentCalled bool
}

func (m *mockCounterRepository) Current(scope string) (uint64, error) {
	m.currentCalled = true
	if m.currentFn != nil {
		return m.currentFn(scope)
	}
	return 1, nil
}

func setupLogger(t *testing.T) *logger.Logger {
	loggerInstance, err := logger.NewLogger()
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return loggerInstance
}

func TestCreateTemplate(t *testing.T) {
	counterRepo := &mockCounterRepository{
		currentFn: func(scope string) (uint64, error) { return 9, nil },
	}
	uc := NewTemplateUseCase(&mockTemplateRepository{}, counterRepo, &sync.Mutex{}, setupLogger(t))

	created, err := uc.CreateTemplate("alice", "welcome", "hello there", true)
	if err != nil {
		t.Fatalf("CreateTemplate() error = %v", err)
	}
	if created.ID != 9 {
		t.Errorf("expected template id 9, got %d", created.ID)
	}
	if !created.Public {
		t.Error("expected template to be public")
	}
	if created.Creator != "alice" {
		t.Errorf("creator = %q, want alice", created.Creator)
	}
}

func TestCreateTemplate_Validation(t *testing.T) {
	tests := []struct {
		name         string
		templateName string
		content      string
	}{
		{name: "empty name", templateName: "", content: "hello"},
		{name: "empty content", templateName: "welcome", content: ""},
		{name: "content too large", templateName: "welcome", content: strings.Repeat("x", domainBatch.MaxContentBytes+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counterRepo := &mockCounterRepository{}
			uc := NewTemplateUseCase(&mockTemplateRepository{}, counterRepo, &sync.Mutex{}, setupLogger(t))

			_, err := uc.CreateTemplate("alice", tt.templateName, tt.content, false)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			var appErr *domainErrors.AppError
			if !errors.As(err, &appErr) || appErr.Type != domainErrors.ValidationError {
				t.Errorf("expected ValidationError, got %v", err)
			}
			if counterRepo.currentCalled {
				t.Error("no template id may be consumed for a rejected creation")
			}
		})
	}
}

func TestTemplateReadableBy(t *testing.T) {
	private := domainTemplate.Template{Creator: "alice", Public: false}
	public := domainTemplate.Template{Creator: "alice", Public: true}

	if !private.ReadableBy("alice") {
		t.Error("creator must be able to read a private template")
	}
	if private.ReadableBy("bob") {
		t.Error("a private template must not be readable by others")
	}
	if !public.ReadableBy("bob") {
		t.Error("a public template must be readable by anyone")
	}
}
