package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestService() *Service {
	// Empty dirs so only the embedded defaults resolve
	return NewService(&Resolver{})
}

func writeTemplate(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestResolver_Resolve(t *testing.T) {
	tmpDir := t.TempDir()
	localDir := filepath.Join(tmpDir, "local")
	userDir := filepath.Join(tmpDir, "user")
	explicitDir := filepath.Join(tmpDir, "explicit")

	writeTemplate(t, localDir, "local-only", "type: survey")
	writeTemplate(t, localDir, "both", "type: survey")
	writeTemplate(t, userDir, "user-only", "type: survey")
	writeTemplate(t, userDir, "both", "type: survey")
	writeTemplate(t, explicitDir, "explicit-only", "type: survey")

	tests := []struct {
		name        string
		template    string
		explicitDir string
		wantSource  string
		wantErr     bool
	}{
		{name: "found in local", template: "local-only", wantSource: "local"},
		{name: "found in user", template: "user-only", wantSource: "user"},
		{name: "local shadows user", template: "both", wantSource: "local"},
		{name: "explicit shadows everything", template: "explicit-only", explicitDir: explicitDir, wantSource: "explicit"},
		{name: "unknown name errors", template: "nonexistent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resolver{
				ExplicitDir: tt.explicitDir,
				LocalDir:    localDir,
				UserDir:     userDir,
			}

			path, source, err := r.Resolve(tt.template)
			if tt.wantErr {
				if err == nil {
					t.Error("Resolve() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if source != tt.wantSource {
				t.Errorf("Resolve() source = %v, want %v", source, tt.wantSource)
			}
			if path == "" {
				t.Error("Resolve() path is empty")
			}
		})
	}
}

func TestResolver_List(t *testing.T) {
	tmpDir := t.TempDir()
	localDir := filepath.Join(tmpDir, "local")
	userDir := filepath.Join(tmpDir, "user")

	writeTemplate(t, localDir, "intake", "type: survey")
	writeTemplate(t, localDir, "feedback", "type: post_test")
	writeTemplate(t, userDir, "feedback", "type: post_test")
	writeTemplate(t, userDir, "exit-poll", "type: survey")

	r := &Resolver{LocalDir: localDir, UserDir: userDir}

	infos := r.List()
	if len(infos) != 3 {
		t.Errorf("List() returned %d templates, want 3", len(infos))
	}

	sources := make(map[string]string)
	for _, info := range infos {
		sources[info.Name] = info.Source
	}
	if sources["intake"] != "local" {
		t.Errorf("intake source = %v, want local", sources["intake"])
	}
	if sources["feedback"] != "local" {
		t.Errorf("feedback source = %v, want local (shadows user)", sources["feedback"])
	}
	if sources["exit-poll"] != "user" {
		t.Errorf("exit-poll source = %v, want user", sources["exit-poll"])
	}
}

func TestResolver_EmptyChain(t *testing.T) {
	r := &Resolver{}

	if _, _, err := r.Resolve("anything"); err == nil {
		t.Error("Resolve() with no directories should error")
	}
	if infos := r.List(); len(infos) != 0 {
		t.Errorf("List() with no directories = %v, want empty", infos)
	}
}

func TestListTemplates_IncludesBuiltins(t *testing.T) {
	localDir := t.TempDir()
	writeTemplate(t, localDir, "feedback", "type: survey\nquestionnaire:\n  title: x\n")

	svc := NewService(&Resolver{LocalDir: localDir})

	infos := svc.ListTemplates()
	sources := make(map[string]string)
	for _, info := range infos {
		sources[info.Name] = info.Source
	}
	// The on-disk feedback shadows the builtin of the same name.
	if sources["feedback"] != "local" {
		t.Errorf("feedback source = %v, want local", sources["feedback"])
	}
	if sources["pre-test"] != "builtin" {
		t.Errorf("pre-test source = %v, want builtin", sources["pre-test"])
	}
}

func TestLoadTemplate_Builtin(t *testing.T) {
	svc := newTestService()

	tmpl, err := svc.LoadTemplate("feedback")
	if err != nil {
		t.Fatalf("LoadTemplate() error: %v", err)
	}

	if tmpl.Type != "post_test" {
		t.Errorf("Type = %v, want post_test", tmpl.Type)
	}
	if tmpl.Questionnaire == nil {
		t.Fatal("Questionnaire section is nil")
	}
	if _, ok := tmpl.Questionnaire["title"]; !ok {
		t.Error("Questionnaire missing title field")
	}
}

func TestLoadTemplate_NotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.LoadTemplate("nonexistent")
	if err == nil {
		t.Error("LoadTemplate() expected error for nonexistent template")
	}
}

func TestLoadTemplate_LocalOverridesBuiltin(t *testing.T) {
	localDir := t.TempDir()
	custom := `type: survey
questionnaire:
  title: "Custom: {{.session}}"
  description: "overridden"
  questions: []
`
	if err := os.WriteFile(filepath.Join(localDir, "feedback.yaml"), []byte(custom), 0644); err != nil {
		t.Fatal(err)
	}

	svc := NewService(&Resolver{LocalDir: localDir})

	tmpl, err := svc.LoadTemplate("feedback")
	if err != nil {
		t.Fatalf("LoadTemplate() error: %v", err)
	}
	if tmpl.Type != "survey" {
		t.Errorf("Type = %v, want survey (local override)", tmpl.Type)
	}
}

func TestParseTemplate_MissingType(t *testing.T) {
	svc := newTestService()

	_, err := svc.parseTemplate([]byte("questionnaire:\n  title: x\n"))
	if err == nil || !strings.Contains(err.Error(), "type") {
		t.Errorf("parseTemplate() error = %v, want missing type error", err)
	}
}

func TestParseTemplate_MissingQuestionnaire(t *testing.T) {
	svc := newTestService()

	_, err := svc.parseTemplate([]byte("type: survey\n"))
	if err == nil || !strings.Contains(err.Error(), "questionnaire") {
		t.Errorf("parseTemplate() error = %v, want missing questionnaire error", err)
	}
}

func TestRenderQuestionnaire(t *testing.T) {
	svc := newTestService()

	tmpl, err := svc.LoadTemplate("feedback")
	if err != nil {
		t.Fatalf("LoadTemplate() error: %v", err)
	}

	q, err := svc.RenderQuestionnaire(tmpl, map[string]interface{}{
		"session": "Spring Onboarding",
		"trainer": "Ada",
	})
	if err != nil {
		t.Fatalf("RenderQuestionnaire() error: %v", err)
	}

	if q.Title != "Feedback: Spring Onboarding" {
		t.Errorf("Title = %q, want %q", q.Title, "Feedback: Spring Onboarding")
	}
	if !strings.Contains(q.Description, "Ada") {
		t.Errorf("Description = %q, want trainer name substituted", q.Description)
	}
	if q.Type != "post_test" {
		t.Errorf("Type = %v, want post_test (injected from template)", q.Type)
	}
	if len(q.Questions) != 3 {
		t.Fatalf("len(Questions) = %d, want 3", len(q.Questions))
	}
	if q.Questions[0].Type != "multiple_choice_single" {
		t.Errorf("Questions[0].Type = %v, want multiple_choice_single", q.Questions[0].Type)
	}
	if !q.Questions[0].IsRequired {
		t.Error("Questions[0].IsRequired = false, want true")
	}
	choices, ok := q.Questions[0].Configuration["choices"].([]interface{})
	if !ok || len(choices) != 4 {
		t.Errorf("Questions[0] choices = %v, want 4 entries", q.Questions[0].Configuration["choices"])
	}
}

func TestRenderQuestionnaire_Defaults(t *testing.T) {
	svc := newTestService()

	tmpl, err := svc.LoadTemplate("pre-test")
	if err != nil {
		t.Fatalf("LoadTemplate() error: %v", err)
	}

	// No topic provided: the default filter should fill it in
	q, err := svc.RenderQuestionnaire(tmpl, map[string]interface{}{
		"session": "Intro to SQL",
		"topic":   "",
	})
	if err != nil {
		t.Fatalf("RenderQuestionnaire() error: %v", err)
	}

	if q.Title != "Pre-test: Intro to SQL" {
		t.Errorf("Title = %q, want %q", q.Title, "Pre-test: Intro to SQL")
	}
	if !strings.Contains(q.Description, "the session topic") {
		t.Errorf("Description = %q, want default topic text", q.Description)
	}
	if !q.IsPaginated {
		t.Error("IsPaginated = false, want true")
	}
}

func TestRenderQuestionnaire_MissingTitle(t *testing.T) {
	svc := newTestService()

	tmpl := &Template{
		Type: "survey",
		Questionnaire: map[string]interface{}{
			"title":     "",
			"questions": []interface{}{},
		},
	}

	_, err := svc.RenderQuestionnaire(tmpl, map[string]interface{}{})
	if err == nil || !strings.Contains(err.Error(), "title") {
		t.Errorf("RenderQuestionnaire() error = %v, want missing title error", err)
	}
}

func TestGetBuiltinNames(t *testing.T) {
	svc := newTestService()

	names := svc.GetBuiltinNames()
	found := make(map[string]bool)
	for _, n := range names {
		found[n] = true
	}
	if !found["feedback"] || !found["pre-test"] {
		t.Errorf("GetBuiltinNames() = %v, want feedback and pre-test", names)
	}
}

func TestInitTemplatesToDir(t *testing.T) {
	svc := newTestService()
	dir := t.TempDir()

	if err := svc.InitTemplatesToDir(dir); err != nil {
		t.Fatalf("InitTemplatesToDir() error: %v", err)
	}

	for _, name := range []string{"feedback.yaml", "pre-test.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}

	// Existing files must not be overwritten
	marker := []byte("type: survey\nquestionnaire:\n  title: keep\n")
	if err := os.WriteFile(filepath.Join(dir, "feedback.yaml"), marker, 0644); err != nil {
		t.Fatal(err)
	}
	if err := svc.InitTemplatesToDir(dir); err != nil {
		t.Fatalf("InitTemplatesToDir() second run error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "feedback.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(marker) {
		t.Error("InitTemplatesToDir() overwrote an existing template")
	}
}
