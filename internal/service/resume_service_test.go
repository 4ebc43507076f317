package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"nishtha/internal/config"
	"nishtha/internal/logger"
	"nishtha/internal/model"
)

func TestBuildResumeInput(t *testing.T) {
	learner := &model.Learner{
		Email: "dev@example.com",
		VerifiedProjects: []model.VerifiedProject{
			{CourseName: "Express Basics", ProjectBrief: "Build a server", AIFeedback: "Clean.", Skills: []string{"JavaScript", "Node"}, TransactionHash: "0xabc"},
			{Skills: []string{"Node", "CSS"}},
		},
	}

	in := BuildResumeInput(learner, "https://sepolia.etherscan.io/tx/")

	if in.Basics.Email != "dev@example.com" {
		t.Errorf("basics email = %q", in.Basics.Email)
	}
	first := in.Projects[0]
	wantHighlights := []string{"(AI-Verified): Clean.", "View Proof: https://sepolia.etherscan.io/tx/0xabc"}
	if !reflect.DeepEqual(first.Highlights, wantHighlights) {
		t.Errorf("highlights = %v", first.Highlights)
	}
	second := in.Projects[1]
	if second.Name != "Verified Project" || second.Summary != "Completed a verified project." {
		t.Errorf("defaults not applied: %+v", second)
	}
	skills := in.Skills[0]
	if skills.Name != "AI-Verified Skills" || !reflect.DeepEqual(skills.Keywords, []string{"JavaScript", "Node", "CSS"}) {
		t.Errorf("unexpected skills %+v", skills)
	}
}

func TestResumeGenerate(t *testing.T) {
	learners := newMemLearners()
	gen := &fakeGenerator{response: `{"basics": {"name": "Dev"}, "projects": []}`}
	svc := NewResumeService(learners, gen, config.GeminiModels{Resume: "resume-model"},
		&config.ChainConfig{ExplorerTxURL: "https://sepolia.etherscan.io/tx/"}, logger.Nop())
	ctx := context.Background()

	if _, err := svc.Generate(ctx, "dev@example.com"); !errors.Is(err, ErrNoVerifiedProjects) {
		t.Fatalf("expected ErrNoVerifiedProjects, got %v", err)
	}
	if gen.calls() != 0 {
		t.Fatal("generator must not run without projects")
	}

	learners.AddProject(ctx, "dev@example.com", testWallet, &model.VerifiedProject{ID: "p1", TransactionHash: "0xabc", Skills: []string{"Go"}})
	resume, err := svc.Generate(ctx, "dev@example.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resume["basics"] == nil {
		t.Errorf("resume not returned: %v", resume)
	}
	if !strings.Contains(gen.prompts[0][0].Text, "0xabc") {
		t.Errorf("prompt should carry the verified project data")
	}
}
