package usecases

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/opinamais/opina-api/internal/domain/entities"
	"github.com/opinamais/opina-api/pkg/apperr"
)

var fixedNow = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

func newTokenUseCaseForTest(surveyRepo *fakeSurveyRepo, tokenRepo *fakeTokenRepo) *AccessTokenUseCase {
	uc := NewAccessTokenUseCase(tokenRepo, surveyRepo, "https://opinamais.com.br")
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func seedSurvey(t *testing.T, repo *fakeSurveyRepo, mutate func(*entities.Survey)) *entities.Survey {
	t.Helper()
	survey := &entities.Survey{
		SurveyID:   uuid.NewString(),
		Title:      "Satisfação no atendimento",
		BusinessID: uuid.NewString(),
		Questions: entities.QuestionList{
			{QuestionID: "q1", Text: "Nota geral", Type: entities.QuestionTypeRating, Required: true},
			{QuestionID: "q2", Text: "Comentários", Type: entities.QuestionTypeText},
		},
		RewardPoints: 20,
		IsActive:     true,
	}
	if mutate != nil {
		mutate(survey)
	}
	if err := repo.Create(context.Background(), survey); err != nil {
		t.Fatalf("seed survey: %v", err)
	}
	return survey
}

func adminFor(survey *entities.Survey) *CallerIdentity {
	return &CallerIdentity{UserID: uuid.NewString(), Role: RoleBusinessAdmin, BusinessID: survey.BusinessID}
}

func TestIssueGeneratesDistinctCodes(t *testing.T) {
	surveyRepo := newFakeSurveyRepo()
	tokenRepo := newFakeTokenRepo()
	survey := seedSurvey(t, surveyRepo, nil)
	uc := newTokenUseCaseForTest(surveyRepo, tokenRepo)

	tokens, err := uc.Issue(context.Background(), IssueTokenInput{SurveyID: survey.SurveyID, Count: 2}, adminFor(survey))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Code == tokens[1].Code {
		t.Fatalf("expected distinct codes, both are %q", tokens[0].Code)
	}
	for _, token := range tokens {
		if token.SurveyID != survey.SurveyID {
			t.Errorf("token survey = %q, want %q", token.SurveyID, survey.SurveyID)
		}
		if token.ScanCount != 0 {
			t.Errorf("new token scan count = %d, want 0", token.ScanCount)
		}
		if !token.IsActive {
			t.Error("new token should be active")
		}
		if token.PesquisaID != token.SurveyID {
			t.Errorf("legacy survey reference %q != %q", token.PesquisaID, token.SurveyID)
		}
		if token.EmpresaID != token.BusinessID {
			t.Errorf("legacy business reference %q != %q", token.EmpresaID, token.BusinessID)
		}
		if !strings.HasPrefix(token.URL, "https://opinamais.com.br/s/") {
			t.Errorf("unexpected token URL %q", token.URL)
		}
	}
}

func TestIssueRetriesOnCodeCollision(t *testing.T) {
	surveyRepo := newFakeSurveyRepo()
	tokenRepo := newFakeTokenRepo()
	survey := seedSurvey(t, surveyRepo, nil)
	uc := newTokenUseCaseForTest(surveyRepo, tokenRepo)

	suffixes := []string{"aaaa", "bbbb"}
	uc.randSuffix = func() string {
		s := suffixes[0]
		if len(suffixes) > 1 {
			suffixes = suffixes[1:]
		}
		return s
	}

	// Ocupa o código que a primeira tentativa vai gerar
	fragment := strings.ReplaceAll(survey.SurveyID, "-", "")[:6]
	timestamp := strconv.FormatInt(fixedNow.UnixMilli(), 36)
	taken := &entities.AccessToken{
		TokenID:    uuid.NewString(),
		Code:       fragment + timestamp + "aaaa",
		SurveyID:   survey.SurveyID,
		BusinessID: survey.BusinessID,
		IsActive:   true,
	}
	if err := tokenRepo.Create(context.Background(), taken); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	tokens, err := uc.Issue(context.Background(), IssueTokenInput{SurveyID: survey.SurveyID, Count: 1}, adminFor(survey))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if want := fragment + timestamp + "bbbb"; tokens[0].Code != want {
		t.Fatalf("expected regenerated code %q, got %q", want, tokens[0].Code)
	}
}

func TestIssueValidation(t *testing.T) {
	surveyRepo := newFakeSurveyRepo()
	tokenRepo := newFakeTokenRepo()
	survey := seedSurvey(t, surveyRepo, nil)
	uc := newTokenUseCaseForTest(surveyRepo, tokenRepo)
	admin := adminFor(survey)

	tests := []struct {
		name  string
		input IssueTokenInput
		actor *CallerIdentity
		kind  apperr.Kind
	}{
		{"malformed survey id", IssueTokenInput{SurveyID: "not-a-uuid"}, admin, apperr.KindValidation},
		{"unknown survey", IssueTokenInput{SurveyID: uuid.NewString()}, admin, apperr.KindNotFound},
		{"count above limit", IssueTokenInput{SurveyID: survey.SurveyID, Count: maxTokensPerIssue + 1}, admin, apperr.KindValidation},
		{"admin of another business", IssueTokenInput{SurveyID: survey.SurveyID, Count: 1},
			&CallerIdentity{Role: RoleBusinessAdmin, BusinessID: uuid.NewString()}, apperr.KindUnauthorized},
		{"customer role", IssueTokenInput{SurveyID: survey.SurveyID, Count: 1},
			&CallerIdentity{Role: RoleCustomer}, apperr.KindUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Issue(context.Background(), tt.input, tt.actor)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperr.KindOf(err); got != tt.kind {
				t.Fatalf("error kind = %v, want %v (err: %v)", got, tt.kind, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	past := fixedNow.Add(-48 * time.Hour)
	future := fixedNow.Add(48 * time.Hour)

	tests := []struct {
		name        string
		mutate      func(*entities.Survey)
		tokenActive bool
		wantKind    apperr.Kind
		wantOK      bool
	}{
		{"active survey, active token", nil, true, 0, true},
		{"open-ended window", func(s *entities.Survey) { s.StartDate = nil; s.EndDate = nil }, true, 0, true},
		{"inactive token", nil, false, apperr.KindInactive, false},
		{"inactive survey", func(s *entities.Survey) { s.IsActive = false }, true, apperr.KindInactive, false},
		{"end date in the past", func(s *entities.Survey) { s.EndDate = &past }, true, apperr.KindInactive, false},
		{"start date in the future", func(s *entities.Survey) { s.StartDate = &future }, true, apperr.KindInactive, false},
		{"window containing now", func(s *entities.Survey) { s.StartDate = &past; s.EndDate = &future }, true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surveyRepo := newFakeSurveyRepo()
			tokenRepo := newFakeTokenRepo()
			survey := seedSurvey(t, surveyRepo, tt.mutate)
			uc := newTokenUseCaseForTest(surveyRepo, tokenRepo)

			tokens, err := uc.Issue(context.Background(), IssueTokenInput{SurveyID: survey.SurveyID, Count: 1}, adminFor(survey))
			if err != nil {
				t.Fatalf("Issue: %v", err)
			}
			if !tt.tokenActive {
				if _, err := uc.SetActive(context.Background(), tokens[0].TokenID, false, adminFor(survey)); err != nil {
					t.Fatalf("SetActive: %v", err)
				}
			}

			gotSurvey, gotToken, err := uc.Validate(context.Background(), tokens[0].Code)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				if gotSurvey.SurveyID != survey.SurveyID || gotToken.Code != tokens[0].Code {
					t.Fatal("Validate returned the wrong pair")
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperr.KindOf(err); got != tt.wantKind {
				t.Fatalf("error kind = %v, want %v (err: %v)", got, tt.wantKind, err)
			}
		})
	}
}

func TestValidateUnknownCode(t *testing.T) {
	uc := newTokenUseCaseForTest(newFakeSurveyRepo(), newFakeTokenRepo())
	_, _, err := uc.Validate(context.Background(), "nope")
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestRecordScanCountsIndependently(t *testing.T) {
	surveyRepo := newFakeSurveyRepo()
	tokenRepo := newFakeTokenRepo()
	survey := seedSurvey(t, surveyRepo, nil)
	uc := newTokenUseCaseForTest(surveyRepo, tokenRepo)

	tokens, err := uc.Issue(context.Background(), IssueTokenInput{SurveyID: survey.SurveyID, Count: 2}, adminFor(survey))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := uc.RecordScan(context.Background(), tokens[0].Code); err != nil {
			t.Fatalf("RecordScan: %v", err)
		}
	}

	first, _ := tokenRepo.FindByCode(context.Background(), tokens[0].Code)
	second, _ := tokenRepo.FindByCode(context.Background(), tokens[1].Code)
	if first.ScanCount != 3 {
		t.Errorf("first token scan count = %d, want 3", first.ScanCount)
	}
	if second.ScanCount != 0 {
		t.Errorf("second token scan count = %d, want 0", second.ScanCount)
	}
}

func TestDeleteToken(t *testing.T) {
	surveyRepo := newFakeSurveyRepo()
	tokenRepo := newFakeTokenRepo()
	survey := seedSurvey(t, surveyRepo, nil)
	uc := newTokenUseCaseForTest(surveyRepo, tokenRepo)

	tokens, err := uc.Issue(context.Background(), IssueTokenInput{SurveyID: survey.SurveyID, Count: 1}, adminFor(survey))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	outsider := &CallerIdentity{Role: RoleBusinessAdmin, BusinessID: uuid.NewString()}
	if err := uc.Delete(context.Background(), tokens[0].TokenID, outsider); !apperr.IsUnauthorized(err) {
		t.Fatalf("expected Unauthorized for outsider, got %v", err)
	}

	if err := uc.Delete(context.Background(), tokens[0].TokenID, adminFor(survey)); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := tokenRepo.FindByCode(context.Background(), tokens[0].Code); !apperr.IsNotFound(err) {
		t.Fatalf("token should be gone, got %v", err)
	}
}
