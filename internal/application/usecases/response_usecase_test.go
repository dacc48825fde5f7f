package usecases

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/opinamais/opina-api/internal/domain/entities"
	"github.com/opinamais/opina-api/pkg/apperr"
)

type responseFixture struct {
	surveyRepo   *fakeSurveyRepo
	responseRepo *fakeResponseRepo
	customerRepo *fakeCustomerRepo
	uc           *ResponseUseCase
}

func newResponseFixture() *responseFixture {
	surveyRepo := newFakeSurveyRepo()
	responseRepo := newFakeResponseRepo()
	customerRepo := newFakeCustomerRepo()
	resolver := NewIdentityResolver(customerRepo, responseRepo)
	uc := NewResponseUseCase(responseRepo, surveyRepo, customerRepo, resolver)
	uc.now = func() time.Time { return fixedNow }
	return &responseFixture{
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
		customerRepo: customerRepo,
		uc:           uc,
	}
}

func TestSubmitCreatesPendingResponse(t *testing.T) {
	f := newResponseFixture()
	survey := seedSurvey(t, f.surveyRepo, nil)

	response, err := f.uc.Submit(context.Background(), SubmitResponseInput{
		SurveyID: survey.SurveyID,
		Answers: []entities.Answer{
			{QuestionID: "q1", Value: 5},
			{QuestionID: "q2", Value: "Atendimento ótimo"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if response.ApprovalState != entities.ApprovalPending {
		t.Errorf("approval state = %q, want %q", response.ApprovalState, entities.ApprovalPending)
	}
	if response.RewardPoints != survey.RewardPoints {
		t.Errorf("reward points = %d, want %d (copied from survey)", response.RewardPoints, survey.RewardPoints)
	}
	if response.BusinessID != survey.BusinessID {
		t.Errorf("business = %q, want %q (copied from survey)", response.BusinessID, survey.BusinessID)
	}
	if response.CustomerID != "" {
		t.Errorf("anonymous submission attributed to %q", response.CustomerID)
	}
	if len(f.responseRepo.responses) != 1 {
		t.Fatalf("ledger has %d responses, want 1", len(f.responseRepo.responses))
	}
}

func TestSubmitOptionalQuestionMayBeOmitted(t *testing.T) {
	f := newResponseFixture()
	survey := seedSurvey(t, f.surveyRepo, nil)

	_, err := f.uc.Submit(context.Background(), SubmitResponseInput{
		SurveyID: survey.SurveyID,
		Answers:  []entities.Answer{{QuestionID: "q1", Value: 3}},
	}, nil)
	if err != nil {
		t.Fatalf("Submit without the optional question: %v", err)
	}
}

func TestSubmitRejectsMissingRequired(t *testing.T) {
	f := newResponseFixture()
	survey := seedSurvey(t, f.surveyRepo, func(s *entities.Survey) {
		s.Questions = entities.QuestionList{
			{QuestionID: "q1", Text: "Nota", Type: entities.QuestionTypeRating, Required: true},
			{QuestionID: "q2", Text: "Recomendaria?", Type: entities.QuestionTypeRating, Required: true},
			{QuestionID: "q3", Text: "Comentários", Type: entities.QuestionTypeText},
		}
	})

	_, err := f.uc.Submit(context.Background(), SubmitResponseInput{
		SurveyID: survey.SurveyID,
		Answers: []entities.Answer{
			{QuestionID: "q1", Value: 4},
			{QuestionID: "q3", Value: "ok"},
		},
	}, nil)
	if !apperr.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "q2") {
		t.Errorf("error should name the missing question, got %q", err.Error())
	}
	if len(f.responseRepo.responses) != 0 {
		t.Error("rejected submission must not reach the ledger")
	}
}

func TestSubmitSurveyErrors(t *testing.T) {
	past := fixedNow.Add(-time.Hour)

	tests := []struct {
		name     string
		surveyID func(f *responseFixture) string
		mutate   func(*entities.Survey)
		wantKind apperr.Kind
	}{
		{"malformed survey id", func(f *responseFixture) string { return "abc" }, nil, apperr.KindValidation},
		{"unknown survey", func(f *responseFixture) string { return uuid.NewString() }, nil, apperr.KindValidation},
		{"inactive survey", nil, func(s *entities.Survey) { s.IsActive = false }, apperr.KindInactive},
		{"expired survey", nil, func(s *entities.Survey) { s.EndDate = &past }, apperr.KindInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newResponseFixture()
			survey := seedSurvey(t, f.surveyRepo, tt.mutate)
			surveyID := survey.SurveyID
			if tt.surveyID != nil {
				surveyID = tt.surveyID(f)
			}

			_, err := f.uc.Submit(context.Background(), SubmitResponseInput{
				SurveyID: surveyID,
				Answers:  []entities.Answer{{QuestionID: "q1", Value: 5}},
			}, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperr.KindOf(err); got != tt.wantKind {
				t.Fatalf("error kind = %v, want %v (err: %v)", got, tt.wantKind, err)
			}
		})
	}
}

func TestSubmitVerifiedCallerAttribution(t *testing.T) {
	f := newResponseFixture()
	survey := seedSurvey(t, f.surveyRepo, nil)

	customer := &entities.Customer{CustomerID: uuid.NewString(), Name: "Ana Souza", Email: "ana@example.com"}
	if err := f.customerRepo.Create(context.Background(), customer); err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	caller := &CallerIdentity{Role: RoleCustomer, CustomerID: customer.CustomerID}
	response, err := f.uc.Submit(context.Background(), SubmitResponseInput{
		SurveyID: survey.SurveyID,
		Answers:  []entities.Answer{{QuestionID: "q1", Value: 5}},
	}, caller)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if response.CustomerID != customer.CustomerID {
		t.Errorf("response attributed to %q, want %q", response.CustomerID, customer.CustomerID)
	}
	if !customer.CompletedSurveys.Contains(survey.SurveyID) {
		t.Error("survey should be appended to the customer's completed list")
	}

	// Segunda submissão não duplica a entrada na lista
	if _, err := f.uc.Submit(context.Background(), SubmitResponseInput{
		SurveyID: survey.SurveyID,
		Answers:  []entities.Answer{{QuestionID: "q1", Value: 4}},
	}, caller); err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if got := len(customer.CompletedSurveys); got != 1 {
		t.Errorf("completed surveys has %d entries, want 1", got)
	}
}

func TestSetApprovalState(t *testing.T) {
	f := newResponseFixture()
	survey := seedSurvey(t, f.surveyRepo, nil)

	response, err := f.uc.Submit(context.Background(), SubmitResponseInput{
		SurveyID: survey.SurveyID,
		Answers:  []entities.Answer{{QuestionID: "q1", Value: 5}},
	}, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	admin := adminFor(survey)
	reviewed, err := f.uc.SetApprovalState(context.Background(), response.ResponseID, entities.ApprovalApproved, admin)
	if err != nil {
		t.Fatalf("SetApprovalState: %v", err)
	}
	if reviewed.ApprovalState != entities.ApprovalApproved {
		t.Errorf("state = %q, want approved", reviewed.ApprovalState)
	}
	if reviewed.ReviewedBy != admin.UserID {
		t.Errorf("reviewed by = %q, want %q", reviewed.ReviewedBy, admin.UserID)
	}
	if reviewed.ReviewedAt == nil || !reviewed.ReviewedAt.Equal(fixedNow) {
		t.Errorf("reviewed at = %v, want %v", reviewed.ReviewedAt, fixedNow)
	}

	stored, _ := f.responseRepo.FindByID(context.Background(), response.ResponseID)
	if stored.ApprovalState != entities.ApprovalApproved {
		t.Error("approval state not persisted")
	}
}

func TestSetApprovalStateAuthorization(t *testing.T) {
	f := newResponseFixture()
	survey := seedSurvey(t, f.surveyRepo, nil)

	response, err := f.uc.Submit(context.Background(), SubmitResponseInput{
		SurveyID: survey.SurveyID,
		Answers:  []entities.Answer{{QuestionID: "q1", Value: 5}},
	}, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	tests := []struct {
		name    string
		actor   *CallerIdentity
		wantErr bool
	}{
		{"admin of the response's business", adminFor(survey), false},
		{"super admin", &CallerIdentity{UserID: uuid.NewString(), Role: RoleSuperAdmin}, false},
		{"admin of another business", &CallerIdentity{Role: RoleBusinessAdmin, BusinessID: uuid.NewString()}, true},
		{"customer", &CallerIdentity{Role: RoleCustomer}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.SetApprovalState(context.Background(), response.ResponseID, entities.ApprovalRejected, tt.actor)
			if tt.wantErr {
				if !apperr.IsUnauthorized(err) {
					t.Fatalf("expected Unauthorized, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetApprovalState: %v", err)
			}
		})
	}
}

func TestSetApprovalStateValidation(t *testing.T) {
	f := newResponseFixture()
	admin := &CallerIdentity{UserID: uuid.NewString(), Role: RoleSuperAdmin}

	if _, err := f.uc.SetApprovalState(context.Background(), "bogus", entities.ApprovalApproved, admin); !apperr.IsValidation(err) {
		t.Errorf("malformed id: expected ValidationError, got %v", err)
	}
	if _, err := f.uc.SetApprovalState(context.Background(), uuid.NewString(), entities.ApprovalPending, admin); !apperr.IsValidation(err) {
		t.Errorf("pending is not a reviewable state: expected ValidationError, got %v", err)
	}
	if _, err := f.uc.SetApprovalState(context.Background(), uuid.NewString(), entities.ApprovalApproved, admin); !apperr.IsNotFound(err) {
		t.Errorf("unknown response: expected NotFound, got %v", err)
	}
}
